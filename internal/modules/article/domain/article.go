package domain

import "time"

// Article is one stored feed item. The URL is the unique key: no two
// stored articles ever share one, and an article is never mutated after
// creation except to backfill its summary.
type Article struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	URL             string    `json:"url"`
	PublishedDate   string    `json:"published_date"`
	FeedSource      string    `json:"feed_source"`
	OriginalContent string    `json:"original_content,omitempty"`
	Summary         string    `json:"summary,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Filter narrows article listings. An empty or "all" source matches
// every feed.
type Filter struct {
	Source string
	Page   int
	Limit  int
}

// Page is one page of a filtered article listing.
type Page struct {
	Data       []*Article `json:"data"`
	Total      int        `json:"total"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	TotalPages int        `json:"total_pages"`
}
