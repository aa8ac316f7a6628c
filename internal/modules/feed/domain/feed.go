package domain

// Definition represents one configured feed source. The list of
// definitions is loaded once at startup and is read-only afterwards.
type Definition struct {
	ID          string     `koanf:"id" json:"id"`
	URL         string     `koanf:"url" json:"url"`
	Format      FeedFormat `koanf:"format" json:"format"`
	DisplayName string     `koanf:"display_name" json:"display_name"`
	Color       int        `koanf:"color" json:"color"`
	Enabled     bool       `koanf:"enabled" json:"enabled"`
}

// Item is one entry extracted from a feed document. Items live only for
// the duration of a fetch cycle; they are never stored as-is.
type Item struct {
	Title         string `json:"title"`
	URL           string `json:"url"`
	PublishedDate string `json:"published_date"`
	Content       string `json:"content"`

	// DateWasFallback marks items whose published date could not be
	// parsed and was replaced with the time of parsing.
	DateWasFallback bool `json:"date_was_fallback,omitempty"`
}
