package repository

import (
	"time"

	"github.com/reshetovitsme/rss-digest-feed/internal/modules/article/domain"
)

// Repository defines the interface for article data persistence
type Repository interface {
	// GetByURL returns the stored article for a URL, or (nil, nil)
	// when no article with that URL exists.
	GetByURL(url string) (*domain.Article, error)
	// Save persists an article and returns its id.
	Save(article *domain.Article) (string, error)
	List(filter domain.Filter) (*domain.Page, error)
	Count() (int, error)
	// DeleteOlderThan removes articles created before the cutoff and
	// returns how many were deleted.
	DeleteOlderThan(cutoff time.Time) (int, error)
}
