package service

import (
	"fmt"
	"time"

	"github.com/gorilla/feeds"
	articleDomain "github.com/reshetovitsme/rss-digest-feed/internal/modules/article/domain"
	articleRepo "github.com/reshetovitsme/rss-digest-feed/internal/modules/article/repository"
	"github.com/samber/oops"
)

const defaultDigestSize = 50

// Service generates an aggregated RSS digest of stored articles
type Service struct {
	articleRepo articleRepo.Repository
}

// New creates a new digest service
func New(repo articleRepo.Repository) *Service {
	return &Service{articleRepo: repo}
}

// GenerateFeed builds an RSS feed of the most recent articles,
// optionally filtered by feed source
func (s *Service) GenerateFeed(source string, baseURL string) (*feeds.Feed, error) {
	page, err := s.articleRepo.List(articleDomain.Filter{
		Source: source,
		Page:   1,
		Limit:  defaultDigestSize,
	})
	if err != nil {
		return nil, oops.With("source", source, "context", "failed to list articles").Wrap(err)
	}

	title := "RSS Digest"
	if source != "" {
		title = fmt.Sprintf("RSS Digest - %s", source)
	}

	feed := &feeds.Feed{
		Title:       title,
		Link:        &feeds.Link{Href: fmt.Sprintf("%s/digest.rss", baseURL)},
		Description: "Aggregated feed of recently ingested articles with AI summaries",
		Updated:     time.Now().UTC(),
	}

	var items []*feeds.Item
	for _, article := range page.Data {
		items = append(items, s.articleToFeedItem(article))
	}

	feed.Items = items
	return feed, nil
}

func (s *Service) articleToFeedItem(article *articleDomain.Article) *feeds.Item {
	description := article.Summary
	if description == "" {
		description = article.OriginalContent
	}

	created := article.CreatedAt
	if published, err := time.Parse(time.RFC3339, article.PublishedDate); err == nil {
		created = published
	}

	return &feeds.Item{
		Title:       article.Title,
		Link:        &feeds.Link{Href: article.URL},
		Description: description,
		Author:      &feeds.Author{Name: article.FeedSource},
		Created:     created,
		Id:          article.ID,
	}
}
