// Package service drives the ingestion cycle: fetch every configured
// feed, dedup against stored articles, summarize best-effort, persist,
// and hand the new articles to the notification dispatcher.
package service

import (
	"context"
	"log/slog"

	articleDomain "github.com/reshetovitsme/rss-digest-feed/internal/modules/article/domain"
	articleRepo "github.com/reshetovitsme/rss-digest-feed/internal/modules/article/repository"
	feedDomain "github.com/reshetovitsme/rss-digest-feed/internal/modules/feed/domain"
	summaryDomain "github.com/reshetovitsme/rss-digest-feed/internal/modules/summary/domain"
	sharedErrors "github.com/reshetovitsme/rss-digest-feed/internal/shared/errors"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// Fetcher retrieves all feed sources and returns items keyed by id.
type Fetcher interface {
	FetchAll(ctx context.Context, sources []feedDomain.Definition) (map[string][]feedDomain.Item, error)
}

// Summarizer produces a capped summary for one item.
type Summarizer interface {
	Summarize(ctx context.Context, req summaryDomain.Request) (*summaryDomain.Response, error)
}

// Notifier delivers the batch of newly stored articles.
type Notifier interface {
	NotifyBatch(ctx context.Context, articles []*articleDomain.Article) error
}

// Outcome is the terminal state of processing one feed item.
type Outcome struct {
	IsNew        bool
	SavedArticle *articleDomain.Article
}

// SourceStats is the per-source breakdown of one cycle.
type SourceStats struct {
	Fetched int `json:"fetched"`
	New     int `json:"new"`
	Errors  int `json:"errors"`
}

// Report aggregates one ingestion cycle. Every cycle owns its own
// report; there is no state shared between runs.
type Report struct {
	ProcessedCount   int                      `json:"processed_count"`
	NewArticlesCount int                      `json:"new_articles_count"`
	ErrorCount       int                      `json:"error_count"`
	Sources          map[string]SourceStats   `json:"sources"`
	NewArticles      []*articleDomain.Article `json:"-"`
}

// Service orchestrates the ingestion pipeline.
type Service struct {
	feeds      []feedDomain.Definition
	fetcher    Fetcher
	repo       articleRepo.Repository
	summarizer Summarizer
	notifier   Notifier
}

// New creates a new ingestion service
func New(feeds []feedDomain.Definition, fetcher Fetcher, repo articleRepo.Repository, summarizer Summarizer, notifier Notifier) *Service {
	return &Service{
		feeds:      feeds,
		fetcher:    fetcher,
		repo:       repo,
		summarizer: summarizer,
		notifier:   notifier,
	}
}

// RunCycle executes one end-to-end ingestion cycle over every enabled
// feed. Per-item failures are contained and counted; the only error
// that propagates is a failure of the fetch-all step itself.
func (s *Service) RunCycle(ctx context.Context) (*Report, error) {
	slog.Info("Starting feed ingestion cycle")

	enabled := lo.Filter(s.feeds, func(f feedDomain.Definition, _ int) bool {
		return f.Enabled
	})
	if len(enabled) == 0 {
		return nil, sharedErrors.ErrNoFeedsConfigured
	}

	results, err := s.fetcher.FetchAll(ctx, enabled)
	if err != nil {
		slog.Error("Failed to fetch feeds", "error", err)
		return nil, oops.With("context", "fetch-all step failed").Wrap(err)
	}

	report := &Report{Sources: make(map[string]SourceStats, len(enabled))}

	// Iterate definitions, not the result map, to keep the order of
	// processing and error reporting stable across runs.
	for _, source := range enabled {
		items := results[source.ID]
		stats := SourceStats{Fetched: len(items)}

		for _, item := range items {
			outcome, err := s.processItem(ctx, source.ID, item)
			if err != nil {
				report.ErrorCount++
				stats.Errors++
				slog.Error("Failed to process feed item", "url", item.URL, "feed_id", source.ID, "error", err)
				continue
			}

			report.ProcessedCount++
			if outcome.IsNew && outcome.SavedArticle != nil {
				report.NewArticlesCount++
				stats.New++
				report.NewArticles = append(report.NewArticles, outcome.SavedArticle)
			}
		}

		report.Sources[source.ID] = stats
	}

	if len(report.NewArticles) > 0 {
		if err := s.notifier.NotifyBatch(ctx, report.NewArticles); err != nil {
			slog.Error("Failed to dispatch notifications", "error", err, "article_count", len(report.NewArticles))
		} else {
			slog.Info("Notifications dispatched", "article_count", len(report.NewArticles))
		}
	}

	slog.Info("Feed ingestion cycle completed",
		"processed_count", report.ProcessedCount,
		"new_articles_count", report.NewArticlesCount,
		"error_count", report.ErrorCount)

	return report, nil
}

// processItem runs the per-item state machine: skip existing, summarize
// best-effort, persist. A summarization failure degrades to an article
// without a summary; only existence-check and persistence failures
// surface to the caller.
func (s *Service) processItem(ctx context.Context, sourceID string, item feedDomain.Item) (*Outcome, error) {
	existing, err := s.repo.GetByURL(item.URL)
	if err != nil {
		return nil, oops.With("url", item.URL, "context", "existence check failed").Wrap(err)
	}
	if existing != nil {
		return &Outcome{IsNew: false}, nil
	}

	var summaryText string
	if item.Title != "" || item.Content != "" {
		resp, err := s.summarizer.Summarize(ctx, summaryDomain.Request{
			Title:   item.Title,
			Content: item.Content,
		})
		if err != nil {
			slog.Warn("Failed to generate summary for article", "url", item.URL, "error", err)
		} else {
			summaryText = resp.Summary
		}
	}

	if item.DateWasFallback {
		slog.Debug("Published date fell back to parse time", "url", item.URL, "feed_id", sourceID)
	}

	article := &articleDomain.Article{
		Title:           item.Title,
		URL:             item.URL,
		PublishedDate:   item.PublishedDate,
		FeedSource:      sourceID,
		OriginalContent: item.Content,
		Summary:         summaryText,
	}

	if _, err := s.repo.Save(article); err != nil {
		return nil, oops.With("url", item.URL, "context", "failed to persist article").Wrap(err)
	}

	return &Outcome{IsNew: true, SavedArticle: article}, nil
}
