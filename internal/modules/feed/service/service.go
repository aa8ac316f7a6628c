package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/go-resty/resty/v2"
	"github.com/reshetovitsme/rss-digest-feed/internal/modules/feed/domain"
	"github.com/reshetovitsme/rss-digest-feed/internal/modules/feed/parser"
	"github.com/samber/oops"
)

// Service retrieves all configured feed sources concurrently and
// normalizes their payloads into items.
type Service struct {
	client *resty.Client
	parser *parser.Parser
}

// New creates a new fetch service
func New(client *resty.Client, p *parser.Parser) *Service {
	return &Service{
		client: client,
		parser: p,
	}
}

// FetchAll issues one retrieval per source concurrently and joins the
// results. A failure on any single source degrades that source to an
// empty item list and never aborts its siblings; every source id from
// the input appears as a key in the result. The only hard error is a
// cancelled context.
func (s *Service) FetchAll(ctx context.Context, sources []domain.Definition) (map[string][]domain.Item, error) {
	results := make(map[string][]domain.Item, len(sources))

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)

	for _, source := range sources {
		wg.Add(1)
		go func(src domain.Definition) {
			defer wg.Done()

			items, err := s.fetchSource(ctx, src)
			if err != nil {
				slog.Warn("Failed to fetch feed source", "feed_id", src.ID, "url", src.URL, "error", err)
				items = []domain.Item{}
			}

			mu.Lock()
			results[src.ID] = items
			mu.Unlock()
		}(source)
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, oops.With("context", "fetch-all aborted").Wrap(err)
	}

	return results, nil
}

// fetchSource retrieves and parses one feed document.
func (s *Service) fetchSource(ctx context.Context, source domain.Definition) ([]domain.Item, error) {
	resp, err := s.client.R().SetContext(ctx).Get(source.URL)
	if err != nil {
		return nil, oops.With("feed_id", source.ID, "context", "feed request failed").Wrap(err)
	}
	if resp.IsError() {
		return nil, oops.Errorf("feed %s returned HTTP %d", source.ID, resp.StatusCode())
	}

	items, err := s.parser.Parse(resp.String(), source.Format)
	if err != nil {
		return nil, oops.With("feed_id", source.ID, "context", "feed parsing failed").Wrap(err)
	}
	return items, nil
}
