package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/reshetovitsme/rss-digest-feed/internal/modules/article/domain"
)

const defaultPacing = 100 * time.Millisecond

// Channel delivers a notification for one article to one destination.
type Channel interface {
	Name() string
	Notify(ctx context.Context, article *domain.Article) error
}

// Dispatcher fans notifications out to the configured channels, one
// article at a time with a pacing delay between sends as a courtesy to
// rate-limited receivers.
type Dispatcher struct {
	channels []Channel
	pacing   time.Duration
}

// NewDispatcher creates a dispatcher over the given channels.
func NewDispatcher(channels ...Channel) *Dispatcher {
	return &Dispatcher{
		channels: channels,
		pacing:   defaultPacing,
	}
}

// SetPacing replaces the inter-article delay. Tests inject zero.
func (d *Dispatcher) SetPacing(pacing time.Duration) {
	d.pacing = pacing
}

// NotifyBatch sends one notification per article sequentially. A
// failure for one article is logged and does not stop the batch. With
// no channels configured the whole batch is a single logged no-op.
func (d *Dispatcher) NotifyBatch(ctx context.Context, articles []*domain.Article) error {
	if len(d.channels) == 0 {
		slog.Info("No notification channels configured, skipping batch", "article_count", len(articles))
		return nil
	}

	for i, article := range articles {
		if err := ctx.Err(); err != nil {
			return err
		}

		for _, channel := range d.channels {
			if err := channel.Notify(ctx, article); err != nil {
				slog.Error("Failed to send notification",
					"channel", channel.Name(),
					"article_id", article.ID,
					"article_title", article.Title,
					"feed_source", article.FeedSource,
					"error", err)
				continue
			}
			slog.Info("Notification sent",
				"channel", channel.Name(),
				"article_id", article.ID,
				"feed_source", article.FeedSource)
		}

		if d.pacing > 0 && i < len(articles)-1 {
			select {
			case <-time.After(d.pacing):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	return nil
}
