package service

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/reshetovitsme/rss-digest-feed/internal/modules/article/domain"
	feedDomain "github.com/reshetovitsme/rss-digest-feed/internal/modules/feed/domain"
	"github.com/samber/oops"
)

const (
	noSummaryFallback = "要約なし"
	defaultEmbedColor = 0x95a5a6
)

// DiscordWebhook posts one embed per article to a Discord webhook.
type DiscordWebhook struct {
	client     *resty.Client
	webhookURL string
	feeds      map[string]feedDomain.Definition
}

// NewDiscordWebhook creates a Discord webhook channel. Feed definitions
// supply the per-source embed color and footer name.
func NewDiscordWebhook(client *resty.Client, webhookURL string, feeds []feedDomain.Definition) *DiscordWebhook {
	byID := make(map[string]feedDomain.Definition, len(feeds))
	for _, f := range feeds {
		byID[f.ID] = f
	}

	return &DiscordWebhook{
		client:     client,
		webhookURL: webhookURL,
		feeds:      byID,
	}
}

func (d *DiscordWebhook) Name() string {
	return "discord"
}

type discordPayload struct {
	Embeds []discordEmbed `json:"embeds"`
}

type discordEmbed struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	URL         string        `json:"url"`
	Color       int           `json:"color"`
	Footer      discordFooter `json:"footer"`
	Timestamp   string        `json:"timestamp"`
}

type discordFooter struct {
	Text string `json:"text"`
}

// Notify posts the article embed to the webhook.
func (d *DiscordWebhook) Notify(ctx context.Context, article *domain.Article) error {
	resp, err := d.client.R().
		SetContext(ctx).
		SetBody(d.buildPayload(article)).
		Post(d.webhookURL)
	if err != nil {
		return oops.With("article_url", article.URL, "context", "discord webhook request failed").Wrap(err)
	}
	if resp.IsError() {
		return oops.Errorf("discord webhook failed: HTTP %d", resp.StatusCode())
	}
	return nil
}

func (d *DiscordWebhook) buildPayload(article *domain.Article) discordPayload {
	description := article.Summary
	if description == "" {
		description = noSummaryFallback
	}

	color := defaultEmbedColor
	footer := article.FeedSource
	if feed, ok := d.feeds[article.FeedSource]; ok {
		color = feed.Color
		footer = feed.DisplayName
	}

	return discordPayload{
		Embeds: []discordEmbed{{
			Title:       article.Title,
			Description: description,
			URL:         article.URL,
			Color:       color,
			Footer:      discordFooter{Text: footer},
			Timestamp:   validTimestamp(article.PublishedDate),
		}},
	}
}

// validTimestamp converts a stored published date into RFC 3339 for the
// embed, substituting the current time for anything unparseable.
func validTimestamp(published string) string {
	if t, err := time.Parse(time.RFC3339Nano, published); err == nil {
		return t.UTC().Format(time.RFC3339)
	}
	return time.Now().UTC().Format(time.RFC3339)
}
