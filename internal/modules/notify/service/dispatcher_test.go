package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/reshetovitsme/rss-digest-feed/internal/modules/article/domain"
	feedDomain "github.com/reshetovitsme/rss-digest-feed/internal/modules/feed/domain"
	"github.com/reshetovitsme/rss-digest-feed/internal/shared/httpclient"
)

type fakeChannel struct {
	calls int
	fail  map[int]bool
}

func (f *fakeChannel) Name() string { return "fake" }

func (f *fakeChannel) Notify(_ context.Context, _ *domain.Article) error {
	f.calls++
	if f.fail[f.calls] {
		return errors.New("send failed")
	}
	return nil
}

func testArticles(n int) []*domain.Article {
	articles := make([]*domain.Article, 0, n)
	for i := 0; i < n; i++ {
		articles = append(articles, &domain.Article{
			ID:            "id",
			Title:         "title",
			URL:           "https://example.com",
			FeedSource:    "aws",
			PublishedDate: "2024-01-01T10:00:00.000Z",
		})
	}
	return articles
}

func TestNotifyBatchCancelledDuringPacing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := &fakeChannel{}
	d := NewDispatcher(ch)
	d.SetPacing(time.Minute)

	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	err := d.NotifyBatch(ctx, testArticles(2))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("NotifyBatch() error = %v, want context.Canceled", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("cancellation took %v, pacing wait must abort promptly", elapsed)
	}
	if ch.calls != 1 {
		t.Errorf("calls = %d, want 1 before the cancelled pacing wait", ch.calls)
	}
}

func TestNotifyBatchNoChannelsIsNoOp(t *testing.T) {
	d := NewDispatcher()
	if err := d.NotifyBatch(context.Background(), testArticles(3)); err != nil {
		t.Fatalf("no-op batch should not fail: %v", err)
	}
}

func TestNotifyBatchContinuesAfterFailure(t *testing.T) {
	ch := &fakeChannel{fail: map[int]bool{1: true}}
	d := NewDispatcher(ch)
	d.SetPacing(0)

	if err := d.NotifyBatch(context.Background(), testArticles(3)); err != nil {
		t.Fatalf("per-article failure should not fail the batch: %v", err)
	}
	if ch.calls != 3 {
		t.Errorf("every article should be attempted, got %d calls", ch.calls)
	}
}

func TestNotifyBatchSendsOnePerArticle(t *testing.T) {
	ch := &fakeChannel{}
	d := NewDispatcher(ch)
	d.SetPacing(0)

	if err := d.NotifyBatch(context.Background(), testArticles(5)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ch.calls != 5 {
		t.Errorf("expected 5 sends, got %d", ch.calls)
	}
}

func TestDiscordWebhookPayload(t *testing.T) {
	var received atomic.Int32
	var payload discordPayload

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received.Add(1)
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("invalid payload: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	feeds := []feedDomain.Definition{
		{ID: "aws", DisplayName: "AWS ニュース", Color: 0x3498db},
	}
	ch := NewDiscordWebhook(httpclient.New(2*time.Second), server.URL, feeds)

	article := &domain.Article{
		Title:         "AWS announces new feature",
		URL:           "https://aws.amazon.com/x",
		FeedSource:    "aws",
		Summary:       "短い要約",
		PublishedDate: "2024-01-01T10:00:00.000Z",
	}
	if err := ch.Notify(context.Background(), article); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if received.Load() != 1 {
		t.Fatalf("expected one webhook call, got %d", received.Load())
	}
	if len(payload.Embeds) != 1 {
		t.Fatalf("expected one embed, got %d", len(payload.Embeds))
	}

	embed := payload.Embeds[0]
	if embed.Title != article.Title || embed.URL != article.URL {
		t.Errorf("embed mismatch: %+v", embed)
	}
	if embed.Description != "短い要約" {
		t.Errorf("description should be the summary, got %q", embed.Description)
	}
	if embed.Color != 0x3498db {
		t.Errorf("expected per-feed color, got %#x", embed.Color)
	}
	if embed.Footer.Text != "AWS ニュース" {
		t.Errorf("footer should be the display name, got %q", embed.Footer.Text)
	}
	if _, err := time.Parse(time.RFC3339, embed.Timestamp); err != nil {
		t.Errorf("timestamp should be RFC 3339, got %q", embed.Timestamp)
	}
}

func TestDiscordWebhookFallbacks(t *testing.T) {
	var payload discordPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&payload)
	}))
	defer server.Close()

	ch := NewDiscordWebhook(httpclient.New(2*time.Second), server.URL, nil)

	article := &domain.Article{
		Title:         "no summary, unknown feed",
		URL:           "https://example.com/a",
		FeedSource:    "unknown",
		PublishedDate: "garbage",
	}
	if err := ch.Notify(context.Background(), article); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	embed := payload.Embeds[0]
	if embed.Description != noSummaryFallback {
		t.Errorf("missing summary should use the fallback text, got %q", embed.Description)
	}
	if embed.Color != defaultEmbedColor {
		t.Errorf("unknown feed should use the default color, got %#x", embed.Color)
	}
	if _, err := time.Parse(time.RFC3339, embed.Timestamp); err != nil {
		t.Errorf("invalid published date should fall back to a valid timestamp, got %q", embed.Timestamp)
	}
}

func TestDiscordWebhookHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	ch := NewDiscordWebhook(httpclient.New(2*time.Second), server.URL, nil)
	if err := ch.Notify(context.Background(), testArticles(1)[0]); err == nil {
		t.Fatal("non-2xx webhook response should surface as an error")
	}
}
