package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	articleDomain "github.com/reshetovitsme/rss-digest-feed/internal/modules/article/domain"
	articleRepo "github.com/reshetovitsme/rss-digest-feed/internal/modules/article/repository"
	digestService "github.com/reshetovitsme/rss-digest-feed/internal/modules/digest/service"
	feedDomain "github.com/reshetovitsme/rss-digest-feed/internal/modules/feed/domain"
	ingestService "github.com/reshetovitsme/rss-digest-feed/internal/modules/ingest/service"
	notifyService "github.com/reshetovitsme/rss-digest-feed/internal/modules/notify/service"
	summaryDomain "github.com/reshetovitsme/rss-digest-feed/internal/modules/summary/domain"
	"github.com/reshetovitsme/rss-digest-feed/internal/shared/config"
)

type stubFetcher struct {
	items map[string][]feedDomain.Item
	err   error
}

func (f *stubFetcher) FetchAll(_ context.Context, sources []feedDomain.Definition) (map[string][]feedDomain.Item, error) {
	if f.err != nil {
		return nil, f.err
	}
	results := make(map[string][]feedDomain.Item)
	for _, src := range sources {
		results[src.ID] = f.items[src.ID]
	}
	return results, nil
}

type stubSummarizer struct{}

func (stubSummarizer) Summarize(context.Context, summaryDomain.Request) (*summaryDomain.Response, error) {
	return &summaryDomain.Response{Summary: "要約"}, nil
}

func newTestServer(t *testing.T, fetcher ingestService.Fetcher) (*Server, articleRepo.Repository) {
	t.Helper()

	repo, err := articleRepo.NewFileStorage(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	feeds := []feedDomain.Definition{
		{ID: "aws", URL: "https://example.com/feed", Format: feedDomain.FeedFormatRss, DisplayName: "AWS", Enabled: true},
	}
	dispatcher := notifyService.NewDispatcher()
	ingest := ingestService.New(feeds, fetcher, repo, stubSummarizer{}, dispatcher)
	digest := digestService.New(repo)

	cfg := &config.Config{HTTPPort: "8080", Feeds: feeds}
	return New(cfg, repo, ingest, digest, dispatcher), repo
}

func seedArticles(t *testing.T, repo articleRepo.Repository, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := repo.Save(&articleDomain.Article{
			Title:         "article",
			URL:           "https://example.com/" + string(rune('a'+i)),
			PublishedDate: "2024-01-01T00:00:00.000Z",
			FeedSource:    "aws",
		})
		if err != nil {
			t.Fatal(err)
		}
	}
}

func TestHandleListArticles(t *testing.T) {
	srv, repo := newTestServer(t, &stubFetcher{})
	seedArticles(t, repo, 3)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/articles?page=1&limit=2", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}

	var page articleDomain.Page
	if err := json.NewDecoder(rec.Body).Decode(&page); err != nil {
		t.Fatal(err)
	}
	if page.Total != 3 || len(page.Data) != 2 || page.TotalPages != 2 {
		t.Errorf("page = total %d, items %d, pages %d; want 3, 2, 2", page.Total, len(page.Data), page.TotalPages)
	}
}

func TestHandleUpdateFeeds(t *testing.T) {
	fetcher := &stubFetcher{items: map[string][]feedDomain.Item{
		"aws": {
			{Title: "New item", URL: "https://example.com/new", PublishedDate: "2024-01-01T00:00:00.000Z", Content: "body"},
		},
	}}
	srv, repo := newTestServer(t, fetcher)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/cron/update-feeds", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}

	var report ingestService.Report
	if err := json.NewDecoder(rec.Body).Decode(&report); err != nil {
		t.Fatal(err)
	}
	if report.ProcessedCount != 1 || report.NewArticlesCount != 1 || report.ErrorCount != 0 {
		t.Errorf("report = %+v, want 1 processed, 1 new, 0 errors", report)
	}

	saved, err := repo.GetByURL("https://example.com/new")
	if err != nil || saved == nil {
		t.Fatalf("GetByURL() = %v, %v; want the stored article", saved, err)
	}
}

func TestHandleUpdateFeedsFailure(t *testing.T) {
	srv, _ := newTestServer(t, &stubFetcher{err: context.Canceled})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/cron/update-feeds", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestHandleNotifyTest(t *testing.T) {
	srv, _ := newTestServer(t, &stubFetcher{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/notify/test", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "sent") {
		t.Errorf("body = %s, want status sent", rec.Body.String())
	}
}

func TestHandleHealth(t *testing.T) {
	srv, _ := newTestServer(t, &stubFetcher{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestHandleDigest(t *testing.T) {
	srv, repo := newTestServer(t, &stubFetcher{})
	seedArticles(t, repo, 1)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/digest.rss", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/rss+xml") {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "<rss") {
		t.Errorf("body does not look like RSS: %s", rec.Body.String())
	}
}

func TestHandleRootUnknownPath(t *testing.T) {
	srv, _ := newTestServer(t, &stubFetcher{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
