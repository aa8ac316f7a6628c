package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	articleDomain "github.com/reshetovitsme/rss-digest-feed/internal/modules/article/domain"
	articleRepo "github.com/reshetovitsme/rss-digest-feed/internal/modules/article/repository"
	digestService "github.com/reshetovitsme/rss-digest-feed/internal/modules/digest/service"
	ingestService "github.com/reshetovitsme/rss-digest-feed/internal/modules/ingest/service"
	notifyService "github.com/reshetovitsme/rss-digest-feed/internal/modules/notify/service"
	"github.com/reshetovitsme/rss-digest-feed/internal/shared/config"
	sloghttp "github.com/samber/slog-http"
)

// Server handles the HTTP API and the digest feed
type Server struct {
	cfg         *config.Config
	articleRepo articleRepo.Repository
	ingest      *ingestService.Service
	digest      *digestService.Service
	dispatcher  *notifyService.Dispatcher
	logger      *slog.Logger
}

// New creates a new HTTP server
func New(cfg *config.Config, repo articleRepo.Repository, ingest *ingestService.Service, digest *digestService.Service, dispatcher *notifyService.Dispatcher) *Server {
	return &Server{
		cfg:         cfg,
		articleRepo: repo,
		ingest:      ingest,
		digest:      digest,
		dispatcher:  dispatcher,
		logger:      slog.Default(),
	}
}

// SetLogger sets the logger
func (s *Server) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

// Handler builds the full route table with logging and recovery middleware
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/articles", s.handleListArticles)
	mux.HandleFunc("POST /api/cron/update-feeds", s.handleUpdateFeeds)
	mux.HandleFunc("POST /api/notify/test", s.handleNotifyTest)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /digest.rss", s.handleDigest)
	mux.HandleFunc("GET /", s.handleRoot)

	// Use slog-http middleware with recovery
	handler := sloghttp.Recovery(mux)
	handler = sloghttp.New(s.logger)(handler)
	return handler
}

// Start starts the HTTP server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%s", s.cfg.HTTPPort)
	s.logger.Info("HTTP server starting", "addr", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return server.ListenAndServe()
}

func (s *Server) handleListArticles(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := articleDomain.Filter{
		Source: query.Get("source"),
	}
	if page, err := strconv.Atoi(query.Get("page")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(query.Get("limit")); err == nil {
		filter.Limit = limit
	}

	result, err := s.articleRepo.List(filter)
	if err != nil {
		s.logger.Error("Error listing articles", "error", err)
		s.writeError(w, http.StatusInternalServerError, "Failed to list articles")
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleUpdateFeeds(w http.ResponseWriter, r *http.Request) {
	report, err := s.ingest.RunCycle(r.Context())
	if err != nil {
		s.logger.Error("Error running update cycle", "error", err)
		s.writeError(w, http.StatusInternalServerError, "Feed update failed")
		return
	}

	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleNotifyTest(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	article := &articleDomain.Article{
		ID:            "test",
		Title:         "通知テスト / Notification test",
		URL:           "https://example.com/notification-test",
		PublishedDate: now.Format(time.RFC3339),
		FeedSource:    "test",
		Summary:       "通知チャンネルの接続確認用メッセージです。",
		CreatedAt:     now,
	}

	if err := s.dispatcher.NotifyBatch(r.Context(), []*articleDomain.Article{article}); err != nil {
		s.logger.Error("Error sending test notification", "error", err)
		s.writeError(w, http.StatusInternalServerError, "Test notification failed")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDigest(w http.ResponseWriter, r *http.Request) {
	baseURL := fmt.Sprintf("%s://%s", getScheme(r), r.Host)

	feed, err := s.digest.GenerateFeed(r.URL.Query().Get("source"), baseURL)
	if err != nil {
		s.logger.Error("Error generating digest", "error", err)
		http.Error(w, "Failed to generate digest", http.StatusInternalServerError)
		return
	}

	rss, err := feed.ToRss()
	if err != nil {
		s.logger.Error("Error converting digest to RSS", "error", err)
		http.Error(w, "Failed to generate RSS", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=300") // Cache for 5 minutes
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(rss))
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	html := `<!DOCTYPE html>
<html>
<head>
    <title>RSS Digest Feed</title>
    <style>
        body { font-family: Arial, sans-serif; max-width: 800px; margin: 50px auto; padding: 20px; }
        h1 { color: #333; }
        .info { background: #f5f5f5; padding: 15px; border-radius: 5px; margin: 20px 0; }
        code { background: #e8e8e8; padding: 2px 6px; border-radius: 3px; }
    </style>
</head>
<body>
    <h1>RSS Digest Feed Service</h1>
    <div class="info">
        <p>This service ingests RSS/Atom feeds, summarizes new articles and fans out notifications.</p>
        <p>Stored articles: <code>GET /api/articles?source=&amp;page=&amp;limit=</code></p>
        <p>Aggregated digest: <code>GET /digest.rss</code></p>
        <p>Trigger an update cycle: <code>POST /api/cron/update-feeds</code></p>
    </div>
    <p><a href="/api/health">Health Check</a></p>
</body>
</html>`
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(html))
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Error encoding response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
