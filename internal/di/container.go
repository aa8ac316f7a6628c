package di

import (
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/go-telegram/bot"
	articleRepo "github.com/reshetovitsme/rss-digest-feed/internal/modules/article/repository"
	digestService "github.com/reshetovitsme/rss-digest-feed/internal/modules/digest/service"
	"github.com/reshetovitsme/rss-digest-feed/internal/modules/feed/parser"
	feedService "github.com/reshetovitsme/rss-digest-feed/internal/modules/feed/service"
	ingestService "github.com/reshetovitsme/rss-digest-feed/internal/modules/ingest/service"
	notifyService "github.com/reshetovitsme/rss-digest-feed/internal/modules/notify/service"
	summaryBackend "github.com/reshetovitsme/rss-digest-feed/internal/modules/summary/backend"
	summaryService "github.com/reshetovitsme/rss-digest-feed/internal/modules/summary/service"
	"github.com/reshetovitsme/rss-digest-feed/internal/scheduler"
	"github.com/reshetovitsme/rss-digest-feed/internal/shared/config"
	"github.com/reshetovitsme/rss-digest-feed/internal/shared/httpclient"
	httpServer "github.com/reshetovitsme/rss-digest-feed/internal/transport/http"
	"github.com/samber/do/v2"
	"github.com/samber/oops"
)

// Setup initializes the dependency injection container
func Setup() (do.Injector, error) {
	injector := do.New()

	// Register Config
	do.Provide(injector, func(i do.Injector) (*config.Config, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, oops.With("context", "failed to load config").Wrap(err)
		}
		return cfg, nil
	})

	// Register HTTP Client
	do.Provide(injector, func(i do.Injector) (*resty.Client, error) {
		return httpclient.New(0), nil
	})

	// Register Article Repository
	do.Provide(injector, func(i do.Injector) (articleRepo.Repository, error) {
		cfg := do.MustInvoke[*config.Config](i)
		repo, err := articleRepo.NewFileStorage(cfg.StoragePath)
		if err != nil {
			return nil, oops.With("storage_path", cfg.StoragePath, "context", "failed to initialize article repository").Wrap(err)
		}
		return repo, nil
	})

	// Register Feed Parser
	do.Provide(injector, func(i do.Injector) (*parser.Parser, error) {
		return parser.New(), nil
	})

	// Register Feed Service
	do.Provide(injector, func(i do.Injector) (*feedService.Service, error) {
		client := do.MustInvoke[*resty.Client](i)
		p := do.MustInvoke[*parser.Parser](i)
		return feedService.New(client, p), nil
	})

	// Register Summarization Service
	do.Provide(injector, func(i do.Injector) (*summaryService.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)
		client := do.MustInvoke[*resty.Client](i)
		backend := summaryBackend.NewGemini(client, cfg.GeminiAPIURL, cfg.GeminiAPIKey, cfg.GeminiModel)
		return summaryService.New(backend, cfg.SummaryMaxLength, cfg.SummaryMaxRetries), nil
	})

	// Register Notification Dispatcher (channels depend on configured credentials)
	do.Provide(injector, func(i do.Injector) (*notifyService.Dispatcher, error) {
		cfg := do.MustInvoke[*config.Config](i)
		client := do.MustInvoke[*resty.Client](i)

		var channels []notifyService.Channel
		if cfg.DiscordWebhookURL != "" {
			channels = append(channels, notifyService.NewDiscordWebhook(client, cfg.DiscordWebhookURL, cfg.Feeds))
		}
		if cfg.TelegramBotToken != "" && cfg.TelegramChatID != "" {
			b, err := bot.New(cfg.TelegramBotToken)
			if err != nil {
				return nil, oops.With("context", "failed to create telegram bot").Wrap(err)
			}
			channels = append(channels, notifyService.NewTelegram(b, cfg.TelegramChatID))
		}

		return notifyService.NewDispatcher(channels...), nil
	})

	// Register Ingestion Service
	do.Provide(injector, func(i do.Injector) (*ingestService.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)
		fetcher := do.MustInvoke[*feedService.Service](i)
		repo := do.MustInvoke[articleRepo.Repository](i)
		summarizer := do.MustInvoke[*summaryService.Service](i)
		dispatcher := do.MustInvoke[*notifyService.Dispatcher](i)
		return ingestService.New(cfg.Feeds, fetcher, repo, summarizer, dispatcher), nil
	})

	// Register Digest Service
	do.Provide(injector, func(i do.Injector) (*digestService.Service, error) {
		repo := do.MustInvoke[articleRepo.Repository](i)
		return digestService.New(repo), nil
	})

	// Register HTTP Server
	do.Provide(injector, func(i do.Injector) (*httpServer.Server, error) {
		cfg := do.MustInvoke[*config.Config](i)
		repo := do.MustInvoke[articleRepo.Repository](i)
		ingest := do.MustInvoke[*ingestService.Service](i)
		digest := do.MustInvoke[*digestService.Service](i)
		dispatcher := do.MustInvoke[*notifyService.Dispatcher](i)
		return httpServer.New(cfg, repo, ingest, digest, dispatcher), nil
	})

	// Register Scheduler
	do.Provide(injector, func(i do.Injector) (*scheduler.Scheduler, error) {
		cfg := do.MustInvoke[*config.Config](i)
		ingest := do.MustInvoke[*ingestService.Service](i)
		repo := do.MustInvoke[articleRepo.Repository](i)
		interval := time.Duration(cfg.UpdateInterval) * time.Second
		retention := time.Duration(cfg.RetentionDays) * 24 * time.Hour
		return scheduler.New(ingest, repo, interval, retention), nil
	})

	return injector, nil
}

// Shutdown gracefully shuts down all services
func Shutdown(injector do.Injector) error {
	if s, err := do.Invoke[*scheduler.Scheduler](injector); err == nil && s != nil {
		s.Stop()
	}

	return nil
}
