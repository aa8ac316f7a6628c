package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	feedDomain "github.com/reshetovitsme/rss-digest-feed/internal/modules/feed/domain"
	"github.com/reshetovitsme/rss-digest-feed/internal/shared/errors"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

type Config struct {
	HTTPPort          string                  `koanf:"http_port"`
	UpdateInterval    int                     `koanf:"update_interval"`
	StoragePath       string                  `koanf:"storage_path"`
	GeminiAPIKey      string                  `koanf:"gemini_api_key"`
	GeminiAPIURL      string                  `koanf:"gemini_api_url"`
	GeminiModel       string                  `koanf:"gemini_model"`
	SummaryMaxLength  int                     `koanf:"summary_max_length"`
	SummaryMaxRetries int                     `koanf:"summary_max_retries"`
	DiscordWebhookURL string                  `koanf:"discord_webhook_url"`
	TelegramBotToken  string                  `koanf:"telegram_bot_token"`
	TelegramChatID    string                  `koanf:"telegram_chat_id"`
	RetentionDays     int                     `koanf:"retention_days"`
	AppEnv            AppEnv                  `koanf:"app_env"`
	Feeds             []feedDomain.Definition `koanf:"feeds"`
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try to load config file from various formats
	configFiles := []string{
		"config.yaml",
		"config.yml",
		"config.json",
		"config.toml",
	}

	// Use lo.Find to find the first existing config file
	configFile, found := lo.Find(configFiles, func(file string) bool {
		_, err := os.Stat(file)
		return err == nil
	})

	if found {
		var parser koanf.Parser
		ext := filepath.Ext(configFile)

		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		case ".toml":
			parser = toml.Parser()
		default:
			return nil, oops.Errorf("unsupported config file extension: %s", ext)
		}

		if err := k.Load(file.Provider(configFile), parser); err != nil {
			return nil, oops.With("config_file", configFile).Wrap(err)
		}
	}

	// Load environment variables (they override config file values).
	// A variable that is set but empty is skipped so it cannot erase a
	// value the config file provides.
	if err := k.Load(env.ProviderWithValue("", ".", func(key, value string) (string, interface{}) {
		if value == "" {
			return "", nil
		}
		return strings.ToLower(key), value
	}), nil); err != nil {
		return nil, oops.With("context", "loading environment variables").Wrap(err)
	}

	// Set defaults
	if !k.Exists("http_port") {
		k.Set("http_port", "8080")
	}
	if !k.Exists("update_interval") {
		k.Set("update_interval", 3600)
	}
	if !k.Exists("storage_path") {
		k.Set("storage_path", "./data")
	}
	if !k.Exists("summary_max_length") {
		k.Set("summary_max_length", 400)
	}
	if !k.Exists("summary_max_retries") {
		k.Set("summary_max_retries", 3)
	}
	if !k.Exists("retention_days") {
		k.Set("retention_days", 365)
	}
	if !k.Exists("app_env") {
		k.Set("app_env", "production")
	}

	// Unmarshal into struct
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.With("context", "unmarshaling config").Wrap(err)
	}

	// Parse AppEnv from string if needed
	if appEnvStr := k.String("app_env"); appEnvStr != "" {
		if env, err := ParseAppEnv(appEnvStr); err == nil {
			cfg.AppEnv = env
		} else {
			cfg.AppEnv = AppEnvProduction
		}
	} else {
		cfg.AppEnv = AppEnvProduction
	}

	// Fall back to the built-in feed registry and normalize formats
	// once here, so the rest of the app never sees an unknown format.
	if len(cfg.Feeds) == 0 {
		cfg.Feeds = DefaultFeeds()
	}
	cfg.Feeds = lo.Map(cfg.Feeds, func(f feedDomain.Definition, _ int) feedDomain.Definition {
		if format, err := feedDomain.ParseFeedFormat(string(f.Format)); err == nil {
			f.Format = format
		} else {
			f.Format = feedDomain.FeedFormatAuto
		}
		return f
	})

	// Validate required fields
	if cfg.GeminiAPIKey == "" {
		return nil, errors.ErrMissingGeminiKey
	}

	return &cfg, nil
}

// EnabledFeeds returns the enabled subset of the feed registry.
func (c *Config) EnabledFeeds() []feedDomain.Definition {
	return lo.Filter(c.Feeds, func(f feedDomain.Definition, _ int) bool {
		return f.Enabled
	})
}

// FeedByID looks up a feed definition by its id.
func (c *Config) FeedByID(id string) (feedDomain.Definition, bool) {
	return lo.Find(c.Feeds, func(f feedDomain.Definition) bool {
		return f.ID == id
	})
}

// DefaultFeeds is the built-in registry used when no feeds are
// configured. Adding a blog means adding one entry here or in the
// config file.
func DefaultFeeds() []feedDomain.Definition {
	return []feedDomain.Definition{
		{
			ID:          "aws",
			URL:         "https://aws.amazon.com/about-aws/whats-new/recent/feed/",
			Format:      feedDomain.FeedFormatRss,
			DisplayName: "AWS ニュース",
			Color:       0x3498db,
			Enabled:     true,
		},
		{
			ID:          "martinfowler",
			URL:         "https://martinfowler.com/feed.atom",
			Format:      feedDomain.FeedFormatAtom,
			DisplayName: "Martin Fowler",
			Color:       0x2ecc71,
			Enabled:     true,
		},
		{
			ID:          "github_changelog",
			URL:         "https://github.blog/changelog/feed/",
			Format:      feedDomain.FeedFormatRss,
			DisplayName: "GitHub Changelog",
			Color:       0x6e5494,
			Enabled:     true,
		},
		{
			ID:          "kaminashi_developer",
			URL:         "https://kaminashi-developer.hatenablog.jp/rss",
			Format:      feedDomain.FeedFormatAuto,
			DisplayName: "カミナシ開発者ブログ",
			Color:       0x1abc9c,
			Enabled:     true,
		},
		{
			ID:          "tidyfirst",
			URL:         "https://tidyfirst.substack.com/feed",
			Format:      feedDomain.FeedFormatRss,
			DisplayName: "Tidy First?",
			Color:       0xe67e22,
			Enabled:     true,
		},
	}
}
