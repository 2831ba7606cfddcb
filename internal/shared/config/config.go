package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage backends
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

// Bot modes
const (
	ModePolling = "polling"
	ModeWebhook = "webhook"
)

// Config holds all configuration for the application.
type Config struct {
	AppEnv   string
	LogLevel string
	Storage  StorageConfig
	Postgres PostgresConfig
	Bot      BotConfig
}

// StorageConfig selects where accounts are persisted.
type StorageConfig struct {
	Backend string // "file" or "postgres"
	Path    string // Flat file location for the file backend
}

type PostgresConfig struct {
	URL string
}

type BotConfig struct {
	Token   string
	Mode    string
	Polling PollingConfig
	Webhook WebhookConfig
}

type PollingConfig struct {
	WorkerPoolSize int
	Timeout        int // Seconds
}

type WebhookConfig struct {
	URL        string
	ListenPort int
}

// envBindings maps viper keys to the environment variables that feed them.
var envBindings = map[string]string{
	"app.env":             "APP_ENV",
	"log.level":           "LOG_LEVEL",
	"storage.backend":     "STORAGE_BACKEND",
	"storage.path":        "STORAGE_PATH",
	"postgres.url":        "DATABASE_URL",
	"bot.token":           "BOT_TOKEN",
	"bot.mode":            "BOT_MODE",
	"bot.polling.workers": "BOT_WORKER_POOL_SIZE",
	"bot.polling.timeout": "BOT_POLLING_TIMEOUT",
	"bot.webhook.url":     "BOT_WEBHOOK_URL",
	"bot.webhook.port":    "BOT_WEBHOOK_PORT",
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// 1. Load .env file into the process environment.
	// If .env is not found, we rely on OS-set env vars.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()

	// 2. Explicitly bind viper keys to env var names
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("could not bind %s: %w", key, err)
		}
	}

	// 3. Set defaults
	v.SetDefault("app.env", "dev")
	v.SetDefault("log.level", "info")
	v.SetDefault("storage.backend", BackendFile)
	v.SetDefault("storage.path", "accounts.txt")
	v.SetDefault("bot.mode", ModePolling)
	v.SetDefault("bot.polling.workers", 1)
	v.SetDefault("bot.polling.timeout", 60)
	v.SetDefault("bot.webhook.port", 8443)

	cfg := Config{
		AppEnv:   v.GetString("app.env"),
		LogLevel: v.GetString("log.level"),
		Storage: StorageConfig{
			Backend: v.GetString("storage.backend"),
			Path:    v.GetString("storage.path"),
		},
		Postgres: PostgresConfig{
			URL: v.GetString("postgres.url"),
		},
		Bot: BotConfig{
			Token: v.GetString("bot.token"),
			Mode:  v.GetString("bot.mode"),
			Polling: PollingConfig{
				WorkerPoolSize: v.GetInt("bot.polling.workers"),
				Timeout:        v.GetInt("bot.polling.timeout"),
			},
			Webhook: WebhookConfig{
				URL:        v.GetString("bot.webhook.url"),
				ListenPort: v.GetInt("bot.webhook.port"),
			},
		},
	}

	// 4. Validation
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Backend {
	case BackendFile:
		if c.Storage.Path == "" {
			return errors.New("STORAGE_PATH must not be empty for the file backend")
		}
	case BackendPostgres:
		if c.Postgres.URL == "" {
			return errors.New("DATABASE_URL is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q (want %q or %q)", c.Storage.Backend, BackendFile, BackendPostgres)
	}

	if c.Bot.Token == "" {
		return errors.New("BOT_TOKEN is not set in environment or .env file")
	}

	switch c.Bot.Mode {
	case ModePolling:
	case ModeWebhook:
		if c.Bot.Webhook.URL == "" {
			return errors.New("BOT_WEBHOOK_URL is required in webhook mode")
		}
	default:
		return fmt.Errorf("unknown BOT_MODE %q (want %q or %q)", c.Bot.Mode, ModePolling, ModeWebhook)
	}

	if c.Bot.Polling.WorkerPoolSize < 1 {
		return fmt.Errorf("BOT_WORKER_POOL_SIZE must be at least 1, got %d", c.Bot.Polling.WorkerPoolSize)
	}
	return nil
}
