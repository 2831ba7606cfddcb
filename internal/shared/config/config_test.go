package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the test from an empty directory so no .env is picked up,
// and clears every variable Load reads.
func isolate(t *testing.T) {
	t.Helper()
	chdir(t, t.TempDir())
	for _, env := range envBindings {
		t.Setenv(env, "")
		os.Unsetenv(env)
	}
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)
	t.Setenv("BOT_TOKEN", "123:abc")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.AppEnv)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, BackendFile, cfg.Storage.Backend)
	assert.Equal(t, "accounts.txt", cfg.Storage.Path)
	assert.Equal(t, ModePolling, cfg.Bot.Mode)
	assert.Equal(t, 1, cfg.Bot.Polling.WorkerPoolSize)
	assert.Equal(t, 60, cfg.Bot.Polling.Timeout)
	assert.Equal(t, 8443, cfg.Bot.Webhook.ListenPort)
	assert.Equal(t, "123:abc", cfg.Bot.Token)
}

func TestLoad_FromEnv(t *testing.T) {
	isolate(t)
	t.Setenv("APP_ENV", "prod")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("STORAGE_BACKEND", "postgres")
	t.Setenv("DATABASE_URL", "postgres://bank@localhost/bank")
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("BOT_MODE", "webhook")
	t.Setenv("BOT_WEBHOOK_URL", "https://bank.example.com")
	t.Setenv("BOT_WORKER_POOL_SIZE", "4")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.AppEnv)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, BackendPostgres, cfg.Storage.Backend)
	assert.Equal(t, "postgres://bank@localhost/bank", cfg.Postgres.URL)
	assert.Equal(t, ModeWebhook, cfg.Bot.Mode)
	assert.Equal(t, "https://bank.example.com", cfg.Bot.Webhook.URL)
	assert.Equal(t, 4, cfg.Bot.Polling.WorkerPoolSize)
}

func TestLoad_DotEnvFile(t *testing.T) {
	isolate(t)
	require.NoError(t, os.WriteFile(".env", []byte("BOT_TOKEN=from-dotenv\nSTORAGE_PATH=data/bank.txt\n"), 0o644))
	t.Cleanup(func() {
		os.Unsetenv("BOT_TOKEN")
		os.Unsetenv("STORAGE_PATH")
	})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Bot.Token)
	assert.Equal(t, "data/bank.txt", cfg.Storage.Path)
}

func TestLoad_ValidationErrors(t *testing.T) {
	testCases := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "missing bot token",
			env:  map[string]string{},
		},
		{
			name: "unknown backend",
			env:  map[string]string{"BOT_TOKEN": "t", "STORAGE_BACKEND": "redis"},
		},
		{
			name: "postgres without url",
			env:  map[string]string{"BOT_TOKEN": "t", "STORAGE_BACKEND": "postgres"},
		},
		{
			name: "unknown bot mode",
			env:  map[string]string{"BOT_TOKEN": "t", "BOT_MODE": "carrier-pigeon"},
		},
		{
			name: "webhook without url",
			env:  map[string]string{"BOT_TOKEN": "t", "BOT_MODE": "webhook"},
		},
		{
			name: "zero workers",
			env:  map[string]string{"BOT_TOKEN": "t", "BOT_WORKER_POOL_SIZE": "0"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
			t.Logf("Got expected config error: %v", err)
		})
	}
}

// chdir stands in for testing.T.Chdir (Go 1.24+): it changes the working
// directory and restores the previous one when the test finishes.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}
