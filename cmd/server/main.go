package main

import (
	"AsaBank/internal/adapters/eventbus"
	"AsaBank/internal/adapters/filestore"
	"AsaBank/internal/adapters/postgres"
	"AsaBank/internal/adapters/telegram"
	"AsaBank/internal/bot/customer"
	"AsaBank/internal/bot/customer/handlers"
	"AsaBank/internal/core/ports"
	"AsaBank/internal/core/registry"
	"AsaBank/internal/shared/config"
	"AsaBank/internal/shared/logger"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize Logger
	isDevMode := cfg.AppEnv == "dev"
	baseLogger := logger.New(isDevMode, cfg.LogLevel)
	baseLogger.Info().
		Str("app_env", cfg.AppEnv).
		Str("storage", cfg.Storage.Backend).
		Str("bot_mode", cfg.Bot.Mode).
		Msg("Configuration loaded")

	// 3. Graceful shutdown context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Initialize Storage
	store, closeStore := openStore(ctx, cfg, &baseLogger)
	defer closeStore()

	// 5. Initialize Core
	bus := eventbus.NewInMemoryEventBus(&baseLogger)
	bank, err := registry.NewAccountRegistry(ctx, store, bus, &baseLogger)
	if err != nil {
		baseLogger.Fatal().Err(err).Msg("Failed to load accounts")
	}
	baseLogger.Info().Int("accounts", bank.Len()).Msg("Accounts loaded")

	// 6. Initialize Telegram
	botAPI, err := tgbotapi.NewBotAPI(cfg.Bot.Token)
	if err != nil {
		baseLogger.Fatal().Err(err).Msg("Failed to connect to Telegram API")
	}
	botAPI.Debug = isDevMode
	baseLogger.Info().Str("username", botAPI.Self.UserName).Msg("Authorized on Telegram")

	botClient := telegram.NewClient(botAPI, &baseLogger)
	sessions := customer.NewSessions()

	// 7. Initialize Router and Handlers
	router := customer.NewCustomerRouter(sessions, botClient, &baseLogger)
	deps := customer.Deps{
		Config:    cfg,
		Bank:      bank,
		Sessions:  sessions,
		BotClient: botClient,
	}
	customer.RegisterAllHandlers(router, deps, &baseLogger)

	notifier := handlers.NewNotificationHandler(botClient, sessions, &baseLogger)
	notifier.Subscribe(bus)

	if err := botClient.SetMenuCommands(ctx, router.MenuCommands()); err != nil {
		baseLogger.Warn().Err(err).Msg("Failed to set bot menu commands")
	}

	// 8. Run until signalled
	server := telegram.NewBotServer(botAPI, router, &cfg.Bot, &baseLogger)
	if err := server.Start(ctx); err != nil {
		baseLogger.Error().Err(err).Msg("Bot server stopped with error")
	}

	// 9. Drain notifications and flush the registry one last time
	bus.Wait()
	if err := bank.Save(context.Background()); err != nil {
		baseLogger.Error().Err(err).Msg("Final save failed")
	}
	baseLogger.Info().Msg("Shutdown complete")
}

// openStore builds the configured account store and a matching close func.
func openStore(ctx context.Context, cfg *config.Config, baseLogger *zerolog.Logger) (ports.AccountStore, func()) {
	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		db, err := postgres.NewDB(ctx, cfg.Postgres.URL, baseLogger)
		if err != nil {
			baseLogger.Fatal().Err(err).Msg("Failed to initialize database")
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			baseLogger.Fatal().Err(err).Msg("Failed to migrate database")
		}
		return postgres.NewAccountStore(db, baseLogger), db.Close
	default:
		baseLogger.Info().Str("path", cfg.Storage.Path).Msg("Using flat-file account store")
		return filestore.NewFileStore(cfg.Storage.Path, baseLogger), func() {}
	}
}
