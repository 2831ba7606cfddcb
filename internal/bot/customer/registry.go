package customer

import (
	"AsaBank/internal/core/ports"
	"AsaBank/internal/shared/config"

	"github.com/rs/zerolog"
)

// Deps is everything a command handler may need.
// This allows us to pass dependencies from main.go
type Deps struct {
	Config    *config.Config
	Bank      ports.AccountService
	Sessions  ports.SessionStore
	BotClient ports.BotClientPort
}

type CommandHandlerConstructor func(deps Deps, baseLogger *zerolog.Logger) ports.CommandHandler

var commandRegistry []CommandHandlerConstructor

// RegisterCommand is called by handlers in their init() function
func RegisterCommand(constructor CommandHandlerConstructor) {
	commandRegistry = append(commandRegistry, constructor)
}

// RegisterAllHandlers is the single function called by main.go
// It builds all registered handlers and passes them to the router.
func RegisterAllHandlers(router *CustomerRouter, deps Deps, baseLogger *zerolog.Logger) {
	log := baseLogger.With().Str("component", "customer_registry").Logger()

	for _, constructor := range commandRegistry {
		router.RegisterCommandHandler(constructor(deps, baseLogger))
	}
	log.Info().Int("count", len(commandRegistry)).Msg("Registered command handlers")
}
