package handlers

import (
	"AsaBank/internal/bot/customer"
	"AsaBank/internal/bot/messages"
	"AsaBank/internal/core/ports"
	"context"

	"github.com/rs/zerolog"
)

func init() {
	customer.RegisterCommand(NewStartHandler)
	customer.RegisterCommand(NewHelpHandler)
}

const helpText = "*Accounts*\n" +
	"/open `Personal|Business` \\- open a new account\n" +
	"/login `id` `passcode` \\- log in\n" +
	"/logout \\- log out\n" +
	"/delete `id` \\- delete the account you are logged in to\n\n" +
	"*Money*\n" +
	"/balance \\- show your funds\n" +
	"/deposit `amount`\n" +
	"/withdraw `amount`\n" +
	"/transfer `recipient_id` `amount`\n" +
	"/recharge `phone` `amount` \\- mobile top\\-up"

// startHandler is the plugin for the /start and /help commands.
type startHandler struct {
	base
	command     string
	description string
	greeting    bool
	appEnv      string
}

// NewStartHandler creates a new handler for the /start command.
func NewStartHandler(deps customer.Deps, baseLogger *zerolog.Logger) ports.CommandHandler {
	return &startHandler{
		base:        newBase(deps, baseLogger, "start_handler"),
		command:     "start",
		description: "Start the bot",
		greeting:    true,
		appEnv:      appEnv(deps),
	}
}

// NewHelpHandler creates a new handler for the /help command.
func NewHelpHandler(deps customer.Deps, baseLogger *zerolog.Logger) ports.CommandHandler {
	return &startHandler{
		base:        newBase(deps, baseLogger, "help_handler"),
		command:     "help",
		description: "List the available commands",
	}
}

func (h *startHandler) Command() string     { return h.command }
func (h *startHandler) Description() string { return h.description }
func (h *startHandler) RequiresLogin() bool { return false }

// Handle greets the user and lists the commands.
func (h *startHandler) Handle(ctx context.Context, update *ports.BotUpdate) error {
	text := helpText
	if h.greeting {
		greeting := "👋 Welcome to AsaBank\\!\n\n"
		// Anything but prod is a sandbox
		if h.appEnv != "" && h.appEnv != "prod" {
			greeting += "🧪 " + messages.Escape(h.appEnv) + " environment, balances are not real money\\.\n\n"
		}
		text = greeting + text
	}
	if id, ok := h.session(update.ChatID); ok {
		text += "\n\nYou are logged in to account " + messages.Escape(id) + "\\."
	}
	return h.send(ctx, messages.NewBuilder(update.ChatID).WithText(text).WithRemoveKeyboard().Build())
}

func appEnv(deps customer.Deps) string {
	if deps.Config == nil {
		return ""
	}
	return deps.Config.AppEnv
}
