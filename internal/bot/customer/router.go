package customer

import (
	"AsaBank/internal/bot/messages"
	"AsaBank/internal/core/ports"
	"context"
	"sort"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// CustomerRouter is the "Bot Facade." It holds all "plugins"
// and routes incoming updates to the correct handler.
type CustomerRouter struct {
	log             zerolog.Logger
	sessions        ports.SessionStore
	botClient       ports.BotClientPort
	commandHandlers map[string]ports.CommandHandler
}

// NewCustomerRouter creates a new bot facade/router.
func NewCustomerRouter(
	sessions ports.SessionStore,
	botClient ports.BotClientPort,
	baseLogger *zerolog.Logger,
) *CustomerRouter {
	return &CustomerRouter{
		log:             baseLogger.With().Str("component", "customer_router").Logger(),
		sessions:        sessions,
		botClient:       botClient,
		commandHandlers: make(map[string]ports.CommandHandler),
	}
}

// RegisterCommandHandler adds a "plugin" to the router.
func (r *CustomerRouter) RegisterCommandHandler(handler ports.CommandHandler) {
	cmd := handler.Command()
	r.commandHandlers[cmd] = handler
	r.log.Info().Str("command", cmd).Msg("Registered new command handler")
}

// MenuCommands lists the registered commands, sorted, for the bot menu.
func (r *CustomerRouter) MenuCommands() []ports.MenuCommand {
	out := make([]ports.MenuCommand, 0, len(r.commandHandlers))
	for cmd, h := range r.commandHandlers {
		out = append(out, ports.MenuCommand{Command: cmd, Description: h.Description()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Command < out[j].Command })
	return out
}

// HandleUpdate is the main entry point for a new update from Telegram.
func (r *CustomerRouter) HandleUpdate(ctx context.Context, update *tgbotapi.Update) {
	// 1. Convert to our generic BotUpdate
	botUpdate, isSupported := r.parseUpdate(update)
	if !isSupported {
		r.log.Debug().Int("update_id", update.UpdateID).Msg("Received unsupported update type")
		return
	}

	// 2. Add logger context
	ctxLogger := r.log.With().
		Int64("user_id", botUpdate.UserID).
		Int64("chat_id", botUpdate.ChatID).
		Logger()
	ctx = ctxLogger.WithContext(ctx)

	// 3. Anything that is not a command gets a hint
	if botUpdate.Command == "" {
		r.reply(ctx, messages.NewBuilder(botUpdate.ChatID).
			WithText("Please use a command\\. Type /help to see what I can do\\.").
			Build())
		return
	}

	handler, ok := r.commandHandlers[botUpdate.Command]
	if !ok {
		ctxLogger.Info().Str("command", botUpdate.Command).Msg("Unknown command")
		r.reply(ctx, messages.NewBuilder(botUpdate.ChatID).
			WithTextf("Unknown command /%s\\. Type /help to see what I can do\\.", botUpdate.Command).
			Build())
		return
	}

	// 4. Commands on an account need a session
	if handler.RequiresLogin() {
		if _, loggedIn := r.sessions.Get(botUpdate.ChatID); !loggedIn {
			r.reply(ctx, messages.NewBuilder(botUpdate.ChatID).
				WithText("Please /login first\\.").
				Build())
			return
		}
	}

	ctxLogger.Info().Str("handler", botUpdate.Command).Msg("Routing to command handler")
	if err := handler.Handle(ctx, botUpdate); err != nil {
		ctxLogger.Error().Err(err).Msg("Command handler failed")
	}
}

func (r *CustomerRouter) reply(ctx context.Context, msg ports.SendMessageParams) {
	if err := r.botClient.SendMessage(ctx, msg); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to send reply")
	}
}

// parseUpdate converts a tgbotapi.Update into our internal, simplified struct.
func (r *CustomerRouter) parseUpdate(update *tgbotapi.Update) (*ports.BotUpdate, bool) {
	msg := update.Message
	if msg == nil || msg.Chat == nil || msg.From == nil {
		return nil, false
	}

	return &ports.BotUpdate{
		MessageID: msg.MessageID,
		ChatID:    msg.Chat.ID,
		UserID:    msg.From.ID,
		Text:      msg.Text,
		Command:   msg.Command(),
		Args:      strings.Fields(msg.CommandArguments()),
	}, true
}
