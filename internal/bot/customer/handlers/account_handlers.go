package handlers

import (
	"AsaBank/internal/bot/customer"
	"AsaBank/internal/bot/messages"
	"AsaBank/internal/core/domain"
	"AsaBank/internal/core/ports"
	"context"
	"errors"

	"github.com/rs/zerolog"
)

func init() {
	customer.RegisterCommand(NewOpenHandler)
	customer.RegisterCommand(NewLoginHandler)
	customer.RegisterCommand(NewLogoutHandler)
	customer.RegisterCommand(NewBalanceHandler)
	customer.RegisterCommand(NewDeleteHandler)
}

// --- /open ---

type openHandler struct{ base }

// NewOpenHandler creates the handler that opens a Personal or Business account.
func NewOpenHandler(deps customer.Deps, baseLogger *zerolog.Logger) ports.CommandHandler {
	return &openHandler{newBase(deps, baseLogger, "open_handler")}
}

func (h *openHandler) Command() string     { return "open" }
func (h *openHandler) Description() string { return "Open a Personal or Business account" }
func (h *openHandler) RequiresLogin() bool { return false }

func (h *openHandler) Handle(ctx context.Context, update *ports.BotUpdate) error {
	if len(update.Args) != 1 {
		return h.usage(ctx, update.ChatID, "/open Personal|Business")
	}

	category, err := domain.ParseCategory(update.Args[0])
	if err != nil {
		return h.replyError(ctx, update.ChatID, err)
	}

	acct, err := h.bank.CreateAccount(ctx, category)
	if err != nil {
		return h.replyError(ctx, update.ChatID, err)
	}

	h.logger(ctx).Info().Str("account_id", acct.ID).Msg("Account opened from chat")
	return h.send(ctx, messages.NewBuilder(update.ChatID).
		WithTextf("✅ %s account created\\!\n\nAccount ID: `%s`\nPasscode: `%s`\n\nKeep your passcode safe, it will not be shown again\\.",
			acct.Category, acct.ID, acct.Passcode).
		Build())
}

// --- /login ---

type loginHandler struct{ base }

// NewLoginHandler creates the handler that starts a session.
func NewLoginHandler(deps customer.Deps, baseLogger *zerolog.Logger) ports.CommandHandler {
	return &loginHandler{newBase(deps, baseLogger, "login_handler")}
}

func (h *loginHandler) Command() string     { return "login" }
func (h *loginHandler) Description() string { return "Log in with account id and passcode" }
func (h *loginHandler) RequiresLogin() bool { return false }

func (h *loginHandler) Handle(ctx context.Context, update *ports.BotUpdate) error {
	if len(update.Args) != 2 {
		return h.usage(ctx, update.ChatID, "/login id passcode")
	}

	acct, err := h.bank.Login(update.Args[0], update.Args[1])
	if err != nil {
		return h.replyError(ctx, update.ChatID, err)
	}

	h.sessions.Set(update.ChatID, acct.ID)
	h.logger(ctx).Info().Str("account_id", acct.ID).Msg("Chat logged in")

	// Read the balance through Lookup; other workers may be mutating acct.
	snapshot, _ := h.bank.Lookup(acct.ID)
	return h.send(ctx, messages.NewBuilder(update.ChatID).
		WithTextf("🔓 Logged in to %s account %s\\.\nFunds: %s",
			acct.Category, acct.ID, messages.Money(snapshot.Balance)).
		Build())
}

// --- /logout ---

type logoutHandler struct{ base }

// NewLogoutHandler creates the handler that ends a session.
func NewLogoutHandler(deps customer.Deps, baseLogger *zerolog.Logger) ports.CommandHandler {
	return &logoutHandler{newBase(deps, baseLogger, "logout_handler")}
}

func (h *logoutHandler) Command() string     { return "logout" }
func (h *logoutHandler) Description() string { return "Log out" }
func (h *logoutHandler) RequiresLogin() bool { return true }

func (h *logoutHandler) Handle(ctx context.Context, update *ports.BotUpdate) error {
	h.sessions.Clear(update.ChatID)
	return h.send(ctx, messages.NewBuilder(update.ChatID).
		WithText("🔒 Logged out\\.").
		Build())
}

// --- /balance ---

type balanceHandler struct{ base }

// NewBalanceHandler creates the handler that shows the account summary.
func NewBalanceHandler(deps customer.Deps, baseLogger *zerolog.Logger) ports.CommandHandler {
	return &balanceHandler{newBase(deps, baseLogger, "balance_handler")}
}

func (h *balanceHandler) Command() string     { return "balance" }
func (h *balanceHandler) Description() string { return "Show your funds" }
func (h *balanceHandler) RequiresLogin() bool { return true }

func (h *balanceHandler) Handle(ctx context.Context, update *ports.BotUpdate) error {
	id, _ := h.session(update.ChatID)
	acct, ok := h.bank.Lookup(id)
	if !ok {
		h.sessions.Clear(update.ChatID)
		return h.replyError(ctx, update.ChatID, domain.ErrNotFound)
	}

	return h.send(ctx, messages.NewBuilder(update.ChatID).
		WithTextf("Account: %s\nAccount Type: %s\nFunds: %s",
			acct.ID, acct.Category, messages.Money(acct.Balance)).
		Build())
}

// --- /delete ---

type deleteHandler struct{ base }

// NewDeleteHandler creates the handler that deletes the logged-in account.
// The id must be repeated as confirmation.
func NewDeleteHandler(deps customer.Deps, baseLogger *zerolog.Logger) ports.CommandHandler {
	return &deleteHandler{newBase(deps, baseLogger, "delete_handler")}
}

func (h *deleteHandler) Command() string     { return "delete" }
func (h *deleteHandler) Description() string { return "Delete your account" }
func (h *deleteHandler) RequiresLogin() bool { return true }

func (h *deleteHandler) Handle(ctx context.Context, update *ports.BotUpdate) error {
	id, _ := h.session(update.ChatID)
	if len(update.Args) != 1 || update.Args[0] != id {
		return h.send(ctx, messages.NewBuilder(update.ChatID).
			WithTextf("To delete your account, send /delete %s\\. This cannot be undone\\.", id).
			Build())
	}

	// Log out first so the deletion notification skips this chat
	h.sessions.Clear(update.ChatID)
	if err := h.bank.DeleteAccount(ctx, id); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			h.sessions.Set(update.ChatID, id)
		}
		return h.replyError(ctx, update.ChatID, err)
	}

	h.logger(ctx).Info().Str("account_id", id).Msg("Account deleted from chat")
	return h.send(ctx, messages.NewBuilder(update.ChatID).
		WithText("🗑 Account deleted successfully\\.").
		Build())
}
