package handlers

import (
	"AsaBank/internal/bot/customer"
	"AsaBank/internal/bot/messages"
	"AsaBank/internal/core/domain"
	"AsaBank/internal/core/ports"
	"context"
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var errBadAmount = errors.New("not a number")

// base carries what every command handler needs.
type base struct {
	log      zerolog.Logger
	bank     ports.AccountService
	sessions ports.SessionStore
	bot      ports.BotClientPort
}

func newBase(deps customer.Deps, baseLogger *zerolog.Logger, component string) base {
	return base{
		log:      baseLogger.With().Str("component", component).Logger(),
		bank:     deps.Bank,
		sessions: deps.Sessions,
		bot:      deps.BotClient,
	}
}

// logger prefers the request logger the router put into ctx.
func (b *base) logger(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &b.log
}

func (b *base) send(ctx context.Context, msg ports.SendMessageParams) error {
	return b.bot.SendMessage(ctx, msg)
}

// replyError turns a failed core call into a message for the user.
// Domain errors are shown as-is; anything else is logged and hidden.
func (b *base) replyError(ctx context.Context, chatID int64, err error) error {
	if domain.IsUserError(err) {
		return b.send(ctx, messages.NewBuilder(chatID).
			WithTextf("⚠️ %s\\.", sentence(err.Error())).
			Build())
	}

	b.logger(ctx).Error().Err(err).Msg("Operation failed")
	return b.send(ctx, messages.NewBuilder(chatID).
		WithPlainText("An internal error occurred. Please try again later.").
		Build())
}

// usage answers a malformed command.
func (b *base) usage(ctx context.Context, chatID int64, usage string) error {
	return b.send(ctx, messages.NewBuilder(chatID).
		WithTextf("Usage: %s", usage).
		Build())
}

// session returns the account id the chat is logged in to.
// The router guarantees one exists for handlers that require login, but the
// account may have been deleted from another chat since.
func (b *base) session(chatID int64) (string, bool) {
	return b.sessions.Get(chatID)
}

// parseAmount converts user input into a monetary amount.
// Sign checks belong to the core; only the syntax is validated here.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, errBadAmount
	}
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errBadAmount
	}
	return amount, nil
}

// sentence upper-cases the first letter of an error message.
func sentence(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
