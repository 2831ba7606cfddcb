package messages

import (
	"AsaBank/internal/core/ports"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
)

// Builder helps construct SendMessageParams.
type Builder struct {
	params ports.SendMessageParams
}

// NewBuilder creates a new message builder.
func NewBuilder(chatID int64) *Builder {
	return &Builder{
		params: ports.SendMessageParams{
			ChatID:    chatID,
			ParseMode: tgbotapi.ModeMarkdownV2, // Default to Markdown
		},
	}
}

// WithText sets the message text. It must already be MarkdownV2-safe.
func (b *Builder) WithText(text string) *Builder {
	b.params.Text = text
	return b
}

// WithTextf formats the text, escaping every argument for MarkdownV2.
func (b *Builder) WithTextf(format string, args ...any) *Builder {
	escaped := make([]any, len(args))
	for i, arg := range args {
		escaped[i] = Escape(fmt.Sprint(arg))
	}
	b.params.Text = fmt.Sprintf(format, escaped...)
	return b
}

// WithPlainText sets unformatted text and disables the parse mode.
func (b *Builder) WithPlainText(text string) *Builder {
	b.params.Text = text
	b.params.ParseMode = ""
	return b
}

// WithRemoveKeyboard adds a flag to remove the reply keyboard.
func (b *Builder) WithRemoveKeyboard() *Builder {
	b.params.RemoveKeyboard = true
	return b
}

// Build returns the final SendMessageParams struct.
func (b *Builder) Build() ports.SendMessageParams {
	return b.params
}

// Escape makes s safe to embed in a MarkdownV2 message.
func Escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s)
}

// Money renders an amount with two decimal places.
func Money(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
