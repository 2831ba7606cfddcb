package ports

import (
	"context"
	"time"
)

// --- Bot Message Structures ---

// SendMessageParams holds all possible options for sending a message.
type SendMessageParams struct {
	ChatID         int64
	Text           string
	ParseMode      string // e.g., "MarkdownV2" or "" for plain text
	RemoveKeyboard bool
}

// --- Bot Client Port (Outbound) ---

// BotClientPort defines the interface for *sending* messages.
type BotClientPort interface {
	SendMessage(ctx context.Context, params SendMessageParams) error
	SetMenuCommands(ctx context.Context, commands []MenuCommand) error
}

// MenuCommand is one entry of the bot's command menu.
type MenuCommand struct {
	Command     string
	Description string
}

// --- Bot Handler Port (Inbound) ---

// BotUpdate represents a simplified, generic update.
type BotUpdate struct {
	MessageID int
	ChatID    int64
	UserID    int64
	Text      string
	Command   string   // Without the leading "/"
	Args      []string // Whitespace-separated command arguments
}

// CommandHandler defines the "plugin" interface for handling bot commands.
type CommandHandler interface {
	// Command returns the command string (e.g., "deposit")
	Command() string
	// Description is shown in the bot menu and in /help.
	Description() string
	// RequiresLogin reports whether the chat must hold a session.
	RequiresLogin() bool
	// Handle processes the update.
	Handle(ctx context.Context, update *BotUpdate) error
}

// SessionStore keeps the transient "logged in" reference per chat.
type SessionStore interface {
	Get(chatID int64) (accountID string, ok bool)
	Set(chatID int64, accountID string)
	Clear(chatID int64)
	// ChatsFor lists every chat logged in to accountID.
	ChatsFor(accountID string) []int64
	// ClearAccount ends the sessions of accountID that started at or before
	// loggedInBefore and returns their chats. Later logins are kept.
	ClearAccount(accountID string, loggedInBefore time.Time) []int64
}
