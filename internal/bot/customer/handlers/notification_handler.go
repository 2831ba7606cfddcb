package handlers

import (
	"AsaBank/internal/bot/messages"
	"AsaBank/internal/core/domain"
	"AsaBank/internal/core/ports"
	"context"
	"errors"

	"github.com/rs/zerolog"
)

// NotificationHandler listens for internal events (from the EventBus)
// and tells the affected chats about them.
// It is NOT a registered command handler; it's a system component.
type NotificationHandler struct {
	log      zerolog.Logger
	bot      ports.BotClientPort
	sessions ports.SessionStore
}

// NewNotificationHandler creates a new handler for account notifications.
func NewNotificationHandler(
	bot ports.BotClientPort,
	sessions ports.SessionStore,
	baseLogger *zerolog.Logger,
) *NotificationHandler {
	return &NotificationHandler{
		log:      baseLogger.With().Str("component", "notification_handler").Logger(),
		bot:      bot,
		sessions: sessions,
	}
}

// Subscribe registers the handler's topics on bus.
func (h *NotificationHandler) Subscribe(bus ports.EventBus) {
	bus.Subscribe(domain.TopicTransferCompleted, h.HandleTransferCompleted)
	bus.Subscribe(domain.TopicAccountDeleted, h.HandleAccountDeleted)
}

// HandleTransferCompleted is an EventHandler for the "account:transfer_completed" topic.
// Every chat logged in to the recipient account is told about the credit.
func (h *NotificationHandler) HandleTransferCompleted(ctx context.Context, event ports.Event) error {
	transfer, ok := event.Data.(domain.TransferCompleted)
	if !ok {
		h.log.Error().Msg("Received invalid data for 'account:transfer_completed' event")
		return nil // Don't retry
	}

	log := h.log.With().
		Str("event_id", transfer.ID.String()).
		Str("account_id", transfer.ToID).
		Logger()

	var errs []error
	for _, chatID := range h.sessions.ChatsFor(transfer.ToID) {
		msg := messages.NewBuilder(chatID).
			WithTextf("💸 You received %s from account %s\\.", messages.Money(transfer.Amount), transfer.FromID).
			Build()
		if err := h.bot.SendMessage(ctx, msg); err != nil {
			log.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send transfer notification")
			errs = append(errs, err)
			continue
		}
		log.Info().Int64("chat_id", chatID).Msg("Transfer notification sent")
	}
	return errors.Join(errs...)
}

// HandleAccountDeleted is an EventHandler for the "account:deleted" topic.
// Chats that were logged in to the account when it was deleted (other than
// the one that deleted it) are logged out and told why.
func (h *NotificationHandler) HandleAccountDeleted(ctx context.Context, event ports.Event) error {
	deleted, ok := event.Data.(domain.AccountDeleted)
	if !ok {
		h.log.Error().Msg("Received invalid data for 'account:deleted' event")
		return nil // Don't retry
	}

	chats := h.sessions.ClearAccount(deleted.AccountID, deleted.At)

	var errs []error
	for _, chatID := range chats {
		msg := messages.NewBuilder(chatID).
			WithTextf("Account %s was deleted\\. You have been logged out\\.", deleted.AccountID).
			Build()
		if err := h.bot.SendMessage(ctx, msg); err != nil {
			h.log.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send deletion notification")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
