package handlers

import (
	"AsaBank/internal/bot/customer"
	"AsaBank/internal/bot/messages"
	"AsaBank/internal/core/ports"
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

func init() {
	customer.RegisterCommand(NewDepositHandler)
	customer.RegisterCommand(NewWithdrawHandler)
	customer.RegisterCommand(NewTransferHandler)
	customer.RegisterCommand(NewRechargeHandler)
}

// replyDone sends the core's success message followed by the new balance.
func (b *base) replyDone(ctx context.Context, chatID int64, accountID, msg string) error {
	text := "✅ " + messages.Escape(msg)
	if acct, ok := b.bank.Lookup(accountID); ok {
		text += "\nFunds: " + messages.Escape(messages.Money(acct.Balance))
	}
	return b.send(ctx, messages.NewBuilder(chatID).WithText(text).Build())
}

func (b *base) replyBadAmount(ctx context.Context, chatID int64, raw string) error {
	return b.send(ctx, messages.NewBuilder(chatID).
		WithTextf("\"%s\" is not a valid amount\\.", raw).
		Build())
}

// --- /deposit and /withdraw ---

type amountOp func(ctx context.Context, bank ports.AccountService, id string, amount decimal.Decimal) (string, error)

// amountHandler serves the single-amount commands.
type amountHandler struct {
	base
	command     string
	description string
	op          amountOp
}

// NewDepositHandler creates the /deposit handler.
func NewDepositHandler(deps customer.Deps, baseLogger *zerolog.Logger) ports.CommandHandler {
	return &amountHandler{
		base:        newBase(deps, baseLogger, "deposit_handler"),
		command:     "deposit",
		description: "Deposit money",
		op: func(ctx context.Context, bank ports.AccountService, id string, amount decimal.Decimal) (string, error) {
			return bank.Deposit(ctx, id, amount)
		},
	}
}

// NewWithdrawHandler creates the /withdraw handler.
func NewWithdrawHandler(deps customer.Deps, baseLogger *zerolog.Logger) ports.CommandHandler {
	return &amountHandler{
		base:        newBase(deps, baseLogger, "withdraw_handler"),
		command:     "withdraw",
		description: "Withdraw money",
		op: func(ctx context.Context, bank ports.AccountService, id string, amount decimal.Decimal) (string, error) {
			return bank.Withdraw(ctx, id, amount)
		},
	}
}

func (h *amountHandler) Command() string     { return h.command }
func (h *amountHandler) Description() string { return h.description }
func (h *amountHandler) RequiresLogin() bool { return true }

func (h *amountHandler) Handle(ctx context.Context, update *ports.BotUpdate) error {
	if len(update.Args) != 1 {
		return h.usage(ctx, update.ChatID, "/"+h.command+" amount")
	}
	amount, err := parseAmount(update.Args[0])
	if err != nil {
		return h.replyBadAmount(ctx, update.ChatID, update.Args[0])
	}

	id, _ := h.session(update.ChatID)
	msg, err := h.op(ctx, h.bank, id, amount)
	if err != nil {
		return h.replyError(ctx, update.ChatID, err)
	}
	return h.replyDone(ctx, update.ChatID, id, msg)
}

// --- /transfer ---

type transferHandler struct{ base }

// NewTransferHandler creates the /transfer handler.
func NewTransferHandler(deps customer.Deps, baseLogger *zerolog.Logger) ports.CommandHandler {
	return &transferHandler{newBase(deps, baseLogger, "transfer_handler")}
}

func (h *transferHandler) Command() string     { return "transfer" }
func (h *transferHandler) Description() string { return "Transfer money to another account" }
func (h *transferHandler) RequiresLogin() bool { return true }

func (h *transferHandler) Handle(ctx context.Context, update *ports.BotUpdate) error {
	if len(update.Args) != 2 {
		return h.usage(ctx, update.ChatID, "/transfer recipient_id amount")
	}
	recipientID := update.Args[0]
	amount, err := parseAmount(update.Args[1])
	if err != nil {
		return h.replyBadAmount(ctx, update.ChatID, update.Args[1])
	}

	if _, ok := h.bank.Lookup(recipientID); !ok {
		return h.send(ctx, messages.NewBuilder(update.ChatID).
			WithText("⚠️ Recipient account does not exist\\.").
			Build())
	}

	id, _ := h.session(update.ChatID)
	msg, err := h.bank.Transfer(ctx, id, recipientID, amount)
	if err != nil {
		return h.replyError(ctx, update.ChatID, err)
	}
	return h.replyDone(ctx, update.ChatID, id, msg)
}

// --- /recharge ---

type rechargeHandler struct{ base }

// NewRechargeHandler creates the /recharge handler.
func NewRechargeHandler(deps customer.Deps, baseLogger *zerolog.Logger) ports.CommandHandler {
	return &rechargeHandler{newBase(deps, baseLogger, "recharge_handler")}
}

func (h *rechargeHandler) Command() string     { return "recharge" }
func (h *rechargeHandler) Description() string { return "Top up a mobile number" }
func (h *rechargeHandler) RequiresLogin() bool { return true }

func (h *rechargeHandler) Handle(ctx context.Context, update *ports.BotUpdate) error {
	if len(update.Args) != 2 {
		return h.usage(ctx, update.ChatID, "/recharge phone amount")
	}
	phone := update.Args[0]
	amount, err := parseAmount(update.Args[1])
	if err != nil {
		return h.replyBadAmount(ctx, update.ChatID, update.Args[1])
	}

	id, _ := h.session(update.ChatID)
	msg, err := h.bank.RechargeMobile(ctx, id, amount, phone)
	if err != nil {
		return h.replyError(ctx, update.ChatID, err)
	}
	return h.replyDone(ctx, update.ChatID, id, msg)
}
