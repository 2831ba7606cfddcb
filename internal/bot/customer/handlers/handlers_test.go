package handlers

import (
	"AsaBank/internal/bot/customer"
	"AsaBank/internal/core/domain"
	"AsaBank/internal/core/ports"
	"AsaBank/internal/shared/config"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

// MockAccountService is a mock for the AccountService port
type MockAccountService struct {
	mock.Mock
}

var _ ports.AccountService = (*MockAccountService)(nil)

func (m *MockAccountService) CreateAccount(ctx context.Context, category domain.Category) (*domain.Account, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) Login(id, passcode string) (*domain.Account, error) {
	args := m.Called(id, passcode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) DeleteAccount(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockAccountService) Lookup(id string) (domain.Account, bool) {
	args := m.Called(id)
	return args.Get(0).(domain.Account), args.Bool(1)
}
func (m *MockAccountService) Deposit(ctx context.Context, id string, amount decimal.Decimal) (string, error) {
	args := m.Called(ctx, id, amount)
	return args.String(0), args.Error(1)
}
func (m *MockAccountService) Withdraw(ctx context.Context, id string, amount decimal.Decimal) (string, error) {
	args := m.Called(ctx, id, amount)
	return args.String(0), args.Error(1)
}
func (m *MockAccountService) Transfer(ctx context.Context, fromID, toID string, amount decimal.Decimal) (string, error) {
	args := m.Called(ctx, fromID, toID, amount)
	return args.String(0), args.Error(1)
}
func (m *MockAccountService) RechargeMobile(ctx context.Context, id string, amount decimal.Decimal, phoneNumber string) (string, error) {
	args := m.Called(ctx, id, amount, phoneNumber)
	return args.String(0), args.Error(1)
}

// MockBotClient is a mock for the BotClientPort
type MockBotClient struct {
	mock.Mock
}

func (m *MockBotClient) SendMessage(ctx context.Context, params ports.SendMessageParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}
func (m *MockBotClient) SetMenuCommands(ctx context.Context, commands []ports.MenuCommand) error {
	args := m.Called(ctx, commands)
	return args.Error(0)
}

// --- Helpers ---

type fixture struct {
	bank     *MockAccountService
	bot      *MockBotClient
	sessions *customer.Sessions
	deps     customer.Deps
	log      zerolog.Logger
}

func newFixture() *fixture {
	f := &fixture{
		bank:     new(MockAccountService),
		bot:      new(MockBotClient),
		sessions: customer.NewSessions(),
		log:      zerolog.Nop(),
	}
	f.deps = customer.Deps{Bank: f.bank, Sessions: f.sessions, BotClient: f.bot}
	return f
}

// expectReply captures the next message sent to chatID.
func (f *fixture) expectReply(chatID int64) *ports.SendMessageParams {
	var sent ports.SendMessageParams
	f.bot.On("SendMessage", mock.Anything, mock.MatchedBy(func(p ports.SendMessageParams) bool {
		return p.ChatID == chatID
	})).Run(func(args mock.Arguments) {
		sent = args.Get(1).(ports.SendMessageParams)
	}).Return(nil).Once()
	return &sent
}

func update(chatID int64, command string, args ...string) *ports.BotUpdate {
	return &ports.BotUpdate{ChatID: chatID, UserID: 1, Command: command, Args: args}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// --- Tests ---

func TestDeposit_Success(t *testing.T) {
	f := newFixture()
	f.sessions.Set(1000, "12345")
	h := NewDepositHandler(f.deps, &f.log)

	f.bank.On("Deposit", mock.Anything, "12345", mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(dec("50.5"))
	})).Return("Deposit completed.", nil).Once()
	f.bank.On("Lookup", "12345").Return(domain.Account{ID: "12345", Balance: dec("150.5")}, true)
	sent := f.expectReply(1000)

	require.NoError(t, h.Handle(context.Background(), update(1000, "deposit", "50.5")))

	f.bank.AssertExpectations(t)
	f.bot.AssertExpectations(t)
	assert.Equal(t, "✅ Deposit completed\\.\nFunds: 150\\.50", sent.Text)
}

func TestDeposit_BadAmount(t *testing.T) {
	f := newFixture()
	f.sessions.Set(1000, "12345")
	h := NewDepositHandler(f.deps, &f.log)
	sent := f.expectReply(1000)

	require.NoError(t, h.Handle(context.Background(), update(1000, "deposit", "lots")))

	f.bank.AssertNotCalled(t, "Deposit", mock.Anything, mock.Anything, mock.Anything)
	assert.Contains(t, sent.Text, "is not a valid amount")
}

func TestWithdraw_DomainError(t *testing.T) {
	f := newFixture()
	f.sessions.Set(1000, "12345")
	h := NewWithdrawHandler(f.deps, &f.log)

	f.bank.On("Withdraw", mock.Anything, "12345", mock.Anything).Return("", domain.ErrInsufficientFunds).Once()
	sent := f.expectReply(1000)

	require.NoError(t, h.Handle(context.Background(), update(1000, "withdraw", "1000")))

	assert.Equal(t, "⚠️ Insufficient funds\\.", sent.Text)
}

func TestWithdraw_InternalErrorIsHidden(t *testing.T) {
	f := newFixture()
	f.sessions.Set(1000, "12345")
	h := NewWithdrawHandler(f.deps, &f.log)

	f.bank.On("Withdraw", mock.Anything, "12345", mock.Anything).Return("", errors.New("disk full")).Once()
	sent := f.expectReply(1000)

	require.NoError(t, h.Handle(context.Background(), update(1000, "withdraw", "10")))

	assert.NotContains(t, sent.Text, "disk full")
	assert.Contains(t, sent.Text, "internal error")
	assert.Empty(t, sent.ParseMode)
}

func TestUsage(t *testing.T) {
	f := newFixture()
	f.sessions.Set(1000, "12345")
	h := NewTransferHandler(f.deps, &f.log)
	sent := f.expectReply(1000)

	require.NoError(t, h.Handle(context.Background(), update(1000, "transfer", "54321")))

	assert.True(t, strings.HasPrefix(sent.Text, "Usage:"))
	f.bank.AssertNotCalled(t, "Transfer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOpen(t *testing.T) {
	f := newFixture()
	h := NewOpenHandler(f.deps, &f.log)

	acct := domain.NewAccount("12345", "6789", domain.CategoryBusiness, decimal.Zero)
	f.bank.On("CreateAccount", mock.Anything, domain.CategoryBusiness).Return(acct, nil).Once()
	sent := f.expectReply(1000)

	require.NoError(t, h.Handle(context.Background(), update(1000, "open", "business")))

	f.bank.AssertExpectations(t)
	assert.Contains(t, sent.Text, "Business account created")
	assert.Contains(t, sent.Text, "`12345`")
	assert.Contains(t, sent.Text, "`6789`")
}

func TestOpen_UnsupportedCategory(t *testing.T) {
	f := newFixture()
	h := NewOpenHandler(f.deps, &f.log)
	sent := f.expectReply(1000)

	require.NoError(t, h.Handle(context.Background(), update(1000, "open", "Savings")))

	f.bank.AssertNotCalled(t, "CreateAccount", mock.Anything, mock.Anything)
	assert.Contains(t, sent.Text, "Unsupported account type")
}

func TestLogin(t *testing.T) {
	f := newFixture()
	h := NewLoginHandler(f.deps, &f.log)

	acct := domain.NewAccount("12345", "6789", domain.CategoryPersonal, dec("20"))
	f.bank.On("Login", "12345", "6789").Return(acct, nil).Once()
	f.bank.On("Lookup", "12345").Return(*acct, true)
	sent := f.expectReply(1000)

	require.NoError(t, h.Handle(context.Background(), update(1000, "login", "12345", "6789")))

	id, ok := f.sessions.Get(1000)
	assert.True(t, ok)
	assert.Equal(t, "12345", id)
	assert.Contains(t, sent.Text, "Funds: 20\\.00")
}

func TestLogin_WrongPasscode(t *testing.T) {
	f := newFixture()
	h := NewLoginHandler(f.deps, &f.log)

	f.bank.On("Login", "12345", "0000").Return(nil, domain.ErrAuthentication).Once()
	sent := f.expectReply(1000)

	require.NoError(t, h.Handle(context.Background(), update(1000, "login", "12345", "0000")))

	_, ok := f.sessions.Get(1000)
	assert.False(t, ok)
	assert.Contains(t, sent.Text, "Account number or passcode is not recognized")
}

func TestBalance_AccountGone(t *testing.T) {
	f := newFixture()
	f.sessions.Set(1000, "12345")
	h := NewBalanceHandler(f.deps, &f.log)

	f.bank.On("Lookup", "12345").Return(domain.Account{}, false)
	sent := f.expectReply(1000)

	require.NoError(t, h.Handle(context.Background(), update(1000, "balance")))

	_, ok := f.sessions.Get(1000)
	assert.False(t, ok)
	assert.Contains(t, sent.Text, "Account does not exist")
}

func TestTransfer_MissingRecipient(t *testing.T) {
	f := newFixture()
	f.sessions.Set(1000, "12345")
	h := NewTransferHandler(f.deps, &f.log)

	f.bank.On("Lookup", "99999").Return(domain.Account{}, false)
	sent := f.expectReply(1000)

	require.NoError(t, h.Handle(context.Background(), update(1000, "transfer", "99999", "10")))

	f.bank.AssertNotCalled(t, "Transfer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.Contains(t, sent.Text, "Recipient account does not exist")
}

func TestTransfer_Success(t *testing.T) {
	f := newFixture()
	f.sessions.Set(1000, "12345")
	h := NewTransferHandler(f.deps, &f.log)

	f.bank.On("Lookup", "54321").Return(domain.Account{ID: "54321"}, true)
	f.bank.On("Lookup", "12345").Return(domain.Account{ID: "12345", Balance: dec("90")}, true)
	f.bank.On("Transfer", mock.Anything, "12345", "54321", mock.Anything).Return("Transfer completed.", nil).Once()
	sent := f.expectReply(1000)

	require.NoError(t, h.Handle(context.Background(), update(1000, "transfer", "54321", "10")))

	f.bank.AssertExpectations(t)
	assert.Equal(t, "✅ Transfer completed\\.\nFunds: 90\\.00", sent.Text)
}

func TestRecharge(t *testing.T) {
	f := newFixture()
	f.sessions.Set(1000, "12345")
	h := NewRechargeHandler(f.deps, &f.log)

	f.bank.On("RechargeMobile", mock.Anything, "12345", mock.Anything, "09121234567").
		Return("Recharge of 25 to Phone Number: 09121234567 is successful.", nil).Once()
	f.bank.On("Lookup", "12345").Return(domain.Account{ID: "12345", Balance: dec("75")}, true)
	sent := f.expectReply(1000)

	require.NoError(t, h.Handle(context.Background(), update(1000, "recharge", "09121234567", "25")))

	f.bank.AssertExpectations(t)
	assert.Contains(t, sent.Text, "Phone Number: 09121234567 is successful\\.")
}

func TestDelete_RequiresConfirmation(t *testing.T) {
	f := newFixture()
	f.sessions.Set(1000, "12345")
	h := NewDeleteHandler(f.deps, &f.log)
	sent := f.expectReply(1000)

	require.NoError(t, h.Handle(context.Background(), update(1000, "delete")))

	f.bank.AssertNotCalled(t, "DeleteAccount", mock.Anything, mock.Anything)
	assert.Contains(t, sent.Text, "/delete 12345")
	_, ok := f.sessions.Get(1000)
	assert.True(t, ok)
}

func TestDelete_Confirmed(t *testing.T) {
	f := newFixture()
	f.sessions.Set(1000, "12345")
	h := NewDeleteHandler(f.deps, &f.log)

	f.bank.On("DeleteAccount", mock.Anything, "12345").Return(nil).Once()
	sent := f.expectReply(1000)

	require.NoError(t, h.Handle(context.Background(), update(1000, "delete", "12345")))

	f.bank.AssertExpectations(t)
	_, ok := f.sessions.Get(1000)
	assert.False(t, ok)
	assert.Contains(t, sent.Text, "Account deleted successfully")
}

func TestDelete_StoreFailureKeepsSession(t *testing.T) {
	f := newFixture()
	f.sessions.Set(1000, "12345")
	h := NewDeleteHandler(f.deps, &f.log)

	f.bank.On("DeleteAccount", mock.Anything, "12345").Return(errors.New("write failed")).Once()
	f.expectReply(1000)

	require.NoError(t, h.Handle(context.Background(), update(1000, "delete", "12345")))

	id, ok := f.sessions.Get(1000)
	assert.True(t, ok)
	assert.Equal(t, "12345", id)
}

func TestStart_ShowsSession(t *testing.T) {
	f := newFixture()
	f.sessions.Set(1000, "12345")
	h := NewStartHandler(f.deps, &f.log)
	sent := f.expectReply(1000)

	require.NoError(t, h.Handle(context.Background(), update(1000, "start")))

	assert.Contains(t, sent.Text, "Welcome to AsaBank")
	assert.Contains(t, sent.Text, "logged in to account 12345")
	assert.True(t, sent.RemoveKeyboard)
}

func TestStart_EnvironmentNotice(t *testing.T) {
	tests := []struct {
		appEnv string
		notice bool
	}{
		{"dev", true},
		{"staging", true},
		{"prod", false},
	}

	for _, tt := range tests {
		t.Run(tt.appEnv, func(t *testing.T) {
			f := newFixture()
			f.deps.Config = &config.Config{AppEnv: tt.appEnv}
			h := NewStartHandler(f.deps, &f.log)
			sent := f.expectReply(1000)

			require.NoError(t, h.Handle(context.Background(), update(1000, "start")))

			assert.Equal(t, tt.notice, strings.Contains(sent.Text, "not real money"))
		})
	}
}

func TestHelp_NoEnvironmentNotice(t *testing.T) {
	f := newFixture()
	f.deps.Config = &config.Config{AppEnv: "dev"}
	h := NewHelpHandler(f.deps, &f.log)
	sent := f.expectReply(1000)

	require.NoError(t, h.Handle(context.Background(), update(1000, "help")))

	assert.NotContains(t, sent.Text, "not real money")
	assert.NotContains(t, sent.Text, "Welcome")
}

func TestNotification_TransferCompleted(t *testing.T) {
	f := newFixture()
	f.sessions.Set(2000, "54321")
	f.sessions.Set(3000, "54321")
	f.sessions.Set(4000, "11111")
	h := NewNotificationHandler(f.bot, f.sessions, &f.log)

	first := f.expectReply(2000)
	second := f.expectReply(3000)

	event := ports.Event{
		Topic: domain.TopicTransferCompleted,
		Data: domain.TransferCompleted{
			ID:     uuid.New(),
			FromID: "12345",
			ToID:   "54321",
			Amount: dec("10"),
			At:     time.Now(),
		},
	}
	require.NoError(t, h.HandleTransferCompleted(context.Background(), event))

	f.bot.AssertExpectations(t)
	assert.Contains(t, first.Text, "You received 10\\.00 from account 12345")
	assert.Equal(t, first.Text, second.Text)
}

func TestNotification_AccountDeleted(t *testing.T) {
	f := newFixture()
	f.sessions.Set(2000, "54321")
	h := NewNotificationHandler(f.bot, f.sessions, &f.log)

	sent := f.expectReply(2000)
	event := ports.Event{
		Topic: domain.TopicAccountDeleted,
		Data:  domain.AccountDeleted{ID: uuid.New(), AccountID: "54321", At: time.Now()},
	}
	require.NoError(t, h.HandleAccountDeleted(context.Background(), event))

	_, ok := f.sessions.Get(2000)
	assert.False(t, ok)
	assert.Contains(t, sent.Text, "Account 54321 was deleted")
}

func TestNotification_AccountDeleted_KeepsLaterLogin(t *testing.T) {
	f := newFixture()
	// Reissued id, logged into after the deletion but before the event was handled
	f.sessions.Set(2000, "54321")
	h := NewNotificationHandler(f.bot, f.sessions, &f.log)

	event := ports.Event{
		Topic: domain.TopicAccountDeleted,
		Data:  domain.AccountDeleted{ID: uuid.New(), AccountID: "54321", At: time.Now().Add(-time.Minute)},
	}
	require.NoError(t, h.HandleAccountDeleted(context.Background(), event))

	id, ok := f.sessions.Get(2000)
	assert.True(t, ok)
	assert.Equal(t, "54321", id)
	f.bot.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything)
}

func TestNotification_InvalidPayload(t *testing.T) {
	f := newFixture()
	h := NewNotificationHandler(f.bot, f.sessions, &f.log)

	err := h.HandleTransferCompleted(context.Background(), ports.Event{Data: "garbage"})

	assert.NoError(t, err)
	f.bot.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything)
}
