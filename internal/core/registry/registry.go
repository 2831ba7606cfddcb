// Package registry holds the AccountRegistry: the in-memory owner of every
// account, reconciled with an AccountStore after each mutation.
package registry

import (
	"AsaBank/internal/core/domain"
	"AsaBank/internal/core/ports"
	"context"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	minAccountID = 10000
	maxAccountID = 99999
	minPasscode  = 1000
	maxPasscode  = 9999

	// maxIDAttempts bounds the redraws when a generated id is already taken.
	maxIDAttempts = 64
)

// AccountRegistry owns the id -> account mapping.
// All public methods are serialised by mu.
type AccountRegistry struct {
	mu       sync.Mutex
	accounts map[string]*domain.Account
	store    ports.AccountStore
	bus      ports.EventBus // May be nil
	log      zerolog.Logger

	// randInRange returns a uniform integer in [lo, hi].
	randInRange func(lo, hi int) int
	now         func() time.Time
}

var _ ports.AccountService = (*AccountRegistry)(nil) // Ensure compliance

// NewAccountRegistry creates a registry and loads the store into it.
func NewAccountRegistry(
	ctx context.Context,
	store ports.AccountStore,
	bus ports.EventBus,
	baseLogger *zerolog.Logger,
) (*AccountRegistry, error) {
	r := &AccountRegistry{
		accounts: make(map[string]*domain.Account),
		store:    store,
		bus:      bus,
		log:      baseLogger.With().Str("component", "account_registry").Logger(),
		randInRange: func(lo, hi int) int {
			return lo + rand.Intn(hi-lo+1)
		},
		now: time.Now,
	}
	if err := r.Load(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

// Load replaces the in-memory mapping with the store contents.
func (r *AccountRegistry) Load(ctx context.Context) error {
	loaded, err := r.store.Load(ctx)
	if err != nil {
		r.log.Error().Err(err).Msg("Failed to load accounts")
		return err
	}

	accounts := make(map[string]*domain.Account, len(loaded))
	for _, acct := range loaded {
		accounts[acct.ID] = acct
	}

	r.mu.Lock()
	r.accounts = accounts
	r.mu.Unlock()

	r.log.Info().Int("count", len(accounts)).Msg("Accounts loaded")
	return nil
}

// Save writes every account to the store.
func (r *AccountRegistry) Save(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saveLocked(ctx)
}

func (r *AccountRegistry) saveLocked(ctx context.Context) error {
	all := make([]*domain.Account, 0, len(r.accounts))
	for _, acct := range r.accounts {
		all = append(all, acct)
	}
	if err := r.store.Save(ctx, all); err != nil {
		r.log.Error().Err(err).Msg("Failed to save accounts")
		return err
	}
	return nil
}

// CreateAccount opens an account with a fresh id and passcode and a zero balance.
// The returned account is the only place the passcode is disclosed.
func (r *AccountRegistry) CreateAccount(ctx context.Context, category domain.Category) (*domain.Account, error) {
	category, err := domain.ParseCategory(string(category))
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.freeIDLocked()
	if !ok {
		r.log.Error().Int("accounts", len(r.accounts)).Msg("No free account id found")
		return nil, domain.ErrAccountCreation
	}
	passcode := strconv.Itoa(r.randInRange(minPasscode, maxPasscode))

	acct := domain.NewAccount(id, passcode, category, decimal.Zero)
	r.accounts[id] = acct

	if err := r.saveLocked(ctx); err != nil {
		// The passcode was never disclosed, so the account is unusable.
		delete(r.accounts, id)
		return nil, err
	}

	r.log.Info().Str("account_id", id).Str("category", string(category)).Msg("Account created")
	return acct, nil
}

func (r *AccountRegistry) freeIDLocked() (string, bool) {
	for i := 0; i < maxIDAttempts; i++ {
		id := strconv.Itoa(r.randInRange(minAccountID, maxAccountID))
		if _, taken := r.accounts[id]; !taken {
			return id, true
		}
	}
	return "", false
}

// Login returns the account when id exists and passcode matches exactly.
func (r *AccountRegistry) Login(id, passcode string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	acct, ok := r.accounts[id]
	if !ok || acct.Passcode != passcode {
		r.log.Info().Str("account_id", id).Msg("Login rejected")
		return nil, domain.ErrAuthentication
	}
	return acct, nil
}

// DeleteAccount removes the account and persists.
func (r *AccountRegistry) DeleteAccount(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.accounts, id)

	if err := r.saveLocked(ctx); err != nil {
		return err
	}

	r.log.Info().Str("account_id", id).Msg("Account deleted")
	r.publish(ctx, domain.TopicAccountDeleted, domain.AccountDeleted{
		ID:        uuid.New(),
		AccountID: id,
		At:        r.now(),
	})
	return nil
}

// Lookup returns a copy of the account.
func (r *AccountRegistry) Lookup(id string) (domain.Account, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	acct, ok := r.accounts[id]
	if !ok {
		return domain.Account{}, false
	}
	return *acct, true
}

// Len returns the number of accounts.
func (r *AccountRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.accounts)
}

// Deposit credits the account and persists.
func (r *AccountRegistry) Deposit(ctx context.Context, id string, amount decimal.Decimal) (string, error) {
	return r.mutate(ctx, id, "deposit", func(acct *domain.Account) (string, error) {
		return acct.Deposit(amount)
	})
}

// Withdraw debits the account and persists.
func (r *AccountRegistry) Withdraw(ctx context.Context, id string, amount decimal.Decimal) (string, error) {
	return r.mutate(ctx, id, "withdraw", func(acct *domain.Account) (string, error) {
		return acct.Withdraw(amount)
	})
}

// RechargeMobile debits the account for a mobile top-up and persists.
func (r *AccountRegistry) RechargeMobile(ctx context.Context, id string, amount decimal.Decimal, phoneNumber string) (string, error) {
	return r.mutate(ctx, id, "recharge", func(acct *domain.Account) (string, error) {
		return acct.RechargeMobile(amount, phoneNumber)
	})
}

// Transfer moves amount from fromID to toID and persists.
// An unknown recipient is reported as domain.ErrInvalidTransfer.
func (r *AccountRegistry) Transfer(ctx context.Context, fromID, toID string, amount decimal.Decimal) (string, error) {
	msg, err := r.mutate(ctx, fromID, "transfer", func(acct *domain.Account) (string, error) {
		// nil when absent; Account.Transfer rejects it
		return acct.Transfer(amount, r.accounts[toID])
	})
	if err != nil {
		return "", err
	}

	r.publish(ctx, domain.TopicTransferCompleted, domain.TransferCompleted{
		ID:     uuid.New(),
		FromID: fromID,
		ToID:   toID,
		Amount: amount,
		At:     r.now(),
	})
	return msg, nil
}

// mutate runs op against account id and saves when op succeeds.
// A failed op leaves memory and store untouched.
func (r *AccountRegistry) mutate(
	ctx context.Context,
	id string,
	opName string,
	op func(acct *domain.Account) (string, error),
) (string, error) {
	log := r.log.With().Str("account_id", id).Str("op", opName).Logger()

	r.mu.Lock()
	defer r.mu.Unlock()

	acct, ok := r.accounts[id]
	if !ok {
		return "", domain.ErrNotFound
	}

	msg, err := op(acct)
	if err != nil {
		log.Info().Err(err).Msg("Operation rejected")
		return "", err
	}

	if err := r.saveLocked(ctx); err != nil {
		return "", err
	}

	log.Info().Str("balance", acct.Balance.String()).Msg("Operation completed")
	return msg, nil
}

func (r *AccountRegistry) publish(ctx context.Context, topic string, data any) {
	if r.bus == nil {
		return
	}
	if err := r.bus.Publish(ctx, topic, data); err != nil {
		r.log.Warn().Err(err).Str("topic", topic).Msg("Failed to publish event")
	}
}
