package ports

import (
	"AsaBank/internal/core/domain"
	"context"

	"github.com/shopspring/decimal"
)

// AccountStore defines the persistence operations for the account registry.
// Save always rewrites the whole set; there are no partial updates.
type AccountStore interface {
	// Load returns every persisted account.
	// A store that does not exist yet yields no accounts and no error.
	Load(ctx context.Context) ([]*domain.Account, error)

	// Save replaces the persisted set with accounts.
	Save(ctx context.Context, accounts []*domain.Account) error
}

// AccountService is the contract the core exposes to the presentation layer.
type AccountService interface {
	CreateAccount(ctx context.Context, category domain.Category) (*domain.Account, error)
	Login(id, passcode string) (*domain.Account, error)
	DeleteAccount(ctx context.Context, id string) error

	// Lookup returns a copy of the account, for display only.
	Lookup(id string) (domain.Account, bool)

	Deposit(ctx context.Context, id string, amount decimal.Decimal) (string, error)
	Withdraw(ctx context.Context, id string, amount decimal.Decimal) (string, error)
	Transfer(ctx context.Context, fromID, toID string, amount decimal.Decimal) (string, error)
	RechargeMobile(ctx context.Context, id string, amount decimal.Decimal, phoneNumber string) (string, error)
}
