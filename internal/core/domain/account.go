package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Category is a custom type for our account category ENUM
type Category string

const (
	CategoryPersonal Category = "Personal"
	CategoryBusiness Category = "Business"
)

// ParseCategory validates a category typed by a user.
// Matching is case-insensitive; the canonical spelling is returned.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.EqualFold(s, string(CategoryPersonal)):
		return CategoryPersonal, nil
	case strings.EqualFold(s, string(CategoryBusiness)):
		return CategoryBusiness, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedCategory, s)
	}
}

// CategoryFromRecord decodes a persisted category.
// Anything that is not exactly "Personal" is a Business account.
func CategoryFromRecord(s string) Category {
	if s == string(CategoryPersonal) {
		return CategoryPersonal
	}
	return CategoryBusiness
}

// Account represents a bank account held by the registry.
type Account struct {
	ID       string
	Passcode string // Plain text
	Category Category
	Balance  decimal.Decimal // Never negative
}

// NewAccount creates an account with the given opening balance.
func NewAccount(id, passcode string, category Category, balance decimal.Decimal) *Account {
	return &Account{
		ID:       id,
		Passcode: passcode,
		Category: category,
		Balance:  balance,
	}
}

// Deposit adds a positive amount to the balance.
func (a *Account) Deposit(amount decimal.Decimal) (string, error) {
	if !amount.IsPositive() {
		return "", ErrInvalidAmount
	}
	a.Balance = a.Balance.Add(amount)
	return "Deposit completed.", nil
}

// Withdraw takes a positive amount out of the balance if funds are sufficient.
func (a *Account) Withdraw(amount decimal.Decimal) (string, error) {
	if err := a.checkDebit(amount); err != nil {
		return "", err
	}
	a.Balance = a.Balance.Sub(amount)
	return "Withdrawal completed.", nil
}

// Transfer moves amount from a to recipient.
// The debit and the credit are two separate steps. Deposit cannot fail once
// Withdraw has accepted the amount, so recipient is never left uncredited.
func (a *Account) Transfer(amount decimal.Decimal, recipient *Account) (string, error) {
	if recipient == nil {
		return "", ErrInvalidTransfer
	}
	if _, err := a.Withdraw(amount); err != nil {
		return "", err
	}
	if _, err := recipient.Deposit(amount); err != nil {
		return "", err
	}
	return "Transfer completed.", nil
}

// RechargeMobile debits amount for a mobile top-up.
// The funds leave the system; nobody is credited.
func (a *Account) RechargeMobile(amount decimal.Decimal, phoneNumber string) (string, error) {
	if err := a.checkDebit(amount); err != nil {
		return "", err
	}
	a.Balance = a.Balance.Sub(amount)
	return fmt.Sprintf("Recharge of %s to Phone Number: %s is successful.", amount.String(), phoneNumber), nil
}

func (a *Account) checkDebit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if amount.GreaterThan(a.Balance) {
		return ErrInsufficientFunds
	}
	return nil
}
