package domain

import (
	"errors"
	"fmt"
)

// Domain errors. Their messages are safe to show to a user.
var (
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrInvalidTransfer     = errors.New("invalid recipient account")
	ErrAuthentication      = errors.New("account number or passcode is not recognized")
	ErrNotFound            = errors.New("account does not exist")
	ErrUnsupportedCategory = errors.New("unsupported account type")
	ErrAccountCreation     = errors.New("could not allocate a new account number")
)

// ErrMalformedRecord is wrapped by ParseError when a persisted record cannot be decoded.
var ErrMalformedRecord = errors.New("malformed account record")

// ParseError reports a persisted record that could not be decoded.
type ParseError struct {
	Line   int // 1-based, 0 when unknown
	Record string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %q: %v", e.Line, e.Record, e.Err)
	}
	return fmt.Sprintf("%q: %v", e.Record, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

var userErrors = []error{
	ErrInvalidAmount,
	ErrInsufficientFunds,
	ErrInvalidTransfer,
	ErrAuthentication,
	ErrNotFound,
	ErrUnsupportedCategory,
	ErrAccountCreation,
}

// IsUserError reports whether err is a recoverable domain error
// whose message can be shown to the user as-is.
func IsUserError(err error) bool {
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
