package filestore

import (
	"AsaBank/internal/core/domain"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// fieldCount is the number of comma-separated fields in a record:
// id,passcode,category,balance
const fieldCount = 4

// EncodeRecord renders one account as a record line, without the newline.
func EncodeRecord(acct *domain.Account) string {
	return strings.Join([]string{
		acct.ID,
		acct.Passcode,
		string(acct.Category),
		acct.Balance.String(),
	}, ",")
}

// DecodeRecord parses one record line.
// Errors wrap domain.ErrMalformedRecord.
func DecodeRecord(line string) (*domain.Account, error) {
	fields := strings.Split(strings.TrimSpace(line), ",")
	if len(fields) != fieldCount {
		return nil, fmt.Errorf("%w: want %d fields, got %d", domain.ErrMalformedRecord, fieldCount, len(fields))
	}

	id, passcode, category, rawBalance := fields[0], fields[1], fields[2], fields[3]
	if id == "" {
		return nil, fmt.Errorf("%w: empty account id", domain.ErrMalformedRecord)
	}
	if passcode == "" {
		return nil, fmt.Errorf("%w: empty passcode", domain.ErrMalformedRecord)
	}

	balance, err := decimal.NewFromString(rawBalance)
	if err != nil {
		return nil, fmt.Errorf("%w: balance %q: %v", domain.ErrMalformedRecord, rawBalance, err)
	}
	if balance.IsNegative() {
		return nil, fmt.Errorf("%w: negative balance %s", domain.ErrMalformedRecord, rawBalance)
	}

	return domain.NewAccount(id, passcode, domain.CategoryFromRecord(category), balance), nil
}
