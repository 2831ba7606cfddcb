package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event bus topics
const (
	TopicTransferCompleted = "account:transfer_completed"
	TopicAccountDeleted    = "account:deleted"
)

// TransferCompleted is published after a transfer has been persisted.
type TransferCompleted struct {
	ID     uuid.UUID
	FromID string
	ToID   string
	Amount decimal.Decimal
	At     time.Time
}

// AccountDeleted is published after an account has been removed.
type AccountDeleted struct {
	ID        uuid.UUID
	AccountID string
	At        time.Time
}
