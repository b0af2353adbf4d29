package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferStatus is the lifecycle state of a transfer.
//
// SCHEDULED -> EXECUTED  (irreversible)
// SCHEDULED -> CANCELLED (terminal)
type TransferStatus string

const (
	TransferScheduled TransferStatus = "SCHEDULED"
	TransferExecuted  TransferStatus = "EXECUTED"
	TransferCancelled TransferStatus = "CANCELLED"
)

// Valid reports whether s is a known transfer status.
func (s TransferStatus) Valid() bool {
	switch s {
	case TransferScheduled, TransferExecuted, TransferCancelled:
		return true
	}
	return false
}

// Transfer represents a scheduled or executed money movement between
// two accounts. An EXECUTED transfer has exactly two movements
// referencing it (one OUT on the source, one IN on the destination,
// equal amount); any other status has none.
type Transfer struct {
	ID            string
	FromAccountID string
	ToAccountID   string
	Amount        decimal.Decimal
	ScheduledDate time.Time
	ExecutedAt    *time.Time
	Status        TransferStatus
	Description   string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Validate validates a transfer request.
func (t *Transfer) Validate() error {
	if t.FromAccountID == t.ToAccountID {
		return ErrSameAccount
	}

	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	return nil
}

// DueOn reports whether the transfer should be executed on the given
// business day. Comparison is at calendar-day precision.
func (t *Transfer) DueOn(today time.Time) bool {
	return t.Status == TransferScheduled && !DayOf(t.ScheduledDate).After(DayOf(today))
}

// DayOf truncates a timestamp to midnight of its calendar day, keeping
// the location.
func DayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
