package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidAccountName = errors.New("invalid account name")
	ErrAmountTooLarge     = errors.New("amount exceeds maximum allowed")
	ErrInvalidPeriod      = errors.New("period end must be after period start")
	ErrInvalidCreditLimit = errors.New("credit limit only applies to card accounts")
)

// Validation constants
const (
	MaxAccountNameLength = 255
	MinAccountNameLength = 1
	MaxMovementAmount    = "1000000000" // 1 billion, single currency
)

// ValidateAccountName validates account name.
func ValidateAccountName(name string) error {
	name = strings.TrimSpace(name)

	if len(name) < MinAccountNameLength {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidAccountName)
	}

	if len(name) > MaxAccountNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidAccountName, MaxAccountNameLength)
	}

	return nil
}

// ValidateAmount validates a movement or transfer amount.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	maxAmount, _ := decimal.NewFromString(MaxMovementAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxMovementAmount)
	}

	return nil
}

// ValidatePeriod validates a statement period.
func ValidatePeriod(p Period) error {
	if !p.End.After(p.Start) {
		return ErrInvalidPeriod
	}
	return nil
}

// ValidateCreditLimit checks that a credit limit is only set on card
// accounts and is positive when present.
func ValidateCreditLimit(kind AccountKind, limit *decimal.Decimal) error {
	if limit == nil {
		return nil
	}
	if kind != AccountKindCard {
		return ErrInvalidCreditLimit
	}
	if limit.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: credit limit must be positive", ErrInvalidAmount)
	}
	return nil
}

// ValidatePagination validates and limits pagination parameters.
func ValidatePagination(limit, offset int) (int, int) {
	const maxPageSize = 1000
	const defaultPageSize = 50

	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
