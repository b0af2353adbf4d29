package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountKind classifies where money physically sits.
type AccountKind string

const (
	AccountKindBank   AccountKind = "BANK"
	AccountKindCard   AccountKind = "CARD"
	AccountKindWallet AccountKind = "WALLET"
)

// Valid reports whether k is a known account kind.
func (k AccountKind) Valid() bool {
	switch k {
	case AccountKindBank, AccountKindCard, AccountKindWallet:
		return true
	}
	return false
}

// Account represents a bank, card or wallet account that movements are
// recorded against. Balance is a cache of
// OpeningBalance + sum(IN) - sum(OUT) over the movement log and must be
// recomputable from it at any time.
type Account struct {
	ID             string
	Name           string
	Kind           AccountKind
	CreditLimit    *decimal.Decimal
	OpeningBalance decimal.Decimal
	Balance        decimal.Decimal
	Version        int64
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Validate checks structural account invariants.
func (a *Account) Validate() error {
	if !a.Kind.Valid() {
		return ErrInvalidAccountKind
	}
	return ValidateAccountName(a.Name)
}

// ApplyMovement returns the balance after applying a movement in the
// given direction. Accounts are allowed to go negative; overdraft is
// reported, never blocked.
func (a *Account) ApplyMovement(direction Direction, amount decimal.Decimal) decimal.Decimal {
	if direction == DirectionIn {
		return a.Balance.Add(amount)
	}
	return a.Balance.Sub(amount)
}
