package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction indicates whether a movement adds to or subtracts from an
// account balance.
type Direction string

const (
	DirectionIn  Direction = "IN"
	DirectionOut Direction = "OUT"
)

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	return d == DirectionIn || d == DirectionOut
}

// Method is the payment instrument a movement was settled with.
type Method string

const (
	MethodPix      Method = "PIX"
	MethodCard     Method = "CARD"
	MethodCash     Method = "CASH"
	MethodTransfer Method = "TRANSFER"
	MethodWallet   Method = "WALLET"
)

// Valid reports whether m is a known payment method.
func (m Method) Valid() bool {
	switch m {
	case MethodPix, MethodCard, MethodCash, MethodTransfer, MethodWallet:
		return true
	}
	return false
}

// SourceType identifies the domain object that originated a movement.
type SourceType string

const (
	SourceSale     SourceType = "SALE"
	SourcePurchase SourceType = "PURCHASE"
	SourceRefund   SourceType = "REFUND"
	SourceManual   SourceType = "MANUAL"
	SourceCredit   SourceType = "CREDIT"
	SourceTransfer SourceType = "TRANSFER"
)

// Valid reports whether s is a known source type.
func (s SourceType) Valid() bool {
	switch s {
	case SourceSale, SourcePurchase, SourceRefund, SourceManual, SourceCredit, SourceTransfer:
		return true
	}
	return false
}

// Movement represents one immutable cash event against one account.
// Movements are append-only: corrections are made by recording
// offsetting movements, never by update or delete. BalanceAfter is a
// materialized view of the running balance and must stay recomputable
// from the log alone.
type Movement struct {
	ID           string
	AccountID    string
	Direction    Direction
	Amount       decimal.Decimal
	Method       Method
	SourceType   SourceType
	SourceID     *string
	OccurredAt   time.Time
	Description  string
	BalanceAfter decimal.Decimal
	CreatedAt    time.Time
}

// Signed returns the amount with direction applied: positive for IN,
// negative for OUT.
func (m *Movement) Signed() decimal.Decimal {
	if m.Direction == DirectionIn {
		return m.Amount
	}
	return m.Amount.Neg()
}

// Validate validates a movement before it is recorded.
func (m *Movement) Validate() error {
	if m.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if !m.Direction.Valid() {
		return ErrInvalidDirection
	}
	if !m.Method.Valid() {
		return ErrInvalidMethod
	}
	if !m.SourceType.Valid() {
		return ErrInvalidSource
	}
	return nil
}
