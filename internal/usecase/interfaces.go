package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/caixaflow/caixaflow/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Account, error)
	GetByIDsForUpdate(ctx context.Context, tx Transaction, ids []string) ([]*domain.Account, error)
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
	ListActive(ctx context.Context) ([]*domain.Account, error)
}

// MovementRepository defines data access for the append-only movement
// log. There are intentionally no update or delete operations.
type MovementRepository interface {
	Create(ctx context.Context, tx Transaction, movement *domain.Movement) error
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Movement, error)
	ListByAccountPeriod(ctx context.Context, accountID string, period domain.Period) ([]*domain.Movement, error)
	ListBySource(ctx context.Context, sourceType domain.SourceType, sourceID string) ([]*domain.Movement, error)
	// SumByAccountBefore returns the signed sum (IN minus OUT) of all
	// movements for the account strictly before the given instant.
	SumByAccountBefore(ctx context.Context, accountID string, before time.Time) (decimal.Decimal, error)
	// SumByAccount returns the signed sum over the whole log.
	SumByAccount(ctx context.Context, accountID string) (decimal.Decimal, error)
}

// TransferRepository defines data access for transfers.
type TransferRepository interface {
	Create(ctx context.Context, tx Transaction, transfer *domain.Transfer) error
	GetByID(ctx context.Context, id string) (*domain.Transfer, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Transfer, error)
	UpdateStatus(ctx context.Context, tx Transaction, id string, status domain.TransferStatus, executedAt *time.Time, updatedAt time.Time) error
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transfer, error)
	// ListDue returns SCHEDULED transfers with scheduledDate on or
	// before the given day.
	ListDue(ctx context.Context, today time.Time, limit int) ([]*domain.Transfer, error)
}

// RecurringExpenseRepository defines data access for recurring expense
// templates. Occurrences are never persisted.
type RecurringExpenseRepository interface {
	Create(ctx context.Context, expense *domain.RecurringExpense) error
	GetByID(ctx context.Context, id string) (*domain.RecurringExpense, error)
	List(ctx context.Context, limit, offset int) ([]*domain.RecurringExpense, error)
	ListActive(ctx context.Context) ([]*domain.RecurringExpense, error)
	SetActive(ctx context.Context, id string, active bool, updatedAt time.Time) error
}

// CashSessionRepository defines data access for cash register sessions.
type CashSessionRepository interface {
	Create(ctx context.Context, session *domain.CashSession) error
	GetByID(ctx context.Context, id string) (*domain.CashSession, error)
	// GetOpenByAccount returns the open session for an account, or
	// domain.ErrSessionNotFound when there is none.
	GetOpenByAccount(ctx context.Context, accountID string) (*domain.CashSession, error)
	Close(ctx context.Context, id string, closedAt time.Time) error
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// RevenueProvider supplies expected future revenue by calendar day from
// the appointments/sales subsystem. Amounts are estimates and are the
// only projection input a scenario multiplier applies to.
type RevenueProvider interface {
	ExpectedByDay(ctx context.Context, from, to time.Time) (map[time.Time]decimal.Decimal, error)
}

// PayableProvider supplies committed accounts-payable installments by
// due day from the purchases subsystem.
type PayableProvider interface {
	DueByDay(ctx context.Context, from, to time.Time) (map[time.Time]decimal.Decimal, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
