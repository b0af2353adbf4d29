package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/caixaflow/caixaflow/internal/domain"
)

// LedgerUseCase is the single write path for account balances. Every
// movement, whether recorded directly or via transfer execution, goes
// through the append-only log this use case owns.
type LedgerUseCase struct {
	txManager    TransactionManager
	accountRepo  AccountRepository
	movementRepo MovementRepository
	outboxRepo   OutboxRepository
	idGen        IDGenerator
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	movementRepo MovementRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
) *LedgerUseCase {
	return &LedgerUseCase{
		txManager:    txManager,
		accountRepo:  accountRepo,
		movementRepo: movementRepo,
		outboxRepo:   outboxRepo,
		idGen:        idGen,
	}
}

// RecordMovementInput represents input for recording a movement.
type RecordMovementInput struct {
	AccountID   string
	Direction   domain.Direction
	Amount      decimal.Decimal
	Method      domain.Method
	SourceType  domain.SourceType
	SourceID    *string
	OccurredAt  time.Time
	Description string
}

// RecordMovement appends a movement to the account's log and updates
// the cached balance, as one transaction. The account row is locked so
// writes to a single account are serialized and the balance computation
// never races.
func (uc *LedgerUseCase) RecordMovement(ctx context.Context, input RecordMovementInput) (*domain.Movement, error) {
	now := time.Now().UTC()

	occurredAt := input.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = now
	}

	movement := &domain.Movement{
		ID:          uc.idGen.Generate(),
		AccountID:   input.AccountID,
		Direction:   input.Direction,
		Amount:      input.Amount,
		Method:      input.Method,
		SourceType:  input.SourceType,
		SourceID:    input.SourceID,
		OccurredAt:  occurredAt,
		Description: input.Description,
		CreatedAt:   now,
	}

	// Validate before any state change.
	if err := movement.Validate(); err != nil {
		return nil, err
	}
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, input.AccountID)
	if err != nil {
		return nil, err
	}

	if !account.Active {
		return nil, domain.ErrAccountInactive
	}

	newBalance := account.ApplyMovement(input.Direction, input.Amount)
	movement.BalanceAfter = newBalance

	if err := uc.movementRepo.Create(ctx, tx, movement); err != nil {
		return nil, err
	}

	if err := uc.accountRepo.UpdateBalance(ctx, tx, account.ID, newBalance, now); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   movement.ID,
		AggregateType: domain.AggregateTypeMovement,
		EventType:     domain.EventTypeMovementRecorded,
		Payload: map[string]any{
			"movement_id":   movement.ID,
			"account_id":    movement.AccountID,
			"direction":     string(movement.Direction),
			"amount":        movement.Amount.String(),
			"method":        string(movement.Method),
			"source_type":   string(movement.SourceType),
			"balance_after": movement.BalanceAfter.String(),
			"occurred_at":   movement.OccurredAt.Format(time.RFC3339),
		},
		CreatedAt: now,
	}

	if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return movement, nil
}

// CurrentBalance returns the account's balance: opening balance plus
// the signed sum of its movement log, read from the cached column that
// RecordMovement keeps consistent under the row lock.
func (uc *LedgerUseCase) CurrentBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}

	return account.Balance, nil
}

// TotalBalance sums the balances of the given accounts. With no IDs it
// covers all active accounts, which is the consolidated dashboard
// figure.
func (uc *LedgerUseCase) TotalBalance(ctx context.Context, accountIDs []string) (decimal.Decimal, error) {
	total := decimal.Zero

	if len(accountIDs) == 0 {
		accounts, err := uc.accountRepo.ListActive(ctx)
		if err != nil {
			return decimal.Zero, err
		}

		for _, a := range accounts {
			total = total.Add(a.Balance)
		}

		return total, nil
	}

	for _, id := range accountIDs {
		account, err := uc.accountRepo.GetByID(ctx, id)
		if err != nil {
			return decimal.Zero, err
		}

		total = total.Add(account.Balance)
	}

	return total, nil
}

// ErrInconsistentBalance is returned by CheckConsistency when a cached
// balance does not match the movement log.
var ErrInconsistentBalance = errors.New("cached balance does not match movement log")

// BalanceDrift reports one account whose cached balance disagrees with
// its recomputed balance.
type BalanceDrift struct {
	AccountID  string
	Cached     decimal.Decimal
	Recomputed decimal.Decimal
}

// CheckConsistency recomputes every account balance from the movement
// log and compares it with the cached column, proving the cache is
// recomputable from the log alone.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context) ([]BalanceDrift, error) {
	accounts, err := uc.accountRepo.List(ctx, 1000, 0)
	if err != nil {
		return nil, err
	}

	var drifts []BalanceDrift
	for _, account := range accounts {
		sum, err := uc.movementRepo.SumByAccount(ctx, account.ID)
		if err != nil {
			return nil, err
		}

		recomputed := account.OpeningBalance.Add(sum)
		if !recomputed.Equal(account.Balance) {
			drifts = append(drifts, BalanceDrift{
				AccountID:  account.ID,
				Cached:     account.Balance,
				Recomputed: recomputed,
			})
		}
	}

	if len(drifts) > 0 {
		return drifts, ErrInconsistentBalance
	}

	return nil, nil
}
