package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/caixaflow/caixaflow/internal/domain"
)

// TransferUseCase moves money between two accounts with an explicit
// schedule and an all-or-nothing execution guarantee.
type TransferUseCase struct {
	txManager    TransactionManager
	accountRepo  AccountRepository
	transferRepo TransferRepository
	movementRepo MovementRepository
	outboxRepo   OutboxRepository
	idGen        IDGenerator
}

// NewTransferUseCase creates a new TransferUseCase.
func NewTransferUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	transferRepo TransferRepository,
	movementRepo MovementRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
) *TransferUseCase {
	return &TransferUseCase{
		txManager:    txManager,
		accountRepo:  accountRepo,
		transferRepo: transferRepo,
		movementRepo: movementRepo,
		outboxRepo:   outboxRepo,
		idGen:        idGen,
	}
}

// CreateTransferInput represents input for creating a transfer. Today
// overrides the business day used to decide immediate execution; nil
// means the current UTC day.
type CreateTransferInput struct {
	FromAccountID string
	ToAccountID   string
	Amount        decimal.Decimal
	ScheduledDate time.Time
	Description   string
	Today         *time.Time
}

// CreateTransfer persists a transfer. A transfer scheduled for today or
// earlier is executed immediately; otherwise it stays SCHEDULED with no
// movements until the sweep picks it up. If immediate execution fails
// the transfer remains SCHEDULED for retry and the failure is returned.
func (uc *TransferUseCase) CreateTransfer(ctx context.Context, input CreateTransferInput) (*domain.Transfer, error) {
	now := time.Now().UTC()

	today := now
	if input.Today != nil {
		today = *input.Today
	}

	scheduledDate := input.ScheduledDate
	if scheduledDate.IsZero() {
		scheduledDate = today
	}

	transfer := &domain.Transfer{
		ID:            uc.idGen.Generate(),
		FromAccountID: input.FromAccountID,
		ToAccountID:   input.ToAccountID,
		Amount:        input.Amount,
		ScheduledDate: domain.DayOf(scheduledDate),
		Status:        domain.TransferScheduled,
		Description:   input.Description,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	// All validation happens before any state change.
	if err := transfer.Validate(); err != nil {
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

	if err := uc.transferRepo.Create(ctx, tx, transfer); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   transfer.ID,
		AggregateType: domain.AggregateTypeTransfer,
		EventType:     domain.EventTypeTransferScheduled,
		Payload: map[string]any{
			"transfer_id":     transfer.ID,
			"from_account_id": transfer.FromAccountID,
			"to_account_id":   transfer.ToAccountID,
			"amount":          transfer.Amount.String(),
			"scheduled_date":  transfer.ScheduledDate.Format(time.DateOnly),
		},
		CreatedAt: now,
	}
	if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if !transfer.DueOn(today) {
		return transfer, nil
	}

	return uc.ExecuteTransfer(ctx, transfer.ID)
}

// ExecuteTransfer executes a SCHEDULED transfer: one OUT movement on
// the source account and one IN movement on the destination, both dated
// at execution time, plus the status transition, committed as a single
// unit. The status is re-checked under a row lock immediately before
// acting, so concurrent sweeps or a sweep racing a manual call cannot
// double-execute. Overdraft never blocks execution; accounts may go
// negative.
func (uc *TransferUseCase) ExecuteTransfer(ctx context.Context, transferID string) (*domain.Transfer, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	transfer, err := uc.transferRepo.GetByIDForUpdate(ctx, tx, transferID)
	if err != nil {
		return nil, err
	}

	if transfer.Status != domain.TransferScheduled {
		return nil, domain.ErrTransferNotScheduled
	}

	// Lock both accounts in sorted ID order regardless of transfer
	// direction so two opposing transfers cannot deadlock.
	accountIDs := []string{transfer.FromAccountID, transfer.ToAccountID}
	sort.Strings(accountIDs)

	accounts, err := uc.accountRepo.GetByIDsForUpdate(ctx, tx, accountIDs)
	if err != nil {
		return nil, uc.executionFailed(err)
	}
	if len(accounts) != len(accountIDs) {
		return nil, uc.executionFailed(domain.ErrAccountNotFound)
	}

	accountMap := make(map[string]*domain.Account, len(accounts))
	for _, a := range accounts {
		accountMap[a.ID] = a
	}

	fromAccount := accountMap[transfer.FromAccountID]
	toAccount := accountMap[transfer.ToAccountID]

	// Same rule as direct movement recording: a deactivated account
	// takes no new movements, so the transfer stays SCHEDULED until it
	// is cancelled or the account is reactivated.
	if !fromAccount.Active || !toAccount.Active {
		return nil, uc.executionFailed(domain.ErrAccountInactive)
	}

	now := time.Now().UTC()
	sourceID := transfer.ID

	outMovement := &domain.Movement{
		ID:           uc.idGen.Generate(),
		AccountID:    fromAccount.ID,
		Direction:    domain.DirectionOut,
		Amount:       transfer.Amount,
		Method:       domain.MethodTransfer,
		SourceType:   domain.SourceTransfer,
		SourceID:     &sourceID,
		OccurredAt:   now,
		Description:  transfer.Description,
		BalanceAfter: fromAccount.ApplyMovement(domain.DirectionOut, transfer.Amount),
		CreatedAt:    now,
	}

	inMovement := &domain.Movement{
		ID:           uc.idGen.Generate(),
		AccountID:    toAccount.ID,
		Direction:    domain.DirectionIn,
		Amount:       transfer.Amount,
		Method:       domain.MethodTransfer,
		SourceType:   domain.SourceTransfer,
		SourceID:     &sourceID,
		OccurredAt:   now,
		Description:  transfer.Description,
		BalanceAfter: toAccount.ApplyMovement(domain.DirectionIn, transfer.Amount),
		CreatedAt:    now,
	}

	if err := uc.movementRepo.Create(ctx, tx, outMovement); err != nil {
		return nil, uc.executionFailed(err)
	}
	if err := uc.accountRepo.UpdateBalance(ctx, tx, fromAccount.ID, outMovement.BalanceAfter, now); err != nil {
		return nil, uc.executionFailed(err)
	}

	if err := uc.movementRepo.Create(ctx, tx, inMovement); err != nil {
		return nil, uc.executionFailed(err)
	}
	if err := uc.accountRepo.UpdateBalance(ctx, tx, toAccount.ID, inMovement.BalanceAfter, now); err != nil {
		return nil, uc.executionFailed(err)
	}

	if err := uc.transferRepo.UpdateStatus(ctx, tx, transfer.ID, domain.TransferExecuted, &now, now); err != nil {
		return nil, uc.executionFailed(err)
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   transfer.ID,
		AggregateType: domain.AggregateTypeTransfer,
		EventType:     domain.EventTypeTransferExecuted,
		Payload: map[string]any{
			"transfer_id":     transfer.ID,
			"from_account_id": transfer.FromAccountID,
			"to_account_id":   transfer.ToAccountID,
			"amount":          transfer.Amount.String(),
			"executed_at":     now.Format(time.RFC3339),
		},
		CreatedAt: now,
	}
	if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
		return nil, uc.executionFailed(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, uc.executionFailed(err)
	}

	transfer.Status = domain.TransferExecuted
	transfer.ExecutedAt = &now
	transfer.UpdatedAt = now

	return transfer, nil
}

// executionFailed wraps an execution error so callers can match the
// taxonomy error while still seeing the cause. The deferred rollback
// guarantees no partial transfer is ever visible.
func (uc *TransferUseCase) executionFailed(cause error) error {
	return fmt.Errorf("%w: %w", domain.ErrTransferExecutionFailed, cause)
}

// CancelTransfer cancels a SCHEDULED transfer. No reversal movements
// are needed because none exist before execution. Cancelling an
// EXECUTED transfer fails with ErrAlreadyExecuted; cancelling a
// CANCELLED one is a no-op.
func (uc *TransferUseCase) CancelTransfer(ctx context.Context, transferID string) (*domain.Transfer, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	transfer, err := uc.transferRepo.GetByIDForUpdate(ctx, tx, transferID)
	if err != nil {
		return nil, err
	}

	switch transfer.Status {
	case domain.TransferExecuted:
		return nil, domain.ErrAlreadyExecuted
	case domain.TransferCancelled:
		return transfer, nil
	}

	now := time.Now().UTC()

	if err := uc.transferRepo.UpdateStatus(ctx, tx, transfer.ID, domain.TransferCancelled, nil, now); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   transfer.ID,
		AggregateType: domain.AggregateTypeTransfer,
		EventType:     domain.EventTypeTransferCancelled,
		Payload:       map[string]any{"transfer_id": transfer.ID},
		CreatedAt:     now,
	}
	if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	transfer.Status = domain.TransferCancelled
	transfer.UpdatedAt = now

	return transfer, nil
}

// GetTransfer retrieves a transfer by ID.
func (uc *TransferUseCase) GetTransfer(ctx context.Context, id string) (*domain.Transfer, error) {
	return uc.transferRepo.GetByID(ctx, id)
}

// ListTransfersByAccountInput represents input for listing transfers.
type ListTransfersByAccountInput struct {
	AccountID string
	Limit     int
	Offset    int
}

// ListTransfersByAccount lists transfers touching an account.
func (uc *TransferUseCase) ListTransfersByAccount(ctx context.Context, input ListTransfersByAccountInput) ([]*domain.Transfer, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.transferRepo.ListByAccount(ctx, input.AccountID, limit, offset)
}

// SweepResult summarizes one sweep run.
type SweepResult struct {
	Due      int
	Executed int
	Skipped  int
	Failed   int
}

// SweepDue executes every SCHEDULED transfer whose scheduled date is on
// or before today. A transfer that lost the race to a concurrent
// executor is skipped; a transfer that fails execution is counted and
// left SCHEDULED for the next run. The sweep itself never aborts on a
// per-transfer failure.
func (uc *TransferUseCase) SweepDue(ctx context.Context, today time.Time) (SweepResult, error) {
	var result SweepResult

	due, err := uc.transferRepo.ListDue(ctx, domain.DayOf(today), SweepBatchSize)
	if err != nil {
		return result, err
	}

	result.Due = len(due)

	for _, transfer := range due {
		_, err := uc.ExecuteTransfer(ctx, transfer.ID)
		switch {
		case err == nil:
			result.Executed++
		case errors.Is(err, domain.ErrTransferNotScheduled):
			// Another sweep or a manual call got there first.
			result.Skipped++
		default:
			result.Failed++
		}
	}

	return result, nil
}
