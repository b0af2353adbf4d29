package usecase

import (
	"context"
	"time"

	"github.com/caixaflow/caixaflow/internal/domain"
)

// StatementUseCase produces read-only views over one account's
// movement log. It never mutates anything and may run concurrently
// with writes; repositories give it a consistent snapshot.
type StatementUseCase struct {
	accountRepo  AccountRepository
	movementRepo MovementRepository
	location     *time.Location
}

// NewStatementUseCase creates a new StatementUseCase. The location is
// the business timezone used for calendar-day grouping.
func NewStatementUseCase(accountRepo AccountRepository, movementRepo MovementRepository, location *time.Location) *StatementUseCase {
	if location == nil {
		location = time.UTC
	}

	return &StatementUseCase{
		accountRepo:  accountRepo,
		movementRepo: movementRepo,
		location:     location,
	}
}

// BuildStatement returns the account's movements within the period with
// a running balance per line, seeded from the balance immediately
// before the period start.
func (uc *StatementUseCase) BuildStatement(ctx context.Context, accountID string, period domain.Period) (*domain.Statement, error) {
	if err := domain.ValidatePeriod(period); err != nil {
		return nil, err
	}

	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	sumBefore, err := uc.movementRepo.SumByAccountBefore(ctx, accountID, period.Start)
	if err != nil {
		return nil, err
	}
	initialBalance := account.OpeningBalance.Add(sumBefore)

	movements, err := uc.movementRepo.ListByAccountPeriod(ctx, accountID, period)
	if err != nil {
		return nil, err
	}

	statement := domain.BuildStatement(accountID, period, initialBalance, movements)
	statement.CurrentBalance = account.Balance

	return statement, nil
}

// FilterInput narrows a statement's movements.
type FilterInput struct {
	AccountID string
	Period    domain.Period
	Filter    domain.MovementFilter
}

// FilteredMovements returns the account's movements within the period
// that pass the filter. Filtering is pure; applying the same filter
// again yields the same result.
func (uc *StatementUseCase) FilteredMovements(ctx context.Context, input FilterInput) ([]*domain.Movement, error) {
	if err := domain.ValidatePeriod(input.Period); err != nil {
		return nil, err
	}

	if _, err := uc.accountRepo.GetByID(ctx, input.AccountID); err != nil {
		return nil, err
	}

	movements, err := uc.movementRepo.ListByAccountPeriod(ctx, input.AccountID, input.Period)
	if err != nil {
		return nil, err
	}

	return domain.FilterMovements(movements, input.Filter), nil
}

// GroupedByDay partitions the account's movements within the period
// into calendar-day buckets in the business timezone.
func (uc *StatementUseCase) GroupedByDay(ctx context.Context, accountID string, period domain.Period) ([]domain.DayGroup, error) {
	if err := domain.ValidatePeriod(period); err != nil {
		return nil, err
	}

	if _, err := uc.accountRepo.GetByID(ctx, accountID); err != nil {
		return nil, err
	}

	movements, err := uc.movementRepo.ListByAccountPeriod(ctx, accountID, period)
	if err != nil {
		return nil, err
	}

	return domain.GroupByDay(movements, uc.location), nil
}

// ListMovementsInput represents input for listing raw movements.
type ListMovementsInput struct {
	AccountID string
	Limit     int
	Offset    int
}

// ListMovements lists an account's movements with pagination, newest
// first.
func (uc *StatementUseCase) ListMovements(ctx context.Context, input ListMovementsInput) ([]*domain.Movement, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.movementRepo.ListByAccount(ctx, input.AccountID, limit, offset)
}
