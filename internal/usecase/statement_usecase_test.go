package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/caixaflow/caixaflow/internal/domain"
	"github.com/caixaflow/caixaflow/internal/usecase"
	"github.com/caixaflow/caixaflow/internal/usecase/mocks"
)

func newStatementFixture() (*usecase.StatementUseCase, *mocks.MockAccountRepository, *mocks.MockMovementRepository) {
	accountRepo := mocks.NewMockAccountRepository()
	movementRepo := mocks.NewMockMovementRepository()
	uc := usecase.NewStatementUseCase(accountRepo, movementRepo, time.UTC)
	return uc, accountRepo, movementRepo
}

func seedMovement(id, accountID string, direction domain.Direction, amount string, occurredAt time.Time, description string) *domain.Movement {
	return &domain.Movement{
		ID:          id,
		AccountID:   accountID,
		Direction:   direction,
		Amount:      decimal.RequireFromString(amount),
		Method:      domain.MethodPix,
		SourceType:  domain.SourceSale,
		OccurredAt:  occurredAt,
		Description: description,
	}
}

func TestStatementUseCase_BuildStatement(t *testing.T) {
	uc, accountRepo, movementRepo := newStatementFixture()

	account := activeAccount("acc-1", "100.00")
	account.Balance = decimal.RequireFromString("170.00")
	accountRepo.Seed(account)

	periodStart := day(2025, time.May, 1)
	movementRepo.Seed(
		// Before the period: shifts the statement's initial balance.
		seedMovement("m0", "acc-1", domain.DirectionIn, "50.00", day(2025, time.April, 20), "april sale"),
		// Inside the period.
		seedMovement("m1", "acc-1", domain.DirectionOut, "30.00", day(2025, time.May, 3), "supplies"),
		seedMovement("m2", "acc-1", domain.DirectionIn, "80.00", day(2025, time.May, 10), "may sale"),
		// After the period.
		seedMovement("m3", "acc-1", domain.DirectionOut, "30.00", day(2025, time.June, 1), "june purchase"),
		// Different account.
		seedMovement("m4", "acc-2", domain.DirectionIn, "999.00", day(2025, time.May, 5), "not mine"),
	)

	statement, err := uc.BuildStatement(context.Background(), "acc-1", domain.Period{
		Start: periodStart,
		End:   day(2025, time.June, 1),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Opening 100 plus the pre-period inflow of 50.
	if got := statement.InitialBalance.String(); got != "150" {
		t.Errorf("expected initial balance 150, got %s", got)
	}
	if len(statement.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(statement.Lines))
	}
	if got := statement.Lines[0].RunningBalance.String(); got != "120" {
		t.Errorf("expected running balance 120 after first line, got %s", got)
	}
	if got := statement.Lines[1].RunningBalance.String(); got != "200" {
		t.Errorf("expected running balance 200 after second line, got %s", got)
	}
	if !statement.ClosingBalance.Equal(statement.Lines[1].RunningBalance) {
		t.Error("closing balance must equal the last running balance")
	}
	if got := statement.CurrentBalance.String(); got != "170" {
		t.Errorf("expected live balance 170, got %s", got)
	}
}

func TestStatementUseCase_BuildStatement_Errors(t *testing.T) {
	uc, accountRepo, _ := newStatementFixture()
	accountRepo.Seed(activeAccount("acc-1", "100.00"))

	t.Run("inverted period", func(t *testing.T) {
		_, err := uc.BuildStatement(context.Background(), "acc-1", domain.Period{
			Start: day(2025, time.June, 1),
			End:   day(2025, time.May, 1),
		})
		if !errors.Is(err, domain.ErrInvalidPeriod) {
			t.Errorf("expected ErrInvalidPeriod, got %v", err)
		}
	})

	t.Run("unknown account", func(t *testing.T) {
		_, err := uc.BuildStatement(context.Background(), "missing", domain.Period{
			Start: day(2025, time.May, 1),
			End:   day(2025, time.June, 1),
		})
		if !errors.Is(err, domain.ErrAccountNotFound) {
			t.Errorf("expected ErrAccountNotFound, got %v", err)
		}
	})
}

func TestStatementUseCase_FilteredMovements(t *testing.T) {
	uc, accountRepo, movementRepo := newStatementFixture()
	accountRepo.Seed(activeAccount("acc-1", "0.00"))

	card := seedMovement("m1", "acc-1", domain.DirectionOut, "45.00", day(2025, time.May, 3), "card machine fee")
	card.Method = domain.MethodCard
	movementRepo.Seed(
		card,
		seedMovement("m2", "acc-1", domain.DirectionIn, "80.00", day(2025, time.May, 10), "haircut combo"),
		seedMovement("m3", "acc-1", domain.DirectionIn, "20.00", day(2025, time.May, 12), "beard trim"),
	)

	period := domain.Period{Start: day(2025, time.May, 1), End: day(2025, time.June, 1)}

	t.Run("by direction", func(t *testing.T) {
		in := domain.DirectionIn
		out, err := uc.FilteredMovements(context.Background(), usecase.FilterInput{
			AccountID: "acc-1",
			Period:    period,
			Filter:    domain.MovementFilter{Direction: &in},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(out) != 2 {
			t.Errorf("expected 2 inflows, got %d", len(out))
		}
	})

	t.Run("free text is case-insensitive", func(t *testing.T) {
		out, err := uc.FilteredMovements(context.Background(), usecase.FilterInput{
			AccountID: "acc-1",
			Period:    period,
			Filter:    domain.MovementFilter{FreeText: "HAIRCUT"},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(out) != 1 || out[0].ID != "m2" {
			t.Errorf("expected only m2, got %v", out)
		}
	})

	t.Run("composed filters narrow monotonically", func(t *testing.T) {
		out := domain.DirectionOut
		method := domain.MethodCard
		once, err := uc.FilteredMovements(context.Background(), usecase.FilterInput{
			AccountID: "acc-1",
			Period:    period,
			Filter:    domain.MovementFilter{Direction: &out, Method: &method},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(once) != 1 || once[0].ID != "m1" {
			t.Errorf("expected only m1, got %v", once)
		}
	})
}

func TestStatementUseCase_GroupedByDay(t *testing.T) {
	uc, accountRepo, movementRepo := newStatementFixture()
	accountRepo.Seed(activeAccount("acc-1", "0.00"))

	movementRepo.Seed(
		seedMovement("m1", "acc-1", domain.DirectionIn, "100.00", time.Date(2025, time.May, 3, 9, 0, 0, 0, time.UTC), "morning"),
		seedMovement("m2", "acc-1", domain.DirectionOut, "40.00", time.Date(2025, time.May, 3, 18, 30, 0, 0, time.UTC), "evening"),
		seedMovement("m3", "acc-1", domain.DirectionIn, "25.00", time.Date(2025, time.May, 4, 10, 0, 0, 0, time.UTC), "next day"),
	)

	groups, err := uc.GroupedByDay(context.Background(), "acc-1", domain.Period{
		Start: day(2025, time.May, 1),
		End:   day(2025, time.June, 1),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(groups) != 2 {
		t.Fatalf("expected 2 day groups, got %d", len(groups))
	}
	first := groups[0]
	if !first.Date.Equal(day(2025, time.May, 3)) {
		t.Errorf("expected first group on May 3, got %s", first.Date)
	}
	if got := first.Net.String(); got != "60" {
		t.Errorf("expected net 60 on May 3, got %s", got)
	}
	if got := groups[1].Net.String(); got != "25" {
		t.Errorf("expected net 25 on May 4, got %s", got)
	}
}

func TestStatementUseCase_ListMovements_PaginationDefaults(t *testing.T) {
	uc, accountRepo, movementRepo := newStatementFixture()
	accountRepo.Seed(activeAccount("acc-1", "0.00"))

	var gotLimit, gotOffset int
	movementRepo.ListByAccountFunc = func(ctx context.Context, accountID string, limit, offset int) ([]*domain.Movement, error) {
		gotLimit, gotOffset = limit, offset
		return nil, nil
	}

	if _, err := uc.ListMovements(context.Background(), usecase.ListMovementsInput{AccountID: "acc-1", Limit: -3, Offset: -1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLimit != 50 || gotOffset != 0 {
		t.Errorf("expected defaults 50/0, got %d/%d", gotLimit, gotOffset)
	}
}
