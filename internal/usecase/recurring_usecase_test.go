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

func TestRecurringExpenseUseCase_CreateRecurringExpense(t *testing.T) {
	endBeforeStart := day(2025, time.January, 1)

	tests := []struct {
		name        string
		input       usecase.CreateRecurringExpenseInput
		expectError error
	}{
		{
			name: "monthly rent",
			input: usecase.CreateRecurringExpenseInput{
				Description: "shop rent",
				Amount:      decimal.RequireFromString("1800.00"),
				Frequency:   domain.FrequencyMonthly,
				StartDate:   day(2025, time.February, 5),
				Category:    "fixed",
			},
		},
		{
			name: "zero amount",
			input: usecase.CreateRecurringExpenseInput{
				Description: "free lunch",
				Amount:      decimal.Zero,
				Frequency:   domain.FrequencyMonthly,
				StartDate:   day(2025, time.February, 5),
			},
			expectError: domain.ErrInvalidAmount,
		},
		{
			name: "unknown frequency",
			input: usecase.CreateRecurringExpenseInput{
				Description: "sometimes",
				Amount:      decimal.NewFromInt(10),
				Frequency:   domain.Frequency("FORTNIGHTLY"),
				StartDate:   day(2025, time.February, 5),
			},
			expectError: domain.ErrInvalidFrequency,
		},
		{
			name: "end before start",
			input: usecase.CreateRecurringExpenseInput{
				Description: "backwards",
				Amount:      decimal.NewFromInt(10),
				Frequency:   domain.FrequencyWeekly,
				StartDate:   day(2025, time.February, 5),
				EndDate:     &endBeforeStart,
			},
			expectError: domain.ErrInvalidDateRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockRecurringExpenseRepository()
			uc := usecase.NewRecurringExpenseUseCase(repo, mocks.NewMockIDGenerator())

			expense, err := uc.CreateRecurringExpense(context.Background(), tt.input)

			if tt.expectError != nil {
				if !errors.Is(err, tt.expectError) {
					t.Errorf("expected %v, got %v", tt.expectError, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !expense.Active {
				t.Error("new templates start active")
			}
			if !expense.StartDate.Equal(day(2025, time.February, 5)) {
				t.Errorf("start date must be normalized to midnight, got %s", expense.StartDate)
			}
		})
	}
}

func TestRecurringExpenseUseCase_SetRecurringExpenseActive(t *testing.T) {
	repo := mocks.NewMockRecurringExpenseRepository()
	repo.Seed(&domain.RecurringExpense{
		ID:        "rec-1",
		Amount:    decimal.NewFromInt(100),
		Frequency: domain.FrequencyMonthly,
		StartDate: day(2025, time.January, 10),
		Active:    true,
	})
	uc := usecase.NewRecurringExpenseUseCase(repo, mocks.NewMockIDGenerator())

	if err := uc.SetRecurringExpenseActive(context.Background(), "rec-1", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expense, _ := repo.GetByID(context.Background(), "rec-1")
	if expense.Active {
		t.Error("template must be deactivated")
	}

	// Deactivated templates expand to nothing.
	occurrences, err := uc.ExpandRecurringExpense(context.Background(), "rec-1", day(2025, time.January, 1), day(2025, time.December, 31))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(occurrences) != 0 {
		t.Errorf("expected no occurrences from an inactive template, got %d", len(occurrences))
	}

	if err := uc.SetRecurringExpenseActive(context.Background(), "missing", true); !errors.Is(err, domain.ErrRecurringExpenseNotFound) {
		t.Errorf("expected ErrRecurringExpenseNotFound, got %v", err)
	}
}

func TestRecurringExpenseUseCase_ExpandRecurringExpense(t *testing.T) {
	repo := mocks.NewMockRecurringExpenseRepository()
	repo.Seed(&domain.RecurringExpense{
		ID:        "rec-1",
		Amount:    decimal.RequireFromString("1800.00"),
		Frequency: domain.FrequencyMonthly,
		StartDate: day(2025, time.January, 31),
		Active:    true,
	})
	uc := usecase.NewRecurringExpenseUseCase(repo, mocks.NewMockIDGenerator())

	occurrences, err := uc.ExpandRecurringExpense(context.Background(), "rec-1", day(2025, time.January, 1), day(2025, time.April, 30))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []time.Time{
		day(2025, time.January, 31),
		day(2025, time.February, 28),
		day(2025, time.March, 31),
		day(2025, time.April, 30),
	}
	if len(occurrences) != len(want) {
		t.Fatalf("expected %d occurrences, got %d", len(want), len(occurrences))
	}
	for i, occ := range occurrences {
		if !occ.Date.Equal(want[i]) {
			t.Errorf("occurrence %d: expected %s, got %s", i, want[i].Format(time.DateOnly), occ.Date.Format(time.DateOnly))
		}
	}
}
