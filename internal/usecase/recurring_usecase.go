package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/caixaflow/caixaflow/internal/domain"
)

// RecurringExpenseUseCase manages recurring expense templates. Malformed
// templates are rejected here, at creation, so that expansion and
// projection are total functions over persisted data.
type RecurringExpenseUseCase struct {
	recurringRepo RecurringExpenseRepository
	idGen         IDGenerator
}

// NewRecurringExpenseUseCase creates a new RecurringExpenseUseCase.
func NewRecurringExpenseUseCase(recurringRepo RecurringExpenseRepository, idGen IDGenerator) *RecurringExpenseUseCase {
	return &RecurringExpenseUseCase{
		recurringRepo: recurringRepo,
		idGen:         idGen,
	}
}

// CreateRecurringExpenseInput represents input for a new template.
type CreateRecurringExpenseInput struct {
	Description string
	Amount      decimal.Decimal
	Frequency   domain.Frequency
	StartDate   time.Time
	EndDate     *time.Time
	Category    string
}

// CreateRecurringExpense validates and persists a template.
func (uc *RecurringExpenseUseCase) CreateRecurringExpense(ctx context.Context, input CreateRecurringExpenseInput) (*domain.RecurringExpense, error) {
	now := time.Now().UTC()

	expense := &domain.RecurringExpense{
		ID:          uc.idGen.Generate(),
		Description: input.Description,
		Amount:      input.Amount,
		Frequency:   input.Frequency,
		StartDate:   domain.DayOf(input.StartDate),
		Category:    input.Category,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if input.EndDate != nil {
		end := domain.DayOf(*input.EndDate)
		expense.EndDate = &end
	}

	if err := expense.Validate(); err != nil {
		return nil, err
	}

	if err := uc.recurringRepo.Create(ctx, expense); err != nil {
		return nil, err
	}

	return expense, nil
}

// GetRecurringExpense retrieves a template by ID.
func (uc *RecurringExpenseUseCase) GetRecurringExpense(ctx context.Context, id string) (*domain.RecurringExpense, error) {
	return uc.recurringRepo.GetByID(ctx, id)
}

// ListRecurringExpensesInput represents input for listing templates.
type ListRecurringExpensesInput struct {
	Limit  int
	Offset int
}

// ListRecurringExpenses lists templates with pagination.
func (uc *RecurringExpenseUseCase) ListRecurringExpenses(ctx context.Context, input ListRecurringExpensesInput) ([]*domain.RecurringExpense, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.recurringRepo.List(ctx, limit, offset)
}

// SetRecurringExpenseActive activates or deactivates a template.
// Deactivated templates expand to empty sequences.
func (uc *RecurringExpenseUseCase) SetRecurringExpenseActive(ctx context.Context, id string, active bool) error {
	if _, err := uc.recurringRepo.GetByID(ctx, id); err != nil {
		return err
	}

	return uc.recurringRepo.SetActive(ctx, id, active, time.Now().UTC())
}

// ExpandRecurringExpense previews a template's occurrences within a
// horizon, for UI display.
func (uc *RecurringExpenseUseCase) ExpandRecurringExpense(ctx context.Context, id string, from, to time.Time) ([]domain.Occurrence, error) {
	expense, err := uc.recurringRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var occurrences []domain.Occurrence
	for occ := range expense.Occurrences(from, to) {
		occurrences = append(occurrences, occ)
	}

	return occurrences, nil
}
