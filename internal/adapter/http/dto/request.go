package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/caixaflow/caixaflow/internal/domain"
	"github.com/caixaflow/caixaflow/internal/usecase"
)

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	Name           string           `json:"name"`
	Kind           string           `json:"kind"`
	CreditLimit    *decimal.Decimal `json:"credit_limit,omitempty"`
	OpeningBalance decimal.Decimal  `json:"opening_balance"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		Name:           r.Name,
		Kind:           domain.AccountKind(r.Kind),
		CreditLimit:    r.CreditLimit,
		OpeningBalance: r.OpeningBalance,
	}
}

// RecordMovementRequest represents a request to record a movement.
type RecordMovementRequest struct {
	AccountID   string          `json:"account_id"`
	Direction   string          `json:"direction"`
	Amount      decimal.Decimal `json:"amount"`
	Method      string          `json:"method"`
	SourceType  string          `json:"source_type"`
	SourceID    *string         `json:"source_id,omitempty"`
	OccurredAt  *time.Time      `json:"occurred_at,omitempty"`
	Description string          `json:"description,omitempty"`
}

// ToUseCaseInput converts to use case input. A missing occurred_at
// defaults to now.
func (r *RecordMovementRequest) ToUseCaseInput() usecase.RecordMovementInput {
	occurredAt := time.Now().UTC()
	if r.OccurredAt != nil {
		occurredAt = *r.OccurredAt
	}

	return usecase.RecordMovementInput{
		AccountID:   r.AccountID,
		Direction:   domain.Direction(r.Direction),
		Amount:      r.Amount,
		Method:      domain.Method(r.Method),
		SourceType:  domain.SourceType(r.SourceType),
		SourceID:    r.SourceID,
		OccurredAt:  occurredAt,
		Description: r.Description,
	}
}

// CreateTransferRequest represents a request to schedule a transfer.
type CreateTransferRequest struct {
	FromAccountID string          `json:"from_account_id"`
	ToAccountID   string          `json:"to_account_id"`
	Amount        decimal.Decimal `json:"amount"`
	ScheduledDate time.Time       `json:"scheduled_date"`
	Description   string          `json:"description,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateTransferRequest) ToUseCaseInput() usecase.CreateTransferInput {
	return usecase.CreateTransferInput{
		FromAccountID: r.FromAccountID,
		ToAccountID:   r.ToAccountID,
		Amount:        r.Amount,
		ScheduledDate: r.ScheduledDate,
		Description:   r.Description,
	}
}

// CreateRecurringExpenseRequest represents a request to create a
// recurring expense template.
type CreateRecurringExpenseRequest struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Frequency   string          `json:"frequency"`
	StartDate   time.Time       `json:"start_date"`
	EndDate     *time.Time      `json:"end_date,omitempty"`
	Category    string          `json:"category,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateRecurringExpenseRequest) ToUseCaseInput() usecase.CreateRecurringExpenseInput {
	return usecase.CreateRecurringExpenseInput{
		Description: r.Description,
		Amount:      r.Amount,
		Frequency:   domain.Frequency(r.Frequency),
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		Category:    r.Category,
	}
}

// OpenSessionRequest represents a request to open a cash session.
type OpenSessionRequest struct {
	OpeningFloat decimal.Decimal `json:"opening_float"`
}

// TotalBalanceRequest represents a request for a combined balance.
// An empty account list means all active accounts.
type TotalBalanceRequest struct {
	AccountIDs []string `json:"account_ids,omitempty"`
}
