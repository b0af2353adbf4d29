package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/caixaflow/caixaflow/internal/domain"
	"github.com/caixaflow/caixaflow/internal/usecase"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Kind           string           `json:"kind"`
	CreditLimit    *decimal.Decimal `json:"credit_limit,omitempty"`
	OpeningBalance decimal.Decimal  `json:"opening_balance"`
	Balance        decimal.Decimal  `json:"balance"`
	Version        int64            `json:"version"`
	Active         bool             `json:"active"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:             a.ID,
		Name:           a.Name,
		Kind:           string(a.Kind),
		CreditLimit:    a.CreditLimit,
		OpeningBalance: a.OpeningBalance,
		Balance:        a.Balance,
		Version:        a.Version,
		Active:         a.Active,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// ListAccountsResponse wraps a page of accounts.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Total    int64              `json:"total"`
}

// MovementResponse represents a movement in API responses.
type MovementResponse struct {
	ID           string          `json:"id"`
	AccountID    string          `json:"account_id"`
	Direction    string          `json:"direction"`
	Amount       decimal.Decimal `json:"amount"`
	Method       string          `json:"method"`
	SourceType   string          `json:"source_type"`
	SourceID     *string         `json:"source_id,omitempty"`
	OccurredAt   time.Time       `json:"occurred_at"`
	Description  string          `json:"description,omitempty"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	CreatedAt    time.Time       `json:"created_at"`
}

// MovementFromDomain converts domain movement to response.
func MovementFromDomain(m *domain.Movement) *MovementResponse {
	return &MovementResponse{
		ID:           m.ID,
		AccountID:    m.AccountID,
		Direction:    string(m.Direction),
		Amount:       m.Amount,
		Method:       string(m.Method),
		SourceType:   string(m.SourceType),
		SourceID:     m.SourceID,
		OccurredAt:   m.OccurredAt,
		Description:  m.Description,
		BalanceAfter: m.BalanceAfter,
		CreatedAt:    m.CreatedAt,
	}
}

// MovementsFromDomain converts domain movements to responses.
func MovementsFromDomain(movements []*domain.Movement) []*MovementResponse {
	result := make([]*MovementResponse, len(movements))
	for i, m := range movements {
		result[i] = MovementFromDomain(m)
	}
	return result
}

// ListMovementsResponse wraps a page of movements.
type ListMovementsResponse struct {
	Movements []*MovementResponse `json:"movements"`
	Total     int64               `json:"total"`
}

// TransferResponse represents a transfer in API responses.
type TransferResponse struct {
	ID            string          `json:"id"`
	FromAccountID string          `json:"from_account_id"`
	ToAccountID   string          `json:"to_account_id"`
	Amount        decimal.Decimal `json:"amount"`
	ScheduledDate string          `json:"scheduled_date"`
	ExecutedAt    *time.Time      `json:"executed_at,omitempty"`
	Status        string          `json:"status"`
	Description   string          `json:"description,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// TransferFromDomain converts domain transfer to response.
func TransferFromDomain(t *domain.Transfer) *TransferResponse {
	return &TransferResponse{
		ID:            t.ID,
		FromAccountID: t.FromAccountID,
		ToAccountID:   t.ToAccountID,
		Amount:        t.Amount,
		ScheduledDate: t.ScheduledDate.Format(time.DateOnly),
		ExecutedAt:    t.ExecutedAt,
		Status:        string(t.Status),
		Description:   t.Description,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

// TransfersFromDomain converts domain transfers to responses.
func TransfersFromDomain(transfers []*domain.Transfer) []*TransferResponse {
	result := make([]*TransferResponse, len(transfers))
	for i, t := range transfers {
		result[i] = TransferFromDomain(t)
	}
	return result
}

// SweepResponse summarizes one due-transfer sweep run.
type SweepResponse struct {
	Due      int `json:"due"`
	Executed int `json:"executed"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}

// StatementLineResponse is one movement with its running balance.
type StatementLineResponse struct {
	Movement       *MovementResponse `json:"movement"`
	RunningBalance decimal.Decimal   `json:"running_balance"`
}

// StatementStatsResponse carries per-statement aggregates.
type StatementStatsResponse struct {
	HighestIn     decimal.Decimal `json:"highest_in"`
	HighestOut    decimal.Decimal `json:"highest_out"`
	AverageAmount decimal.Decimal `json:"average_amount"`
	Count         int             `json:"count"`
}

// StatementResponse represents an account statement.
type StatementResponse struct {
	AccountID      string                  `json:"account_id"`
	PeriodStart    time.Time               `json:"period_start"`
	PeriodEnd      time.Time               `json:"period_end"`
	InitialBalance decimal.Decimal         `json:"initial_balance"`
	Lines          []StatementLineResponse `json:"lines"`
	TotalIn        decimal.Decimal         `json:"total_in"`
	TotalOut       decimal.Decimal         `json:"total_out"`
	ClosingBalance decimal.Decimal         `json:"closing_balance"`
	CurrentBalance decimal.Decimal         `json:"current_balance"`
	Stats          StatementStatsResponse  `json:"stats"`
}

// StatementFromDomain converts domain statement to response.
func StatementFromDomain(s *domain.Statement) *StatementResponse {
	lines := make([]StatementLineResponse, len(s.Lines))
	for i, line := range s.Lines {
		lines[i] = StatementLineResponse{
			Movement:       MovementFromDomain(line.Movement),
			RunningBalance: line.RunningBalance,
		}
	}

	return &StatementResponse{
		AccountID:      s.AccountID,
		PeriodStart:    s.Period.Start,
		PeriodEnd:      s.Period.End,
		InitialBalance: s.InitialBalance,
		Lines:          lines,
		TotalIn:        s.TotalIn,
		TotalOut:       s.TotalOut,
		ClosingBalance: s.ClosingBalance,
		CurrentBalance: s.CurrentBalance,
		Stats: StatementStatsResponse{
			HighestIn:     s.Stats.HighestIn,
			HighestOut:    s.Stats.HighestOut,
			AverageAmount: s.Stats.AverageAmount,
			Count:         s.Stats.Count,
		},
	}
}

// DayGroupResponse represents movements bucketed by calendar day.
type DayGroupResponse struct {
	Date      string              `json:"date"`
	Movements []*MovementResponse `json:"movements"`
	TotalIn   decimal.Decimal     `json:"total_in"`
	TotalOut  decimal.Decimal     `json:"total_out"`
	Net       decimal.Decimal     `json:"net"`
}

// DayGroupsFromDomain converts domain day groups to responses.
func DayGroupsFromDomain(groups []domain.DayGroup) []DayGroupResponse {
	result := make([]DayGroupResponse, len(groups))
	for i, g := range groups {
		result[i] = DayGroupResponse{
			Date:      g.Date.Format(time.DateOnly),
			Movements: MovementsFromDomain(g.Movements),
			TotalIn:   g.TotalIn,
			TotalOut:  g.TotalOut,
			Net:       g.Net,
		}
	}
	return result
}

// RecurringExpenseResponse represents a recurring expense template.
type RecurringExpenseResponse struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Frequency   string          `json:"frequency"`
	StartDate   string          `json:"start_date"`
	EndDate     *string         `json:"end_date,omitempty"`
	Category    string          `json:"category,omitempty"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// RecurringExpenseFromDomain converts a domain template to response.
func RecurringExpenseFromDomain(e *domain.RecurringExpense) *RecurringExpenseResponse {
	var endDate *string
	if e.EndDate != nil {
		s := e.EndDate.Format(time.DateOnly)
		endDate = &s
	}

	return &RecurringExpenseResponse{
		ID:          e.ID,
		Description: e.Description,
		Amount:      e.Amount,
		Frequency:   string(e.Frequency),
		StartDate:   e.StartDate.Format(time.DateOnly),
		EndDate:     endDate,
		Category:    e.Category,
		Active:      e.Active,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// RecurringExpensesFromDomain converts domain templates to responses.
func RecurringExpensesFromDomain(expenses []*domain.RecurringExpense) []*RecurringExpenseResponse {
	result := make([]*RecurringExpenseResponse, len(expenses))
	for i, e := range expenses {
		result[i] = RecurringExpenseFromDomain(e)
	}
	return result
}

// OccurrenceResponse is one dated occurrence of a recurring expense.
type OccurrenceResponse struct {
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

// OccurrencesFromDomain converts domain occurrences to responses.
func OccurrencesFromDomain(occurrences []domain.Occurrence) []OccurrenceResponse {
	result := make([]OccurrenceResponse, len(occurrences))
	for i, o := range occurrences {
		result[i] = OccurrenceResponse{
			Date:   o.Date.Format(time.DateOnly),
			Amount: o.Amount,
		}
	}
	return result
}

// SessionResponse represents a cash session.
type SessionResponse struct {
	ID           string          `json:"id"`
	AccountID    string          `json:"account_id"`
	OpeningFloat decimal.Decimal `json:"opening_float"`
	Status       string          `json:"status"`
	OpenedAt     time.Time       `json:"opened_at"`
	ClosedAt     *time.Time      `json:"closed_at,omitempty"`
}

// SessionFromDomain converts domain session to response.
func SessionFromDomain(s *domain.CashSession) *SessionResponse {
	return &SessionResponse{
		ID:           s.ID,
		AccountID:    s.AccountID,
		OpeningFloat: s.OpeningFloat,
		Status:       string(s.Status),
		OpenedAt:     s.OpenedAt,
		ClosedAt:     s.ClosedAt,
	}
}

// ProjectionDayResponse is one projected day.
type ProjectionDayResponse struct {
	Date           string          `json:"date"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	Inflows        decimal.Decimal `json:"inflows"`
	Outflows       decimal.Decimal `json:"outflows"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
	Status         string          `json:"status"`
}

// ProjectionResponse represents a cash-flow projection.
type ProjectionResponse struct {
	Scenario        string                  `json:"scenario"`
	GeneratedFor    string                  `json:"generated_for"`
	MinimumRequired decimal.Decimal         `json:"minimum_required"`
	Days            []ProjectionDayResponse `json:"days"`
	NegativeDays    int                     `json:"negative_days"`
	LowDays         int                     `json:"low_days"`
}

// ProjectionFromDomain converts domain projection to response.
func ProjectionFromDomain(p *domain.Projection) *ProjectionResponse {
	days := make([]ProjectionDayResponse, len(p.Days))
	for i, d := range p.Days {
		days[i] = ProjectionDayResponse{
			Date:           d.Date.Format(time.DateOnly),
			OpeningBalance: d.OpeningBalance,
			Inflows:        d.Inflows,
			Outflows:       d.Outflows,
			ClosingBalance: d.ClosingBalance,
			Status:         string(d.Status),
		}
	}

	return &ProjectionResponse{
		Scenario:        string(p.Scenario),
		GeneratedFor:    p.GeneratedFor.Format(time.DateOnly),
		MinimumRequired: p.MinimumRequired,
		Days:            days,
		NegativeDays:    p.NegativeDays,
		LowDays:         p.LowDays,
	}
}

// BalanceResponse represents a single account balance.
type BalanceResponse struct {
	AccountID string          `json:"account_id"`
	Balance   decimal.Decimal `json:"balance"`
}

// TotalBalanceResponse represents a combined balance.
type TotalBalanceResponse struct {
	Total decimal.Decimal `json:"total"`
}

// BalanceDriftResponse represents one account whose cached balance
// disagrees with the movement log.
type BalanceDriftResponse struct {
	AccountID  string          `json:"account_id"`
	Cached     decimal.Decimal `json:"cached"`
	Recomputed decimal.Decimal `json:"recomputed"`
}

// ConsistencyResponse wraps a consistency check result.
type ConsistencyResponse struct {
	Consistent bool                   `json:"consistent"`
	Drifts     []BalanceDriftResponse `json:"drifts"`
}

// ConsistencyFromDomain converts drift results to a response.
func ConsistencyFromDomain(drifts []usecase.BalanceDrift) *ConsistencyResponse {
	out := make([]BalanceDriftResponse, len(drifts))
	for i, d := range drifts {
		out[i] = BalanceDriftResponse{
			AccountID:  d.AccountID,
			Cached:     d.Cached,
			Recomputed: d.Recomputed,
		}
	}
	return &ConsistencyResponse{
		Consistent: len(drifts) == 0,
		Drifts:     out,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
