package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/caixaflow/caixaflow/internal/domain"
)

// ErrInvalidScenario is returned for an unknown projection scenario.
var ErrInvalidScenario = errors.New("unknown projection scenario")

// ProjectionUseCase forecasts daily balances over a horizon under a
// named scenario. It is read-only and pure in its inputs: the same
// accounts, expenses, payables, revenue and frozen "today" produce the
// same projection on every call.
type ProjectionUseCase struct {
	accountRepo   AccountRepository
	recurringRepo RecurringExpenseRepository
	revenue       RevenueProvider
	payables      PayableProvider
	location      *time.Location
}

// NewProjectionUseCase creates a new ProjectionUseCase.
func NewProjectionUseCase(
	accountRepo AccountRepository,
	recurringRepo RecurringExpenseRepository,
	revenue RevenueProvider,
	payables PayableProvider,
	location *time.Location,
) *ProjectionUseCase {
	if location == nil {
		location = time.UTC
	}

	return &ProjectionUseCase{
		accountRepo:   accountRepo,
		recurringRepo: recurringRepo,
		revenue:       revenue,
		payables:      payables,
		location:      location,
	}
}

// GenerateProjectionInput represents input for a projection run. Today
// freezes the horizon start; nil means the current business day.
// MinimumRequired is the caller-supplied safety threshold applied to
// every day of the horizon.
type GenerateProjectionInput struct {
	Scenario        domain.Scenario
	Days            int
	MinimumRequired decimal.Decimal
	Today           *time.Time
}

// Generate walks the horizon day by day. Expected inflows are scaled by
// the scenario multiplier because they are uncertain; recurring
// expenses and payable installments are committed and never scaled.
// Each day's closing balance becomes the next day's opening balance.
func (uc *ProjectionUseCase) Generate(ctx context.Context, input GenerateProjectionInput) (*domain.Projection, error) {
	if !input.Scenario.Valid() {
		return nil, ErrInvalidScenario
	}

	days := input.Days
	if days <= 0 {
		days = DefaultProjectionDays
	}
	if days > MaxProjectionDays {
		days = MaxProjectionDays
	}

	today := time.Now().In(uc.location)
	if input.Today != nil {
		today = *input.Today
	}
	today = domain.DayOf(today)

	horizonEnd := today.AddDate(0, 0, days-1)

	accounts, err := uc.accountRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	opening := decimal.Zero
	for _, a := range accounts {
		opening = opening.Add(a.Balance)
	}

	recurringByDay, err := uc.expandRecurring(ctx, today, horizonEnd)
	if err != nil {
		return nil, err
	}

	revenue, err := uc.revenue.ExpectedByDay(ctx, today, horizonEnd)
	if err != nil {
		return nil, err
	}
	revenueByDay := byDateOnly(revenue)

	payables, err := uc.payables.DueByDay(ctx, today, horizonEnd)
	if err != nil {
		return nil, err
	}
	payablesByDay := byDateOnly(payables)

	multiplier := input.Scenario.Multiplier()

	projection := &domain.Projection{
		Scenario:        input.Scenario,
		GeneratedFor:    today,
		MinimumRequired: input.MinimumRequired,
		Days:            make([]domain.ProjectionDay, 0, days),
	}

	for d := 0; d < days; d++ {
		date := today.AddDate(0, 0, d)

		inflows := multiplier.Mul(dayAmount(revenueByDay, date))
		outflows := dayAmount(recurringByDay, date).Add(dayAmount(payablesByDay, date))
		closing := opening.Add(inflows).Sub(outflows)

		status := domain.ClassifyDay(closing, input.MinimumRequired)
		switch status {
		case domain.DayNegative:
			projection.NegativeDays++
		case domain.DayLow:
			projection.LowDays++
		}

		projection.Days = append(projection.Days, domain.ProjectionDay{
			Date:            date,
			OpeningBalance:  opening,
			Inflows:         inflows,
			Outflows:        outflows,
			ClosingBalance:  closing,
			MinimumRequired: input.MinimumRequired,
			Status:          status,
		})

		opening = closing
	}

	return projection, nil
}

// expandRecurring accumulates the active templates' occurrences into
// per-day outflow totals for the horizon.
func (uc *ProjectionUseCase) expandRecurring(ctx context.Context, from, to time.Time) (map[string]decimal.Decimal, error) {
	expenses, err := uc.recurringRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]decimal.Decimal)
	for _, expense := range expenses {
		for occ := range expense.Occurrences(from, to) {
			key := occ.Date.Format(time.DateOnly)
			byDay[key] = byDay[key].Add(occ.Amount)
		}
	}

	return byDay, nil
}

// byDateOnly re-keys a provider map by calendar date string. time.Time
// map keys compare wall clock and location, which provider
// implementations cannot be trusted to normalize.
func byDateOnly(byDay map[time.Time]decimal.Decimal) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(byDay))
	for day, amount := range byDay {
		key := day.Format(time.DateOnly)
		out[key] = out[key].Add(amount)
	}
	return out
}

func dayAmount(byDay map[string]decimal.Decimal, date time.Time) decimal.Decimal {
	return byDay[date.Format(time.DateOnly)]
}
