package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// RevenueProvider implements usecase.RevenueProvider on top of the
// appointments table. Only confirmed appointments count as expected
// revenue; the projection engine applies scenario multipliers to these
// figures, not this provider.
type RevenueProvider struct {
	pool *pgxpool.Pool
}

// NewRevenueProvider creates a new RevenueProvider.
func NewRevenueProvider(pool *pgxpool.Pool) *RevenueProvider {
	return &RevenueProvider{pool: pool}
}

// ExpectedByDay sums expected appointment revenue per calendar day over
// [from, to], both inclusive.
func (p *RevenueProvider) ExpectedByDay(ctx context.Context, from, to time.Time) (map[time.Time]decimal.Decimal, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT scheduled_at::date AS day, SUM(expected_amount)
		FROM appointments
		WHERE status = 'CONFIRMED'
		  AND scheduled_at::date BETWEEN $1 AND $2
		GROUP BY day
		ORDER BY day`,
		pgtype.Date{Time: from, Valid: true}, pgtype.Date{Time: to, Valid: true})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectByDay(rows)
}

// PayableProvider implements usecase.PayableProvider on top of the
// payable_installments table. Installments are committed obligations
// and are never scaled by projection scenarios.
type PayableProvider struct {
	pool *pgxpool.Pool
}

// NewPayableProvider creates a new PayableProvider.
func NewPayableProvider(pool *pgxpool.Pool) *PayableProvider {
	return &PayableProvider{pool: pool}
}

// DueByDay sums unpaid installments per due day over [from, to], both
// inclusive.
func (p *PayableProvider) DueByDay(ctx context.Context, from, to time.Time) (map[time.Time]decimal.Decimal, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT due_date AS day, SUM(amount)
		FROM payable_installments
		WHERE NOT paid
		  AND due_date BETWEEN $1 AND $2
		GROUP BY day
		ORDER BY day`,
		pgtype.Date{Time: from, Valid: true}, pgtype.Date{Time: to, Valid: true})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectByDay(rows)
}

func collectByDay(rows pgx.Rows) (map[time.Time]decimal.Decimal, error) {
	byDay := make(map[time.Time]decimal.Decimal)
	for rows.Next() {
		var (
			day    pgtype.Date
			amount pgtype.Numeric
		)
		if err := rows.Scan(&day, &amount); err != nil {
			return nil, err
		}
		byDay[day.Time] = numericToDecimal(amount)
	}

	return byDay, rows.Err()
}
