package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/caixaflow/caixaflow/internal/domain"
)

const recurringColumns = `id, description, amount, frequency, start_date, end_date, category, active, created_at, updated_at`

// RecurringExpenseRepository implements
// usecase.RecurringExpenseRepository. Only templates are stored;
// occurrences are always derived on demand.
type RecurringExpenseRepository struct {
	pool *pgxpool.Pool
}

// NewRecurringExpenseRepository creates a new RecurringExpenseRepository.
func NewRecurringExpenseRepository(pool *pgxpool.Pool) *RecurringExpenseRepository {
	return &RecurringExpenseRepository{pool: pool}
}

// Create creates a template.
func (r *RecurringExpenseRepository) Create(ctx context.Context, expense *domain.RecurringExpense) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO recurring_expenses (`+recurringColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		expense.ID,
		expense.Description,
		decimalToNumeric(expense.Amount),
		string(expense.Frequency),
		pgtype.Date{Time: expense.StartDate, Valid: true},
		datePtr(expense.EndDate),
		expense.Category,
		expense.Active,
		timeToPgTimestamptz(expense.CreatedAt),
		timeToPgTimestamptz(expense.UpdatedAt),
	)

	return err
}

// GetByID retrieves a template by ID.
func (r *RecurringExpenseRepository) GetByID(ctx context.Context, id string) (*domain.RecurringExpense, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+recurringColumns+`
		FROM recurring_expenses
		WHERE id = $1`, id)

	return scanRecurringExpense(row)
}

// List lists templates with pagination.
func (r *RecurringExpenseRepository) List(ctx context.Context, limit, offset int) ([]*domain.RecurringExpense, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+recurringColumns+`
		FROM recurring_expenses
		ORDER BY created_at, id
		LIMIT $1 OFFSET $2`, int32(limit), int32(offset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRecurringExpenses(rows)
}

// ListActive lists active templates.
func (r *RecurringExpenseRepository) ListActive(ctx context.Context) ([]*domain.RecurringExpense, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+recurringColumns+`
		FROM recurring_expenses
		WHERE active
		ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRecurringExpenses(rows)
}

// SetActive activates or deactivates a template.
func (r *RecurringExpenseRepository) SetActive(ctx context.Context, id string, active bool, updatedAt time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE recurring_expenses
		SET active = $2, updated_at = $3
		WHERE id = $1`, id, active, timeToPgTimestamptz(updatedAt))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRecurringExpenseNotFound
	}

	return nil
}

func scanRecurringExpense(row pgx.Row) (*domain.RecurringExpense, error) {
	var (
		expense   domain.RecurringExpense
		amount    pgtype.Numeric
		frequency string
		startDate pgtype.Date
		endDate   pgtype.Date
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&expense.ID,
		&expense.Description,
		&amount,
		&frequency,
		&startDate,
		&endDate,
		&expense.Category,
		&expense.Active,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecurringExpenseNotFound
		}

		return nil, err
	}

	expense.Amount = numericToDecimal(amount)
	expense.Frequency = domain.Frequency(frequency)
	expense.StartDate = startDate.Time
	expense.CreatedAt = createdAt.Time
	expense.UpdatedAt = updatedAt.Time
	if endDate.Valid {
		t := endDate.Time
		expense.EndDate = &t
	}

	return &expense, nil
}

func collectRecurringExpenses(rows pgx.Rows) ([]*domain.RecurringExpense, error) {
	var expenses []*domain.RecurringExpense
	for rows.Next() {
		expense, err := scanRecurringExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}

	return expenses, rows.Err()
}

func datePtr(t *time.Time) pgtype.Date {
	if t == nil {
		return pgtype.Date{}
	}

	return pgtype.Date{Time: *t, Valid: true}
}
