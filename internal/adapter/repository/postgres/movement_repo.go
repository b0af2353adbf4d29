package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/caixaflow/caixaflow/internal/domain"
	"github.com/caixaflow/caixaflow/internal/usecase"
)

const movementColumns = `id, account_id, direction, amount, method, source_type, source_id, occurred_at, description, balance_after, created_at`

// MovementRepository implements usecase.MovementRepository. The
// movements table is append-only: this repository has no update or
// delete statements, and the schema revokes them as well.
type MovementRepository struct {
	pool *pgxpool.Pool
}

// NewMovementRepository creates a new MovementRepository.
func NewMovementRepository(pool *pgxpool.Pool) *MovementRepository {
	return &MovementRepository{pool: pool}
}

// Create appends a movement within a transaction.
func (r *MovementRepository) Create(ctx context.Context, tx usecase.Transaction, movement *domain.Movement) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO movements (`+movementColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		movement.ID,
		movement.AccountID,
		string(movement.Direction),
		decimalToNumeric(movement.Amount),
		string(movement.Method),
		string(movement.SourceType),
		movement.SourceID,
		timeToPgTimestamptz(movement.OccurredAt),
		movement.Description,
		decimalToNumeric(movement.BalanceAfter),
		timeToPgTimestamptz(movement.CreatedAt),
	)

	return err
}

// ListByAccount lists an account's movements, newest first.
func (r *MovementRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Movement, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+movementColumns+`
		FROM movements
		WHERE account_id = $1
		ORDER BY occurred_at DESC, created_at DESC
		LIMIT $2 OFFSET $3`, accountID, int32(limit), int32(offset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectMovements(rows)
}

// ListByAccountPeriod lists an account's movements within the half-open
// period [start, end), oldest first.
func (r *MovementRepository) ListByAccountPeriod(ctx context.Context, accountID string, period domain.Period) ([]*domain.Movement, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+movementColumns+`
		FROM movements
		WHERE account_id = $1 AND occurred_at >= $2 AND occurred_at < $3
		ORDER BY occurred_at, created_at`,
		accountID, timeToPgTimestamptz(period.Start), timeToPgTimestamptz(period.End))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectMovements(rows)
}

// ListBySource lists movements created by a given source record, such
// as the two legs of an executed transfer.
func (r *MovementRepository) ListBySource(ctx context.Context, sourceType domain.SourceType, sourceID string) ([]*domain.Movement, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+movementColumns+`
		FROM movements
		WHERE source_type = $1 AND source_id = $2
		ORDER BY occurred_at, created_at`, string(sourceType), sourceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectMovements(rows)
}

// SumByAccountBefore returns the signed movement sum strictly before
// the given instant.
func (r *MovementRepository) SumByAccountBefore(ctx context.Context, accountID string, before time.Time) (decimal.Decimal, error) {
	return r.signedSum(ctx, `
		SELECT COALESCE(SUM(CASE WHEN direction = 'IN' THEN amount ELSE -amount END), 0)
		FROM movements
		WHERE account_id = $1 AND occurred_at < $2`,
		accountID, timeToPgTimestamptz(before))
}

// SumByAccount returns the signed sum over the account's whole log.
func (r *MovementRepository) SumByAccount(ctx context.Context, accountID string) (decimal.Decimal, error) {
	return r.signedSum(ctx, `
		SELECT COALESCE(SUM(CASE WHEN direction = 'IN' THEN amount ELSE -amount END), 0)
		FROM movements
		WHERE account_id = $1`, accountID)
}

func (r *MovementRepository) signedSum(ctx context.Context, query string, args ...any) (decimal.Decimal, error) {
	var sum pgtype.Numeric
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&sum); err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(sum), nil
}

func scanMovement(row pgx.Row) (*domain.Movement, error) {
	var (
		movement     domain.Movement
		direction    string
		amount       pgtype.Numeric
		method       string
		sourceType   string
		occurredAt   pgtype.Timestamptz
		balanceAfter pgtype.Numeric
		createdAt    pgtype.Timestamptz
	)

	err := row.Scan(
		&movement.ID,
		&movement.AccountID,
		&direction,
		&amount,
		&method,
		&sourceType,
		&movement.SourceID,
		&occurredAt,
		&movement.Description,
		&balanceAfter,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	movement.Direction = domain.Direction(direction)
	movement.Amount = numericToDecimal(amount)
	movement.Method = domain.Method(method)
	movement.SourceType = domain.SourceType(sourceType)
	movement.OccurredAt = occurredAt.Time
	movement.BalanceAfter = numericToDecimal(balanceAfter)
	movement.CreatedAt = createdAt.Time

	return &movement, nil
}

func collectMovements(rows pgx.Rows) ([]*domain.Movement, error) {
	var movements []*domain.Movement
	for rows.Next() {
		movement, err := scanMovement(rows)
		if err != nil {
			return nil, err
		}
		movements = append(movements, movement)
	}

	return movements, rows.Err()
}
