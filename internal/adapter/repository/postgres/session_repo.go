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

const sessionColumns = `id, account_id, opening_float, status, opened_at, closed_at`

// CashSessionRepository implements usecase.CashSessionRepository. A
// partial unique index on (account_id) WHERE status = 'OPEN' backs the
// one-open-session-per-account rule at the schema level.
type CashSessionRepository struct {
	pool *pgxpool.Pool
}

// NewCashSessionRepository creates a new CashSessionRepository.
func NewCashSessionRepository(pool *pgxpool.Pool) *CashSessionRepository {
	return &CashSessionRepository{pool: pool}
}

// Create creates a session.
func (r *CashSessionRepository) Create(ctx context.Context, session *domain.CashSession) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO cash_sessions (`+sessionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		session.ID,
		session.AccountID,
		decimalToNumeric(session.OpeningFloat),
		string(session.Status),
		timeToPgTimestamptz(session.OpenedAt),
		timePtrToPgTimestamptz(session.ClosedAt),
	)

	return err
}

// GetByID retrieves a session by ID.
func (r *CashSessionRepository) GetByID(ctx context.Context, id string) (*domain.CashSession, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+sessionColumns+`
		FROM cash_sessions
		WHERE id = $1`, id)

	return scanSession(row)
}

// GetOpenByAccount returns the open session for an account, or
// domain.ErrSessionNotFound when none is open.
func (r *CashSessionRepository) GetOpenByAccount(ctx context.Context, accountID string) (*domain.CashSession, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+sessionColumns+`
		FROM cash_sessions
		WHERE account_id = $1 AND status = 'OPEN'`, accountID)

	return scanSession(row)
}

// Close marks a session CLOSED.
func (r *CashSessionRepository) Close(ctx context.Context, id string, closedAt time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE cash_sessions
		SET status = 'CLOSED', closed_at = $2
		WHERE id = $1`, id, timeToPgTimestamptz(closedAt))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSessionNotFound
	}

	return nil
}

func scanSession(row pgx.Row) (*domain.CashSession, error) {
	var (
		session      domain.CashSession
		openingFloat pgtype.Numeric
		status       string
		openedAt     pgtype.Timestamptz
		closedAt     pgtype.Timestamptz
	)

	err := row.Scan(
		&session.ID,
		&session.AccountID,
		&openingFloat,
		&status,
		&openedAt,
		&closedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}

		return nil, err
	}

	session.OpeningFloat = numericToDecimal(openingFloat)
	session.Status = domain.SessionStatus(status)
	session.OpenedAt = openedAt.Time
	if closedAt.Valid {
		t := closedAt.Time
		session.ClosedAt = &t
	}

	return &session, nil
}
