package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/caixaflow/caixaflow/internal/domain"
	"github.com/caixaflow/caixaflow/internal/usecase"
)

const transferColumns = `id, from_account_id, to_account_id, amount, scheduled_date, executed_at, status, description, created_at, updated_at`

// TransferRepository implements usecase.TransferRepository.
type TransferRepository struct {
	pool *pgxpool.Pool
}

// NewTransferRepository creates a new TransferRepository.
func NewTransferRepository(pool *pgxpool.Pool) *TransferRepository {
	return &TransferRepository{pool: pool}
}

// Create creates a transfer within a transaction.
func (r *TransferRepository) Create(ctx context.Context, tx usecase.Transaction, transfer *domain.Transfer) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO transfers (`+transferColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		transfer.ID,
		transfer.FromAccountID,
		transfer.ToAccountID,
		decimalToNumeric(transfer.Amount),
		pgtype.Date{Time: transfer.ScheduledDate, Valid: true},
		timePtrToPgTimestamptz(transfer.ExecutedAt),
		string(transfer.Status),
		transfer.Description,
		timeToPgTimestamptz(transfer.CreatedAt),
		timeToPgTimestamptz(transfer.UpdatedAt),
	)

	return err
}

// GetByID retrieves a transfer by ID.
func (r *TransferRepository) GetByID(ctx context.Context, id string) (*domain.Transfer, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+transferColumns+`
		FROM transfers
		WHERE id = $1`, id)

	return scanTransfer(row)
}

// GetByIDForUpdate retrieves a transfer with a FOR UPDATE lock so the
// status check and transition are atomic.
func (r *TransferRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Transfer, error) {
	pgxTx := tx.(*Tx).PgxTx()

	row := pgxTx.QueryRow(ctx, `
		SELECT `+transferColumns+`
		FROM transfers
		WHERE id = $1
		FOR UPDATE`, id)

	return scanTransfer(row)
}

// UpdateStatus transitions a transfer's status within a transaction.
func (r *TransferRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.TransferStatus, executedAt *time.Time, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		UPDATE transfers
		SET status = $2, executed_at = $3, updated_at = $4
		WHERE id = $1`,
		id, string(status), timePtrToPgTimestamptz(executedAt), timeToPgTimestamptz(updatedAt))

	return err
}

// ListByAccount lists transfers touching an account on either side,
// newest first.
func (r *TransferRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transfer, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+transferColumns+`
		FROM transfers
		WHERE from_account_id = $1 OR to_account_id = $1
		ORDER BY scheduled_date DESC, created_at DESC
		LIMIT $2 OFFSET $3`, accountID, int32(limit), int32(offset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTransfers(rows)
}

// ListDue returns SCHEDULED transfers due on or before the given day,
// oldest first so backlog drains in schedule order.
func (r *TransferRepository) ListDue(ctx context.Context, today time.Time, limit int) ([]*domain.Transfer, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+transferColumns+`
		FROM transfers
		WHERE status = 'SCHEDULED' AND scheduled_date <= $1
		ORDER BY scheduled_date, created_at
		LIMIT $2`, pgtype.Date{Time: today, Valid: true}, int32(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTransfers(rows)
}

func scanTransfer(row pgx.Row) (*domain.Transfer, error) {
	var (
		transfer      domain.Transfer
		amount        pgtype.Numeric
		scheduledDate pgtype.Date
		executedAt    pgtype.Timestamptz
		status        string
		createdAt     pgtype.Timestamptz
		updatedAt     pgtype.Timestamptz
	)

	err := row.Scan(
		&transfer.ID,
		&transfer.FromAccountID,
		&transfer.ToAccountID,
		&amount,
		&scheduledDate,
		&executedAt,
		&status,
		&transfer.Description,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransferNotFound
		}

		return nil, err
	}

	transfer.Amount = numericToDecimal(amount)
	transfer.ScheduledDate = scheduledDate.Time
	transfer.Status = domain.TransferStatus(status)
	transfer.CreatedAt = createdAt.Time
	transfer.UpdatedAt = updatedAt.Time
	if executedAt.Valid {
		t := executedAt.Time
		transfer.ExecutedAt = &t
	}

	return &transfer, nil
}

func collectTransfers(rows pgx.Rows) ([]*domain.Transfer, error) {
	var transfers []*domain.Transfer
	for rows.Next() {
		transfer, err := scanTransfer(rows)
		if err != nil {
			return nil, err
		}
		transfers = append(transfers, transfer)
	}

	return transfers, rows.Err()
}

func timePtrToPgTimestamptz(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}

	return timeToPgTimestamptz(*t)
}
