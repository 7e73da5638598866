package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"shelfspace-backend/internal/domain"
	"shelfspace-backend/internal/repository"
)

type paymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) repository.PaymentRepository {
	return &paymentRepository{db: db}
}

const paymentColumns = `id, rental_id, clearance_id, host_id, amount, description,
	status, transfer_status, transfer_id, idempotency_key, created_on, updated_on`

func (r *paymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	query := `INSERT INTO payments (rental_id, clearance_id, host_id, amount, description,
	          status, transfer_status, transfer_id, idempotency_key, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query,
		p.RentalID, p.ClearanceID, p.HostID, p.Amount, p.Description,
		p.Status, p.TransferStatus, p.TransferID, p.IdempotencyKey, now, now).Scan(&p.ID)
}

func (r *paymentRepository) GetByID(ctx context.Context, id int32) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	p, err := scanPayment(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("payment %d: %w", id, domain.ErrNotFound)
	}
	return p, err
}

func (r *paymentRepository) GetByTransferID(ctx context.Context, transferID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE transfer_id = $1`
	p, err := scanPayment(r.db.QueryRowContext(ctx, query, transferID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("payment for transfer %s: %w", transferID, domain.ErrNotFound)
	}
	return p, err
}

func (r *paymentRepository) ListByRental(ctx context.Context, rentalID int32) ([]domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE rental_id = $1 ORDER BY id`
	return r.list(ctx, query, rentalID)
}

func (r *paymentRepository) ListByTransferStatus(ctx context.Context, statuses ...domain.TransferStatus) ([]domain.Payment, error) {
	values := make([]string, len(statuses))
	for i, s := range statuses {
		values[i] = string(s)
	}
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE transfer_status = ANY($1) ORDER BY id`
	return r.list(ctx, query, pq.Array(values))
}

func (r *paymentRepository) UpdateTransferStatusFrom(ctx context.Context, id int32, from, to domain.TransferStatus, transferID string) error {
	query := `UPDATE payments SET transfer_status = $1, transfer_id = COALESCE(NULLIF($2, ''), transfer_id), updated_on = $3
	          WHERE id = $4 AND transfer_status = $5`
	res, err := r.db.ExecContext(ctx, query, to, transferID, time.Now(), id, from)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("payment %d not in transfer status %s: %w", id, from, domain.ErrConflict)
	}
	return nil
}

func (r *paymentRepository) list(ctx context.Context, query string, args ...interface{}) ([]domain.Payment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, *p)
	}
	return payments, rows.Err()
}

func scanPayment(row rowScanner) (*domain.Payment, error) {
	p := &domain.Payment{}
	var transferID sql.NullString
	err := row.Scan(&p.ID, &p.RentalID, &p.ClearanceID, &p.HostID, &p.Amount,
		&p.Description, &p.Status, &p.TransferStatus, &transferID,
		&p.IdempotencyKey, &p.CreatedOn, &p.UpdatedOn)
	if err != nil {
		return nil, err
	}
	p.TransferID = transferID.String
	return p, nil
}
