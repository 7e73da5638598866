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

type clearanceRepository struct {
	db *sql.DB
}

func NewClearanceRepository(db *sql.DB) repository.ClearanceRepository {
	return &clearanceRepository{db: db}
}

const clearanceColumns = `id, rental_id, status, initiated_at, settlement_approved_at,
	payment_completed_at, return_shipped_at, return_received_at, closed_at,
	payment_ids, document_id, created_on, updated_on`

// stageTimestampColumn maps each stage to the column stamped on entry.
// INITIATED is stamped at creation and has no transition column.
var stageTimestampColumn = map[domain.ClearanceStage]string{
	domain.ClearanceStageSettlementApproved: "settlement_approved_at",
	domain.ClearanceStagePaymentCompleted:   "payment_completed_at",
	domain.ClearanceStageReturnShipped:      "return_shipped_at",
	domain.ClearanceStageReturnReceived:     "return_received_at",
	domain.ClearanceStageClosed:             "closed_at",
}

func (r *clearanceRepository) Create(ctx context.Context, c *domain.Clearance) error {
	query := `INSERT INTO clearances (rental_id, status, initiated_at, payment_ids, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query,
		c.RentalID, c.Status, c.InitiatedAt, pq.Array(c.PaymentIDs), now, now).Scan(&c.ID)
}

func (r *clearanceRepository) GetByID(ctx context.Context, id int32) (*domain.Clearance, error) {
	query := `SELECT ` + clearanceColumns + ` FROM clearances WHERE id = $1`
	c, err := scanClearance(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("clearance %d: %w", id, domain.ErrNotFound)
	}
	return c, err
}

func (r *clearanceRepository) GetByRentalID(ctx context.Context, rentalID int32) (*domain.Clearance, error) {
	query := `SELECT ` + clearanceColumns + ` FROM clearances WHERE rental_id = $1`
	c, err := scanClearance(r.db.QueryRowContext(ctx, query, rentalID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("clearance for rental %d: %w", rentalID, domain.ErrNotFound)
	}
	return c, err
}

func (r *clearanceRepository) AdvanceStage(ctx context.Context, id int32, from, to domain.ClearanceStage, at time.Time) error {
	if !from.CanAdvanceTo(to) {
		return fmt.Errorf("stage %s cannot advance to %s: %w", from, to, domain.ErrPrecondition)
	}

	query := `UPDATE clearances SET status = $1, updated_on = $2 WHERE id = $3 AND status = $4`
	args := []interface{}{to, time.Now(), id, from}
	if col, ok := stageTimestampColumn[to]; ok {
		query = fmt.Sprintf(`UPDATE clearances SET status = $1, %s = $2, updated_on = $3 WHERE id = $4 AND status = $5`, col)
		args = []interface{}{to, at, time.Now(), id, from}
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("clearance %d not in stage %s: %w", id, from, domain.ErrConflict)
	}
	return nil
}

func (r *clearanceRepository) AddPaymentID(ctx context.Context, id, paymentID int32) error {
	query := `UPDATE clearances SET payment_ids = array_append(payment_ids, $1), updated_on = $2 WHERE id = $3`
	_, err := r.db.ExecContext(ctx, query, paymentID, time.Now(), id)
	return err
}

func (r *clearanceRepository) SetDocumentID(ctx context.Context, id int32, documentID string) error {
	query := `UPDATE clearances SET document_id = $1, updated_on = $2 WHERE id = $3`
	_, err := r.db.ExecContext(ctx, query, documentID, time.Now(), id)
	return err
}

func (r *clearanceRepository) ListOpen(ctx context.Context) ([]domain.Clearance, error) {
	query := `SELECT ` + clearanceColumns + ` FROM clearances WHERE status != $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, domain.ClearanceStageClosed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clearances []domain.Clearance
	for rows.Next() {
		c, err := scanClearance(rows)
		if err != nil {
			return nil, err
		}
		clearances = append(clearances, *c)
	}
	return clearances, rows.Err()
}

func scanClearance(row rowScanner) (*domain.Clearance, error) {
	c := &domain.Clearance{}
	var (
		paymentIDs pq.Int32Array
		documentID sql.NullString
	)
	err := row.Scan(&c.ID, &c.RentalID, &c.Status, &c.InitiatedAt,
		&c.SettlementApprovedAt, &c.PaymentCompletedAt, &c.ReturnShippedAt,
		&c.ReturnReceivedAt, &c.ClosedAt, &paymentIDs, &documentID,
		&c.CreatedOn, &c.UpdatedOn)
	if err != nil {
		return nil, err
	}
	c.PaymentIDs = []int32(paymentIDs)
	if documentID.Valid {
		c.DocumentID = &documentID.String
	}
	return c, nil
}
