package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"shelfspace-backend/internal/domain"
	"shelfspace-backend/internal/repository"
)

type rentalRepository struct {
	db *sql.DB
}

func NewRentalRepository(db *sql.DB) repository.RentalRepository {
	return &rentalRepository{db: db}
}

const rentalColumns = `id, shelf_id, host_id, tenant_id, conversation_id, start_date, end_date,
	monthly_price, total_amount, status, commission_rates, products, initial_products,
	clearance_status, final_snapshot, settlement, return_shipment, clearance_document_id,
	created_on, updated_on`

func (r *rentalRepository) GetByID(ctx context.Context, id int32) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE id = $1`
	rt, err := scanRental(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("rental %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return rt, nil
}

func (r *rentalRepository) ListByStatus(ctx context.Context, status domain.RentalStatus) ([]domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE status = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rentals []domain.Rental
	for rows.Next() {
		rt, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		rentals = append(rentals, *rt)
	}
	return rentals, rows.Err()
}

func (r *rentalRepository) UpdateStatusFrom(ctx context.Context, id int32, from, to domain.RentalStatus) error {
	query := `UPDATE rentals SET status = $1, updated_on = $2 WHERE id = $3 AND status = $4`
	res, err := r.db.ExecContext(ctx, query, to, time.Now(), id, from)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("rental %d not in status %s: %w", id, from, domain.ErrConflict)
	}
	return nil
}

func (r *rentalRepository) UpdateClearance(ctx context.Context, rt *domain.Rental) error {
	snapshot, err := json.Marshal(rt.FinalSnapshot)
	if err != nil {
		return err
	}
	settlementJSON, err := marshalNullable(rt.Settlement)
	if err != nil {
		return err
	}
	shipmentJSON, err := marshalNullable(rt.ReturnShipment)
	if err != nil {
		return err
	}

	query := `UPDATE rentals
	          SET clearance_status = $1, final_snapshot = $2, settlement = $3,
	              return_shipment = $4, clearance_document_id = $5, updated_on = $6
	          WHERE id = $7`
	_, err = r.db.ExecContext(ctx, query,
		nullableStage(rt.ClearanceStatus), snapshot, settlementJSON,
		shipmentJSON, rt.ClearanceDocumentID, time.Now(), rt.ID)
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRental(row rowScanner) (*domain.Rental, error) {
	rt := &domain.Rental{}
	var (
		rates, products, initial            []byte
		snapshot, settlementRaw, shipment   []byte
		clearanceStatus, clearanceDocument  sql.NullString
	)
	err := row.Scan(&rt.ID, &rt.ShelfID, &rt.HostID, &rt.TenantID, &rt.ConversationID,
		&rt.StartDate, &rt.EndDate, &rt.MonthlyPrice, &rt.TotalAmount, &rt.Status,
		&rates, &products, &initial, &clearanceStatus, &snapshot, &settlementRaw,
		&shipment, &clearanceDocument, &rt.CreatedOn, &rt.UpdatedOn)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(rates, &rt.CommissionRates); err != nil {
		return nil, fmt.Errorf("rental %d commission_rates: %w", rt.ID, err)
	}
	if err := json.Unmarshal(products, &rt.Products); err != nil {
		return nil, fmt.Errorf("rental %d products: %w", rt.ID, err)
	}
	if err := json.Unmarshal(initial, &rt.InitialProducts); err != nil {
		return nil, fmt.Errorf("rental %d initial_products: %w", rt.ID, err)
	}
	if clearanceStatus.Valid {
		stage := domain.ClearanceStage(clearanceStatus.String)
		rt.ClearanceStatus = &stage
	}
	if len(snapshot) > 0 {
		if err := json.Unmarshal(snapshot, &rt.FinalSnapshot); err != nil {
			return nil, fmt.Errorf("rental %d final_snapshot: %w", rt.ID, err)
		}
	}
	if len(settlementRaw) > 0 {
		rt.Settlement = &domain.SettlementBreakdown{}
		if err := json.Unmarshal(settlementRaw, rt.Settlement); err != nil {
			return nil, fmt.Errorf("rental %d settlement: %w", rt.ID, err)
		}
	}
	if len(shipment) > 0 {
		rt.ReturnShipment = &domain.ReturnShipment{}
		if err := json.Unmarshal(shipment, rt.ReturnShipment); err != nil {
			return nil, fmt.Errorf("rental %d return_shipment: %w", rt.ID, err)
		}
	}
	if clearanceDocument.Valid {
		rt.ClearanceDocumentID = &clearanceDocument.String
	}
	return rt, nil
}

func marshalNullable(v interface{}) ([]byte, error) {
	switch val := v.(type) {
	case *domain.SettlementBreakdown:
		if val == nil {
			return nil, nil
		}
	case *domain.ReturnShipment:
		if val == nil {
			return nil, nil
		}
	}
	return json.Marshal(v)
}

func nullableStage(stage *domain.ClearanceStage) interface{} {
	if stage == nil {
		return nil
	}
	return string(*stage)
}
