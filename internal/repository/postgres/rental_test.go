package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"shelfspace-backend/internal/domain"
	"shelfspace-backend/internal/repository/postgres"
)

var rentalRows = []string{
	"id", "shelf_id", "host_id", "tenant_id", "conversation_id", "start_date", "end_date",
	"monthly_price", "total_amount", "status", "commission_rates", "products", "initial_products",
	"clearance_status", "final_snapshot", "settlement", "return_shipment", "clearance_document_id",
	"created_on", "updated_on",
}

func rentalRow(mockRows *sqlmock.Rows, id int32, status domain.RentalStatus) *sqlmock.Rows {
	now := time.Now()
	return mockRows.AddRow(
		id, 2, 10, 20, 30, now, now.AddDate(0, 1, 0),
		100.0, 100.0, status,
		[]byte(`[{"party":"PLATFORM","type":"percentage","rate":22}]`),
		[]byte(`[{"product_id":7,"quantity":5}]`),
		[]byte(`[{"product_id":7,"quantity":20}]`),
		nil, nil, nil, nil, nil,
		now, now,
	)
}

func TestRentalRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewRentalRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM rentals WHERE id").
			WithArgs(int32(1)).
			WillReturnRows(rentalRow(sqlmock.NewRows(rentalRows), 1, domain.RentalStatusActive))

		rt, err := repo.GetByID(ctx, 1)
		assert.NoError(t, err)
		assert.Equal(t, int32(1), rt.ID)
		assert.Equal(t, domain.RentalStatusActive, rt.Status)
		assert.Len(t, rt.CommissionRates, 1)
		assert.Equal(t, int32(20), rt.InitialProducts[0].Quantity)
		assert.Nil(t, rt.ClearanceStatus)
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM rentals WHERE id").
			WithArgs(int32(2)).
			WillReturnRows(sqlmock.NewRows(rentalRows))

		_, err := repo.GetByID(ctx, 2)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestRentalRepository_ListByStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewRentalRepository(db)
	ctx := context.Background()

	rows := sqlmock.NewRows(rentalRows)
	rentalRow(rows, 1, domain.RentalStatusActive)
	rentalRow(rows, 2, domain.RentalStatusActive)

	mock.ExpectQuery("SELECT (.+) FROM rentals WHERE status").
		WithArgs(domain.RentalStatusActive).
		WillReturnRows(rows)

	rentals, err := repo.ListByStatus(ctx, domain.RentalStatusActive)
	assert.NoError(t, err)
	assert.Len(t, rentals, 2)
}

func TestRentalRepository_UpdateStatusFrom(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewRentalRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("UPDATE rentals SET status").
			WithArgs(domain.RentalStatusActive, sqlmock.AnyArg(), int32(1), domain.RentalStatusPaymentPending).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateStatusFrom(ctx, 1, domain.RentalStatusPaymentPending, domain.RentalStatusActive)
		assert.NoError(t, err)
	})

	t.Run("Conflict when the source status no longer matches", func(t *testing.T) {
		mock.ExpectExec("UPDATE rentals SET status").
			WithArgs(domain.RentalStatusActive, sqlmock.AnyArg(), int32(1), domain.RentalStatusPaymentPending).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateStatusFrom(ctx, 1, domain.RentalStatusPaymentPending, domain.RentalStatusActive)
		assert.ErrorIs(t, err, domain.ErrConflict)
	})
}

func TestRentalRepository_UpdateClearance(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewRentalRepository(db)
	ctx := context.Background()

	stage := domain.ClearanceStagePendingInventoryCheck
	rt := &domain.Rental{
		ID:              1,
		ClearanceStatus: &stage,
		FinalSnapshot: []domain.SnapshotLine{
			{ProductID: 7, InitialQuantity: 20, SoldQuantity: 15, RemainingQuantity: 5, UnitPrice: 10, SalesValue: 150},
		},
	}

	mock.ExpectExec("UPDATE rentals").
		WithArgs(string(stage), sqlmock.AnyArg(), nil, nil, nil, sqlmock.AnyArg(), rt.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.UpdateClearance(ctx, rt)
	assert.NoError(t, err)
}
