package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"shelfspace-backend/internal/domain"
	"shelfspace-backend/internal/repository"
)

// The sales ledger is owned by the order-intake pipeline; this repository
// only reads from it.
type salesRepository struct {
	db *sql.DB
}

func NewSalesRepository(db *sql.DB) repository.SalesRepository {
	return &salesRepository{db: db}
}

func (r *salesRepository) ListByProductsAndPeriod(ctx context.Context, productIDs []int32, from, to time.Time) ([]domain.SaleLine, error) {
	query := `SELECT id, product_id, quantity, unit_price, sold_at
	          FROM sale_lines
	          WHERE product_id = ANY($1) AND sold_at >= $2 AND sold_at <= $3
	          ORDER BY sold_at`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(productIDs), from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []domain.SaleLine
	for rows.Next() {
		var line domain.SaleLine
		if err := rows.Scan(&line.ID, &line.ProductID, &line.Quantity, &line.UnitPrice, &line.SoldAt); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}
