package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"shelfspace-backend/internal/domain"
	"shelfspace-backend/internal/repository"
)

type productRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) repository.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) GetByIDs(ctx context.Context, ids []int32) (map[int32]domain.Product, error) {
	query := `SELECT id, tenant_id, name, price FROM products WHERE id = ANY($1)`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make(map[int32]domain.Product, len(ids))
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.TenantID, &p.Name, &p.Price); err != nil {
			return nil, err
		}
		products[p.ID] = p
	}
	return products, rows.Err()
}

type profileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetByID(ctx context.Context, id int32) (*domain.Profile, error) {
	p := &domain.Profile{}
	var holder, iban sql.NullString
	query := `SELECT id, type, name, email, bank_account_holder, iban, created_on FROM profiles WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Type, &p.Name, &p.Email, &holder, &iban, &p.CreatedOn)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("profile %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	p.BankAccountHolder = holder.String
	p.IBAN = iban.String
	return p, nil
}

type commissionOverrideRepository struct {
	db *sql.DB
}

func NewCommissionOverrideRepository(db *sql.DB) repository.CommissionOverrideRepository {
	return &commissionOverrideRepository{db: db}
}

func (r *commissionOverrideRepository) GetPlatformRateOverride(ctx context.Context, rentalID int32) (*float64, error) {
	var rate float64
	query := `SELECT rate FROM commission_overrides WHERE rental_id = $1 AND party = 'PLATFORM'`
	err := r.db.QueryRowContext(ctx, query, rentalID).Scan(&rate)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rate, nil
}
