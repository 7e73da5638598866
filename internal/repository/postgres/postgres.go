package postgres

import (
	"database/sql"

	"shelfspace-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.RentalRepository
	repository.ClearanceRepository
	repository.PaymentRepository
	repository.SalesRepository
	repository.ProductRepository
	repository.ProfileRepository
	repository.CommissionOverrideRepository
	repository.ConversationRepository
	repository.NotificationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                           db,
		RentalRepository:             NewRentalRepository(db),
		ClearanceRepository:          NewClearanceRepository(db),
		PaymentRepository:            NewPaymentRepository(db),
		SalesRepository:              NewSalesRepository(db),
		ProductRepository:            NewProductRepository(db),
		ProfileRepository:            NewProfileRepository(db),
		CommissionOverrideRepository: NewCommissionOverrideRepository(db),
		ConversationRepository:       NewConversationRepository(db),
		NotificationRepository:       NewNotificationRepository(db),
	}
}
