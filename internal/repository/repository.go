package repository

import (
	"context"
	"time"

	"shelfspace-backend/internal/domain"
)

type RentalRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.Rental, error)
	// ListByStatus returns only records currently in the given status. Sweeps
	// rely on this source-status filter for idempotence.
	ListByStatus(ctx context.Context, status domain.RentalStatus) ([]domain.Rental, error)
	// UpdateStatusFrom is a compare-and-set on status. It returns
	// domain.ErrConflict when the record is no longer in `from`.
	UpdateStatusFrom(ctx context.Context, id int32, from, to domain.RentalStatus) error
	// UpdateClearance writes all clearance extension fields (clearance
	// status, snapshot, settlement, shipment, document id) in one statement.
	UpdateClearance(ctx context.Context, rental *domain.Rental) error
}

type ClearanceRepository interface {
	Create(ctx context.Context, clearance *domain.Clearance) error
	GetByID(ctx context.Context, id int32) (*domain.Clearance, error)
	GetByRentalID(ctx context.Context, rentalID int32) (*domain.Clearance, error)
	// AdvanceStage is a compare-and-set from `from` to `to`, stamping the
	// stage's timestamp column. It returns domain.ErrConflict when the record
	// is not currently in `from`.
	AdvanceStage(ctx context.Context, id int32, from, to domain.ClearanceStage, at time.Time) error
	AddPaymentID(ctx context.Context, id, paymentID int32) error
	SetDocumentID(ctx context.Context, id int32, documentID string) error
	ListOpen(ctx context.Context) ([]domain.Clearance, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	GetByID(ctx context.Context, id int32) (*domain.Payment, error)
	GetByTransferID(ctx context.Context, transferID string) (*domain.Payment, error)
	ListByRental(ctx context.Context, rentalID int32) ([]domain.Payment, error)
	ListByTransferStatus(ctx context.Context, statuses ...domain.TransferStatus) ([]domain.Payment, error)
	// UpdateTransferStatusFrom is a compare-and-set on transfer_status,
	// optionally recording the provider transfer id.
	UpdateTransferStatusFrom(ctx context.Context, id int32, from, to domain.TransferStatus, transferID string) error
}

// SalesRepository reads the external sales ledger. This engine never writes
// sale lines.
type SalesRepository interface {
	ListByProductsAndPeriod(ctx context.Context, productIDs []int32, from, to time.Time) ([]domain.SaleLine, error)
}

type ProductRepository interface {
	GetByIDs(ctx context.Context, ids []int32) (map[int32]domain.Product, error)
}

type ProfileRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.Profile, error)
}

// CommissionOverrideRepository resolves per-rental admin overrides of the
// platform commission rate. A nil rate means no override exists.
type CommissionOverrideRepository interface {
	GetPlatformRateOverride(ctx context.Context, rentalID int32) (*float64, error)
}

// ConversationRepository appends system messages to a rental's conversation
// channel. The chat transport is an external collaborator.
type ConversationRepository interface {
	AppendSystemMessage(ctx context.Context, conversationID int32, body string) error
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
}
