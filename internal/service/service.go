package service

import (
	"context"
	"time"

	"shelfspace-backend/internal/domain"
	"shelfspace-backend/internal/transfer"
)

// LifecycleService advances rentals through their time-driven transitions.
// All transitions originate from RunSweep; it is safe to invoke it any number
// of times.
type LifecycleService interface {
	RunSweep(ctx context.Context, now time.Time) LifecycleSweepResult
}

// LifecycleSweepResult reports what one sweep pass did.
type LifecycleSweepResult struct {
	Activated int `json:"activated"`
	Completed int `json:"completed"`
	Expired   int `json:"expired"`
	Failed    int `json:"failed"`
}

// ReturnShipmentInput is the host's shipment submission.
type ReturnShipmentInput struct {
	Carrier        string `json:"carrier"`
	TrackingNumber string `json:"tracking_number"`
}

// ReturnReceiptInput is the tenant's receipt confirmation.
type ReturnReceiptInput struct {
	Condition string   `json:"condition"`
	PhotoURLs []string `json:"photo_urls"`
}

// ClearanceService drives the post-rental closeout workflow. Stage
// transitions are strictly sequential; commands whose precondition is unmet
// fail with domain.ErrPrecondition and leave state untouched.
type ClearanceService interface {
	// Initiate starts clearance for a completed rental. Called by the
	// lifecycle sweep; re-invoking for an already-initiated rental is a no-op.
	Initiate(ctx context.Context, rentalID int32) (*domain.Clearance, error)
	// ApproveSettlement freezes the monetary breakdown and records the host
	// payout. Platform administrators only.
	ApproveSettlement(ctx context.Context, actor domain.Actor, rentalID int32) (*domain.SettlementBreakdown, error)
	// SubmitReturnShipment attaches the host's return shipment. Host owner only.
	SubmitReturnShipment(ctx context.Context, actor domain.Actor, rentalID int32, in ReturnShipmentInput) (*domain.Clearance, error)
	// ConfirmReturnReceipt confirms the tenant received the returned
	// inventory. Tenant owner only.
	ConfirmReturnReceipt(ctx context.Context, actor domain.Actor, rentalID int32, in ReturnReceiptInput) (*domain.Clearance, error)
	// Close terminally closes the clearance. Platform administrators only.
	Close(ctx context.Context, actor domain.Actor, rentalID int32) (*domain.Clearance, error)
	// GetSettlement returns the frozen breakdown for a rental.
	GetSettlement(ctx context.Context, rentalID int32) (*domain.SettlementBreakdown, error)
	// GenerateDocument renders and stores the clearance document, returning
	// its reference. Idempotent; retriable after storage failures.
	GenerateDocument(ctx context.Context, rentalID int32) (string, error)
}

// ReminderService emits time-boxed notifications. It never mutates lifecycle
// or clearance state.
type ReminderService interface {
	RunSweep(ctx context.Context, now time.Time) ReminderSweepResult
}

// ReminderSweepResult reports what one reminder pass emitted.
type ReminderSweepResult struct {
	ExpiryReminders  int `json:"expiry_reminders"`
	PaymentReminders int `json:"payment_reminders"`
	ClearanceNudges  int `json:"clearance_nudges"`
	Failed           int `json:"failed"`
}

// PayoutService moves recorded host payouts through the external transfer
// service. A transfer is never attempted twice for the same payment while
// one is processing or already completed.
type PayoutService interface {
	Dispatch(ctx context.Context, paymentID int32) error
	DispatchPending(ctx context.Context) (int, error)
	// RefreshProcessing polls the provider for transfers still in flight.
	RefreshProcessing(ctx context.Context) (int, error)
	// HandleTransferUpdate applies a provider webhook status change.
	HandleTransferUpdate(ctx context.Context, transferID string, status transfer.Status) error
}

// EmailService sends reminder mails to hosts and tenants.
type EmailService interface {
	SendExpiryReminder(ctx context.Context, email, name string, rentalID int32, daysLeft int) error
	SendPaymentReminder(ctx context.Context, email, name string, rentalID int32) error
	SendClearanceNudge(ctx context.Context, email, name string, rentalID int32, stage domain.ClearanceStage) error
}
