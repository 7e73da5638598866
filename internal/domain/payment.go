package domain

import "time"

type PaymentStatus string

const (
	// PaymentStatusCompleted means the settlement obligation was recorded.
	// It says nothing about whether money has moved; see TransferStatus.
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
)

type TransferStatus string

const (
	TransferStatusPending    TransferStatus = "PENDING"
	TransferStatusProcessing TransferStatus = "PROCESSING"
	TransferStatusCompleted  TransferStatus = "COMPLETED"
	TransferStatusFailed     TransferStatus = "FAILED"
)

// Payment represents one platform-to-host payout created during clearance.
type Payment struct {
	ID          int32   `json:"id"`
	RentalID    int32   `json:"rental_id"`
	ClearanceID int32   `json:"clearance_id"`
	HostID      int32   `json:"host_id"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`

	Status         PaymentStatus  `json:"status"`
	TransferStatus TransferStatus `json:"transfer_status"`
	TransferID     string         `json:"transfer_id,omitempty"`
	// IdempotencyKey is sent to the transfer service so a retried dispatch
	// can never move money twice.
	IdempotencyKey string `json:"idempotency_key"`

	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}
