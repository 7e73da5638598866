package domain

import "time"

type ClearanceStage string

const (
	ClearanceStageInitiated             ClearanceStage = "INITIATED"
	ClearanceStagePendingInventoryCheck ClearanceStage = "PENDING_INVENTORY_CHECK"
	ClearanceStageSettlementApproved    ClearanceStage = "SETTLEMENT_APPROVED"
	ClearanceStagePaymentCompleted      ClearanceStage = "PAYMENT_COMPLETED"
	ClearanceStageReturnShipped         ClearanceStage = "RETURN_SHIPPED"
	ClearanceStageReturnReceived        ClearanceStage = "RETURN_RECEIVED"
	ClearanceStageClosed                ClearanceStage = "CLOSED"
)

// clearanceStageOrder fixes the only legal progression. Stages never move
// backward and never skip ahead.
var clearanceStageOrder = map[ClearanceStage]int{
	ClearanceStageInitiated:             0,
	ClearanceStagePendingInventoryCheck: 1,
	ClearanceStageSettlementApproved:    2,
	ClearanceStagePaymentCompleted:      3,
	ClearanceStageReturnShipped:         4,
	ClearanceStageReturnReceived:        5,
	ClearanceStageClosed:                6,
}

// Rank returns the stage's position in the fixed progression, or -1 for an
// unknown stage.
func (s ClearanceStage) Rank() int {
	rank, ok := clearanceStageOrder[s]
	if !ok {
		return -1
	}
	return rank
}

// CanAdvanceTo reports whether next is the immediate successor of s.
func (s ClearanceStage) CanAdvanceTo(next ClearanceStage) bool {
	cur, target := s.Rank(), next.Rank()
	return cur >= 0 && target == cur+1
}

// Clearance tracks the closeout workflow for one completed rental. It is
// created when the rental completes and is never deleted; its stage moves
// strictly forward.
type Clearance struct {
	ID       int32          `json:"id"`
	RentalID int32          `json:"rental_id"`
	Status   ClearanceStage `json:"status"`

	InitiatedAt          time.Time  `json:"initiated_at"`
	SettlementApprovedAt *time.Time `json:"settlement_approved_at,omitempty"`
	PaymentCompletedAt   *time.Time `json:"payment_completed_at,omitempty"`
	ReturnShippedAt      *time.Time `json:"return_shipped_at,omitempty"`
	ReturnReceivedAt     *time.Time `json:"return_received_at,omitempty"`
	ClosedAt             *time.Time `json:"closed_at,omitempty"`

	PaymentIDs []int32 `json:"payment_ids"`
	DocumentID *string `json:"document_id,omitempty"`

	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

// LastProgressAt returns the timestamp of the most recent stage transition.
func (c *Clearance) LastProgressAt() time.Time {
	last := c.InitiatedAt
	for _, ts := range []*time.Time{
		c.SettlementApprovedAt,
		c.PaymentCompletedAt,
		c.ReturnShippedAt,
		c.ReturnReceivedAt,
		c.ClosedAt,
	} {
		if ts != nil && ts.After(last) {
			last = *ts
		}
	}
	return last
}
