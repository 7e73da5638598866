package domain

import "time"

type RentalStatus string

const (
	RentalStatusPending        RentalStatus = "PENDING"
	RentalStatusPaymentPending RentalStatus = "PAYMENT_PENDING"
	RentalStatusActive         RentalStatus = "ACTIVE"
	RentalStatusCompleted      RentalStatus = "COMPLETED"
	RentalStatusExpired        RentalStatus = "EXPIRED"
	RentalStatusCancelled      RentalStatus = "CANCELLED"
	RentalStatusRejected       RentalStatus = "REJECTED"
)

type CommissionParty string

const (
	CommissionPartyPlatform CommissionParty = "PLATFORM"
	CommissionPartyHost     CommissionParty = "HOST"
)

// CommissionRate is a named rate attached to a rental at booking time.
type CommissionRate struct {
	Party CommissionParty `json:"party"`
	Type  string          `json:"type"` // e.g. "percentage"
	Rate  float64         `json:"rate"` // percent, 0-100
}

// ProductLine is one manifest entry: a product and its quantity on the shelf.
type ProductLine struct {
	ProductID int32 `json:"product_id"`
	Quantity  int32 `json:"quantity"`
}

type Rental struct {
	ID             int32        `json:"id"`
	ShelfID        int32        `json:"shelf_id"`
	HostID         int32        `json:"host_id"`   // store profile that owns the shelf
	TenantID       int32        `json:"tenant_id"` // brand profile renting it
	ConversationID int32        `json:"conversation_id"`
	StartDate      time.Time    `json:"start_date"`
	EndDate        time.Time    `json:"end_date"`
	MonthlyPrice   float64      `json:"monthly_price"`
	TotalAmount    float64      `json:"total_amount"`
	Status         RentalStatus `json:"status"`
	// Commission snapshot — captured at booking time. Settlement always
	// calculates against these entries, not live platform settings.
	CommissionRates []CommissionRate `json:"commission_rates"`
	// Products is the live manifest, decremented externally as sales occur.
	// InitialProducts is the booking-time manifest and is the only legal
	// input for the clearance inventory snapshot.
	Products        []ProductLine `json:"products"`
	InitialProducts []ProductLine `json:"initial_products"`

	// Clearance extension, populated only after the rental completes.
	ClearanceStatus     *ClearanceStage      `json:"clearance_status,omitempty"`
	FinalSnapshot       []SnapshotLine       `json:"final_snapshot,omitempty"`
	Settlement          *SettlementBreakdown `json:"settlement,omitempty"`
	ReturnShipment      *ReturnShipment      `json:"return_shipment,omitempty"`
	ClearanceDocumentID *string              `json:"clearance_document_id,omitempty"`

	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

// PlatformRate returns the rental's stored platform commission entry, if any.
func (r *Rental) PlatformRate() *float64 {
	for _, c := range r.CommissionRates {
		if c.Party == CommissionPartyPlatform {
			rate := c.Rate
			return &rate
		}
	}
	return nil
}

// HostRate returns the rental's stored host commission rate, defaulting to zero.
func (r *Rental) HostRate() float64 {
	for _, c := range r.CommissionRates {
		if c.Party == CommissionPartyHost {
			return c.Rate
		}
	}
	return 0
}

// ReturnShipment records the host shipping unsold inventory back to the tenant.
type ReturnShipment struct {
	Carrier        string     `json:"carrier"`
	TrackingNumber string     `json:"tracking_number"`
	ShippedAt      time.Time  `json:"shipped_at"`
	ReceivedAt     *time.Time `json:"received_at,omitempty"`
	Condition      string     `json:"condition,omitempty"`
	PhotoURLs      []string   `json:"photo_urls,omitempty"`
}
