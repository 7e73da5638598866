package domain

import "time"

// SaleLine is one line item from the external sales ledger. This engine only
// reads sale lines; the order-intake pipeline owns them.
type SaleLine struct {
	ID        int32     `json:"id"`
	ProductID int32     `json:"product_id"`
	Quantity  int32     `json:"quantity"`
	UnitPrice float64   `json:"unit_price"`
	SoldAt    time.Time `json:"sold_at"`
}

// Product is the catalog entry a manifest line refers to.
type Product struct {
	ID       int32   `json:"id"`
	TenantID int32   `json:"tenant_id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"` // pre-tax unit price
}
