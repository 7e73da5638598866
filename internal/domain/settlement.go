package domain

import "time"

// SnapshotLine is the frozen sold/remaining split for one manifest line item,
// computed once when the rental completes.
type SnapshotLine struct {
	ProductID         int32   `json:"product_id"`
	ProductName       string  `json:"product_name"`
	InitialQuantity   int32   `json:"initial_quantity"`
	SoldQuantity      int32   `json:"sold_quantity"`
	RemainingQuantity int32   `json:"remaining_quantity"`
	UnitPrice         float64 `json:"unit_price"`
	SalesValue        float64 `json:"sales_value"`
	SalesValueWithTax float64 `json:"sales_value_with_tax"`
}

// SettlementBreakdown is the frozen three-party monetary split. Immutable
// once approved.
type SettlementBreakdown struct {
	TotalSales        float64 `json:"total_sales"`
	TotalSalesWithTax float64 `json:"total_sales_with_tax"`

	PlatformCommissionRate   float64 `json:"platform_commission_rate"`
	PlatformCommissionAmount float64 `json:"platform_commission_amount"`
	HostCommissionRate       float64 `json:"host_commission_rate"`
	HostCommissionAmount     float64 `json:"host_commission_amount"`

	TenantSalesRevenue   float64 `json:"tenant_sales_revenue"`
	ReturnInventoryValue float64 `json:"return_inventory_value"`
	TenantTotalAmount    float64 `json:"tenant_total_amount"`

	CalculatedAt time.Time `json:"calculated_at"`
}
