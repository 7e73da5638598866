// Package settlement holds the pure clearance arithmetic: the inventory
// snapshot and the three-party monetary breakdown. Nothing in this package
// touches a database or an external service.
package settlement

import (
	"fmt"
	"time"

	"shelfspace-backend/internal/domain"
)

// BuildSnapshot freezes the sold/remaining split for each booking-time
// manifest line. Sales are counted per product within [start, end]
// (inclusive on both ends). The initial quantity must come from the
// booking-time manifest; the live manifest is already decremented by sales
// and would double-subtract them.
func BuildSnapshot(
	initial []domain.ProductLine,
	products map[int32]domain.Product,
	sales []domain.SaleLine,
	start, end time.Time,
	taxRate float64,
) ([]domain.SnapshotLine, error) {
	soldByProduct := make(map[int32]int32, len(initial))
	for _, sale := range sales {
		if sale.SoldAt.Before(start) || sale.SoldAt.After(end) {
			continue
		}
		soldByProduct[sale.ProductID] += sale.Quantity
	}

	lines := make([]domain.SnapshotLine, 0, len(initial))
	for _, item := range initial {
		product, ok := products[item.ProductID]
		if !ok {
			return nil, fmt.Errorf("snapshot references product %d: %w", item.ProductID, domain.ErrDataIntegrity)
		}

		sold := soldByProduct[item.ProductID]
		remaining := item.Quantity - sold
		if remaining < 0 {
			remaining = 0
		}

		salesValue := float64(sold) * product.Price
		lines = append(lines, domain.SnapshotLine{
			ProductID:         item.ProductID,
			ProductName:       product.Name,
			InitialQuantity:   item.Quantity,
			SoldQuantity:      sold,
			RemainingQuantity: remaining,
			UnitPrice:         product.Price,
			SalesValue:        salesValue,
			SalesValueWithTax: salesValue * (1 + taxRate),
		})
	}
	return lines, nil
}

// ResolvePlatformRate picks the platform commission rate from an ordered
// list of optional sources: per-rental admin override, then the rental's
// stored platform entry, then the platform default.
func ResolvePlatformRate(override, stored *float64, fallback float64) float64 {
	if override != nil {
		return *override
	}
	if stored != nil {
		return *stored
	}
	return fallback
}

// Calculate produces the monetary breakdown for a frozen snapshot. All
// percentages operate on pre-tax sales value; tax is reported separately and
// not distributed to any party. Amounts stay unrounded until persisted so a
// three-way split cannot accumulate rounding error.
func Calculate(snapshot []domain.SnapshotLine, platformRate, hostRate float64, now time.Time) domain.SettlementBreakdown {
	var totalSales, totalSalesWithTax, returnValue float64
	for _, line := range snapshot {
		totalSales += line.SalesValue
		totalSalesWithTax += line.SalesValueWithTax
		returnValue += float64(line.RemainingQuantity) * line.UnitPrice
	}

	platformAmount := totalSales * platformRate / 100
	hostAmount := totalSales * hostRate / 100
	tenantRevenue := totalSales - platformAmount - hostAmount

	return domain.SettlementBreakdown{
		TotalSales:               totalSales,
		TotalSalesWithTax:        totalSalesWithTax,
		PlatformCommissionRate:   platformRate,
		PlatformCommissionAmount: platformAmount,
		HostCommissionRate:       hostRate,
		HostCommissionAmount:     hostAmount,
		TenantSalesRevenue:       tenantRevenue,
		ReturnInventoryValue:     returnValue,
		TenantTotalAmount:        tenantRevenue + returnValue,
		CalculatedAt:             now,
	}
}
