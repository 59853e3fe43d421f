package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a stocked item. Stock and cost are driven by confirmed inbound invoices:
// the last confirmed invoice line sets the cost (no weighted average).
type Product struct {
	ID           string
	TenantID     string
	Name         string
	Barcode      string // unique per tenant when set
	Price        decimal.Decimal
	CostPrice    decimal.Decimal
	CostCurrency Currency
	Stock        decimal.Decimal
	DeletedAt    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
