package entity

import "github.com/shopspring/decimal"

// InvoiceItem is one invoice line. Lines are replaced wholesale while the invoice is a draft.
type InvoiceItem struct {
	ID              string
	InvoiceID       string
	ProductID       string // empty for free-text lines
	Description     string
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
	LineTotal       decimal.Decimal // Quantity * UnitPrice * (1 - DiscountPercent/100)
	SortOrder       int
}
