package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest body for POST /api/invoices. Status may be "pending" to
// create and confirm in one step.
type CreateInvoiceRequest struct {
	Type                  string               `json:"type" validate:"required,oneof=purchase expense sale"`
	ContactID             string               `json:"contact_id" validate:"omitempty,uuid"`
	SupplierInvoiceNumber string               `json:"supplier_invoice_number" validate:"max=100"`
	Date                  string               `json:"date" validate:"omitempty,datetime=2006-01-02"`
	DueDate               string               `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	Currency              string               `json:"currency" validate:"required,oneof=USD LBP"`
	ExchangeRate          decimal.Decimal      `json:"exchange_rate" validate:"gte=0"`
	DiscountType          string               `json:"discount_type" validate:"omitempty,oneof=percent fixed"`
	DiscountValue         decimal.Decimal      `json:"discount_value" validate:"gte=0"`
	TaxRate               decimal.Decimal      `json:"tax_rate" validate:"gte=0,lte=100"`
	Notes                 string               `json:"notes" validate:"max=2000"`
	Status                string               `json:"status" validate:"omitempty,oneof=draft pending"`
	Items                 []InvoiceItemRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdateInvoiceRequest body for PUT /api/invoices/:id. Nil fields are left unchanged;
// a non-nil Items replaces every line and recomputes totals.
type UpdateInvoiceRequest struct {
	ContactID             *string              `json:"contact_id" validate:"omitempty,uuid"`
	SupplierInvoiceNumber *string              `json:"supplier_invoice_number"`
	Date                  *string              `json:"date" validate:"omitempty,datetime=2006-01-02"`
	DueDate               *string              `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	Currency              *string              `json:"currency" validate:"omitempty,oneof=USD LBP"`
	ExchangeRate          *decimal.Decimal     `json:"exchange_rate"`
	DiscountType          *string              `json:"discount_type" validate:"omitempty,oneof=percent fixed"`
	DiscountValue         *decimal.Decimal     `json:"discount_value"`
	TaxRate               *decimal.Decimal     `json:"tax_rate"`
	Notes                 *string              `json:"notes"`
	Items                 []InvoiceItemRequest `json:"items" validate:"omitempty,dive"`
}

// InvoiceItemRequest is one invoice line.
type InvoiceItemRequest struct {
	ProductID       string          `json:"product_id" validate:"omitempty,uuid"`
	Description     string          `json:"description" validate:"max=500"`
	Quantity        decimal.Decimal `json:"quantity" validate:"gt=0"`
	UnitPrice       decimal.Decimal `json:"unit_price" validate:"gte=0"`
	DiscountPercent decimal.Decimal `json:"discount_percent" validate:"gte=0,lte=100"`
}

// CancelRequest carries an optional reason.
type CancelRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// InvoiceResponse is an invoice projection with lines and contact display fields.
type InvoiceResponse struct {
	ID                    string                `json:"id"`
	Type                  string                `json:"type"`
	InternalNumber        string                `json:"internal_number"`
	SupplierInvoiceNumber string                `json:"supplier_invoice_number,omitempty"`
	Contact               *ContactRefResponse   `json:"contact,omitempty"`
	Status                string                `json:"status"`
	Date                  string                `json:"date"`
	DueDate               string                `json:"due_date,omitempty"`
	Currency              string                `json:"currency"`
	ExchangeRate          decimal.Decimal       `json:"exchange_rate"`
	DiscountType          string                `json:"discount_type,omitempty"`
	DiscountValue         decimal.Decimal       `json:"discount_value"`
	TaxRate               decimal.Decimal       `json:"tax_rate"`
	Subtotal              decimal.Decimal       `json:"subtotal"`
	DiscountAmount        decimal.Decimal       `json:"discount_amount"`
	TaxAmount             decimal.Decimal       `json:"tax_amount"`
	Total                 decimal.Decimal       `json:"total"`
	TotalLBP              decimal.Decimal       `json:"total_lbp"`
	AmountPaid            decimal.Decimal       `json:"amount_paid"`
	Balance               decimal.Decimal       `json:"balance"`
	Notes                 string                `json:"notes,omitempty"`
	CreatedAt             time.Time             `json:"created_at"`
	Items                 []InvoiceItemResponse `json:"items,omitempty"`
}

// InvoiceItemResponse is one invoice line.
type InvoiceItemResponse struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"product_id,omitempty"`
	Description     string          `json:"description"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	LineTotal       decimal.Decimal `json:"line_total"`
}

// ListInvoicesRequest query for GET /api/invoices.
type ListInvoicesRequest struct {
	PageRequest
	Type      string `query:"type" validate:"omitempty,oneof=purchase expense sale"`
	Status    string `query:"status" validate:"omitempty,oneof=draft pending partial paid cancelled"`
	ContactID string `query:"contact_id" validate:"omitempty,uuid"`
	From      string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To        string `query:"to" validate:"omitempty,datetime=2006-01-02"`
}
