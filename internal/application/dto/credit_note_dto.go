package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCreditNoteRequest body for POST /api/credit-notes.
type CreateCreditNoteRequest struct {
	Type              string               `json:"type" validate:"required,oneof=credit debit"`
	ContactID         string               `json:"contact_id" validate:"required,uuid"`
	ContactType       string               `json:"contact_type" validate:"required,oneof=customer supplier"`
	OriginalInvoiceID string               `json:"original_invoice_id" validate:"omitempty,uuid"`
	Date              string               `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Currency          string               `json:"currency" validate:"required,oneof=USD LBP"`
	ExchangeRate      decimal.Decimal      `json:"exchange_rate" validate:"gte=0"`
	TaxRate           decimal.Decimal      `json:"tax_rate" validate:"gte=0,lte=100"`
	Reason            string               `json:"reason" validate:"max=2000"`
	Items             []InvoiceItemRequest `json:"items" validate:"required,min=1,dive"`
}

// ApplyCreditNoteRequest body for POST /api/credit-notes/:id/apply.
type ApplyCreditNoteRequest struct {
	InvoiceID string          `json:"invoice_id" validate:"required,uuid"`
	Amount    decimal.Decimal `json:"amount" validate:"gt=0"`
}

// CreditNoteResponse is a note projection with lines, allocations and contact display fields.
type CreditNoteResponse struct {
	ID                 string                `json:"id"`
	Type               string                `json:"type"`
	Number             string                `json:"number"`
	Contact            *ContactRefResponse   `json:"contact,omitempty"`
	ContactType        string                `json:"contact_type"`
	OriginalInvoiceID  string                `json:"original_invoice_id,omitempty"`
	Status             string                `json:"status"`
	Date               string                `json:"date"`
	Currency           string                `json:"currency"`
	ExchangeRate       decimal.Decimal       `json:"exchange_rate"`
	Subtotal           decimal.Decimal       `json:"subtotal"`
	TaxAmount          decimal.Decimal       `json:"tax_amount"`
	Total              decimal.Decimal       `json:"total"`
	TotalLBP           decimal.Decimal       `json:"total_lbp"`
	AppliedAmount      decimal.Decimal       `json:"applied_amount"`
	UnappliedAmount    decimal.Decimal       `json:"unapplied_amount"`
	Reason             string                `json:"reason,omitempty"`
	CancellationReason string                `json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time             `json:"created_at"`
	Items              []InvoiceItemResponse `json:"items,omitempty"`
	Allocations        []AllocationResponse  `json:"allocations,omitempty"`
}

// AllocationResponse is one application of a credit note to an invoice.
type AllocationResponse struct {
	ID          string          `json:"id"`
	InvoiceID   string          `json:"invoice_id"`
	Amount      decimal.Decimal `json:"amount"`
	AllocatedAt time.Time       `json:"allocated_at"`
}

// ListCreditNotesRequest query for GET /api/credit-notes.
type ListCreditNotesRequest struct {
	PageRequest
	Type      string `query:"type" validate:"omitempty,oneof=credit debit"`
	Status    string `query:"status" validate:"omitempty,oneof=draft issued applied cancelled"`
	ContactID string `query:"contact_id" validate:"omitempty,uuid"`
}
