package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePaymentRequest body for POST /api/payments.
type CreatePaymentRequest struct {
	Type         string          `json:"type" validate:"required,oneof=invoice advance expense"`
	AccountID    string          `json:"account_id" validate:"required,uuid"`
	ContactID    string          `json:"contact_id" validate:"omitempty,uuid"`
	InvoiceID    string          `json:"invoice_id" validate:"required_if=Type invoice,omitempty,uuid"`
	Amount       decimal.Decimal `json:"amount" validate:"gt=0"`
	Currency     string          `json:"currency" validate:"required,oneof=USD LBP"`
	ExchangeRate decimal.Decimal `json:"exchange_rate" validate:"gte=0"`
	Method       string          `json:"payment_method" validate:"omitempty,oneof=cash transfer check card"`
	Reference    string          `json:"reference" validate:"max=100"`
	Notes        string          `json:"notes" validate:"max=2000"`
	Date         string          `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

// PaymentResponse is a payment projection with contact display fields.
type PaymentResponse struct {
	ID            string              `json:"id"`
	Type          string              `json:"type"`
	PaymentNumber string              `json:"payment_number"`
	Contact       *ContactRefResponse `json:"contact,omitempty"`
	InvoiceID     string              `json:"invoice_id,omitempty"`
	AccountID     string              `json:"account_id"`
	Amount        decimal.Decimal     `json:"amount"`
	Currency      string              `json:"currency"`
	ExchangeRate  decimal.Decimal     `json:"exchange_rate"`
	AmountLBP     decimal.Decimal     `json:"amount_lbp"`
	AccountAmount decimal.Decimal     `json:"account_amount"`
	AppliedAmount decimal.Decimal     `json:"applied_amount,omitempty"`
	Method        string              `json:"payment_method"`
	Reference     string              `json:"reference,omitempty"`
	Notes         string              `json:"notes,omitempty"`
	Date          string              `json:"date"`
	Voided        bool                `json:"voided"`
	VoidedAt      *time.Time          `json:"voided_at,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
}

// ListPaymentsRequest query for GET /api/payments.
type ListPaymentsRequest struct {
	PageRequest
	Type          string `query:"type" validate:"omitempty,oneof=invoice advance expense"`
	ContactID     string `query:"contact_id" validate:"omitempty,uuid"`
	InvoiceID     string `query:"invoice_id" validate:"omitempty,uuid"`
	AccountID     string `query:"account_id" validate:"omitempty,uuid"`
	IncludeVoided bool   `query:"include_voided"`
	From          string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To            string `query:"to" validate:"omitempty,datetime=2006-01-02"`
}
