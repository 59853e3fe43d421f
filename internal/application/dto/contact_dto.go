package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateContactRequest body for POST /api/contacts.
type CreateContactRequest struct {
	Type   string `json:"type" validate:"required,oneof=supplier customer both"`
	Name   string `json:"name" validate:"required,min=1,max=200"`
	NameAr string `json:"name_ar" validate:"max=200"`
	Phone  string `json:"phone" validate:"max=50"`
	Email  string `json:"email" validate:"omitempty,email"`
}

// ContactResponse is a contact with its running balances.
type ContactResponse struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Name       string          `json:"name"`
	NameAr     string          `json:"name_ar,omitempty"`
	Phone      string          `json:"phone,omitempty"`
	Email      string          `json:"email,omitempty"`
	BalanceUSD decimal.Decimal `json:"balance_usd"`
	BalanceLBP decimal.Decimal `json:"balance_lbp"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ListContactsRequest query for GET /api/contacts.
type ListContactsRequest struct {
	PageRequest
	Type string `query:"type" validate:"omitempty,oneof=supplier customer both"`
}
