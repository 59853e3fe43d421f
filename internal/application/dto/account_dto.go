package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateAccountRequest body for POST /api/accounts.
type CreateAccountRequest struct {
	Name           string          `json:"name" validate:"required,min=1,max=200"`
	Type           string          `json:"type" validate:"required,oneof=cash bank"`
	Currency       string          `json:"currency" validate:"required,oneof=USD LBP"`
	OpeningBalance decimal.Decimal `json:"opening_balance" validate:"gte=0"`
	IsDefault      bool            `json:"is_default"`
}

// AccountResponse is a money account.
type AccountResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Type           string          `json:"type"`
	Currency       string          `json:"currency"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	IsDefault      bool            `json:"is_default"`
	IsActive       bool            `json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
}

// CreateMovementRequest records a raw movement. The HTTP layer only exposes
// adjustments; other reference types are produced by documents.
type CreateMovementRequest struct {
	AccountID     string          `json:"account_id" validate:"required,uuid"`
	Type          string          `json:"type" validate:"required,oneof=in out transfer_in transfer_out"`
	Amount        decimal.Decimal `json:"amount" validate:"gt=0"`
	ReferenceType string          `json:"reference_type" validate:"required"`
	ReferenceID   string          `json:"reference_id,omitempty"`
	Description   string          `json:"description" validate:"max=500"`
	Date          string          `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

// AdjustAccountRequest body for POST /api/accounts/:id/adjust.
type AdjustAccountRequest struct {
	Type        string          `json:"type" validate:"required,oneof=in out"`
	Amount      decimal.Decimal `json:"amount" validate:"gt=0"`
	Description string          `json:"description" validate:"required,max=500"`
	Date        string          `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

// TransferRequest body for POST /api/transfers. ExchangeRate is required when the
// two accounts hold different currencies.
type TransferRequest struct {
	FromAccountID string          `json:"from_account_id" validate:"required,uuid"`
	ToAccountID   string          `json:"to_account_id" validate:"required,uuid,nefield=FromAccountID"`
	Amount        decimal.Decimal `json:"amount" validate:"gt=0"`
	ExchangeRate  decimal.Decimal `json:"exchange_rate" validate:"gte=0"`
	Description   string          `json:"description" validate:"max=500"`
	Date          string          `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

// TransferResponse holds both legs of a transfer.
type TransferResponse struct {
	ReferenceID string           `json:"reference_id"`
	Out         MovementResponse `json:"out"`
	In          MovementResponse `json:"in"`
}

// MovementResponse is one ledger entry.
type MovementResponse struct {
	ID            string          `json:"id"`
	AccountID     string          `json:"account_id"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	ReferenceType string          `json:"reference_type"`
	ReferenceID   string          `json:"reference_id,omitempty"`
	Description   string          `json:"description,omitempty"`
	Date          string          `json:"date"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ListMovementsRequest query for GET /api/accounts/:id/movements.
type ListMovementsRequest struct {
	PageRequest
	From string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To   string `query:"to" validate:"omitempty,datetime=2006-01-02"`
}

// ReconcileLine reports one account whose balance disagrees with its movements.
type ReconcileLine struct {
	AccountID      string          `json:"account_id"`
	Name           string          `json:"name"`
	Currency       string          `json:"currency"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	MovementSum    decimal.Decimal `json:"movement_sum"`
	Difference     decimal.Decimal `json:"difference"`
	Movements      int             `json:"movements"`
}

// ReconcileResponse is the result of a reconciliation sweep.
type ReconcileResponse struct {
	Checked    int             `json:"checked"`
	Mismatches []ReconcileLine `json:"mismatches"`
}
