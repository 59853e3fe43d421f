package entity

import (
	"fmt"
	"time"

	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/shopspring/decimal"
)

// PaymentType describes what a payment settles.
type PaymentType string

const (
	PaymentTypeInvoice PaymentType = "invoice" // settles a specific invoice
	PaymentTypeAdvance PaymentType = "advance" // on account to a contact
	PaymentTypeExpense PaymentType = "expense" // no contact
)

// IsValid reports whether t is a known payment type.
func (t PaymentType) IsValid() bool {
	return t == PaymentTypeInvoice || t == PaymentTypeAdvance || t == PaymentTypeExpense
}

// PaymentMethod is informational only.
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodTransfer PaymentMethod = "transfer"
	PaymentMethodCheck    PaymentMethod = "check"
	PaymentMethodCard     PaymentMethod = "card"
)

// IsValid reports whether m is a known payment method.
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodTransfer, PaymentMethodCheck, PaymentMethodCard:
		return true
	}
	return false
}

// Payment is an outgoing payment drawn from a money account. It is immutable once
// created except for the void marker; voiding posts compensating entries.
type Payment struct {
	ID            string
	TenantID      string
	Type          PaymentType
	PaymentNumber string
	ContactID     string // empty for expense payments
	Contact       *ContactRef
	InvoiceID     string // empty unless Type == invoice
	AccountID     string
	Amount        decimal.Decimal
	Currency      Currency
	ExchangeRate  decimal.Decimal
	AmountLBP     decimal.Decimal
	AccountAmount decimal.Decimal // Amount in the account currency, as moved out
	AppliedAmount decimal.Decimal // Amount in the invoice currency, as applied
	Method        PaymentMethod
	Reference     string
	Notes         string
	Date          time.Time
	CreatedBy     string
	VoidedAt      *time.Time
	VoidedBy      string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsVoided reports whether the payment has already been reversed.
func (p *Payment) IsVoided() bool { return p.VoidedAt != nil }

// MarkVoided records the void; it refuses a second void.
func (p *Payment) MarkVoided(userID string, now time.Time) error {
	if p.IsVoided() {
		return fmt.Errorf("%w: payment %s is already voided", domain.ErrInvalidState, p.PaymentNumber)
	}
	p.VoidedAt = &now
	p.VoidedBy = userID
	p.UpdatedAt = now
	return nil
}
