package entity

import (
	"fmt"
	"time"

	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/shopspring/decimal"
)

// InvoiceType is the business nature of an invoice.
type InvoiceType string

const (
	InvoiceTypePurchase InvoiceType = "purchase"
	InvoiceTypeExpense  InvoiceType = "expense"
	InvoiceTypeSale     InvoiceType = "sale"
)

// IsValid reports whether t is a known invoice type.
func (t InvoiceType) IsValid() bool {
	return t == InvoiceTypePurchase || t == InvoiceTypeExpense || t == InvoiceTypeSale
}

// DocumentType returns the numbering series ({type}_invoice).
func (t InvoiceType) DocumentType() DocumentType {
	return DocumentType(string(t) + "_invoice")
}

// IsInbound reports whether confirming the invoice receives goods into stock.
func (t InvoiceType) IsInbound() bool {
	return t == InvoiceTypePurchase || t == InvoiceTypeExpense
}

// InvoiceStatus is the lifecycle state of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusPending   InvoiceStatus = "pending"
	InvoiceStatusPartial   InvoiceStatus = "partial"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

var invoiceTransitions = map[InvoiceStatus][]InvoiceStatus{
	InvoiceStatusDraft:     {InvoiceStatusPending, InvoiceStatusCancelled},
	InvoiceStatusPending:   {InvoiceStatusPartial, InvoiceStatusPaid, InvoiceStatusCancelled},
	InvoiceStatusPartial:   {InvoiceStatusPending, InvoiceStatusPaid, InvoiceStatusCancelled},
	InvoiceStatusPaid:      {InvoiceStatusPartial, InvoiceStatusPending},
	InvoiceStatusCancelled: nil,
}

// IsValid reports whether s is a known status.
func (s InvoiceStatus) IsValid() bool {
	_, ok := invoiceTransitions[s]
	return ok
}

// CanTransitionTo reports whether the transition table allows s -> next.
func (s InvoiceStatus) CanTransitionTo(next InvoiceStatus) bool {
	for _, to := range invoiceTransitions[s] {
		if to == next {
			return true
		}
	}
	return false
}

// AcceptsPayments reports whether payments or credit may be applied in this state.
func (s InvoiceStatus) AcceptsPayments() bool {
	return s == InvoiceStatusPending || s == InvoiceStatusPartial || s == InvoiceStatusPaid
}

// DiscountType selects how the header discount is interpreted.
type DiscountType string

const (
	DiscountPercent DiscountType = "percent"
	DiscountFixed   DiscountType = "fixed"
)

// IsValid reports whether d is a known discount type. Empty means no discount.
func (d DiscountType) IsValid() bool {
	return d == "" || d == DiscountPercent || d == DiscountFixed
}

// Invoice is the header of a purchase, expense or sale invoice.
// Balance = Total - AmountPaid and never goes negative.
type Invoice struct {
	ID                    string
	TenantID              string
	Type                  InvoiceType
	InternalNumber        string // immutable once assigned
	SupplierInvoiceNumber string
	ContactID             string
	Contact               *ContactRef // populated by read queries
	Status                InvoiceStatus
	Date                  time.Time
	DueDate               *time.Time
	Currency              Currency
	ExchangeRate          decimal.Decimal
	DiscountType          DiscountType
	DiscountValue         decimal.Decimal
	TaxRate               decimal.Decimal // percent
	Subtotal              decimal.Decimal
	DiscountAmount        decimal.Decimal
	TaxAmount             decimal.Decimal
	Total                 decimal.Decimal
	TotalLBP              decimal.Decimal
	AmountPaid            decimal.Decimal
	Balance               decimal.Decimal
	Notes                 string
	ConfirmedAt           *time.Time
	CancelledAt           *time.Time
	CreatedBy             string
	DeletedAt             *time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
	Items                 []InvoiceItem
}

func (inv *Invoice) transition(to InvoiceStatus, now time.Time) error {
	if !inv.Status.CanTransitionTo(to) {
		return fmt.Errorf("%w: invoice %s cannot move from %s to %s", domain.ErrInvalidState, inv.InternalNumber, inv.Status, to)
	}
	inv.Status = to
	inv.UpdatedAt = now
	return nil
}

// EnsureEditable fails unless the invoice is still a draft.
func (inv *Invoice) EnsureEditable() error {
	if inv.Status != InvoiceStatusDraft {
		return fmt.Errorf("%w: invoice %s is %s, only drafts can be edited", domain.ErrInvalidState, inv.InternalNumber, inv.Status)
	}
	return nil
}

// Confirm moves a draft to pending.
func (inv *Invoice) Confirm(now time.Time) error {
	if inv.Status != InvoiceStatusDraft {
		return fmt.Errorf("%w: invoice %s is %s, only drafts can be confirmed", domain.ErrInvalidState, inv.InternalNumber, inv.Status)
	}
	if err := inv.transition(InvoiceStatusPending, now); err != nil {
		return err
	}
	inv.ConfirmedAt = &now
	return nil
}

// Cancel moves the invoice to cancelled. It reports whether the invoice had been
// confirmed, in which case the caller must reverse the confirm side effects.
func (inv *Invoice) Cancel(now time.Time) (wasConfirmed bool, err error) {
	if inv.AmountPaid.IsPositive() {
		return false, fmt.Errorf("%w: invoice %s has %s paid, void its payments first",
			domain.ErrInvalidState, inv.InternalNumber, inv.AmountPaid.StringFixed(2))
	}
	wasConfirmed = inv.Status != InvoiceStatusDraft
	if err := inv.transition(InvoiceStatusCancelled, now); err != nil {
		return false, err
	}
	inv.CancelledAt = &now
	return wasConfirmed, nil
}

// ApplyPayment adds (or, when isVoid, removes) amount from AmountPaid and derives
// Balance and Status. Callers must not exceed the current balance.
func (inv *Invoice) ApplyPayment(amount decimal.Decimal, isVoid bool, now time.Time) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: applied amount must be positive", domain.ErrValidation)
	}
	if !inv.Status.AcceptsPayments() {
		return fmt.Errorf("%w: invoice %s is %s and does not accept payments", domain.ErrInvalidState, inv.InternalNumber, inv.Status)
	}
	paid := inv.AmountPaid
	if isVoid {
		if amount.GreaterThan(paid) {
			return fmt.Errorf("%w: cannot reverse %s, invoice %s has %s paid",
				domain.ErrInvalidState, amount.StringFixed(2), inv.InternalNumber, paid.StringFixed(2))
		}
		paid = paid.Sub(amount)
	} else {
		if amount.GreaterThan(inv.Balance) {
			return fmt.Errorf("%w: amount %s exceeds invoice %s balance %s",
				domain.ErrValidation, amount.StringFixed(2), inv.InternalNumber, inv.Balance.StringFixed(2))
		}
		paid = paid.Add(amount)
	}
	inv.AmountPaid = paid
	inv.Balance = inv.Total.Sub(paid)

	next := InvoiceStatusPending
	switch {
	case !inv.Balance.IsPositive():
		next = InvoiceStatusPaid
	case paid.IsPositive():
		next = InvoiceStatusPartial
	}
	if next == inv.Status {
		inv.UpdatedAt = now
		return nil
	}
	return inv.transition(next, now)
}

// MarkDeleted soft-deletes a draft.
func (inv *Invoice) MarkDeleted(now time.Time) error {
	if inv.Status != InvoiceStatusDraft {
		return fmt.Errorf("%w: invoice %s is %s, only drafts can be deleted", domain.ErrInvalidState, inv.InternalNumber, inv.Status)
	}
	inv.DeletedAt = &now
	inv.UpdatedAt = now
	return nil
}
