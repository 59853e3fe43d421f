package entity

import (
	"fmt"
	"time"

	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/shopspring/decimal"
)

// NoteType distinguishes credit notes (reduce what is owed) from debit notes (increase it).
type NoteType string

const (
	NoteTypeCredit NoteType = "credit"
	NoteTypeDebit  NoteType = "debit"
)

// IsValid reports whether t is a known note type.
func (t NoteType) IsValid() bool { return t == NoteTypeCredit || t == NoteTypeDebit }

// DocumentType returns the numbering series for the note.
func (t NoteType) DocumentType() DocumentType {
	if t == NoteTypeDebit {
		return DocDebitNote
	}
	return DocCreditNote
}

// NoteStatus is the lifecycle state of a credit/debit note.
type NoteStatus string

const (
	NoteStatusDraft     NoteStatus = "draft"
	NoteStatusIssued    NoteStatus = "issued"
	NoteStatusApplied   NoteStatus = "applied"
	NoteStatusCancelled NoteStatus = "cancelled"
)

var noteTransitions = map[NoteStatus][]NoteStatus{
	NoteStatusDraft:     {NoteStatusIssued, NoteStatusCancelled},
	NoteStatusIssued:    {NoteStatusApplied, NoteStatusCancelled},
	NoteStatusApplied:   nil,
	NoteStatusCancelled: nil,
}

// CanTransitionTo reports whether the transition table allows s -> next.
func (s NoteStatus) CanTransitionTo(next NoteStatus) bool {
	for _, to := range noteTransitions[s] {
		if to == next {
			return true
		}
	}
	return false
}

// CreditNote is a credit or debit note issued to a contact. UnappliedAmount =
// Total - AppliedAmount and never goes negative.
type CreditNote struct {
	ID                 string
	TenantID           string
	Type               NoteType
	Number             string
	ContactID          string
	ContactType        ContactType // customer or supplier
	Contact            *ContactRef
	OriginalInvoiceID  string
	Status             NoteStatus
	Date               time.Time
	Currency           Currency
	ExchangeRate       decimal.Decimal
	TaxRate            decimal.Decimal
	Subtotal           decimal.Decimal
	TaxAmount          decimal.Decimal
	Total              decimal.Decimal
	TotalLBP           decimal.Decimal
	AppliedAmount      decimal.Decimal
	UnappliedAmount    decimal.Decimal
	Reason             string
	CancellationReason string
	IssuedAt           *time.Time
	CancelledAt        *time.Time
	CreatedBy          string
	DeletedAt          *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
	Items              []CreditNoteItem
	Allocations        []CreditNoteAllocation
}

// CreditNoteItem is an immutable line snapshot.
type CreditNoteItem struct {
	ID              string
	CreditNoteID    string
	ProductID       string
	Description     string
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
	LineTotal       decimal.Decimal
	SortOrder       int
}

// CreditNoteAllocation records one application of a credit note to an invoice. Append-only.
type CreditNoteAllocation struct {
	ID           string
	TenantID     string
	CreditNoteID string
	InvoiceID    string
	Amount       decimal.Decimal
	AllocatedBy  string
	AllocatedAt  time.Time
}

func (n *CreditNote) transition(to NoteStatus, now time.Time) error {
	if !n.Status.CanTransitionTo(to) {
		return fmt.Errorf("%w: note %s cannot move from %s to %s", domain.ErrInvalidState, n.Number, n.Status, to)
	}
	n.Status = to
	n.UpdatedAt = now
	return nil
}

// Issue moves a draft to issued.
func (n *CreditNote) Issue(now time.Time) error {
	if n.Status != NoteStatusDraft {
		return fmt.Errorf("%w: note %s is %s, only drafts can be issued", domain.ErrInvalidState, n.Number, n.Status)
	}
	if err := n.transition(NoteStatusIssued, now); err != nil {
		return err
	}
	n.IssuedAt = &now
	return nil
}

// Allocate consumes amount from the unapplied balance. Only issued or applied credit
// notes can be allocated; the note becomes applied once nothing is left.
func (n *CreditNote) Allocate(amount decimal.Decimal, now time.Time) error {
	if n.Type != NoteTypeCredit {
		return fmt.Errorf("%w: only credit notes can be applied to invoices", domain.ErrValidation)
	}
	if n.Status != NoteStatusIssued && n.Status != NoteStatusApplied {
		return fmt.Errorf("%w: note %s is %s", domain.ErrInvalidState, n.Number, n.Status)
	}
	if !amount.IsPositive() {
		return fmt.Errorf("%w: applied amount must be positive", domain.ErrValidation)
	}
	if amount.GreaterThan(n.UnappliedAmount) {
		return fmt.Errorf("%w: amount %s exceeds unapplied %s on note %s",
			domain.ErrInsufficientBalance, amount.StringFixed(2), n.UnappliedAmount.StringFixed(2), n.Number)
	}
	n.AppliedAmount = n.AppliedAmount.Add(amount)
	n.UnappliedAmount = n.Total.Sub(n.AppliedAmount)
	n.UpdatedAt = now
	if !n.UnappliedAmount.IsPositive() && n.Status == NoteStatusIssued {
		return n.transition(NoteStatusApplied, now)
	}
	return nil
}

// Cancel moves the note to cancelled. It reports whether the note had been issued,
// in which case the caller must reverse the balance adjustment.
func (n *CreditNote) Cancel(reason string, hasAllocations bool, now time.Time) (wasIssued bool, err error) {
	if hasAllocations || n.AppliedAmount.IsPositive() {
		return false, fmt.Errorf("%w: note %s has allocations, reverse them first", domain.ErrInvalidState, n.Number)
	}
	wasIssued = n.Status == NoteStatusIssued
	if err := n.transition(NoteStatusCancelled, now); err != nil {
		return false, err
	}
	n.CancellationReason = reason
	n.CancelledAt = &now
	return wasIssued, nil
}

// MarkDeleted soft-deletes a draft.
func (n *CreditNote) MarkDeleted(now time.Time) error {
	if n.Status != NoteStatusDraft {
		return fmt.Errorf("%w: note %s is %s, only drafts can be deleted", domain.ErrInvalidState, n.Number, n.Status)
	}
	n.DeletedAt = &now
	n.UpdatedAt = now
	return nil
}
