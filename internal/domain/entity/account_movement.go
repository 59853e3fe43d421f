package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType is the direction of an account movement.
type MovementType string

const (
	MovementTypeIn          MovementType = "in"
	MovementTypeOut         MovementType = "out"
	MovementTypeTransferIn  MovementType = "transfer_in"
	MovementTypeTransferOut MovementType = "transfer_out"
)

// IsValid reports whether t is a known movement type.
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypeIn, MovementTypeOut, MovementTypeTransferIn, MovementTypeTransferOut:
		return true
	}
	return false
}

// IsInbound reports whether the movement adds to the balance.
func (t MovementType) IsInbound() bool {
	return t == MovementTypeIn || t == MovementTypeTransferIn
}

// Signed returns amount with the sign the movement applies to the balance.
func (t MovementType) Signed(amount decimal.Decimal) decimal.Decimal {
	if t.IsInbound() {
		return amount
	}
	return amount.Neg()
}

// MovementReference tags what caused a movement.
type MovementReference string

const (
	ReferencePayment     MovementReference = "payment"
	ReferencePaymentVoid MovementReference = "payment_void"
	ReferenceReceipt     MovementReference = "receipt"
	ReferenceTransfer    MovementReference = "transfer"
	ReferenceAdjustment  MovementReference = "adjustment"
	ReferenceOpening     MovementReference = "opening"
)

// IsValid reports whether r is a known reference type.
func (r MovementReference) IsValid() bool {
	switch r {
	case ReferencePayment, ReferencePaymentVoid, ReferenceReceipt, ReferenceTransfer, ReferenceAdjustment, ReferenceOpening:
		return true
	}
	return false
}

// AccountMovement is an append-only ledger entry. It is never updated or deleted;
// corrections are new offsetting movements.
type AccountMovement struct {
	ID            string
	TenantID      string
	AccountID     string
	Type          MovementType
	Amount        decimal.Decimal // unsigned
	BalanceAfter  decimal.Decimal
	ReferenceType MovementReference
	ReferenceID   string // back-reference, empty when none
	Description   string
	Date          time.Time
	CreatedBy     string
	CreatedAt     time.Time
}
