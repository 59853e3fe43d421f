package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ContactType is the role a counterparty plays.
type ContactType string

const (
	ContactTypeSupplier ContactType = "supplier"
	ContactTypeCustomer ContactType = "customer"
	ContactTypeBoth     ContactType = "both"
)

// IsValid reports whether t is a known contact type.
func (t ContactType) IsValid() bool {
	return t == ContactTypeSupplier || t == ContactTypeCustomer || t == ContactTypeBoth
}

// Accepts reports whether a contact of type t may act in the given role
// (supplier or customer).
func (t ContactType) Accepts(role ContactType) bool {
	if role == ContactTypeBoth {
		return t == ContactTypeBoth
	}
	return t == role || t == ContactTypeBoth
}

// Contact is a supplier and/or customer with running balances in both currencies.
// Positive means owed to us for customers and owed by us for suppliers.
type Contact struct {
	ID         string
	TenantID   string
	Type       ContactType
	Name       string
	NameAr     string
	Phone      string
	Email      string
	BalanceUSD decimal.Decimal
	BalanceLBP decimal.Decimal
	DeletedAt  *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ContactRef holds the contact display fields joined into document projections.
type ContactRef struct {
	ID     string
	Name   string
	NameAr string
}
