package entity

import (
	"fmt"
	"time"

	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/shopspring/decimal"
)

// AccountType distinguishes cash drawers from bank accounts.
type AccountType string

const (
	AccountTypeCash AccountType = "cash"
	AccountTypeBank AccountType = "bank"
)

// IsValid reports whether t is a known account type.
func (t AccountType) IsValid() bool {
	return t == AccountTypeCash || t == AccountTypeBank
}

// MoneyAccount is a cash or bank account. CurrentBalance always equals the signed
// sum of its movements; only the ledger mutates it.
type MoneyAccount struct {
	ID             string
	TenantID       string
	Name           string
	Type           AccountType
	Currency       Currency
	CurrentBalance decimal.Decimal
	IsDefault      bool
	IsActive       bool
	DeletedAt      *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// BalanceAfter returns the balance that results from applying a movement of the given
// type and amount. Outbound movements that would leave the balance negative fail with
// domain.ErrInsufficientBalance.
func (a *MoneyAccount) BalanceAfter(t MovementType, amount decimal.Decimal) (decimal.Decimal, error) {
	if !t.IsValid() {
		return decimal.Zero, fmt.Errorf("%w: movement type %q", domain.ErrValidation, t)
	}
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: movement amount must be positive", domain.ErrValidation)
	}
	if t.IsInbound() {
		return a.CurrentBalance.Add(amount), nil
	}
	next := a.CurrentBalance.Sub(amount)
	if next.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: account %s has %s %s, needs %s",
			domain.ErrInsufficientBalance, a.Name, a.CurrentBalance.StringFixed(2), a.Currency, amount.StringFixed(2))
	}
	return next, nil
}

// IsDeleted reports whether the account was soft-deleted.
func (a *MoneyAccount) IsDeleted() bool { return a.DeletedAt != nil }
