package accounting

import (
	"fmt"

	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ResolveRate returns rate, or fallback when rate is zero. Negative rates are rejected.
func ResolveRate(rate, fallback decimal.Decimal) (decimal.Decimal, error) {
	if rate.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: exchange rate cannot be negative", domain.ErrValidation)
	}
	if rate.IsZero() {
		rate = fallback
	}
	if !rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: exchange rate is required", domain.ErrValidation)
	}
	if err := CheckScale(rate, RateScale, "exchange rate"); err != nil {
		return decimal.Zero, err
	}
	return rate, nil
}

// ToLBP converts a document amount to its LBP equivalent.
func ToLBP(amount decimal.Decimal, currency entity.Currency, rate decimal.Decimal) (decimal.Decimal, error) {
	return Convert(amount, currency, entity.CurrencyLBP, rate)
}

// Convert moves amount from one currency to the other. USD->LBP multiplies by rate,
// LBP->USD divides. Different currencies require rate > 0.
func Convert(amount decimal.Decimal, from, to entity.Currency, rate decimal.Decimal) (decimal.Decimal, error) {
	if !from.IsValid() || !to.IsValid() {
		return decimal.Zero, fmt.Errorf("%w: unsupported currency pair %s/%s", domain.ErrValidation, from, to)
	}
	if from == to {
		return amount, nil
	}
	if !rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: converting %s to %s needs an exchange rate", domain.ErrValidation, from, to)
	}
	if from == entity.CurrencyUSD {
		return amount.Mul(rate).Round(MoneyScale), nil
	}
	return amount.Div(rate).Round(MoneyScale), nil
}
