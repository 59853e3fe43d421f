// Package accounting holds the pure money arithmetic shared by invoices, payments
// and notes: document totals, currency conversion and counterparty balance legs.
package accounting

import (
	"fmt"

	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// MoneyScale is the number of decimals stored for every monetary amount.
const MoneyScale = 2

var hundred = decimal.NewFromInt(100)

// Line is the priced part of a document line.
type Line struct {
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
}

// Discount is a header discount, either a percent of the subtotal or a fixed amount.
type Discount struct {
	Type  entity.DiscountType
	Value decimal.Decimal
}

// Totals is the result of pricing a document.
type Totals struct {
	LineTotals     []decimal.Decimal
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	TaxAmount      decimal.Decimal
	Total          decimal.Decimal
	TotalLBP       decimal.Decimal
}

// Validate checks the line shape: quantity > 0, price >= 0, discount in [0,100],
// each within its stored precision.
func (l Line) Validate() error {
	if !l.Quantity.IsPositive() {
		return fmt.Errorf("%w: quantity must be greater than zero", domain.ErrValidation)
	}
	if l.UnitPrice.IsNegative() {
		return fmt.Errorf("%w: unit price cannot be negative", domain.ErrValidation)
	}
	if l.DiscountPercent.IsNegative() || l.DiscountPercent.GreaterThan(hundred) {
		return fmt.Errorf("%w: line discount must be between 0 and 100", domain.ErrValidation)
	}
	if err := CheckQuantity(l.Quantity, "quantity"); err != nil {
		return err
	}
	if err := CheckMoney(l.UnitPrice, "unit price"); err != nil {
		return err
	}
	return CheckScale(l.DiscountPercent, PercentScale, "line discount")
}

// LineTotal = qty * price * (1 - discount/100), rounded to cents.
func LineTotal(l Line) decimal.Decimal {
	gross := l.Quantity.Mul(l.UnitPrice)
	factor := hundred.Sub(l.DiscountPercent).Div(hundred)
	return gross.Mul(factor).Round(MoneyScale)
}

// ComputeTotals prices a document: subtotal from lines, then the header discount,
// then tax as a percent of the discounted amount. TotalLBP is Total converted at
// rate for USD documents and Total itself for LBP documents.
func ComputeTotals(lines []Line, disc Discount, taxRate decimal.Decimal, currency entity.Currency, rate decimal.Decimal) (Totals, error) {
	if len(lines) == 0 {
		return Totals{}, fmt.Errorf("%w: at least one line is required", domain.ErrValidation)
	}
	if !currency.IsValid() {
		return Totals{}, fmt.Errorf("%w: currency %q", domain.ErrValidation, currency)
	}
	if taxRate.IsNegative() || taxRate.GreaterThan(hundred) {
		return Totals{}, fmt.Errorf("%w: tax rate must be between 0 and 100", domain.ErrValidation)
	}
	if err := CheckScale(taxRate, PercentScale, "tax rate"); err != nil {
		return Totals{}, err
	}
	if err := CheckMoney(disc.Value, "discount"); err != nil {
		return Totals{}, err
	}
	if !disc.Type.IsValid() {
		return Totals{}, fmt.Errorf("%w: discount type %q", domain.ErrValidation, disc.Type)
	}

	t := Totals{LineTotals: make([]decimal.Decimal, len(lines))}
	subtotal := decimal.Zero
	for i, l := range lines {
		if err := l.Validate(); err != nil {
			return Totals{}, fmt.Errorf("line %d: %w", i+1, err)
		}
		t.LineTotals[i] = LineTotal(l)
		subtotal = subtotal.Add(t.LineTotals[i])
	}
	t.Subtotal = subtotal

	discount, err := discountAmount(subtotal, disc)
	if err != nil {
		return Totals{}, err
	}
	t.DiscountAmount = discount
	taxable := subtotal.Sub(discount)
	t.TaxAmount = taxable.Mul(taxRate).Div(hundred).Round(MoneyScale)
	t.Total = taxable.Add(t.TaxAmount)

	lbp, err := ToLBP(t.Total, currency, rate)
	if err != nil {
		return Totals{}, err
	}
	t.TotalLBP = lbp
	return t, nil
}

func discountAmount(subtotal decimal.Decimal, d Discount) (decimal.Decimal, error) {
	if d.Value.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: discount cannot be negative", domain.ErrValidation)
	}
	switch d.Type {
	case "":
		return decimal.Zero, nil
	case entity.DiscountPercent:
		if d.Value.GreaterThan(hundred) {
			return decimal.Zero, fmt.Errorf("%w: discount percent cannot exceed 100", domain.ErrValidation)
		}
		return subtotal.Mul(d.Value).Div(hundred).Round(MoneyScale), nil
	default:
		if d.Value.GreaterThan(subtotal) {
			return decimal.Zero, fmt.Errorf("%w: discount %s exceeds subtotal %s",
				domain.ErrValidation, d.Value.StringFixed(2), subtotal.StringFixed(2))
		}
		return d.Value.Round(MoneyScale), nil
	}
}
