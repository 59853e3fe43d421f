package accounting

import (
	"fmt"

	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	// QuantityScale is the number of decimals stored for line quantities and stock.
	QuantityScale = 3
	// RateScale is the number of decimals stored for exchange rates.
	RateScale = 4
	// PercentScale is the number of decimals stored for tax and discount percents.
	PercentScale = 2
)

// CheckScale rejects v when it carries more significant decimals than places.
// Trailing zeros are fine: 10.500 passes at two places.
func CheckScale(v decimal.Decimal, places int32, what string) error {
	if v.Equal(v.Truncate(places)) {
		return nil
	}
	return fmt.Errorf("%w: %s %s has more than %d decimals", domain.ErrValidation, what, v.String(), places)
}

// CheckMoney rejects amounts that do not fit the stored cent precision.
func CheckMoney(v decimal.Decimal, what string) error {
	return CheckScale(v, MoneyScale, what)
}

// CheckQuantity rejects quantities finer than the stored precision.
func CheckQuantity(v decimal.Decimal, what string) error {
	return CheckScale(v, QuantityScale, what)
}
