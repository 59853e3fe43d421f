package entity

// Currency is one of the two currencies the ledger books in.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyLBP Currency = "LBP"
)

// IsValid reports whether c is a supported currency.
func (c Currency) IsValid() bool {
	return c == CurrencyUSD || c == CurrencyLBP
}

func (c Currency) String() string { return string(c) }
