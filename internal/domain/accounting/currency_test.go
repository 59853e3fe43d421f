package accounting_test

import (
	"testing"

	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/accounting"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert(t *testing.T) {
	got, err := accounting.Convert(d("10"), entity.CurrencyUSD, entity.CurrencyLBP, d("89500"))
	require.NoError(t, err)
	assert.True(t, got.Equal(d("895000")))

	got, err = accounting.Convert(d("895000"), entity.CurrencyLBP, entity.CurrencyUSD, d("89500"))
	require.NoError(t, err)
	assert.True(t, got.Equal(d("10")))

	got, err = accounting.Convert(d("100000"), entity.CurrencyLBP, entity.CurrencyUSD, d("89500"))
	require.NoError(t, err)
	assert.True(t, got.Equal(d("1.12")), "LBP->USD rounds to cents, got %s", got)
}

func TestConvert_SameCurrencyIgnoresRate(t *testing.T) {
	got, err := accounting.Convert(d("42"), entity.CurrencyLBP, entity.CurrencyLBP, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, got.Equal(d("42")))
}

func TestConvert_CrossCurrencyWithoutRate(t *testing.T) {
	_, err := accounting.Convert(d("1"), entity.CurrencyUSD, entity.CurrencyLBP, decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestResolveRate(t *testing.T) {
	r, err := accounting.ResolveRate(decimal.Zero, d("89500"))
	require.NoError(t, err)
	assert.True(t, r.Equal(d("89500")))

	r, err = accounting.ResolveRate(d("90000"), d("89500"))
	require.NoError(t, err)
	assert.True(t, r.Equal(d("90000")))

	_, err = accounting.ResolveRate(d("-1"), d("89500"))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ──────────────────────────────────────────────────────────────────────────────
// Contact balance legs
// ──────────────────────────────────────────────────────────────────────────────

func TestLegs(t *testing.T) {
	usd := accounting.Legs(entity.CurrencyUSD, d("10"), d("895000"))
	assert.True(t, usd.USD.Equal(d("10")))
	assert.True(t, usd.LBP.Equal(d("895000")))

	lbp := accounting.Legs(entity.CurrencyLBP, d("500000"), d("500000"))
	assert.True(t, lbp.USD.IsZero())
	assert.True(t, lbp.LBP.Equal(d("500000")))

	assert.True(t, usd.Neg().USD.Equal(d("-10")))
}

func TestNoteDelta_Matrix(t *testing.T) {
	for _, ct := range []entity.ContactType{entity.ContactTypeCustomer, entity.ContactTypeSupplier} {
		credit := &entity.CreditNote{Type: entity.NoteTypeCredit, ContactType: ct, Currency: entity.CurrencyUSD, Total: d("5"), TotalLBP: d("447500")}
		debit := &entity.CreditNote{Type: entity.NoteTypeDebit, ContactType: ct, Currency: entity.CurrencyUSD, Total: d("5"), TotalLBP: d("447500")}

		assert.True(t, accounting.NoteDelta(credit).USD.Equal(d("-5")), "%s credit", ct)
		assert.True(t, accounting.NoteDelta(credit).LBP.Equal(d("-447500")), "%s credit", ct)
		assert.True(t, accounting.NoteDelta(debit).USD.Equal(d("5")), "%s debit", ct)
	}
}
