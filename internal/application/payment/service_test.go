package payment_test

import (
	"testing"

	"github.com/jhoicas/ledger-api/internal/application/apptest"
	"github.com/jhoicas/ledger-api/internal/application/dto"
	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var d = apptest.D

func pay(f *apptest.Fixture, invoiceID, amount, currency string) (*dto.PaymentResponse, error) {
	return f.Payments.Create(f.Ctx, f.TenantID, f.UserID, dto.CreatePaymentRequest{
		Type:         "invoice",
		AccountID:    f.CashID,
		InvoiceID:    invoiceID,
		Amount:       d(amount),
		Currency:     currency,
		ExchangeRate: d("90000"),
	})
}

func invoiceState(t *testing.T, f *apptest.Fixture, id string) *dto.InvoiceResponse {
	t.Helper()
	inv, err := f.Invoices.Get(f.Ctx, f.TenantID, id)
	require.NoError(t, err)
	return inv
}

// ──────────────────────────────────────────────────────────────────────────────
// Payment lifecycle
// ──────────────────────────────────────────────────────────────────────────────

func TestPayAndVoid_SettlesInvoiceAccountAndSupplier(t *testing.T) {
	f := apptest.New(t)
	f.Fund(t, f.CashID, "1000")
	supplier := f.Contact(t, "supplier", "Vendor")
	inv := f.Invoice(t, "purchase", supplier, "pending", "1", "200")

	first, err := pay(f, inv.ID, "50", "USD")
	require.NoError(t, err)
	assert.Equal(t, supplier, first.Contact.ID, "contact is taken from the invoice")
	assert.True(t, first.AmountLBP.Equal(d("4500000")))
	assert.Equal(t, "cash", first.Method)

	got := invoiceState(t, f, inv.ID)
	assert.Equal(t, "partial", got.Status)
	assert.True(t, got.Balance.Equal(d("150")))
	assert.True(t, f.Balance(t, f.CashID).Equal(d("950")))
	usd, lbp := f.ContactBalance(t, supplier)
	assert.True(t, usd.Equal(d("150")))
	assert.True(t, lbp.Equal(d("13500000")))

	second, err := pay(f, inv.ID, "150", "USD")
	require.NoError(t, err)
	assert.NotEqual(t, first.PaymentNumber, second.PaymentNumber)
	got = invoiceState(t, f, inv.ID)
	assert.Equal(t, "paid", got.Status)
	assert.True(t, got.Balance.IsZero())
	assert.True(t, f.Balance(t, f.CashID).Equal(d("800")))

	voided, err := f.Payments.Void(f.Ctx, f.TenantID, f.UserID, second.ID)
	require.NoError(t, err)
	assert.True(t, voided.Voided)
	got = invoiceState(t, f, inv.ID)
	assert.Equal(t, "partial", got.Status)
	assert.True(t, got.Balance.Equal(d("150")))
	assert.True(t, f.Balance(t, f.CashID).Equal(d("950")))
	usd, _ = f.ContactBalance(t, supplier)
	assert.True(t, usd.Equal(d("150")))

	_, err = f.Payments.Void(f.Ctx, f.TenantID, f.UserID, second.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.True(t, f.Balance(t, f.CashID).Equal(d("950")), "a rejected void moves nothing")

	rec, err := f.Ledger.Reconcile(f.Ctx, f.TenantID)
	require.NoError(t, err)
	assert.Empty(t, rec.Mismatches)
}

func TestCreate_OverpaymentRollsBackEverything(t *testing.T) {
	f := apptest.New(t)
	f.Fund(t, f.CashID, "1000")
	supplier := f.Contact(t, "supplier", "Vendor")
	inv := f.Invoice(t, "purchase", supplier, "pending", "1", "200")

	_, err := pay(f, inv.ID, "200.01", "USD")
	assert.ErrorIs(t, err, domain.ErrValidation)

	assert.True(t, f.Balance(t, f.CashID).Equal(d("1000")))
	got := invoiceState(t, f, inv.ID)
	assert.Equal(t, "pending", got.Status)
	usd, _ := f.ContactBalance(t, supplier)
	assert.True(t, usd.Equal(d("200")))

	list, err := f.Payments.List(f.Ctx, f.TenantID, dto.ListPaymentsRequest{IncludeVoided: true})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreate_InsufficientAccountBalance(t *testing.T) {
	f := apptest.New(t)
	f.Fund(t, f.CashID, "10")

	_, err := f.Payments.Create(f.Ctx, f.TenantID, f.UserID, dto.CreatePaymentRequest{
		Type: "expense", AccountID: f.CashID, Amount: d("20"), Currency: "USD",
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)
	assert.True(t, f.Balance(t, f.CashID).Equal(d("10")))
}

func TestCreate_DraftInvoiceRejectsPayments(t *testing.T) {
	f := apptest.New(t)
	f.Fund(t, f.CashID, "100")
	supplier := f.Contact(t, "supplier", "Vendor")
	inv := f.Invoice(t, "purchase", supplier, "", "1", "50")

	_, err := pay(f, inv.ID, "10", "USD")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestCreate_LBPPaymentAgainstUSDInvoice(t *testing.T) {
	f := apptest.New(t)
	f.Fund(t, f.CashID, "100")
	supplier := f.Contact(t, "supplier", "Vendor")
	inv := f.Invoice(t, "purchase", supplier, "pending", "1", "200")

	p, err := pay(f, inv.ID, "4500000", "LBP")
	require.NoError(t, err)
	assert.True(t, p.AccountAmount.Equal(d("50")))
	assert.True(t, p.AppliedAmount.Equal(d("50")))
	assert.True(t, f.Balance(t, f.CashID).Equal(d("50")))

	got := invoiceState(t, f, inv.ID)
	assert.True(t, got.Balance.Equal(d("150")))

	usd, lbp := f.ContactBalance(t, supplier)
	assert.True(t, usd.Equal(d("150")), usd.String())
	assert.True(t, lbp.Equal(d("13500000")), lbp.String())
}

func TestCreate_LBPPaymentSettlesUSDInvoiceOnBothLegs(t *testing.T) {
	f := apptest.New(t)
	f.Fund(t, f.CashID, "200")
	supplier := f.Contact(t, "supplier", "Vendor")
	inv := f.Invoice(t, "purchase", supplier, "pending", "1", "200")

	p, err := pay(f, inv.ID, "18000000", "LBP")
	require.NoError(t, err)

	got := invoiceState(t, f, inv.ID)
	assert.Equal(t, "paid", got.Status)
	assert.True(t, got.Balance.IsZero())

	usd, lbp := f.ContactBalance(t, supplier)
	assert.True(t, usd.IsZero(), usd.String())
	assert.True(t, lbp.IsZero(), lbp.String())

	_, err = f.Payments.Void(f.Ctx, f.TenantID, f.UserID, p.ID)
	require.NoError(t, err)
	usd, lbp = f.ContactBalance(t, supplier)
	assert.True(t, usd.Equal(d("200")), usd.String())
	assert.True(t, lbp.Equal(d("18000000")), lbp.String())
	assert.True(t, f.Balance(t, f.CashID).Equal(d("200")))
}

func TestCreate_RejectsSubCentAmounts(t *testing.T) {
	f := apptest.New(t)
	f.Fund(t, f.CashID, "100")
	supplier := f.Contact(t, "supplier", "Vendor")
	inv := f.Invoice(t, "purchase", supplier, "pending", "1", "200")

	_, err := pay(f, inv.ID, "10.005", "USD")
	assert.ErrorIs(t, err, domain.ErrValidation)

	assert.True(t, f.Balance(t, f.CashID).Equal(d("100")))
	got := invoiceState(t, f, inv.ID)
	assert.True(t, got.Balance.Equal(d("200")))
	assert.True(t, got.AmountPaid.IsZero())

	p, err := pay(f, inv.ID, "10.500", "USD")
	require.NoError(t, err, "trailing zeros are within precision")
	assert.True(t, p.Amount.Equal(d("10.5")))
}

func TestCreate_PaidInvoiceCannotBeCancelled(t *testing.T) {
	f := apptest.New(t)
	f.Fund(t, f.CashID, "100")
	supplier := f.Contact(t, "supplier", "Vendor")
	inv := f.Invoice(t, "purchase", supplier, "pending", "1", "30")

	_, err := pay(f, inv.ID, "10", "USD")
	require.NoError(t, err)
	_, err = f.Invoices.Cancel(f.Ctx, f.TenantID, inv.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

// ──────────────────────────────────────────────────────────────────────────────
// Type rules
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_TypeRules(t *testing.T) {
	f := apptest.New(t)
	f.Fund(t, f.CashID, "100")
	supplier := f.Contact(t, "supplier", "Vendor")

	cases := []struct {
		name string
		req  dto.CreatePaymentRequest
	}{
		{"invoice without invoice", dto.CreatePaymentRequest{Type: "invoice"}},
		{"advance without contact", dto.CreatePaymentRequest{Type: "advance"}},
		{"expense with contact", dto.CreatePaymentRequest{Type: "expense", ContactID: supplier}},
		{"unknown method", dto.CreatePaymentRequest{Type: "expense", Method: "barter"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := tc.req
			req.AccountID = f.CashID
			req.Amount = d("5")
			req.Currency = "USD"
			_, err := f.Payments.Create(f.Ctx, f.TenantID, f.UserID, req)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestCreate_AdvanceReducesContactBalance(t *testing.T) {
	f := apptest.New(t)
	f.Fund(t, f.CashID, "100")
	supplier := f.Contact(t, "supplier", "Vendor")

	p, err := f.Payments.Create(f.Ctx, f.TenantID, f.UserID, dto.CreatePaymentRequest{
		Type: "advance", AccountID: f.CashID, ContactID: supplier, Amount: d("25"), Currency: "USD",
	})
	require.NoError(t, err)
	assert.True(t, p.ExchangeRate.Equal(apptest.DefaultRate))

	usd, lbp := f.ContactBalance(t, supplier)
	assert.True(t, usd.Equal(d("-25")))
	assert.True(t, lbp.Equal(d("-2237500")))

	list, err := f.Payments.List(f.Ctx, f.TenantID, dto.ListPaymentsRequest{ContactID: supplier})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, p.ID, list[0].ID)
}
