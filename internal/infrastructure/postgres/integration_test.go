package postgres_test

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/ledger-api/internal/application/apptest"
	"github.com/jhoicas/ledger-api/internal/application/dto"
	"github.com/jhoicas/ledger-api/internal/application/numbering"
	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
	"github.com/jhoicas/ledger-api/internal/infrastructure/postgres"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

var d = apptest.D

func newTenant(t *testing.T, db *testDB) *apptest.Fixture {
	t.Helper()
	return apptest.NewWith(t, db.tx, "t-"+uuid.NewString()[:8])
}

// ──────────────────────────────────────────────────────────────────────────────
// Migrations
// ──────────────────────────────────────────────────────────────────────────────

func TestMigrator_UpIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	m, err := postgres.NewMigrator(db.dsn, zerolog.Nop())
	require.NoError(t, err)
	defer m.Close()

	require.NoError(t, m.Up(), "no pending migrations is not an error")
	version, dirty, err := m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)
	assert.False(t, dirty)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tenant isolation and transactions
// ──────────────────────────────────────────────────────────────────────────────

func TestRepos_TenantIsolation(t *testing.T) {
	db := newTestDB(t)
	a := newTenant(t, db)
	b := newTenant(t, db)
	ctx := context.Background()

	_, err := db.tx.Repos(b.TenantID).Accounts.GetByID(ctx, a.CashID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = db.tx.Repos(a.TenantID).Accounts.GetByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, domain.ErrNotFound, "malformed ids behave like missing rows")

	supplier := a.Contact(t, "supplier", "Vendor")
	_, err = b.Contacts.Get(ctx, b.TenantID, supplier)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := b.Contacts.List(ctx, b.TenantID, dto.ListContactsRequest{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestTxRunner_RollsBackOnError(t *testing.T) {
	db := newTestDB(t)
	f := newTenant(t, db)
	ctx := context.Background()
	boom := errors.New("boom")

	var number string
	err := db.tx.Run(ctx, f.TenantID, func(r repository.Repos) error {
		n, err := numbering.Next(ctx, r.Sequences, entity.DocCreditNote, time.Now())
		require.NoError(t, err)
		number = n
		return boom
	})
	require.ErrorIs(t, err, boom)

	again, err := numbering.NewSequencer(db.tx).Next(ctx, f.TenantID, entity.DocCreditNote)
	require.NoError(t, err)
	assert.Equal(t, number, again, "a rolled-back number is issued again")
}

func TestTenants_DuplicateSlugConflicts(t *testing.T) {
	db := newTestDB(t)
	f := newTenant(t, db)
	tenant, err := f.Tenants.Onboard(f.Ctx, dto.OnboardTenantRequest{Name: "Other", Slug: "dup-" + f.TenantID[:8]})
	require.NoError(t, err)

	_, err = f.Tenants.Onboard(f.Ctx, dto.OnboardTenantRequest{Name: "Other", Slug: tenant.Slug})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.NotContains(t, err.Error(), "SQLSTATE")
}

func TestCheckViolation_IsValidationWithoutSchemaNames(t *testing.T) {
	db := newTestDB(t)
	f := newTenant(t, db)

	err := db.tx.Repos(f.TenantID).Accounts.UpdateBalance(f.Ctx, f.CashID, d("-1"))
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.NotContains(t, err.Error(), "current_balance")
	assert.NotContains(t, err.Error(), "SQLSTATE")
	assert.True(t, f.Balance(t, f.CashID).IsZero())
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrency
// ──────────────────────────────────────────────────────────────────────────────

func TestSequencer_ConcurrentCallersGetGapFreeNumbers(t *testing.T) {
	db := newTestDB(t)
	f := newTenant(t, db)
	seq := numbering.NewSequencer(db.tx)

	const n = 50
	numbers := make([]string, n)
	g, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			num, err := seq.Next(ctx, f.TenantID, entity.DocPayment)
			numbers[i] = num
			return err
		})
	}
	require.NoError(t, g.Wait())

	sort.Strings(numbers)
	year := time.Now().UTC().Year()
	for i, num := range numbers {
		assert.Equal(t, entity.FormatDocumentNumber("PAY", year, int64(i+1)), num)
	}
}

func TestLedger_ConcurrentMovementsReconcile(t *testing.T) {
	db := newTestDB(t)
	f := newTenant(t, db)
	f.Fund(t, f.CashID, "100")

	var g errgroup.Group
	for i := 0; i < 30; i++ {
		i := i
		g.Go(func() error {
			var err error
			switch i % 3 {
			case 0:
				_, err = f.Ledger.Transfer(f.Ctx, f.TenantID, f.UserID, dto.TransferRequest{
					FromAccountID: f.CashID, ToAccountID: f.BankID, Amount: d("2"),
				})
			case 1:
				_, err = f.Ledger.Transfer(f.Ctx, f.TenantID, f.UserID, dto.TransferRequest{
					FromAccountID: f.BankID, ToAccountID: f.CashID, Amount: d("1"),
				})
			default:
				_, err = f.Ledger.CreateMovement(f.Ctx, f.TenantID, f.UserID, dto.CreateMovementRequest{
					AccountID: f.CashID, Type: "in", Amount: d("0.50"), ReferenceType: "adjustment",
				})
			}
			if errors.Is(err, domain.ErrInsufficientBalance) {
				return nil
			}
			return err
		})
	}
	require.NoError(t, g.Wait())

	total := f.Balance(t, f.CashID).Add(f.Balance(t, f.BankID))
	assert.True(t, total.Equal(d("105")), "transfers conserve money, got %s", total)
	rec, err := f.Ledger.Reconcile(f.Ctx, f.TenantID)
	require.NoError(t, err)
	assert.Empty(t, rec.Mismatches)
}

// ──────────────────────────────────────────────────────────────────────────────
// Document flows
// ──────────────────────────────────────────────────────────────────────────────

func TestPurchasePaymentAndVoid(t *testing.T) {
	db := newTestDB(t)
	f := newTenant(t, db)
	f.Fund(t, f.CashID, "1000")
	supplier := f.Contact(t, "supplier", "Vendor")
	product := f.Product(t, "Widget")

	inv, err := f.Invoices.Create(f.Ctx, f.TenantID, f.UserID, dto.CreateInvoiceRequest{
		Type:         "purchase",
		ContactID:    supplier,
		Currency:     "USD",
		ExchangeRate: d("90000"),
		Status:       "pending",
		Items:        []dto.InvoiceItemRequest{{ProductID: product, Description: "widgets", Quantity: d("10"), UnitPrice: d("20")}},
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", inv.Status)
	require.Len(t, inv.Items, 1)

	p, err := f.Products.GetByID(f.Ctx, f.TenantID, product)
	require.NoError(t, err)
	assert.True(t, p.Stock.Equal(d("10")))

	payment, err := f.Payments.Create(f.Ctx, f.TenantID, f.UserID, dto.CreatePaymentRequest{
		Type: "invoice", AccountID: f.CashID, InvoiceID: inv.ID,
		Amount: d("80"), Currency: "USD", ExchangeRate: d("90000"),
	})
	require.NoError(t, err)

	got, err := f.Invoices.Get(f.Ctx, f.TenantID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "partial", got.Status)
	assert.True(t, got.AmountPaid.Equal(d("80")))
	assert.Equal(t, "Vendor", got.Contact.Name)
	assert.True(t, f.Balance(t, f.CashID).Equal(d("920")))
	usd, lbp := f.ContactBalance(t, supplier)
	assert.True(t, usd.Equal(d("120")))
	assert.True(t, lbp.Equal(d("10800000")))

	_, err = f.Payments.Void(f.Ctx, f.TenantID, f.UserID, payment.ID)
	require.NoError(t, err)
	_, err = f.Payments.Void(f.Ctx, f.TenantID, f.UserID, payment.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	got, err = f.Invoices.Get(f.Ctx, f.TenantID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "pending", got.Status)
	assert.True(t, f.Balance(t, f.CashID).Equal(d("1000")))

	_, err = f.Invoices.Cancel(f.Ctx, f.TenantID, inv.ID)
	require.NoError(t, err)
	usd, lbp = f.ContactBalance(t, supplier)
	assert.True(t, usd.IsZero())
	assert.True(t, lbp.IsZero())
	p, err = f.Products.GetByID(f.Ctx, f.TenantID, product)
	require.NoError(t, err)
	assert.True(t, p.Stock.IsZero())

	payments, err := f.Payments.List(f.Ctx, f.TenantID, dto.ListPaymentsRequest{InvoiceID: inv.ID, IncludeVoided: true})
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.True(t, payments[0].Voided)
}

func TestOverpaymentRollsBackEverything(t *testing.T) {
	db := newTestDB(t)
	f := newTenant(t, db)
	f.Fund(t, f.CashID, "1000")
	supplier := f.Contact(t, "supplier", "Vendor")
	inv := f.Invoice(t, "purchase", supplier, "pending", "1", "100")

	_, err := f.Payments.Create(f.Ctx, f.TenantID, f.UserID, dto.CreatePaymentRequest{
		Type: "invoice", AccountID: f.CashID, InvoiceID: inv.ID,
		Amount: d("100.01"), Currency: "USD", ExchangeRate: d("90000"),
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.True(t, f.Balance(t, f.CashID).Equal(d("1000")))

	movements, err := f.Ledger.ListMovements(f.Ctx, f.TenantID, f.CashID, dto.ListMovementsRequest{})
	require.NoError(t, err)
	assert.Len(t, movements, 1, "only the funding movement exists")
}

func TestMixedPaymentsAndVoidsReconcile(t *testing.T) {
	db := newTestDB(t)
	f := newTenant(t, db)
	f.Fund(t, f.CashID, "500")
	supplier := f.Contact(t, "supplier", "Vendor")
	inv := f.Invoice(t, "purchase", supplier, "pending", "3", "66.67")

	pay := func(amount, currency string) (*dto.PaymentResponse, error) {
		return f.Payments.Create(f.Ctx, f.TenantID, f.UserID, dto.CreatePaymentRequest{
			Type: "invoice", AccountID: f.CashID, InvoiceID: inv.ID,
			Amount: d(amount), Currency: currency, ExchangeRate: d("90000"),
		})
	}

	_, err := pay("10.005", "USD")
	assert.ErrorIs(t, err, domain.ErrValidation)

	first, err := pay("33.33", "USD")
	require.NoError(t, err)
	second, err := pay("1000000", "LBP")
	require.NoError(t, err)
	assert.True(t, second.AppliedAmount.Equal(d("11.11")))
	_, err = pay("0.99", "USD")
	require.NoError(t, err)

	_, err = f.Payments.Void(f.Ctx, f.TenantID, f.UserID, first.ID)
	require.NoError(t, err)
	_, err = f.Payments.Void(f.Ctx, f.TenantID, f.UserID, second.ID)
	require.NoError(t, err)

	got, err := f.Invoices.Get(f.Ctx, f.TenantID, inv.ID)
	require.NoError(t, err)
	assert.True(t, got.Total.Equal(d("200.01")))
	assert.True(t, got.AmountPaid.Equal(d("0.99")))
	assert.True(t, got.Balance.Add(got.AmountPaid).Equal(got.Total))
	assert.True(t, f.Balance(t, f.CashID).Equal(d("499.01")))

	usd, lbp := f.ContactBalance(t, supplier)
	assert.True(t, usd.Equal(d("199.02")), usd.String())
	assert.True(t, lbp.Equal(d("17911800")), lbp.String())

	rec, err := f.Ledger.Reconcile(f.Ctx, f.TenantID)
	require.NoError(t, err)
	assert.Empty(t, rec.Mismatches)
}

func TestCreditNoteApplyPersistsAllocations(t *testing.T) {
	db := newTestDB(t)
	f := newTenant(t, db)
	customer := f.Contact(t, "customer", "Client")
	inv := f.Invoice(t, "sale", customer, "pending", "1", "100")

	note, err := f.CreditNotes.Create(f.Ctx, f.TenantID, f.UserID, dto.CreateCreditNoteRequest{
		Type:              "credit",
		ContactID:         customer,
		ContactType:       "customer",
		OriginalInvoiceID: inv.ID,
		Currency:          "USD",
		ExchangeRate:      d("90000"),
		Items:             []dto.InvoiceItemRequest{{Description: "return", Quantity: d("1"), UnitPrice: d("30")}},
	})
	require.NoError(t, err)
	_, err = f.CreditNotes.Issue(f.Ctx, f.TenantID, note.ID)
	require.NoError(t, err)

	for _, amount := range []string{"10", "20"} {
		_, err = f.CreditNotes.Apply(f.Ctx, f.TenantID, f.UserID, note.ID, dto.ApplyCreditNoteRequest{InvoiceID: inv.ID, Amount: d(amount)})
		require.NoError(t, err)
	}

	got, err := f.CreditNotes.Get(f.Ctx, f.TenantID, note.ID)
	require.NoError(t, err)
	assert.Equal(t, "applied", got.Status)
	assert.True(t, got.UnappliedAmount.IsZero())
	require.Len(t, got.Allocations, 2)
	sum := decimal.Zero
	for _, a := range got.Allocations {
		sum = sum.Add(a.Amount)
	}
	assert.True(t, sum.Equal(d("30")))

	invoice, err := f.Invoices.Get(f.Ctx, f.TenantID, inv.ID)
	require.NoError(t, err)
	assert.True(t, invoice.Balance.Equal(d("70")))

	_, err = f.CreditNotes.Cancel(f.Ctx, f.TenantID, note.ID, "late")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}
