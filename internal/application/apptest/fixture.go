// Package apptest wires every application service over a TxRunner (the in-memory
// store by default) for use in tests.
package apptest

import (
	"context"
	"testing"

	"github.com/jhoicas/ledger-api/internal/application/billing"
	"github.com/jhoicas/ledger-api/internal/application/contact"
	"github.com/jhoicas/ledger-api/internal/application/creditnote"
	"github.com/jhoicas/ledger-api/internal/application/dto"
	"github.com/jhoicas/ledger-api/internal/application/ledger"
	"github.com/jhoicas/ledger-api/internal/application/payment"
	"github.com/jhoicas/ledger-api/internal/application/ports"
	"github.com/jhoicas/ledger-api/internal/application/usecase"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/infrastructure/memory"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// DefaultRate is the fallback USD/LBP rate the fixture services use.
var DefaultRate = decimal.NewFromInt(89500)

// Fixture is one onboarded tenant plus the services bound to its store.
type Fixture struct {
	Ctx      context.Context
	Tx       ports.TxRunner
	TenantID string
	UserID   string
	CashID   string
	BankID   string

	Tenants     *usecase.TenantUseCase
	Products    *usecase.ProductUseCase
	Ledger      *ledger.Service
	Contacts    *contact.Service
	Invoices    *billing.Service
	Payments    *payment.Service
	CreditNotes *creditnote.Service
}

// New onboards tenant "acme" with default USD cash and bank accounts over a
// fresh in-memory store.
func New(t *testing.T) *Fixture {
	t.Helper()
	return NewWith(t, memory.NewStore(), "acme")
}

// NewWith onboards tenant slug over tx. Callers sharing one database pass
// distinct slugs.
func NewWith(t *testing.T, tx ports.TxRunner, slug string) *Fixture {
	t.Helper()
	log := zerolog.Nop()
	f := &Fixture{
		Ctx:         context.Background(),
		Tx:          tx,
		UserID:      "user-1",
		Tenants:     usecase.NewTenantUseCase(tx, log, entity.CurrencyUSD),
		Products:    usecase.NewProductUseCase(tx),
		Ledger:      ledger.NewService(tx, log),
		Contacts:    contact.NewService(tx),
		Invoices:    billing.NewService(tx, log, DefaultRate),
		Payments:    payment.NewService(tx, log, DefaultRate),
		CreditNotes: creditnote.NewService(tx, log, DefaultRate),
	}
	tenant, err := f.Tenants.Onboard(f.Ctx, dto.OnboardTenantRequest{Name: slug, Slug: slug})
	require.NoError(t, err)
	f.TenantID = tenant.ID
	f.CashID = tenant.Accounts[0].ID
	f.BankID = tenant.Accounts[1].ID
	return f
}

// D parses a decimal literal.
func D(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// Fund books an adjustment into accountID.
func (f *Fixture) Fund(t *testing.T, accountID, amount string) {
	t.Helper()
	_, err := f.Ledger.Adjust(f.Ctx, f.TenantID, f.UserID, accountID, dto.AdjustAccountRequest{
		Type: "in", Amount: D(amount), Description: "funding",
	})
	require.NoError(t, err)
}

// Balance returns the current balance of accountID.
func (f *Fixture) Balance(t *testing.T, accountID string) decimal.Decimal {
	t.Helper()
	acc, err := f.Ledger.GetAccount(f.Ctx, f.TenantID, accountID)
	require.NoError(t, err)
	return acc.CurrentBalance
}

// Contact creates a contact of the given type.
func (f *Fixture) Contact(t *testing.T, typ, name string) string {
	t.Helper()
	c, err := f.Contacts.Create(f.Ctx, f.TenantID, dto.CreateContactRequest{Type: typ, Name: name})
	require.NoError(t, err)
	return c.ID
}

// ContactBalance returns the USD and LBP balances of contactID.
func (f *Fixture) ContactBalance(t *testing.T, contactID string) (usd, lbp decimal.Decimal) {
	t.Helper()
	c, err := f.Contacts.Get(f.Ctx, f.TenantID, contactID)
	require.NoError(t, err)
	return c.BalanceUSD, c.BalanceLBP
}

// Product creates a product with zero stock.
func (f *Fixture) Product(t *testing.T, name string) string {
	t.Helper()
	p, err := f.Products.Create(f.Ctx, f.TenantID, dto.CreateProductRequest{Name: name, Price: D("0")})
	require.NoError(t, err)
	return p.ID
}

// Invoice creates an invoice of one line priced qty x price in USD at rate 90000.
func (f *Fixture) Invoice(t *testing.T, typ, contactID, status, qty, price string) *dto.InvoiceResponse {
	t.Helper()
	inv, err := f.Invoices.Create(f.Ctx, f.TenantID, f.UserID, dto.CreateInvoiceRequest{
		Type:         typ,
		ContactID:    contactID,
		Currency:     "USD",
		ExchangeRate: D("90000"),
		Status:       status,
		Items:        []dto.InvoiceItemRequest{{Description: "line", Quantity: D(qty), UnitPrice: D(price)}},
	})
	require.NoError(t, err)
	return inv
}
