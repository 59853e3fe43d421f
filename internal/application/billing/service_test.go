package billing_test

import (
	"testing"

	"github.com/jhoicas/ledger-api/internal/application/apptest"
	"github.com/jhoicas/ledger-api/internal/application/dto"
	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var d = apptest.D

// ──────────────────────────────────────────────────────────────────────────────
// Create / Update
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_PricesAndNumbersDraft(t *testing.T) {
	f := apptest.New(t)
	customer := f.Contact(t, "customer", "Walk-in")

	inv, err := f.Invoices.Create(f.Ctx, f.TenantID, f.UserID, dto.CreateInvoiceRequest{
		Type:          "sale",
		ContactID:     customer,
		Date:          "2026-03-10",
		Currency:      "USD",
		ExchangeRate:  d("90000"),
		DiscountType:  "percent",
		DiscountValue: d("10"),
		TaxRate:       d("11"),
		Items:         []dto.InvoiceItemRequest{{Description: "Widget", Quantity: d("2"), UnitPrice: d("75")}},
	})
	require.NoError(t, err)

	assert.Equal(t, "INV-2026-00001", inv.InternalNumber)
	assert.Equal(t, "draft", inv.Status)
	assert.True(t, inv.Subtotal.Equal(d("150")))
	assert.True(t, inv.DiscountAmount.Equal(d("15")))
	assert.True(t, inv.TaxAmount.Equal(d("14.85")))
	assert.True(t, inv.Total.Equal(d("149.85")))
	assert.True(t, inv.TotalLBP.Equal(d("13486500")))
	assert.True(t, inv.Balance.Equal(d("149.85")))
	require.NotNil(t, inv.Contact)
	assert.Equal(t, "Walk-in", inv.Contact.Name)

	second := f.Invoice(t, "sale", customer, "", "1", "1")
	assert.NotEqual(t, inv.InternalNumber, second.InternalNumber)
}

func TestCreate_RequiresMatchingContactRole(t *testing.T) {
	f := apptest.New(t)
	customer := f.Contact(t, "customer", "Buyer")

	_, err := f.Invoices.Create(f.Ctx, f.TenantID, f.UserID, dto.CreateInvoiceRequest{
		Type: "purchase", ContactID: customer, Currency: "USD",
		Items: []dto.InvoiceItemRequest{{Quantity: d("1"), UnitPrice: d("5")}},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.Invoices.Create(f.Ctx, f.TenantID, f.UserID, dto.CreateInvoiceRequest{
		Type: "purchase", Currency: "USD",
		Items: []dto.InvoiceItemRequest{{Quantity: d("1"), UnitPrice: d("5")}},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreate_ExpenseNeedsNoContact(t *testing.T) {
	f := apptest.New(t)
	inv := f.Invoice(t, "expense", "", "pending", "1", "40")
	assert.Equal(t, "pending", inv.Status)
	assert.Nil(t, inv.Contact)
}

func TestUpdate_OnlyDrafts(t *testing.T) {
	f := apptest.New(t)
	supplier := f.Contact(t, "supplier", "Vendor")
	inv := f.Invoice(t, "purchase", supplier, "", "1", "100")

	tax := d("10")
	updated, err := f.Invoices.Update(f.Ctx, f.TenantID, inv.ID, dto.UpdateInvoiceRequest{TaxRate: &tax})
	require.NoError(t, err)
	assert.True(t, updated.Total.Equal(d("110")))
	require.Len(t, updated.Items, 1)

	got, err := f.Invoices.Get(f.Ctx, f.TenantID, inv.ID)
	require.NoError(t, err)
	assert.True(t, got.Total.Equal(d("110")))
	require.Len(t, got.Items, 1)
	assert.Equal(t, updated.Items[0].ID, got.Items[0].ID)

	_, err = f.Invoices.Confirm(f.Ctx, f.TenantID, inv.ID)
	require.NoError(t, err)
	_, err = f.Invoices.Update(f.Ctx, f.TenantID, inv.ID, dto.UpdateInvoiceRequest{TaxRate: &tax})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.ErrorIs(t, f.Invoices.Delete(f.Ctx, f.TenantID, inv.ID), domain.ErrInvalidState)
}

func TestDelete_HidesDraft(t *testing.T) {
	f := apptest.New(t)
	supplier := f.Contact(t, "supplier", "Vendor")
	inv := f.Invoice(t, "purchase", supplier, "", "1", "100")

	require.NoError(t, f.Invoices.Delete(f.Ctx, f.TenantID, inv.ID))
	_, err := f.Invoices.Get(f.Ctx, f.TenantID, inv.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	next := f.Invoice(t, "purchase", supplier, "", "1", "100")
	assert.NotEqual(t, inv.InternalNumber, next.InternalNumber)
}

// ──────────────────────────────────────────────────────────────────────────────
// Confirm / Cancel
// ──────────────────────────────────────────────────────────────────────────────

func TestConfirmThenCancel_RestoresSupplierAndStock(t *testing.T) {
	f := apptest.New(t)
	supplier := f.Contact(t, "supplier", "Vendor")
	product := f.Product(t, "Rice 5kg")

	inv, err := f.Invoices.Create(f.Ctx, f.TenantID, f.UserID, dto.CreateInvoiceRequest{
		Type: "purchase", ContactID: supplier, Currency: "USD", ExchangeRate: d("90000"),
		Items: []dto.InvoiceItemRequest{{ProductID: product, Quantity: d("10"), UnitPrice: d("20")}},
	})
	require.NoError(t, err)
	usd, lbp := f.ContactBalance(t, supplier)
	assert.True(t, usd.IsZero(), "drafts have no effect")
	assert.True(t, lbp.IsZero())

	_, err = f.Invoices.Confirm(f.Ctx, f.TenantID, inv.ID)
	require.NoError(t, err)
	usd, lbp = f.ContactBalance(t, supplier)
	assert.True(t, usd.Equal(d("200")))
	assert.True(t, lbp.Equal(d("18000000")))
	p, err := f.Products.GetByID(f.Ctx, f.TenantID, product)
	require.NoError(t, err)
	assert.True(t, p.Stock.Equal(d("10")))
	assert.True(t, p.CostPrice.Equal(d("20")))

	_, err = f.Invoices.Confirm(f.Ctx, f.TenantID, inv.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	cancelled, err := f.Invoices.Cancel(f.Ctx, f.TenantID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", cancelled.Status)
	usd, lbp = f.ContactBalance(t, supplier)
	assert.True(t, usd.IsZero())
	assert.True(t, lbp.IsZero())
	p, err = f.Products.GetByID(f.Ctx, f.TenantID, product)
	require.NoError(t, err)
	assert.True(t, p.Stock.IsZero())

	_, err = f.Invoices.Cancel(f.Ctx, f.TenantID, inv.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestConfirm_SaleLeavesContactBalance(t *testing.T) {
	f := apptest.New(t)
	customer := f.Contact(t, "customer", "Buyer")
	f.Invoice(t, "sale", customer, "pending", "1", "80")

	usd, lbp := f.ContactBalance(t, customer)
	assert.True(t, usd.IsZero())
	assert.True(t, lbp.IsZero())
}

func TestList_FiltersByStatusAndTenant(t *testing.T) {
	f := apptest.New(t)
	supplier := f.Contact(t, "supplier", "Vendor")
	f.Invoice(t, "purchase", supplier, "", "1", "10")
	f.Invoice(t, "purchase", supplier, "pending", "1", "20")

	pending, err := f.Invoices.List(f.Ctx, f.TenantID, dto.ListInvoicesRequest{Status: "pending"})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.True(t, pending[0].Total.Equal(d("20")))

	other, err := f.Tenants.Onboard(f.Ctx, dto.OnboardTenantRequest{Name: "Other", Slug: "other"})
	require.NoError(t, err)
	list, err := f.Invoices.List(f.Ctx, other.ID, dto.ListInvoicesRequest{})
	require.NoError(t, err)
	assert.Empty(t, list)
}
