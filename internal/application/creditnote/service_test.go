package creditnote_test

import (
	"testing"

	"github.com/jhoicas/ledger-api/internal/application/apptest"
	"github.com/jhoicas/ledger-api/internal/application/dto"
	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var d = apptest.D

func note(t *testing.T, f *apptest.Fixture, typ, contactID, contactType, amount string) *dto.CreditNoteResponse {
	t.Helper()
	n, err := f.CreditNotes.Create(f.Ctx, f.TenantID, f.UserID, dto.CreateCreditNoteRequest{
		Type:        typ,
		ContactID:   contactID,
		ContactType: contactType,
		Currency:    "USD",
		Reason:      "returned goods",
		Items:       []dto.InvoiceItemRequest{{Description: "return", Quantity: d("1"), UnitPrice: d(amount)}},
	})
	require.NoError(t, err)
	return n
}

// ──────────────────────────────────────────────────────────────────────────────
// Issue / Cancel
// ──────────────────────────────────────────────────────────────────────────────

func TestIssueAndCancel_DebitNoteIsSymmetric(t *testing.T) {
	f := apptest.New(t)
	supplier := f.Contact(t, "supplier", "Vendor")
	n := note(t, f, "debit", supplier, "supplier", "40")
	assert.Equal(t, "draft", n.Status)
	assert.Contains(t, n.Number, "DN-")

	issued, err := f.CreditNotes.Issue(f.Ctx, f.TenantID, n.ID)
	require.NoError(t, err)
	assert.Equal(t, "issued", issued.Status)
	usd, lbp := f.ContactBalance(t, supplier)
	assert.True(t, usd.Equal(d("40")))
	assert.True(t, lbp.Equal(d("3580000")))

	_, err = f.CreditNotes.Issue(f.Ctx, f.TenantID, n.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	cancelled, err := f.CreditNotes.Cancel(f.Ctx, f.TenantID, n.ID, "entered twice")
	require.NoError(t, err)
	assert.Equal(t, "cancelled", cancelled.Status)
	assert.Equal(t, "entered twice", cancelled.CancellationReason)
	usd, lbp = f.ContactBalance(t, supplier)
	assert.True(t, usd.IsZero())
	assert.True(t, lbp.IsZero())
}

func TestCancel_DraftLeavesBalance(t *testing.T) {
	f := apptest.New(t)
	customer := f.Contact(t, "customer", "Buyer")
	n := note(t, f, "credit", customer, "customer", "10")

	_, err := f.CreditNotes.Cancel(f.Ctx, f.TenantID, n.ID, "")
	require.NoError(t, err)
	usd, _ := f.ContactBalance(t, customer)
	assert.True(t, usd.IsZero())
}

func TestCreate_ContactRoleMustMatch(t *testing.T) {
	f := apptest.New(t)
	supplier := f.Contact(t, "supplier", "Vendor")
	_, err := f.CreditNotes.Create(f.Ctx, f.TenantID, f.UserID, dto.CreateCreditNoteRequest{
		Type: "credit", ContactID: supplier, ContactType: "customer", Currency: "USD",
		Items: []dto.InvoiceItemRequest{{Quantity: d("1"), UnitPrice: d("5")}},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDelete_OnlyDrafts(t *testing.T) {
	f := apptest.New(t)
	customer := f.Contact(t, "customer", "Buyer")
	draft := note(t, f, "credit", customer, "customer", "10")
	require.NoError(t, f.CreditNotes.Delete(f.Ctx, f.TenantID, draft.ID))
	_, err := f.CreditNotes.Get(f.Ctx, f.TenantID, draft.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	issued := note(t, f, "credit", customer, "customer", "10")
	_, err = f.CreditNotes.Issue(f.Ctx, f.TenantID, issued.ID)
	require.NoError(t, err)
	assert.ErrorIs(t, f.CreditNotes.Delete(f.Ctx, f.TenantID, issued.ID), domain.ErrInvalidState)
}

// ──────────────────────────────────────────────────────────────────────────────
// Apply
// ──────────────────────────────────────────────────────────────────────────────

func TestApply_AllocatesUntilExhausted(t *testing.T) {
	f := apptest.New(t)
	customer := f.Contact(t, "customer", "Buyer")
	inv := f.Invoice(t, "sale", customer, "pending", "1", "100")
	n := note(t, f, "credit", customer, "customer", "30")

	_, err := f.CreditNotes.Apply(f.Ctx, f.TenantID, f.UserID, n.ID, dto.ApplyCreditNoteRequest{InvoiceID: inv.ID, Amount: d("5")})
	assert.ErrorIs(t, err, domain.ErrInvalidState, "drafts cannot be applied")

	_, err = f.CreditNotes.Issue(f.Ctx, f.TenantID, n.ID)
	require.NoError(t, err)

	applied, err := f.CreditNotes.Apply(f.Ctx, f.TenantID, f.UserID, n.ID, dto.ApplyCreditNoteRequest{InvoiceID: inv.ID, Amount: d("20")})
	require.NoError(t, err)
	assert.Equal(t, "issued", applied.Status)
	assert.True(t, applied.UnappliedAmount.Equal(d("10")))
	require.Len(t, applied.Allocations, 1)

	got, err := f.Invoices.Get(f.Ctx, f.TenantID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "partial", got.Status)
	assert.True(t, got.Balance.Equal(d("80")))

	_, err = f.CreditNotes.Apply(f.Ctx, f.TenantID, f.UserID, n.ID, dto.ApplyCreditNoteRequest{InvoiceID: inv.ID, Amount: d("15")})
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)

	applied, err = f.CreditNotes.Apply(f.Ctx, f.TenantID, f.UserID, n.ID, dto.ApplyCreditNoteRequest{InvoiceID: inv.ID, Amount: d("10")})
	require.NoError(t, err)
	assert.Equal(t, "applied", applied.Status)
	assert.True(t, applied.UnappliedAmount.IsZero())
	assert.Len(t, applied.Allocations, 2)

	_, err = f.CreditNotes.Cancel(f.Ctx, f.TenantID, n.ID, "too late")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestApply_CannotExceedInvoiceBalance(t *testing.T) {
	f := apptest.New(t)
	customer := f.Contact(t, "customer", "Buyer")
	inv := f.Invoice(t, "sale", customer, "pending", "1", "10")
	n := note(t, f, "credit", customer, "customer", "30")
	_, err := f.CreditNotes.Issue(f.Ctx, f.TenantID, n.ID)
	require.NoError(t, err)

	_, err = f.CreditNotes.Apply(f.Ctx, f.TenantID, f.UserID, n.ID, dto.ApplyCreditNoteRequest{InvoiceID: inv.ID, Amount: d("11")})
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)

	got, err := f.CreditNotes.Get(f.Ctx, f.TenantID, n.ID)
	require.NoError(t, err)
	assert.True(t, got.UnappliedAmount.Equal(d("30")))
	assert.Empty(t, got.Allocations)
}

func TestApply_RejectsSubCentAmount(t *testing.T) {
	f := apptest.New(t)
	customer := f.Contact(t, "customer", "Buyer")
	inv := f.Invoice(t, "sale", customer, "pending", "1", "10")
	n := note(t, f, "credit", customer, "customer", "5")
	_, err := f.CreditNotes.Issue(f.Ctx, f.TenantID, n.ID)
	require.NoError(t, err)

	_, err = f.CreditNotes.Apply(f.Ctx, f.TenantID, f.UserID, n.ID, dto.ApplyCreditNoteRequest{InvoiceID: inv.ID, Amount: d("2.505")})
	assert.ErrorIs(t, err, domain.ErrValidation)

	got, err := f.CreditNotes.Get(f.Ctx, f.TenantID, n.ID)
	require.NoError(t, err)
	assert.True(t, got.UnappliedAmount.Equal(d("5")))
}

func TestApply_RejectsOtherContactAndDebitNotes(t *testing.T) {
	f := apptest.New(t)
	customer := f.Contact(t, "customer", "Buyer")
	other := f.Contact(t, "customer", "Someone else")
	inv := f.Invoice(t, "sale", other, "pending", "1", "50")
	n := note(t, f, "credit", customer, "customer", "30")
	_, err := f.CreditNotes.Issue(f.Ctx, f.TenantID, n.ID)
	require.NoError(t, err)

	_, err = f.CreditNotes.Apply(f.Ctx, f.TenantID, f.UserID, n.ID, dto.ApplyCreditNoteRequest{InvoiceID: inv.ID, Amount: d("5")})
	assert.ErrorIs(t, err, domain.ErrValidation)

	supplier := f.Contact(t, "supplier", "Vendor")
	purchase := f.Invoice(t, "purchase", supplier, "pending", "1", "50")
	debit := note(t, f, "debit", supplier, "supplier", "5")
	_, err = f.CreditNotes.Issue(f.Ctx, f.TenantID, debit.ID)
	require.NoError(t, err)
	_, err = f.CreditNotes.Apply(f.Ctx, f.TenantID, f.UserID, debit.ID, dto.ApplyCreditNoteRequest{InvoiceID: purchase.ID, Amount: d("5")})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
