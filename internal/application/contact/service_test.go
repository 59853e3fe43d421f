package contact_test

import (
	"testing"

	"github.com/jhoicas/ledger-api/internal/application/apptest"
	"github.com/jhoicas/ledger-api/internal/application/contact"
	"github.com/jhoicas/ledger-api/internal/application/dto"
	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/accounting"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ──────────────────────────────────────────────────────────────────────────────
// Create / List
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_StartsAtZero(t *testing.T) {
	f := apptest.New(t)

	c, err := f.Contacts.Create(f.Ctx, f.TenantID, dto.CreateContactRequest{
		Type: "customer", Name: "  Nadia  ", NameAr: "نادية", Phone: "+961 1 000000",
	})
	require.NoError(t, err)
	assert.Equal(t, "Nadia", c.Name)
	assert.True(t, c.BalanceUSD.IsZero())
	assert.True(t, c.BalanceLBP.IsZero())
}

func TestCreate_RejectsBadInput(t *testing.T) {
	f := apptest.New(t)

	_, err := f.Contacts.Create(f.Ctx, f.TenantID, dto.CreateContactRequest{Type: "partner", Name: "X"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.Contacts.Create(f.Ctx, f.TenantID, dto.CreateContactRequest{Type: "supplier", Name: "   "})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestList_BothAppearsInEitherRole(t *testing.T) {
	f := apptest.New(t)
	f.Contact(t, "supplier", "Alpha")
	f.Contact(t, "customer", "Beta")
	f.Contact(t, "both", "Gamma")

	suppliers, err := f.Contacts.List(f.Ctx, f.TenantID, dto.ListContactsRequest{Type: "supplier"})
	require.NoError(t, err)
	require.Len(t, suppliers, 2)
	assert.Equal(t, "Alpha", suppliers[0].Name)
	assert.Equal(t, "Gamma", suppliers[1].Name)

	all, err := f.Contacts.List(f.Ctx, f.TenantID, dto.ListContactsRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestGet_OtherTenantIsNotFound(t *testing.T) {
	f := apptest.New(t)
	id := f.Contact(t, "customer", "Beta")

	_, err := f.Contacts.Get(f.Ctx, "another-tenant", id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Balance helpers
// ──────────────────────────────────────────────────────────────────────────────

func TestAdjustBalance_AccumulatesBothLegs(t *testing.T) {
	f := apptest.New(t)
	id := f.Contact(t, "supplier", "Alpha")
	repo := f.Tx.Repos(f.TenantID).Contacts

	delta := accounting.Legs(entity.CurrencyUSD, apptest.D("10"), apptest.D("900000"))
	require.NoError(t, contact.AdjustBalance(f.Ctx, repo, id, delta))
	require.NoError(t, contact.AdjustBalance(f.Ctx, repo, id, delta))
	require.NoError(t, contact.AdjustBalance(f.Ctx, repo, id, delta.Neg()))

	usd, lbp := f.ContactBalance(t, id)
	assert.True(t, usd.Equal(apptest.D("10")), usd.String())
	assert.True(t, lbp.Equal(apptest.D("900000")), lbp.String())
}

func TestAdjustBalance_NoContactIsNoop(t *testing.T) {
	f := apptest.New(t)
	repo := f.Tx.Repos(f.TenantID).Contacts

	delta := accounting.Legs(entity.CurrencyUSD, apptest.D("10"), apptest.D("900000"))
	assert.NoError(t, contact.AdjustBalance(f.Ctx, repo, "", delta))
}

func TestRequireRole(t *testing.T) {
	f := apptest.New(t)
	repo := f.Tx.Repos(f.TenantID).Contacts
	supplier := f.Contact(t, "supplier", "Alpha")
	both := f.Contact(t, "both", "Gamma")

	_, err := contact.RequireRole(f.Ctx, repo, supplier, entity.ContactTypeCustomer)
	assert.ErrorIs(t, err, domain.ErrValidation)

	c, err := contact.RequireRole(f.Ctx, repo, both, entity.ContactTypeCustomer)
	require.NoError(t, err)
	assert.Equal(t, "Gamma", c.Name)
}
