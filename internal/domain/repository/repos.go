// Package repository declares the persistence ports. Every repository is bound to a
// single tenant when it is constructed, so no method can read or write another
// tenant's rows; a row outside the bound tenant is reported as domain.ErrNotFound.
package repository

// Repos groups the tenant-bound repositories handed to a unit of work.
type Repos struct {
	TenantID string

	Tenants     TenantRepository
	Accounts    MoneyAccountRepository
	Movements   AccountMovementRepository
	Contacts    ContactRepository
	Products    ProductRepository
	Invoices    InvoiceRepository
	Payments    PaymentRepository
	CreditNotes CreditNoteRepository
	Sequences   SequenceRepository
}

// Page is a limit/offset window. Zero Limit means the adapter default.
type Page struct {
	Limit  int
	Offset int
}

// DefaultLimit is used when a Page has no limit.
const DefaultLimit = 50

// Normalize fills defaults and clamps negative values.
func (p Page) Normalize() Page {
	if p.Limit <= 0 || p.Limit > 500 {
		p.Limit = DefaultLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}
