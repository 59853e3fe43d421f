package repository

import (
	"context"
	"time"

	"github.com/jhoicas/ledger-api/internal/domain/entity"
)

// InvoiceFilter narrows an invoice listing.
type InvoiceFilter struct {
	Type      entity.InvoiceType
	Status    entity.InvoiceStatus
	ContactID string
	From      *time.Time
	To        *time.Time
	Page      Page
}

// InvoiceRepository persists invoices and their lines for one tenant. Reads join the
// contact display fields and skip soft-deleted rows.
type InvoiceRepository interface {
	Create(ctx context.Context, inv *entity.Invoice) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	// GetForUpdate loads the header and items and locks the header row.
	GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error)
	// Update persists header fields (totals, status, payment progress, timestamps).
	Update(ctx context.Context, inv *entity.Invoice) error
	// ReplaceItems deletes every line of the invoice and inserts items.
	ReplaceItems(ctx context.Context, invoiceID string, items []entity.InvoiceItem) error
	List(ctx context.Context, f InvoiceFilter) ([]*entity.Invoice, error)
}
