package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
)

func contactRef(d *state, id string) *entity.ContactRef {
	c, ok := d.contacts[id]
	if id == "" || !ok {
		return nil
	}
	return &entity.ContactRef{ID: c.ID, Name: c.Name, NameAr: c.NameAr}
}

// ── invoices ────────────────────────────────────────────────────────────────

type invoiceRepo struct{ sc scope }

func (r invoiceRepo) get(d *state, id string) (*entity.Invoice, error) {
	inv, ok := d.invoices[id]
	if !ok || inv.TenantID != r.sc.tenantID || inv.DeletedAt != nil {
		return nil, fmt.Errorf("invoice %s: %w", id, domain.ErrNotFound)
	}
	inv.Items = append([]entity.InvoiceItem(nil), inv.Items...)
	inv.Contact = contactRef(d, inv.ContactID)
	return &inv, nil
}

func (r invoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	return r.sc.write(func(d *state) error {
		for _, other := range d.invoices {
			if other.TenantID == r.sc.tenantID && other.InternalNumber == inv.InternalNumber {
				return fmt.Errorf("%w: invoice number %s", domain.ErrConflict, inv.InternalNumber)
			}
		}
		v := *inv
		v.TenantID = r.sc.tenantID
		v.Items = append([]entity.InvoiceItem(nil), inv.Items...)
		v.Contact = nil
		d.invoices[v.ID] = v
		return nil
	})
}

func (r invoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	var out *entity.Invoice
	err := r.sc.read(func(d *state) error {
		var err error
		out, err = r.get(d, id)
		return err
	})
	return out, err
}

func (r invoiceRepo) GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.GetByID(ctx, id)
}

func (r invoiceRepo) Update(_ context.Context, inv *entity.Invoice) error {
	return r.sc.write(func(d *state) error {
		cur, err := r.get(d, inv.ID)
		if err != nil {
			return err
		}
		v := *inv
		v.TenantID = r.sc.tenantID
		v.InternalNumber = cur.InternalNumber
		v.Items = cur.Items
		v.Contact = nil
		d.invoices[v.ID] = v
		return nil
	})
}

func (r invoiceRepo) ReplaceItems(_ context.Context, invoiceID string, items []entity.InvoiceItem) error {
	return r.sc.write(func(d *state) error {
		if _, err := r.get(d, invoiceID); err != nil {
			return err
		}
		v := d.invoices[invoiceID]
		v.Items = append([]entity.InvoiceItem(nil), items...)
		d.invoices[invoiceID] = v
		return nil
	})
}

func (r invoiceRepo) List(_ context.Context, f repository.InvoiceFilter) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	err := r.sc.read(func(d *state) error {
		for id, inv := range d.invoices {
			if inv.TenantID != r.sc.tenantID || inv.DeletedAt != nil {
				continue
			}
			if (f.Type != "" && inv.Type != f.Type) || (f.Status != "" && inv.Status != f.Status) ||
				(f.ContactID != "" && inv.ContactID != f.ContactID) ||
				(f.From != nil && inv.Date.Before(*f.From)) || (f.To != nil && inv.Date.After(*f.To)) {
				continue
			}
			full, _ := r.get(d, id)
			full.Items = nil
			out = append(out, full)
		}
		return nil
	})
	sortNewestFirst(out, func(inv *entity.Invoice) (int64, int64) { return inv.Date.Unix(), inv.CreatedAt.UnixNano() })
	return paginate(out, f.Page), err
}

// ── payments ────────────────────────────────────────────────────────────────

type paymentRepo struct{ sc scope }

func (r paymentRepo) get(d *state, id string) (*entity.Payment, error) {
	p, ok := d.payments[id]
	if !ok || p.TenantID != r.sc.tenantID {
		return nil, fmt.Errorf("payment %s: %w", id, domain.ErrNotFound)
	}
	p.Contact = contactRef(d, p.ContactID)
	return &p, nil
}

func (r paymentRepo) Create(_ context.Context, p *entity.Payment) error {
	return r.sc.write(func(d *state) error {
		v := *p
		v.TenantID = r.sc.tenantID
		v.Contact = nil
		d.payments[v.ID] = v
		return nil
	})
}

func (r paymentRepo) GetByID(_ context.Context, id string) (*entity.Payment, error) {
	var out *entity.Payment
	err := r.sc.read(func(d *state) error {
		var err error
		out, err = r.get(d, id)
		return err
	})
	return out, err
}

func (r paymentRepo) GetForUpdate(ctx context.Context, id string) (*entity.Payment, error) {
	return r.GetByID(ctx, id)
}

func (r paymentRepo) MarkVoided(_ context.Context, p *entity.Payment) error {
	return r.sc.write(func(d *state) error {
		cur, err := r.get(d, p.ID)
		if err != nil {
			return err
		}
		if cur.VoidedAt != nil {
			return fmt.Errorf("%w: payment %s is already voided", domain.ErrInvalidState, cur.PaymentNumber)
		}
		v := d.payments[p.ID]
		v.VoidedAt = p.VoidedAt
		v.VoidedBy = p.VoidedBy
		v.UpdatedAt = p.UpdatedAt
		d.payments[p.ID] = v
		return nil
	})
}

func (r paymentRepo) List(_ context.Context, f repository.PaymentFilter) ([]*entity.Payment, error) {
	var out []*entity.Payment
	err := r.sc.read(func(d *state) error {
		for id, p := range d.payments {
			if p.TenantID != r.sc.tenantID || (!f.IncludeVoided && p.VoidedAt != nil) {
				continue
			}
			if (f.Type != "" && p.Type != f.Type) || (f.ContactID != "" && p.ContactID != f.ContactID) ||
				(f.InvoiceID != "" && p.InvoiceID != f.InvoiceID) || (f.AccountID != "" && p.AccountID != f.AccountID) ||
				(f.From != nil && p.Date.Before(*f.From)) || (f.To != nil && p.Date.After(*f.To)) {
				continue
			}
			full, _ := r.get(d, id)
			out = append(out, full)
		}
		return nil
	})
	sortNewestFirst(out, func(p *entity.Payment) (int64, int64) { return p.Date.Unix(), p.CreatedAt.UnixNano() })
	return paginate(out, f.Page), err
}

// ── credit notes ────────────────────────────────────────────────────────────

type creditNoteRepo struct{ sc scope }

func (r creditNoteRepo) get(d *state, id string) (*entity.CreditNote, error) {
	n, ok := d.notes[id]
	if !ok || n.TenantID != r.sc.tenantID || n.DeletedAt != nil {
		return nil, fmt.Errorf("credit note %s: %w", id, domain.ErrNotFound)
	}
	n.Items = append([]entity.CreditNoteItem(nil), n.Items...)
	n.Allocations = nil
	for _, a := range d.allocations {
		if a.CreditNoteID == id {
			n.Allocations = append(n.Allocations, a)
		}
	}
	n.Contact = contactRef(d, n.ContactID)
	return &n, nil
}

func (r creditNoteRepo) Create(_ context.Context, n *entity.CreditNote) error {
	return r.sc.write(func(d *state) error {
		v := *n
		v.TenantID = r.sc.tenantID
		v.Items = append([]entity.CreditNoteItem(nil), n.Items...)
		v.Allocations = nil
		v.Contact = nil
		d.notes[v.ID] = v
		return nil
	})
}

func (r creditNoteRepo) GetByID(_ context.Context, id string) (*entity.CreditNote, error) {
	var out *entity.CreditNote
	err := r.sc.read(func(d *state) error {
		var err error
		out, err = r.get(d, id)
		return err
	})
	return out, err
}

func (r creditNoteRepo) GetForUpdate(ctx context.Context, id string) (*entity.CreditNote, error) {
	return r.GetByID(ctx, id)
}

func (r creditNoteRepo) Update(_ context.Context, n *entity.CreditNote) error {
	return r.sc.write(func(d *state) error {
		cur, err := r.get(d, n.ID)
		if err != nil {
			return err
		}
		v := *n
		v.TenantID = r.sc.tenantID
		v.Number = cur.Number
		v.Items = cur.Items
		v.Allocations = nil
		v.Contact = nil
		d.notes[v.ID] = v
		return nil
	})
}

func (r creditNoteRepo) AddAllocation(_ context.Context, a *entity.CreditNoteAllocation) error {
	return r.sc.write(func(d *state) error {
		if _, err := r.get(d, a.CreditNoteID); err != nil {
			return err
		}
		v := *a
		v.TenantID = r.sc.tenantID
		d.allocations = append(d.allocations, v)
		return nil
	})
}

func (r creditNoteRepo) CountAllocations(_ context.Context, noteID string) (int, error) {
	n := 0
	err := r.sc.read(func(d *state) error {
		for _, a := range d.allocations {
			if a.TenantID == r.sc.tenantID && a.CreditNoteID == noteID {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r creditNoteRepo) List(_ context.Context, f repository.CreditNoteFilter) ([]*entity.CreditNote, error) {
	var out []*entity.CreditNote
	err := r.sc.read(func(d *state) error {
		for id, n := range d.notes {
			if n.TenantID != r.sc.tenantID || n.DeletedAt != nil {
				continue
			}
			if (f.Type != "" && n.Type != f.Type) || (f.Status != "" && n.Status != f.Status) ||
				(f.ContactID != "" && n.ContactID != f.ContactID) {
				continue
			}
			full, _ := r.get(d, id)
			full.Items, full.Allocations = nil, nil
			out = append(out, full)
		}
		return nil
	})
	sortNewestFirst(out, func(n *entity.CreditNote) (int64, int64) { return n.Date.Unix(), n.CreatedAt.UnixNano() })
	return paginate(out, f.Page), err
}
