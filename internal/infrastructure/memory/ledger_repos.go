package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ── tenants ─────────────────────────────────────────────────────────────────

type tenantRepo struct{ sc scope }

func (r tenantRepo) Create(_ context.Context, t *entity.Tenant) error {
	return r.sc.write(func(d *state) error {
		for _, existing := range d.tenants {
			if existing.Slug == t.Slug {
				return fmt.Errorf("%w: tenant slug %q", domain.ErrConflict, t.Slug)
			}
		}
		d.tenants[t.ID] = *t
		return nil
	})
}

func (r tenantRepo) GetByID(_ context.Context, id string) (*entity.Tenant, error) {
	var out *entity.Tenant
	err := r.sc.read(func(d *state) error {
		t, ok := d.tenants[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = &t
		return nil
	})
	return out, err
}

func (r tenantRepo) GetBySlug(_ context.Context, slug string) (*entity.Tenant, error) {
	var out *entity.Tenant
	err := r.sc.read(func(d *state) error {
		for _, t := range d.tenants {
			if t.Slug == slug {
				t := t
				out = &t
				return nil
			}
		}
		return domain.ErrNotFound
	})
	return out, err
}

func (r tenantRepo) List(_ context.Context) ([]*entity.Tenant, error) {
	var out []*entity.Tenant
	err := r.sc.read(func(d *state) error {
		for _, t := range d.tenants {
			t := t
			out = append(out, &t)
		}
		return nil
	})
	sortNewestFirst(out, func(t *entity.Tenant) (int64, int64) { return 0, t.CreatedAt.UnixNano() })
	return out, err
}

// ── money accounts ──────────────────────────────────────────────────────────

type accountRepo struct{ sc scope }

func (r accountRepo) get(d *state, id string) (entity.MoneyAccount, error) {
	a, ok := d.accounts[id]
	if !ok || a.TenantID != r.sc.tenantID {
		return entity.MoneyAccount{}, fmt.Errorf("account %s: %w", id, domain.ErrNotFound)
	}
	return a, nil
}

func (r accountRepo) Create(_ context.Context, a *entity.MoneyAccount) error {
	return r.sc.write(func(d *state) error {
		a.TenantID = r.sc.tenantID
		d.accounts[a.ID] = *a
		return nil
	})
}

func (r accountRepo) GetByID(_ context.Context, id string) (*entity.MoneyAccount, error) {
	var out *entity.MoneyAccount
	err := r.sc.read(func(d *state) error {
		a, err := r.get(d, id)
		out = &a
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r accountRepo) GetForUpdate(ctx context.Context, id string) (*entity.MoneyAccount, error) {
	return r.GetByID(ctx, id)
}

func (r accountRepo) List(_ context.Context, includeInactive bool) ([]*entity.MoneyAccount, error) {
	var out []*entity.MoneyAccount
	err := r.sc.read(func(d *state) error {
		for _, a := range d.accounts {
			if a.TenantID != r.sc.tenantID {
				continue
			}
			if !includeInactive && (a.DeletedAt != nil || !a.IsActive) {
				continue
			}
			a := a
			out = append(out, &a)
		}
		return nil
	})
	sortNewestFirst(out, func(a *entity.MoneyAccount) (int64, int64) { return 0, -a.CreatedAt.UnixNano() })
	return out, err
}

func (r accountRepo) UpdateBalance(_ context.Context, id string, balance decimal.Decimal) error {
	return r.sc.write(func(d *state) error {
		a, err := r.get(d, id)
		if err != nil {
			return err
		}
		a.CurrentBalance = balance
		a.UpdatedAt = time.Now().UTC()
		d.accounts[id] = a
		return nil
	})
}

func (r accountRepo) ClearDefault(_ context.Context, t entity.AccountType, c entity.Currency) error {
	return r.sc.write(func(d *state) error {
		for id, a := range d.accounts {
			if a.TenantID == r.sc.tenantID && a.Type == t && a.Currency == c && a.IsDefault {
				a.IsDefault = false
				d.accounts[id] = a
			}
		}
		return nil
	})
}

func (r accountRepo) CountActive(_ context.Context, t entity.AccountType, excludeID string) (int, error) {
	n := 0
	err := r.sc.read(func(d *state) error {
		for _, a := range d.accounts {
			if a.TenantID == r.sc.tenantID && a.Type == t && a.ID != excludeID && a.IsActive && a.DeletedAt == nil {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r accountRepo) SoftDelete(_ context.Context, id string, at time.Time) error {
	return r.sc.write(func(d *state) error {
		a, err := r.get(d, id)
		if err != nil {
			return err
		}
		a.DeletedAt = &at
		a.IsActive = false
		a.IsDefault = false
		a.UpdatedAt = at
		d.accounts[id] = a
		return nil
	})
}

// ── movements ───────────────────────────────────────────────────────────────

type movementRepo struct{ sc scope }

func (r movementRepo) Create(_ context.Context, m *entity.AccountMovement) error {
	return r.sc.write(func(d *state) error {
		m.TenantID = r.sc.tenantID
		d.movements = append(d.movements, *m)
		return nil
	})
}

func (r movementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.AccountMovement, error) {
	var out []*entity.AccountMovement
	err := r.sc.read(func(d *state) error {
		for _, m := range d.movements {
			if m.TenantID != r.sc.tenantID || (f.AccountID != "" && m.AccountID != f.AccountID) {
				continue
			}
			if f.From != nil && m.Date.Before(*f.From) {
				continue
			}
			if f.To != nil && m.Date.After(*f.To) {
				continue
			}
			m := m
			out = append(out, &m)
		}
		return nil
	})
	// insertion order is the tiebreaker, newest first
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	sortNewestFirst(out, func(m *entity.AccountMovement) (int64, int64) { return m.Date.Unix(), 0 })
	return paginate(out, f.Page), err
}

func (r movementRepo) ListByReference(_ context.Context, ref entity.MovementReference, referenceID string) ([]*entity.AccountMovement, error) {
	var out []*entity.AccountMovement
	err := r.sc.read(func(d *state) error {
		for _, m := range d.movements {
			if m.TenantID == r.sc.tenantID && m.ReferenceType == ref && m.ReferenceID == referenceID {
				m := m
				out = append(out, &m)
			}
		}
		return nil
	})
	return out, err
}

func (r movementRepo) Totals(_ context.Context) (map[string]repository.MovementTotals, error) {
	out := map[string]repository.MovementTotals{}
	err := r.sc.read(func(d *state) error {
		for _, m := range d.movements {
			if m.TenantID != r.sc.tenantID {
				continue
			}
			t, ok := out[m.AccountID]
			if !ok {
				t = repository.MovementTotals{AccountID: m.AccountID, Inbound: decimal.Zero, Outbound: decimal.Zero}
			}
			if m.Type.IsInbound() {
				t.Inbound = t.Inbound.Add(m.Amount)
			} else {
				t.Outbound = t.Outbound.Add(m.Amount)
			}
			t.Count++
			out[m.AccountID] = t
		}
		return nil
	})
	return out, err
}

// ── sequences ───────────────────────────────────────────────────────────────

type sequenceRepo struct{ sc scope }

func (r sequenceRepo) Next(_ context.Context, docType entity.DocumentType, year int) (string, int64, error) {
	var prefix string
	var n int64
	err := r.sc.write(func(d *state) error {
		key := seqKey{tenantID: r.sc.tenantID, docType: docType, year: year}
		now := time.Now().UTC()
		seq, ok := d.sequences[key]
		if !ok {
			seq = entity.Sequence{
				ID:           fmt.Sprintf("%s/%s/%d", r.sc.tenantID, docType, year),
				TenantID:     r.sc.tenantID,
				DocumentType: docType,
				Year:         year,
				Prefix:       docType.DefaultPrefix(),
				CreatedAt:    now,
			}
		}
		seq.CurrentNumber++
		seq.UpdatedAt = now
		d.sequences[key] = seq
		prefix, n = seq.Prefix, seq.CurrentNumber
		return nil
	})
	return prefix, n, err
}

func (r sequenceRepo) Current(_ context.Context, docType entity.DocumentType, year int) (*entity.Sequence, error) {
	var out *entity.Sequence
	err := r.sc.read(func(d *state) error {
		seq, ok := d.sequences[seqKey{tenantID: r.sc.tenantID, docType: docType, year: year}]
		if !ok {
			return domain.ErrNotFound
		}
		out = &seq
		return nil
	})
	return out, err
}
