package memory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ── contacts ────────────────────────────────────────────────────────────────

type contactRepo struct{ sc scope }

func (r contactRepo) get(d *state, id string) (entity.Contact, error) {
	c, ok := d.contacts[id]
	if !ok || c.TenantID != r.sc.tenantID || c.DeletedAt != nil {
		return entity.Contact{}, fmt.Errorf("contact %s: %w", id, domain.ErrNotFound)
	}
	return c, nil
}

func (r contactRepo) Create(_ context.Context, c *entity.Contact) error {
	return r.sc.write(func(d *state) error {
		c.TenantID = r.sc.tenantID
		d.contacts[c.ID] = *c
		return nil
	})
}

func (r contactRepo) GetByID(_ context.Context, id string) (*entity.Contact, error) {
	var out entity.Contact
	err := r.sc.read(func(d *state) error {
		var err error
		out, err = r.get(d, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r contactRepo) List(_ context.Context, t entity.ContactType, page repository.Page) ([]*entity.Contact, error) {
	var out []*entity.Contact
	err := r.sc.read(func(d *state) error {
		for _, c := range d.contacts {
			if c.TenantID != r.sc.tenantID || c.DeletedAt != nil {
				continue
			}
			if t != "" && c.Type != t && c.Type != entity.ContactTypeBoth {
				continue
			}
			c := c
			out = append(out, &c)
		}
		return nil
	})
	sortByName(out, func(c *entity.Contact) string { return c.Name })
	return paginate(out, page), err
}

func (r contactRepo) AdjustBalance(_ context.Context, id string, deltaUSD, deltaLBP decimal.Decimal) error {
	return r.sc.write(func(d *state) error {
		c, err := r.get(d, id)
		if err != nil {
			return err
		}
		c.BalanceUSD = c.BalanceUSD.Add(deltaUSD)
		c.BalanceLBP = c.BalanceLBP.Add(deltaLBP)
		c.UpdatedAt = time.Now().UTC()
		d.contacts[id] = c
		return nil
	})
}

// ── products ────────────────────────────────────────────────────────────────

type productRepo struct{ sc scope }

func (r productRepo) get(d *state, id string) (entity.Product, error) {
	p, ok := d.products[id]
	if !ok || p.TenantID != r.sc.tenantID || p.DeletedAt != nil {
		return entity.Product{}, fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}
	return p, nil
}

func (r productRepo) Create(_ context.Context, p *entity.Product) error {
	return r.sc.write(func(d *state) error {
		if p.Barcode != "" {
			for _, other := range d.products {
				if other.TenantID == r.sc.tenantID && other.DeletedAt == nil && other.Barcode == p.Barcode {
					return fmt.Errorf("%w: barcode %q already used", domain.ErrConflict, p.Barcode)
				}
			}
		}
		p.TenantID = r.sc.tenantID
		d.products[p.ID] = *p
		return nil
	})
}

func (r productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out entity.Product
	err := r.sc.read(func(d *state) error {
		var err error
		out, err = r.get(d, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r productRepo) List(_ context.Context, page repository.Page) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.sc.read(func(d *state) error {
		for _, p := range d.products {
			if p.TenantID == r.sc.tenantID && p.DeletedAt == nil {
				p := p
				out = append(out, &p)
			}
		}
		return nil
	})
	sortByName(out, func(p *entity.Product) string { return p.Name })
	return paginate(out, page), err
}

func (r productRepo) AdjustStock(_ context.Context, id string, delta decimal.Decimal) error {
	return r.sc.write(func(d *state) error {
		p, err := r.get(d, id)
		if err != nil {
			return err
		}
		p.Stock = p.Stock.Add(delta)
		p.UpdatedAt = time.Now().UTC()
		d.products[id] = p
		return nil
	})
}

func (r productRepo) UpdateCost(_ context.Context, id string, cost decimal.Decimal, currency entity.Currency) error {
	return r.sc.write(func(d *state) error {
		p, err := r.get(d, id)
		if err != nil {
			return err
		}
		p.CostPrice = cost
		p.CostCurrency = currency
		p.UpdatedAt = time.Now().UTC()
		d.products[id] = p
		return nil
	})
}

func sortByName[T any](list []T, name func(T) string) {
	for i := 1; i < len(list); i++ {
		for j := i; j > 0 && strings.ToLower(name(list[j])) < strings.ToLower(name(list[j-1])); j-- {
			list[j], list[j-1] = list[j-1], list[j]
		}
	}
}
