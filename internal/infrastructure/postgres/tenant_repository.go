package postgres

import (
	"context"

	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
)

var _ repository.TenantRepository = (*TenantRepo)(nil)

// TenantRepo implements TenantRepository over PostgreSQL (pool or tx).
type TenantRepo struct {
	q Querier
}

// NewTenantRepository builds the adapter. Tenants are the one unscoped table.
func NewTenantRepository(q Querier) *TenantRepo {
	return &TenantRepo{q: q}
}

const tenantColumns = `id, name, slug, status, created_at, updated_at`

func (r *TenantRepo) Create(ctx context.Context, t *entity.Tenant) error {
	const q = `
		INSERT INTO tenants (id, name, slug, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, q, t.ID, t.Name, t.Slug, t.Status, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return wrapErr(err, "insert tenant")
	}
	return nil
}

func (r *TenantRepo) GetByID(ctx context.Context, id string) (*entity.Tenant, error) {
	t, err := scanTenant(r.q.QueryRow(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE id = $1`, id))
	if err != nil {
		return nil, wrapErr(err, "get tenant")
	}
	return t, nil
}

func (r *TenantRepo) GetBySlug(ctx context.Context, slug string) (*entity.Tenant, error) {
	t, err := scanTenant(r.q.QueryRow(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE slug = $1`, slug))
	if err != nil {
		return nil, wrapErr(err, "get tenant by slug")
	}
	return t, nil
}

func (r *TenantRepo) List(ctx context.Context) ([]*entity.Tenant, error) {
	rows, err := r.q.Query(ctx, `SELECT `+tenantColumns+` FROM tenants ORDER BY created_at DESC`)
	if err != nil {
		return nil, wrapErr(err, "list tenants")
	}
	defer rows.Close()
	var list []*entity.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, wrapErr(err, "scan tenant")
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func scanTenant(row pgxScanner) (*entity.Tenant, error) {
	var t entity.Tenant
	if err := row.Scan(&t.ID, &t.Name, &t.Slug, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}
