package repository

import (
	"context"

	"github.com/jhoicas/ledger-api/internal/domain/entity"
)

// TenantRepository persists tenants. It is the only repository not scoped by a tenant.
type TenantRepository interface {
	Create(ctx context.Context, t *entity.Tenant) error
	GetByID(ctx context.Context, id string) (*entity.Tenant, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Tenant, error)
	List(ctx context.Context) ([]*entity.Tenant, error)
}
