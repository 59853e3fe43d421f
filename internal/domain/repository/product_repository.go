package repository

import (
	"context"

	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ProductRepository persists products of one tenant. Duplicate barcodes fail with domain.ErrConflict.
type ProductRepository interface {
	Create(ctx context.Context, p *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	List(ctx context.Context, page Page) ([]*entity.Product, error)
	// AdjustStock adds delta to the stock in one atomic statement.
	AdjustStock(ctx context.Context, id string, delta decimal.Decimal) error
	UpdateCost(ctx context.Context, id string, cost decimal.Decimal, currency entity.Currency) error
}
