package repository

import (
	"context"

	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ContactRepository persists contacts of one tenant.
type ContactRepository interface {
	Create(ctx context.Context, c *entity.Contact) error
	GetByID(ctx context.Context, id string) (*entity.Contact, error)
	List(ctx context.Context, t entity.ContactType, page Page) ([]*entity.Contact, error)
	// AdjustBalance adds the deltas to both balance legs in one atomic statement.
	AdjustBalance(ctx context.Context, id string, deltaUSD, deltaLBP decimal.Decimal) error
}
