package repository

import (
	"context"
	"time"

	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// MoneyAccountRepository persists cash and bank accounts of one tenant.
type MoneyAccountRepository interface {
	Create(ctx context.Context, a *entity.MoneyAccount) error
	GetByID(ctx context.Context, id string) (*entity.MoneyAccount, error)
	// GetForUpdate loads the account and locks its row until the transaction ends.
	GetForUpdate(ctx context.Context, id string) (*entity.MoneyAccount, error)
	List(ctx context.Context, includeInactive bool) ([]*entity.MoneyAccount, error)
	UpdateBalance(ctx context.Context, id string, balance decimal.Decimal) error
	// ClearDefault unsets IsDefault on every account of the given type and currency.
	ClearDefault(ctx context.Context, t entity.AccountType, c entity.Currency) error
	CountActive(ctx context.Context, t entity.AccountType, excludeID string) (int, error)
	SoftDelete(ctx context.Context, id string, at time.Time) error
}

// MovementFilter narrows a movement listing.
type MovementFilter struct {
	AccountID string
	From      *time.Time
	To        *time.Time
	Page      Page
}

// MovementTotals is the signed sum of an account's movements.
type MovementTotals struct {
	AccountID string
	Inbound   decimal.Decimal
	Outbound  decimal.Decimal
	Count     int
}

// AccountMovementRepository is the append-only movement log. There is no update or delete.
type AccountMovementRepository interface {
	Create(ctx context.Context, m *entity.AccountMovement) error
	List(ctx context.Context, f MovementFilter) ([]*entity.AccountMovement, error)
	ListByReference(ctx context.Context, ref entity.MovementReference, referenceID string) ([]*entity.AccountMovement, error)
	// Totals aggregates the movements of every account of the tenant.
	Totals(ctx context.Context) (map[string]MovementTotals, error)
}
