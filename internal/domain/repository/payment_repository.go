package repository

import (
	"context"
	"time"

	"github.com/jhoicas/ledger-api/internal/domain/entity"
)

// PaymentFilter narrows a payment listing.
type PaymentFilter struct {
	Type          entity.PaymentType
	ContactID     string
	InvoiceID     string
	AccountID     string
	IncludeVoided bool
	From          *time.Time
	To            *time.Time
	Page          Page
}

// PaymentRepository persists payments of one tenant. Payments are immutable apart from the void marker.
type PaymentRepository interface {
	Create(ctx context.Context, p *entity.Payment) error
	GetByID(ctx context.Context, id string) (*entity.Payment, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Payment, error)
	MarkVoided(ctx context.Context, p *entity.Payment) error
	List(ctx context.Context, f PaymentFilter) ([]*entity.Payment, error)
}
