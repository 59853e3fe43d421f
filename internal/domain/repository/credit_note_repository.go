package repository

import (
	"context"

	"github.com/jhoicas/ledger-api/internal/domain/entity"
)

// CreditNoteFilter narrows a note listing.
type CreditNoteFilter struct {
	Type      entity.NoteType
	Status    entity.NoteStatus
	ContactID string
	Page      Page
}

// CreditNoteRepository persists credit/debit notes, their items and allocations for one tenant.
type CreditNoteRepository interface {
	Create(ctx context.Context, n *entity.CreditNote) error
	GetByID(ctx context.Context, id string) (*entity.CreditNote, error)
	GetForUpdate(ctx context.Context, id string) (*entity.CreditNote, error)
	Update(ctx context.Context, n *entity.CreditNote) error
	AddAllocation(ctx context.Context, a *entity.CreditNoteAllocation) error
	CountAllocations(ctx context.Context, noteID string) (int, error)
	List(ctx context.Context, f CreditNoteFilter) ([]*entity.CreditNote, error)
}
