package repository

import (
	"context"

	"github.com/jhoicas/ledger-api/internal/domain/entity"
)

// SequenceRepository hands out document numbers for one tenant.
type SequenceRepository interface {
	// Next creates the (type, year) counter on first use and increments it, returning
	// the prefix and the number just taken. Concurrent callers never get the same number.
	Next(ctx context.Context, docType entity.DocumentType, year int) (prefix string, number int64, err error)
	Current(ctx context.Context, docType entity.DocumentType, year int) (*entity.Sequence, error)
}
