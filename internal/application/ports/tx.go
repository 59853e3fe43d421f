package ports

import (
	"context"

	"github.com/jhoicas/ledger-api/internal/domain/repository"
)

// TxRunner runs a unit of work inside one database transaction. fn receives
// repositories bound to both the transaction and tenantID; returning an error rolls
// everything back, returning nil commits.
type TxRunner interface {
	Run(ctx context.Context, tenantID string, fn func(r repository.Repos) error) error
	// Repos returns tenant-bound repositories outside any transaction, for reads.
	Repos(tenantID string) repository.Repos
}
