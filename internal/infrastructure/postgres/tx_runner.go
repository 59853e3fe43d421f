package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/ledger-api/internal/application/ports"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
)

var _ ports.TxRunner = (*TxRunner)(nil)

// TxRunner runs units of work inside PostgreSQL transactions.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner builds the runner over pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run begins a transaction, calls fn with repositories bound to it and to tenantID,
// and commits when fn returns nil. Any error rolls everything back.
func (r *TxRunner) Run(ctx context.Context, tenantID string, fn func(repository.Repos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewRepos(tx, tenantID)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Repos returns pool-backed repositories for reads outside a transaction.
func (r *TxRunner) Repos(tenantID string) repository.Repos {
	return NewRepos(r.pool, tenantID)
}

// NewRepos binds every repository to q and tenantID.
func NewRepos(q Querier, tenantID string) repository.Repos {
	return repository.Repos{
		TenantID:    tenantID,
		Tenants:     NewTenantRepository(q),
		Accounts:    NewMoneyAccountRepository(q, tenantID),
		Movements:   NewAccountMovementRepository(q, tenantID),
		Contacts:    NewContactRepository(q, tenantID),
		Products:    NewProductRepository(q, tenantID),
		Invoices:    NewInvoiceRepository(q, tenantID),
		Payments:    NewPaymentRepository(q, tenantID),
		CreditNotes: NewCreditNoteRepository(q, tenantID),
		Sequences:   NewSequenceRepository(q, tenantID),
	}
}
