package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo implements document numbering over PostgreSQL.
type SequenceRepo struct {
	q        Querier
	tenantID string
}

// NewSequenceRepository builds the adapter bound to tenantID.
func NewSequenceRepository(q Querier, tenantID string) *SequenceRepo {
	return &SequenceRepo{q: q, tenantID: tenantID}
}

// Next is a single upsert: the first caller of a (type, year) inserts number 1, later
// callers increment under the row lock the conflict path takes. The lock is held until
// the caller's transaction ends, so two open transactions never see the same number.
func (r *SequenceRepo) Next(ctx context.Context, docType entity.DocumentType, year int) (string, int64, error) {
	const q = `
		INSERT INTO sequences (id, tenant_id, document_type, year, prefix, current_number, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 1, now(), now())
		ON CONFLICT (tenant_id, document_type, year)
		DO UPDATE SET current_number = sequences.current_number + 1, updated_at = now()
		RETURNING prefix, current_number`
	var (
		prefix string
		n      int64
	)
	err := r.q.QueryRow(ctx, q, uuid.New().String(), r.tenantID, docType, year, docType.DefaultPrefix()).Scan(&prefix, &n)
	if err != nil {
		return "", 0, wrapErr(err, fmt.Sprintf("next %s number", docType))
	}
	return prefix, n, nil
}

func (r *SequenceRepo) Current(ctx context.Context, docType entity.DocumentType, year int) (*entity.Sequence, error) {
	const q = `
		SELECT id, tenant_id, document_type, year, prefix, current_number, created_at, updated_at
		FROM sequences WHERE tenant_id = $1 AND document_type = $2 AND year = $3`
	var s entity.Sequence
	err := r.q.QueryRow(ctx, q, r.tenantID, docType, year).Scan(
		&s.ID, &s.TenantID, &s.DocumentType, &s.Year, &s.Prefix, &s.CurrentNumber, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, wrapErr(err, fmt.Sprintf("get %s sequence", docType))
	}
	return &s, nil
}
