package postgres

import (
	"context"

	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
)

var _ repository.AccountMovementRepository = (*AccountMovementRepo)(nil)

// AccountMovementRepo implements the append-only movement log over PostgreSQL.
type AccountMovementRepo struct {
	q        Querier
	tenantID string
}

// NewAccountMovementRepository builds the adapter bound to tenantID.
func NewAccountMovementRepository(q Querier, tenantID string) *AccountMovementRepo {
	return &AccountMovementRepo{q: q, tenantID: tenantID}
}

const movementColumns = `id, tenant_id, account_id, type, amount, balance_after, reference_type, reference_id, description, date, created_by, created_at`

func (r *AccountMovementRepo) Create(ctx context.Context, m *entity.AccountMovement) error {
	const q = `
		INSERT INTO account_movements (id, tenant_id, account_id, type, amount, balance_after, reference_type, reference_id, description, date, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	m.TenantID = r.tenantID
	_, err := r.q.Exec(ctx, q,
		m.ID, r.tenantID, m.AccountID, m.Type, m.Amount, m.BalanceAfter,
		m.ReferenceType, m.ReferenceID, m.Description, dateOnly(m.Date), m.CreatedBy, m.CreatedAt,
	)
	if err != nil {
		return wrapErr(err, "insert movement")
	}
	return nil
}

// List returns movements newest first.
func (r *AccountMovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.AccountMovement, error) {
	w := newWhere(r.tenantID)
	if f.AccountID != "" {
		w.add("account_id = $%d", f.AccountID)
	}
	if f.From != nil {
		w.add("date >= $%d", dateOnly(*f.From))
	}
	if f.To != nil {
		w.add("date <= $%d", dateOnly(*f.To))
	}
	q := `SELECT ` + movementColumns + ` FROM account_movements WHERE tenant_id = $1` + w.sql() +
		` ORDER BY date DESC, created_at DESC` + w.page(f.Page.Normalize())
	return r.query(ctx, q, w.args...)
}

func (r *AccountMovementRepo) ListByReference(ctx context.Context, ref entity.MovementReference, referenceID string) ([]*entity.AccountMovement, error) {
	q := `SELECT ` + movementColumns + ` FROM account_movements
		WHERE tenant_id = $1 AND reference_type = $2 AND reference_id = $3 ORDER BY created_at`
	return r.query(ctx, q, r.tenantID, ref, referenceID)
}

func (r *AccountMovementRepo) Totals(ctx context.Context) (map[string]repository.MovementTotals, error) {
	const q = `
		SELECT account_id,
		       COALESCE(SUM(amount) FILTER (WHERE type IN ('in', 'transfer_in')), 0),
		       COALESCE(SUM(amount) FILTER (WHERE type IN ('out', 'transfer_out')), 0),
		       count(*)
		FROM account_movements
		WHERE tenant_id = $1
		GROUP BY account_id`
	rows, err := r.q.Query(ctx, q, r.tenantID)
	if err != nil {
		return nil, wrapErr(err, "movement totals")
	}
	defer rows.Close()
	out := make(map[string]repository.MovementTotals)
	for rows.Next() {
		var t repository.MovementTotals
		if err := rows.Scan(&t.AccountID, &t.Inbound, &t.Outbound, &t.Count); err != nil {
			return nil, wrapErr(err, "scan movement totals")
		}
		out[t.AccountID] = t
	}
	return out, rows.Err()
}

func (r *AccountMovementRepo) query(ctx context.Context, q string, args ...any) ([]*entity.AccountMovement, error) {
	rows, err := r.q.Query(ctx, q, args...)
	if err != nil {
		return nil, wrapErr(err, "list movements")
	}
	defer rows.Close()
	var list []*entity.AccountMovement
	for rows.Next() {
		var m entity.AccountMovement
		if err := rows.Scan(
			&m.ID, &m.TenantID, &m.AccountID, &m.Type, &m.Amount, &m.BalanceAfter,
			&m.ReferenceType, &m.ReferenceID, &m.Description, &m.Date, &m.CreatedBy, &m.CreatedAt,
		); err != nil {
			return nil, wrapErr(err, "scan movement")
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
