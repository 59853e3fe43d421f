package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.ContactRepository = (*ContactRepo)(nil)

// ContactRepo implements ContactRepository over PostgreSQL (pool or tx).
type ContactRepo struct {
	q        Querier
	tenantID string
}

// NewContactRepository builds the adapter bound to tenantID.
func NewContactRepository(q Querier, tenantID string) *ContactRepo {
	return &ContactRepo{q: q, tenantID: tenantID}
}

const contactColumns = `id, tenant_id, type, name, name_ar, phone, email, balance_usd, balance_lbp, deleted_at, created_at, updated_at`

func (r *ContactRepo) Create(ctx context.Context, c *entity.Contact) error {
	const q = `
		INSERT INTO contacts (id, tenant_id, type, name, name_ar, phone, email, balance_usd, balance_lbp, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	c.TenantID = r.tenantID
	_, err := r.q.Exec(ctx, q,
		c.ID, r.tenantID, c.Type, c.Name, c.NameAr, c.Phone, c.Email,
		c.BalanceUSD, c.BalanceLBP, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return wrapErr(err, "insert contact")
	}
	return nil
}

func (r *ContactRepo) GetByID(ctx context.Context, id string) (*entity.Contact, error) {
	q := `SELECT ` + contactColumns + ` FROM contacts WHERE tenant_id = $1 AND id = $2 AND deleted_at IS NULL`
	c, err := scanContact(r.q.QueryRow(ctx, q, r.tenantID, id))
	if err != nil {
		return nil, wrapErr(err, fmt.Sprintf("get contact %s", id))
	}
	return c, nil
}

// List orders by name. A supplier or customer filter also returns contacts of type both.
func (r *ContactRepo) List(ctx context.Context, t entity.ContactType, page repository.Page) ([]*entity.Contact, error) {
	w := newWhere(r.tenantID)
	if t != "" {
		w.add("(type = $%d OR type = 'both')", t)
	}
	q := `SELECT ` + contactColumns + ` FROM contacts WHERE tenant_id = $1 AND deleted_at IS NULL` + w.sql() +
		` ORDER BY name` + w.page(page.Normalize())
	rows, err := r.q.Query(ctx, q, w.args...)
	if err != nil {
		return nil, wrapErr(err, "list contacts")
	}
	defer rows.Close()
	var list []*entity.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, wrapErr(err, "scan contact")
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// AdjustBalance adds to both legs in one statement so concurrent documents compose.
func (r *ContactRepo) AdjustBalance(ctx context.Context, id string, deltaUSD, deltaLBP decimal.Decimal) error {
	const q = `
		UPDATE contacts
		SET balance_usd = balance_usd + $3,
		    balance_lbp = balance_lbp + $4,
		    updated_at  = now()
		WHERE tenant_id = $1 AND id = $2 AND deleted_at IS NULL`
	cmd, err := r.q.Exec(ctx, q, r.tenantID, id, deltaUSD, deltaLBP)
	if err != nil {
		return wrapErr(err, "adjust contact balance")
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("contact %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func scanContact(row pgxScanner) (*entity.Contact, error) {
	var c entity.Contact
	err := row.Scan(
		&c.ID, &c.TenantID, &c.Type, &c.Name, &c.NameAr, &c.Phone, &c.Email,
		&c.BalanceUSD, &c.BalanceLBP, &c.DeletedAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
