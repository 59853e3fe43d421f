package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.MoneyAccountRepository = (*MoneyAccountRepo)(nil)

// MoneyAccountRepo implements MoneyAccountRepository over PostgreSQL (pool or tx).
type MoneyAccountRepo struct {
	q        Querier
	tenantID string
}

// NewMoneyAccountRepository builds the adapter bound to tenantID.
func NewMoneyAccountRepository(q Querier, tenantID string) *MoneyAccountRepo {
	return &MoneyAccountRepo{q: q, tenantID: tenantID}
}

const accountColumns = `id, tenant_id, name, type, currency, current_balance, is_default, is_active, deleted_at, created_at, updated_at`

func (r *MoneyAccountRepo) Create(ctx context.Context, a *entity.MoneyAccount) error {
	const q = `
		INSERT INTO money_accounts (id, tenant_id, name, type, currency, current_balance, is_default, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	a.TenantID = r.tenantID
	_, err := r.q.Exec(ctx, q,
		a.ID, r.tenantID, a.Name, a.Type, a.Currency, a.CurrentBalance,
		a.IsDefault, a.IsActive, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return wrapErr(err, "insert account")
	}
	return nil
}

func (r *MoneyAccountRepo) GetByID(ctx context.Context, id string) (*entity.MoneyAccount, error) {
	return r.get(ctx, id, "")
}

// GetForUpdate takes a row lock held until the surrounding transaction ends.
func (r *MoneyAccountRepo) GetForUpdate(ctx context.Context, id string) (*entity.MoneyAccount, error) {
	return r.get(ctx, id, " FOR UPDATE")
}

func (r *MoneyAccountRepo) get(ctx context.Context, id, lock string) (*entity.MoneyAccount, error) {
	q := `SELECT ` + accountColumns + ` FROM money_accounts WHERE tenant_id = $1 AND id = $2` + lock
	a, err := scanAccount(r.q.QueryRow(ctx, q, r.tenantID, id))
	if err != nil {
		return nil, wrapErr(err, fmt.Sprintf("get account %s", id))
	}
	return a, nil
}

func (r *MoneyAccountRepo) List(ctx context.Context, includeInactive bool) ([]*entity.MoneyAccount, error) {
	q := `SELECT ` + accountColumns + ` FROM money_accounts WHERE tenant_id = $1`
	if !includeInactive {
		q += ` AND is_active AND deleted_at IS NULL`
	}
	q += ` ORDER BY created_at`
	rows, err := r.q.Query(ctx, q, r.tenantID)
	if err != nil {
		return nil, wrapErr(err, "list accounts")
	}
	defer rows.Close()
	var list []*entity.MoneyAccount
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, wrapErr(err, "scan account")
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func (r *MoneyAccountRepo) UpdateBalance(ctx context.Context, id string, balance decimal.Decimal) error {
	const q = `UPDATE money_accounts SET current_balance = $3, updated_at = now() WHERE tenant_id = $1 AND id = $2`
	cmd, err := r.q.Exec(ctx, q, r.tenantID, id, balance)
	if err != nil {
		return wrapErr(err, "update account balance")
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("account %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *MoneyAccountRepo) ClearDefault(ctx context.Context, t entity.AccountType, c entity.Currency) error {
	const q = `
		UPDATE money_accounts SET is_default = false, updated_at = now()
		WHERE tenant_id = $1 AND type = $2 AND currency = $3 AND is_default`
	if _, err := r.q.Exec(ctx, q, r.tenantID, t, c); err != nil {
		return wrapErr(err, "clear default account")
	}
	return nil
}

func (r *MoneyAccountRepo) CountActive(ctx context.Context, t entity.AccountType, excludeID string) (int, error) {
	const q = `
		SELECT count(*) FROM money_accounts
		WHERE tenant_id = $1 AND type = $2 AND id::text <> $3 AND is_active AND deleted_at IS NULL`
	var n int
	if err := r.q.QueryRow(ctx, q, r.tenantID, t, excludeID).Scan(&n); err != nil {
		return 0, wrapErr(err, "count accounts")
	}
	return n, nil
}

func (r *MoneyAccountRepo) SoftDelete(ctx context.Context, id string, at time.Time) error {
	const q = `
		UPDATE money_accounts SET deleted_at = $3, is_active = false, is_default = false, updated_at = $3
		WHERE tenant_id = $1 AND id = $2`
	cmd, err := r.q.Exec(ctx, q, r.tenantID, id, at)
	if err != nil {
		return wrapErr(err, "delete account")
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("account %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func scanAccount(row pgxScanner) (*entity.MoneyAccount, error) {
	var a entity.MoneyAccount
	err := row.Scan(
		&a.ID, &a.TenantID, &a.Name, &a.Type, &a.Currency, &a.CurrentBalance,
		&a.IsDefault, &a.IsActive, &a.DeletedAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
