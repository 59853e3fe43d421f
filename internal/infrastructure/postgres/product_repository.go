package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implements ProductRepository over PostgreSQL (pool or tx).
type ProductRepo struct {
	q        Querier
	tenantID string
}

// NewProductRepository builds the adapter bound to tenantID.
func NewProductRepository(q Querier, tenantID string) *ProductRepo {
	return &ProductRepo{q: q, tenantID: tenantID}
}

const productColumns = `id, tenant_id, name, COALESCE(barcode, ''), price, cost_price, cost_currency, stock, deleted_at, created_at, updated_at`

// Create persists a product. A barcode already used by the tenant is domain.ErrConflict.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	const q = `
		INSERT INTO products (id, tenant_id, name, barcode, price, cost_price, cost_currency, stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	p.TenantID = r.tenantID
	_, err := r.q.Exec(ctx, q,
		p.ID, r.tenantID, p.Name, nullIfEmpty(p.Barcode), p.Price, p.CostPrice,
		p.CostCurrency, p.Stock, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: barcode %q already used", domain.ErrConflict, p.Barcode)
		}
		return wrapErr(err, "insert product")
	}
	return nil
}

func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products WHERE tenant_id = $1 AND id = $2 AND deleted_at IS NULL`
	p, err := scanProduct(r.q.QueryRow(ctx, q, r.tenantID, id))
	if err != nil {
		return nil, wrapErr(err, fmt.Sprintf("get product %s", id))
	}
	return p, nil
}

func (r *ProductRepo) List(ctx context.Context, page repository.Page) ([]*entity.Product, error) {
	w := newWhere(r.tenantID)
	q := `SELECT ` + productColumns + ` FROM products WHERE tenant_id = $1 AND deleted_at IS NULL ORDER BY name` +
		w.page(page.Normalize())
	rows, err := r.q.Query(ctx, q, w.args...)
	if err != nil {
		return nil, wrapErr(err, "list products")
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, wrapErr(err, "scan product")
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// AdjustStock adds delta in one statement; stock is not read back into Go first.
func (r *ProductRepo) AdjustStock(ctx context.Context, id string, delta decimal.Decimal) error {
	const q = `UPDATE products SET stock = stock + $3, updated_at = now() WHERE tenant_id = $1 AND id = $2`
	cmd, err := r.q.Exec(ctx, q, r.tenantID, id, delta)
	if err != nil {
		return wrapErr(err, "adjust stock")
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// UpdateCost records the last purchase cost.
func (r *ProductRepo) UpdateCost(ctx context.Context, id string, cost decimal.Decimal, currency entity.Currency) error {
	const q = `UPDATE products SET cost_price = $3, cost_currency = $4, updated_at = now() WHERE tenant_id = $1 AND id = $2`
	cmd, err := r.q.Exec(ctx, q, r.tenantID, id, cost, currency)
	if err != nil {
		return wrapErr(err, "update product cost")
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func scanProduct(row pgxScanner) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.TenantID, &p.Name, &p.Barcode, &p.Price, &p.CostPrice,
		&p.CostCurrency, &p.Stock, &p.DeletedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
