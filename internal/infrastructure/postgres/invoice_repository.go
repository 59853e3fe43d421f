package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implements InvoiceRepository over PostgreSQL (pool or tx).
type InvoiceRepo struct {
	q        Querier
	tenantID string
}

// NewInvoiceRepository builds the adapter bound to tenantID.
func NewInvoiceRepository(q Querier, tenantID string) *InvoiceRepo {
	return &InvoiceRepo{q: q, tenantID: tenantID}
}

const invoiceSelect = `
	SELECT i.id, i.tenant_id, i.type, i.internal_number, i.supplier_invoice_number,
	       COALESCE(i.contact_id::text, ''), COALESCE(c.name, ''), COALESCE(c.name_ar, ''),
	       i.status, i.date, i.due_date, i.currency, i.exchange_rate,
	       i.discount_type, i.discount_value, i.tax_rate,
	       i.subtotal, i.discount_amount, i.tax_amount, i.total, i.total_lbp, i.amount_paid, i.balance,
	       i.notes, i.confirmed_at, i.cancelled_at, i.created_by, i.deleted_at, i.created_at, i.updated_at
	FROM invoices i
	LEFT JOIN contacts c ON c.id = i.contact_id AND c.tenant_id = i.tenant_id
	WHERE i.tenant_id = $1 AND i.deleted_at IS NULL`

// Create persists the header and its lines. A duplicate internal number is domain.ErrConflict.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	const q = `
		INSERT INTO invoices (
			id, tenant_id, type, internal_number, supplier_invoice_number, contact_id, status,
			date, due_date, currency, exchange_rate, discount_type, discount_value, tax_rate,
			subtotal, discount_amount, tax_amount, total, total_lbp, amount_paid, balance,
			notes, confirmed_at, cancelled_at, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		        $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27)`
	inv.TenantID = r.tenantID
	_, err := r.q.Exec(ctx, q,
		inv.ID, r.tenantID, inv.Type, inv.InternalNumber, inv.SupplierInvoiceNumber, nullIfEmpty(inv.ContactID), inv.Status,
		dateOnly(inv.Date), inv.DueDate, inv.Currency, inv.ExchangeRate, inv.DiscountType, inv.DiscountValue, inv.TaxRate,
		inv.Subtotal, inv.DiscountAmount, inv.TaxAmount, inv.Total, inv.TotalLBP, inv.AmountPaid, inv.Balance,
		inv.Notes, inv.ConfirmedAt, inv.CancelledAt, inv.CreatedBy, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		return wrapErr(err, fmt.Sprintf("insert invoice %s", inv.InternalNumber))
	}
	return r.insertItems(ctx, inv.ID, inv.Items)
}

func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.get(ctx, id, "")
}

// GetForUpdate locks the header row only; the contact join stays unlocked.
func (r *InvoiceRepo) GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.get(ctx, id, " FOR UPDATE OF i")
}

func (r *InvoiceRepo) get(ctx context.Context, id, lock string) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, invoiceSelect+` AND i.id = $2`+lock, r.tenantID, id))
	if err != nil {
		return nil, wrapErr(err, fmt.Sprintf("get invoice %s", id))
	}
	inv.Items, err = r.items(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// Update writes every mutable header column. The internal number never changes.
func (r *InvoiceRepo) Update(ctx context.Context, inv *entity.Invoice) error {
	const q = `
		UPDATE invoices
		SET supplier_invoice_number = $3,
		    contact_id              = $4,
		    status                  = $5,
		    date                    = $6,
		    due_date                = $7,
		    currency                = $8,
		    exchange_rate           = $9,
		    discount_type           = $10,
		    discount_value          = $11,
		    tax_rate                = $12,
		    subtotal                = $13,
		    discount_amount         = $14,
		    tax_amount              = $15,
		    total                   = $16,
		    total_lbp               = $17,
		    amount_paid             = $18,
		    balance                 = $19,
		    notes                   = $20,
		    confirmed_at            = $21,
		    cancelled_at            = $22,
		    deleted_at              = $23,
		    updated_at              = $24
		WHERE tenant_id = $1 AND id = $2 AND deleted_at IS NULL`
	cmd, err := r.q.Exec(ctx, q,
		r.tenantID, inv.ID, inv.SupplierInvoiceNumber, nullIfEmpty(inv.ContactID), inv.Status,
		dateOnly(inv.Date), inv.DueDate, inv.Currency, inv.ExchangeRate,
		inv.DiscountType, inv.DiscountValue, inv.TaxRate,
		inv.Subtotal, inv.DiscountAmount, inv.TaxAmount, inv.Total, inv.TotalLBP, inv.AmountPaid, inv.Balance,
		inv.Notes, inv.ConfirmedAt, inv.CancelledAt, inv.DeletedAt, inv.UpdatedAt,
	)
	if err != nil {
		return wrapErr(err, fmt.Sprintf("update invoice %s", inv.InternalNumber))
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("invoice %s: %w", inv.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *InvoiceRepo) ReplaceItems(ctx context.Context, invoiceID string, items []entity.InvoiceItem) error {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM invoices WHERE tenant_id = $1 AND id = $2 AND deleted_at IS NULL)`,
		r.tenantID, invoiceID).Scan(&exists)
	if err != nil {
		return wrapErr(err, "check invoice")
	}
	if !exists {
		return fmt.Errorf("invoice %s: %w", invoiceID, domain.ErrNotFound)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1`, invoiceID); err != nil {
		return wrapErr(err, "delete invoice items")
	}
	return r.insertItems(ctx, invoiceID, items)
}

// List returns headers only, newest first.
func (r *InvoiceRepo) List(ctx context.Context, f repository.InvoiceFilter) ([]*entity.Invoice, error) {
	w := newWhere(r.tenantID)
	if f.Type != "" {
		w.add("i.type = $%d", f.Type)
	}
	if f.Status != "" {
		w.add("i.status = $%d", f.Status)
	}
	if f.ContactID != "" {
		w.add("i.contact_id = $%d", f.ContactID)
	}
	if f.From != nil {
		w.add("i.date >= $%d", dateOnly(*f.From))
	}
	if f.To != nil {
		w.add("i.date <= $%d", dateOnly(*f.To))
	}
	q := invoiceSelect + w.sql() + ` ORDER BY i.date DESC, i.created_at DESC` + w.page(f.Page.Normalize())
	rows, err := r.q.Query(ctx, q, w.args...)
	if err != nil {
		return nil, wrapErr(err, "list invoices")
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, wrapErr(err, "scan invoice")
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

func (r *InvoiceRepo) insertItems(ctx context.Context, invoiceID string, items []entity.InvoiceItem) error {
	const q = `
		INSERT INTO invoice_items (id, invoice_id, product_id, description, quantity, unit_price, discount_percent, line_total, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for _, it := range items {
		_, err := r.q.Exec(ctx, q,
			it.ID, invoiceID, nullIfEmpty(it.ProductID), it.Description,
			it.Quantity, it.UnitPrice, it.DiscountPercent, it.LineTotal, it.SortOrder,
		)
		if err != nil {
			return wrapErr(err, "insert invoice item")
		}
	}
	return nil
}

func (r *InvoiceRepo) items(ctx context.Context, invoiceID string) ([]entity.InvoiceItem, error) {
	const q = `
		SELECT id, invoice_id, COALESCE(product_id::text, ''), description, quantity, unit_price, discount_percent, line_total, sort_order
		FROM invoice_items WHERE invoice_id = $1 ORDER BY sort_order`
	rows, err := r.q.Query(ctx, q, invoiceID)
	if err != nil {
		return nil, wrapErr(err, "list invoice items")
	}
	defer rows.Close()
	var items []entity.InvoiceItem
	for rows.Next() {
		var it entity.InvoiceItem
		if err := rows.Scan(
			&it.ID, &it.InvoiceID, &it.ProductID, &it.Description,
			&it.Quantity, &it.UnitPrice, &it.DiscountPercent, &it.LineTotal, &it.SortOrder,
		); err != nil {
			return nil, wrapErr(err, "scan invoice item")
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func scanInvoice(row pgxScanner) (*entity.Invoice, error) {
	var (
		inv          entity.Invoice
		name, nameAr string
	)
	err := row.Scan(
		&inv.ID, &inv.TenantID, &inv.Type, &inv.InternalNumber, &inv.SupplierInvoiceNumber,
		&inv.ContactID, &name, &nameAr,
		&inv.Status, &inv.Date, &inv.DueDate, &inv.Currency, &inv.ExchangeRate,
		&inv.DiscountType, &inv.DiscountValue, &inv.TaxRate,
		&inv.Subtotal, &inv.DiscountAmount, &inv.TaxAmount, &inv.Total, &inv.TotalLBP, &inv.AmountPaid, &inv.Balance,
		&inv.Notes, &inv.ConfirmedAt, &inv.CancelledAt, &inv.CreatedBy, &inv.DeletedAt, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if inv.ContactID != "" {
		inv.Contact = &entity.ContactRef{ID: inv.ContactID, Name: name, NameAr: nameAr}
	}
	return &inv, nil
}
