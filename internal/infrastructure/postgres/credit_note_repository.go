package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
)

var _ repository.CreditNoteRepository = (*CreditNoteRepo)(nil)

// CreditNoteRepo implements CreditNoteRepository over PostgreSQL (pool or tx).
type CreditNoteRepo struct {
	q        Querier
	tenantID string
}

// NewCreditNoteRepository builds the adapter bound to tenantID.
func NewCreditNoteRepository(q Querier, tenantID string) *CreditNoteRepo {
	return &CreditNoteRepo{q: q, tenantID: tenantID}
}

const creditNoteSelect = `
	SELECT n.id, n.tenant_id, n.type, n.number, n.contact_id, COALESCE(c.name, ''), COALESCE(c.name_ar, ''),
	       n.contact_type, COALESCE(n.original_invoice_id::text, ''), n.status, n.date,
	       n.currency, n.exchange_rate, n.tax_rate, n.subtotal, n.tax_amount, n.total, n.total_lbp,
	       n.applied_amount, n.unapplied_amount, n.reason, n.cancellation_reason,
	       n.issued_at, n.cancelled_at, n.created_by, n.deleted_at, n.created_at, n.updated_at
	FROM credit_notes n
	LEFT JOIN contacts c ON c.id = n.contact_id AND c.tenant_id = n.tenant_id
	WHERE n.tenant_id = $1 AND n.deleted_at IS NULL`

func (r *CreditNoteRepo) Create(ctx context.Context, n *entity.CreditNote) error {
	const q = `
		INSERT INTO credit_notes (
			id, tenant_id, type, number, contact_id, contact_type, original_invoice_id, status, date,
			currency, exchange_rate, tax_rate, subtotal, tax_amount, total, total_lbp,
			applied_amount, unapplied_amount, reason, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)`
	n.TenantID = r.tenantID
	_, err := r.q.Exec(ctx, q,
		n.ID, r.tenantID, n.Type, n.Number, n.ContactID, n.ContactType, nullIfEmpty(n.OriginalInvoiceID), n.Status, dateOnly(n.Date),
		n.Currency, n.ExchangeRate, n.TaxRate, n.Subtotal, n.TaxAmount, n.Total, n.TotalLBP,
		n.AppliedAmount, n.UnappliedAmount, n.Reason, n.CreatedBy, n.CreatedAt, n.UpdatedAt,
	)
	if err != nil {
		return wrapErr(err, fmt.Sprintf("insert note %s", n.Number))
	}
	const qi = `
		INSERT INTO credit_note_items (id, credit_note_id, product_id, description, quantity, unit_price, discount_percent, line_total, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for _, it := range n.Items {
		_, err := r.q.Exec(ctx, qi,
			it.ID, n.ID, nullIfEmpty(it.ProductID), it.Description,
			it.Quantity, it.UnitPrice, it.DiscountPercent, it.LineTotal, it.SortOrder,
		)
		if err != nil {
			return wrapErr(err, "insert note item")
		}
	}
	return nil
}

func (r *CreditNoteRepo) GetByID(ctx context.Context, id string) (*entity.CreditNote, error) {
	return r.get(ctx, id, "")
}

func (r *CreditNoteRepo) GetForUpdate(ctx context.Context, id string) (*entity.CreditNote, error) {
	return r.get(ctx, id, " FOR UPDATE OF n")
}

func (r *CreditNoteRepo) get(ctx context.Context, id, lock string) (*entity.CreditNote, error) {
	n, err := scanCreditNote(r.q.QueryRow(ctx, creditNoteSelect+` AND n.id = $2`+lock, r.tenantID, id))
	if err != nil {
		return nil, wrapErr(err, fmt.Sprintf("get note %s", id))
	}
	if n.Items, err = r.items(ctx, n.ID); err != nil {
		return nil, err
	}
	if n.Allocations, err = r.allocations(ctx, n.ID); err != nil {
		return nil, err
	}
	return n, nil
}

// Update writes status, application progress and lifecycle stamps. Lines and the
// number are immutable.
func (r *CreditNoteRepo) Update(ctx context.Context, n *entity.CreditNote) error {
	const q = `
		UPDATE credit_notes
		SET status              = $3,
		    applied_amount      = $4,
		    unapplied_amount    = $5,
		    cancellation_reason = $6,
		    issued_at           = $7,
		    cancelled_at        = $8,
		    deleted_at          = $9,
		    updated_at          = $10
		WHERE tenant_id = $1 AND id = $2 AND deleted_at IS NULL`
	cmd, err := r.q.Exec(ctx, q,
		r.tenantID, n.ID, n.Status, n.AppliedAmount, n.UnappliedAmount, n.CancellationReason,
		n.IssuedAt, n.CancelledAt, n.DeletedAt, n.UpdatedAt,
	)
	if err != nil {
		return wrapErr(err, fmt.Sprintf("update note %s", n.Number))
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("note %s: %w", n.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *CreditNoteRepo) AddAllocation(ctx context.Context, a *entity.CreditNoteAllocation) error {
	const q = `
		INSERT INTO credit_note_allocations (id, tenant_id, credit_note_id, invoice_id, amount, allocated_by, allocated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	a.TenantID = r.tenantID
	_, err := r.q.Exec(ctx, q, a.ID, r.tenantID, a.CreditNoteID, a.InvoiceID, a.Amount, a.AllocatedBy, a.AllocatedAt)
	if err != nil {
		return wrapErr(err, "insert allocation")
	}
	return nil
}

func (r *CreditNoteRepo) CountAllocations(ctx context.Context, noteID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT count(*) FROM credit_note_allocations WHERE tenant_id = $1 AND credit_note_id = $2`,
		r.tenantID, noteID).Scan(&n)
	if err != nil {
		return 0, wrapErr(err, "count allocations")
	}
	return n, nil
}

// List returns headers only, newest first.
func (r *CreditNoteRepo) List(ctx context.Context, f repository.CreditNoteFilter) ([]*entity.CreditNote, error) {
	w := newWhere(r.tenantID)
	if f.Type != "" {
		w.add("n.type = $%d", f.Type)
	}
	if f.Status != "" {
		w.add("n.status = $%d", f.Status)
	}
	if f.ContactID != "" {
		w.add("n.contact_id = $%d", f.ContactID)
	}
	q := creditNoteSelect + w.sql() + ` ORDER BY n.date DESC, n.created_at DESC` + w.page(f.Page.Normalize())
	rows, err := r.q.Query(ctx, q, w.args...)
	if err != nil {
		return nil, wrapErr(err, "list notes")
	}
	defer rows.Close()
	var list []*entity.CreditNote
	for rows.Next() {
		n, err := scanCreditNote(rows)
		if err != nil {
			return nil, wrapErr(err, "scan note")
		}
		list = append(list, n)
	}
	return list, rows.Err()
}

func (r *CreditNoteRepo) items(ctx context.Context, noteID string) ([]entity.CreditNoteItem, error) {
	const q = `
		SELECT id, credit_note_id, COALESCE(product_id::text, ''), description, quantity, unit_price, discount_percent, line_total, sort_order
		FROM credit_note_items WHERE credit_note_id = $1 ORDER BY sort_order`
	rows, err := r.q.Query(ctx, q, noteID)
	if err != nil {
		return nil, wrapErr(err, "list note items")
	}
	defer rows.Close()
	var items []entity.CreditNoteItem
	for rows.Next() {
		var it entity.CreditNoteItem
		if err := rows.Scan(
			&it.ID, &it.CreditNoteID, &it.ProductID, &it.Description,
			&it.Quantity, &it.UnitPrice, &it.DiscountPercent, &it.LineTotal, &it.SortOrder,
		); err != nil {
			return nil, wrapErr(err, "scan note item")
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *CreditNoteRepo) allocations(ctx context.Context, noteID string) ([]entity.CreditNoteAllocation, error) {
	const q = `
		SELECT id, tenant_id, credit_note_id, invoice_id, amount, allocated_by, allocated_at
		FROM credit_note_allocations WHERE tenant_id = $1 AND credit_note_id = $2 ORDER BY allocated_at`
	rows, err := r.q.Query(ctx, q, r.tenantID, noteID)
	if err != nil {
		return nil, wrapErr(err, "list allocations")
	}
	defer rows.Close()
	var list []entity.CreditNoteAllocation
	for rows.Next() {
		var a entity.CreditNoteAllocation
		if err := rows.Scan(&a.ID, &a.TenantID, &a.CreditNoteID, &a.InvoiceID, &a.Amount, &a.AllocatedBy, &a.AllocatedAt); err != nil {
			return nil, wrapErr(err, "scan allocation")
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func scanCreditNote(row pgxScanner) (*entity.CreditNote, error) {
	var (
		n            entity.CreditNote
		name, nameAr string
	)
	err := row.Scan(
		&n.ID, &n.TenantID, &n.Type, &n.Number, &n.ContactID, &name, &nameAr,
		&n.ContactType, &n.OriginalInvoiceID, &n.Status, &n.Date,
		&n.Currency, &n.ExchangeRate, &n.TaxRate, &n.Subtotal, &n.TaxAmount, &n.Total, &n.TotalLBP,
		&n.AppliedAmount, &n.UnappliedAmount, &n.Reason, &n.CancellationReason,
		&n.IssuedAt, &n.CancelledAt, &n.CreatedBy, &n.DeletedAt, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	n.Contact = &entity.ContactRef{ID: n.ContactID, Name: name, NameAr: nameAr}
	return &n, nil
}
