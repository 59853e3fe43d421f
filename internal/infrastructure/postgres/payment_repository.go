package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo implements PaymentRepository over PostgreSQL (pool or tx).
type PaymentRepo struct {
	q        Querier
	tenantID string
}

// NewPaymentRepository builds the adapter bound to tenantID.
func NewPaymentRepository(q Querier, tenantID string) *PaymentRepo {
	return &PaymentRepo{q: q, tenantID: tenantID}
}

const paymentSelect = `
	SELECT p.id, p.tenant_id, p.type, p.payment_number,
	       COALESCE(p.contact_id::text, ''), COALESCE(c.name, ''), COALESCE(c.name_ar, ''),
	       COALESCE(p.invoice_id::text, ''), p.account_id,
	       p.amount, p.currency, p.exchange_rate, p.amount_lbp, p.account_amount, p.applied_amount,
	       p.payment_method, p.reference, p.notes, p.date, p.created_by,
	       p.voided_at, p.voided_by, p.created_at, p.updated_at
	FROM payments p
	LEFT JOIN contacts c ON c.id = p.contact_id AND c.tenant_id = p.tenant_id
	WHERE p.tenant_id = $1`

func (r *PaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	const q = `
		INSERT INTO payments (
			id, tenant_id, type, payment_number, contact_id, invoice_id, account_id,
			amount, currency, exchange_rate, amount_lbp, account_amount, applied_amount,
			payment_method, reference, notes, date, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
	p.TenantID = r.tenantID
	_, err := r.q.Exec(ctx, q,
		p.ID, r.tenantID, p.Type, p.PaymentNumber, nullIfEmpty(p.ContactID), nullIfEmpty(p.InvoiceID), p.AccountID,
		p.Amount, p.Currency, p.ExchangeRate, p.AmountLBP, p.AccountAmount, p.AppliedAmount,
		p.Method, p.Reference, p.Notes, dateOnly(p.Date), p.CreatedBy, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return wrapErr(err, fmt.Sprintf("insert payment %s", p.PaymentNumber))
	}
	return nil
}

func (r *PaymentRepo) GetByID(ctx context.Context, id string) (*entity.Payment, error) {
	return r.get(ctx, id, "")
}

func (r *PaymentRepo) GetForUpdate(ctx context.Context, id string) (*entity.Payment, error) {
	return r.get(ctx, id, " FOR UPDATE OF p")
}

func (r *PaymentRepo) get(ctx context.Context, id, lock string) (*entity.Payment, error) {
	p, err := scanPayment(r.q.QueryRow(ctx, paymentSelect+` AND p.id = $2`+lock, r.tenantID, id))
	if err != nil {
		return nil, wrapErr(err, fmt.Sprintf("get payment %s", id))
	}
	return p, nil
}

// MarkVoided stamps the void marker once. A second void affects no row and fails
// with domain.ErrInvalidState.
func (r *PaymentRepo) MarkVoided(ctx context.Context, p *entity.Payment) error {
	const q = `
		UPDATE payments SET voided_at = $3, voided_by = $4, updated_at = $5
		WHERE tenant_id = $1 AND id = $2 AND voided_at IS NULL`
	cmd, err := r.q.Exec(ctx, q, r.tenantID, p.ID, p.VoidedAt, p.VoidedBy, p.UpdatedAt)
	if err != nil {
		return wrapErr(err, fmt.Sprintf("void payment %s", p.PaymentNumber))
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: payment %s is already voided", domain.ErrInvalidState, p.PaymentNumber)
	}
	return nil
}

// List returns payments newest first. Voided payments are skipped unless asked for.
func (r *PaymentRepo) List(ctx context.Context, f repository.PaymentFilter) ([]*entity.Payment, error) {
	w := newWhere(r.tenantID)
	if f.Type != "" {
		w.add("p.type = $%d", f.Type)
	}
	if f.ContactID != "" {
		w.add("p.contact_id = $%d", f.ContactID)
	}
	if f.InvoiceID != "" {
		w.add("p.invoice_id = $%d", f.InvoiceID)
	}
	if f.AccountID != "" {
		w.add("p.account_id = $%d", f.AccountID)
	}
	if !f.IncludeVoided {
		w.raw("p.voided_at IS NULL")
	}
	if f.From != nil {
		w.add("p.date >= $%d", dateOnly(*f.From))
	}
	if f.To != nil {
		w.add("p.date <= $%d", dateOnly(*f.To))
	}
	q := paymentSelect + w.sql() + ` ORDER BY p.date DESC, p.created_at DESC` + w.page(f.Page.Normalize())
	rows, err := r.q.Query(ctx, q, w.args...)
	if err != nil {
		return nil, wrapErr(err, "list payments")
	}
	defer rows.Close()
	var list []*entity.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, wrapErr(err, "scan payment")
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func scanPayment(row pgxScanner) (*entity.Payment, error) {
	var (
		p            entity.Payment
		name, nameAr string
	)
	err := row.Scan(
		&p.ID, &p.TenantID, &p.Type, &p.PaymentNumber,
		&p.ContactID, &name, &nameAr,
		&p.InvoiceID, &p.AccountID,
		&p.Amount, &p.Currency, &p.ExchangeRate, &p.AmountLBP, &p.AccountAmount, &p.AppliedAmount,
		&p.Method, &p.Reference, &p.Notes, &p.Date, &p.CreatedBy,
		&p.VoidedAt, &p.VoidedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if p.ContactID != "" {
		p.Contact = &entity.ContactRef{ID: p.ContactID, Name: name, NameAr: nameAr}
	}
	return &p, nil
}
