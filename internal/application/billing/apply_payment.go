package billing

import (
	"context"
	"time"

	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ApplyPayment locks the invoice and adds amount to its paid total (or removes it
// when isVoid), deriving balance and status. Payments and credit note applications
// both settle invoices through here, inside their own transaction.
func ApplyPayment(ctx context.Context, invoices repository.InvoiceRepository, invoiceID string, amount decimal.Decimal, isVoid bool, now time.Time) (*entity.Invoice, error) {
	inv, err := invoices.GetForUpdate(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := inv.ApplyPayment(amount, isVoid, now); err != nil {
		return nil, err
	}
	if err := invoices.Update(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}
