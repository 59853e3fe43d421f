// Package inventory derives product stock and cost changes from confirmed documents.
package inventory

import (
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// StockChange is one product effect of an invoice line.
type StockChange struct {
	ProductID string
	Quantity  decimal.Decimal // signed
	UnitCost  decimal.Decimal
	Currency  entity.Currency
	SetCost   bool
}

// ConfirmChanges returns the effects of confirming an invoice: inbound invoices add
// each linked line's quantity to stock and overwrite the product cost with the line
// price (last invoice wins, no weighted average). Other invoice types have none.
func ConfirmChanges(inv *entity.Invoice) []StockChange {
	if !inv.Type.IsInbound() {
		return nil
	}
	var out []StockChange
	for _, it := range inv.Items {
		if it.ProductID == "" {
			continue
		}
		out = append(out, StockChange{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitCost:  it.UnitPrice,
			Currency:  inv.Currency,
			SetCost:   true,
		})
	}
	return out
}

// CancelChanges mirrors ConfirmChanges with inverse quantities. Cost is left as is.
func CancelChanges(inv *entity.Invoice) []StockChange {
	in := ConfirmChanges(inv)
	for i := range in {
		in[i].Quantity = in[i].Quantity.Neg()
		in[i].SetCost = false
	}
	return in
}
