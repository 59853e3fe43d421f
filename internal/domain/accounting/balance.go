package accounting

import (
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// BalanceDelta is a change to a contact's two balance legs.
type BalanceDelta struct {
	USD decimal.Decimal
	LBP decimal.Decimal
}

// Legs splits a document amount into contact balance legs. USD documents move both
// legs (LBP by amountLBP); LBP documents move only the LBP leg.
func Legs(currency entity.Currency, amount, amountLBP decimal.Decimal) BalanceDelta {
	if currency == entity.CurrencyUSD {
		return BalanceDelta{USD: amount, LBP: amountLBP}
	}
	return BalanceDelta{USD: decimal.Zero, LBP: amount}
}

// Neg returns the inverse delta.
func (d BalanceDelta) Neg() BalanceDelta {
	return BalanceDelta{USD: d.USD.Neg(), LBP: d.LBP.Neg()}
}

// IsZero reports whether applying d changes nothing.
func (d BalanceDelta) IsZero() bool { return d.USD.IsZero() && d.LBP.IsZero() }

// NoteSign returns the direction an issued note moves the contact balance:
// credit notes reduce it and debit notes increase it, for customers and suppliers alike.
func NoteSign(noteType entity.NoteType) int {
	if noteType == entity.NoteTypeDebit {
		return 1
	}
	return -1
}

// NoteDelta is the contact balance change performed when a note is issued.
func NoteDelta(n *entity.CreditNote) BalanceDelta {
	d := Legs(n.Currency, n.Total, n.TotalLBP)
	if NoteSign(n.Type) < 0 {
		return d.Neg()
	}
	return d
}
