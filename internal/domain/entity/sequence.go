package entity

import (
	"fmt"
	"time"
)

// DocumentType identifies a numbering series.
type DocumentType string

const (
	DocPurchaseInvoice DocumentType = "purchase_invoice"
	DocExpenseInvoice  DocumentType = "expense_invoice"
	DocSaleInvoice     DocumentType = "sale_invoice"
	DocPayment         DocumentType = "payment"
	DocCreditNote      DocumentType = "credit_note"
	DocDebitNote       DocumentType = "debit_note"
)

var documentPrefixes = map[DocumentType]string{
	DocPurchaseInvoice: "PUR",
	DocExpenseInvoice:  "EXP",
	DocSaleInvoice:     "INV",
	DocPayment:         "PAY",
	DocCreditNote:      "CN",
	DocDebitNote:       "DN",
}

// DocumentTypes lists every numbering series in display order.
func DocumentTypes() []DocumentType {
	return []DocumentType{DocPurchaseInvoice, DocExpenseInvoice, DocSaleInvoice, DocPayment, DocCreditNote, DocDebitNote}
}

// IsValid reports whether d is a known document type.
func (d DocumentType) IsValid() bool {
	_, ok := documentPrefixes[d]
	return ok
}

// DefaultPrefix returns the prefix used when a series is created lazily.
func (d DocumentType) DefaultPrefix() string {
	return documentPrefixes[d]
}

// Sequence is the per (tenant, document type, year) counter. CurrentNumber is the
// last number handed out; numbers are never reused.
type Sequence struct {
	ID            string
	TenantID      string
	DocumentType  DocumentType
	Year          int
	Prefix        string
	CurrentNumber int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// FormatDocumentNumber renders PREFIX-YEAR-00001.
func FormatDocumentNumber(prefix string, year int, n int64) string {
	return fmt.Sprintf("%s-%d-%05d", prefix, year, n)
}
