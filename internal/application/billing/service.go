// Package billing owns the invoice lifecycle: totals, status transitions and the
// payment progress shared by cash payments and credit note applications.
package billing

import (
	"context"
	"time"

	"github.com/jhoicas/ledger-api/internal/application/contact"
	"github.com/jhoicas/ledger-api/internal/application/dto"
	"github.com/jhoicas/ledger-api/internal/application/ports"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Service runs invoice use cases.
type Service struct {
	tx          ports.TxRunner
	log         zerolog.Logger
	defaultRate decimal.Decimal
	now         func() time.Time
}

// NewService builds the invoice service. defaultRate is the flat USD->LBP rate used
// when a document carries no rate of its own.
func NewService(tx ports.TxRunner, log zerolog.Logger, defaultRate decimal.Decimal) *Service {
	return &Service{tx: tx, log: log, defaultRate: defaultRate, now: func() time.Time { return time.Now().UTC() }}
}

// Get returns an invoice with its lines and contact display fields.
func (s *Service) Get(ctx context.Context, tenantID, id string) (*dto.InvoiceResponse, error) {
	inv, err := s.tx.Repos(tenantID).Invoices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToResponse(inv), nil
}

// List returns invoice headers matching the filter.
func (s *Service) List(ctx context.Context, tenantID string, in dto.ListInvoicesRequest) ([]dto.InvoiceResponse, error) {
	from, err := dto.ParseOptionalDate(in.From)
	if err != nil {
		return nil, err
	}
	to, err := dto.ParseOptionalDate(in.To)
	if err != nil {
		return nil, err
	}
	list, err := s.tx.Repos(tenantID).Invoices.List(ctx, repository.InvoiceFilter{
		Type:      entity.InvoiceType(in.Type),
		Status:    entity.InvoiceStatus(in.Status),
		ContactID: in.ContactID,
		From:      from,
		To:        to,
		Page:      repository.Page{Limit: in.Limit, Offset: in.Offset}.Normalize(),
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, *ToResponse(inv))
	}
	return out, nil
}

// ToResponse maps an invoice projection.
func ToResponse(inv *entity.Invoice) *dto.InvoiceResponse {
	res := &dto.InvoiceResponse{
		ID:                    inv.ID,
		Type:                  string(inv.Type),
		InternalNumber:        inv.InternalNumber,
		SupplierInvoiceNumber: inv.SupplierInvoiceNumber,
		Contact:               contact.ToRef(inv.Contact),
		Status:                string(inv.Status),
		Date:                  dto.FormatDate(inv.Date),
		DueDate:               dto.FormatOptionalDate(inv.DueDate),
		Currency:              inv.Currency.String(),
		ExchangeRate:          inv.ExchangeRate,
		DiscountType:          string(inv.DiscountType),
		DiscountValue:         inv.DiscountValue,
		TaxRate:               inv.TaxRate,
		Subtotal:              inv.Subtotal,
		DiscountAmount:        inv.DiscountAmount,
		TaxAmount:             inv.TaxAmount,
		Total:                 inv.Total,
		TotalLBP:              inv.TotalLBP,
		AmountPaid:            inv.AmountPaid,
		Balance:               inv.Balance,
		Notes:                 inv.Notes,
		CreatedAt:             inv.CreatedAt,
	}
	for _, it := range inv.Items {
		res.Items = append(res.Items, dto.InvoiceItemResponse{
			ID:              it.ID,
			ProductID:       it.ProductID,
			Description:     it.Description,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			DiscountPercent: it.DiscountPercent,
			LineTotal:       it.LineTotal,
		})
	}
	return res
}
