package billing

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jhoicas/ledger-api/internal/application/contact"
	"github.com/jhoicas/ledger-api/internal/application/dto"
	"github.com/jhoicas/ledger-api/internal/application/numbering"
	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/accounting"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// Create prices the invoice, takes its internal number and stores it as a draft.
// With Status "pending" the invoice is confirmed in the same transaction.
func (s *Service) Create(ctx context.Context, tenantID, userID string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	invType := entity.InvoiceType(in.Type)
	if !invType.IsValid() {
		return nil, fmt.Errorf("%w: invoice type %q", domain.ErrValidation, in.Type)
	}
	if invType != entity.InvoiceTypeExpense && in.ContactID == "" {
		return nil, fmt.Errorf("%w: %s invoices need a contact", domain.ErrValidation, invType)
	}
	confirm := false
	switch entity.InvoiceStatus(in.Status) {
	case "", entity.InvoiceStatusDraft:
	case entity.InvoiceStatusPending:
		confirm = true
	default:
		return nil, fmt.Errorf("%w: invoices are created as draft or pending", domain.ErrValidation)
	}

	now := s.now()
	date, err := dto.ParseDate(in.Date, now)
	if err != nil {
		return nil, err
	}
	dueDate, err := dto.ParseOptionalDate(in.DueDate)
	if err != nil {
		return nil, err
	}

	inv := &entity.Invoice{
		ID:                    uuid.New().String(),
		TenantID:              tenantID,
		Type:                  invType,
		SupplierInvoiceNumber: strings.TrimSpace(in.SupplierInvoiceNumber),
		ContactID:             in.ContactID,
		Status:                entity.InvoiceStatusDraft,
		Date:                  date,
		DueDate:               dueDate,
		Currency:              entity.Currency(in.Currency),
		ExchangeRate:          in.ExchangeRate,
		DiscountType:          entity.DiscountType(in.DiscountType),
		DiscountValue:         in.DiscountValue,
		TaxRate:               in.TaxRate,
		AmountPaid:            decimal.Zero,
		Notes:                 in.Notes,
		CreatedBy:             userID,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if err := s.price(inv, in.Items); err != nil {
		return nil, err
	}

	err = s.tx.Run(ctx, tenantID, func(r repository.Repos) error {
		if err := checkReferences(ctx, r, inv); err != nil {
			return err
		}
		number, err := numbering.Next(ctx, r.Sequences, invType.DocumentType(), inv.Date)
		if err != nil {
			return err
		}
		inv.InternalNumber = number
		if err := r.Invoices.Create(ctx, inv); err != nil {
			return err
		}
		if confirm {
			return confirmInTx(ctx, r, inv, now)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("tenant_id", tenantID).Str("invoice", inv.InternalNumber).
		Str("status", string(inv.Status)).Str("total", inv.Total.StringFixed(2)).Msg("invoice created")
	return ToResponse(inv), nil
}

// Update edits a draft. Totals are always recomputed and the lines rewritten; a
// non-nil Items replaces them, otherwise the current lines are repriced.
func (s *Service) Update(ctx context.Context, tenantID, id string, in dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	var inv *entity.Invoice
	err := s.tx.Run(ctx, tenantID, func(r repository.Repos) error {
		var err error
		inv, err = r.Invoices.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := inv.EnsureEditable(); err != nil {
			return err
		}
		if err := applyUpdate(inv, in); err != nil {
			return err
		}
		items := in.Items
		if items == nil {
			items = itemRequests(inv.Items)
		}
		if err := s.price(inv, items); err != nil {
			return err
		}
		if inv.Type != entity.InvoiceTypeExpense && inv.ContactID == "" {
			return fmt.Errorf("%w: %s invoices need a contact", domain.ErrValidation, inv.Type)
		}
		if err := checkReferences(ctx, r, inv); err != nil {
			return err
		}
		inv.UpdatedAt = s.now()
		if err := r.Invoices.Update(ctx, inv); err != nil {
			return err
		}
		return r.Invoices.ReplaceItems(ctx, inv.ID, inv.Items)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("tenant_id", tenantID).Str("invoice", inv.InternalNumber).Msg("invoice updated")
	return ToResponse(inv), nil
}

func applyUpdate(inv *entity.Invoice, in dto.UpdateInvoiceRequest) error {
	if in.ContactID != nil {
		inv.ContactID = *in.ContactID
	}
	if in.SupplierInvoiceNumber != nil {
		inv.SupplierInvoiceNumber = strings.TrimSpace(*in.SupplierInvoiceNumber)
	}
	if in.Date != nil {
		d, err := dto.ParseDate(*in.Date, inv.Date)
		if err != nil {
			return err
		}
		inv.Date = d
	}
	if in.DueDate != nil {
		d, err := dto.ParseOptionalDate(*in.DueDate)
		if err != nil {
			return err
		}
		inv.DueDate = d
	}
	if in.Currency != nil {
		inv.Currency = entity.Currency(*in.Currency)
	}
	if in.ExchangeRate != nil {
		inv.ExchangeRate = *in.ExchangeRate
	}
	if in.DiscountType != nil {
		inv.DiscountType = entity.DiscountType(*in.DiscountType)
	}
	if in.DiscountValue != nil {
		inv.DiscountValue = *in.DiscountValue
	}
	if in.TaxRate != nil {
		inv.TaxRate = *in.TaxRate
	}
	if in.Notes != nil {
		inv.Notes = *in.Notes
	}
	return nil
}

// price resolves the exchange rate, rebuilds the lines and fills every total. Only
// drafts are priced, so Balance is the full Total.
func (s *Service) price(inv *entity.Invoice, items []dto.InvoiceItemRequest) error {
	rate, err := accounting.ResolveRate(inv.ExchangeRate, s.defaultRate)
	if err != nil {
		return err
	}
	inv.ExchangeRate = rate

	lines := make([]accounting.Line, len(items))
	for i, it := range items {
		lines[i] = accounting.Line{Quantity: it.Quantity, UnitPrice: it.UnitPrice, DiscountPercent: it.DiscountPercent}
	}
	totals, err := accounting.ComputeTotals(lines,
		accounting.Discount{Type: inv.DiscountType, Value: inv.DiscountValue},
		inv.TaxRate, inv.Currency, rate)
	if err != nil {
		return err
	}

	inv.Items = make([]entity.InvoiceItem, len(items))
	for i, it := range items {
		inv.Items[i] = entity.InvoiceItem{
			ID:              uuid.New().String(),
			InvoiceID:       inv.ID,
			ProductID:       it.ProductID,
			Description:     strings.TrimSpace(it.Description),
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			DiscountPercent: it.DiscountPercent,
			LineTotal:       totals.LineTotals[i],
			SortOrder:       i + 1,
		}
	}
	inv.Subtotal = totals.Subtotal
	inv.DiscountAmount = totals.DiscountAmount
	inv.TaxAmount = totals.TaxAmount
	inv.Total = totals.Total
	inv.TotalLBP = totals.TotalLBP
	inv.Balance = totals.Total.Sub(inv.AmountPaid)
	return nil
}

// checkReferences verifies the contact role and that every linked product belongs to the tenant.
func checkReferences(ctx context.Context, r repository.Repos, inv *entity.Invoice) error {
	if inv.ContactID != "" {
		role := entity.ContactTypeSupplier
		if inv.Type == entity.InvoiceTypeSale {
			role = entity.ContactTypeCustomer
		}
		if _, err := contact.RequireRole(ctx, r.Contacts, inv.ContactID, role); err != nil {
			return err
		}
	}
	seen := map[string]bool{}
	for _, it := range inv.Items {
		if it.ProductID == "" || seen[it.ProductID] {
			continue
		}
		seen[it.ProductID] = true
		if _, err := r.Products.GetByID(ctx, it.ProductID); err != nil {
			return fmt.Errorf("product %s: %w", it.ProductID, err)
		}
	}
	return nil
}

func itemRequests(items []entity.InvoiceItem) []dto.InvoiceItemRequest {
	out := make([]dto.InvoiceItemRequest, len(items))
	for i, it := range items {
		out[i] = dto.InvoiceItemRequest{
			ProductID:       it.ProductID,
			Description:     it.Description,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			DiscountPercent: it.DiscountPercent,
		}
	}
	return out
}
