// Package creditnote issues credit and debit notes against contact balances and
// applies credit notes to open invoices.
package creditnote

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/ledger-api/internal/application/billing"
	"github.com/jhoicas/ledger-api/internal/application/contact"
	"github.com/jhoicas/ledger-api/internal/application/dto"
	"github.com/jhoicas/ledger-api/internal/application/numbering"
	"github.com/jhoicas/ledger-api/internal/application/ports"
	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/accounting"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Service runs credit/debit note use cases.
type Service struct {
	tx          ports.TxRunner
	log         zerolog.Logger
	defaultRate decimal.Decimal
	now         func() time.Time
}

// NewService builds the note service.
func NewService(tx ports.TxRunner, log zerolog.Logger, defaultRate decimal.Decimal) *Service {
	return &Service{tx: tx, log: log, defaultRate: defaultRate, now: func() time.Time { return time.Now().UTC() }}
}

// Create prices a note from its lines (no header discount) and stores it as a draft.
func (s *Service) Create(ctx context.Context, tenantID, userID string, in dto.CreateCreditNoteRequest) (*dto.CreditNoteResponse, error) {
	noteType := entity.NoteType(in.Type)
	if !noteType.IsValid() {
		return nil, fmt.Errorf("%w: note type %q", domain.ErrValidation, in.Type)
	}
	contactType := entity.ContactType(in.ContactType)
	if contactType != entity.ContactTypeCustomer && contactType != entity.ContactTypeSupplier {
		return nil, fmt.Errorf("%w: contact type must be customer or supplier", domain.ErrValidation)
	}
	currency := entity.Currency(in.Currency)
	rate, err := accounting.ResolveRate(in.ExchangeRate, s.defaultRate)
	if err != nil {
		return nil, err
	}
	lines := make([]accounting.Line, len(in.Items))
	for i, it := range in.Items {
		lines[i] = accounting.Line{Quantity: it.Quantity, UnitPrice: it.UnitPrice, DiscountPercent: it.DiscountPercent}
	}
	totals, err := accounting.ComputeTotals(lines, accounting.Discount{}, in.TaxRate, currency, rate)
	if err != nil {
		return nil, err
	}
	now := s.now()
	date, err := dto.ParseDate(in.Date, now)
	if err != nil {
		return nil, err
	}

	n := &entity.CreditNote{
		ID:                uuid.New().String(),
		TenantID:          tenantID,
		Type:              noteType,
		ContactID:         in.ContactID,
		ContactType:       contactType,
		OriginalInvoiceID: in.OriginalInvoiceID,
		Status:            entity.NoteStatusDraft,
		Date:              date,
		Currency:          currency,
		ExchangeRate:      rate,
		TaxRate:           in.TaxRate,
		Subtotal:          totals.Subtotal,
		TaxAmount:         totals.TaxAmount,
		Total:             totals.Total,
		TotalLBP:          totals.TotalLBP,
		AppliedAmount:     decimal.Zero,
		UnappliedAmount:   totals.Total,
		Reason:            strings.TrimSpace(in.Reason),
		CreatedBy:         userID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	for i, it := range in.Items {
		n.Items = append(n.Items, entity.CreditNoteItem{
			ID:              uuid.New().String(),
			CreditNoteID:    n.ID,
			ProductID:       it.ProductID,
			Description:     strings.TrimSpace(it.Description),
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			DiscountPercent: it.DiscountPercent,
			LineTotal:       totals.LineTotals[i],
			SortOrder:       i + 1,
		})
	}

	err = s.tx.Run(ctx, tenantID, func(r repository.Repos) error {
		c, err := contact.RequireRole(ctx, r.Contacts, n.ContactID, contactType)
		if err != nil {
			return err
		}
		n.Contact = &entity.ContactRef{ID: c.ID, Name: c.Name, NameAr: c.NameAr}
		if n.OriginalInvoiceID != "" {
			inv, err := r.Invoices.GetByID(ctx, n.OriginalInvoiceID)
			if err != nil {
				return err
			}
			if inv.ContactID != n.ContactID {
				return fmt.Errorf("%w: invoice %s belongs to another contact", domain.ErrValidation, inv.InternalNumber)
			}
		}
		n.Number, err = numbering.Next(ctx, r.Sequences, noteType.DocumentType(), n.Date)
		if err != nil {
			return err
		}
		return r.CreditNotes.Create(ctx, n)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("tenant_id", tenantID).Str("note", n.Number).Str("total", n.Total.StringFixed(2)).Msg("note created")
	return ToResponse(n), nil
}

// Issue moves a draft to issued and adjusts the contact balance: credit notes
// reduce it and debit notes increase it.
func (s *Service) Issue(ctx context.Context, tenantID, id string) (*dto.CreditNoteResponse, error) {
	var n *entity.CreditNote
	err := s.tx.Run(ctx, tenantID, func(r repository.Repos) error {
		var err error
		n, err = r.CreditNotes.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := n.Issue(s.now()); err != nil {
			return err
		}
		if err := contact.AdjustBalance(ctx, r.Contacts, n.ContactID, accounting.NoteDelta(n)); err != nil {
			return err
		}
		return r.CreditNotes.Update(ctx, n)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("tenant_id", tenantID).Str("note", n.Number).Msg("note issued")
	return ToResponse(n), nil
}

// Apply allocates part of an issued credit note to an open invoice of the same
// contact and currency. The invoice is settled the same way a cash payment settles it.
func (s *Service) Apply(ctx context.Context, tenantID, userID, id string, in dto.ApplyCreditNoteRequest) (*dto.CreditNoteResponse, error) {
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: applied amount must be positive", domain.ErrValidation)
	}
	if err := accounting.CheckMoney(in.Amount, "applied amount"); err != nil {
		return nil, err
	}
	var n *entity.CreditNote
	var invNumber string
	err := s.tx.Run(ctx, tenantID, func(r repository.Repos) error {
		var err error
		n, err = r.CreditNotes.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		inv, err := r.Invoices.GetForUpdate(ctx, in.InvoiceID)
		if err != nil {
			return err
		}
		invNumber = inv.InternalNumber
		if inv.ContactID != n.ContactID {
			return fmt.Errorf("%w: invoice %s belongs to another contact", domain.ErrValidation, inv.InternalNumber)
		}
		if inv.Currency != n.Currency {
			return fmt.Errorf("%w: note is in %s, invoice %s is in %s", domain.ErrValidation, n.Currency, inv.InternalNumber, inv.Currency)
		}
		if inv.Status != entity.InvoiceStatusPending && inv.Status != entity.InvoiceStatusPartial {
			return fmt.Errorf("%w: invoice %s is %s", domain.ErrInvalidState, inv.InternalNumber, inv.Status)
		}
		if in.Amount.GreaterThan(inv.Balance) {
			return fmt.Errorf("%w: amount %s exceeds invoice %s balance %s",
				domain.ErrInsufficientBalance, in.Amount.StringFixed(2), inv.InternalNumber, inv.Balance.StringFixed(2))
		}

		now := s.now()
		if err := n.Allocate(in.Amount, now); err != nil {
			return err
		}
		alloc := entity.CreditNoteAllocation{
			ID:           uuid.New().String(),
			TenantID:     tenantID,
			CreditNoteID: n.ID,
			InvoiceID:    inv.ID,
			Amount:       in.Amount,
			AllocatedBy:  userID,
			AllocatedAt:  now,
		}
		if err := r.CreditNotes.AddAllocation(ctx, &alloc); err != nil {
			return err
		}
		n.Allocations = append(n.Allocations, alloc)
		if err := r.CreditNotes.Update(ctx, n); err != nil {
			return err
		}
		_, err = billing.ApplyPayment(ctx, r.Invoices, inv.ID, in.Amount, false, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("tenant_id", tenantID).Str("note", n.Number).Str("invoice", invNumber).
		Str("amount", in.Amount.StringFixed(2)).Msg("note applied")
	return ToResponse(n), nil
}

// Cancel cancels a note with no allocations. An issued note has its balance
// adjustment reversed.
func (s *Service) Cancel(ctx context.Context, tenantID, id, reason string) (*dto.CreditNoteResponse, error) {
	var n *entity.CreditNote
	err := s.tx.Run(ctx, tenantID, func(r repository.Repos) error {
		var err error
		n, err = r.CreditNotes.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		allocs, err := r.CreditNotes.CountAllocations(ctx, n.ID)
		if err != nil {
			return err
		}
		wasIssued, err := n.Cancel(strings.TrimSpace(reason), allocs > 0, s.now())
		if err != nil {
			return err
		}
		if wasIssued {
			if err := contact.AdjustBalance(ctx, r.Contacts, n.ContactID, accounting.NoteDelta(n).Neg()); err != nil {
				return err
			}
		}
		return r.CreditNotes.Update(ctx, n)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("tenant_id", tenantID).Str("note", n.Number).Msg("note cancelled")
	return ToResponse(n), nil
}

// Delete soft-deletes a draft.
func (s *Service) Delete(ctx context.Context, tenantID, id string) error {
	return s.tx.Run(ctx, tenantID, func(r repository.Repos) error {
		n, err := r.CreditNotes.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := n.MarkDeleted(s.now()); err != nil {
			return err
		}
		return r.CreditNotes.Update(ctx, n)
	})
}

// Get returns a note with items, allocations and contact display fields.
func (s *Service) Get(ctx context.Context, tenantID, id string) (*dto.CreditNoteResponse, error) {
	n, err := s.tx.Repos(tenantID).CreditNotes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToResponse(n), nil
}

// List returns note headers matching the filter.
func (s *Service) List(ctx context.Context, tenantID string, in dto.ListCreditNotesRequest) ([]dto.CreditNoteResponse, error) {
	list, err := s.tx.Repos(tenantID).CreditNotes.List(ctx, repository.CreditNoteFilter{
		Type:      entity.NoteType(in.Type),
		Status:    entity.NoteStatus(in.Status),
		ContactID: in.ContactID,
		Page:      repository.Page{Limit: in.Limit, Offset: in.Offset}.Normalize(),
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.CreditNoteResponse, 0, len(list))
	for _, n := range list {
		out = append(out, *ToResponse(n))
	}
	return out, nil
}

// ToResponse maps a note projection.
func ToResponse(n *entity.CreditNote) *dto.CreditNoteResponse {
	res := &dto.CreditNoteResponse{
		ID:                 n.ID,
		Type:               string(n.Type),
		Number:             n.Number,
		Contact:            contact.ToRef(n.Contact),
		ContactType:        string(n.ContactType),
		OriginalInvoiceID:  n.OriginalInvoiceID,
		Status:             string(n.Status),
		Date:               dto.FormatDate(n.Date),
		Currency:           n.Currency.String(),
		ExchangeRate:       n.ExchangeRate,
		Subtotal:           n.Subtotal,
		TaxAmount:          n.TaxAmount,
		Total:              n.Total,
		TotalLBP:           n.TotalLBP,
		AppliedAmount:      n.AppliedAmount,
		UnappliedAmount:    n.UnappliedAmount,
		Reason:             n.Reason,
		CancellationReason: n.CancellationReason,
		CreatedAt:          n.CreatedAt,
	}
	for _, it := range n.Items {
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
	for _, a := range n.Allocations {
		res.Allocations = append(res.Allocations, dto.AllocationResponse{
			ID: a.ID, InvoiceID: a.InvoiceID, Amount: a.Amount, AllocatedAt: a.AllocatedAt,
		})
	}
	return res
}
