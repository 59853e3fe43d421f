// Package payment records payments drawn from money accounts and reverses them.
// A payment moves cash out through the ledger, settles its invoice and reduces the
// contact balance in one transaction; voiding posts the exact inverse.
package payment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/ledger-api/internal/application/billing"
	"github.com/jhoicas/ledger-api/internal/application/contact"
	"github.com/jhoicas/ledger-api/internal/application/dto"
	"github.com/jhoicas/ledger-api/internal/application/ledger"
	"github.com/jhoicas/ledger-api/internal/application/numbering"
	"github.com/jhoicas/ledger-api/internal/application/ports"
	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/accounting"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Service runs payment use cases.
type Service struct {
	tx          ports.TxRunner
	log         zerolog.Logger
	defaultRate decimal.Decimal
	now         func() time.Time
}

// NewService builds the payment service.
func NewService(tx ports.TxRunner, log zerolog.Logger, defaultRate decimal.Decimal) *Service {
	return &Service{tx: tx, log: log, defaultRate: defaultRate, now: func() time.Time { return time.Now().UTC() }}
}

// Create records a payment. The account must cover the amount converted to its
// currency; an invoice payment may not exceed the invoice balance.
func (s *Service) Create(ctx context.Context, tenantID, userID string, in dto.CreatePaymentRequest) (*dto.PaymentResponse, error) {
	p, err := s.newPayment(tenantID, userID, in)
	if err != nil {
		return nil, err
	}
	err = s.tx.Run(ctx, tenantID, func(r repository.Repos) error {
		acc, err := r.Accounts.GetForUpdate(ctx, p.AccountID)
		if err != nil {
			return err
		}
		p.AccountAmount, err = accounting.Convert(p.Amount, p.Currency, acc.Currency, p.ExchangeRate)
		if err != nil {
			return err
		}
		if p.AccountAmount.GreaterThan(acc.CurrentBalance) {
			return fmt.Errorf("%w: account %s has %s %s, payment needs %s",
				domain.ErrInsufficientBalance, acc.Name, acc.CurrentBalance.StringFixed(2), acc.Currency, p.AccountAmount.StringFixed(2))
		}

		var inv *entity.Invoice
		if p.InvoiceID != "" {
			inv, err = r.Invoices.GetByID(ctx, p.InvoiceID)
			if err != nil {
				return err
			}
			if p.ContactID == "" {
				p.ContactID = inv.ContactID
			} else if inv.ContactID != p.ContactID {
				return fmt.Errorf("%w: invoice %s belongs to another contact", domain.ErrValidation, inv.InternalNumber)
			}
			p.AppliedAmount, err = accounting.Convert(p.Amount, p.Currency, inv.Currency, p.ExchangeRate)
			if err != nil {
				return err
			}
		}
		if p.ContactID != "" {
			c, err := r.Contacts.GetByID(ctx, p.ContactID)
			if err != nil {
				return err
			}
			p.Contact = &entity.ContactRef{ID: c.ID, Name: c.Name, NameAr: c.NameAr}
		}

		p.PaymentNumber, err = numbering.Next(ctx, r.Sequences, entity.DocPayment, p.Date)
		if err != nil {
			return err
		}
		if err := r.Payments.Create(ctx, p); err != nil {
			return err
		}
		if _, err := ledger.Record(ctx, r, ledger.MovementInput{
			AccountID:     p.AccountID,
			Type:          entity.MovementTypeOut,
			Amount:        p.AccountAmount,
			ReferenceType: entity.ReferencePayment,
			ReferenceID:   p.ID,
			Description:   "Payment " + p.PaymentNumber,
			Date:          p.Date,
			CreatedBy:     userID,
		}); err != nil {
			return err
		}
		if p.InvoiceID != "" {
			if _, err := billing.ApplyPayment(ctx, r.Invoices, p.InvoiceID, p.AppliedAmount, false, p.CreatedAt); err != nil {
				return err
			}
		}
		delta, err := contactDelta(p, inv)
		if err != nil {
			return err
		}
		return contact.AdjustBalance(ctx, r.Contacts, p.ContactID, delta.Neg())
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("tenant_id", tenantID).Str("payment", p.PaymentNumber).
		Str("amount", p.Amount.StringFixed(2)).Str("currency", p.Currency.String()).Msg("payment created")
	return ToResponse(p), nil
}

func (s *Service) newPayment(tenantID, userID string, in dto.CreatePaymentRequest) (*entity.Payment, error) {
	pt := entity.PaymentType(in.Type)
	switch pt {
	case entity.PaymentTypeInvoice:
		if in.InvoiceID == "" {
			return nil, fmt.Errorf("%w: invoice payments need an invoice", domain.ErrValidation)
		}
	case entity.PaymentTypeAdvance:
		if in.ContactID == "" || in.InvoiceID != "" {
			return nil, fmt.Errorf("%w: advance payments need a contact and no invoice", domain.ErrValidation)
		}
	case entity.PaymentTypeExpense:
		if in.ContactID != "" || in.InvoiceID != "" {
			return nil, fmt.Errorf("%w: expense payments take no contact or invoice", domain.ErrValidation)
		}
	default:
		return nil, fmt.Errorf("%w: payment type %q", domain.ErrValidation, in.Type)
	}
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: payment amount must be positive", domain.ErrValidation)
	}
	if err := accounting.CheckMoney(in.Amount, "payment amount"); err != nil {
		return nil, err
	}
	currency := entity.Currency(in.Currency)
	if !currency.IsValid() {
		return nil, fmt.Errorf("%w: currency %q", domain.ErrValidation, in.Currency)
	}
	method := entity.PaymentMethod(in.Method)
	if method == "" {
		method = entity.PaymentMethodCash
	}
	if !method.IsValid() {
		return nil, fmt.Errorf("%w: payment method %q", domain.ErrValidation, in.Method)
	}
	rate, err := accounting.ResolveRate(in.ExchangeRate, s.defaultRate)
	if err != nil {
		return nil, err
	}
	now := s.now()
	date, err := dto.ParseDate(in.Date, now)
	if err != nil {
		return nil, err
	}
	amountLBP, err := accounting.ToLBP(in.Amount, currency, rate)
	if err != nil {
		return nil, err
	}
	return &entity.Payment{
		ID:            uuid.New().String(),
		TenantID:      tenantID,
		Type:          pt,
		ContactID:     in.ContactID,
		InvoiceID:     in.InvoiceID,
		AccountID:     in.AccountID,
		Amount:        in.Amount,
		Currency:      currency,
		ExchangeRate:  rate,
		AmountLBP:     amountLBP,
		AppliedAmount: decimal.Zero,
		Method:        method,
		Reference:     strings.TrimSpace(in.Reference),
		Notes:         in.Notes,
		Date:          date,
		CreatedBy:     userID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// Void reverses a payment: funds return to the account, the invoice regains the
// applied amount and the contact balance is restored. A voided payment cannot be
// voided again.
func (s *Service) Void(ctx context.Context, tenantID, userID, id string) (*dto.PaymentResponse, error) {
	var p *entity.Payment
	err := s.tx.Run(ctx, tenantID, func(r repository.Repos) error {
		var err error
		p, err = r.Payments.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		now := s.now()
		if err := p.MarkVoided(userID, now); err != nil {
			return err
		}
		if _, err := ledger.Record(ctx, r, ledger.MovementInput{
			AccountID:     p.AccountID,
			Type:          entity.MovementTypeIn,
			Amount:        p.AccountAmount,
			ReferenceType: entity.ReferencePaymentVoid,
			ReferenceID:   p.ID,
			Description:   "Void " + p.PaymentNumber,
			Date:          now,
			CreatedBy:     userID,
		}); err != nil {
			return err
		}
		var inv *entity.Invoice
		if p.InvoiceID != "" {
			inv, err = billing.ApplyPayment(ctx, r.Invoices, p.InvoiceID, p.AppliedAmount, true, now)
			if err != nil {
				return err
			}
		}
		delta, err := contactDelta(p, inv)
		if err != nil {
			return err
		}
		if err := contact.AdjustBalance(ctx, r.Contacts, p.ContactID, delta); err != nil {
			return err
		}
		return r.Payments.MarkVoided(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("tenant_id", tenantID).Str("payment", p.PaymentNumber).Msg("payment voided")
	return ToResponse(p), nil
}

// Get returns one payment with contact display fields.
func (s *Service) Get(ctx context.Context, tenantID, id string) (*dto.PaymentResponse, error) {
	p, err := s.tx.Repos(tenantID).Payments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToResponse(p), nil
}

// List returns payments matching the filter, newest first.
func (s *Service) List(ctx context.Context, tenantID string, in dto.ListPaymentsRequest) ([]dto.PaymentResponse, error) {
	from, err := dto.ParseOptionalDate(in.From)
	if err != nil {
		return nil, err
	}
	to, err := dto.ParseOptionalDate(in.To)
	if err != nil {
		return nil, err
	}
	list, err := s.tx.Repos(tenantID).Payments.List(ctx, repository.PaymentFilter{
		Type:          entity.PaymentType(in.Type),
		ContactID:     in.ContactID,
		InvoiceID:     in.InvoiceID,
		AccountID:     in.AccountID,
		IncludeVoided: in.IncludeVoided,
		From:          from,
		To:            to,
		Page:          repository.Page{Limit: in.Limit, Offset: in.Offset}.Normalize(),
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.PaymentResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *ToResponse(p))
	}
	return out, nil
}

// contactDelta is the payment expressed in contact balance legs. An invoice payment
// is measured in the invoice currency at the invoice rate, the same legs confirming
// the invoice booked, so settling it in full clears both legs whatever the payment
// currency. Void recomputes it from the same stored values.
func contactDelta(p *entity.Payment, inv *entity.Invoice) (accounting.BalanceDelta, error) {
	if inv == nil {
		return accounting.Legs(p.Currency, p.Amount, p.AmountLBP), nil
	}
	lbp, err := accounting.ToLBP(p.AppliedAmount, inv.Currency, inv.ExchangeRate)
	if err != nil {
		return accounting.BalanceDelta{}, err
	}
	return accounting.Legs(inv.Currency, p.AppliedAmount, lbp), nil
}

// ToResponse maps a payment.
func ToResponse(p *entity.Payment) *dto.PaymentResponse {
	return &dto.PaymentResponse{
		ID:            p.ID,
		Type:          string(p.Type),
		PaymentNumber: p.PaymentNumber,
		Contact:       contact.ToRef(p.Contact),
		InvoiceID:     p.InvoiceID,
		AccountID:     p.AccountID,
		Amount:        p.Amount,
		Currency:      p.Currency.String(),
		ExchangeRate:  p.ExchangeRate,
		AmountLBP:     p.AmountLBP,
		AccountAmount: p.AccountAmount,
		AppliedAmount: p.AppliedAmount,
		Method:        string(p.Method),
		Reference:     p.Reference,
		Notes:         p.Notes,
		Date:          dto.FormatDate(p.Date),
		Voided:        p.IsVoided(),
		VoidedAt:      p.VoidedAt,
		CreatedAt:     p.CreatedAt,
	}
}
