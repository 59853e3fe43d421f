package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/ledger-api/internal/application/contact"
	"github.com/jhoicas/ledger-api/internal/application/dto"
	"github.com/jhoicas/ledger-api/internal/domain/accounting"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/inventory"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
)

// Confirm moves a draft to pending and applies its supplier balance and stock effects.
func (s *Service) Confirm(ctx context.Context, tenantID, id string) (*dto.InvoiceResponse, error) {
	var inv *entity.Invoice
	err := s.tx.Run(ctx, tenantID, func(r repository.Repos) error {
		var err error
		inv, err = r.Invoices.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		return confirmInTx(ctx, r, inv, s.now())
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("tenant_id", tenantID).Str("invoice", inv.InternalNumber).Msg("invoice confirmed")
	return ToResponse(inv), nil
}

// Cancel cancels an invoice with nothing paid. A confirmed invoice has its confirm
// effects reversed with the exact inverse amounts.
func (s *Service) Cancel(ctx context.Context, tenantID, id string) (*dto.InvoiceResponse, error) {
	var inv *entity.Invoice
	err := s.tx.Run(ctx, tenantID, func(r repository.Repos) error {
		var err error
		inv, err = r.Invoices.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		wasConfirmed, err := inv.Cancel(s.now())
		if err != nil {
			return err
		}
		if wasConfirmed {
			if err := contact.AdjustBalance(ctx, r.Contacts, inv.ContactID, supplierDelta(inv).Neg()); err != nil {
				return err
			}
			if err := applyStock(ctx, r.Products, inventory.CancelChanges(inv)); err != nil {
				return err
			}
		}
		return r.Invoices.Update(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("tenant_id", tenantID).Str("invoice", inv.InternalNumber).Msg("invoice cancelled")
	return ToResponse(inv), nil
}

// Delete soft-deletes a draft. Its number is not reused.
func (s *Service) Delete(ctx context.Context, tenantID, id string) error {
	var number string
	err := s.tx.Run(ctx, tenantID, func(r repository.Repos) error {
		inv, err := r.Invoices.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := inv.MarkDeleted(s.now()); err != nil {
			return err
		}
		number = inv.InternalNumber
		return r.Invoices.Update(ctx, inv)
	})
	if err != nil {
		return err
	}
	s.log.Info().Str("tenant_id", tenantID).Str("invoice", number).Msg("invoice deleted")
	return nil
}

func confirmInTx(ctx context.Context, r repository.Repos, inv *entity.Invoice, now time.Time) error {
	if err := inv.Confirm(now); err != nil {
		return err
	}
	if err := contact.AdjustBalance(ctx, r.Contacts, inv.ContactID, supplierDelta(inv)); err != nil {
		return err
	}
	if err := applyStock(ctx, r.Products, inventory.ConfirmChanges(inv)); err != nil {
		return err
	}
	return r.Invoices.Update(ctx, inv)
}

// supplierDelta is what confirming inv adds to its contact's balance. Only purchase
// invoices create a payable.
func supplierDelta(inv *entity.Invoice) accounting.BalanceDelta {
	if inv.Type != entity.InvoiceTypePurchase {
		return accounting.BalanceDelta{}
	}
	return accounting.Legs(inv.Currency, inv.Total, inv.TotalLBP)
}

func applyStock(ctx context.Context, products repository.ProductRepository, changes []inventory.StockChange) error {
	for _, ch := range changes {
		if err := products.AdjustStock(ctx, ch.ProductID, ch.Quantity); err != nil {
			return fmt.Errorf("product %s stock: %w", ch.ProductID, err)
		}
		if ch.SetCost {
			if err := products.UpdateCost(ctx, ch.ProductID, ch.UnitCost, ch.Currency); err != nil {
				return fmt.Errorf("product %s cost: %w", ch.ProductID, err)
			}
		}
	}
	return nil
}
