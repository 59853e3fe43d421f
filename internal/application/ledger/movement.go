// Package ledger owns money account balances and their append-only movement log.
// It is the only package that writes an account balance.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/accounting"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// MovementInput describes one balance change.
type MovementInput struct {
	AccountID     string
	Type          entity.MovementType
	Amount        decimal.Decimal
	ReferenceType entity.MovementReference
	ReferenceID   string
	Description   string
	Date          time.Time
	CreatedBy     string
}

// Record locks the account row, computes the new balance, writes it and appends the
// movement. Both writes go through r, so they commit or roll back together.
func Record(ctx context.Context, r repository.Repos, in MovementInput) (*entity.AccountMovement, error) {
	if !in.ReferenceType.IsValid() {
		return nil, fmt.Errorf("%w: reference type %q", domain.ErrValidation, in.ReferenceType)
	}
	if err := accounting.CheckMoney(in.Amount, "movement amount"); err != nil {
		return nil, err
	}
	acc, err := r.Accounts.GetForUpdate(ctx, in.AccountID)
	if err != nil {
		return nil, err
	}
	if acc.IsDeleted() || !acc.IsActive {
		return nil, fmt.Errorf("%w: account %s is not active", domain.ErrInvalidState, acc.Name)
	}
	next, err := acc.BalanceAfter(in.Type, in.Amount)
	if err != nil {
		return nil, err
	}
	if err := r.Accounts.UpdateBalance(ctx, acc.ID, next); err != nil {
		return nil, err
	}
	acc.CurrentBalance = next

	now := time.Now().UTC()
	date := in.Date
	if date.IsZero() {
		date = now
	}
	m := &entity.AccountMovement{
		ID:            uuid.New().String(),
		TenantID:      r.TenantID,
		AccountID:     acc.ID,
		Type:          in.Type,
		Amount:        in.Amount,
		BalanceAfter:  next,
		ReferenceType: in.ReferenceType,
		ReferenceID:   in.ReferenceID,
		Description:   in.Description,
		Date:          date,
		CreatedBy:     in.CreatedBy,
		CreatedAt:     now,
	}
	if err := r.Movements.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}
