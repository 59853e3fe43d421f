package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/ledger-api/internal/application/dto"
	"github.com/jhoicas/ledger-api/internal/application/ports"
	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/accounting"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Service exposes money account management, transfers and adjustments.
type Service struct {
	tx  ports.TxRunner
	log zerolog.Logger
}

// NewService builds the ledger service.
func NewService(tx ports.TxRunner, log zerolog.Logger) *Service {
	return &Service{tx: tx, log: log}
}

// CreateAccount creates an account. A positive opening balance is booked as an
// opening movement so the balance reconciles from the first row.
func (s *Service) CreateAccount(ctx context.Context, tenantID, userID string, in dto.CreateAccountRequest) (*dto.AccountResponse, error) {
	acc, err := NewAccount(tenantID, in.Name, entity.AccountType(in.Type), entity.Currency(in.Currency), in.IsDefault)
	if err != nil {
		return nil, err
	}
	if in.OpeningBalance.IsNegative() {
		return nil, fmt.Errorf("%w: opening balance cannot be negative", domain.ErrValidation)
	}
	if err := accounting.CheckMoney(in.OpeningBalance, "opening balance"); err != nil {
		return nil, err
	}
	err = s.tx.Run(ctx, tenantID, func(r repository.Repos) error {
		if err := CreateAccountInTx(ctx, r, acc); err != nil {
			return err
		}
		if !in.OpeningBalance.IsPositive() {
			return nil
		}
		m, err := Record(ctx, r, MovementInput{
			AccountID:     acc.ID,
			Type:          entity.MovementTypeIn,
			Amount:        in.OpeningBalance,
			ReferenceType: entity.ReferenceOpening,
			Description:   "Opening balance",
			CreatedBy:     userID,
		})
		if err != nil {
			return err
		}
		acc.CurrentBalance = m.BalanceAfter
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("tenant_id", tenantID).Str("account_id", acc.ID).Str("currency", acc.Currency.String()).Msg("account created")
	return ToAccountResponse(acc), nil
}

// NewAccount validates and builds an account with zero balance.
func NewAccount(tenantID, name string, t entity.AccountType, c entity.Currency, isDefault bool) (*entity.MoneyAccount, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: account name is required", domain.ErrValidation)
	}
	if !t.IsValid() {
		return nil, fmt.Errorf("%w: account type %q", domain.ErrValidation, t)
	}
	if !c.IsValid() {
		return nil, fmt.Errorf("%w: currency %q", domain.ErrValidation, c)
	}
	now := time.Now().UTC()
	return &entity.MoneyAccount{
		ID:             uuid.New().String(),
		TenantID:       tenantID,
		Name:           name,
		Type:           t,
		Currency:       c,
		CurrentBalance: decimal.Zero,
		IsDefault:      isDefault,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// CreateAccountInTx persists acc, first clearing the previous default of the same
// type and currency when acc is a default.
func CreateAccountInTx(ctx context.Context, r repository.Repos, acc *entity.MoneyAccount) error {
	if acc.IsDefault {
		if err := r.Accounts.ClearDefault(ctx, acc.Type, acc.Currency); err != nil {
			return err
		}
	}
	return r.Accounts.Create(ctx, acc)
}

// GetAccount returns one account.
func (s *Service) GetAccount(ctx context.Context, tenantID, id string) (*dto.AccountResponse, error) {
	acc, err := s.tx.Repos(tenantID).Accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToAccountResponse(acc), nil
}

// ListAccounts lists the tenant's accounts.
func (s *Service) ListAccounts(ctx context.Context, tenantID string, includeInactive bool) ([]dto.AccountResponse, error) {
	list, err := s.tx.Repos(tenantID).Accounts.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AccountResponse, 0, len(list))
	for _, a := range list {
		out = append(out, *ToAccountResponse(a))
	}
	return out, nil
}

// DeleteAccount soft-deletes an account whose balance is exactly zero. A default
// account can only go if another active account of its type remains.
func (s *Service) DeleteAccount(ctx context.Context, tenantID, id string) error {
	err := s.tx.Run(ctx, tenantID, func(r repository.Repos) error {
		acc, err := r.Accounts.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if acc.IsDeleted() {
			return fmt.Errorf("%w: account %s is already deleted", domain.ErrInvalidState, acc.Name)
		}
		if !acc.CurrentBalance.IsZero() {
			return fmt.Errorf("%w: account %s still holds %s %s",
				domain.ErrInvalidState, acc.Name, acc.CurrentBalance.StringFixed(2), acc.Currency)
		}
		if acc.IsDefault {
			others, err := r.Accounts.CountActive(ctx, acc.Type, acc.ID)
			if err != nil {
				return err
			}
			if others == 0 {
				return fmt.Errorf("%w: %s is the only %s account", domain.ErrInvalidState, acc.Name, acc.Type)
			}
		}
		return r.Accounts.SoftDelete(ctx, acc.ID, time.Now().UTC())
	})
	if err != nil {
		return err
	}
	s.log.Info().Str("tenant_id", tenantID).Str("account_id", id).Msg("account deleted")
	return nil
}

// CreateMovement records a single movement against an account.
func (s *Service) CreateMovement(ctx context.Context, tenantID, userID string, in dto.CreateMovementRequest) (*dto.MovementResponse, error) {
	mt := entity.MovementType(in.Type)
	if !mt.IsValid() {
		return nil, fmt.Errorf("%w: movement type %q", domain.ErrValidation, in.Type)
	}
	date, err := dto.ParseDate(in.Date, time.Now())
	if err != nil {
		return nil, err
	}
	var m *entity.AccountMovement
	err = s.tx.Run(ctx, tenantID, func(r repository.Repos) error {
		m, err = Record(ctx, r, MovementInput{
			AccountID:     in.AccountID,
			Type:          mt,
			Amount:        in.Amount,
			ReferenceType: entity.MovementReference(in.ReferenceType),
			ReferenceID:   in.ReferenceID,
			Description:   in.Description,
			Date:          date,
			CreatedBy:     userID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("tenant_id", tenantID).Str("account_id", m.AccountID).
		Str("type", string(m.Type)).Str("amount", m.Amount.String()).Msg("movement recorded")
	return ToMovementResponse(m), nil
}

// Adjust records a manual correction tagged as an adjustment.
func (s *Service) Adjust(ctx context.Context, tenantID, userID, accountID string, in dto.AdjustAccountRequest) (*dto.MovementResponse, error) {
	return s.CreateMovement(ctx, tenantID, userID, dto.CreateMovementRequest{
		AccountID:     accountID,
		Type:          in.Type,
		Amount:        in.Amount,
		ReferenceType: string(entity.ReferenceAdjustment),
		Description:   in.Description,
		Date:          in.Date,
	})
}

// Transfer moves money between two accounts as a transfer_out and a transfer_in
// sharing one reference id. Accounts in different currencies need an explicit rate.
func (s *Service) Transfer(ctx context.Context, tenantID, userID string, in dto.TransferRequest) (*dto.TransferResponse, error) {
	if in.FromAccountID == in.ToAccountID {
		return nil, fmt.Errorf("%w: cannot transfer to the same account", domain.ErrValidation)
	}
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: transfer amount must be positive", domain.ErrValidation)
	}
	if err := accounting.CheckMoney(in.Amount, "transfer amount"); err != nil {
		return nil, err
	}
	if err := accounting.CheckScale(in.ExchangeRate, accounting.RateScale, "exchange rate"); err != nil {
		return nil, err
	}
	date, err := dto.ParseDate(in.Date, time.Now())
	if err != nil {
		return nil, err
	}
	ref := uuid.New().String()
	var out, inbound *entity.AccountMovement
	err = s.tx.Run(ctx, tenantID, func(r repository.Repos) error {
		from, to, err := lockPair(ctx, r, in.FromAccountID, in.ToAccountID)
		if err != nil {
			return err
		}
		if from.Currency != to.Currency && !in.ExchangeRate.IsPositive() {
			return fmt.Errorf("%w: transfer from %s to %s needs an exchange rate", domain.ErrValidation, from.Currency, to.Currency)
		}
		received, err := accounting.Convert(in.Amount, from.Currency, to.Currency, in.ExchangeRate)
		if err != nil {
			return err
		}
		desc := in.Description
		if desc == "" {
			desc = fmt.Sprintf("Transfer %s -> %s", from.Name, to.Name)
		}
		out, err = Record(ctx, r, MovementInput{
			AccountID: from.ID, Type: entity.MovementTypeTransferOut, Amount: in.Amount,
			ReferenceType: entity.ReferenceTransfer, ReferenceID: ref, Description: desc, Date: date, CreatedBy: userID,
		})
		if err != nil {
			return err
		}
		inbound, err = Record(ctx, r, MovementInput{
			AccountID: to.ID, Type: entity.MovementTypeTransferIn, Amount: received,
			ReferenceType: entity.ReferenceTransfer, ReferenceID: ref, Description: desc, Date: date, CreatedBy: userID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("tenant_id", tenantID).Str("reference_id", ref).
		Str("from", in.FromAccountID).Str("to", in.ToAccountID).Str("amount", in.Amount.String()).Msg("transfer recorded")
	return &dto.TransferResponse{ReferenceID: ref, Out: *ToMovementResponse(out), In: *ToMovementResponse(inbound)}, nil
}

// lockPair locks both accounts in id order so concurrent opposite transfers cannot deadlock.
func lockPair(ctx context.Context, r repository.Repos, fromID, toID string) (from, to *entity.MoneyAccount, err error) {
	first, second := fromID, toID
	if second < first {
		first, second = second, first
	}
	a, err := r.Accounts.GetForUpdate(ctx, first)
	if err != nil {
		return nil, nil, err
	}
	b, err := r.Accounts.GetForUpdate(ctx, second)
	if err != nil {
		return nil, nil, err
	}
	if a.ID == fromID {
		return a, b, nil
	}
	return b, a, nil
}

// ListMovements lists an account's movements, newest first.
func (s *Service) ListMovements(ctx context.Context, tenantID, accountID string, in dto.ListMovementsRequest) ([]dto.MovementResponse, error) {
	repos := s.tx.Repos(tenantID)
	if _, err := repos.Accounts.GetByID(ctx, accountID); err != nil {
		return nil, err
	}
	from, err := dto.ParseOptionalDate(in.From)
	if err != nil {
		return nil, err
	}
	to, err := dto.ParseOptionalDate(in.To)
	if err != nil {
		return nil, err
	}
	list, err := repos.Movements.List(ctx, repository.MovementFilter{
		AccountID: accountID,
		From:      from,
		To:        to,
		Page:      repository.Page{Limit: in.Limit, Offset: in.Offset}.Normalize(),
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, *ToMovementResponse(m))
	}
	return out, nil
}

// Reconcile compares every active account balance with the signed sum of its movements.
func (s *Service) Reconcile(ctx context.Context, tenantID string) (*dto.ReconcileResponse, error) {
	repos := s.tx.Repos(tenantID)
	accounts, err := repos.Accounts.List(ctx, false)
	if err != nil {
		return nil, err
	}
	totals, err := repos.Movements.Totals(ctx)
	if err != nil {
		return nil, err
	}
	res := &dto.ReconcileResponse{Checked: len(accounts), Mismatches: []dto.ReconcileLine{}}
	for _, a := range accounts {
		t := totals[a.ID]
		sum := t.Inbound.Sub(t.Outbound)
		if sum.Equal(a.CurrentBalance) {
			continue
		}
		res.Mismatches = append(res.Mismatches, dto.ReconcileLine{
			AccountID:      a.ID,
			Name:           a.Name,
			Currency:       a.Currency.String(),
			CurrentBalance: a.CurrentBalance,
			MovementSum:    sum,
			Difference:     a.CurrentBalance.Sub(sum),
			Movements:      t.Count,
		})
	}
	if len(res.Mismatches) > 0 {
		s.log.Warn().Str("tenant_id", tenantID).Int("mismatches", len(res.Mismatches)).Msg("account balances do not reconcile")
	}
	return res, nil
}

// ToAccountResponse maps an account.
func ToAccountResponse(a *entity.MoneyAccount) *dto.AccountResponse {
	return &dto.AccountResponse{
		ID:             a.ID,
		Name:           a.Name,
		Type:           string(a.Type),
		Currency:       a.Currency.String(),
		CurrentBalance: a.CurrentBalance,
		IsDefault:      a.IsDefault,
		IsActive:       a.IsActive && !a.IsDeleted(),
		CreatedAt:      a.CreatedAt,
	}
}

// ToMovementResponse maps a movement.
func ToMovementResponse(m *entity.AccountMovement) *dto.MovementResponse {
	return &dto.MovementResponse{
		ID:            m.ID,
		AccountID:     m.AccountID,
		Type:          string(m.Type),
		Amount:        m.Amount,
		BalanceAfter:  m.BalanceAfter,
		ReferenceType: string(m.ReferenceType),
		ReferenceID:   m.ReferenceID,
		Description:   m.Description,
		Date:          dto.FormatDate(m.Date),
		CreatedAt:     m.CreatedAt,
	}
}
