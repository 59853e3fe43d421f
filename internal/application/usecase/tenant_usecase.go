package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/ledger-api/internal/application/dto"
	"github.com/jhoicas/ledger-api/internal/application/ledger"
	"github.com/jhoicas/ledger-api/internal/application/ports"
	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
	"github.com/rs/zerolog"
)

// TenantUseCase onboards tenants.
type TenantUseCase struct {
	tx           ports.TxRunner
	log          zerolog.Logger
	baseCurrency entity.Currency
}

// NewTenantUseCase builds the use case. Default accounts are opened in baseCurrency.
func NewTenantUseCase(tx ports.TxRunner, log zerolog.Logger, baseCurrency entity.Currency) *TenantUseCase {
	if !baseCurrency.IsValid() {
		baseCurrency = entity.CurrencyUSD
	}
	return &TenantUseCase{tx: tx, log: log, baseCurrency: baseCurrency}
}

// Onboard creates the tenant and its default cash and bank accounts in one
// transaction. A slug already in use fails with domain.ErrConflict.
func (uc *TenantUseCase) Onboard(ctx context.Context, in dto.OnboardTenantRequest) (*dto.TenantResponse, error) {
	name := strings.TrimSpace(in.Name)
	slug := strings.ToLower(strings.TrimSpace(in.Slug))
	if name == "" || slug == "" {
		return nil, fmt.Errorf("%w: tenant name and slug are required", domain.ErrValidation)
	}
	now := time.Now().UTC()
	t := &entity.Tenant{
		ID:        uuid.New().String(),
		Name:      name,
		Slug:      slug,
		Status:    entity.TenantStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	var accounts []*entity.MoneyAccount
	err := uc.tx.Run(ctx, t.ID, func(r repository.Repos) error {
		if _, err := r.Tenants.GetBySlug(ctx, slug); err == nil {
			return fmt.Errorf("%w: slug %q is taken", domain.ErrConflict, slug)
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		if err := r.Tenants.Create(ctx, t); err != nil {
			return err
		}
		for _, def := range []struct {
			name string
			typ  entity.AccountType
		}{
			{"Cash", entity.AccountTypeCash},
			{"Bank", entity.AccountTypeBank},
		} {
			acc, err := ledger.NewAccount(t.ID, def.name, def.typ, uc.baseCurrency, true)
			if err != nil {
				return err
			}
			if err := ledger.CreateAccountInTx(ctx, r, acc); err != nil {
				return err
			}
			accounts = append(accounts, acc)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("tenant_id", t.ID).Str("slug", t.Slug).Msg("tenant onboarded")

	res := toTenantResponse(t)
	for _, a := range accounts {
		res.Accounts = append(res.Accounts, *ledger.ToAccountResponse(a))
	}
	return res, nil
}

// GetByID returns one tenant.
func (uc *TenantUseCase) GetByID(ctx context.Context, id string) (*dto.TenantResponse, error) {
	t, err := uc.tx.Repos("").Tenants.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toTenantResponse(t), nil
}

// IsActive reports whether tenant id exists and is not suspended.
func (uc *TenantUseCase) IsActive(ctx context.Context, id string) (bool, error) {
	t, err := uc.tx.Repos("").Tenants.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return t.Status == entity.TenantStatusActive, nil
}

// GetBySlug resolves a tenant from its slug.
func (uc *TenantUseCase) GetBySlug(ctx context.Context, slug string) (*dto.TenantResponse, error) {
	t, err := uc.tx.Repos("").Tenants.GetBySlug(ctx, strings.ToLower(slug))
	if err != nil {
		return nil, err
	}
	return toTenantResponse(t), nil
}

// List returns every tenant.
func (uc *TenantUseCase) List(ctx context.Context) ([]dto.TenantResponse, error) {
	list, err := uc.tx.Repos("").Tenants.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TenantResponse, 0, len(list))
	for _, t := range list {
		out = append(out, *toTenantResponse(t))
	}
	return out, nil
}

func toTenantResponse(t *entity.Tenant) *dto.TenantResponse {
	return &dto.TenantResponse{
		ID:        t.ID,
		Name:      t.Name,
		Slug:      t.Slug,
		Status:    t.Status,
		CreatedAt: t.CreatedAt,
	}
}
