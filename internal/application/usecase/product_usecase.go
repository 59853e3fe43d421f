package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/ledger-api/internal/application/dto"
	"github.com/jhoicas/ledger-api/internal/application/ports"
	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/accounting"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ProductUseCase creates and lists products. Stock and cost only change through
// confirmed or cancelled inbound invoices.
type ProductUseCase struct {
	tx ports.TxRunner
}

// NewProductUseCase builds the use case.
func NewProductUseCase(tx ports.TxRunner) *ProductUseCase {
	return &ProductUseCase{tx: tx}
}

// Create registers a product with zero stock. A barcode already used by the tenant
// fails with domain.ErrConflict.
func (uc *ProductUseCase) Create(ctx context.Context, tenantID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: product name is required", domain.ErrValidation)
	}
	if in.Price.IsNegative() || in.CostPrice.IsNegative() {
		return nil, fmt.Errorf("%w: prices cannot be negative", domain.ErrValidation)
	}
	if err := accounting.CheckMoney(in.Price, "price"); err != nil {
		return nil, err
	}
	if err := accounting.CheckMoney(in.CostPrice, "cost price"); err != nil {
		return nil, err
	}
	currency := entity.Currency(in.CostCurrency)
	if currency == "" {
		currency = entity.CurrencyUSD
	}
	if !currency.IsValid() {
		return nil, fmt.Errorf("%w: currency %q", domain.ErrValidation, in.CostCurrency)
	}
	now := time.Now().UTC()
	product := &entity.Product{
		ID:           uuid.New().String(),
		TenantID:     tenantID,
		Name:         name,
		Barcode:      strings.TrimSpace(in.Barcode),
		Price:        in.Price,
		CostPrice:    in.CostPrice,
		CostCurrency: currency,
		Stock:        decimal.Zero,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.tx.Repos(tenantID).Products.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID returns one product.
func (uc *ProductUseCase) GetByID(ctx context.Context, tenantID, id string) (*dto.ProductResponse, error) {
	product, err := uc.tx.Repos(tenantID).Products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lists products with pagination.
func (uc *ProductUseCase) List(ctx context.Context, tenantID string, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, err := uc.tx.Repos(tenantID).Products.List(ctx, repository.Page{Limit: page.Limit, Offset: page.Offset}.Normalize())
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Barcode:      p.Barcode,
		Price:        p.Price,
		CostPrice:    p.CostPrice,
		CostCurrency: p.CostCurrency.String(),
		Stock:        p.Stock,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
