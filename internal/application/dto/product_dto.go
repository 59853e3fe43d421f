package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body for POST /api/products.
type CreateProductRequest struct {
	Name         string          `json:"name" validate:"required,min=1,max=200"`
	Barcode      string          `json:"barcode" validate:"max=100"`
	Price        decimal.Decimal `json:"price" validate:"gte=0"`
	CostPrice    decimal.Decimal `json:"cost_price" validate:"gte=0"`
	CostCurrency string          `json:"cost_currency" validate:"omitempty,oneof=USD LBP"`
}

// ProductResponse is a product with its current stock and last cost.
type ProductResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Barcode      string          `json:"barcode,omitempty"`
	Price        decimal.Decimal `json:"price"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	CostCurrency string          `json:"cost_currency"`
	Stock        decimal.Decimal `json:"stock"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ProductListResponse is a page of products.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
