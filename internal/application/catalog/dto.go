package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/smartpos/backend/internal/domain/catalog"
)

// CreateCategoryInput carries a category creation request
type CreateCategoryInput struct {
	Name        string
	Description string
}

// UpdateCategoryInput carries a category update; nil fields are left unchanged
type UpdateCategoryInput struct {
	Name        *string
	Description *string
	IsActive    *bool
}

// CategoryResponse is the API representation of a category
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToCategoryResponse maps a category to its API representation
func ToCategoryResponse(category *catalog.Category) *CategoryResponse {
	return &CategoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		IsActive:    category.IsActive,
		CreatedAt:   category.CreatedAt,
		UpdatedAt:   category.UpdatedAt,
	}
}

// CreateProductInput carries a product creation request. Optional stock
// fields seed an inventory record alongside the product.
type CreateProductInput struct {
	CategoryID      *uuid.UUID
	Code            string
	Name            string
	Description     string
	UnitPrice       decimal.Decimal
	CostPrice       *decimal.Decimal
	SellingPrice    *decimal.Decimal
	DiscountPercent *decimal.Decimal
	TaxPercent      *decimal.Decimal
	Unit            string
	InitialStock    *int
	MinimumStock    *int
	MaximumStock    *int
}

// UpdateProductInput carries a product update; nil fields are left unchanged
type UpdateProductInput struct {
	CategoryID      *uuid.UUID
	Name            *string
	Description     *string
	UnitPrice       *decimal.Decimal
	CostPrice       *decimal.Decimal
	SellingPrice    *decimal.Decimal
	DiscountPercent *decimal.Decimal
	TaxPercent      *decimal.Decimal
	Unit            *string
	IsActive        *bool
}

// ListProductsInput carries product list filters
type ListProductsInput struct {
	CategoryID *uuid.UUID
	IsActive   *bool
	Search     string
	Page       int
	PageSize   int
}

// ProductResponse is the API representation of a product
type ProductResponse struct {
	ID              uuid.UUID       `json:"id"`
	CategoryID      *uuid.UUID      `json:"category_id,omitempty"`
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	Description     string          `json:"description,omitempty"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	CostPrice       decimal.Decimal `json:"cost_price"`
	SellingPrice    decimal.Decimal `json:"selling_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	TaxPercent      decimal.Decimal `json:"tax_percent"`
	Unit            string          `json:"unit"`
	IsActive        bool            `json:"is_active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ToProductResponse maps a product to its API representation
func ToProductResponse(product *catalog.Product) *ProductResponse {
	return &ProductResponse{
		ID:              product.ID,
		CategoryID:      product.CategoryID,
		Code:            product.Code,
		Name:            product.Name,
		Description:     product.Description,
		UnitPrice:       product.UnitPrice,
		CostPrice:       product.CostPrice,
		SellingPrice:    product.SellingPrice,
		DiscountPercent: product.DiscountPercent,
		TaxPercent:      product.TaxPercent,
		Unit:            product.Unit,
		IsActive:        product.IsActive,
		CreatedAt:       product.CreatedAt,
		UpdatedAt:       product.UpdatedAt,
	}
}
