package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/smartpos/backend/internal/domain/shared"
	"github.com/smartpos/backend/internal/domain/shared/valueobject"
)

// Product is a sellable item in the shop's catalog.
// Price columns are stored as decimals; percentages are defaults applied
// to sale lines unless the cashier overrides them.
type Product struct {
	shared.ShopAggregateRoot
	CategoryID      *uuid.UUID      `gorm:"type:uuid;index"`
	Code            string          `gorm:"type:varchar(50);not null"`
	Name            string          `gorm:"type:varchar(200);not null"`
	Description     string          `gorm:"type:text"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CostPrice       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	SellingPrice    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	TaxPercent      decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	Unit            string          `gorm:"type:varchar(20);not null;default:'pcs'"`
	IsActive        bool            `gorm:"not null;default:true"`
}

// TableName specifies the database table name
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product with required fields
func NewProduct(shopID uuid.UUID, code, name string, unitPrice decimal.Decimal) (*Product, error) {
	if err := validateProductCode(code); err != nil {
		return nil, err
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	return &Product{
		ShopAggregateRoot: shared.NewShopAggregateRoot(shopID),
		Code:              strings.TrimSpace(code),
		Name:              strings.TrimSpace(name),
		UnitPrice:         unitPrice.Round(2),
		CostPrice:         decimal.Zero,
		SellingPrice:      unitPrice.Round(2),
		DiscountPercent:   decimal.Zero,
		TaxPercent:        decimal.Zero,
		Unit:              "pcs",
		IsActive:          true,
	}, nil
}

// SetCategory assigns the product to a category (nil clears it)
func (p *Product) SetCategory(categoryID *uuid.UUID) {
	p.CategoryID = categoryID
	p.Touch()
	p.IncrementVersion()
}

// SetName changes the product name
func (p *Product) SetName(name string) error {
	if err := validateProductName(name); err != nil {
		return err
	}

	p.Name = strings.TrimSpace(name)
	p.Touch()
	p.IncrementVersion()

	return nil
}

// SetDescription sets the product description
func (p *Product) SetDescription(description string) {
	p.Description = description
	p.Touch()
	p.IncrementVersion()
}

// SetPrices updates unit, cost, and selling prices together
func (p *Product) SetPrices(unitPrice, costPrice, sellingPrice decimal.Decimal) error {
	if unitPrice.IsNegative() || costPrice.IsNegative() || sellingPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Prices cannot be negative")
	}

	p.UnitPrice = unitPrice.Round(2)
	p.CostPrice = costPrice.Round(2)
	p.SellingPrice = sellingPrice.Round(2)
	p.Touch()
	p.IncrementVersion()

	return nil
}

// SetDiscountPercent sets the default line discount percentage
func (p *Product) SetDiscountPercent(percent decimal.Decimal) error {
	if err := validatePercent(percent); err != nil {
		return err
	}

	p.DiscountPercent = percent
	p.Touch()
	p.IncrementVersion()

	return nil
}

// SetTaxPercent sets the default line tax percentage
func (p *Product) SetTaxPercent(percent decimal.Decimal) error {
	if err := validatePercent(percent); err != nil {
		return err
	}

	p.TaxPercent = percent
	p.Touch()
	p.IncrementVersion()

	return nil
}

// SetUnit sets the unit label (pcs, kg, box, ...)
func (p *Product) SetUnit(unit string) error {
	unit = strings.TrimSpace(unit)
	if unit == "" {
		return shared.NewDomainError("INVALID_UNIT", "Unit cannot be empty")
	}
	if len(unit) > 20 {
		return shared.NewDomainError("INVALID_UNIT", "Unit cannot exceed 20 characters")
	}

	p.Unit = unit
	p.Touch()
	p.IncrementVersion()

	return nil
}

// Activate makes the product sellable
func (p *Product) Activate() {
	p.IsActive = true
	p.Touch()
	p.IncrementVersion()
}

// Deactivate removes the product from sale without deleting it
func (p *Product) Deactivate() {
	p.IsActive = false
	p.Touch()
	p.IncrementVersion()
}

// GetUnitPrice returns the unit price as Money
func (p *Product) GetUnitPrice() valueobject.Money {
	return valueobject.NewMoney(p.UnitPrice)
}

// GetSellingPrice returns the selling price as Money
func (p *Product) GetSellingPrice() valueobject.Money {
	return valueobject.NewMoney(p.SellingPrice)
}

func validateProductCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return shared.NewDomainError("INVALID_PRODUCT_CODE", "Product code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_PRODUCT_CODE", "Product code cannot exceed 50 characters")
	}
	return nil
}

func validateProductName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}

func validatePercent(percent decimal.Decimal) error {
	if percent.IsNegative() || percent.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_PERCENT", "Percentage must be between 0 and 100")
	}
	return nil
}
