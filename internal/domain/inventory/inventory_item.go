package inventory

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/smartpos/backend/internal/domain/shared"
)

// InventoryItem tracks on-hand stock for a single product. There is exactly
// one row per product; it is created alongside the product and lives as long
// as the product does.
//
// CurrentStock is kept non-negative by the sale workflow, not by a database
// constraint: the stock check and the decrement happen under the same row
// lock so concurrent sales cannot interleave between them.
type InventoryItem struct {
	shared.ShopAggregateRoot
	ProductID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	CurrentStock int       `gorm:"not null;default:0"`
	MinimumStock int       `gorm:"not null;default:0"`
	MaximumStock int       `gorm:"not null;default:0"`
}

// TableName specifies the database table name
func (InventoryItem) TableName() string {
	return "inventory_items"
}

// NewInventoryItem creates the stock record for a product
func NewInventoryItem(shopID, productID uuid.UUID, initialStock, minimumStock, maximumStock int) (*InventoryItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT_ID", "Product ID cannot be empty")
	}
	if initialStock < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Initial stock cannot be negative")
	}
	if minimumStock < 0 || maximumStock < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Stock thresholds cannot be negative")
	}

	return &InventoryItem{
		ShopAggregateRoot: shared.NewShopAggregateRoot(shopID),
		ProductID:         productID,
		CurrentStock:      initialStock,
		MinimumStock:      minimumStock,
		MaximumStock:      maximumStock,
	}, nil
}

// CanFulfill reports whether the requested quantity is available
func (i *InventoryItem) CanFulfill(quantity int) bool {
	return i.CurrentStock >= quantity
}

// Decrease removes stock, rejecting any decrement that would go negative
func (i *InventoryItem) Decrease(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if i.CurrentStock < quantity {
		return shared.NewDomainError("INSUFFICIENT_STOCK",
			fmt.Sprintf("Insufficient stock: %d available, %d requested", i.CurrentStock, quantity))
	}

	i.CurrentStock -= quantity
	i.Touch()
	i.IncrementVersion()

	return nil
}

// Increase adds stock
func (i *InventoryItem) Increase(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	i.CurrentStock += quantity
	i.Touch()
	i.IncrementVersion()

	return nil
}

// SetStock replaces the current stock level (manual correction)
func (i *InventoryItem) SetStock(quantity int) error {
	if quantity < 0 {
		return shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}

	i.CurrentStock = quantity
	i.Touch()
	i.IncrementVersion()

	return nil
}

// SetThresholds updates the reorder band
func (i *InventoryItem) SetThresholds(minimum, maximum int) error {
	if minimum < 0 || maximum < 0 {
		return shared.NewDomainError("INVALID_STOCK", "Stock thresholds cannot be negative")
	}
	if maximum > 0 && minimum > maximum {
		return shared.NewDomainError("INVALID_STOCK", "Minimum stock cannot exceed maximum stock")
	}

	i.MinimumStock = minimum
	i.MaximumStock = maximum
	i.Touch()
	i.IncrementVersion()

	return nil
}

// IsLowStock reports whether the item sits at or below its reorder threshold
func (i *InventoryItem) IsLowStock() bool {
	return i.CurrentStock <= i.MinimumStock
}
