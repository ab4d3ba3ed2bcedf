package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/smartpos/backend/internal/domain/catalog"
	"github.com/smartpos/backend/internal/domain/inventory"
)

// UpdateStockInput carries a manual stock change. Exactly one of SetTo or
// ChangeBy is used: SetTo overwrites the level, ChangeBy moves it by a
// signed amount.
type UpdateStockInput struct {
	SetTo          *int
	ChangeBy       *int
	AdjustmentType string
	Reason         string
}

// UpdateThresholdsInput carries new low/over-stock boundaries
type UpdateThresholdsInput struct {
	MinimumStock int
	MaximumStock int
}

// ListInventoryInput carries inventory list filters
type ListInventoryInput struct {
	LowStockOnly bool
	Page         int
	PageSize     int
}

// InventoryResponse is the API representation of an inventory record,
// joined with its product's identity.
type InventoryResponse struct {
	ID           uuid.UUID `json:"id"`
	ProductID    uuid.UUID `json:"product_id"`
	ProductCode  string    `json:"product_code,omitempty"`
	ProductName  string    `json:"product_name,omitempty"`
	CurrentStock int       `json:"current_stock"`
	MinimumStock int       `json:"minimum_stock"`
	MaximumStock int       `json:"maximum_stock"`
	IsLowStock   bool      `json:"is_low_stock"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ToInventoryResponse maps an inventory item, optionally enriched with its
// product, to the API representation.
func ToInventoryResponse(item *inventory.InventoryItem, product *catalog.Product) *InventoryResponse {
	resp := &InventoryResponse{
		ID:           item.ID,
		ProductID:    item.ProductID,
		CurrentStock: item.CurrentStock,
		MinimumStock: item.MinimumStock,
		MaximumStock: item.MaximumStock,
		IsLowStock:   item.IsLowStock(),
		UpdatedAt:    item.UpdatedAt,
	}
	if product != nil {
		resp.ProductCode = product.Code
		resp.ProductName = product.Name
	}
	return resp
}

// AdjustmentResponse is one audit trail entry
type AdjustmentResponse struct {
	ID             uuid.UUID  `json:"id"`
	InventoryID    uuid.UUID  `json:"inventory_id"`
	ProductID      uuid.UUID  `json:"product_id"`
	AdjustmentType string     `json:"adjustment_type"`
	QuantityChange int        `json:"quantity_change"`
	StockBefore    int        `json:"stock_before"`
	StockAfter     int        `json:"stock_after"`
	Reason         string     `json:"reason,omitempty"`
	ReferenceID    string     `json:"reference_id,omitempty"`
	AdjustedBy     *uuid.UUID `json:"adjusted_by,omitempty"`
	OccurredAt     time.Time  `json:"occurred_at"`
}

// ToAdjustmentResponse maps an adjustment to its API representation
func ToAdjustmentResponse(adjustment *inventory.InventoryAdjustment) *AdjustmentResponse {
	return &AdjustmentResponse{
		ID:             adjustment.ID,
		InventoryID:    adjustment.InventoryID,
		ProductID:      adjustment.ProductID,
		AdjustmentType: string(adjustment.AdjustmentType),
		QuantityChange: adjustment.QuantityChange,
		StockBefore:    adjustment.StockBefore,
		StockAfter:     adjustment.StockAfter,
		Reason:         adjustment.Reason,
		ReferenceID:    adjustment.ReferenceID,
		AdjustedBy:     adjustment.AdjustedBy,
		OccurredAt:     adjustment.OccurredAt(),
	}
}
