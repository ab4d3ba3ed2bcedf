package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/smartpos/backend/internal/domain/shared"
)

// AdjustmentType classifies why stock changed
type AdjustmentType string

const (
	AdjustmentTypePurchase   AdjustmentType = "purchase"
	AdjustmentTypeSale       AdjustmentType = "sale"
	AdjustmentTypeAdjustment AdjustmentType = "adjustment"
	AdjustmentTypeDamage     AdjustmentType = "damage"
	AdjustmentTypeReturn     AdjustmentType = "return"
	AdjustmentTypeExpired    AdjustmentType = "expired"
)

// IsValid checks if the adjustment type is a known value
func (t AdjustmentType) IsValid() bool {
	switch t {
	case AdjustmentTypePurchase, AdjustmentTypeSale, AdjustmentTypeAdjustment,
		AdjustmentTypeDamage, AdjustmentTypeReturn, AdjustmentTypeExpired:
		return true
	}
	return false
}

// InventoryAdjustment is one immutable entry in the stock audit trail.
// Rows are only ever inserted; stock history is reconstructed by replaying
// them in creation order.
type InventoryAdjustment struct {
	shared.BaseEntity
	ShopID         uuid.UUID      `gorm:"type:uuid;not null;index"`
	InventoryID    uuid.UUID      `gorm:"type:uuid;not null;index"`
	ProductID      uuid.UUID      `gorm:"type:uuid;not null;index"`
	AdjustmentType AdjustmentType `gorm:"type:varchar(20);not null"`
	QuantityChange int            `gorm:"not null"`
	StockBefore    int            `gorm:"not null"`
	StockAfter     int            `gorm:"not null"`
	Reason         string         `gorm:"type:varchar(500)"`
	ReferenceID    string         `gorm:"type:varchar(100);index"`
	AdjustedBy     *uuid.UUID     `gorm:"type:uuid"`
}

// TableName specifies the database table name
func (InventoryAdjustment) TableName() string {
	return "inventory_adjustments"
}

// NewInventoryAdjustment records a stock change against an inventory item.
// QuantityChange is signed: negative for outbound movements.
func NewInventoryAdjustment(shopID uuid.UUID, item *InventoryItem, adjustmentType AdjustmentType, quantityChange int) (*InventoryAdjustment, error) {
	if !adjustmentType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ADJUSTMENT_TYPE", "Unknown adjustment type")
	}
	if quantityChange == 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity change cannot be zero")
	}

	return &InventoryAdjustment{
		BaseEntity:     shared.NewBaseEntity(),
		ShopID:         shopID,
		InventoryID:    item.ID,
		ProductID:      item.ProductID,
		AdjustmentType: adjustmentType,
		QuantityChange: quantityChange,
		StockBefore:    item.CurrentStock - quantityChange,
		StockAfter:     item.CurrentStock,
	}, nil
}

// WithReason sets the free-text reason
func (a *InventoryAdjustment) WithReason(reason string) *InventoryAdjustment {
	a.Reason = reason
	return a
}

// WithReference links the adjustment to its source document, e.g. an invoice number
func (a *InventoryAdjustment) WithReference(referenceID string) *InventoryAdjustment {
	a.ReferenceID = referenceID
	return a
}

// WithAdjustedBy records the acting user
func (a *InventoryAdjustment) WithAdjustedBy(userID uuid.UUID) *InventoryAdjustment {
	a.AdjustedBy = &userID
	return a
}

// IsOutbound reports whether the adjustment removed stock
func (a *InventoryAdjustment) IsOutbound() bool {
	return a.QuantityChange < 0
}

// OccurredAt returns when the adjustment was recorded
func (a *InventoryAdjustment) OccurredAt() time.Time {
	return a.CreatedAt
}
