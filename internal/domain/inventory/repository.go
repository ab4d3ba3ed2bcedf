package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/smartpos/backend/internal/domain/shared"
)

// InventoryRepository defines the persistence contract for stock records
type InventoryRepository interface {
	shared.ShopRepository[InventoryItem]
	FindByProductID(ctx context.Context, shopID, productID uuid.UUID) (*InventoryItem, error)
	// FindByProductIDForUpdate loads the stock row under a row-level lock.
	// Only meaningful inside a transaction; the lock is held until commit.
	FindByProductIDForUpdate(ctx context.Context, shopID, productID uuid.UUID) (*InventoryItem, error)
	SaveWithLock(ctx context.Context, item *InventoryItem) error
	FindBelowMinimum(ctx context.Context, shopID uuid.UUID) ([]InventoryItem, error)
	CountBelowMinimum(ctx context.Context, shopID uuid.UUID) (int64, error)
}

// AdjustmentRepository defines the persistence contract for the audit trail.
// Adjustments are append-only; there is no update or delete.
type AdjustmentRepository interface {
	Save(ctx context.Context, adjustment *InventoryAdjustment) error
	FindByInventoryID(ctx context.Context, shopID, inventoryID uuid.UUID, filter shared.Filter) ([]InventoryAdjustment, error)
	FindByReference(ctx context.Context, shopID uuid.UUID, referenceID string) ([]InventoryAdjustment, error)
}
