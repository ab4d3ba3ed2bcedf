package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/smartpos/backend/internal/domain/shared"
)

// ProductRepository defines the persistence contract for products
type ProductRepository interface {
	shared.ShopRepository[Product]
	FindByCode(ctx context.Context, shopID uuid.UUID, code string) (*Product, error)
	ExistsByCode(ctx context.Context, shopID uuid.UUID, code string) (bool, error)
	CountActive(ctx context.Context, shopID uuid.UUID) (int64, error)
}
