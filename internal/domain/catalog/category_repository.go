package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/smartpos/backend/internal/domain/shared"
)

// CategoryRepository defines the persistence contract for categories
type CategoryRepository interface {
	shared.ShopRepository[Category]
	FindByName(ctx context.Context, shopID uuid.UUID, name string) (*Category, error)
	ExistsByName(ctx context.Context, shopID uuid.UUID, name string) (bool, error)
}
