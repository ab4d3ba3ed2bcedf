package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/smartpos/backend/internal/domain/shared"
)

// CustomerRepository defines the persistence contract for customers
type CustomerRepository interface {
	shared.ShopRepository[Customer]
	Search(ctx context.Context, shopID uuid.UUID, query string, filter shared.Filter) ([]Customer, error)
	CountActive(ctx context.Context, shopID uuid.UUID) (int64, error)
}
