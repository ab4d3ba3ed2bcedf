package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/smartpos/backend/internal/domain/shared"
)

// SaleRepository defines the persistence contract for sales.
// Save persists the sale together with its line items; implementations
// must surface a duplicate invoice number as shared.ErrAlreadyExists.
type SaleRepository interface {
	shared.ShopRepository[Sale]
	FindByInvoiceNumber(ctx context.Context, shopID uuid.UUID, invoiceNumber string) (*Sale, error)
	FindRecent(ctx context.Context, shopID uuid.UUID, limit int) ([]Sale, error)
	SumTotalBetween(ctx context.Context, shopID uuid.UUID, from, to time.Time) (decimal.Decimal, error)
	CountBetween(ctx context.Context, shopID uuid.UUID, from, to time.Time) (int64, error)
}
