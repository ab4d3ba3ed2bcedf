package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/smartpos/backend/internal/domain/catalog"
	"github.com/smartpos/backend/internal/domain/inventory"
	"github.com/smartpos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// InventoryService manages stock levels outside of checkout. Every manual
// change writes an audit adjustment; checkout decrements go through the
// sale engine instead.
type InventoryService struct {
	inventoryRepo  inventory.InventoryRepository
	adjustmentRepo inventory.AdjustmentRepository
	productRepo    catalog.ProductRepository
	logger         *zap.Logger
}

// NewInventoryService creates a new inventory service
func NewInventoryService(
	inventoryRepo inventory.InventoryRepository,
	adjustmentRepo inventory.AdjustmentRepository,
	productRepo catalog.ProductRepository,
	logger *zap.Logger,
) *InventoryService {
	return &InventoryService{
		inventoryRepo:  inventoryRepo,
		adjustmentRepo: adjustmentRepo,
		productRepo:    productRepo,
		logger:         logger,
	}
}

// List returns inventory records for a shop, each joined with its product
func (s *InventoryService) List(ctx context.Context, shopID uuid.UUID, input ListInventoryInput) (*shared.Paginated[InventoryResponse], error) {
	if input.LowStockOnly {
		items, err := s.inventoryRepo.FindBelowMinimum(ctx, shopID)
		if err != nil {
			return nil, err
		}
		responses, err := s.enrich(ctx, shopID, items)
		if err != nil {
			return nil, err
		}
		paginated := shared.NewPaginated(responses, int64(len(responses)), 1, max(len(responses), 1))
		return &paginated, nil
	}

	filter := shared.DefaultFilter()
	if input.Page > 0 {
		filter.Page = input.Page
	}
	if input.PageSize > 0 {
		filter.PageSize = input.PageSize
	}

	items, err := s.inventoryRepo.FindAllForShop(ctx, shopID, filter)
	if err != nil {
		return nil, err
	}

	countFilter := filter
	countFilter.Filters = map[string]interface{}{"shop_id": shopID}
	total, err := s.inventoryRepo.Count(ctx, countFilter)
	if err != nil {
		return nil, err
	}

	responses, err := s.enrich(ctx, shopID, items)
	if err != nil {
		return nil, err
	}
	paginated := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &paginated, nil
}

func (s *InventoryService) enrich(ctx context.Context, shopID uuid.UUID, items []inventory.InventoryItem) ([]InventoryResponse, error) {
	responses := make([]InventoryResponse, 0, len(items))
	for i := range items {
		product, err := s.productRepo.FindByIDForShop(ctx, shopID, items[i].ProductID)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		responses = append(responses, *ToInventoryResponse(&items[i], product))
	}
	return responses, nil
}

// GetByProductID returns the inventory record for a product
func (s *InventoryService) GetByProductID(ctx context.Context, shopID, productID uuid.UUID) (*InventoryResponse, error) {
	item, err := s.inventoryRepo.FindByProductID(ctx, shopID, productID)
	if err != nil {
		return nil, err
	}
	product, err := s.productRepo.FindByIDForShop(ctx, shopID, productID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	return ToInventoryResponse(item, product), nil
}

// UpdateStock applies a manual stock change to a product's inventory and
// appends the audit adjustment.
func (s *InventoryService) UpdateStock(ctx context.Context, shopID, userID, productID uuid.UUID, input UpdateStockInput) (*InventoryResponse, error) {
	if (input.SetTo == nil) == (input.ChangeBy == nil) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Provide either a target stock level or a change amount")
	}

	adjustmentType := inventory.AdjustmentType(input.AdjustmentType)
	if input.AdjustmentType == "" {
		adjustmentType = inventory.AdjustmentTypeAdjustment
	}
	if !adjustmentType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ADJUSTMENT_TYPE", "Unknown adjustment type")
	}
	if adjustmentType == inventory.AdjustmentTypeSale {
		return nil, shared.NewDomainError("INVALID_ADJUSTMENT_TYPE", "Sale adjustments are recorded by checkout only")
	}

	item, err := s.inventoryRepo.FindByProductID(ctx, shopID, productID)
	if err != nil {
		return nil, err
	}

	before := item.CurrentStock
	switch {
	case input.SetTo != nil:
		if err := item.SetStock(*input.SetTo); err != nil {
			return nil, err
		}
	case *input.ChangeBy > 0:
		if err := item.Increase(*input.ChangeBy); err != nil {
			return nil, err
		}
	default:
		if err := item.Decrease(-*input.ChangeBy); err != nil {
			return nil, err
		}
	}
	change := item.CurrentStock - before
	if change == 0 {
		product, _ := s.productRepo.FindByIDForShop(ctx, shopID, productID)
		return ToInventoryResponse(item, product), nil
	}

	if err := s.inventoryRepo.SaveWithLock(ctx, item); err != nil {
		return nil, err
	}

	adjustment, err := inventory.NewInventoryAdjustment(shopID, item, adjustmentType, change)
	if err != nil {
		return nil, err
	}
	adjustment.WithReason(input.Reason).WithAdjustedBy(userID)
	if err := s.adjustmentRepo.Save(ctx, adjustment); err != nil {
		return nil, err
	}

	s.logger.Info("stock adjusted",
		zap.String("shop_id", shopID.String()),
		zap.String("product_id", productID.String()),
		zap.String("adjustment_type", string(adjustmentType)),
		zap.Int("change", change),
		zap.Int("stock_after", item.CurrentStock))

	product, err := s.productRepo.FindByIDForShop(ctx, shopID, productID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	return ToInventoryResponse(item, product), nil
}

// UpdateThresholds changes the low/over-stock boundaries
func (s *InventoryService) UpdateThresholds(ctx context.Context, shopID, productID uuid.UUID, input UpdateThresholdsInput) (*InventoryResponse, error) {
	item, err := s.inventoryRepo.FindByProductID(ctx, shopID, productID)
	if err != nil {
		return nil, err
	}
	if err := item.SetThresholds(input.MinimumStock, input.MaximumStock); err != nil {
		return nil, err
	}
	if err := s.inventoryRepo.SaveWithLock(ctx, item); err != nil {
		return nil, err
	}
	product, err := s.productRepo.FindByIDForShop(ctx, shopID, productID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	return ToInventoryResponse(item, product), nil
}

// ListLowStock returns inventory records at or below their minimum
func (s *InventoryService) ListLowStock(ctx context.Context, shopID uuid.UUID) ([]InventoryResponse, error) {
	items, err := s.inventoryRepo.FindBelowMinimum(ctx, shopID)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, shopID, items)
}

// History returns the audit trail for a product's inventory, newest first
func (s *InventoryService) History(ctx context.Context, shopID, productID uuid.UUID, page, pageSize int) ([]AdjustmentResponse, error) {
	item, err := s.inventoryRepo.FindByProductID(ctx, shopID, productID)
	if err != nil {
		return nil, err
	}

	filter := shared.DefaultFilter()
	if page > 0 {
		filter.Page = page
	}
	if pageSize > 0 {
		filter.PageSize = pageSize
	}

	adjustments, err := s.adjustmentRepo.FindByInventoryID(ctx, shopID, item.ID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]AdjustmentResponse, 0, len(adjustments))
	for i := range adjustments {
		responses = append(responses, *ToAdjustmentResponse(&adjustments[i]))
	}
	return responses, nil
}
