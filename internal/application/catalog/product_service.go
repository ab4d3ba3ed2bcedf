package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/smartpos/backend/internal/domain/catalog"
	"github.com/smartpos/backend/internal/domain/inventory"
	"github.com/smartpos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ProductService manages the product catalog. Creating a product with an
// initial stock also seeds its inventory record and writes the opening
// adjustment.
type ProductService struct {
	productRepo    catalog.ProductRepository
	categoryRepo   catalog.CategoryRepository
	inventoryRepo  inventory.InventoryRepository
	adjustmentRepo inventory.AdjustmentRepository
	logger         *zap.Logger
}

// NewProductService creates a new product service
func NewProductService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	inventoryRepo inventory.InventoryRepository,
	adjustmentRepo inventory.AdjustmentRepository,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		productRepo:    productRepo,
		categoryRepo:   categoryRepo,
		inventoryRepo:  inventoryRepo,
		adjustmentRepo: adjustmentRepo,
		logger:         logger,
	}
}

// Create creates a new product. Codes are unique within a shop.
func (s *ProductService) Create(ctx context.Context, shopID, userID uuid.UUID, input CreateProductInput) (*ProductResponse, error) {
	exists, err := s.productRepo.ExistsByCode(ctx, shopID, input.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", fmt.Sprintf("Product code %q already exists", input.Code))
	}

	if input.CategoryID != nil {
		if _, err := s.categoryRepo.FindByIDForShop(ctx, shopID, *input.CategoryID); err != nil {
			return nil, err
		}
	}

	product, err := catalog.NewProduct(shopID, input.Code, input.Name, input.UnitPrice)
	if err != nil {
		return nil, err
	}
	product.CreatedBy = &userID
	product.SetCategory(input.CategoryID)
	product.SetDescription(input.Description)

	costPrice := product.CostPrice
	if input.CostPrice != nil {
		costPrice = *input.CostPrice
	}
	sellingPrice := product.SellingPrice
	if input.SellingPrice != nil {
		sellingPrice = *input.SellingPrice
	}
	if err := product.SetPrices(product.UnitPrice, costPrice, sellingPrice); err != nil {
		return nil, err
	}
	if input.DiscountPercent != nil {
		if err := product.SetDiscountPercent(*input.DiscountPercent); err != nil {
			return nil, err
		}
	}
	if input.TaxPercent != nil {
		if err := product.SetTaxPercent(*input.TaxPercent); err != nil {
			return nil, err
		}
	}
	if input.Unit != "" {
		if err := product.SetUnit(input.Unit); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	if input.InitialStock != nil {
		if err := s.seedInventory(ctx, shopID, userID, product, input); err != nil {
			return nil, err
		}
	}

	s.logger.Info("product created",
		zap.String("shop_id", shopID.String()),
		zap.String("product_id", product.ID.String()),
		zap.String("code", product.Code))

	return ToProductResponse(product), nil
}

func (s *ProductService) seedInventory(ctx context.Context, shopID, userID uuid.UUID, product *catalog.Product, input CreateProductInput) error {
	minimum := 0
	if input.MinimumStock != nil {
		minimum = *input.MinimumStock
	}
	maximum := 0
	if input.MaximumStock != nil {
		maximum = *input.MaximumStock
	}

	item, err := inventory.NewInventoryItem(shopID, product.ID, *input.InitialStock, minimum, maximum)
	if err != nil {
		return err
	}
	if err := s.inventoryRepo.Save(ctx, item); err != nil {
		return err
	}

	if *input.InitialStock > 0 {
		adjustment, err := inventory.NewInventoryAdjustment(shopID, item, inventory.AdjustmentTypePurchase, *input.InitialStock)
		if err != nil {
			return err
		}
		adjustment.WithReason("Initial stock").WithAdjustedBy(userID)
		if err := s.adjustmentRepo.Save(ctx, adjustment); err != nil {
			return err
		}
	}
	return nil
}

// GetByID returns a single product
func (s *ProductService) GetByID(ctx context.Context, shopID, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForShop(ctx, shopID, id)
	if err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// GetByCode returns a single product looked up by its code
func (s *ProductService) GetByCode(ctx context.Context, shopID uuid.UUID, code string) (*ProductResponse, error) {
	product, err := s.productRepo.FindByCode(ctx, shopID, code)
	if err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// List returns products for a shop filtered by category, status, and a
// name/code search term.
func (s *ProductService) List(ctx context.Context, shopID uuid.UUID, input ListProductsInput) (*shared.Paginated[ProductResponse], error) {
	filter := shared.DefaultFilter()
	if input.Page > 0 {
		filter.Page = input.Page
	}
	if input.PageSize > 0 {
		filter.PageSize = input.PageSize
	}
	filter.OrderBy = "name"
	filter.OrderDir = "asc"
	filter.Search = input.Search
	if input.CategoryID != nil {
		filter.Filters["category_id"] = *input.CategoryID
	}
	if input.IsActive != nil {
		filter.Filters["is_active"] = *input.IsActive
	}

	items, err := s.productRepo.FindAllForShop(ctx, shopID, filter)
	if err != nil {
		return nil, err
	}

	countFilter := filter
	countFilter.Filters = make(map[string]interface{}, len(filter.Filters)+1)
	for k, v := range filter.Filters {
		countFilter.Filters[k] = v
	}
	countFilter.Filters["shop_id"] = shopID
	total, err := s.productRepo.Count(ctx, countFilter)
	if err != nil {
		return nil, err
	}

	responses := make([]ProductResponse, 0, len(items))
	for i := range items {
		responses = append(responses, *ToProductResponse(&items[i]))
	}
	paginated := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &paginated, nil
}

// Update applies a partial update to a product
func (s *ProductService) Update(ctx context.Context, shopID, id uuid.UUID, input UpdateProductInput) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForShop(ctx, shopID, id)
	if err != nil {
		return nil, err
	}

	if input.CategoryID != nil {
		if _, err := s.categoryRepo.FindByIDForShop(ctx, shopID, *input.CategoryID); err != nil {
			return nil, err
		}
		product.SetCategory(input.CategoryID)
	}
	if input.Name != nil {
		if err := product.SetName(*input.Name); err != nil {
			return nil, err
		}
	}
	if input.Description != nil {
		product.SetDescription(*input.Description)
	}
	if input.UnitPrice != nil || input.CostPrice != nil || input.SellingPrice != nil {
		unitPrice := product.UnitPrice
		if input.UnitPrice != nil {
			unitPrice = *input.UnitPrice
		}
		costPrice := product.CostPrice
		if input.CostPrice != nil {
			costPrice = *input.CostPrice
		}
		sellingPrice := product.SellingPrice
		if input.SellingPrice != nil {
			sellingPrice = *input.SellingPrice
		}
		if err := product.SetPrices(unitPrice, costPrice, sellingPrice); err != nil {
			return nil, err
		}
	}
	if input.DiscountPercent != nil {
		if err := product.SetDiscountPercent(*input.DiscountPercent); err != nil {
			return nil, err
		}
	}
	if input.TaxPercent != nil {
		if err := product.SetTaxPercent(*input.TaxPercent); err != nil {
			return nil, err
		}
	}
	if input.Unit != nil {
		if err := product.SetUnit(*input.Unit); err != nil {
			return nil, err
		}
	}
	if input.IsActive != nil {
		if *input.IsActive {
			product.Activate()
		} else {
			product.Deactivate()
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// Delete deactivates a product rather than removing it, so historical
// sale lines keep a valid reference.
func (s *ProductService) Delete(ctx context.Context, shopID, id uuid.UUID) error {
	product, err := s.productRepo.FindByIDForShop(ctx, shopID, id)
	if err != nil {
		return err
	}
	product.Deactivate()
	if err := s.productRepo.Save(ctx, product); err != nil {
		return err
	}
	s.logger.Info("product deactivated",
		zap.String("shop_id", shopID.String()),
		zap.String("product_id", id.String()))
	return nil
}
