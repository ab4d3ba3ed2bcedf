package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/smartpos/backend/internal/domain/catalog"
	"github.com/smartpos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CategoryService manages the product category catalog
type CategoryService struct {
	categoryRepo catalog.CategoryRepository
	logger       *zap.Logger
}

// NewCategoryService creates a new category service
func NewCategoryService(categoryRepo catalog.CategoryRepository, logger *zap.Logger) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		logger:       logger,
	}
}

// Create creates a new category. Names are unique within a shop.
func (s *CategoryService) Create(ctx context.Context, shopID uuid.UUID, input CreateCategoryInput) (*CategoryResponse, error) {
	exists, err := s.categoryRepo.ExistsByName(ctx, shopID, input.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", fmt.Sprintf("Category %q already exists", input.Name))
	}

	category, err := catalog.NewCategory(shopID, input.Name)
	if err != nil {
		return nil, err
	}
	category.SetDescription(input.Description)

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	s.logger.Info("category created",
		zap.String("shop_id", shopID.String()),
		zap.String("category_id", category.ID.String()),
		zap.String("name", category.Name))

	return ToCategoryResponse(category), nil
}

// GetByID returns a single category
func (s *CategoryService) GetByID(ctx context.Context, shopID, id uuid.UUID) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByIDForShop(ctx, shopID, id)
	if err != nil {
		return nil, err
	}
	return ToCategoryResponse(category), nil
}

// List returns categories for a shop
func (s *CategoryService) List(ctx context.Context, shopID uuid.UUID, page, pageSize int) (*shared.Paginated[CategoryResponse], error) {
	filter := shared.DefaultFilter()
	if page > 0 {
		filter.Page = page
	}
	if pageSize > 0 {
		filter.PageSize = pageSize
	}
	filter.OrderBy = "name"
	filter.OrderDir = "asc"

	items, err := s.categoryRepo.FindAllForShop(ctx, shopID, filter)
	if err != nil {
		return nil, err
	}

	countFilter := filter
	countFilter.Filters = map[string]interface{}{"shop_id": shopID}
	total, err := s.categoryRepo.Count(ctx, countFilter)
	if err != nil {
		return nil, err
	}

	responses := make([]CategoryResponse, 0, len(items))
	for i := range items {
		responses = append(responses, *ToCategoryResponse(&items[i]))
	}
	paginated := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &paginated, nil
}

// Update applies a partial update to a category
func (s *CategoryService) Update(ctx context.Context, shopID, id uuid.UUID, input UpdateCategoryInput) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByIDForShop(ctx, shopID, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil && *input.Name != category.Name {
		exists, err := s.categoryRepo.ExistsByName(ctx, shopID, *input.Name)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", fmt.Sprintf("Category %q already exists", *input.Name))
		}
		if err := category.Rename(*input.Name); err != nil {
			return nil, err
		}
	}
	if input.Description != nil {
		category.SetDescription(*input.Description)
	}
	if input.IsActive != nil {
		if *input.IsActive {
			category.Activate()
		} else {
			category.Deactivate()
		}
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	return ToCategoryResponse(category), nil
}

// Delete removes a category. Referencing products get their category
// cleared by the schema's ON DELETE SET NULL.
func (s *CategoryService) Delete(ctx context.Context, shopID, id uuid.UUID) error {
	if _, err := s.categoryRepo.FindByIDForShop(ctx, shopID, id); err != nil {
		return err
	}
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("category deleted",
		zap.String("shop_id", shopID.String()),
		zap.String("category_id", id.String()))
	return nil
}
