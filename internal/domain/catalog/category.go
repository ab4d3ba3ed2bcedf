package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/smartpos/backend/internal/domain/shared"
)

// Category groups products for navigation and reporting.
// Category names are unique within a shop.
type Category struct {
	shared.ShopAggregateRoot
	Name        string `gorm:"type:varchar(100);not null"`
	Description string `gorm:"type:text"`
	IsActive    bool   `gorm:"not null;default:true"`
}

// TableName specifies the database table name
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a new category
func NewCategory(shopID uuid.UUID, name string) (*Category, error) {
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}

	return &Category{
		ShopAggregateRoot: shared.NewShopAggregateRoot(shopID),
		Name:              strings.TrimSpace(name),
		IsActive:          true,
	}, nil
}

// Rename changes the category name
func (c *Category) Rename(name string) error {
	if err := validateCategoryName(name); err != nil {
		return err
	}

	c.Name = strings.TrimSpace(name)
	c.Touch()
	c.IncrementVersion()

	return nil
}

// SetDescription sets the category description
func (c *Category) SetDescription(description string) {
	c.Description = description
	c.Touch()
	c.IncrementVersion()
}

// Activate makes the category available for assignment
func (c *Category) Activate() {
	c.IsActive = true
	c.Touch()
	c.IncrementVersion()
}

// Deactivate hides the category without deleting it
func (c *Category) Deactivate() {
	c.IsActive = false
	c.Touch()
	c.IncrementVersion()
}

func validateCategoryName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_CATEGORY_NAME", "Category name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_CATEGORY_NAME", "Category name cannot exceed 100 characters")
	}
	return nil
}
