package sales

import (
	"context"

	"github.com/smartpos/backend/internal/domain/catalog"
	"github.com/smartpos/backend/internal/domain/inventory"
	"github.com/smartpos/backend/internal/domain/partner"
	"github.com/smartpos/backend/internal/domain/sales"
)

// TransactionScope provides transactional access to the repositories the
// sale workflow writes. When a function is executed within a scope, all
// repository operations are part of the same database transaction and
// commit or roll back together.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories of a sale's
// unit of work. All repositories returned share the same underlying
// database transaction, so the inventory row lock taken through
// InventoryRepo holds until the sale, its items, the adjustments, and any
// customer update commit together.
type TransactionalRepositories interface {
	SaleRepo() sales.SaleRepository
	ProductRepo() catalog.ProductRepository
	InventoryRepo() inventory.InventoryRepository
	AdjustmentRepo() inventory.AdjustmentRepository
	CustomerRepo() partner.CustomerRepository
}

// NoOpTransactionScope runs the unit of work without a real transaction.
// Useful for tests built on mock repositories.
type NoOpTransactionScope struct {
	saleRepo       sales.SaleRepository
	productRepo    catalog.ProductRepository
	inventoryRepo  inventory.InventoryRepository
	adjustmentRepo inventory.AdjustmentRepository
	customerRepo   partner.CustomerRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories
func NewNoOpTransactionScope(
	saleRepo sales.SaleRepository,
	productRepo catalog.ProductRepository,
	inventoryRepo inventory.InventoryRepository,
	adjustmentRepo inventory.AdjustmentRepository,
	customerRepo partner.CustomerRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		saleRepo:       saleRepo,
		productRepo:    productRepo,
		inventoryRepo:  inventoryRepo,
		adjustmentRepo: adjustmentRepo,
		customerRepo:   customerRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// SaleRepo returns the sale repository
func (s *NoOpTransactionScope) SaleRepo() sales.SaleRepository {
	return s.saleRepo
}

// ProductRepo returns the product repository
func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository {
	return s.productRepo
}

// InventoryRepo returns the inventory repository
func (s *NoOpTransactionScope) InventoryRepo() inventory.InventoryRepository {
	return s.inventoryRepo
}

// AdjustmentRepo returns the adjustment repository
func (s *NoOpTransactionScope) AdjustmentRepo() inventory.AdjustmentRepository {
	return s.adjustmentRepo
}

// CustomerRepo returns the customer repository
func (s *NoOpTransactionScope) CustomerRepo() partner.CustomerRepository {
	return s.customerRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
