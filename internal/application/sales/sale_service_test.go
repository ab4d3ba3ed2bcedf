package sales

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/smartpos/backend/internal/domain/catalog"
	"github.com/smartpos/backend/internal/domain/inventory"
	"github.com/smartpos/backend/internal/domain/partner"
	"github.com/smartpos/backend/internal/domain/sales"
	"github.com/smartpos/backend/internal/domain/shared"
)

// MockSaleRepository is a mock implementation of sales.SaleRepository
type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Sale, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sales.Sale, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]sales.Sale), args.Error(1)
}

func (m *MockSaleRepository) Save(ctx context.Context, sale *sales.Sale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

func (m *MockSaleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSaleRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSaleRepository) FindByIDForShop(ctx context.Context, shopID, id uuid.UUID) (*sales.Sale, error) {
	args := m.Called(ctx, shopID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindAllForShop(ctx context.Context, shopID uuid.UUID, filter shared.Filter) ([]sales.Sale, error) {
	args := m.Called(ctx, shopID, filter)
	return args.Get(0).([]sales.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindByInvoiceNumber(ctx context.Context, shopID uuid.UUID, invoiceNumber string) (*sales.Sale, error) {
	args := m.Called(ctx, shopID, invoiceNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindRecent(ctx context.Context, shopID uuid.UUID, limit int) ([]sales.Sale, error) {
	args := m.Called(ctx, shopID, limit)
	return args.Get(0).([]sales.Sale), args.Error(1)
}

func (m *MockSaleRepository) SumTotalBetween(ctx context.Context, shopID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, shopID, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockSaleRepository) CountBetween(ctx context.Context, shopID uuid.UUID, from, to time.Time) (int64, error) {
	args := m.Called(ctx, shopID, from, to)
	return args.Get(0).(int64), args.Error(1)
}

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) FindByIDForShop(ctx context.Context, shopID, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, shopID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAllForShop(ctx context.Context, shopID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, shopID, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByCode(ctx context.Context, shopID uuid.UUID, code string) (*catalog.Product, error) {
	args := m.Called(ctx, shopID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) ExistsByCode(ctx context.Context, shopID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, shopID, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) CountActive(ctx context.Context, shopID uuid.UUID) (int64, error) {
	args := m.Called(ctx, shopID)
	return args.Get(0).(int64), args.Error(1)
}

// MockInventoryRepository is a mock implementation of inventory.InventoryRepository
type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.InventoryItem), args.Error(1)
}

func (m *MockInventoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.InventoryItem, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]inventory.InventoryItem), args.Error(1)
}

func (m *MockInventoryRepository) Save(ctx context.Context, item *inventory.InventoryItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockInventoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockInventoryRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInventoryRepository) FindByIDForShop(ctx context.Context, shopID, id uuid.UUID) (*inventory.InventoryItem, error) {
	args := m.Called(ctx, shopID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.InventoryItem), args.Error(1)
}

func (m *MockInventoryRepository) FindAllForShop(ctx context.Context, shopID uuid.UUID, filter shared.Filter) ([]inventory.InventoryItem, error) {
	args := m.Called(ctx, shopID, filter)
	return args.Get(0).([]inventory.InventoryItem), args.Error(1)
}

func (m *MockInventoryRepository) FindByProductID(ctx context.Context, shopID, productID uuid.UUID) (*inventory.InventoryItem, error) {
	args := m.Called(ctx, shopID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.InventoryItem), args.Error(1)
}

func (m *MockInventoryRepository) FindByProductIDForUpdate(ctx context.Context, shopID, productID uuid.UUID) (*inventory.InventoryItem, error) {
	args := m.Called(ctx, shopID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.InventoryItem), args.Error(1)
}

func (m *MockInventoryRepository) SaveWithLock(ctx context.Context, item *inventory.InventoryItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockInventoryRepository) FindBelowMinimum(ctx context.Context, shopID uuid.UUID) ([]inventory.InventoryItem, error) {
	args := m.Called(ctx, shopID)
	return args.Get(0).([]inventory.InventoryItem), args.Error(1)
}

func (m *MockInventoryRepository) CountBelowMinimum(ctx context.Context, shopID uuid.UUID) (int64, error) {
	args := m.Called(ctx, shopID)
	return args.Get(0).(int64), args.Error(1)
}

// MockAdjustmentRepository is a mock implementation of inventory.AdjustmentRepository
type MockAdjustmentRepository struct {
	mock.Mock
}

func (m *MockAdjustmentRepository) Save(ctx context.Context, adjustment *inventory.InventoryAdjustment) error {
	args := m.Called(ctx, adjustment)
	return args.Error(0)
}

func (m *MockAdjustmentRepository) FindByInventoryID(ctx context.Context, shopID, inventoryID uuid.UUID, filter shared.Filter) ([]inventory.InventoryAdjustment, error) {
	args := m.Called(ctx, shopID, inventoryID, filter)
	return args.Get(0).([]inventory.InventoryAdjustment), args.Error(1)
}

func (m *MockAdjustmentRepository) FindByReference(ctx context.Context, shopID uuid.UUID, referenceID string) ([]inventory.InventoryAdjustment, error) {
	args := m.Called(ctx, shopID, referenceID)
	return args.Get(0).([]inventory.InventoryAdjustment), args.Error(1)
}

// MockCustomerRepository is a mock implementation of partner.CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Customer, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCustomerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCustomerRepository) FindByIDForShop(ctx context.Context, shopID, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, shopID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAllForShop(ctx context.Context, shopID uuid.UUID, filter shared.Filter) ([]partner.Customer, error) {
	args := m.Called(ctx, shopID, filter)
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Search(ctx context.Context, shopID uuid.UUID, query string, filter shared.Filter) ([]partner.Customer, error) {
	args := m.Called(ctx, shopID, query, filter)
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) CountActive(ctx context.Context, shopID uuid.UUID) (int64, error) {
	args := m.Called(ctx, shopID)
	return args.Get(0).(int64), args.Error(1)
}

// Test fixtures

type saleServiceFixture struct {
	saleRepo      *MockSaleRepository
	productRepo   *MockProductRepository
	inventoryRepo *MockInventoryRepository
	adjustRepo    *MockAdjustmentRepository
	customerRepo  *MockCustomerRepository
	service       *SaleService
}

func newSaleServiceFixture(invoiceMaxAttempts int) *saleServiceFixture {
	f := &saleServiceFixture{
		saleRepo:      new(MockSaleRepository),
		productRepo:   new(MockProductRepository),
		inventoryRepo: new(MockInventoryRepository),
		adjustRepo:    new(MockAdjustmentRepository),
		customerRepo:  new(MockCustomerRepository),
	}
	scope := NewNoOpTransactionScope(f.saleRepo, f.productRepo, f.inventoryRepo, f.adjustRepo, f.customerRepo)
	f.service = NewSaleService(scope, f.saleRepo, invoiceMaxAttempts, zap.NewNop())
	return f
}

func testShopID() uuid.UUID {
	return uuid.MustParse("11111111-1111-1111-1111-111111111111")
}

func testUserID() uuid.UUID {
	return uuid.MustParse("22222222-2222-2222-2222-222222222222")
}

func newTestProduct(t *testing.T, shopID uuid.UUID) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(shopID, "SKU-001", "Widget", decimal.NewFromInt(100))
	assert.NoError(t, err)
	return product
}

func newTestInventory(t *testing.T, shopID, productID uuid.UUID, stock int) *inventory.InventoryItem {
	t.Helper()
	item, err := inventory.NewInventoryItem(shopID, productID, stock, 0, 0)
	assert.NoError(t, err)
	return item
}

// Tests for SaleService.Create

func TestSaleService_Create_Success(t *testing.T) {
	f := newSaleServiceFixture(5)
	ctx := context.Background()
	shopID := testShopID()
	product := newTestProduct(t, shopID)
	item := newTestInventory(t, shopID, product.ID, 10)

	f.productRepo.On("FindByIDForShop", ctx, shopID, product.ID).Return(product, nil)
	f.inventoryRepo.On("FindByProductIDForUpdate", ctx, shopID, product.ID).Return(item, nil)
	f.saleRepo.On("Save", ctx, mock.AnythingOfType("*sales.Sale")).Return(nil)
	f.inventoryRepo.On("SaveWithLock", ctx, item).Return(nil)
	f.adjustRepo.On("Save", ctx, mock.AnythingOfType("*inventory.InventoryAdjustment")).Return(nil)

	result, err := f.service.Create(ctx, shopID, testUserID(), CreateSaleInput{
		PaymentMethod: "cash",
		PaidAmount:    decimal.NewFromInt(250),
		Items: []CreateSaleItemInput{{
			ProductID: product.ID,
			Quantity:  2,
			UnitPrice: decimal.NewFromInt(100),
		}},
	})

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, "200.00", result.TotalAmount.StringFixed(2))
	assert.Equal(t, "50.00", result.ChangeAmount.StringFixed(2))
	assert.Equal(t, "completed", result.PaymentStatus)
	assert.NotEmpty(t, result.InvoiceNumber)
	assert.Equal(t, 8, item.CurrentStock)

	f.saleRepo.AssertExpectations(t)
	f.inventoryRepo.AssertExpectations(t)
	f.adjustRepo.AssertExpectations(t)
}

func TestSaleService_Create_PublishesSaleCreatedEvent(t *testing.T) {
	f := newSaleServiceFixture(5)
	core, logs := observer.New(zapcore.InfoLevel)
	f.service.logger = zap.New(core)

	ctx := context.Background()
	shopID := testShopID()
	product := newTestProduct(t, shopID)
	item := newTestInventory(t, shopID, product.ID, 10)

	var saved *sales.Sale
	f.productRepo.On("FindByIDForShop", ctx, shopID, product.ID).Return(product, nil)
	f.inventoryRepo.On("FindByProductIDForUpdate", ctx, shopID, product.ID).Return(item, nil)
	f.saleRepo.On("Save", ctx, mock.AnythingOfType("*sales.Sale")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*sales.Sale) }).
		Return(nil)
	f.inventoryRepo.On("SaveWithLock", ctx, item).Return(nil)
	f.adjustRepo.On("Save", ctx, mock.AnythingOfType("*inventory.InventoryAdjustment")).Return(nil)

	_, err := f.service.Create(ctx, shopID, testUserID(), CreateSaleInput{
		PaymentMethod: "cash",
		PaidAmount:    decimal.NewFromInt(100),
		Items: []CreateSaleItemInput{{
			ProductID: product.ID,
			Quantity:  1,
			UnitPrice: decimal.NewFromInt(100),
		}},
	})
	assert.NoError(t, err)

	entries := logs.FilterMessage("domain event").All()
	assert.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "sale.created", fields["event_type"])
	assert.Equal(t, "Sale", fields["aggregate_type"])
	assert.Equal(t, saved.ID.String(), fields["aggregate_id"])
	assert.Equal(t, shopID.String(), fields["shop_id"])

	// The aggregate is drained once its events have been published
	assert.Empty(t, saved.GetDomainEvents())
}

func TestSaleService_Create_UsesCatalogDefaults(t *testing.T) {
	f := newSaleServiceFixture(5)
	ctx := context.Background()
	shopID := testShopID()
	product := newTestProduct(t, shopID)
	assert.NoError(t, product.SetDiscountPercent(decimal.NewFromInt(10)))
	assert.NoError(t, product.SetTaxPercent(decimal.NewFromInt(10)))
	item := newTestInventory(t, shopID, product.ID, 10)

	f.productRepo.On("FindByIDForShop", ctx, shopID, product.ID).Return(product, nil)
	f.inventoryRepo.On("FindByProductIDForUpdate", ctx, shopID, product.ID).Return(item, nil)
	f.saleRepo.On("Save", ctx, mock.AnythingOfType("*sales.Sale")).Return(nil)
	f.inventoryRepo.On("SaveWithLock", ctx, item).Return(nil)
	f.adjustRepo.On("Save", ctx, mock.AnythingOfType("*inventory.InventoryAdjustment")).Return(nil)

	result, err := f.service.Create(ctx, shopID, testUserID(), CreateSaleInput{
		PaymentMethod: "cash",
		PaidAmount:    decimal.NewFromInt(200),
		Items: []CreateSaleItemInput{{
			ProductID: product.ID,
			Quantity:  2,
			UnitPrice: decimal.NewFromInt(100),
		}},
	})

	// 200 subtotal, 10% discount = 20, 10% tax on 180 = 18, total 198
	assert.NoError(t, err)
	assert.Equal(t, "20.00", result.DiscountAmount.StringFixed(2))
	assert.Equal(t, "18.00", result.TaxAmount.StringFixed(2))
	assert.Equal(t, "198.00", result.TotalAmount.StringFixed(2))
}

func TestSaleService_Create_OverrideBeatsCatalogDefault(t *testing.T) {
	f := newSaleServiceFixture(5)
	ctx := context.Background()
	shopID := testShopID()
	product := newTestProduct(t, shopID)
	assert.NoError(t, product.SetDiscountPercent(decimal.NewFromInt(50)))
	item := newTestInventory(t, shopID, product.ID, 10)

	f.productRepo.On("FindByIDForShop", ctx, shopID, product.ID).Return(product, nil)
	f.inventoryRepo.On("FindByProductIDForUpdate", ctx, shopID, product.ID).Return(item, nil)
	f.saleRepo.On("Save", ctx, mock.AnythingOfType("*sales.Sale")).Return(nil)
	f.inventoryRepo.On("SaveWithLock", ctx, item).Return(nil)
	f.adjustRepo.On("Save", ctx, mock.AnythingOfType("*inventory.InventoryAdjustment")).Return(nil)

	override := decimal.Zero
	result, err := f.service.Create(ctx, shopID, testUserID(), CreateSaleInput{
		PaymentMethod: "card",
		PaidAmount:    decimal.NewFromInt(100),
		Items: []CreateSaleItemInput{{
			ProductID:       product.ID,
			Quantity:        1,
			UnitPrice:       decimal.NewFromInt(100),
			DiscountPercent: &override,
		}},
	})

	assert.NoError(t, err)
	assert.True(t, result.DiscountAmount.IsZero())
	assert.Equal(t, "100.00", result.TotalAmount.StringFixed(2))
}

func TestSaleService_Create_InsufficientStock(t *testing.T) {
	f := newSaleServiceFixture(5)
	ctx := context.Background()
	shopID := testShopID()
	product := newTestProduct(t, shopID)
	item := newTestInventory(t, shopID, product.ID, 1)

	f.productRepo.On("FindByIDForShop", ctx, shopID, product.ID).Return(product, nil)
	f.inventoryRepo.On("FindByProductIDForUpdate", ctx, shopID, product.ID).Return(item, nil)

	result, err := f.service.Create(ctx, shopID, testUserID(), CreateSaleInput{
		PaymentMethod: "cash",
		PaidAmount:    decimal.NewFromInt(200),
		Items: []CreateSaleItemInput{{
			ProductID: product.ID,
			Quantity:  2,
			UnitPrice: decimal.NewFromInt(100),
		}},
	})

	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)
	assert.Contains(t, domainErr.Message, "1 available, 2 requested")

	// The whole sale is rejected: nothing was persisted, stock untouched
	f.saleRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	assert.Equal(t, 1, item.CurrentStock)
}

func TestSaleService_Create_InactiveProduct(t *testing.T) {
	f := newSaleServiceFixture(5)
	ctx := context.Background()
	shopID := testShopID()
	product := newTestProduct(t, shopID)
	product.Deactivate()

	f.productRepo.On("FindByIDForShop", ctx, shopID, product.ID).Return(product, nil)

	result, err := f.service.Create(ctx, shopID, testUserID(), CreateSaleInput{
		PaymentMethod: "cash",
		PaidAmount:    decimal.NewFromInt(100),
		Items: []CreateSaleItemInput{{
			ProductID: product.ID,
			Quantity:  1,
			UnitPrice: decimal.NewFromInt(100),
		}},
	})

	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestSaleService_Create_UntrackedProduct(t *testing.T) {
	f := newSaleServiceFixture(5)
	ctx := context.Background()
	shopID := testShopID()
	product := newTestProduct(t, shopID)

	f.productRepo.On("FindByIDForShop", ctx, shopID, product.ID).Return(product, nil)
	f.inventoryRepo.On("FindByProductIDForUpdate", ctx, shopID, product.ID).Return(nil, shared.ErrNotFound)
	f.saleRepo.On("Save", ctx, mock.AnythingOfType("*sales.Sale")).Return(nil)

	result, err := f.service.Create(ctx, shopID, testUserID(), CreateSaleInput{
		PaymentMethod: "cash",
		PaidAmount:    decimal.NewFromInt(100),
		Items: []CreateSaleItemInput{{
			ProductID: product.ID,
			Quantity:  1,
			UnitPrice: decimal.NewFromInt(100),
		}},
	})

	// No stock record means the product sells without inventory tracking
	assert.NoError(t, err)
	assert.NotNil(t, result)
	f.inventoryRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	f.adjustRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestSaleService_Create_RetriesOnInvoiceCollision(t *testing.T) {
	f := newSaleServiceFixture(5)
	ctx := context.Background()
	shopID := testShopID()
	product := newTestProduct(t, shopID)
	item := newTestInventory(t, shopID, product.ID, 10)

	f.productRepo.On("FindByIDForShop", ctx, shopID, product.ID).Return(product, nil)
	f.inventoryRepo.On("FindByProductIDForUpdate", ctx, shopID, product.ID).Return(item, nil)
	f.saleRepo.On("Save", ctx, mock.AnythingOfType("*sales.Sale")).Return(shared.ErrAlreadyExists).Once()
	f.saleRepo.On("Save", ctx, mock.AnythingOfType("*sales.Sale")).Return(nil).Once()
	f.inventoryRepo.On("SaveWithLock", ctx, item).Return(nil)
	f.adjustRepo.On("Save", ctx, mock.AnythingOfType("*inventory.InventoryAdjustment")).Return(nil)

	result, err := f.service.Create(ctx, shopID, testUserID(), CreateSaleInput{
		PaymentMethod: "cash",
		PaidAmount:    decimal.NewFromInt(100),
		Items: []CreateSaleItemInput{{
			ProductID: product.ID,
			Quantity:  1,
			UnitPrice: decimal.NewFromInt(100),
		}},
	})

	assert.NoError(t, err)
	assert.NotNil(t, result)
	f.saleRepo.AssertNumberOfCalls(t, "Save", 2)
	// Stock was only decremented by the attempt that committed
	assert.Equal(t, 9, item.CurrentStock)
}

func TestSaleService_Create_GivesUpAfterMaxAttempts(t *testing.T) {
	f := newSaleServiceFixture(3)
	ctx := context.Background()
	shopID := testShopID()
	product := newTestProduct(t, shopID)
	item := newTestInventory(t, shopID, product.ID, 10)

	f.productRepo.On("FindByIDForShop", ctx, shopID, product.ID).Return(product, nil)
	f.inventoryRepo.On("FindByProductIDForUpdate", ctx, shopID, product.ID).Return(item, nil)
	f.saleRepo.On("Save", ctx, mock.AnythingOfType("*sales.Sale")).Return(shared.ErrAlreadyExists)

	result, err := f.service.Create(ctx, shopID, testUserID(), CreateSaleInput{
		PaymentMethod: "cash",
		PaidAmount:    decimal.NewFromInt(100),
		Items: []CreateSaleItemInput{{
			ProductID: product.ID,
			Quantity:  1,
			UnitPrice: decimal.NewFromInt(100),
		}},
	})

	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVOICE_GENERATION_FAILED", domainErr.Code)
	f.saleRepo.AssertNumberOfCalls(t, "Save", 3)
}

func TestSaleService_Create_AccruesCustomerBalance(t *testing.T) {
	f := newSaleServiceFixture(5)
	ctx := context.Background()
	shopID := testShopID()
	product := newTestProduct(t, shopID)
	item := newTestInventory(t, shopID, product.ID, 10)
	customer, _ := partner.NewCustomer(shopID, "Ada Lovelace")

	f.productRepo.On("FindByIDForShop", ctx, shopID, product.ID).Return(product, nil)
	f.inventoryRepo.On("FindByProductIDForUpdate", ctx, shopID, product.ID).Return(item, nil)
	f.saleRepo.On("Save", ctx, mock.AnythingOfType("*sales.Sale")).Return(nil)
	f.inventoryRepo.On("SaveWithLock", ctx, item).Return(nil)
	f.adjustRepo.On("Save", ctx, mock.AnythingOfType("*inventory.InventoryAdjustment")).Return(nil)
	f.customerRepo.On("FindByIDForShop", ctx, shopID, customer.ID).Return(customer, nil)
	f.customerRepo.On("Save", ctx, customer).Return(nil)

	customerID := customer.ID
	result, err := f.service.Create(ctx, shopID, testUserID(), CreateSaleInput{
		CustomerID:    &customerID,
		PaymentMethod: "credit",
		PaidAmount:    decimal.NewFromInt(40),
		Items: []CreateSaleItemInput{{
			ProductID: product.ID,
			Quantity:  1,
			UnitPrice: decimal.NewFromInt(100),
		}},
	})

	assert.NoError(t, err)
	assert.Equal(t, "partial", result.PaymentStatus)
	assert.Equal(t, "60.00", customer.CurrentBalance.StringFixed(2))
	assert.Equal(t, "100.00", customer.TotalPurchases.StringFixed(2))
	f.customerRepo.AssertExpectations(t)
}

func TestSaleService_Create_InputValidation(t *testing.T) {
	f := newSaleServiceFixture(5)
	ctx := context.Background()
	shopID := testShopID()
	userID := testUserID()
	line := CreateSaleItemInput{ProductID: uuid.New(), Quantity: 1, UnitPrice: decimal.NewFromInt(10)}

	_, err := f.service.Create(ctx, shopID, userID, CreateSaleInput{PaymentMethod: "cash", PaidAmount: decimal.NewFromInt(10)})
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "EMPTY_SALE", domainErr.Code)

	_, err = f.service.Create(ctx, shopID, userID, CreateSaleInput{
		PaymentMethod: "cheque", PaidAmount: decimal.NewFromInt(10), Items: []CreateSaleItemInput{line}})
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_PAYMENT_METHOD", domainErr.Code)

	_, err = f.service.Create(ctx, shopID, userID, CreateSaleInput{
		PaymentMethod: "cash", PaidAmount: decimal.NewFromInt(-1), Items: []CreateSaleItemInput{line}})
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_PAID_AMOUNT", domainErr.Code)

	f.saleRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

// Tests for SaleService.List

func TestSaleService_List_FiltersAndCounts(t *testing.T) {
	f := newSaleServiceFixture(5)
	ctx := context.Background()
	shopID := testShopID()

	f.saleRepo.On("FindAllForShop", ctx, shopID, mock.MatchedBy(func(filter shared.Filter) bool {
		return filter.OrderBy == "sale_date" && filter.OrderDir == "desc" &&
			filter.Filters["payment_status"] == "partial"
	})).Return([]sales.Sale{}, nil)
	f.saleRepo.On("Count", ctx, mock.MatchedBy(func(filter shared.Filter) bool {
		return filter.Filters["shop_id"] == shopID
	})).Return(int64(0), nil)

	result, err := f.service.List(ctx, shopID, ListSalesInput{PaymentStatus: "partial"})

	assert.NoError(t, err)
	assert.Equal(t, int64(0), result.Total)
	f.saleRepo.AssertExpectations(t)
}

func TestSaleService_List_RejectsUnknownStatus(t *testing.T) {
	f := newSaleServiceFixture(5)

	_, err := f.service.List(context.Background(), testShopID(), ListSalesInput{PaymentStatus: "pending"})

	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_PAYMENT_STATUS", domainErr.Code)
}
