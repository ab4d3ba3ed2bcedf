package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/smartpos/backend/internal/domain/inventory"
	"github.com/smartpos/backend/internal/domain/sales"
	"github.com/smartpos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// SaleService is the checkout engine. Create runs the whole unit of work
// (stock locking, sale insert, stock decrement, audit trail, customer
// balance) inside a single transaction so a sale either fully happens or
// leaves no trace.
type SaleService struct {
	scope              TransactionScope
	saleRepo           sales.SaleRepository
	logger             *zap.Logger
	invoiceMaxAttempts int
	now                func() time.Time
}

// NewSaleService creates a new sale service
func NewSaleService(scope TransactionScope, saleRepo sales.SaleRepository, invoiceMaxAttempts int, logger *zap.Logger) *SaleService {
	if invoiceMaxAttempts <= 0 {
		invoiceMaxAttempts = 5
	}
	return &SaleService{
		scope:              scope,
		saleRepo:           saleRepo,
		logger:             logger,
		invoiceMaxAttempts: invoiceMaxAttempts,
		now:                time.Now,
	}
}

// Create processes a checkout. Each attempt generates a fresh invoice
// number and runs the full unit of work in one transaction; when the
// invoice number collides with a concurrent sale the attempt is rolled
// back and retried with a new number, up to the configured limit.
func (s *SaleService) Create(ctx context.Context, shopID, userID uuid.UUID, input CreateSaleInput) (*SaleResponse, error) {
	if len(input.Items) == 0 {
		return nil, shared.NewDomainError("EMPTY_SALE", "Sale must contain at least one item")
	}
	method := sales.PaymentMethod(input.PaymentMethod)
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", fmt.Sprintf("Unknown payment method: %s", input.PaymentMethod))
	}
	if input.PaidAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PAID_AMOUNT", "Paid amount cannot be negative")
	}

	var lastErr error
	for attempt := 1; attempt <= s.invoiceMaxAttempts; attempt++ {
		invoiceNumber := sales.GenerateInvoiceNumber(s.now())

		sale, err := s.createWithInvoice(ctx, shopID, userID, invoiceNumber, method, input)
		if err == nil {
			s.logger.Info("sale created",
				zap.String("shop_id", shopID.String()),
				zap.String("invoice_number", sale.InvoiceNumber),
				zap.String("total_amount", sale.TotalAmount.StringFixed(2)),
				zap.String("payment_status", string(sale.PaymentStatus)))
			s.publishDomainEvents(sale)
			return ToSaleResponse(sale), nil
		}
		if !errors.Is(err, shared.ErrAlreadyExists) {
			return nil, err
		}

		lastErr = err
		s.logger.Warn("invoice number collision, retrying",
			zap.String("invoice_number", invoiceNumber),
			zap.Int("attempt", attempt))
	}

	s.logger.Error("could not allocate a unique invoice number",
		zap.Int("attempts", s.invoiceMaxAttempts), zap.Error(lastErr))
	return nil, shared.NewDomainError("INVOICE_GENERATION_FAILED", "Could not generate a unique invoice number, please retry")
}

// publishDomainEvents drains the aggregate's pending events after the
// transaction has committed. The single-process deployment has no broker;
// events feed the structured log so downstream tooling can consume them.
func (s *SaleService) publishDomainEvents(sale *sales.Sale) {
	for _, event := range sale.GetDomainEvents() {
		s.logger.Info("domain event",
			zap.String("event_type", event.EventType()),
			zap.String("event_id", event.EventID().String()),
			zap.String("aggregate_type", event.AggregateType()),
			zap.String("aggregate_id", event.AggregateID().String()),
			zap.String("shop_id", event.ShopID().String()),
			zap.Time("occurred_at", event.OccurredAt()))
	}
	sale.ClearDomainEvents()
}

// createWithInvoice runs one attempt of the checkout unit of work.
func (s *SaleService) createWithInvoice(ctx context.Context, shopID, userID uuid.UUID, invoiceNumber string, method sales.PaymentMethod, input CreateSaleInput) (*sales.Sale, error) {
	var created *sales.Sale

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		type lockedLine struct {
			item     *inventory.InventoryItem
			quantity int
		}
		lines := make([]*sales.SaleItem, 0, len(input.Items))
		locked := make([]lockedLine, 0, len(input.Items))

		for _, in := range input.Items {
			product, err := repos.ProductRepo().FindByIDForShop(ctx, shopID, in.ProductID)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return shared.NewDomainError("NOT_FOUND", fmt.Sprintf("Product %s not found", in.ProductID))
				}
				return err
			}
			if !product.IsActive {
				return shared.NewDomainError("NOT_FOUND", fmt.Sprintf("Product %s not found", product.Name))
			}

			// Catalog defaults apply unless the request overrides them.
			discountPercent := product.DiscountPercent
			if in.DiscountPercent != nil {
				discountPercent = *in.DiscountPercent
			}
			taxPercent := product.TaxPercent
			if in.TaxPercent != nil {
				taxPercent = *in.TaxPercent
			}

			line, err := sales.NewSaleItem(product.ID, product.Name, in.Quantity, in.UnitPrice, discountPercent, in.DiscountAmount, taxPercent)
			if err != nil {
				return err
			}
			lines = append(lines, line)

			// Products without an inventory record are sold untracked.
			item, err := repos.InventoryRepo().FindByProductIDForUpdate(ctx, shopID, product.ID)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					continue
				}
				return err
			}
			if !item.CanFulfill(in.Quantity) {
				return shared.NewDomainError("INSUFFICIENT_STOCK",
					fmt.Sprintf("Insufficient stock for %s: %d available, %d requested", product.Name, item.CurrentStock, in.Quantity))
			}
			locked = append(locked, lockedLine{item: item, quantity: in.Quantity})
		}

		sale, err := sales.NewSale(shopID, invoiceNumber, method, input.PaidAmount, lines)
		if err != nil {
			return err
		}
		sale.CreatedBy = &userID
		if input.CustomerID != nil {
			if err := sale.SetCustomer(*input.CustomerID); err != nil {
				return err
			}
		}
		sale.SetNotes(input.Notes)

		if err := repos.SaleRepo().Save(ctx, sale); err != nil {
			return err
		}

		for _, l := range locked {
			if err := l.item.Decrease(l.quantity); err != nil {
				return err
			}
			if err := repos.InventoryRepo().SaveWithLock(ctx, l.item); err != nil {
				return err
			}

			adjustment, err := inventory.NewInventoryAdjustment(shopID, l.item, inventory.AdjustmentTypeSale, -l.quantity)
			if err != nil {
				return err
			}
			adjustment.WithReason(fmt.Sprintf("Sale %s", invoiceNumber)).
				WithReference(invoiceNumber).
				WithAdjustedBy(userID)
			if err := repos.AdjustmentRepo().Save(ctx, adjustment); err != nil {
				return err
			}
		}

		if sale.CustomerID != nil {
			customer, err := repos.CustomerRepo().FindByIDForShop(ctx, shopID, *sale.CustomerID)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return shared.NewDomainError("NOT_FOUND", "Customer not found")
				}
				return err
			}
			customer.RecordPurchase(sale.GetTotalAmount(), sale.GetPaidAmount(), sale.SaleDate)
			if err := repos.CustomerRepo().Save(ctx, customer); err != nil {
				return err
			}
		}

		created = sale
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetByID returns a single sale with its items
func (s *SaleService) GetByID(ctx context.Context, shopID, id uuid.UUID) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByIDForShop(ctx, shopID, id)
	if err != nil {
		return nil, err
	}
	return ToSaleResponse(sale), nil
}

// GetByInvoiceNumber returns a single sale looked up by its invoice number
func (s *SaleService) GetByInvoiceNumber(ctx context.Context, shopID uuid.UUID, invoiceNumber string) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByInvoiceNumber(ctx, shopID, invoiceNumber)
	if err != nil {
		return nil, err
	}
	return ToSaleResponse(sale), nil
}

// List returns sales for a shop filtered by date range and payment status,
// newest first.
func (s *SaleService) List(ctx context.Context, shopID uuid.UUID, input ListSalesInput) (*shared.Paginated[SaleResponse], error) {
	filter := shared.DefaultFilter()
	if input.Page > 0 {
		filter.Page = input.Page
	}
	if input.PageSize > 0 {
		filter.PageSize = input.PageSize
	}
	filter.OrderBy = "sale_date"
	filter.OrderDir = "desc"

	if input.StartDate != nil {
		filter.Filters["start_date"] = *input.StartDate
	}
	if input.EndDate != nil {
		filter.Filters["end_date"] = *input.EndDate
	}
	if input.PaymentStatus != "" {
		status := sales.PaymentStatus(input.PaymentStatus)
		if status != sales.PaymentStatusCompleted && status != sales.PaymentStatusPartial {
			return nil, shared.NewDomainError("INVALID_PAYMENT_STATUS", fmt.Sprintf("Unknown payment status: %s", input.PaymentStatus))
		}
		filter.Filters["payment_status"] = string(status)
	}

	items, err := s.saleRepo.FindAllForShop(ctx, shopID, filter)
	if err != nil {
		return nil, err
	}
	countFilter := filter
	countFilter.Filters = make(map[string]interface{}, len(filter.Filters)+1)
	for k, v := range filter.Filters {
		countFilter.Filters[k] = v
	}
	countFilter.Filters["shop_id"] = shopID
	total, err := s.saleRepo.Count(ctx, countFilter)
	if err != nil {
		return nil, err
	}

	responses := make([]SaleResponse, 0, len(items))
	for i := range items {
		responses = append(responses, *ToSaleResponse(&items[i]))
	}
	paginated := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &paginated, nil
}
