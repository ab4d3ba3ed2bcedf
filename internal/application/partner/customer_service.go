package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/smartpos/backend/internal/domain/partner"
	"github.com/smartpos/backend/internal/domain/shared"
	"github.com/smartpos/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// CustomerService manages the customer directory. Purchase totals and
// balances are written by the sale engine; this service handles the
// directory itself and balance settlements.
type CustomerService struct {
	customerRepo partner.CustomerRepository
	logger       *zap.Logger
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo partner.CustomerRepository, logger *zap.Logger) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		logger:       logger,
	}
}

// Create creates a new customer
func (s *CustomerService) Create(ctx context.Context, shopID uuid.UUID, input CreateCustomerInput) (*CustomerResponse, error) {
	customer, err := partner.NewCustomer(shopID, input.Name)
	if err != nil {
		return nil, err
	}
	if input.Email != "" {
		if err := customer.SetEmail(input.Email); err != nil {
			return nil, err
		}
	}
	if input.Phone != "" {
		if err := customer.SetPhone(input.Phone); err != nil {
			return nil, err
		}
	}
	customer.SetAddress(input.Address)
	if input.CreditLimit != nil {
		if err := customer.SetCreditLimit(*input.CreditLimit); err != nil {
			return nil, err
		}
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	s.logger.Info("customer created",
		zap.String("shop_id", shopID.String()),
		zap.String("customer_id", customer.ID.String()),
		zap.String("name", customer.Name))

	return ToCustomerResponse(customer), nil
}

// GetByID returns a single customer
func (s *CustomerService) GetByID(ctx context.Context, shopID, id uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByIDForShop(ctx, shopID, id)
	if err != nil {
		return nil, err
	}
	return ToCustomerResponse(customer), nil
}

// List returns customers for a shop, optionally narrowed by a search term
// across name, email, and phone.
func (s *CustomerService) List(ctx context.Context, shopID uuid.UUID, input ListCustomersInput) (*shared.Paginated[CustomerResponse], error) {
	filter := shared.DefaultFilter()
	if input.Page > 0 {
		filter.Page = input.Page
	}
	if input.PageSize > 0 {
		filter.PageSize = input.PageSize
	}
	filter.OrderBy = "name"
	filter.OrderDir = "asc"
	if input.IsActive != nil {
		filter.Filters["is_active"] = *input.IsActive
	}

	var (
		items []partner.Customer
		err   error
	)
	if input.Search != "" {
		items, err = s.customerRepo.Search(ctx, shopID, input.Search, filter)
	} else {
		items, err = s.customerRepo.FindAllForShop(ctx, shopID, filter)
	}
	if err != nil {
		return nil, err
	}

	countFilter := filter
	countFilter.Filters = make(map[string]interface{}, len(filter.Filters)+1)
	for k, v := range filter.Filters {
		countFilter.Filters[k] = v
	}
	countFilter.Filters["shop_id"] = shopID
	countFilter.Search = input.Search
	total, err := s.customerRepo.Count(ctx, countFilter)
	if err != nil {
		return nil, err
	}

	responses := make([]CustomerResponse, 0, len(items))
	for i := range items {
		responses = append(responses, *ToCustomerResponse(&items[i]))
	}
	paginated := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &paginated, nil
}

// Update applies a partial update to a customer
func (s *CustomerService) Update(ctx context.Context, shopID, id uuid.UUID, input UpdateCustomerInput) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByIDForShop(ctx, shopID, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if err := customer.SetName(*input.Name); err != nil {
			return nil, err
		}
	}
	if input.Email != nil {
		if err := customer.SetEmail(*input.Email); err != nil {
			return nil, err
		}
	}
	if input.Phone != nil {
		if err := customer.SetPhone(*input.Phone); err != nil {
			return nil, err
		}
	}
	if input.Address != nil {
		customer.SetAddress(*input.Address)
	}
	if input.CreditLimit != nil {
		if err := customer.SetCreditLimit(*input.CreditLimit); err != nil {
			return nil, err
		}
	}
	if input.IsActive != nil {
		if *input.IsActive {
			customer.Activate()
		} else {
			customer.Deactivate()
		}
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	return ToCustomerResponse(customer), nil
}

// SettleBalance records a payment against the customer's outstanding balance
func (s *CustomerService) SettleBalance(ctx context.Context, shopID, id uuid.UUID, input SettleBalanceInput) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByIDForShop(ctx, shopID, id)
	if err != nil {
		return nil, err
	}
	if err := customer.SettleBalance(valueobject.NewMoney(input.Amount)); err != nil {
		return nil, err
	}
	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	s.logger.Info("customer balance settled",
		zap.String("shop_id", shopID.String()),
		zap.String("customer_id", id.String()),
		zap.String("amount", input.Amount.StringFixed(2)))

	return ToCustomerResponse(customer), nil
}

// Delete deactivates a customer rather than removing it, so past sales
// keep their reference.
func (s *CustomerService) Delete(ctx context.Context, shopID, id uuid.UUID) error {
	customer, err := s.customerRepo.FindByIDForShop(ctx, shopID, id)
	if err != nil {
		return err
	}
	customer.Deactivate()
	return s.customerRepo.Save(ctx, customer)
}
