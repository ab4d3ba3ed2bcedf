package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/smartpos/backend/internal/domain/partner"
)

// CreateCustomerInput carries a customer creation request
type CreateCustomerInput struct {
	Name        string
	Email       string
	Phone       string
	Address     string
	CreditLimit *decimal.Decimal
}

// UpdateCustomerInput carries a customer update; nil fields are left unchanged
type UpdateCustomerInput struct {
	Name        *string
	Email       *string
	Phone       *string
	Address     *string
	CreditLimit *decimal.Decimal
	IsActive    *bool
}

// ListCustomersInput carries customer list filters
type ListCustomersInput struct {
	Search   string
	IsActive *bool
	Page     int
	PageSize int
}

// SettleBalanceInput carries a payment against an outstanding balance
type SettleBalanceInput struct {
	Amount decimal.Decimal
}

// CustomerResponse is the API representation of a customer
type CustomerResponse struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Email          string          `json:"email,omitempty"`
	Phone          string          `json:"phone,omitempty"`
	Address        string          `json:"address,omitempty"`
	CreditLimit    decimal.Decimal `json:"credit_limit"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	TotalPurchases decimal.Decimal `json:"total_purchases"`
	LastPurchaseAt *time.Time      `json:"last_purchase_at,omitempty"`
	IsActive       bool            `json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ToCustomerResponse maps a customer to its API representation
func ToCustomerResponse(customer *partner.Customer) *CustomerResponse {
	return &CustomerResponse{
		ID:             customer.ID,
		Name:           customer.Name,
		Email:          customer.Email,
		Phone:          customer.Phone,
		Address:        customer.Address,
		CreditLimit:    customer.CreditLimit,
		CurrentBalance: customer.CurrentBalance,
		TotalPurchases: customer.TotalPurchases,
		LastPurchaseAt: customer.LastPurchaseAt,
		IsActive:       customer.IsActive,
		CreatedAt:      customer.CreatedAt,
		UpdatedAt:      customer.UpdatedAt,
	}
}
