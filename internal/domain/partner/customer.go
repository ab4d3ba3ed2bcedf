package partner

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/smartpos/backend/internal/domain/shared"
	"github.com/smartpos/backend/internal/domain/shared/valueobject"
)

// Customer is a buyer with a running account. CurrentBalance carries the
// amount owed to the shop across partially paid sales; TotalPurchases is a
// lifetime gross figure.
type Customer struct {
	shared.ShopAggregateRoot
	Name           string          `gorm:"type:varchar(200);not null"`
	Email          string          `gorm:"type:varchar(200)"`
	Phone          string          `gorm:"type:varchar(50)"`
	Address        string          `gorm:"type:text"`
	CreditLimit    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	CurrentBalance decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TotalPurchases decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	LastPurchaseAt *time.Time
	IsActive       bool `gorm:"not null;default:true"`
}

// TableName specifies the database table name
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a new customer
func NewCustomer(shopID uuid.UUID, name string) (*Customer, error) {
	if err := validateCustomerName(name); err != nil {
		return nil, err
	}

	return &Customer{
		ShopAggregateRoot: shared.NewShopAggregateRoot(shopID),
		Name:              strings.TrimSpace(name),
		CreditLimit:       decimal.Zero,
		CurrentBalance:    decimal.Zero,
		TotalPurchases:    decimal.Zero,
		IsActive:          true,
	}, nil
}

// SetName changes the customer name
func (c *Customer) SetName(name string) error {
	if err := validateCustomerName(name); err != nil {
		return err
	}

	c.Name = strings.TrimSpace(name)
	c.Touch()
	c.IncrementVersion()

	return nil
}

// SetEmail sets the customer's email
func (c *Customer) SetEmail(email string) error {
	if email != "" {
		if err := validateCustomerEmail(email); err != nil {
			return err
		}
		email = strings.ToLower(strings.TrimSpace(email))
	}

	c.Email = email
	c.Touch()
	c.IncrementVersion()

	return nil
}

// SetPhone sets the customer's phone number
func (c *Customer) SetPhone(phone string) error {
	if phone != "" && len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 50 characters")
	}

	c.Phone = strings.TrimSpace(phone)
	c.Touch()
	c.IncrementVersion()

	return nil
}

// SetAddress sets the customer's address
func (c *Customer) SetAddress(address string) {
	c.Address = address
	c.Touch()
	c.IncrementVersion()
}

// SetCreditLimit sets the maximum balance the customer may carry
func (c *Customer) SetCreditLimit(limit decimal.Decimal) error {
	if limit.IsNegative() {
		return shared.NewDomainError("INVALID_CREDIT_LIMIT", "Credit limit cannot be negative")
	}

	c.CreditLimit = limit.Round(2)
	c.Touch()
	c.IncrementVersion()

	return nil
}

// RecordPurchase folds a completed sale into the running account:
// the gross total accrues to TotalPurchases, and any unpaid remainder
// accrues to CurrentBalance.
func (c *Customer) RecordPurchase(total, paid valueobject.Money, at time.Time) {
	c.TotalPurchases = c.TotalPurchases.Add(total.Amount()).Round(2)

	outstanding := total.Subtract(paid)
	if outstanding.IsPositive() {
		c.CurrentBalance = c.CurrentBalance.Add(outstanding.Amount()).Round(2)
	}

	c.LastPurchaseAt = &at
	c.Touch()
	c.IncrementVersion()
}

// SettleBalance reduces the outstanding balance by a payment amount
func (c *Customer) SettleBalance(amount valueobject.Money) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if amount.Amount().GreaterThan(c.CurrentBalance) {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment exceeds outstanding balance")
	}

	c.CurrentBalance = c.CurrentBalance.Sub(amount.Amount()).Round(2)
	c.Touch()
	c.IncrementVersion()

	return nil
}

// Activate makes the customer available for sales
func (c *Customer) Activate() {
	c.IsActive = true
	c.Touch()
	c.IncrementVersion()
}

// Deactivate hides the customer without deleting history
func (c *Customer) Deactivate() {
	c.IsActive = false
	c.Touch()
	c.IncrementVersion()
}

// GetCurrentBalance returns the outstanding balance as Money
func (c *Customer) GetCurrentBalance() valueobject.Money {
	return valueobject.NewMoney(c.CurrentBalance)
}

func validateCustomerName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot exceed 200 characters")
	}
	return nil
}

func validateCustomerEmail(email string) error {
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}

	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}

	return nil
}
