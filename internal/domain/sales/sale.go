package sales

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/smartpos/backend/internal/domain/shared"
	"github.com/smartpos/backend/internal/domain/shared/valueobject"
)

// PaymentMethod is how the customer paid
type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "cash"
	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodMobile PaymentMethod = "mobile"
	PaymentMethodCredit PaymentMethod = "credit"
)

// IsValid checks if the payment method is a known value
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodMobile, PaymentMethodCredit:
		return true
	}
	return false
}

// PaymentStatus is derived from paid amount vs total, never set directly
type PaymentStatus string

const (
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusPartial   PaymentStatus = "partial"
)

// Sale is a completed checkout. It owns its line items; both are immutable
// once persisted. Totals always satisfy
// total_amount = subtotal - discount_amount + tax_amount.
type Sale struct {
	shared.ShopAggregateRoot
	CustomerID     *uuid.UUID      `gorm:"type:uuid;index"`
	InvoiceNumber  string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	PaymentMethod  PaymentMethod   `gorm:"type:varchar(20);not null"`
	PaymentStatus  PaymentStatus   `gorm:"type:varchar(20);not null"`
	PaidAmount     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	ChangeAmount   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Notes          string          `gorm:"type:text"`
	SaleDate       time.Time       `gorm:"not null;index"`
	Items          []SaleItem      `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name
func (Sale) TableName() string {
	return "sales"
}

// SaleItem is one line of a sale, priced at the moment of checkout.
// total_price = quantity*unit_price - discount_amount + tax_amount.
type SaleItem struct {
	shared.BaseEntity
	SaleID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName     string          `gorm:"type:varchar(200);not null"`
	Quantity        int             `gorm:"not null"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	DiscountAmount  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TaxPercent      decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	TaxAmount       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TotalPrice      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName specifies the database table name
func (SaleItem) TableName() string {
	return "sale_items"
}

// NewSaleItem prices one line. An explicitly supplied discount amount wins
// over the percentage; tax applies to the post-discount amount. Every
// monetary figure is settled to cents before it leaves this function.
func NewSaleItem(productID uuid.UUID, productName string, quantity int, unitPrice, discountPercent decimal.Decimal, discountAmount *decimal.Decimal, taxPercent decimal.Decimal) (*SaleItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT_ID", "Product ID cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if !unitPrice.IsPositive() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price must be positive")
	}
	if err := validateLinePercent(discountPercent); err != nil {
		return nil, err
	}
	if err := validateLinePercent(taxPercent); err != nil {
		return nil, err
	}
	if discountAmount != nil && discountAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount amount cannot be negative")
	}

	price := valueobject.NewMoney(unitPrice)
	lineSubtotal := price.MultiplyByInt(int64(quantity)).Round2()

	var lineDiscount valueobject.Money
	if discountAmount != nil {
		lineDiscount = valueobject.NewMoney(*discountAmount).Round2()
	} else {
		lineDiscount = lineSubtotal.CalculatePercentage(discountPercent).Round2()
	}
	if lineSubtotal.LessThan(lineDiscount) {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot exceed line subtotal")
	}

	lineTax := lineSubtotal.Subtract(lineDiscount).CalculatePercentage(taxPercent).Round2()
	lineTotal := lineSubtotal.Subtract(lineDiscount).Add(lineTax).Round2()

	return &SaleItem{
		BaseEntity:      shared.NewBaseEntity(),
		ProductID:       productID,
		ProductName:     productName,
		Quantity:        quantity,
		UnitPrice:       unitPrice.Round(2),
		DiscountPercent: discountPercent,
		DiscountAmount:  lineDiscount.Amount(),
		TaxPercent:      taxPercent,
		TaxAmount:       lineTax.Amount(),
		TotalPrice:      lineTotal.Amount(),
	}, nil
}

// GetSubtotal returns quantity * unit price as Money
func (i *SaleItem) GetSubtotal() valueobject.Money {
	return valueobject.NewMoney(i.UnitPrice).MultiplyByInt(int64(i.Quantity)).Round2()
}

// NewSale assembles a sale from priced line items, derives the order-level
// totals, the change due, and the payment status.
func NewSale(shopID uuid.UUID, invoiceNumber string, paymentMethod PaymentMethod, paidAmount decimal.Decimal, items []*SaleItem) (*Sale, error) {
	if strings.TrimSpace(invoiceNumber) == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE", "Invoice number cannot be empty")
	}
	if !paymentMethod.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method")
	}
	if paidAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PAID_AMOUNT", "Paid amount cannot be negative")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("EMPTY_SALE", "Sale must contain at least one item")
	}

	sale := &Sale{
		ShopAggregateRoot: shared.NewShopAggregateRoot(shopID),
		InvoiceNumber:     invoiceNumber,
		PaymentMethod:     paymentMethod,
		PaidAmount:        paidAmount.Round(2),
		SaleDate:          time.Now(),
		Items:             make([]SaleItem, 0, len(items)),
	}

	subtotal := valueobject.ZeroMoney()
	discount := valueobject.ZeroMoney()
	tax := valueobject.ZeroMoney()
	for _, item := range items {
		item.SaleID = sale.ID
		sale.Items = append(sale.Items, *item)

		subtotal = subtotal.Add(item.GetSubtotal())
		discount = discount.Add(valueobject.NewMoney(item.DiscountAmount))
		tax = tax.Add(valueobject.NewMoney(item.TaxAmount))
	}

	total := subtotal.Subtract(discount).Add(tax).Round2()
	paid := valueobject.NewMoney(sale.PaidAmount)

	change := valueobject.ZeroMoney()
	if paid.GreaterThanOrEqual(total) {
		change = paid.Subtract(total).Round2()
		sale.PaymentStatus = PaymentStatusCompleted
	} else {
		sale.PaymentStatus = PaymentStatusPartial
	}

	sale.Subtotal = subtotal.Round2().Amount()
	sale.DiscountAmount = discount.Round2().Amount()
	sale.TaxAmount = tax.Round2().Amount()
	sale.TotalAmount = total.Amount()
	sale.ChangeAmount = change.Amount()

	sale.AddDomainEvent(NewSaleCreatedEvent(sale))

	return sale, nil
}

// SetCustomer attaches the sale to a customer account
func (s *Sale) SetCustomer(customerID uuid.UUID) error {
	if customerID == uuid.Nil {
		return shared.NewDomainError("INVALID_CUSTOMER_ID", "Customer ID cannot be empty")
	}
	s.CustomerID = &customerID
	return nil
}

// SetNotes attaches free-text notes
func (s *Sale) SetNotes(notes string) {
	s.Notes = notes
}

// IsFullyPaid reports whether the tendered amount covered the total
func (s *Sale) IsFullyPaid() bool {
	return s.PaymentStatus == PaymentStatusCompleted
}

// GetTotalAmount returns the total as Money
func (s *Sale) GetTotalAmount() valueobject.Money {
	return valueobject.NewMoney(s.TotalAmount)
}

// GetPaidAmount returns the tendered amount as Money
func (s *Sale) GetPaidAmount() valueobject.Money {
	return valueobject.NewMoney(s.PaidAmount)
}

func validateLinePercent(percent decimal.Decimal) error {
	if percent.IsNegative() || percent.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_PERCENT", "Percentage must be between 0 and 100")
	}
	return nil
}
