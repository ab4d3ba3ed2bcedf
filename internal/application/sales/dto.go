package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/smartpos/backend/internal/domain/sales"
)

// CreateSaleInput carries a validated checkout request into the service.
// Optional line fields default from the product's catalog values when nil.
type CreateSaleInput struct {
	CustomerID    *uuid.UUID
	PaymentMethod string
	Notes         string
	PaidAmount    decimal.Decimal
	Items         []CreateSaleItemInput
}

// CreateSaleItemInput is one requested cart line
type CreateSaleItemInput struct {
	ProductID       uuid.UUID
	Quantity        int
	UnitPrice       decimal.Decimal
	DiscountPercent *decimal.Decimal
	DiscountAmount  *decimal.Decimal
	TaxPercent      *decimal.Decimal
}

// ListSalesInput carries sale list filters
type ListSalesInput struct {
	StartDate     *time.Time
	EndDate       *time.Time
	PaymentStatus string
	Page          int
	PageSize      int
}

// SaleResponse is the API representation of a sale
type SaleResponse struct {
	ID             uuid.UUID          `json:"id"`
	CustomerID     *uuid.UUID         `json:"customer_id,omitempty"`
	InvoiceNumber  string             `json:"invoice_number"`
	Subtotal       decimal.Decimal    `json:"subtotal"`
	DiscountAmount decimal.Decimal    `json:"discount_amount"`
	TaxAmount      decimal.Decimal    `json:"tax_amount"`
	TotalAmount    decimal.Decimal    `json:"total_amount"`
	PaymentMethod  string             `json:"payment_method"`
	PaymentStatus  string             `json:"payment_status"`
	PaidAmount     decimal.Decimal    `json:"paid_amount"`
	ChangeAmount   decimal.Decimal    `json:"change_amount"`
	Notes          string             `json:"notes,omitempty"`
	SaleDate       time.Time          `json:"sale_date"`
	Items          []SaleItemResponse `json:"items"`
	CreatedAt      time.Time          `json:"created_at"`
}

// SaleItemResponse is the API representation of a sale line
type SaleItemResponse struct {
	ID              uuid.UUID       `json:"id"`
	ProductID       uuid.UUID       `json:"product_id"`
	ProductName     string          `json:"product_name"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	TaxPercent      decimal.Decimal `json:"tax_percent"`
	TaxAmount       decimal.Decimal `json:"tax_amount"`
	TotalPrice      decimal.Decimal `json:"total_price"`
}

// ToSaleResponse maps a sale aggregate to its API representation
func ToSaleResponse(sale *sales.Sale) *SaleResponse {
	items := make([]SaleItemResponse, 0, len(sale.Items))
	for _, item := range sale.Items {
		items = append(items, SaleItemResponse{
			ID:              item.ID,
			ProductID:       item.ProductID,
			ProductName:     item.ProductName,
			Quantity:        item.Quantity,
			UnitPrice:       item.UnitPrice,
			DiscountPercent: item.DiscountPercent,
			DiscountAmount:  item.DiscountAmount,
			TaxPercent:      item.TaxPercent,
			TaxAmount:       item.TaxAmount,
			TotalPrice:      item.TotalPrice,
		})
	}

	return &SaleResponse{
		ID:             sale.ID,
		CustomerID:     sale.CustomerID,
		InvoiceNumber:  sale.InvoiceNumber,
		Subtotal:       sale.Subtotal,
		DiscountAmount: sale.DiscountAmount,
		TaxAmount:      sale.TaxAmount,
		TotalAmount:    sale.TotalAmount,
		PaymentMethod:  string(sale.PaymentMethod),
		PaymentStatus:  string(sale.PaymentStatus),
		PaidAmount:     sale.PaidAmount,
		ChangeAmount:   sale.ChangeAmount,
		Notes:          sale.Notes,
		SaleDate:       sale.SaleDate,
		Items:          items,
		CreatedAt:      sale.CreatedAt,
	}
}
