package sales

import (
	"github.com/shopspring/decimal"
	"github.com/smartpos/backend/internal/domain/shared"
)

// Event types for the sales aggregate
const (
	EventTypeSaleCreated = "sale.created"
)

// SaleCreatedEvent is raised when a sale is successfully assembled
type SaleCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string          `json:"invoice_number"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
	ItemCount     int             `json:"item_count"`
}

// NewSaleCreatedEvent creates a new sale created event
func NewSaleCreatedEvent(sale *Sale) *SaleCreatedEvent {
	return &SaleCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleCreated, "Sale", sale.ID, sale.ShopID),
		InvoiceNumber:   sale.InvoiceNumber,
		TotalAmount:     sale.TotalAmount,
		PaymentStatus:   sale.PaymentStatus,
		ItemCount:       len(sale.Items),
	}
}
