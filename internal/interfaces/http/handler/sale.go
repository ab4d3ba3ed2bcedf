package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	salesapp "github.com/smartpos/backend/internal/application/sales"
)

// SaleHandler handles checkout and sale history endpoints
type SaleHandler struct {
	BaseHandler
	saleService *salesapp.SaleService
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(saleService *salesapp.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

// CreateSaleRequest represents a checkout request
// @Description Request body for processing a sale
type CreateSaleRequest struct {
	CustomerID    *string                 `json:"customer_id" binding:"omitempty,uuid"`
	PaymentMethod string                  `json:"payment_method" binding:"required,oneof=cash card mobile credit" example:"cash"`
	PaidAmount    decimal.Decimal         `json:"paid_amount" binding:"gte=0" example:"50.00"`
	Notes         string                  `json:"notes" binding:"omitempty,max=2000"`
	Items         []CreateSaleItemRequest `json:"items" binding:"required,min=1,dive"`
}

// CreateSaleItemRequest represents one requested cart line
// @Description One sale line. Omitted discount and tax percentages default
// @Description to the product's catalog values; an explicit discount_amount
// @Description overrides the percentage.
type CreateSaleItemRequest struct {
	ProductID       string           `json:"product_id" binding:"required,uuid"`
	Quantity        int              `json:"quantity" binding:"required,gt=0" example:"2"`
	UnitPrice       decimal.Decimal  `json:"unit_price" binding:"gte=0" example:"2.50"`
	DiscountPercent *decimal.Decimal `json:"discount_percent"`
	DiscountAmount  *decimal.Decimal `json:"discount_amount"`
	TaxPercent      *decimal.Decimal `json:"tax_percent"`
}

// ListSalesRequest represents sale list query parameters
type ListSalesRequest struct {
	Page          int    `form:"page" binding:"omitempty,min=1"`
	PageSize      int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	StartDate     string `form:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate       string `form:"end_date" binding:"omitempty,datetime=2006-01-02"`
	PaymentStatus string `form:"payment_status" binding:"omitempty,oneof=completed partial"`
}

// Create godoc
// @Summary      Process a sale
// @Description  Price the cart, derive totals and payment status, decrement
// @Description  stock atomically, and write the audit trail.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        request body CreateSaleRequest true "Checkout request"
// @Success      201 {object} dto.Response{data=salesapp.SaleResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /sales [post]
func (h *SaleHandler) Create(c *gin.Context) {
	shopID, userID, ok := h.identity(c)
	if !ok {
		return
	}

	var req CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	input := salesapp.CreateSaleInput{
		PaymentMethod: req.PaymentMethod,
		PaidAmount:    req.PaidAmount,
		Notes:         req.Notes,
		Items:         make([]salesapp.CreateSaleItemInput, 0, len(req.Items)),
	}
	if req.CustomerID != nil {
		customerID, err := uuid.Parse(*req.CustomerID)
		if err != nil {
			h.BadRequest(c, "Invalid customer ID")
			return
		}
		input.CustomerID = &customerID
	}
	for _, item := range req.Items {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			h.BadRequest(c, "Invalid product ID")
			return
		}
		input.Items = append(input.Items, salesapp.CreateSaleItemInput{
			ProductID:       productID,
			Quantity:        item.Quantity,
			UnitPrice:       item.UnitPrice,
			DiscountPercent: item.DiscountPercent,
			DiscountAmount:  item.DiscountAmount,
			TaxPercent:      item.TaxPercent,
		})
	}

	resp, err := h.saleService.Create(c.Request.Context(), shopID, userID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List godoc
// @Summary      List sales
// @Tags         sales
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Param        start_date query string false "Inclusive start date (YYYY-MM-DD)"
// @Param        end_date query string false "Exclusive end date (YYYY-MM-DD)"
// @Param        payment_status query string false "completed or partial"
// @Success      200 {object} dto.Response{data=[]salesapp.SaleResponse}
// @Security     BearerAuth
// @Router       /sales [get]
func (h *SaleHandler) List(c *gin.Context) {
	shopID, _, ok := h.identity(c)
	if !ok {
		return
	}

	var req ListSalesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	input := salesapp.ListSalesInput{
		PaymentStatus: req.PaymentStatus,
		Page:          req.Page,
		PageSize:      req.PageSize,
	}
	if req.StartDate != "" {
		start, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			h.BadRequest(c, "Invalid start date")
			return
		}
		input.StartDate = &start
	}
	if req.EndDate != "" {
		end, err := time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			h.BadRequest(c, "Invalid end date")
			return
		}
		input.EndDate = &end
	}

	result, err := h.saleService.List(c.Request.Context(), shopID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, result)
}

// Get godoc
// @Summary      Get a sale
// @Tags         sales
// @Produce      json
// @Param        id path string true "Sale ID"
// @Success      200 {object} dto.Response{data=salesapp.SaleResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /sales/{id} [get]
func (h *SaleHandler) Get(c *gin.Context) {
	shopID, _, ok := h.identity(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sale ID")
		return
	}

	resp, err := h.saleService.GetByID(c.Request.Context(), shopID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetByInvoice godoc
// @Summary      Get a sale by invoice number
// @Tags         sales
// @Produce      json
// @Param        invoice path string true "Invoice number"
// @Success      200 {object} dto.Response{data=salesapp.SaleResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /sales/invoice/{invoice} [get]
func (h *SaleHandler) GetByInvoice(c *gin.Context) {
	shopID, _, ok := h.identity(c)
	if !ok {
		return
	}

	resp, err := h.saleService.GetByInvoiceNumber(c.Request.Context(), shopID, c.Param("invoice"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RegisterRoutes registers sale routes
func (h *SaleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sales := rg.Group("/sales")
	{
		sales.POST("", h.Create)
		sales.GET("", h.List)
		sales.GET("/invoice/:invoice", h.GetByInvoice)
		sales.GET("/:id", h.Get)
	}
}
