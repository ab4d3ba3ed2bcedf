package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	inventoryapp "github.com/smartpos/backend/internal/application/inventory"
)

// InventoryHandler handles inventory endpoints
type InventoryHandler struct {
	BaseHandler
	inventoryService *inventoryapp.InventoryService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(inventoryService *inventoryapp.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// UpdateStockRequest represents a manual stock change
// @Description Request body for manually adjusting stock. Provide either
// @Description set_to (absolute level) or change_by (signed delta), not both.
type UpdateStockRequest struct {
	SetTo          *int   `json:"set_to" binding:"omitempty,min=0"`
	ChangeBy       *int   `json:"change_by"`
	AdjustmentType string `json:"adjustment_type" binding:"omitempty,oneof=purchase adjustment damage return expired"`
	Reason         string `json:"reason" binding:"omitempty,max=500"`
}

// UpdateThresholdsRequest represents new stock boundaries
// @Description Request body for changing low/over-stock thresholds
type UpdateThresholdsRequest struct {
	MinimumStock int `json:"minimum_stock" binding:"min=0"`
	MaximumStock int `json:"maximum_stock" binding:"min=0"`
}

// ListInventoryRequest represents inventory list query parameters
type ListInventoryRequest struct {
	Page         int  `form:"page" binding:"omitempty,min=1"`
	PageSize     int  `form:"page_size" binding:"omitempty,min=1,max=100"`
	LowStockOnly bool `form:"low_stock"`
}

// List godoc
// @Summary      List inventory
// @Tags         inventory
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Param        low_stock query bool false "Only records at or below minimum"
// @Success      200 {object} dto.Response{data=[]inventoryapp.InventoryResponse}
// @Security     BearerAuth
// @Router       /inventory [get]
func (h *InventoryHandler) List(c *gin.Context) {
	shopID, _, ok := h.identity(c)
	if !ok {
		return
	}

	var req ListInventoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.inventoryService.List(c.Request.Context(), shopID, inventoryapp.ListInventoryInput{
		LowStockOnly: req.LowStockOnly,
		Page:         req.Page,
		PageSize:     req.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, result)
}

// LowStock godoc
// @Summary      List low-stock inventory
// @Tags         inventory
// @Produce      json
// @Success      200 {object} dto.Response{data=[]inventoryapp.InventoryResponse}
// @Security     BearerAuth
// @Router       /inventory/low-stock [get]
func (h *InventoryHandler) LowStock(c *gin.Context) {
	shopID, _, ok := h.identity(c)
	if !ok {
		return
	}

	resp, err := h.inventoryService.ListLowStock(c.Request.Context(), shopID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Get godoc
// @Summary      Get a product's inventory
// @Tags         inventory
// @Produce      json
// @Param        product_id path string true "Product ID"
// @Success      200 {object} dto.Response{data=inventoryapp.InventoryResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /inventory/{product_id} [get]
func (h *InventoryHandler) Get(c *gin.Context) {
	shopID, _, ok := h.identity(c)
	if !ok {
		return
	}
	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	resp, err := h.inventoryService.GetByProductID(c.Request.Context(), shopID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateStock godoc
// @Summary      Adjust stock
// @Description  Manually change a product's stock level, writing an audit entry
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        product_id path string true "Product ID"
// @Param        request body UpdateStockRequest true "Stock change request"
// @Success      200 {object} dto.Response{data=inventoryapp.InventoryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /inventory/{product_id}/stock [put]
func (h *InventoryHandler) UpdateStock(c *gin.Context) {
	shopID, userID, ok := h.identity(c)
	if !ok {
		return
	}
	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var req UpdateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.inventoryService.UpdateStock(c.Request.Context(), shopID, userID, productID, inventoryapp.UpdateStockInput{
		SetTo:          req.SetTo,
		ChangeBy:       req.ChangeBy,
		AdjustmentType: req.AdjustmentType,
		Reason:         req.Reason,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateThresholds godoc
// @Summary      Update stock thresholds
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        product_id path string true "Product ID"
// @Param        request body UpdateThresholdsRequest true "Thresholds request"
// @Success      200 {object} dto.Response{data=inventoryapp.InventoryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /inventory/{product_id}/thresholds [put]
func (h *InventoryHandler) UpdateThresholds(c *gin.Context) {
	shopID, _, ok := h.identity(c)
	if !ok {
		return
	}
	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var req UpdateThresholdsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.inventoryService.UpdateThresholds(c.Request.Context(), shopID, productID, inventoryapp.UpdateThresholdsInput{
		MinimumStock: req.MinimumStock,
		MaximumStock: req.MaximumStock,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// History godoc
// @Summary      Stock adjustment history
// @Description  Audit trail for a product's inventory, newest first
// @Tags         inventory
// @Produce      json
// @Param        product_id path string true "Product ID"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]inventoryapp.AdjustmentResponse}
// @Security     BearerAuth
// @Router       /inventory/{product_id}/history [get]
func (h *InventoryHandler) History(c *gin.Context) {
	shopID, _, ok := h.identity(c)
	if !ok {
		return
	}
	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var req ListInventoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.inventoryService.History(c.Request.Context(), shopID, productID, req.Page, req.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RegisterRoutes registers inventory routes
func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	inventory := rg.Group("/inventory")
	{
		inventory.GET("", h.List)
		inventory.GET("/low-stock", h.LowStock)
		inventory.GET("/:product_id", h.Get)
		inventory.PUT("/:product_id/stock", h.UpdateStock)
		inventory.PUT("/:product_id/thresholds", h.UpdateThresholds)
		inventory.GET("/:product_id/history", h.History)
	}
}
