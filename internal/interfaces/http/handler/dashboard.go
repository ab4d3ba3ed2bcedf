package handler

import (
	"github.com/gin-gonic/gin"
	reportapp "github.com/smartpos/backend/internal/application/report"
)

// DashboardHandler handles the dashboard endpoint
type DashboardHandler struct {
	BaseHandler
	dashboardService *reportapp.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *reportapp.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Stats godoc
// @Summary      Dashboard snapshot
// @Description  Today's and this month's sales, counts, low-stock alerts,
// @Description  and the most recent sales, computed in the shop timezone.
// @Tags         dashboard
// @Produce      json
// @Success      200 {object} dto.Response{data=reportapp.DashboardResponse}
// @Security     BearerAuth
// @Router       /dashboard [get]
func (h *DashboardHandler) Stats(c *gin.Context) {
	shopID, _, ok := h.identity(c)
	if !ok {
		return
	}

	resp, err := h.dashboardService.GetStats(c.Request.Context(), shopID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RegisterRoutes registers dashboard routes
func (h *DashboardHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard", h.Stats)
}
