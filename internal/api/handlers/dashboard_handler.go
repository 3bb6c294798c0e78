package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"finboard/dashboard/internal/services"
)

// DashboardHandler handles the overview page reads.
type DashboardHandler struct {
	dashboardService services.IDashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService services.IDashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetOverview handles GET /v1/dashboard
// It returns the card numbers, the revenue chart series and the latest
// invoices in one payload.
func (h *DashboardHandler) GetOverview(c *gin.Context) {
	ctx := c.Request.Context()

	cards, err := h.dashboardService.CardData(ctx)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve dashboard data"})
		return
	}

	revenue, err := h.dashboardService.Revenue(ctx)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve dashboard data"})
		return
	}

	latest, err := h.dashboardService.LatestInvoices(ctx)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve dashboard data"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cards":           cards,
		"revenue":         revenue,
		"latest_invoices": latest,
	})
}
