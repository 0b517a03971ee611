package handlers

import (
	"log/slog"

	portssvc "github.com/SscSPs/pnl_insights_app/internal/core/ports/services"
	"github.com/SscSPs/pnl_insights_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// dashboardHandler serves the portfolio dashboard.
type dashboardHandler struct {
	dashboardService portssvc.DashboardService
}

func registerDashboardRoutes(rg *gin.RouterGroup, dashboardService portssvc.DashboardService) {
	h := &dashboardHandler{dashboardService: dashboardService}
	rg.GET("/dashboard", h.getPortfolioDashboard)
}

// getPortfolioDashboard godoc
// @Summary Get the portfolio dashboard
// @Description Computes metrics, the profit trend, insights and highlights over every stored report
// @Tags dashboard
// @Produce  json
// @Success 200 {object} dto.APIResponse{data=domain.Dashboard}
// @Failure 500 {object} dto.ErrorResponse "Failed to compute dashboard"
// @Security BearerAuth
// @Router /dashboard [get]
func (h *dashboardHandler) getPortfolioDashboard(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	dashboard, err := h.dashboardService.PortfolioDashboard(c.Request.Context())
	if err != nil {
		logger.Error("Failed to compute portfolio dashboard", slog.String("error", err.Error()))
		respondError(c, statusFor(err), "Failed to compute dashboard")
		return
	}
	respondOK(c, dashboard, "")
}
