package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/pnl_insights_app/internal/core/ports/services"
	"github.com/SscSPs/pnl_insights_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// companyHandler handles HTTP requests related to companies.
type companyHandler struct {
	reportingService portssvc.ReportingSvcFacade
	dashboardService portssvc.DashboardService
}

// newCompanyHandler creates a new companyHandler.
func newCompanyHandler(rs portssvc.ReportingSvcFacade, ds portssvc.DashboardService) *companyHandler {
	return &companyHandler{
		reportingService: rs,
		dashboardService: ds,
	}
}

// registerCompanyRoutes registers routes related to companies.
func registerCompanyRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade, dashboardService portssvc.DashboardService) {
	h := newCompanyHandler(reportingService, dashboardService)

	companies := rg.Group("/companies")
	{
		companies.GET("", h.listCompanies)
		companies.GET("/:companyID", h.getCompany)
		companies.GET("/:companyID/dashboard", h.getCompanyDashboard)
	}
}

// listCompanies godoc
// @Summary List companies
// @Description Lists every company known from ingested statements
// @Tags companies
// @Produce  json
// @Success 200 {object} dto.APIResponse{data=[]domain.Company}
// @Failure 500 {object} dto.ErrorResponse "Failed to list companies"
// @Security BearerAuth
// @Router /companies [get]
func (h *companyHandler) listCompanies(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	companies, err := h.reportingService.ListCompanies(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list companies", slog.String("error", err.Error()))
		respondError(c, statusFor(err), "Failed to list companies")
		return
	}
	respondOK(c, companies, "")
}

// getCompany godoc
// @Summary Get a company by ID
// @Tags companies
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Success 200 {object} dto.APIResponse{data=domain.Company}
// @Failure 404 {object} dto.ErrorResponse "Company not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to retrieve company"
// @Security BearerAuth
// @Router /companies/{companyID} [get]
func (h *companyHandler) getCompany(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	company, err := h.reportingService.GetCompany(c.Request.Context(), companyID)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusNotFound {
			logger.Warn("Company not found", slog.String("company_id", companyID))
			respondError(c, status, "Company not found")
			return
		}
		logger.Error("Failed to get company", slog.String("company_id", companyID), slog.String("error", err.Error()))
		respondError(c, status, "Failed to retrieve company")
		return
	}
	respondOK(c, company, "")
}

// getCompanyDashboard godoc
// @Summary Get the dashboard of a company
// @Description Computes metrics, the profit trend, insights and highlights over the company's reports
// @Tags companies
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Success 200 {object} dto.APIResponse{data=domain.Dashboard}
// @Failure 404 {object} dto.ErrorResponse "Company not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to compute dashboard"
// @Security BearerAuth
// @Router /companies/{companyID}/dashboard [get]
func (h *companyHandler) getCompanyDashboard(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	dashboard, err := h.dashboardService.CompanyDashboard(c.Request.Context(), companyID)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusNotFound {
			respondError(c, status, "Company not found")
			return
		}
		logger.Error("Failed to compute company dashboard", slog.String("company_id", companyID), slog.String("error", err.Error()))
		respondError(c, status, "Failed to compute dashboard")
		return
	}
	respondOK(c, dashboard, "")
}
