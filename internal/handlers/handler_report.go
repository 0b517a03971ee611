package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/pnl_insights_app/internal/core/ports/services"
	"github.com/SscSPs/pnl_insights_app/internal/dto"
	"github.com/SscSPs/pnl_insights_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportHandler handles HTTP requests related to reports.
type reportHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

// newReportHandler creates a new reportHandler.
func newReportHandler(rs portssvc.ReportingSvcFacade) *reportHandler {
	return &reportHandler{
		reportingService: rs,
	}
}

// registerReportRoutes registers routes related to reports.
func registerReportRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := newReportHandler(reportingService)

	reports := rg.Group("/reports")
	{
		reports.GET("", h.listReports)
		reports.GET("/:reportID", h.getReport)
		reports.GET("/:reportID/line-items", h.getReportLineItems)
		reports.GET("/company/:companyID", h.listCompanyReports)
	}
}

// listReports godoc
// @Summary List reports
// @Description Lists reports, newest period first, using token-based pagination
// @Tags reports
// @Produce  json
// @Param   limit query int false "Page size (1-100)" default(20)
// @Param   nextToken query string false "Token returned by the previous page"
// @Success 200 {object} dto.APIResponse{data=dto.ListReportsResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Failure 500 {object} dto.ErrorResponse "Failed to list reports"
// @Security BearerAuth
// @Router /reports [get]
func (h *reportHandler) listReports(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListReportsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query parameters for ListReports", slog.String("error", err.Error()))
		respondError(c, http.StatusBadRequest, "Invalid query parameters: "+err.Error())
		return
	}

	reports, next, err := h.reportingService.ListReports(c.Request.Context(), params.Limit, params.NextToken)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusBadRequest {
			respondError(c, status, "Invalid nextToken")
			return
		}
		logger.Error("Failed to list reports", slog.String("error", err.Error()))
		respondError(c, status, "Failed to list reports")
		return
	}
	respondOK(c, dto.ListReportsResponse{Reports: reports, NextToken: next}, "")
}

// getReport godoc
// @Summary Get a report by ID
// @Tags reports
// @Produce  json
// @Param   reportID path string true "Report ID"
// @Success 200 {object} dto.APIResponse{data=domain.Report}
// @Failure 404 {object} dto.ErrorResponse "Report not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to retrieve report"
// @Security BearerAuth
// @Router /reports/{reportID} [get]
func (h *reportHandler) getReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reportID := c.Param("reportID")

	report, err := h.reportingService.GetReport(c.Request.Context(), reportID)
	if err != nil {
		h.handleReportError(c, logger, reportID, err)
		return
	}
	respondOK(c, report, "")
}

// getReportLineItems godoc
// @Summary Get a report with its line items
// @Description Returns the report, its line items in payload order and the non-zero items grouped by category
// @Tags reports
// @Produce  json
// @Param   reportID path string true "Report ID"
// @Success 200 {object} dto.APIResponse{data=domain.ReportDetail}
// @Failure 404 {object} dto.ErrorResponse "Report not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to retrieve report"
// @Security BearerAuth
// @Router /reports/{reportID}/line-items [get]
func (h *reportHandler) getReportLineItems(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reportID := c.Param("reportID")

	detail, err := h.reportingService.GetReportDetail(c.Request.Context(), reportID)
	if err != nil {
		h.handleReportError(c, logger, reportID, err)
		return
	}
	respondOK(c, detail, "")
}

// listCompanyReports godoc
// @Summary List the reports of a company
// @Tags reports
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Success 200 {object} dto.APIResponse{data=[]domain.Report}
// @Failure 404 {object} dto.ErrorResponse "Company not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to list reports"
// @Security BearerAuth
// @Router /reports/company/{companyID} [get]
func (h *reportHandler) listCompanyReports(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	reports, err := h.reportingService.ListReportsByCompany(c.Request.Context(), companyID)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusNotFound {
			respondError(c, status, "Company not found")
			return
		}
		logger.Error("Failed to list company reports", slog.String("company_id", companyID), slog.String("error", err.Error()))
		respondError(c, status, "Failed to list reports")
		return
	}
	respondOK(c, reports, "")
}

func (h *reportHandler) handleReportError(c *gin.Context, logger *slog.Logger, reportID string, err error) {
	status := statusFor(err)
	if status == http.StatusNotFound {
		logger.Warn("Report not found", slog.String("report_id", reportID))
		respondError(c, status, "Report not found")
		return
	}
	logger.Error("Failed to get report", slog.String("report_id", reportID), slog.String("error", err.Error()))
	respondError(c, status, "Failed to retrieve report")
}
