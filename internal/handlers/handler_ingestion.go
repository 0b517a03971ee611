package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/SscSPs/pnl_insights_app/internal/apperrors"
	portssvc "github.com/SscSPs/pnl_insights_app/internal/core/ports/services"
	"github.com/SscSPs/pnl_insights_app/internal/dto"
	"github.com/SscSPs/pnl_insights_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// maxBatchBytes bounds the size of an ingestion payload.
const maxBatchBytes = 10 << 20

// ingestionHandler handles the batch ingestion endpoint.
type ingestionHandler struct {
	ingestionService portssvc.IngestionService
}

// newIngestionHandler creates a new ingestionHandler.
func newIngestionHandler(is portssvc.IngestionService) *ingestionHandler {
	return &ingestionHandler{
		ingestionService: is,
	}
}

// registerIngestionRoutes registers the ETL routes. extra handlers (e.g. a rate limiter) run before ingestion.
func registerIngestionRoutes(rg *gin.RouterGroup, ingestionService portssvc.IngestionService, extra ...gin.HandlerFunc) {
	h := newIngestionHandler(ingestionService)

	etl := rg.Group("/etl")
	{
		etl.POST("/reports", append(extra, h.ingestReports)...)
	}
}

// ingestReports godoc
// @Summary Ingest a batch of P&L statements
// @Description Normalizes and stores every entry of the batch. Entries fail independently: when some entries are rejected the call still succeeds and lists the errors.
// @Tags etl
// @Accept  json
// @Produce  json
// @Param   batch body dto.IngestBatchRequest true "Statement batch"
// @Success 200 {object} dto.IngestBatchResponse "All or some entries processed"
// @Failure 400 {object} dto.ErrorResponse "Malformed payload"
// @Failure 422 {object} dto.IngestBatchResponse "Every entry was rejected"
// @Failure 429 {object} dto.ErrorResponse "Too many requests"
// @Failure 500 {object} dto.ErrorResponse "Failed to process batch"
// @Security BearerAuth
// @Router /etl/reports [post]
func (h *ingestionHandler) ingestReports(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBatchBytes))
	if err != nil {
		logger.Warn("Failed to read ingestion payload", slog.String("error", err.Error()))
		respondError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	logger.Info("Received batch ingestion request", slog.Int("bytes", len(payload)))
	result, err := h.ingestionService.IngestBatch(c.Request.Context(), payload)

	switch {
	case err == nil:
		c.JSON(http.StatusOK, dto.ToIngestBatchResponse(result, true,
			fmt.Sprintf("Processed %d reports", result.Processed)))

	case errors.Is(err, apperrors.ErrParse):
		logger.Warn("Rejected malformed batch", slog.String("error", err.Error()))
		respondError(c, http.StatusBadRequest, err.Error())

	case errors.Is(err, apperrors.ErrPartialBatch):
		logger.Warn("Batch partially processed", slog.String("error", err.Error()))
		c.JSON(http.StatusOK, dto.ToIngestBatchResponse(result, true,
			fmt.Sprintf("Processed %d of %d reports", result.Processed, result.Total)))

	case errors.Is(err, apperrors.ErrValidation) && result != nil:
		logger.Warn("Every batch entry was rejected", slog.Int("entries", result.Total))
		c.JSON(http.StatusUnprocessableEntity, dto.ToIngestBatchResponse(result, false, "No reports processed"))

	default:
		logger.Error("Failed to process batch", slog.String("error", err.Error()))
		respondError(c, http.StatusInternalServerError, "Failed to process batch")
	}
}
