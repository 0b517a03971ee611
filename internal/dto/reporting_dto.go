package dto

import (
	"github.com/SscSPs/pnl_insights_app/internal/core/domain"
)

// APIResponse is the success envelope of every endpoint.
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse is the failure envelope of every endpoint.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// ListReportsParams holds the query parameters of the report listing.
type ListReportsParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListReportsResponse is a page of reports.
type ListReportsResponse struct {
	Reports   []domain.Report `json:"reports"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ToIngestBatchResponse converts an ingestion result into its response body.
func ToIngestBatchResponse(result *domain.IngestionResult, success bool, message string) IngestBatchResponse {
	resp := IngestBatchResponse{
		Success: success,
		Message: message,
		Errors:  []string{},
	}
	if result != nil {
		resp.ProcessedReports = result.Processed
		if result.Errors != nil {
			resp.Errors = result.Errors
		}
		resp.Warnings = result.Warnings
	}
	return resp
}
