package repositories

import (
	"context"

	"github.com/SscSPs/pnl_insights_app/internal/core/domain"
)

// ReportReader defines read operations for report data
type ReportReader interface {
	// FindReportByID retrieves a specific report by its unique identifier.
	FindReportByID(ctx context.Context, reportID string) (*domain.Report, error)

	// ListReports retrieves a page of reports, newest period first, using token-based pagination.
	// It returns the reports, a token for the next page, and an error.
	ListReports(ctx context.Context, limit int, nextToken *string) ([]domain.Report, *string, error)

	// ListReportsByCompany retrieves every report of a company ordered by period start.
	ListReportsByCompany(ctx context.Context, companyID string) ([]domain.Report, error)

	// ListAllReports retrieves every report ordered by period start.
	ListAllReports(ctx context.Context) ([]domain.Report, error)
}

// LineItemReader defines read operations for line item data
type LineItemReader interface {
	// FindLineItemsByReportID retrieves the line items of a report in payload
	// order, each carrying the name and category of its account.
	FindLineItemsByReportID(ctx context.Context, reportID string) ([]domain.LineItem, error)
}

// ReportWriter defines write operations for report data
type ReportWriter interface {
	// SaveReport upserts a report by (CompanyID, ExternalReportID) and replaces
	// its line items atomically. It returns the stored report, whose id is the
	// existing one when the report was already known.
	SaveReport(ctx context.Context, report domain.Report, items []domain.LineItem) (*domain.Report, error)
}

// ReportRepositoryFacade combines all report-related repository interfaces
// This is a facade for clients that need access to all operations
type ReportRepositoryFacade interface {
	ReportReader
	LineItemReader
	ReportWriter
}
