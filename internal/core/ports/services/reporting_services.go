package services

import (
	"context"

	"github.com/SscSPs/pnl_insights_app/internal/core/domain"
)

// CompanyReaderSvc defines read operations for company data
type CompanyReaderSvc interface {
	// ListCompanies retrieves every company.
	ListCompanies(ctx context.Context) ([]domain.Company, error)

	// GetCompany retrieves a company by id.
	GetCompany(ctx context.Context, companyID string) (*domain.Company, error)
}

// ReportReaderSvc defines read operations for report data
type ReportReaderSvc interface {
	// ListReports retrieves a page of reports and the token of the next page.
	ListReports(ctx context.Context, limit int, nextToken *string) ([]domain.Report, *string, error)

	// GetReport retrieves a report by id.
	GetReport(ctx context.Context, reportID string) (*domain.Report, error)

	// GetReportDetail retrieves a report with its line items grouped by category.
	GetReportDetail(ctx context.Context, reportID string) (*domain.ReportDetail, error)

	// ListReportsByCompany retrieves the reports of a company in period order.
	ListReportsByCompany(ctx context.Context, companyID string) ([]domain.Report, error)
}

// ReportingSvcFacade combines all read-side service interfaces
type ReportingSvcFacade interface {
	CompanyReaderSvc
	ReportReaderSvc
}

// DashboardService defines the derived analytics views
type DashboardService interface {
	// CompanyDashboard computes metrics, trend, insights and highlights for one company.
	CompanyDashboard(ctx context.Context, companyID string) (*domain.Dashboard, error)

	// PortfolioDashboard computes the same views over every stored report.
	PortfolioDashboard(ctx context.Context) (*domain.Dashboard, error)
}
