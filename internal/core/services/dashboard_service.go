package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/pnl_insights_app/internal/core/analytics"
	"github.com/SscSPs/pnl_insights_app/internal/core/domain"
	portsrepo "github.com/SscSPs/pnl_insights_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pnl_insights_app/internal/core/ports/services"
	"github.com/SscSPs/pnl_insights_app/internal/utils"
)

// dashboardService implements the DashboardService interface
type dashboardService struct {
	BaseService
	companyRepo portsrepo.CompanyReader
	reportRepo  portsrepo.ReportReader
	currency    string
}

// NewDashboardService creates a dashboard service formatting amounts in currency.
func NewDashboardService(companyRepo portsrepo.CompanyReader, reportRepo portsrepo.ReportReader, currency string) portssvc.DashboardService {
	if currency == "" {
		currency = utils.DefaultCurrency
	}
	return &dashboardService{
		companyRepo: companyRepo,
		reportRepo:  reportRepo,
		currency:    currency,
	}
}

func (s *dashboardService) CompanyDashboard(ctx context.Context, companyID string) (*domain.Dashboard, error) {
	if _, err := s.companyRepo.FindCompanyByID(ctx, companyID); err != nil {
		s.LogError(ctx, err, "Failed to get company", slog.String("company_id", companyID))
		return nil, err
	}
	reports, err := s.reportRepo.ListReportsByCompany(ctx, companyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list company reports", slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to list company reports: %w", err)
	}
	dashboard := analytics.BuildDashboard(reports, s.currency)
	s.LogDebug(ctx, "Dashboard computed",
		slog.String("company_id", companyID),
		slog.Int("reports", len(reports)),
		slog.Int("valid_reports", dashboard.Metrics.TotalMonths))
	return &dashboard, nil
}

func (s *dashboardService) PortfolioDashboard(ctx context.Context) (*domain.Dashboard, error) {
	reports, err := s.reportRepo.ListAllReports(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list reports")
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	dashboard := analytics.BuildDashboard(reports, s.currency)
	return &dashboard, nil
}
