package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/pnl_insights_app/internal/core/analytics"
	"github.com/SscSPs/pnl_insights_app/internal/core/domain"
	portsrepo "github.com/SscSPs/pnl_insights_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pnl_insights_app/internal/core/ports/services"
	"github.com/SscSPs/pnl_insights_app/internal/utils/pagination"
)

// reportingService implements the ReportingSvcFacade interface
type reportingService struct {
	BaseService
	companyRepo portsrepo.CompanyReader
	reportRepo  portsrepo.ReportRepositoryFacade
}

// NewReportingService creates a new reporting service
func NewReportingService(companyRepo portsrepo.CompanyReader, reportRepo portsrepo.ReportRepositoryFacade) portssvc.ReportingSvcFacade {
	return &reportingService{
		companyRepo: companyRepo,
		reportRepo:  reportRepo,
	}
}

func (s *reportingService) ListCompanies(ctx context.Context) ([]domain.Company, error) {
	companies, err := s.companyRepo.ListCompanies(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list companies")
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	if companies == nil {
		return []domain.Company{}, nil
	}
	return companies, nil
}

func (s *reportingService) GetCompany(ctx context.Context, companyID string) (*domain.Company, error) {
	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to get company", slog.String("company_id", companyID))
		return nil, err
	}
	return company, nil
}

func (s *reportingService) ListReports(ctx context.Context, limit int, nextToken *string) ([]domain.Report, *string, error) {
	reports, next, err := s.reportRepo.ListReports(ctx, pagination.NormalizeLimit(limit), nextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list reports", slog.Int("limit", limit))
		return nil, nil, err
	}
	if reports == nil {
		reports = []domain.Report{}
	}
	return reports, next, nil
}

func (s *reportingService) GetReport(ctx context.Context, reportID string) (*domain.Report, error) {
	report, err := s.reportRepo.FindReportByID(ctx, reportID)
	if err != nil {
		s.LogError(ctx, err, "Failed to get report", slog.String("report_id", reportID))
		return nil, err
	}
	return report, nil
}

func (s *reportingService) GetReportDetail(ctx context.Context, reportID string) (*domain.ReportDetail, error) {
	report, err := s.GetReport(ctx, reportID)
	if err != nil {
		return nil, err
	}
	items, err := s.reportRepo.FindLineItemsByReportID(ctx, reportID)
	if err != nil {
		s.LogError(ctx, err, "Failed to get line items", slog.String("report_id", reportID))
		return nil, fmt.Errorf("failed to get line items: %w", err)
	}
	detail := analytics.BuildReportDetail(*report, items)
	return &detail, nil
}

func (s *reportingService) ListReportsByCompany(ctx context.Context, companyID string) ([]domain.Report, error) {
	if _, err := s.GetCompany(ctx, companyID); err != nil {
		return nil, err
	}
	reports, err := s.reportRepo.ListReportsByCompany(ctx, companyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list company reports", slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to list company reports: %w", err)
	}
	if reports == nil {
		return []domain.Report{}, nil
	}
	return reports, nil
}
