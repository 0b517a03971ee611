package services_test

import (
	"context"

	"github.com/SscSPs/pnl_insights_app/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

// --- Mock CompanyRepository ---
type MockCompanyRepository struct {
	mock.Mock
}

func (m *MockCompanyRepository) FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}

func (m *MockCompanyRepository) FindCompaniesByExternalIDs(ctx context.Context, externalIDs []int64) ([]domain.Company, error) {
	args := m.Called(ctx, externalIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Company), args.Error(1)
}

func (m *MockCompanyRepository) ListCompanies(ctx context.Context) ([]domain.Company, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Company), args.Error(1)
}

func (m *MockCompanyRepository) UpsertCompany(ctx context.Context, company domain.Company) (*domain.Company, error) {
	args := m.Called(ctx, company)
	if fn, ok := args.Get(0).(func(domain.Company) *domain.Company); ok {
		return fn(company), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}

// --- Mock AccountRepository ---
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAccountsByCompanyIDs(ctx context.Context, companyIDs []string) ([]domain.Account, error) {
	args := m.Called(ctx, companyIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) UpsertAccount(ctx context.Context, account domain.Account, overwrite bool) (*domain.Account, error) {
	args := m.Called(ctx, account, overwrite)
	if fn, ok := args.Get(0).(func(domain.Account) *domain.Account); ok {
		return fn(account), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

// --- Mock ReportRepository ---
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) FindReportByID(ctx context.Context, reportID string) (*domain.Report, error) {
	args := m.Called(ctx, reportID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}

func (m *MockReportRepository) ListReports(ctx context.Context, limit int, nextToken *string) ([]domain.Report, *string, error) {
	args := m.Called(ctx, limit, nextToken)
	var reports []domain.Report
	if args.Get(0) != nil {
		reports = args.Get(0).([]domain.Report)
	}
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	return reports, next, args.Error(2)
}

func (m *MockReportRepository) ListReportsByCompany(ctx context.Context, companyID string) ([]domain.Report, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Report), args.Error(1)
}

func (m *MockReportRepository) ListAllReports(ctx context.Context) ([]domain.Report, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Report), args.Error(1)
}

func (m *MockReportRepository) FindLineItemsByReportID(ctx context.Context, reportID string) ([]domain.LineItem, error) {
	args := m.Called(ctx, reportID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LineItem), args.Error(1)
}

func (m *MockReportRepository) SaveReport(ctx context.Context, report domain.Report, items []domain.LineItem) (*domain.Report, error) {
	args := m.Called(ctx, report, items)
	if fn, ok := args.Get(0).(func(domain.Report) *domain.Report); ok {
		return fn(report), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}

// echo helpers return the row they receive, as a store does for new rows.
func echoCompany(c domain.Company) *domain.Company { return &c }
func echoAccount(a domain.Account) *domain.Account { return &a }
func echoReport(r domain.Report) *domain.Report    { return &r }
