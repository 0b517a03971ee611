package services_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/SscSPs/pnl_insights_app/internal/apperrors"
	"github.com/SscSPs/pnl_insights_app/internal/core/domain"
	portsrepo "github.com/SscSPs/pnl_insights_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pnl_insights_app/internal/core/ports/services"
	"github.com/SscSPs/pnl_insights_app/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const statementJSON = `{
	"rootfi_company_id": %d, "platform_id": %q,
	"period_start": %q, "period_end": %q,
	"gross_profit": 1000, "net_profit": 400,
	"revenue": [{"name": "Revenue", "value": 1000, "line_items": [{"name": "Sales", "value": 1000, "account_id": "acc-sales"}]}],
	"operating_expenses": [{"name": "Opex", "value": 600, "line_items": [{"name": "Rent", "value": 600, "account_id": "acc-rent"}]}]
}`

func statement(company int64, periodID, start, end string) string {
	return fmt.Sprintf(statementJSON, company, periodID, start, end)
}

func batch(entries ...string) []byte {
	return []byte(`{"data": [` + strings.Join(entries, ",") + `]}`)
}

// --- Test Suite ---
type IngestionServiceTestSuite struct {
	suite.Suite
	companyRepo *MockCompanyRepository
	accountRepo *MockAccountRepository
	reportRepo  *MockReportRepository
	service     portssvc.IngestionService
}

func (suite *IngestionServiceTestSuite) SetupTest() {
	suite.companyRepo = new(MockCompanyRepository)
	suite.accountRepo = new(MockAccountRepository)
	suite.reportRepo = new(MockReportRepository)
	suite.service = suite.newService(domain.FirstWriteWins)
}

func (suite *IngestionServiceTestSuite) newService(policy domain.AccountConflictPolicy) portssvc.IngestionService {
	return services.NewIngestionService(portsrepo.RepositoryProvider{
		CompanyRepo: suite.companyRepo,
		AccountRepo: suite.accountRepo,
		ReportRepo:  suite.reportRepo,
	}, services.WithConflictPolicy(policy))
}

func (suite *IngestionServiceTestSuite) expectNewCompany(externalIDs []int64) {
	suite.companyRepo.On("FindCompaniesByExternalIDs", mock.Anything, externalIDs).Return([]domain.Company{}, nil).Once()
	suite.companyRepo.On("UpsertCompany", mock.Anything, mock.AnythingOfType("domain.Company")).Return(echoCompany, nil)
	suite.accountRepo.On("UpsertAccount", mock.Anything, mock.AnythingOfType("domain.Account"), false).Return(echoAccount, nil)
}

// --- Test Cases ---

func (suite *IngestionServiceTestSuite) TestIngestBatch_Success() {
	ctx := context.Background()
	suite.expectNewCompany([]int64{1})
	suite.reportRepo.On("SaveReport", mock.Anything, mock.AnythingOfType("domain.Report"), mock.Anything).Return(echoReport, nil).Twice()

	result, err := suite.service.IngestBatch(ctx, batch(
		statement(1, "p-1", "2024-01-01", "2024-01-31"),
		statement(1, "p-2", "2024-02-01", "2024-02-29"),
	))

	suite.Require().NoError(err)
	suite.Equal(2, result.Total)
	suite.Equal(2, result.Processed)
	suite.Empty(result.Errors)
	suite.companyRepo.AssertNumberOfCalls(suite.T(), "UpsertCompany", 1)
	suite.accountRepo.AssertNumberOfCalls(suite.T(), "UpsertAccount", 2)
	suite.accountRepo.AssertNotCalled(suite.T(), "FindAccountsByCompanyIDs", mock.Anything, mock.Anything)
	suite.reportRepo.AssertExpectations(suite.T())
}

func (suite *IngestionServiceTestSuite) TestIngestBatch_PartialFailure() {
	ctx := context.Background()
	suite.expectNewCompany([]int64{1})
	suite.reportRepo.On("SaveReport", mock.Anything, mock.AnythingOfType("domain.Report"), mock.Anything).Return(echoReport, nil).Twice()

	result, err := suite.service.IngestBatch(ctx, batch(
		statement(1, "p-1", "2024-01-01", "2024-01-31"),
		statement(1, "p-2", "2024-03-01", "2024-02-01"),
		statement(1, "p-3", "2024-03-01", "2024-03-31"),
	))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrPartialBatch)
	var partial *apperrors.PartialBatchFailure
	suite.Require().True(errors.As(err, &partial))
	suite.Equal(2, partial.Processed)
	suite.Equal(1, partial.Failed)

	suite.Require().NotNil(result)
	suite.Equal(2, result.Processed)
	suite.Require().Len(result.Errors, 1)
	suite.Contains(result.Errors[0], "entry 2")

	suite.reportRepo.AssertCalled(suite.T(), "SaveReport", mock.Anything,
		mock.MatchedBy(func(r domain.Report) bool { return r.ExternalReportID == "p-3" }), mock.Anything)
	suite.reportRepo.AssertNotCalled(suite.T(), "SaveReport", mock.Anything,
		mock.MatchedBy(func(r domain.Report) bool { return r.ExternalReportID == "p-2" }), mock.Anything)
}

func (suite *IngestionServiceTestSuite) TestIngestBatch_AllEntriesInvalid() {
	ctx := context.Background()

	result, err := suite.service.IngestBatch(ctx, batch(`{"platform_id": "x"}`, `{"rootfi_company_id": -1}`))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Require().NotNil(result)
	suite.Equal(0, result.Processed)
	suite.Len(result.Errors, 2)
	suite.Contains(result.Errors[0], "entry 1")
	suite.Contains(result.Errors[1], "entry 2")
	suite.companyRepo.AssertNotCalled(suite.T(), "FindCompaniesByExternalIDs", mock.Anything, mock.Anything)
}

func (suite *IngestionServiceTestSuite) TestIngestBatch_EmptyBatch() {
	result, err := suite.service.IngestBatch(context.Background(), []byte(`{"data": []}`))

	suite.Require().NoError(err)
	suite.Equal(0, result.Total)
	suite.Equal(0, result.Processed)
	suite.NotNil(result.Errors)
}

func (suite *IngestionServiceTestSuite) TestIngestBatch_MalformedPayload() {
	result, err := suite.service.IngestBatch(context.Background(), []byte(`{"data": "nope"}`))

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrParse)
	suite.companyRepo.AssertExpectations(suite.T())
}

func (suite *IngestionServiceTestSuite) TestIngestBatch_ReusesStoredEntities() {
	ctx := context.Background()
	stored := domain.Company{CompanyID: "company-1", ExternalCompanyID: 5, Name: "Company 5"}
	storedSales := domain.Account{AccountID: "account-sales", CompanyID: "company-1", ExternalAccountID: "acc-sales", Name: "Sales", Category: domain.CategoryOperatingRevenue}

	suite.companyRepo.On("FindCompaniesByExternalIDs", mock.Anything, []int64{5}).Return([]domain.Company{stored}, nil).Once()
	suite.accountRepo.On("FindAccountsByCompanyIDs", mock.Anything, []string{"company-1"}).Return([]domain.Account{storedSales}, nil).Once()
	suite.accountRepo.On("UpsertAccount", mock.Anything,
		mock.MatchedBy(func(a domain.Account) bool { return a.ExternalAccountID == "acc-rent" && a.CompanyID == "company-1" }), false).
		Return(echoAccount, nil).Once()
	suite.reportRepo.On("SaveReport", mock.Anything,
		mock.MatchedBy(func(r domain.Report) bool { return r.CompanyID == "company-1" }),
		mock.MatchedBy(func(items []domain.LineItem) bool { return len(items) == 2 && items[0].AccountID == "account-sales" })).
		Return(echoReport, nil).Once()

	result, err := suite.service.IngestBatch(ctx, batch(statement(5, "p-1", "2024-01-01", "2024-01-31")))

	suite.Require().NoError(err)
	suite.Equal(1, result.Processed)
	suite.companyRepo.AssertNotCalled(suite.T(), "UpsertCompany", mock.Anything, mock.Anything)
	suite.companyRepo.AssertExpectations(suite.T())
	suite.accountRepo.AssertExpectations(suite.T())
	suite.reportRepo.AssertExpectations(suite.T())
}

func (suite *IngestionServiceTestSuite) TestIngestBatch_RemapsConcurrentlyCreatedIDs() {
	ctx := context.Background()
	suite.companyRepo.On("FindCompaniesByExternalIDs", mock.Anything, []int64{8}).Return([]domain.Company{}, nil).Once()
	suite.companyRepo.On("UpsertCompany", mock.Anything, mock.AnythingOfType("domain.Company")).
		Return(func(c domain.Company) *domain.Company {
			c.CompanyID = "winner-company"
			return &c
		}, nil).Once()
	suite.accountRepo.On("UpsertAccount", mock.Anything,
		mock.MatchedBy(func(a domain.Account) bool { return a.CompanyID == "winner-company" }), false).
		Return(func(a domain.Account) *domain.Account {
			a.AccountID = "winner-" + a.ExternalAccountID
			return &a
		}, nil).Twice()
	suite.reportRepo.On("SaveReport", mock.Anything,
		mock.MatchedBy(func(r domain.Report) bool { return r.CompanyID == "winner-company" }),
		mock.MatchedBy(func(items []domain.LineItem) bool {
			return len(items) == 2 && items[0].AccountID == "winner-acc-sales" && items[1].AccountID == "winner-acc-rent"
		})).
		Return(echoReport, nil).Once()

	result, err := suite.service.IngestBatch(ctx, batch(statement(8, "p-1", "2024-01-01", "2024-01-31")))

	suite.Require().NoError(err)
	suite.Equal(1, result.Processed)
	suite.companyRepo.AssertExpectations(suite.T())
	suite.accountRepo.AssertExpectations(suite.T())
	suite.reportRepo.AssertExpectations(suite.T())
}

func (suite *IngestionServiceTestSuite) TestIngestBatch_SaveReportErrorIsIsolated() {
	ctx := context.Background()
	suite.expectNewCompany([]int64{1})
	suite.reportRepo.On("SaveReport", mock.Anything,
		mock.MatchedBy(func(r domain.Report) bool { return r.ExternalReportID == "p-1" }), mock.Anything).
		Return(nil, assert.AnError).Once()
	suite.reportRepo.On("SaveReport", mock.Anything,
		mock.MatchedBy(func(r domain.Report) bool { return r.ExternalReportID == "p-2" }), mock.Anything).
		Return(echoReport, nil).Once()

	result, err := suite.service.IngestBatch(ctx, batch(
		statement(1, "p-1", "2024-01-01", "2024-01-31"),
		statement(1, "p-2", "2024-02-01", "2024-02-29"),
	))

	suite.ErrorIs(err, apperrors.ErrPartialBatch)
	suite.Equal(1, result.Processed)
	suite.Require().Len(result.Errors, 1)
	suite.Contains(result.Errors[0], "entry 1: report not saved")
	suite.reportRepo.AssertExpectations(suite.T())
}

func (suite *IngestionServiceTestSuite) TestIngestBatch_StoreUnavailable() {
	ctx := context.Background()
	suite.companyRepo.On("FindCompaniesByExternalIDs", mock.Anything, []int64{1}).Return(nil, assert.AnError).Once()

	result, err := suite.service.IngestBatch(ctx, batch(statement(1, "p-1", "2024-01-01", "2024-01-31")))

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, assert.AnError)
	suite.NotErrorIs(err, apperrors.ErrValidation)
}

func (suite *IngestionServiceTestSuite) TestIngestBatch_LastWriteWinsOverwritesAccounts() {
	ctx := context.Background()
	svc := suite.newService(domain.LastWriteWins)
	suite.companyRepo.On("FindCompaniesByExternalIDs", mock.Anything, []int64{2}).Return([]domain.Company{}, nil).Once()
	suite.companyRepo.On("UpsertCompany", mock.Anything, mock.AnythingOfType("domain.Company")).Return(echoCompany, nil).Once()
	suite.accountRepo.On("UpsertAccount", mock.Anything, mock.AnythingOfType("domain.Account"), true).Return(echoAccount, nil).Twice()
	suite.reportRepo.On("SaveReport", mock.Anything, mock.AnythingOfType("domain.Report"), mock.Anything).Return(echoReport, nil).Once()

	result, err := svc.IngestBatch(ctx, batch(statement(2, "p-1", "2024-01-01", "2024-01-31")))

	suite.Require().NoError(err)
	suite.Equal(1, result.Processed)
	suite.accountRepo.AssertExpectations(suite.T())
}

func (suite *IngestionServiceTestSuite) TestIngestBatch_LastWriteWinsOverwriteSurvivesFailedReport() {
	ctx := context.Background()
	svc := suite.newService(domain.LastWriteWins)
	stored := domain.Company{CompanyID: "company-6", ExternalCompanyID: 6, Name: "Company 6"}
	storedSales := domain.Account{AccountID: "account-sales", CompanyID: "company-6", ExternalAccountID: "acc-sales", Name: "Old Sales", Category: domain.CategoryOperatingRevenue}

	suite.companyRepo.On("FindCompaniesByExternalIDs", mock.Anything, []int64{6}).Return([]domain.Company{stored}, nil).Once()
	suite.accountRepo.On("FindAccountsByCompanyIDs", mock.Anything, []string{"company-6"}).Return([]domain.Account{storedSales}, nil).Once()
	suite.accountRepo.On("UpsertAccount", mock.Anything,
		mock.MatchedBy(func(a domain.Account) bool { return a.AccountID == "account-sales" && a.Name == "Sales" }), true).
		Return(echoAccount, nil).Once()
	suite.accountRepo.On("UpsertAccount", mock.Anything,
		mock.MatchedBy(func(a domain.Account) bool { return a.ExternalAccountID == "acc-rent" }), true).
		Return(echoAccount, nil).Once()
	suite.reportRepo.On("SaveReport", mock.Anything, mock.AnythingOfType("domain.Report"), mock.Anything).
		Return(nil, assert.AnError).Once()

	result, err := svc.IngestBatch(ctx, batch(statement(6, "p-1", "2024-01-01", "2024-01-31")))

	suite.Require().Error(err)
	suite.ErrorIs(err, assert.AnError)
	suite.Equal(0, result.Processed)
	suite.Require().Len(result.Errors, 1)
	suite.Contains(result.Errors[0], "entry 1: report not saved")
	suite.Require().Len(result.Warnings, 1)
	suite.Contains(result.Warnings[0], "acc-sales")
	suite.accountRepo.AssertExpectations(suite.T())
	suite.reportRepo.AssertExpectations(suite.T())
}

func TestIngestionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(IngestionServiceTestSuite))
}
