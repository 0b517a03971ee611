package repositories

import (
	"context"

	"github.com/SscSPs/pnl_insights_app/internal/core/domain"
)

// CompanyReader defines read operations for company data
type CompanyReader interface {
	// FindCompanyByID retrieves a specific company by its unique identifier.
	FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error)

	// FindCompaniesByExternalIDs retrieves the companies known under the given source ids.
	// Unknown ids are skipped.
	FindCompaniesByExternalIDs(ctx context.Context, externalIDs []int64) ([]domain.Company, error)

	// ListCompanies retrieves every company ordered by external id.
	ListCompanies(ctx context.Context) ([]domain.Company, error)
}

// CompanyWriter defines write operations for company data
type CompanyWriter interface {
	// UpsertCompany creates the company if its external id is unknown and
	// returns the stored row. An existing company is left unchanged.
	UpsertCompany(ctx context.Context, company domain.Company) (*domain.Company, error)
}

// CompanyRepositoryFacade combines all company-related repository interfaces
type CompanyRepositoryFacade interface {
	CompanyReader
	CompanyWriter
}
