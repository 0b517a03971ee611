package repositories

import (
	"context"

	"github.com/SscSPs/pnl_insights_app/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountsByCompanyIDs retrieves every account of the given companies.
	FindAccountsByCompanyIDs(ctx context.Context, companyIDs []string) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// UpsertAccount creates the account if (CompanyID, ExternalAccountID) is unknown.
	// When it exists, name and category are replaced only if overwrite is set.
	// It returns the stored row.
	UpsertAccount(ctx context.Context, account domain.Account, overwrite bool) (*domain.Account, error)
}

// AccountRepositoryFacade combines all account-related repository interfaces
// This is a facade for clients that need access to all operations
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
