package sqlite

import (
	portsrepo "github.com/SscSPs/pnl_insights_app/internal/core/ports/repositories"
)

// NewRepositoryProvider builds the SQLite-backed repositories sharing conn.
func NewRepositoryProvider(conn *Connection) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		CompanyRepo: &companyRepository{conn: conn},
		AccountRepo: &accountRepository{conn: conn},
		ReportRepo:  &reportRepository{conn: conn},
	}
}

// Ensure Connection implements portsrepo.HealthChecker
var _ portsrepo.HealthChecker = (*Connection)(nil)
