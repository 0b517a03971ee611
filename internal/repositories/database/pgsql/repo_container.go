package pgsql

import (
	portsrepo "github.com/SscSPs/pnl_insights_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider builds the PostgreSQL-backed repositories sharing dbPool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		CompanyRepo: newPgxCompanyRepository(dbPool),
		AccountRepo: newPgxAccountRepository(dbPool),
		ReportRepo:  newPgxReportRepository(dbPool),
	}
}

// NewHealthChecker returns a HealthChecker pinging dbPool.
func NewHealthChecker(dbPool *pgxpool.Pool) portsrepo.HealthChecker {
	return &BaseRepository{Pool: dbPool}
}
