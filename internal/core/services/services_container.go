package services

import (
	"github.com/SscSPs/pnl_insights_app/internal/core/ingestion"
	portsrepo "github.com/SscSPs/pnl_insights_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pnl_insights_app/internal/core/ports/services"
	"github.com/SscSPs/pnl_insights_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Ingestion = NewIngestionService(repos,
		WithConflictPolicy(cfg.AccountConflictPolicy),
		WithNormalizer(ingestion.NewNormalizer(ingestion.WithWorkers(cfg.IngestWorkers))),
		WithIngestTimeout(cfg.IngestTimeout),
	)
	container.Reporting = NewReportingService(repos.CompanyRepo, repos.ReportRepo)
	container.Dashboard = NewDashboardService(repos.CompanyRepo, repos.ReportRepo, cfg.DisplayCurrency)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.IngestionService   = (*ingestionService)(nil)
	_ portssvc.ReportingSvcFacade = (*reportingService)(nil)
	_ portssvc.DashboardService   = (*dashboardService)(nil)
)
