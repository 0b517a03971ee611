package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/pnl_insights_app/internal/apperrors"
	"github.com/SscSPs/pnl_insights_app/internal/core/domain"
	"github.com/SscSPs/pnl_insights_app/internal/core/ingestion"
	portsrepo "github.com/SscSPs/pnl_insights_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pnl_insights_app/internal/core/ports/services"
)

// ingestionService implements the IngestionService interface
type ingestionService struct {
	BaseService
	companyRepo portsrepo.CompanyRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
	reportRepo  portsrepo.ReportRepositoryFacade

	normalizer   *ingestion.Normalizer
	indexOptions []ingestion.IndexOption
	policy       domain.AccountConflictPolicy
	timeout      time.Duration
}

// IngestionOption is a functional option for configuring the ingestion service
type IngestionOption func(*ingestionService)

// WithConflictPolicy sets how conflicting account names or categories are reconciled.
func WithConflictPolicy(policy domain.AccountConflictPolicy) IngestionOption {
	return func(s *ingestionService) {
		if policy != "" {
			s.policy = policy
		}
	}
}

// WithNormalizer replaces the default normalizer.
func WithNormalizer(n *ingestion.Normalizer) IngestionOption {
	return func(s *ingestionService) {
		if n != nil {
			s.normalizer = n
		}
	}
}

// WithIndexOptions passes options to the entity index built for every batch.
func WithIndexOptions(options ...ingestion.IndexOption) IngestionOption {
	return func(s *ingestionService) {
		s.indexOptions = append(s.indexOptions, options...)
	}
}

// WithIngestTimeout bounds the duration of a whole batch. Zero disables the bound.
func WithIngestTimeout(timeout time.Duration) IngestionOption {
	return func(s *ingestionService) {
		s.timeout = timeout
	}
}

// NewIngestionService creates a new ingestion service with the provided options
func NewIngestionService(repos portsrepo.RepositoryProvider, options ...IngestionOption) portssvc.IngestionService {
	svc := &ingestionService{
		companyRepo: repos.CompanyRepo,
		accountRepo: repos.AccountRepo,
		reportRepo:  repos.ReportRepo,
		normalizer:  ingestion.NewNormalizer(),
		policy:      domain.FirstWriteWins,
	}

	// Apply all options
	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure ingestionService implements the IngestionService interface
var _ portssvc.IngestionService = (*ingestionService)(nil)

// entryFailure is a failed batch entry and its message.
type entryFailure struct {
	index int
	err   error
}

func (s *ingestionService) IngestBatch(ctx context.Context, payload []byte) (*domain.IngestionResult, error) {
	raws, err := ingestion.ParseBatch(payload)
	if err != nil {
		s.LogError(ctx, err, "Rejected malformed batch payload", slog.Int("bytes", len(payload)))
		return nil, err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	parsed, err := s.normalizer.Parse(ctx, raws)
	if err != nil {
		s.LogError(ctx, err, "Failed to parse batch entries", slog.Int("entries", len(raws)))
		return nil, err
	}

	index := ingestion.NewEntityIndex(s.policy, s.indexOptions...)
	if err := s.seedIndex(ctx, index, parsed.CompanyRefs()); err != nil {
		s.LogError(ctx, err, "Failed to load stored companies and accounts")
		return nil, err
	}

	batch := s.normalizer.Merge(parsed, index)

	failures := make([]entryFailure, 0, len(batch.Errors))
	for _, verr := range batch.Errors {
		failures = append(failures, entryFailure{index: verr.EntryIndex, err: verr})
	}

	processed, persistFailures := s.persist(ctx, batch)
	failures = append(failures, persistFailures...)
	sort.SliceStable(failures, func(i, j int) bool { return failures[i].index < failures[j].index })

	result := &domain.IngestionResult{
		Total:     batch.Total,
		Processed: processed,
		Errors:    make([]string, 0, len(failures)),
		Warnings:  batch.Warnings,
	}
	if result.Warnings == nil {
		result.Warnings = []string{}
	}
	for _, f := range failures {
		result.Errors = append(result.Errors, f.err.Error())
	}

	s.LogInfo(ctx, "Batch ingested",
		slog.Int("total", result.Total),
		slog.Int("processed", result.Processed),
		slog.Int("failed", len(failures)),
		slog.Int("warnings", len(result.Warnings)),
		slog.String("conflict_policy", string(s.policy)))

	switch {
	case len(failures) == 0:
		return result, nil
	case processed > 0:
		return result, &apperrors.PartialBatchFailure{Processed: processed, Failed: len(failures)}
	case len(persistFailures) > 0:
		return result, fmt.Errorf("failed to persist batch: %w", persistFailures[0].err)
	default:
		return result, fmt.Errorf("%w: all %d entries failed", apperrors.ErrValidation, len(failures))
	}
}

// seedIndex loads the stored companies referenced by the batch and their accounts.
func (s *ingestionService) seedIndex(ctx context.Context, index *ingestion.EntityIndex, refs []int64) error {
	if len(refs) == 0 {
		return nil
	}
	companies, err := s.companyRepo.FindCompaniesByExternalIDs(ctx, refs)
	if err != nil {
		return fmt.Errorf("failed to find companies: %w", err)
	}
	ids := make([]string, 0, len(companies))
	for _, c := range companies {
		ids = append(ids, c.CompanyID)
	}

	var accounts []domain.Account
	if len(ids) > 0 {
		accounts, err = s.accountRepo.FindAccountsByCompanyIDs(ctx, ids)
		if err != nil {
			return fmt.Errorf("failed to find accounts: %w", err)
		}
	}
	index.Seed(companies, accounts)
	return nil
}

// persist writes companies, then accounts, then every report in its own
// transaction. Ids are remapped to the stored rows, which differ from the
// generated ones when a concurrent batch created the same entity first.
func (s *ingestionService) persist(ctx context.Context, batch *ingestion.BatchResult) (int, []entryFailure) {
	companyIDs := make(map[string]string)
	failedCompanies := make(map[string]error)
	for _, c := range batch.Companies {
		stored, err := s.companyRepo.UpsertCompany(ctx, c)
		if err != nil {
			s.LogError(ctx, err, "Failed to save company", slog.Int64("external_company_id", c.ExternalCompanyID))
			failedCompanies[c.CompanyID] = err
			continue
		}
		companyIDs[c.CompanyID] = stored.CompanyID
	}
	companyID := func(id string) string {
		if stored, ok := companyIDs[id]; ok {
			return stored
		}
		return id
	}

	accountIDs := make(map[string]string)
	failedAccounts := make(map[string]error)
	overwrite := s.policy == domain.LastWriteWins
	for _, a := range batch.Accounts {
		if err, ok := failedCompanies[a.CompanyID]; ok {
			failedAccounts[a.AccountID] = err
			continue
		}
		a.CompanyID = companyID(a.CompanyID)
		stored, err := s.accountRepo.UpsertAccount(ctx, a, overwrite)
		if err != nil {
			s.LogError(ctx, err, "Failed to save account",
				slog.String("company_id", a.CompanyID),
				slog.String("external_account_id", a.ExternalAccountID))
			failedAccounts[a.AccountID] = err
			continue
		}
		accountIDs[a.AccountID] = stored.AccountID
	}

	processed := 0
	var failures []entryFailure
	for _, entry := range batch.Entries {
		if err := ctx.Err(); err != nil {
			failures = append(failures, entryFailure{entry.Index, fmt.Errorf("entry %d: %w", entry.Index+1, err)})
			continue
		}
		if err, ok := failedCompanies[entry.Company.CompanyID]; ok {
			failures = append(failures, entryFailure{entry.Index, fmt.Errorf("entry %d: company not saved: %w", entry.Index+1, err)})
			continue
		}

		report := entry.Report
		report.CompanyID = companyID(report.CompanyID)
		items := make([]domain.LineItem, len(entry.LineItems))
		var accountErr error
		for i, item := range entry.LineItems {
			if err, ok := failedAccounts[item.AccountID]; ok {
				accountErr = err
				break
			}
			if stored, ok := accountIDs[item.AccountID]; ok {
				item.AccountID = stored
			}
			items[i] = item
		}
		if accountErr != nil {
			failures = append(failures, entryFailure{entry.Index, fmt.Errorf("entry %d: account not saved: %w", entry.Index+1, accountErr)})
			continue
		}

		saved, err := s.reportRepo.SaveReport(ctx, report, items)
		if err != nil {
			s.LogError(ctx, err, "Failed to save report",
				slog.Int("entry", entry.Index+1),
				slog.String("external_report_id", report.ExternalReportID))
			failures = append(failures, entryFailure{entry.Index, fmt.Errorf("entry %d: report not saved: %w", entry.Index+1, err)})
			continue
		}
		if saved.ReportID != report.ReportID {
			s.LogDebug(ctx, "Report replaced", slog.String("report_id", saved.ReportID))
		}
		processed++
	}
	return processed, failures
}

