package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/pnl_insights_app/internal/apperrors"
	"github.com/SscSPs/pnl_insights_app/internal/core/domain"
	portsrepo "github.com/SscSPs/pnl_insights_app/internal/core/ports/repositories"
	"github.com/SscSPs/pnl_insights_app/internal/models"
	"github.com/SscSPs/pnl_insights_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const companyColumns = `company_id, external_company_id, name, created_at, last_updated_at`

type PgxCompanyRepository struct {
	BaseRepository
}

// newPgxCompanyRepository creates a new repository for company data.
func newPgxCompanyRepository(pool *pgxpool.Pool) portsrepo.CompanyRepositoryFacade {
	return &PgxCompanyRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxCompanyRepository implements portsrepo.CompanyRepositoryFacade
var _ portsrepo.CompanyRepositoryFacade = (*PgxCompanyRepository)(nil)

func scanCompany(row pgx.Row) (models.Company, error) {
	var m models.Company
	err := row.Scan(&m.CompanyID, &m.ExternalCompanyID, &m.Name, &m.CreatedAt, &m.LastUpdatedAt)
	return m, err
}

func collectCompanies(rows pgx.Rows) ([]domain.Company, error) {
	defer rows.Close()
	var out []models.Company
	for rows.Next() {
		m, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan company row: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating company rows: %w", err)
	}
	return mapping.ToDomainCompanySlice(out), nil
}

// FindCompanyByID retrieves a company by its ID.
func (r *PgxCompanyRepository) FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE company_id = $1;`
	m, err := scanCompany(r.Pool.QueryRow(ctx, query, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find company by ID %s: %w", companyID, err)
	}
	company := mapping.ToDomainCompany(m)
	return &company, nil
}

// FindCompaniesByExternalIDs retrieves the companies with the given external ids.
func (r *PgxCompanyRepository) FindCompaniesByExternalIDs(ctx context.Context, externalIDs []int64) ([]domain.Company, error) {
	if len(externalIDs) == 0 {
		return []domain.Company{}, nil
	}
	query := `SELECT ` + companyColumns + ` FROM companies WHERE external_company_id = ANY($1) ORDER BY external_company_id;`
	rows, err := r.Pool.Query(ctx, query, externalIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query companies by external IDs: %w", err)
	}
	return collectCompanies(rows)
}

// ListCompanies retrieves every company ordered by external id.
func (r *PgxCompanyRepository) ListCompanies(ctx context.Context) ([]domain.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies ORDER BY external_company_id;`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	return collectCompanies(rows)
}

// UpsertCompany inserts the company unless its external id exists and returns the stored row.
// The no-op update makes RETURNING yield the existing row on conflict.
func (r *PgxCompanyRepository) UpsertCompany(ctx context.Context, company domain.Company) (*domain.Company, error) {
	m := mapping.ToModelCompany(company)
	query := `
		INSERT INTO companies (` + companyColumns + `)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (external_company_id) DO UPDATE SET external_company_id = EXCLUDED.external_company_id
		RETURNING ` + companyColumns + `;
	`
	stored, err := scanCompany(r.Pool.QueryRow(ctx, query,
		m.CompanyID, m.ExternalCompanyID, m.Name, m.CreatedAt, m.LastUpdatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: company with ID %s already exists", apperrors.ErrDuplicate, m.CompanyID)
		}
		return nil, fmt.Errorf("failed to save company %d: %w", m.ExternalCompanyID, err)
	}
	result := mapping.ToDomainCompany(stored)
	return &result, nil
}
