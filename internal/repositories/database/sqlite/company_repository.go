package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/SscSPs/pnl_insights_app/internal/apperrors"
	"github.com/SscSPs/pnl_insights_app/internal/core/domain"
	portsrepo "github.com/SscSPs/pnl_insights_app/internal/core/ports/repositories"
	"github.com/SscSPs/pnl_insights_app/internal/models"
	"github.com/SscSPs/pnl_insights_app/internal/utils/mapping"
)

const companyColumns = `company_id, external_company_id, name, created_at, last_updated_at`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

type companyRepository struct {
	conn *Connection
}

// Ensure companyRepository implements portsrepo.CompanyRepositoryFacade
var _ portsrepo.CompanyRepositoryFacade = (*companyRepository)(nil)

func scanCompany(row rowScanner) (models.Company, error) {
	var (
		m                models.Company
		created, updated string
	)
	if err := row.Scan(&m.CompanyID, &m.ExternalCompanyID, &m.Name, &created, &updated); err != nil {
		return m, err
	}
	var err error
	if m.CreatedAt, err = parseTime(created); err != nil {
		return m, err
	}
	m.LastUpdatedAt, err = parseTime(updated)
	return m, err
}

func (r *companyRepository) queryCompanies(ctx context.Context, query string, args ...any) ([]domain.Company, error) {
	rows, err := r.conn.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query companies: %w", err)
	}
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

func (r *companyRepository) FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE company_id = ?`
	m, err := scanCompany(r.conn.db.QueryRowContext(ctx, query, companyID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find company by ID %s: %w", companyID, err)
	}
	company := mapping.ToDomainCompany(m)
	return &company, nil
}

func (r *companyRepository) FindCompaniesByExternalIDs(ctx context.Context, externalIDs []int64) ([]domain.Company, error) {
	if len(externalIDs) == 0 {
		return []domain.Company{}, nil
	}
	args := make([]any, len(externalIDs))
	for i, id := range externalIDs {
		args[i] = id
	}
	query := `SELECT ` + companyColumns + ` FROM companies WHERE external_company_id IN (` +
		placeholders(len(args)) + `) ORDER BY external_company_id`
	return r.queryCompanies(ctx, query, args...)
}

func (r *companyRepository) ListCompanies(ctx context.Context) ([]domain.Company, error) {
	return r.queryCompanies(ctx, `SELECT `+companyColumns+` FROM companies ORDER BY external_company_id`)
}

func (r *companyRepository) UpsertCompany(ctx context.Context, company domain.Company) (*domain.Company, error) {
	m := mapping.ToModelCompany(company)
	query := `
		INSERT INTO companies (` + companyColumns + `)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (external_company_id) DO UPDATE SET external_company_id = excluded.external_company_id
		RETURNING ` + companyColumns
	stored, err := scanCompany(r.conn.db.QueryRowContext(ctx, query,
		m.CompanyID, m.ExternalCompanyID, m.Name, formatTime(m.CreatedAt), formatTime(m.LastUpdatedAt)))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: company with ID %s already exists", apperrors.ErrDuplicate, m.CompanyID)
		}
		return nil, fmt.Errorf("failed to save company %d: %w", m.ExternalCompanyID, err)
	}
	result := mapping.ToDomainCompany(stored)
	return &result, nil
}
