package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/pnl_insights_app/internal/apperrors"
	"github.com/SscSPs/pnl_insights_app/internal/core/domain"
	portsrepo "github.com/SscSPs/pnl_insights_app/internal/core/ports/repositories"
	"github.com/SscSPs/pnl_insights_app/internal/models"
	"github.com/SscSPs/pnl_insights_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const accountColumns = `account_id, company_id, external_account_id, name, category, created_at, last_updated_at`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func scanAccount(row pgx.Row) (models.Account, error) {
	var m models.Account
	err := row.Scan(&m.AccountID, &m.CompanyID, &m.ExternalAccountID, &m.Name, &m.Category, &m.CreatedAt, &m.LastUpdatedAt)
	return m, err
}

// FindAccountsByCompanyIDs retrieves every account of the given companies.
func (r *PgxAccountRepository) FindAccountsByCompanyIDs(ctx context.Context, companyIDs []string) ([]domain.Account, error) {
	if len(companyIDs) == 0 {
		return []domain.Account{}, nil
	}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE company_id = ANY($1) ORDER BY company_id, external_account_id;`
	rows, err := r.Pool.Query(ctx, query, companyIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts by company IDs: %w", err)
	}
	defer rows.Close()

	var out []models.Account
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return mapping.ToDomainAccountSlice(out), nil
}

// UpsertAccount inserts the account unless (company_id, external_account_id) exists.
// With overwrite the stored name and category are replaced.
func (r *PgxAccountRepository) UpsertAccount(ctx context.Context, account domain.Account, overwrite bool) (*domain.Account, error) {
	m := mapping.ToModelAccount(account)
	onConflict := `DO UPDATE SET external_account_id = EXCLUDED.external_account_id`
	if overwrite {
		onConflict = `DO UPDATE SET name = EXCLUDED.name, category = EXCLUDED.category, last_updated_at = EXCLUDED.last_updated_at`
	}
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (company_id, external_account_id) ` + onConflict + `
		RETURNING ` + accountColumns + `;
	`
	stored, err := scanAccount(r.Pool.QueryRow(ctx, query,
		m.AccountID, m.CompanyID, m.ExternalAccountID, m.Name, m.Category, m.CreatedAt, m.LastUpdatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: account with ID %s already exists", apperrors.ErrDuplicate, m.AccountID)
		}
		return nil, fmt.Errorf("failed to save account %s: %w", m.ExternalAccountID, err)
	}
	result := mapping.ToDomainAccount(stored)
	return &result, nil
}
