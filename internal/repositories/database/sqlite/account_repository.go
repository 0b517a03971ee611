package sqlite

import (
	"context"
	"fmt"

	"github.com/SscSPs/pnl_insights_app/internal/apperrors"
	"github.com/SscSPs/pnl_insights_app/internal/core/domain"
	portsrepo "github.com/SscSPs/pnl_insights_app/internal/core/ports/repositories"
	"github.com/SscSPs/pnl_insights_app/internal/models"
	"github.com/SscSPs/pnl_insights_app/internal/utils/mapping"
)

const accountColumns = `account_id, company_id, external_account_id, name, category, created_at, last_updated_at`

type accountRepository struct {
	conn *Connection
}

// Ensure accountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*accountRepository)(nil)

func scanAccount(row rowScanner) (models.Account, error) {
	var (
		m                models.Account
		created, updated string
	)
	if err := row.Scan(&m.AccountID, &m.CompanyID, &m.ExternalAccountID, &m.Name, &m.Category, &created, &updated); err != nil {
		return m, err
	}
	var err error
	if m.CreatedAt, err = parseTime(created); err != nil {
		return m, err
	}
	m.LastUpdatedAt, err = parseTime(updated)
	return m, err
}

func (r *accountRepository) FindAccountsByCompanyIDs(ctx context.Context, companyIDs []string) ([]domain.Account, error) {
	if len(companyIDs) == 0 {
		return []domain.Account{}, nil
	}
	args := make([]any, len(companyIDs))
	for i, id := range companyIDs {
		args[i] = id
	}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE company_id IN (` +
		placeholders(len(args)) + `) ORDER BY company_id, external_account_id`
	rows, err := r.conn.db.QueryContext(ctx, query, args...)
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

func (r *accountRepository) UpsertAccount(ctx context.Context, account domain.Account, overwrite bool) (*domain.Account, error) {
	m := mapping.ToModelAccount(account)
	onConflict := `DO UPDATE SET external_account_id = excluded.external_account_id`
	if overwrite {
		onConflict = `DO UPDATE SET name = excluded.name, category = excluded.category, last_updated_at = excluded.last_updated_at`
	}
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (company_id, external_account_id) ` + onConflict + `
		RETURNING ` + accountColumns
	stored, err := scanAccount(r.conn.db.QueryRowContext(ctx, query,
		m.AccountID, m.CompanyID, m.ExternalAccountID, m.Name, m.Category,
		formatTime(m.CreatedAt), formatTime(m.LastUpdatedAt)))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: account with ID %s already exists", apperrors.ErrDuplicate, m.AccountID)
		}
		return nil, fmt.Errorf("failed to save account %s: %w", m.ExternalAccountID, err)
	}
	result := mapping.ToDomainAccount(stored)
	return &result, nil
}
