package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/SscSPs/pnl_insights_app/internal/apperrors"
	"github.com/SscSPs/pnl_insights_app/internal/core/domain"
	portsrepo "github.com/SscSPs/pnl_insights_app/internal/core/ports/repositories"
	"github.com/SscSPs/pnl_insights_app/internal/models"
	"github.com/SscSPs/pnl_insights_app/internal/utils/mapping"
	"github.com/SscSPs/pnl_insights_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const reportColumns = `report_id, company_id, external_report_id, period_start, period_end, gross_profit, net_profit, created_at, last_updated_at`

type PgxReportRepository struct {
	BaseRepository
}

// newPgxReportRepository creates a new repository for reports and their line items.
func newPgxReportRepository(pool *pgxpool.Pool) portsrepo.ReportRepositoryFacade {
	return &PgxReportRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxReportRepository implements portsrepo.ReportRepositoryFacade
var _ portsrepo.ReportRepositoryFacade = (*PgxReportRepository)(nil)

func scanReport(row pgx.Row) (models.Report, error) {
	var m models.Report
	err := row.Scan(
		&m.ReportID,
		&m.CompanyID,
		&m.ExternalReportID,
		&m.PeriodStart,
		&m.PeriodEnd,
		&m.GrossProfit,
		&m.NetProfit,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	return m, err
}

func collectReports(rows pgx.Rows) ([]models.Report, error) {
	defer rows.Close()
	var out []models.Report
	for rows.Next() {
		m, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating report rows: %w", err)
	}
	return out, nil
}

// FindReportByID retrieves a report by its ID.
func (r *PgxReportRepository) FindReportByID(ctx context.Context, reportID string) (*domain.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE report_id = $1;`
	m, err := scanReport(r.Pool.QueryRow(ctx, query, reportID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find report by ID %s: %w", reportID, err)
	}
	report := mapping.ToDomainReport(m)
	return &report, nil
}

// ListReports retrieves a page of reports ordered by period_start DESC, report_id DESC.
func (r *PgxReportRepository) ListReports(ctx context.Context, limit int, nextToken *string) ([]domain.Report, *string, error) {
	limit = pagination.NormalizeLimit(limit)
	// We fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + reportColumns + ` FROM reports`
	orderByClause := `ORDER BY period_start DESC, report_id DESC`
	var args []interface{}

	query := baseQuery
	if nextToken != nil && *nextToken != "" {
		cursor, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		query += ` WHERE (period_start, report_id) < ($1, $2)`
		args = append(args, cursor.PeriodStart, cursor.ReportID)
	}
	args = append(args, fetchLimit)
	query += " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)) + ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query reports", err)
	}
	fetched, err := collectReports(rows)
	if err != nil {
		return nil, nil, err
	}

	page, next := pagination.NextToken(mapping.ToDomainReportSlice(fetched), limit,
		func(rep domain.Report) (time.Time, string) { return rep.PeriodStart, rep.ReportID })
	return page, next, nil
}

// ListReportsByCompany retrieves every report of a company ordered by period start.
func (r *PgxReportRepository) ListReportsByCompany(ctx context.Context, companyID string) ([]domain.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE company_id = $1 ORDER BY period_start, report_id;`
	rows, err := r.Pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports of company %s: %w", companyID, err)
	}
	fetched, err := collectReports(rows)
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainReportSlice(fetched), nil
}

// ListAllReports retrieves every report ordered by period start.
func (r *PgxReportRepository) ListAllReports(ctx context.Context) ([]domain.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports ORDER BY period_start, report_id;`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	fetched, err := collectReports(rows)
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainReportSlice(fetched), nil
}

// FindLineItemsByReportID retrieves the line items of a report with their account details.
func (r *PgxReportRepository) FindLineItemsByReportID(ctx context.Context, reportID string) ([]domain.LineItem, error) {
	query := `
		SELECT li.line_item_id, li.report_id, li.account_id, li.name, li.value, li.position,
		       a.external_account_id, a.name, a.category
		FROM line_items li
		JOIN accounts a ON a.account_id = li.account_id
		WHERE li.report_id = $1
		ORDER BY li.position;
	`
	rows, err := r.Pool.Query(ctx, query, reportID)
	if err != nil {
		return nil, fmt.Errorf("failed to query line items of report %s: %w", reportID, err)
	}
	defer rows.Close()

	items := []domain.LineItem{}
	for rows.Next() {
		var m models.LineItem
		if err := rows.Scan(
			&m.LineItemID,
			&m.ReportID,
			&m.AccountID,
			&m.Name,
			&m.Value,
			&m.Position,
			&m.ExternalAccountID,
			&m.AccountName,
			&m.AccountCategory,
		); err != nil {
			return nil, fmt.Errorf("failed to scan line item row: %w", err)
		}
		items = append(items, mapping.ToDomainLineItem(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating line item rows: %w", err)
	}
	return items, nil
}

// SaveReport upserts the report and replaces its line items in a single transaction.
func (r *PgxReportRepository) SaveReport(ctx context.Context, report domain.Report, items []domain.LineItem) (*domain.Report, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	// Defer rollback in case of error
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelReport(report)
	reportQuery := `
		INSERT INTO reports (` + reportColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (company_id, external_report_id) DO UPDATE SET
			period_start = EXCLUDED.period_start,
			period_end = EXCLUDED.period_end,
			gross_profit = EXCLUDED.gross_profit,
			net_profit = EXCLUDED.net_profit,
			last_updated_at = EXCLUDED.last_updated_at
		RETURNING ` + reportColumns + `;
	`
	stored, err := scanReport(tx.QueryRow(ctx, reportQuery,
		m.ReportID,
		m.CompanyID,
		m.ExternalReportID,
		m.PeriodStart,
		m.PeriodEnd,
		m.GrossProfit,
		m.NetProfit,
		m.CreatedAt,
		m.LastUpdatedAt,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: report with ID %s already exists", apperrors.ErrDuplicate, m.ReportID)
		}
		return nil, apperrors.NewAppError(500, "failed to upsert report "+m.ExternalReportID, err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM line_items WHERE report_id = $1;`, stored.ReportID); err != nil {
		return nil, apperrors.NewAppError(500, "failed to clear line items of report "+stored.ReportID, err)
	}

	if len(items) > 0 {
		batch := &pgx.Batch{}
		itemQuery := `
			INSERT INTO line_items (line_item_id, report_id, account_id, name, value, position)
			VALUES ($1, $2, $3, $4, $5, $6);
		`
		for _, item := range items {
			mi := mapping.ToModelLineItem(item)
			batch.Queue(itemQuery, mi.LineItemID, stored.ReportID, mi.AccountID, mi.Name, mi.Value, mi.Position)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return nil, apperrors.NewAppError(500, "failed to insert line items of report "+stored.ReportID, err)
		}
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	result := mapping.ToDomainReport(stored)
	return &result, nil
}
