package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/pnl_insights_app/internal/apperrors"
	"github.com/SscSPs/pnl_insights_app/internal/core/domain"
	portsrepo "github.com/SscSPs/pnl_insights_app/internal/core/ports/repositories"
	"github.com/SscSPs/pnl_insights_app/internal/models"
	"github.com/SscSPs/pnl_insights_app/internal/utils/mapping"
	"github.com/SscSPs/pnl_insights_app/internal/utils/pagination"
)

const reportColumns = `report_id, company_id, external_report_id, period_start, period_end, gross_profit, net_profit, created_at, last_updated_at`

type reportRepository struct {
	conn *Connection
}

// Ensure reportRepository implements portsrepo.ReportRepositoryFacade
var _ portsrepo.ReportRepositoryFacade = (*reportRepository)(nil)

func scanReport(row rowScanner) (models.Report, error) {
	var (
		m                            models.Report
		start, end, created, updated string
	)
	if err := row.Scan(
		&m.ReportID,
		&m.CompanyID,
		&m.ExternalReportID,
		&start,
		&end,
		&m.GrossProfit,
		&m.NetProfit,
		&created,
		&updated,
	); err != nil {
		return m, err
	}
	for _, f := range []struct {
		dst *time.Time
		src string
	}{
		{&m.PeriodStart, start},
		{&m.PeriodEnd, end},
		{&m.CreatedAt, created},
		{&m.LastUpdatedAt, updated},
	} {
		t, err := parseTime(f.src)
		if err != nil {
			return m, err
		}
		*f.dst = t
	}
	return m, nil
}

func (r *reportRepository) queryReports(ctx context.Context, query string, args ...any) ([]domain.Report, error) {
	rows, err := r.conn.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
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
	return mapping.ToDomainReportSlice(out), nil
}

func (r *reportRepository) FindReportByID(ctx context.Context, reportID string) (*domain.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE report_id = ?`
	m, err := scanReport(r.conn.db.QueryRowContext(ctx, query, reportID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find report by ID %s: %w", reportID, err)
	}
	report := mapping.ToDomainReport(m)
	return &report, nil
}

func (r *reportRepository) ListReports(ctx context.Context, limit int, nextToken *string) ([]domain.Report, *string, error) {
	limit = pagination.NormalizeLimit(limit)
	query := `SELECT ` + reportColumns + ` FROM reports`
	var args []any
	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", err)
		}
		query += ` WHERE (period_start, report_id) < (?, ?)`
		args = append(args, formatTime(cursor.PeriodStart), cursor.ReportID)
	}
	query += ` ORDER BY period_start DESC, report_id DESC LIMIT ?`
	args = append(args, limit+1)

	fetched, err := r.queryReports(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}
	page, next := pagination.NextToken(fetched, limit,
		func(rep domain.Report) (time.Time, string) { return rep.PeriodStart, rep.ReportID })
	return page, next, nil
}

func (r *reportRepository) ListReportsByCompany(ctx context.Context, companyID string) ([]domain.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE company_id = ? ORDER BY period_start, report_id`
	return r.queryReports(ctx, query, companyID)
}

func (r *reportRepository) ListAllReports(ctx context.Context) ([]domain.Report, error) {
	return r.queryReports(ctx, `SELECT `+reportColumns+` FROM reports ORDER BY period_start, report_id`)
}

func (r *reportRepository) FindLineItemsByReportID(ctx context.Context, reportID string) ([]domain.LineItem, error) {
	query := `
		SELECT li.line_item_id, li.report_id, li.account_id, li.name, li.value, li.position,
		       a.external_account_id, a.name, a.category
		FROM line_items li
		JOIN accounts a ON a.account_id = li.account_id
		WHERE li.report_id = ?
		ORDER BY li.position`
	rows, err := r.conn.db.QueryContext(ctx, query, reportID)
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

func (r *reportRepository) SaveReport(ctx context.Context, report domain.Report, items []domain.LineItem) (*domain.Report, error) {
	m := mapping.ToModelReport(report)
	var stored models.Report

	err := r.conn.Transaction(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO reports (` + reportColumns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (company_id, external_report_id) DO UPDATE SET
				period_start = excluded.period_start,
				period_end = excluded.period_end,
				gross_profit = excluded.gross_profit,
				net_profit = excluded.net_profit,
				last_updated_at = excluded.last_updated_at
			RETURNING ` + reportColumns
		var err error
		stored, err = scanReport(tx.QueryRowContext(ctx, query,
			m.ReportID,
			m.CompanyID,
			m.ExternalReportID,
			formatTime(m.PeriodStart),
			formatTime(m.PeriodEnd),
			m.GrossProfit.String(),
			m.NetProfit.String(),
			formatTime(m.CreatedAt),
			formatTime(m.LastUpdatedAt),
		))
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: report with ID %s already exists", apperrors.ErrDuplicate, m.ReportID)
			}
			return fmt.Errorf("failed to upsert report %s: %w", m.ExternalReportID, err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM line_items WHERE report_id = ?`, stored.ReportID); err != nil {
			return fmt.Errorf("failed to clear line items of report %s: %w", stored.ReportID, err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO line_items (line_item_id, report_id, account_id, name, value, position)
			VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare line item insert: %w", err)
		}
		defer stmt.Close()
		for _, item := range items {
			mi := mapping.ToModelLineItem(item)
			if _, err := stmt.ExecContext(ctx, mi.LineItemID, stored.ReportID, mi.AccountID, mi.Name, mi.Value.String(), mi.Position); err != nil {
				return fmt.Errorf("failed to insert line item %s: %w", mi.LineItemID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	result := mapping.ToDomainReport(stored)
	return &result, nil
}
