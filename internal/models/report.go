package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Report represents a row of the reports table.
type Report struct {
	ReportID         string          `db:"report_id"`
	CompanyID        string          `db:"company_id"`
	ExternalReportID string          `db:"external_report_id"`
	PeriodStart      time.Time       `db:"period_start"`
	PeriodEnd        time.Time       `db:"period_end"`
	GrossProfit      decimal.Decimal `db:"gross_profit"`
	NetProfit        decimal.Decimal `db:"net_profit"`
	AuditFields
}

// LineItem represents a row of the line_items table. The Account* fields are
// filled from the joined accounts row on read.
type LineItem struct {
	LineItemID string          `db:"line_item_id"`
	ReportID   string          `db:"report_id"`
	AccountID  string          `db:"account_id"`
	Name       string          `db:"name"`
	Value      decimal.Decimal `db:"value"`
	Position   int             `db:"position"`

	ExternalAccountID string `db:"external_account_id"`
	AccountName       string `db:"account_name"`
	AccountCategory   string `db:"account_category"`
}
