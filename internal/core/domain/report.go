package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Report is the normalized financial summary of one company for one period.
// GrossProfit and NetProfit are the values supplied by the source, they are
// never recomputed from line items.
type Report struct {
	ReportID         string          `json:"reportID"`         // Primary Key (UUID)
	CompanyID        string          `json:"companyID"`        // FK -> companies.company_id
	ExternalReportID string          `json:"externalReportID"` // Source period id, unique per company
	PeriodStart      time.Time       `json:"periodStart"`
	PeriodEnd        time.Time       `json:"periodEnd"`
	GrossProfit      decimal.Decimal `json:"grossProfit"`
	NetProfit        decimal.Decimal `json:"netProfit"`
	AuditFields
}

// IsDegenerate reports whether the report carries no data (zero gross and net profit).
// Degenerate reports are excluded from every analytic.
func (r Report) IsDegenerate() bool {
	return r.GrossProfit.IsZero() && r.NetProfit.IsZero()
}

// Margin returns NetProfit / GrossProfit * 100, or zero when GrossProfit is not positive.
func (r Report) Margin() decimal.Decimal {
	if !r.GrossProfit.IsPositive() {
		return decimal.Zero
	}
	return r.NetProfit.Div(r.GrossProfit).Mul(hundred)
}

// AccountSummary is the part of an Account carried by a LineItem read view.
type AccountSummary struct {
	ExternalAccountID string   `json:"externalAccountID"`
	Name              string   `json:"name"`
	Category          Category `json:"category"`
}

// LineItem is a single monetary entry of a Report tied to an Account.
type LineItem struct {
	LineItemID string          `json:"lineItemID"` // Primary Key (UUID)
	ReportID   string          `json:"reportID"`   // FK -> reports.report_id (cascade)
	AccountID  string          `json:"accountID"`  // FK -> accounts.account_id
	Name       string          `json:"name"`
	Value      decimal.Decimal `json:"value"`    // Signed amount
	Position   int             `json:"position"` // Order within the source payload
	Account    AccountSummary  `json:"account"`  // Populated on read
}

// ReportDetail is a report with its line items and their grouping by category.
type ReportDetail struct {
	Report    Report          `json:"report"`
	LineItems []LineItem      `json:"lineItems"`
	Groups    []CategoryGroup `json:"groups"`
	Total     decimal.Decimal `json:"total"`
}
