package domain

import "github.com/shopspring/decimal"

// CategoryGroup is the view of a report's non-zero line items sharing a category.
type CategoryGroup struct {
	Category Category        `json:"category"`
	Items    []LineItem      `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// MetricsSnapshot holds the aggregate statistics of a collection of reports.
// It is computed on demand and never stored.
type MetricsSnapshot struct {
	TotalRevenue     decimal.Decimal `json:"totalRevenue"`
	TotalProfit      decimal.Decimal `json:"totalProfit"`
	AverageMargin    decimal.Decimal `json:"averageMargin"`
	ProfitableMonths int             `json:"profitableMonths"`
	TotalMonths      int             `json:"totalMonths"`
	BestMonth        *Report         `json:"bestMonth"`
	WorstMonth       *Report         `json:"worstMonth"`
	RevenueGrowth    decimal.Decimal `json:"revenueGrowth"`
	ProfitGrowth     decimal.Decimal `json:"profitGrowth"`
}

// TrendPoint is one period of the chronological profit series.
type TrendPoint struct {
	Period      string          `json:"period"`
	GrossProfit decimal.Decimal `json:"grossProfit"`
	NetProfit   decimal.Decimal `json:"netProfit"`
	Margin      decimal.Decimal `json:"margin"`
}

// Severity classifies an insight or highlight for presentation.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// InsightCategory names the rule that produced an insight.
type InsightCategory string

const (
	InsightProfitability InsightCategory = "profitability"
	InsightMargin        InsightCategory = "margin"
	InsightRevenueGrowth InsightCategory = "revenue_growth"
	InsightProfitGrowth  InsightCategory = "profit_growth"
)

// Insight is a textual observation derived from a MetricsSnapshot.
type Insight struct {
	Category InsightCategory `json:"category"`
	Severity Severity        `json:"severity"`
	Text     string          `json:"text"`
}

// Highlight is a short labelled figure shown next to the insights.
type Highlight struct {
	Label    string   `json:"label"`
	Severity Severity `json:"severity"`
}

// Dashboard bundles every derived view of a report collection.
type Dashboard struct {
	Metrics    MetricsSnapshot `json:"metrics"`
	Trend      []TrendPoint    `json:"trend"`
	Insights   []Insight       `json:"insights"`
	Highlights []Highlight     `json:"highlights"`
}

// IngestionResult is the outcome of a batch ingestion.
type IngestionResult struct {
	Total     int      `json:"total"`
	Processed int      `json:"processed"`
	Errors    []string `json:"errors"`
	Warnings  []string `json:"warnings"`
}
