package renderer

import (
	"testing"
	"time"

	"github.com/SscSPs/pnl_insights_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDashboardMarkdown(t *testing.T) {
	best := domain.Report{
		PeriodStart: time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC),
		NetProfit:   decimal.NewFromInt(300),
	}
	d := &domain.Dashboard{
		Metrics: domain.MetricsSnapshot{
			TotalRevenue:     decimal.NewFromInt(22000),
			TotalProfit:      decimal.NewFromInt(500),
			AverageMargin:    decimal.RequireFromString("12.345"),
			ProfitableMonths: 2,
			TotalMonths:      3,
			BestMonth:        &best,
		},
		Trend: []domain.TrendPoint{
			{Period: "Feb 2024", GrossProfit: decimal.NewFromInt(1000), NetProfit: decimal.NewFromInt(300), Margin: decimal.NewFromInt(30)},
		},
		Insights:   []domain.Insight{{Severity: domain.SeveritySuccess, Text: "Strong margin"}},
		Highlights: []domain.Highlight{{Label: "2/3 Profitable Months", Severity: domain.SeverityInfo}},
	}

	out := DashboardMarkdown("Company 1", d, "USD")

	assert.Contains(t, out, "# Company 1")
	assert.Contains(t, out, "**2/3 Profitable Months**")
	assert.Contains(t, out, "| Total Revenue | $22,000.00 |")
	assert.Contains(t, out, "| Average Margin | 12.3% |")
	assert.Contains(t, out, "| Best Month | Feb 2024 ($300.00) |")
	assert.NotContains(t, out, "Worst Month")
	assert.Contains(t, out, "| Feb 2024 | $1,000.00 | $300.00 | 30.0% |")
	assert.Contains(t, out, "- ✅ Strong margin")
	assert.NotContains(t, out, "error ")
}

func TestDashboardMarkdown_Empty(t *testing.T) {
	out := DashboardMarkdown("Portfolio", &domain.Dashboard{}, "EUR")

	assert.Contains(t, out, "_No reports yet._")
	assert.Contains(t, out, "| Profitable Months | 0/0 |")
}

func TestIngestionMarkdown(t *testing.T) {
	out := IngestionMarkdown("batch.json", &domain.IngestionResult{
		Total:     2,
		Processed: 1,
		Errors:    []string{"entry 2: period_start is after period_end"},
	})

	assert.Contains(t, out, "# Ingestion of batch.json")
	assert.Contains(t, out, "Processed **1** of **2** reports.")
	assert.Contains(t, out, "- entry 2: period_start is after period_end")
	assert.NotContains(t, out, "## Warnings")
}

func TestCompaniesMarkdown(t *testing.T) {
	out := CompaniesMarkdown([]domain.Company{{CompanyID: "c-1", ExternalCompanyID: 42, Name: "Company 42"}})
	assert.Contains(t, out, "| c-1 | 42 | Company 42 |")

	assert.Contains(t, CompaniesMarkdown(nil), "_No companies yet._")
}
