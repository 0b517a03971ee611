package analytics

import (
	"fmt"

	"github.com/SscSPs/pnl_insights_app/internal/core/domain"
	"github.com/SscSPs/pnl_insights_app/internal/utils"
	"github.com/shopspring/decimal"
)

var (
	highlightRatio     = decimal.RequireFromString("0.7")
	highlightMarginOK  = decimal.NewFromInt(15)
	highlightMarginLow = decimal.NewFromInt(5)
)

// BuildHighlights returns the headline figures of a snapshot. Amounts are
// formatted in currency.
func BuildHighlights(m domain.MetricsSnapshot, currency string) []domain.Highlight {
	ratioSeverity := domain.SeverityWarning
	if profitableRatio(m).GreaterThan(highlightRatio) {
		ratioSeverity = domain.SeveritySuccess
	}

	marginSeverity := domain.SeverityError
	switch {
	case m.AverageMargin.GreaterThan(highlightMarginOK):
		marginSeverity = domain.SeveritySuccess
	case m.AverageMargin.GreaterThan(highlightMarginLow):
		marginSeverity = domain.SeverityWarning
	}

	highlights := []domain.Highlight{
		{Label: fmt.Sprintf("%d/%d Profitable Months", m.ProfitableMonths, m.TotalMonths), Severity: ratioSeverity},
		{Label: utils.FormatWithPrecision(m.AverageMargin, 1) + "% Avg Margin", Severity: marginSeverity},
	}

	if m.BestMonth != nil {
		period := utils.FormatPeriod(m.BestMonth.PeriodStart, m.BestMonth.PeriodEnd)
		highlights = append(highlights,
			domain.Highlight{Label: "Best: " + period, Severity: domain.SeveritySuccess},
			domain.Highlight{
				Label:    fmt.Sprintf("Best Month (%s): %s", period, utils.FormatMoney(m.BestMonth.NetProfit, currency)),
				Severity: domain.SeveritySuccess,
			})
	}
	if m.WorstMonth != nil {
		period := utils.FormatPeriod(m.WorstMonth.PeriodStart, m.WorstMonth.PeriodEnd)
		highlights = append(highlights, domain.Highlight{
			Label:    fmt.Sprintf("Worst Month (%s): %s", period, utils.FormatMoney(m.WorstMonth.NetProfit, currency)),
			Severity: domain.SeverityError,
		})
	}
	return highlights
}

// BuildDashboard computes every derived view of reports.
func BuildDashboard(reports []domain.Report, currency string) domain.Dashboard {
	metrics := ComputeMetrics(reports)
	return domain.Dashboard{
		Metrics:    metrics,
		Trend:      BuildTrend(reports),
		Insights:   GenerateInsights(metrics),
		Highlights: BuildHighlights(metrics, currency),
	}
}
