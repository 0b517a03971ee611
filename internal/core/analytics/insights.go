package analytics

import (
	"github.com/SscSPs/pnl_insights_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// tier is one row of an insight rule. A rule emits the first tier whose
// threshold the value exceeds, or its fallback.
type tier struct {
	above    decimal.Decimal
	severity domain.Severity
	text     string
}

type rule struct {
	category domain.InsightCategory
	value    func(domain.MetricsSnapshot) decimal.Decimal
	tiers    []tier
	fallback *tier
}

var insightRules = []rule{
	{
		category: domain.InsightProfitability,
		value:    profitableRatio,
		tiers: []tier{
			{decimal.RequireFromString("0.8"), domain.SeveritySuccess, "Strong profitability with 80%+ profitable months"},
			{decimal.RequireFromString("0.6"), domain.SeverityInfo, "Good profitability with 60%+ profitable months"},
		},
		fallback: &tier{severity: domain.SeverityError, text: "Profitability needs improvement"},
	},
	{
		category: domain.InsightMargin,
		value:    func(m domain.MetricsSnapshot) decimal.Decimal { return m.AverageMargin },
		tiers: []tier{
			{decimal.NewFromInt(20), domain.SeveritySuccess, "Excellent profit margins above 20%"},
			{decimal.NewFromInt(10), domain.SeverityInfo, "Healthy profit margins above 10%"},
			{decimal.Zero, domain.SeverityWarning, "Profit margins could be improved"},
		},
	},
	{
		category: domain.InsightRevenueGrowth,
		value:    func(m domain.MetricsSnapshot) decimal.Decimal { return m.RevenueGrowth },
		tiers: []tier{
			{decimal.NewFromInt(10), domain.SeveritySuccess, "Strong revenue growth trend"},
			{decimal.Zero, domain.SeverityInfo, "Positive revenue growth"},
		},
		fallback: &tier{severity: domain.SeverityError, text: "Revenue growth needs attention"},
	},
	{
		category: domain.InsightProfitGrowth,
		value:    func(m domain.MetricsSnapshot) decimal.Decimal { return m.ProfitGrowth },
		tiers: []tier{
			{decimal.NewFromInt(15), domain.SeveritySuccess, "Excellent profit growth trajectory"},
			{decimal.Zero, domain.SeverityInfo, "Positive profit growth"},
		},
		fallback: &tier{severity: domain.SeverityError, text: "Profit growth requires focus"},
	},
}

// GenerateInsights evaluates the insight rules against m, in the fixed order
// profitability, margin, revenue growth, profit growth. The margin rule emits
// nothing when the average margin is not positive.
func GenerateInsights(m domain.MetricsSnapshot) []domain.Insight {
	insights := make([]domain.Insight, 0, len(insightRules))
	for _, r := range insightRules {
		if t := r.evaluate(m); t != nil {
			insights = append(insights, domain.Insight{Category: r.category, Severity: t.severity, Text: t.text})
		}
	}
	return insights
}

func (r rule) evaluate(m domain.MetricsSnapshot) *tier {
	v := r.value(m)
	for i := range r.tiers {
		if v.GreaterThan(r.tiers[i].above) {
			return &r.tiers[i]
		}
	}
	return r.fallback
}

// profitableRatio is ProfitableMonths/TotalMonths, or zero without months.
func profitableRatio(m domain.MetricsSnapshot) decimal.Decimal {
	if m.TotalMonths == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(m.ProfitableMonths)).Div(decimal.NewFromInt(int64(m.TotalMonths)))
}
