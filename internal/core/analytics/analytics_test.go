package analytics

import (
	"testing"
	"time"

	"github.com/SscSPs/pnl_insights_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func month(id string, year int, m time.Month, gross, net string) domain.Report {
	start := time.Date(year, m, 1, 0, 0, 0, 0, time.UTC)
	return domain.Report{
		ReportID:         id,
		ExternalReportID: id,
		PeriodStart:      start,
		PeriodEnd:        start.AddDate(0, 1, -1),
		GrossProfit:      d(gross),
		NetProfit:        d(net),
	}
}

func scenarioA() []domain.Report {
	// deliberately out of order
	return []domain.Report{
		month("mar", 2024, time.March, "22000", "15800"),
		month("jan", 2024, time.January, "15000", "8500"),
		month("feb", 2024, time.February, "18000", "12200"),
	}
}

func TestComputeMetrics_ScenarioA(t *testing.T) {
	m := ComputeMetrics(scenarioA())

	assert.True(t, m.TotalRevenue.Equal(d("55000")), m.TotalRevenue.String())
	assert.True(t, m.TotalProfit.Equal(d("36500")), m.TotalProfit.String())
	assert.Equal(t, 3, m.ProfitableMonths)
	assert.Equal(t, 3, m.TotalMonths)
	assert.Equal(t, "65.42", m.AverageMargin.StringFixed(2))
	require.NotNil(t, m.BestMonth)
	require.NotNil(t, m.WorstMonth)
	assert.Equal(t, "mar", m.BestMonth.ReportID)
	assert.Equal(t, "jan", m.WorstMonth.ReportID)
	assert.True(t, m.RevenueGrowth.IsZero())
	assert.True(t, m.ProfitGrowth.IsZero())
}

func TestComputeMetrics_ScenarioB(t *testing.T) {
	m := ComputeMetrics(nil)

	assert.True(t, m.TotalRevenue.IsZero())
	assert.True(t, m.TotalProfit.IsZero())
	assert.True(t, m.AverageMargin.IsZero())
	assert.True(t, m.RevenueGrowth.IsZero())
	assert.True(t, m.ProfitGrowth.IsZero())
	assert.Zero(t, m.ProfitableMonths)
	assert.Zero(t, m.TotalMonths)
	assert.Nil(t, m.BestMonth)
	assert.Nil(t, m.WorstMonth)

	assert.Empty(t, BuildTrend(nil))

	insights := GenerateInsights(m)
	require.Len(t, insights, 3)
	assert.Equal(t, domain.Insight{Category: domain.InsightProfitability, Severity: domain.SeverityError, Text: "Profitability needs improvement"}, insights[0])
	assert.Equal(t, domain.Insight{Category: domain.InsightRevenueGrowth, Severity: domain.SeverityError, Text: "Revenue growth needs attention"}, insights[1])
	assert.Equal(t, domain.Insight{Category: domain.InsightProfitGrowth, Severity: domain.SeverityError, Text: "Profit growth requires focus"}, insights[2])
}

func TestComputeMetrics_DegenerateReportsIgnored(t *testing.T) {
	reports := append(scenarioA(), month("empty", 2024, time.April, "0", "0"), month("zero-early", 2023, time.December, "0.00", "0"))

	m := ComputeMetrics(reports)
	assert.Equal(t, 3, m.TotalMonths)
	assert.Equal(t, "mar", m.BestMonth.ReportID)
	assert.Equal(t, "jan", m.WorstMonth.ReportID)
	assert.Equal(t, "65.42", m.AverageMargin.StringFixed(2))

	for _, p := range BuildTrend(reports) {
		assert.NotEqual(t, "Apr 2024", p.Period)
		assert.NotEqual(t, "Dec 2023", p.Period)
	}
}

func TestComputeMetrics_NonPositiveGrossDoesNotChangeMargin(t *testing.T) {
	base := ComputeMetrics(scenarioA())

	withLoss := append(scenarioA(),
		month("loss", 2024, time.April, "-500", "-900"),
		month("zero-gross", 2024, time.May, "0", "300"))
	m := ComputeMetrics(withLoss)

	assert.True(t, base.AverageMargin.Equal(m.AverageMargin))
	assert.Equal(t, 5, m.TotalMonths)
	assert.Equal(t, 4, m.ProfitableMonths)
	assert.Equal(t, "loss", m.WorstMonth.ReportID)
}

func TestComputeMetrics_BestMonthTieEarliestWins(t *testing.T) {
	reports := []domain.Report{
		month("late", 2024, time.June, "100", "50"),
		month("early", 2024, time.February, "200", "50"),
		month("mid", 2024, time.April, "300", "10"),
	}
	m := ComputeMetrics(reports)
	assert.Equal(t, "early", m.BestMonth.ReportID)
	assert.Equal(t, "mid", m.WorstMonth.ReportID)

	ties := []domain.Report{
		month("b", 2024, time.May, "100", "-5"),
		month("a", 2024, time.March, "100", "-5"),
	}
	assert.Equal(t, "a", ComputeMetrics(ties).WorstMonth.ReportID)
}

func TestComputeMetrics_Growth(t *testing.T) {
	reports := []domain.Report{
		month("1", 2024, time.January, "100", "10"),
		month("2", 2024, time.February, "100", "10"),
		month("3", 2024, time.March, "100", "10"),
		month("4", 2024, time.April, "150", "20"),
		month("5", 2024, time.May, "150", "20"),
		month("6", 2024, time.June, "150", "20"),
	}
	m := ComputeMetrics(reports)
	assert.True(t, m.RevenueGrowth.Equal(d("50")), m.RevenueGrowth.String())
	assert.True(t, m.ProfitGrowth.Equal(d("100")), m.ProfitGrowth.String())

	// overlapping cohorts: first={1,2}, last={1,2}
	two := []domain.Report{month("1", 2024, time.January, "100", "10"), month("2", 2024, time.February, "300", "30")}
	assert.True(t, ComputeMetrics(two).RevenueGrowth.IsZero())

	// four reports: first={1,2,3}, last={2,3,4}
	four := []domain.Report{
		month("1", 2024, time.January, "100", "-10"),
		month("2", 2024, time.February, "200", "10"),
		month("3", 2024, time.March, "300", "10"),
		month("4", 2024, time.April, "400", "10"),
	}
	m = ComputeMetrics(four)
	assert.True(t, m.RevenueGrowth.Equal(d("50")), m.RevenueGrowth.String())
	// first cohort mean profit is 10/3 > 0, last is 10
	assert.Equal(t, "200.00", m.ProfitGrowth.StringFixed(2))

	single := []domain.Report{month("1", 2024, time.January, "100", "10")}
	assert.True(t, ComputeMetrics(single).RevenueGrowth.IsZero())

	negativeStart := []domain.Report{month("1", 2024, time.January, "100", "-10"), month("2", 2024, time.February, "100", "50")}
	assert.True(t, ComputeMetrics(negativeStart).ProfitGrowth.IsZero())
}

func TestComputeMetrics_DecimalExactness(t *testing.T) {
	var reports []domain.Report
	for i := 0; i < 10; i++ {
		reports = append(reports, month("r", 2020+i, time.January, "0.1", "0.2"))
	}
	m := ComputeMetrics(reports)
	assert.Equal(t, "1", m.TotalRevenue.String())
	assert.Equal(t, "2", m.TotalProfit.String())
}

func TestBuildTrend(t *testing.T) {
	reports := append(scenarioA(), month("loss", 2024, time.April, "-100", "-50"))

	trend := BuildTrend(reports)
	require.Len(t, trend, 4)
	assert.Equal(t, []string{"Jan 2024", "Feb 2024", "Mar 2024", "Apr 2024"},
		[]string{trend[0].Period, trend[1].Period, trend[2].Period, trend[3].Period})
	assert.Equal(t, "56.67", trend[0].Margin.StringFixed(2))
	assert.True(t, trend[3].Margin.IsZero())
	assert.True(t, trend[2].GrossProfit.Equal(d("22000")))

	assert.Equal(t, trend, BuildTrend(reports))
	assert.Equal(t, "mar", reports[0].ReportID, "input must not be reordered")
}

func TestGenerateInsights_Tiers(t *testing.T) {
	tests := []struct {
		name     string
		snapshot domain.MetricsSnapshot
		want     []domain.Insight
	}{
		{
			name: "all strong",
			snapshot: domain.MetricsSnapshot{
				ProfitableMonths: 9, TotalMonths: 10,
				AverageMargin: d("25"), RevenueGrowth: d("12"), ProfitGrowth: d("16"),
			},
			want: []domain.Insight{
				{Category: domain.InsightProfitability, Severity: domain.SeveritySuccess, Text: "Strong profitability with 80%+ profitable months"},
				{Category: domain.InsightMargin, Severity: domain.SeveritySuccess, Text: "Excellent profit margins above 20%"},
				{Category: domain.InsightRevenueGrowth, Severity: domain.SeveritySuccess, Text: "Strong revenue growth trend"},
				{Category: domain.InsightProfitGrowth, Severity: domain.SeveritySuccess, Text: "Excellent profit growth trajectory"},
			},
		},
		{
			name: "middle tiers",
			snapshot: domain.MetricsSnapshot{
				ProfitableMonths: 7, TotalMonths: 10,
				AverageMargin: d("15"), RevenueGrowth: d("10"), ProfitGrowth: d("15"),
			},
			want: []domain.Insight{
				{Category: domain.InsightProfitability, Severity: domain.SeverityInfo, Text: "Good profitability with 60%+ profitable months"},
				{Category: domain.InsightMargin, Severity: domain.SeverityInfo, Text: "Healthy profit margins above 10%"},
				{Category: domain.InsightRevenueGrowth, Severity: domain.SeverityInfo, Text: "Positive revenue growth"},
				{Category: domain.InsightProfitGrowth, Severity: domain.SeverityInfo, Text: "Positive profit growth"},
			},
		},
		{
			name: "boundaries fall through",
			snapshot: domain.MetricsSnapshot{
				ProfitableMonths: 8, TotalMonths: 10,
				AverageMargin: d("10"), RevenueGrowth: d("0"), ProfitGrowth: d("-3"),
			},
			want: []domain.Insight{
				{Category: domain.InsightProfitability, Severity: domain.SeverityInfo, Text: "Good profitability with 60%+ profitable months"},
				{Category: domain.InsightMargin, Severity: domain.SeverityWarning, Text: "Profit margins could be improved"},
				{Category: domain.InsightRevenueGrowth, Severity: domain.SeverityError, Text: "Revenue growth needs attention"},
				{Category: domain.InsightProfitGrowth, Severity: domain.SeverityError, Text: "Profit growth requires focus"},
			},
		},
		{
			name: "negative margin emits no margin insight",
			snapshot: domain.MetricsSnapshot{
				ProfitableMonths: 6, TotalMonths: 10,
				AverageMargin: d("-4"), RevenueGrowth: d("1"), ProfitGrowth: d("1"),
			},
			want: []domain.Insight{
				{Category: domain.InsightProfitability, Severity: domain.SeverityError, Text: "Profitability needs improvement"},
				{Category: domain.InsightRevenueGrowth, Severity: domain.SeverityInfo, Text: "Positive revenue growth"},
				{Category: domain.InsightProfitGrowth, Severity: domain.SeverityInfo, Text: "Positive profit growth"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateInsights(tt.snapshot)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, GenerateInsights(tt.snapshot))
		})
	}
}

func TestGroupLineItems(t *testing.T) {
	item := func(name, value string, category domain.Category) domain.LineItem {
		return domain.LineItem{Name: name, Value: d(value), Account: domain.AccountSummary{Name: name, Category: category}}
	}
	items := []domain.LineItem{
		item("Sales", "1000.10", domain.CategoryOperatingRevenue),
		item("Rent", "-300", domain.CategoryOperatingExpenses),
		item("Refunds", "-0.10", domain.CategoryOperatingRevenue),
		item("Nothing", "0", domain.CategoryOtherIncome),
		item("Legacy", "5", domain.Category("Something Else")),
		item("Wages", "-200.5", domain.CategoryOperatingExpenses),
	}

	groups := GroupLineItems(items)
	require.Len(t, groups, 3)
	assert.Equal(t, domain.CategoryOperatingRevenue, groups[0].Category)
	assert.Equal(t, "1000", groups[0].Subtotal.String())
	assert.Len(t, groups[0].Items, 2)
	assert.Equal(t, domain.CategoryOperatingExpenses, groups[1].Category)
	assert.Equal(t, "-500.5", groups[1].Subtotal.String())
	assert.Equal(t, domain.CategoryUncategorized, groups[2].Category)

	nonZero := decimal.Zero
	for _, it := range items {
		nonZero = nonZero.Add(it.Value)
	}
	assert.True(t, SumGroups(groups).Equal(nonZero))

	detail := BuildReportDetail(domain.Report{ReportID: "r"}, items)
	assert.Len(t, detail.LineItems, 6)
	assert.True(t, detail.Total.Equal(d("504.5")))

	empty := BuildReportDetail(domain.Report{}, nil)
	assert.NotNil(t, empty.LineItems)
	assert.NotNil(t, empty.Groups)
	assert.True(t, empty.Total.IsZero())
}

func TestBuildHighlights(t *testing.T) {
	m := ComputeMetrics(scenarioA())
	highlights := BuildHighlights(m, "USD")

	assert.Equal(t, []domain.Highlight{
		{Label: "3/3 Profitable Months", Severity: domain.SeveritySuccess},
		{Label: "65.4% Avg Margin", Severity: domain.SeveritySuccess},
		{Label: "Best: Mar 2024", Severity: domain.SeveritySuccess},
		{Label: "Best Month (Mar 2024): $15,800.00", Severity: domain.SeveritySuccess},
		{Label: "Worst Month (Jan 2024): $8,500.00", Severity: domain.SeverityError},
	}, highlights)

	empty := BuildHighlights(ComputeMetrics(nil), "USD")
	assert.Equal(t, []domain.Highlight{
		{Label: "0/0 Profitable Months", Severity: domain.SeverityWarning},
		{Label: "0.0% Avg Margin", Severity: domain.SeverityError},
	}, empty)

	mid := BuildHighlights(domain.MetricsSnapshot{ProfitableMonths: 7, TotalMonths: 10, AverageMargin: d("7.25")}, "USD")
	assert.Equal(t, domain.SeverityWarning, mid[0].Severity)
	assert.Equal(t, "7.3% Avg Margin", mid[1].Label)
	assert.Equal(t, domain.SeverityWarning, mid[1].Severity)
}

func TestBuildDashboard(t *testing.T) {
	dash := BuildDashboard(scenarioA(), "USD")
	assert.Equal(t, 3, dash.Metrics.TotalMonths)
	assert.Len(t, dash.Trend, 3)
	assert.Len(t, dash.Insights, 4)
	assert.NotEmpty(t, dash.Highlights)
}
