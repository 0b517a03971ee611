package analytics

import (
	"sort"

	"github.com/SscSPs/pnl_insights_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// growthCohortSize is the number of periods averaged at each end of the series.
const growthCohortSize = 3

var hundred = decimal.NewFromInt(100)

// validReports drops degenerate reports and returns the rest sorted by
// PeriodStart. The input slice is not modified.
func validReports(reports []domain.Report) []domain.Report {
	valid := make([]domain.Report, 0, len(reports))
	for _, r := range reports {
		if !r.IsDegenerate() {
			valid = append(valid, r)
		}
	}
	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].PeriodStart.Before(valid[j].PeriodStart)
	})
	return valid
}

// ComputeMetrics aggregates a collection of reports. Degenerate reports are
// ignored. An empty collection yields a zero snapshot with no best or worst month.
func ComputeMetrics(reports []domain.Report) domain.MetricsSnapshot {
	valid := validReports(reports)
	snapshot := domain.MetricsSnapshot{
		TotalRevenue:  decimal.Zero,
		TotalProfit:   decimal.Zero,
		AverageMargin: decimal.Zero,
		RevenueGrowth: decimal.Zero,
		ProfitGrowth:  decimal.Zero,
		TotalMonths:   len(valid),
	}
	if len(valid) == 0 {
		return snapshot
	}

	marginSum := decimal.Zero
	marginCount := 0
	best, worst := 0, 0
	for i, r := range valid {
		snapshot.TotalRevenue = snapshot.TotalRevenue.Add(r.GrossProfit)
		snapshot.TotalProfit = snapshot.TotalProfit.Add(r.NetProfit)
		if r.NetProfit.IsPositive() {
			snapshot.ProfitableMonths++
		}
		if r.GrossProfit.IsPositive() {
			marginSum = marginSum.Add(r.Margin())
			marginCount++
		}
		if r.NetProfit.GreaterThan(valid[best].NetProfit) {
			best = i
		}
		if r.NetProfit.LessThan(valid[worst].NetProfit) {
			worst = i
		}
	}
	if marginCount > 0 {
		snapshot.AverageMargin = marginSum.Div(decimal.NewFromInt(int64(marginCount)))
	}

	bestReport, worstReport := valid[best], valid[worst]
	snapshot.BestMonth = &bestReport
	snapshot.WorstMonth = &worstReport

	if len(valid) >= 2 {
		snapshot.RevenueGrowth = cohortGrowth(valid, func(r domain.Report) decimal.Decimal { return r.GrossProfit })
		snapshot.ProfitGrowth = cohortGrowth(valid, func(r domain.Report) decimal.Decimal { return r.NetProfit })
	}
	return snapshot
}

// cohortGrowth compares the mean of the last periods with the mean of the
// first periods, in percent. The two cohorts may overlap on short series.
// It returns zero when the first cohort mean is not positive.
func cohortGrowth(sorted []domain.Report, value func(domain.Report) decimal.Decimal) decimal.Decimal {
	size := min(growthCohortSize, len(sorted))
	first := mean(sorted[:size], value)
	if !first.IsPositive() {
		return decimal.Zero
	}
	last := mean(sorted[len(sorted)-size:], value)
	return last.Sub(first).Div(first).Mul(hundred)
}

func mean(reports []domain.Report, value func(domain.Report) decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, r := range reports {
		sum = sum.Add(value(r))
	}
	return sum.Div(decimal.NewFromInt(int64(len(reports))))
}
