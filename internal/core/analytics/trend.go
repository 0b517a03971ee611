package analytics

import (
	"github.com/SscSPs/pnl_insights_app/internal/core/domain"
	"github.com/SscSPs/pnl_insights_app/internal/utils"
)

// BuildTrend returns the chronological profit series of the non-degenerate
// reports. Every call builds a new slice.
func BuildTrend(reports []domain.Report) []domain.TrendPoint {
	valid := validReports(reports)
	points := make([]domain.TrendPoint, 0, len(valid))
	for _, r := range valid {
		points = append(points, domain.TrendPoint{
			Period:      utils.FormatPeriodLabel(r.PeriodStart),
			GrossProfit: r.GrossProfit,
			NetProfit:   r.NetProfit,
			Margin:      r.Margin(),
		})
	}
	return points
}
