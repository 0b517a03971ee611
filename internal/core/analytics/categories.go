package analytics

import (
	"github.com/SscSPs/pnl_insights_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// GroupLineItems groups the non-zero line items of a report by account category.
// Groups appear in the order their category is first seen, items keep their
// input order. A category whose items are all zero produces no group.
func GroupLineItems(items []domain.LineItem) []domain.CategoryGroup {
	var groups []domain.CategoryGroup
	pos := make(map[domain.Category]int)

	for _, item := range items {
		if item.Value.IsZero() {
			continue
		}
		category := item.Account.Category
		if !category.IsValid() {
			category = domain.CategoryUncategorized
		}
		i, ok := pos[category]
		if !ok {
			i = len(groups)
			pos[category] = i
			groups = append(groups, domain.CategoryGroup{Category: category, Subtotal: decimal.Zero})
		}
		groups[i].Items = append(groups[i].Items, item)
		groups[i].Subtotal = groups[i].Subtotal.Add(item.Value)
	}
	return groups
}

// SumGroups returns the sum of the group subtotals.
func SumGroups(groups []domain.CategoryGroup) decimal.Decimal {
	total := decimal.Zero
	for _, g := range groups {
		total = total.Add(g.Subtotal)
	}
	return total
}

// BuildReportDetail assembles the grouped view of a report.
func BuildReportDetail(report domain.Report, items []domain.LineItem) domain.ReportDetail {
	groups := GroupLineItems(items)
	if items == nil {
		items = []domain.LineItem{}
	}
	if groups == nil {
		groups = []domain.CategoryGroup{}
	}
	return domain.ReportDetail{
		Report:    report,
		LineItems: items,
		Groups:    groups,
		Total:     SumGroups(groups),
	}
}
