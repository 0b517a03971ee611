package ingestion

import (
	"sort"
	"strings"

	"github.com/SscSPs/pnl_insights_app/internal/core/domain"
	"github.com/SscSPs/pnl_insights_app/internal/dto"
)

var sectionCategories = map[string]domain.Category{
	dto.SectionRevenue:              domain.CategoryOperatingRevenue,
	dto.SectionCostOfGoodsSold:      domain.CategoryCostOfGoodsSold,
	dto.SectionOperatingExpenses:    domain.CategoryOperatingExpenses,
	dto.SectionNonOperatingExpenses: domain.CategoryNonOperatingExpenses,
	dto.SectionOtherIncome:          domain.CategoryOtherIncome,
}

// canonicalSectionOrder is the order in which known sections are flattened.
var canonicalSectionOrder = []string{
	dto.SectionRevenue,
	dto.SectionCostOfGoodsSold,
	dto.SectionOperatingExpenses,
	dto.SectionNonOperatingExpenses,
	dto.SectionOtherIncome,
}

// CategoryForSection maps a statement section kind to its account category.
// Unknown kinds map to CategoryUncategorized.
func CategoryForSection(kind string) domain.Category {
	if c, ok := sectionCategories[strings.ToLower(strings.TrimSpace(kind))]; ok {
		return c
	}
	return domain.CategoryUncategorized
}

// orderedSectionKinds returns the kinds present in sections: known kinds in
// statement order followed by unknown kinds sorted by name.
func orderedSectionKinds(sections map[string][]dto.StatementSection) []string {
	kinds := make([]string, 0, len(sections))
	for _, kind := range canonicalSectionOrder {
		if _, ok := sections[kind]; ok {
			kinds = append(kinds, kind)
		}
	}
	var extra []string
	for kind := range sections {
		if _, known := sectionCategories[kind]; !known {
			extra = append(extra, kind)
		}
	}
	sort.Strings(extra)
	return append(kinds, extra...)
}
