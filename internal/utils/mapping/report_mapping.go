package mapping

import (
	"github.com/SscSPs/pnl_insights_app/internal/core/domain"
	"github.com/SscSPs/pnl_insights_app/internal/models"
)

// ToModelReport converts a domain Report to a model Report
func ToModelReport(d domain.Report) models.Report {
	return models.Report{
		ReportID:         d.ReportID,
		CompanyID:        d.CompanyID,
		ExternalReportID: d.ExternalReportID,
		PeriodStart:      d.PeriodStart.UTC(),
		PeriodEnd:        d.PeriodEnd.UTC(),
		GrossProfit:      d.GrossProfit,
		NetProfit:        d.NetProfit,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainReport converts a model Report to a domain Report
func ToDomainReport(m models.Report) domain.Report {
	return domain.Report{
		ReportID:         m.ReportID,
		CompanyID:        m.CompanyID,
		ExternalReportID: m.ExternalReportID,
		PeriodStart:      m.PeriodStart.UTC(),
		PeriodEnd:        m.PeriodEnd.UTC(),
		GrossProfit:      m.GrossProfit,
		NetProfit:        m.NetProfit,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainReportSlice converts a slice of model Reports to a slice of domain Reports
func ToDomainReportSlice(ms []models.Report) []domain.Report {
	ds := make([]domain.Report, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainReport(m)
	}
	return ds
}

// ToModelLineItem converts a domain LineItem to a model LineItem
func ToModelLineItem(d domain.LineItem) models.LineItem {
	return models.LineItem{
		LineItemID: d.LineItemID,
		ReportID:   d.ReportID,
		AccountID:  d.AccountID,
		Name:       d.Name,
		Value:      d.Value,
		Position:   d.Position,
	}
}

// ToDomainLineItem converts a model LineItem and its joined account columns to a domain LineItem
func ToDomainLineItem(m models.LineItem) domain.LineItem {
	return domain.LineItem{
		LineItemID: m.LineItemID,
		ReportID:   m.ReportID,
		AccountID:  m.AccountID,
		Name:       m.Name,
		Value:      m.Value,
		Position:   m.Position,
		Account: domain.AccountSummary{
			ExternalAccountID: m.ExternalAccountID,
			Name:              m.AccountName,
			Category:          domain.ParseCategory(m.AccountCategory),
		},
	}
}
