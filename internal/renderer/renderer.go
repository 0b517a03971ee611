// Package renderer turns dashboards and ingestion results into markdown
// for terminal display.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/SscSPs/pnl_insights_app/internal/core/domain"
	"github.com/SscSPs/pnl_insights_app/internal/utils"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.md
var templateFS embed.FS

var templates, _ = fs.Sub(templateFS, "templates")

var severityIcons = map[domain.Severity]string{
	domain.SeveritySuccess: "✅",
	domain.SeverityInfo:    "ℹ️",
	domain.SeverityWarning: "⚠️",
	domain.SeverityError:   "❌",
}

// DashboardMarkdown renders a dashboard. title names the company or the portfolio.
func DashboardMarkdown(title string, d *domain.Dashboard, currency string) string {
	funcs := template.FuncMap{
		"money":   func(v decimal.Decimal) string { return utils.FormatMoney(v, currency) },
		"percent": func(v decimal.Decimal) string { return utils.FormatWithPrecision(v, 1) + "%" },
		"icon":    func(s domain.Severity) string { return severityIcons[s] },
		"period": func(r *domain.Report) string {
			return utils.FormatPeriod(r.PeriodStart, r.PeriodEnd)
		},
	}
	partials := map[string]string{
		"dashboard_metrics":  "dashboard_metrics.md",
		"dashboard_trend":    "dashboard_trend.md",
		"dashboard_insights": "dashboard_insights.md",
	}
	data := struct {
		Title string
		*domain.Dashboard
	}{Title: title, Dashboard: d}
	return renderTemplate("dashboard", "dashboard.md", partials, funcs, data)
}

// IngestionMarkdown renders the outcome of a batch ingestion.
func IngestionMarkdown(source string, result *domain.IngestionResult) string {
	data := struct {
		Source string
		*domain.IngestionResult
	}{Source: source, IngestionResult: result}
	return renderTemplate("ingestion", "ingestion.md", nil, nil, data)
}

// renderTemplate renders a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, funcs template.FuncMap, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}

// CompaniesMarkdown renders the list of known companies.
func CompaniesMarkdown(companies []domain.Company) string {
	return renderTemplate("companies", "companies.md", nil, nil, companies)
}
