package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/SscSPs/pnl_insights_app/internal/core/domain"
	"github.com/SscSPs/pnl_insights_app/internal/renderer"
	"github.com/google/subcommands"
)

type dashboardCmd struct {
	company string
	raw     bool
	verbose bool
}

func (*dashboardCmd) Name() string     { return "dashboard" }
func (*dashboardCmd) Synopsis() string { return "display metrics, trend and insights" }
func (*dashboardCmd) Usage() string {
	return `pnl_cli dashboard [-company <id>] [-raw] [-v]

  Displays the dashboard of one company, or of every stored report when
  no company is given.
`
}

func (c *dashboardCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.company, "company", "", "Company ID (see the companies command)")
	f.BoolVar(&c.raw, "raw", false, "print markdown without terminal styling")
	f.BoolVar(&c.verbose, "v", false, "verbose logging")
}

func (c *dashboardCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx, c.verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	title := "Portfolio"
	var dashboard *domain.Dashboard
	if c.company == "" {
		dashboard, err = a.services.Dashboard.PortfolioDashboard(ctx)
	} else {
		var company *domain.Company
		company, err = a.services.Reporting.GetCompany(ctx, c.company)
		if err == nil {
			title = company.Name
			dashboard, err = a.services.Dashboard.CompanyDashboard(ctx, c.company)
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.DashboardMarkdown(title, dashboard, a.cfg.DisplayCurrency), c.raw)
	return subcommands.ExitSuccess
}

type companiesCmd struct {
	raw     bool
	verbose bool
}

func (*companiesCmd) Name() string     { return "companies" }
func (*companiesCmd) Synopsis() string { return "list the known companies" }
func (*companiesCmd) Usage() string {
	return `pnl_cli companies [-raw] [-v]
`
}

func (c *companiesCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.raw, "raw", false, "print markdown without terminal styling")
	f.BoolVar(&c.verbose, "v", false, "verbose logging")
}

func (c *companiesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx, c.verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	companies, err := a.services.Reporting.ListCompanies(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.CompaniesMarkdown(companies), c.raw)
	return subcommands.ExitSuccess
}
