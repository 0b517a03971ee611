package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/SscSPs/pnl_insights_app/internal/platform/config"
	"github.com/SscSPs/pnl_insights_app/internal/utils"
	"github.com/google/subcommands"
)

type tokenCmd struct {
	client string
	ttl    time.Duration
}

func (*tokenCmd) Name() string     { return "token" }
func (*tokenCmd) Synopsis() string { return "issue a bearer token for an API client" }
func (*tokenCmd) Usage() string {
	return `pnl_cli token -client <name> [-ttl <duration>]

  Signs a token with JWT_SECRET and JWT_ISSUER. A zero ttl never expires.
`
}

func (c *tokenCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.client, "client", "", "Client name stored as the token subject")
	f.DurationVar(&c.ttl, "ttl", 24*time.Hour, "Token lifetime")
}

func (c *tokenCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.client == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	token, err := utils.GenerateClientToken(c.client, cfg.JWTSecret, cfg.JWTIssuer, c.ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Println(token)
	return subcommands.ExitSuccess
}
