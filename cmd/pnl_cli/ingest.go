package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/SscSPs/pnl_insights_app/internal/apperrors"
	"github.com/SscSPs/pnl_insights_app/internal/renderer"
	"github.com/google/subcommands"
)

type ingestCmd struct {
	file    string
	raw     bool
	verbose bool
}

func (*ingestCmd) Name() string     { return "ingest" }
func (*ingestCmd) Synopsis() string { return "normalize and store a batch of P&L statements" }
func (*ingestCmd) Usage() string {
	return `pnl_cli ingest [-file <path>] [-raw] [-v]

  Reads a statement batch from a file, or stdin when no file is given,
  and stores every valid entry.
`
}

func (c *ingestCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "file", "", "Path to the batch payload (defaults to stdin)")
	f.BoolVar(&c.raw, "raw", false, "print markdown without terminal styling")
	f.BoolVar(&c.verbose, "v", false, "verbose logging")
}

func (c *ingestCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	source := c.file
	var payload []byte
	var err error
	if c.file == "" {
		source = "stdin"
		payload, err = io.ReadAll(os.Stdin)
	} else {
		payload, err = os.ReadFile(c.file)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	a, err := openApp(ctx, c.verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	result, err := a.services.Ingestion.IngestBatch(ctx, payload)
	if result != nil {
		printMarkdown(renderer.IngestionMarkdown(source, result), c.raw)
	}
	switch {
	case err == nil, errors.Is(err, apperrors.ErrPartialBatch):
		return subcommands.ExitSuccess
	case errors.Is(err, apperrors.ErrParse):
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
}
