package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	portssvc "github.com/SscSPs/pnl_insights_app/internal/core/ports/services"
	"github.com/SscSPs/pnl_insights_app/internal/core/services"
	"github.com/SscSPs/pnl_insights_app/internal/platform/config"
	"github.com/SscSPs/pnl_insights_app/internal/platform/storage"
	"github.com/charmbracelet/glamour"
)

// app is the state shared by the commands that need storage.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *storage.Store
	services *portssvc.ServiceContainer
}

func openApp(ctx context.Context, verbose bool) (*app, error) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	store, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	return &app{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		services: services.NewServiceContainer(cfg, store.Repos),
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Error("Error closing storage", slog.String("error", err.Error()))
	}
}

// printMarkdown renders md for the terminal, or prints it as is when raw is set.
func printMarkdown(md string, raw bool) {
	if raw {
		fmt.Print(md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
