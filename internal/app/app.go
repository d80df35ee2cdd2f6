// Package app provides the top-level application lifecycle for the
// cross-venue arbitrage bot. It wires together all dependencies (venue
// clients, fee schedule, evaluator, executor, stores, caches, notifications)
// and runs one arbitrage decision per invocation.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mbarbosa/crossarb/internal/config"
)

// App is the root application object. It owns the configuration, logger, and
// a list of cleanup functions that are called in reverse order on shutdown.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	closers []func()
}

// New creates a new App from the given configuration and logger.
func New(cfg *config.Config, logger *slog.Logger) *App {
	return &App{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "app")),
	}
}

// Run wires all dependencies and performs one decision cycle: fetch both
// books, evaluate, and (in paper mode) execute and settle. It returns once
// the cycle completes or the context is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.logger.InfoContext(ctx, "starting application",
		slog.String("mode", a.cfg.Mode),
		slog.String("symbol", a.cfg.Symbol),
	)

	deps, cleanup, err := Wire(ctx, a.cfg)
	if err != nil {
		return fmt.Errorf("app: wire dependencies: %w", err)
	}
	a.closers = append(a.closers, cleanup)

	execute := strings.ToLower(a.cfg.Mode) == "paper"
	return a.runCycle(ctx, deps, execute)
}

// Close tears down all resources in reverse registration order. It is safe
// to call multiple times; subsequent calls are no-ops.
func (a *App) Close() {
	a.logger.Info("shutting down application")
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
