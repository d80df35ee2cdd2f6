// Package executor runs the two offsetting legs of a chosen trade
// instruction against their venues and reports whether the trade settled.
package executor

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/mbarbosa/crossarb/internal/domain"
)

// LegError reports which leg of an instruction failed. The instruction is not
// settled when any leg fails; no compensating trade is attempted for a leg
// that already went through (alert-and-halt policy).
type LegError struct {
	Leg domain.Leg
	Err error
}

func (e *LegError) Error() string {
	return fmt.Sprintf("executor: %s leg on %s failed: %v", e.Leg.Side, e.Leg.Venue, e.Err)
}

func (e *LegError) Unwrap() error { return e.Err }

// Executor dispatches instruction legs to per-venue leg executors. The two
// legs have no ordering requirement between them and run concurrently, but
// Execute returns only after both have completed.
type Executor struct {
	venues map[domain.Venue]domain.LegExecutor
	logger *slog.Logger
}

// New creates an Executor from one leg executor per venue.
func New(legs []domain.LegExecutor, logger *slog.Logger) *Executor {
	venues := make(map[domain.Venue]domain.LegExecutor, len(legs))
	for _, l := range legs {
		venues[l.Venue()] = l
	}
	return &Executor{
		venues: venues,
		logger: logger.With(slog.String("component", "executor")),
	}
}

// Execute places both legs of the instruction and returns nil only when both
// venues confirmed. On any failure it returns a *LegError for the first leg
// that failed; the caller must not settle the ledger in that case.
func (e *Executor) Execute(ctx context.Context, instr domain.TradeInstruction) error {
	legs := instr.Legs()
	for _, leg := range legs {
		if _, ok := e.venues[leg.Venue]; !ok {
			return fmt.Errorf("executor: no leg executor for venue %q", leg.Venue)
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, leg := range legs {
		leg := leg
		g.Go(func() error {
			if err := e.venues[leg.Venue].PlaceLeg(ctx, leg); err != nil {
				return &LegError{Leg: leg, Err: err}
			}
			e.logger.Info("leg confirmed",
				slog.String("side", string(leg.Side)),
				slog.String("venue", string(leg.Venue)),
				slog.Float64("price", leg.Price),
				slog.Float64("quantity", leg.Quantity),
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	e.logger.Info("both legs confirmed",
		slog.String("symbol", string(instr.Symbol)),
		slog.String("direction", string(instr.Direction)),
	)
	return nil
}
