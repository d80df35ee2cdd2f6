package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mbarbosa/crossarb/internal/domain"
	"github.com/mbarbosa/crossarb/internal/ledger"
	"github.com/mbarbosa/crossarb/internal/notify"
)

// runCycle performs one complete arbitrage decision: fetch both books
// concurrently, evaluate, and, when execute is set and an opportunity exists,
// run both legs and settle the ledger. The ledger is only ever replaced
// wholesale after both legs confirm; a failed leg leaves it untouched.
func (a *App) runCycle(ctx context.Context, deps *Dependencies, execute bool) error {
	log := a.logger.With(slog.String("symbol", string(deps.Symbol)))

	// Surface how stale the previous run's inputs are before overwriting them.
	if deps.BookCache != nil {
		if _, fetchedAt, err := deps.BookCache.GetBook(ctx, domain.VenuePrimary, deps.Symbol); err == nil {
			log.Debug("previous book snapshot found",
				slog.Time("fetched_at", fetchedAt),
				slog.Duration("age", time.Since(fetchedAt)),
			)
		}
	}

	// The two venues are independent; fetch their books concurrently.
	var primaryBook, secondaryBook domain.OrderBook
	g, fetchCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		primaryBook, err = deps.Primary.FetchOrderBook(fetchCtx, deps.Symbol)
		return err
	})
	g.Go(func() error {
		var err error
		secondaryBook, err = deps.Secondary.FetchOrderBook(fetchCtx, deps.Symbol)
		return err
	})
	if err := g.Wait(); err != nil {
		_ = deps.Notifier.Notify(ctx, notify.EventError, "Book fetch failed", err.Error())
		return fmt.Errorf("app: fetch order books: %w", err)
	}

	a.cacheBooks(ctx, deps, primaryBook, secondaryBook)

	opp, err := deps.Evaluator.Evaluate(primaryBook, secondaryBook, deps.Symbol)
	if err != nil {
		return fmt.Errorf("app: evaluate: %w", err)
	}
	if opp == nil {
		log.Info("no arbitrage opportunity")
		a.reportLedger(log, deps.Ledger)
		return nil
	}

	log.Info("arbitrage opportunity",
		slog.String("opp_id", opp.ID),
		slog.String("direction", string(opp.Instruction.Direction)),
		slog.Float64("raw_spread", opp.RawSpread),
		slog.Float64("profit", opp.Profit),
		slog.Float64("quantity", opp.Instruction.Quantity),
		slog.Float64("ask_price", opp.Instruction.AskPrice),
		slog.Float64("bid_price", opp.Instruction.BidPrice),
	)
	if deps.DecisionStore != nil {
		if err := deps.DecisionStore.Insert(ctx, *opp); err != nil {
			log.Warn("decision record failed", slog.String("error", err.Error()))
		}
	}
	_ = deps.Notifier.Notify(ctx, notify.EventArbDetected, "Arbitrage opportunity",
		fmt.Sprintf("%s %s: profit %.2f BRL at qty %.8f",
			deps.Symbol, opp.Instruction.Direction, opp.Profit, opp.Instruction.Quantity))

	if !execute {
		log.Info("scan mode, not executing", slog.String("opp_id", opp.ID))
		a.reportLedger(log, deps.Ledger)
		return nil
	}

	// Both legs must confirm before settlement. On failure the instruction
	// is abandoned: no compensating trade, no ledger change.
	if err := deps.Executor.Execute(ctx, opp.Instruction); err != nil {
		_ = deps.Notifier.Notify(ctx, notify.EventLegFailed, "Leg execution failed", err.Error())
		a.reportLedger(log, deps.Ledger)
		return fmt.Errorf("app: execute instruction %s: %w", opp.ID, err)
	}

	settled, err := ledger.Apply(deps.Ledger, opp.Instruction)
	if err != nil {
		// Missing currency keys mean the pre-initialization contract was
		// violated; abort rather than guess.
		return fmt.Errorf("app: settle instruction %s: %w", opp.ID, err)
	}
	deps.Ledger = settled

	if deps.DecisionStore != nil {
		if err := deps.DecisionStore.MarkSettled(ctx, opp.ID); err != nil {
			log.Warn("decision settle mark failed", slog.String("error", err.Error()))
		}
	}
	_ = deps.Notifier.Notify(ctx, notify.EventTradeSettled, "Trade settled",
		fmt.Sprintf("%s %s: qty %.8f, profit %.2f BRL",
			deps.Symbol, opp.Instruction.Direction, opp.Instruction.Quantity, opp.Profit))

	log.Info("trade settled", slog.String("opp_id", opp.ID))
	a.reportLedger(log, deps.Ledger)
	a.reportHistory(ctx, deps, log)
	return nil
}

// reportHistory logs a short summary of the audit trail after a settlement.
func (a *App) reportHistory(ctx context.Context, deps *Dependencies, log *slog.Logger) {
	if deps.DecisionStore == nil {
		return
	}
	recent, err := deps.DecisionStore.ListRecent(ctx, 5)
	if err != nil {
		log.Warn("decision history read failed", slog.String("error", err.Error()))
		return
	}
	for _, opp := range recent {
		log.Debug("recent decision",
			slog.String("opp_id", opp.ID),
			slog.String("direction", string(opp.Instruction.Direction)),
			slog.Float64("profit", opp.Profit),
			slog.Time("detected_at", opp.DetectedAt),
		)
	}
}

// cacheBooks stores both snapshots for post-hoc inspection. Cache failures
// are reported but never fail the cycle.
func (a *App) cacheBooks(ctx context.Context, deps *Dependencies, primaryBook, secondaryBook domain.OrderBook) {
	if deps.BookCache == nil {
		return
	}
	now := time.Now().UTC()
	if err := deps.BookCache.SetBook(ctx, domain.VenuePrimary, deps.Symbol, primaryBook, now); err != nil {
		a.logger.Warn("book cache write failed",
			slog.String("venue", string(domain.VenuePrimary)),
			slog.String("error", err.Error()),
		)
	}
	if err := deps.BookCache.SetBook(ctx, domain.VenueSecondary, deps.Symbol, secondaryBook, now); err != nil {
		a.logger.Warn("book cache write failed",
			slog.String("venue", string(domain.VenueSecondary)),
			slog.String("error", err.Error()),
		)
	}
}

// reportLedger logs the final balances in a stable currency order.
func (a *App) reportLedger(log *slog.Logger, l domain.Ledger) {
	attrs := make([]any, 0, len(domain.Currencies))
	for _, c := range domain.Currencies {
		attrs = append(attrs, slog.Float64(string(c), l[c]))
	}
	log.Info("current balance", attrs...)
}
