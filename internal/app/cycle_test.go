package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/mbarbosa/crossarb/internal/arbitrage"
	"github.com/mbarbosa/crossarb/internal/config"
	"github.com/mbarbosa/crossarb/internal/domain"
	"github.com/mbarbosa/crossarb/internal/executor"
	"github.com/mbarbosa/crossarb/internal/fees"
	"github.com/mbarbosa/crossarb/internal/notify"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeSource serves a fixed book for one venue.
type fakeSource struct {
	venue domain.Venue
	book  domain.OrderBook
	err   error
}

func (f *fakeSource) Venue() domain.Venue { return f.venue }

func (f *fakeSource) FetchOrderBook(context.Context, domain.Symbol) (domain.OrderBook, error) {
	return f.book, f.err
}

// fakeLeg confirms or rejects every leg for one venue.
type fakeLeg struct {
	venue domain.Venue
	err   error
}

func (f *fakeLeg) Venue() domain.Venue { return f.venue }

func (f *fakeLeg) PlaceLeg(context.Context, domain.Leg) error { return f.err }

func mustBook(t *testing.T, bids, asks [][2]float64) domain.OrderBook {
	t.Helper()
	b, err := domain.NewOrderBookFromFloats(bids, asks)
	if err != nil {
		t.Fatalf("NewOrderBookFromFloats: %v", err)
	}
	return b
}

// crossedDeps builds dependencies where the secondary bid crosses the primary
// ask profitably.
func crossedDeps(t *testing.T, primaryLegErr, secondaryLegErr error) *Dependencies {
	t.Helper()
	logger := testLogger()
	return &Dependencies{
		Symbol: domain.SymbolBTCBRL,
		Primary: &fakeSource{
			venue: domain.VenuePrimary,
			book:  mustBook(t, [][2]float64{{95_000, 1}}, [][2]float64{{100_000, 1}}),
		},
		Secondary: &fakeSource{
			venue: domain.VenueSecondary,
			book:  mustBook(t, [][2]float64{{110_000, 1}}, [][2]float64{{111_000, 1}}),
		},
		Evaluator: arbitrage.NewEvaluator(fees.Default(), logger),
		Executor: executor.New([]domain.LegExecutor{
			&fakeLeg{venue: domain.VenuePrimary, err: primaryLegErr},
			&fakeLeg{venue: domain.VenueSecondary, err: secondaryLegErr},
		}, logger),
		Ledger:   domain.NewLedger(map[domain.Currency]float64{domain.CurrencyBRL: 500_000}),
		Notifier: notify.NewNotifier(nil, nil, logger),
	}
}

func testApp() *App {
	return New(&config.Config{}, testLogger())
}

func TestRunCycleScanModeLeavesLedger(t *testing.T) {
	deps := crossedDeps(t, nil, nil)

	if err := testApp().runCycle(context.Background(), deps, false); err != nil {
		t.Fatalf("runCycle: %v", err)
	}
	if deps.Ledger[domain.CurrencyBRL] != 500_000 || deps.Ledger[domain.CurrencyBTC] != 0 {
		t.Fatalf("scan mode changed the ledger: %v", deps.Ledger)
	}
}

func TestRunCyclePaperModeSettles(t *testing.T) {
	deps := crossedDeps(t, nil, nil)

	if err := testApp().runCycle(context.Background(), deps, true); err != nil {
		t.Fatalf("runCycle: %v", err)
	}
	// Quote debited by qty*ask plus both legs' fees; base credited by qty.
	wantCost := 0.001*100_000 + 0.007*110_000
	wantBRL := 500_000 - 100_000 - wantCost
	if got := deps.Ledger[domain.CurrencyBRL]; math.Abs(got-wantBRL) > 1e-6 {
		t.Fatalf("BRL = %v, want %v", got, wantBRL)
	}
	if got := deps.Ledger[domain.CurrencyBTC]; got != 1 {
		t.Fatalf("BTC = %v, want 1", got)
	}
}

func TestRunCycleLegFailureHaltsSettlement(t *testing.T) {
	venueDown := errors.New("order rejected")
	deps := crossedDeps(t, nil, venueDown)

	err := testApp().runCycle(context.Background(), deps, true)
	if err == nil {
		t.Fatal("expected leg failure to surface")
	}
	var legErr *executor.LegError
	if !errors.As(err, &legErr) {
		t.Fatalf("err = %T, want *executor.LegError", err)
	}
	if deps.Ledger[domain.CurrencyBRL] != 500_000 || deps.Ledger[domain.CurrencyBTC] != 0 {
		t.Fatalf("failed trade changed the ledger: %v", deps.Ledger)
	}
}

func TestRunCycleNoOpportunity(t *testing.T) {
	deps := crossedDeps(t, nil, nil)
	// Overwrite the secondary with a book that does not cross.
	deps.Secondary = &fakeSource{
		venue: domain.VenueSecondary,
		book:  mustBook(t, [][2]float64{{99_000, 1}}, [][2]float64{{101_000, 1}}),
	}

	if err := testApp().runCycle(context.Background(), deps, true); err != nil {
		t.Fatalf("runCycle: %v", err)
	}
	if deps.Ledger[domain.CurrencyBRL] != 500_000 {
		t.Fatalf("no-opportunity cycle changed the ledger: %v", deps.Ledger)
	}
}

func TestRunCycleFetchFailure(t *testing.T) {
	deps := crossedDeps(t, nil, nil)
	deps.Primary = &fakeSource{venue: domain.VenuePrimary, err: errors.New("venue unreachable")}

	if err := testApp().runCycle(context.Background(), deps, true); err == nil {
		t.Fatal("expected fetch failure to surface")
	}
}
