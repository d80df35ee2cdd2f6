package executor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/mbarbosa/crossarb/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeLegExecutor records placed legs and fails on demand.
type fakeLegExecutor struct {
	venue domain.Venue
	err   error

	mu   sync.Mutex
	legs []domain.Leg
}

func (f *fakeLegExecutor) Venue() domain.Venue { return f.venue }

func (f *fakeLegExecutor) PlaceLeg(_ context.Context, leg domain.Leg) error {
	f.mu.Lock()
	f.legs = append(f.legs, leg)
	f.mu.Unlock()
	return f.err
}

func (f *fakeLegExecutor) placed() []domain.Leg {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Leg(nil), f.legs...)
}

func testInstruction() domain.TradeInstruction {
	return domain.TradeInstruction{
		Direction: domain.DirectionShortSecondary,
		Symbol:    domain.SymbolBTCBRL,
		AskPrice:  100,
		BidPrice:  110,
		Quantity:  1.5,
		TotalCost: -2,
	}
}

func TestExecuteBothLegsConfirm(t *testing.T) {
	primary := &fakeLegExecutor{venue: domain.VenuePrimary}
	secondary := &fakeLegExecutor{venue: domain.VenueSecondary}
	exec := New([]domain.LegExecutor{primary, secondary}, testLogger())

	if err := exec.Execute(context.Background(), testInstruction()); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	// ShortSecondary sells on the secondary venue and buys on the primary.
	pLegs, sLegs := primary.placed(), secondary.placed()
	if len(pLegs) != 1 || len(sLegs) != 1 {
		t.Fatalf("placed legs = (%d, %d), want (1, 1)", len(pLegs), len(sLegs))
	}
	if pLegs[0].Side != domain.LegBuy || pLegs[0].Price != 100 {
		t.Fatalf("primary leg = %+v, want buy at 100", pLegs[0])
	}
	if sLegs[0].Side != domain.LegSell || sLegs[0].Price != 110 {
		t.Fatalf("secondary leg = %+v, want sell at 110", sLegs[0])
	}
	if pLegs[0].Quantity != 1.5 || sLegs[0].Quantity != 1.5 {
		t.Fatal("both legs must carry the instruction quantity")
	}
}

func TestExecuteLegFailure(t *testing.T) {
	venueDown := errors.New("venue rejected order")
	primary := &fakeLegExecutor{venue: domain.VenuePrimary}
	secondary := &fakeLegExecutor{venue: domain.VenueSecondary, err: venueDown}
	exec := New([]domain.LegExecutor{primary, secondary}, testLogger())

	err := exec.Execute(context.Background(), testInstruction())
	if err == nil {
		t.Fatal("expected leg failure")
	}

	var legErr *LegError
	if !errors.As(err, &legErr) {
		t.Fatalf("err = %T, want *LegError", err)
	}
	if legErr.Leg.Venue != domain.VenueSecondary {
		t.Fatalf("failed venue = %s, want %s", legErr.Leg.Venue, domain.VenueSecondary)
	}
	if !errors.Is(err, venueDown) {
		t.Fatalf("err = %v, want to wrap %v", err, venueDown)
	}
}

func TestExecuteMissingVenue(t *testing.T) {
	primary := &fakeLegExecutor{venue: domain.VenuePrimary}
	exec := New([]domain.LegExecutor{primary}, testLogger())

	err := exec.Execute(context.Background(), testInstruction())
	if err == nil {
		t.Fatal("expected error for missing venue executor")
	}
	if len(primary.placed()) != 0 {
		t.Fatal("no leg should be placed when a venue executor is missing")
	}
}

func TestPaperPlaceLeg(t *testing.T) {
	p := NewPaper(domain.VenuePrimary, 0, testLogger())
	leg := testInstruction().Legs()[1]

	if err := p.PlaceLeg(context.Background(), leg); err != nil {
		t.Fatalf("PlaceLeg: %v", err)
	}
}

func TestPaperRespectsCancellation(t *testing.T) {
	p := NewPaper(domain.VenuePrimary, time.Minute, testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.PlaceLeg(ctx, testInstruction().Legs()[0])
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
