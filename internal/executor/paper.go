package executor

import (
	"context"
	"log/slog"
	"time"

	"github.com/mbarbosa/crossarb/internal/domain"
)

// Paper is a simulated leg executor for one venue. It confirms every leg
// after an optional artificial latency, standing in for real order placement
// in paper-trading mode.
type Paper struct {
	venue   domain.Venue
	latency time.Duration
	logger  *slog.Logger
}

// NewPaper creates a paper executor for the given venue.
func NewPaper(venue domain.Venue, latency time.Duration, logger *slog.Logger) *Paper {
	return &Paper{
		venue:   venue,
		latency: latency,
		logger: logger.With(
			slog.String("component", "paper_executor"),
			slog.String("venue", string(venue)),
		),
	}
}

// Venue returns the venue this executor simulates.
func (p *Paper) Venue() domain.Venue { return p.venue }

// PlaceLeg simulates placing one leg. It respects context cancellation during
// the simulated latency window and then confirms the fill.
func (p *Paper) PlaceLeg(ctx context.Context, leg domain.Leg) error {
	if p.latency > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.latency):
		}
	}
	p.logger.Info("simulated fill",
		slog.String("side", string(leg.Side)),
		slog.String("symbol", string(leg.Symbol)),
		slog.Float64("price", leg.Price),
		slog.Float64("quantity", leg.Quantity),
	)
	return nil
}

var _ domain.LegExecutor = (*Paper)(nil)
