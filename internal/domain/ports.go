package domain

import (
	"context"
	"time"
)

// BookSource supplies a normalized order book for one venue. Transport,
// parsing, and venue symbol mapping live behind this boundary; the core only
// ever sees validated OrderBook values.
type BookSource interface {
	Venue() Venue
	FetchOrderBook(ctx context.Context, symbol Symbol) (OrderBook, error)
}

// LegExecutor places one leg of a two-leg instruction on its venue. Any
// returned error means the leg did not execute and the instruction must not
// be settled.
type LegExecutor interface {
	Venue() Venue
	PlaceLeg(ctx context.Context, leg Leg) error
}

// DecisionStore records evaluation outcomes for after-the-fact audit.
type DecisionStore interface {
	Insert(ctx context.Context, opp Opportunity) error
	MarkSettled(ctx context.Context, id string) error
	ListRecent(ctx context.Context, limit int) ([]Opportunity, error)
}

// BookCache keeps the most recently fetched book per venue and symbol so a
// run's inputs can be inspected after it exits.
type BookCache interface {
	SetBook(ctx context.Context, venue Venue, symbol Symbol, book OrderBook, ts time.Time) error
	GetBook(ctx context.Context, venue Venue, symbol Symbol) (OrderBook, time.Time, error)
}
