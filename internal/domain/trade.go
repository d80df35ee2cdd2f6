package domain

import "time"

// Direction is the closed set of trade directions an evaluation can produce.
// Exactly one of the two can hold for a given pair of books.
type Direction string

const (
	// DirectionShortSecondary sells at the secondary venue's bid and buys at
	// the primary venue's ask.
	DirectionShortSecondary Direction = "short_secondary"
	// DirectionShortPrimary sells at the primary venue's bid and buys at the
	// secondary venue's ask.
	DirectionShortPrimary Direction = "short_primary"
)

// SellVenue returns the venue whose bid is consumed in this direction.
func (d Direction) SellVenue() Venue {
	if d == DirectionShortPrimary {
		return VenuePrimary
	}
	return VenueSecondary
}

// BuyVenue returns the venue whose ask is consumed in this direction.
func (d Direction) BuyVenue() Venue {
	if d == DirectionShortPrimary {
		return VenueSecondary
	}
	return VenuePrimary
}

// TradeInstruction is the unambiguous output of a positive arbitrage
// decision: sell Quantity at BidPrice on the sell venue, buy Quantity at
// AskPrice on the buy venue. TotalCost is the combined fee cost of both legs,
// always <= 0, carried so settlement never recomputes fees. Instructions are
// immutable and consumed exactly once.
type TradeInstruction struct {
	Direction Direction
	Symbol    Symbol
	AskPrice  float64
	BidPrice  float64
	Quantity  float64
	TotalCost float64
}

// Opportunity is a detected, fee-adjusted profitable spread together with the
// instruction that captures it.
type Opportunity struct {
	ID          string
	Symbol      Symbol
	RawSpread   float64
	Profit      float64
	Instruction TradeInstruction
	DetectedAt  time.Time
}
