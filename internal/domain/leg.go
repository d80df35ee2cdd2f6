package domain

// LegSide is the side of one leg of a two-leg trade.
type LegSide string

const (
	LegSell LegSide = "sell"
	LegBuy  LegSide = "buy"
)

// Leg is one side of the offsetting trade pair, addressed to a single venue.
type Leg struct {
	Side     LegSide
	Venue    Venue
	Symbol   Symbol
	Quantity float64
	Price    float64
}

// Legs expands an instruction into its two offsetting legs: the sell leg on
// the high-price venue at the consumed bid, the buy leg on the low-price
// venue at the consumed ask. Both legs must be confirmed before settlement.
func (t TradeInstruction) Legs() [2]Leg {
	return [2]Leg{
		{
			Side:     LegSell,
			Venue:    t.Direction.SellVenue(),
			Symbol:   t.Symbol,
			Quantity: t.Quantity,
			Price:    t.BidPrice,
		},
		{
			Side:     LegBuy,
			Venue:    t.Direction.BuyVenue(),
			Symbol:   t.Symbol,
			Quantity: t.Quantity,
			Price:    t.AskPrice,
		},
	}
}
