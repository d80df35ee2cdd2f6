package domain

import (
	"fmt"
	"math"
	"strconv"
)

// PriceLevel is a single price+quantity entry in an order book. Values are
// strictly positive finite numbers; constructors enforce this so the
// evaluator never has to re-check.
type PriceLevel struct {
	Price    float64
	Quantity float64
}

// OrderBook is a normalized bid/ask book, best-first on both sides. Either
// side may be empty, in which case no arbitrage can be evaluated against it.
type OrderBook struct {
	Bids []PriceLevel
	Asks []PriceLevel
}

// BestBid returns the top-of-book bid, if any.
func (b OrderBook) BestBid() (PriceLevel, bool) {
	if len(b.Bids) == 0 {
		return PriceLevel{}, false
	}
	return b.Bids[0], true
}

// BestAsk returns the top-of-book ask, if any.
func (b OrderBook) BestAsk() (PriceLevel, bool) {
	if len(b.Asks) == 0 {
		return PriceLevel{}, false
	}
	return b.Asks[0], true
}

// NewOrderBookFromStrings builds an OrderBook from [price, quantity] string
// pairs, the wire shape used by the primary venue's depth endpoint.
func NewOrderBookFromStrings(bids, asks [][2]string) (OrderBook, error) {
	parseSide := func(side string, raw [][2]string) ([]PriceLevel, error) {
		levels := make([]PriceLevel, 0, len(raw))
		for i, pair := range raw {
			price, err := strconv.ParseFloat(pair[0], 64)
			if err != nil {
				return nil, fmt.Errorf("orderbook: %s[%d] price %q: %w", side, i, pair[0], err)
			}
			qty, err := strconv.ParseFloat(pair[1], 64)
			if err != nil {
				return nil, fmt.Errorf("orderbook: %s[%d] quantity %q: %w", side, i, pair[1], err)
			}
			lvl, err := newLevel(side, i, price, qty)
			if err != nil {
				return nil, err
			}
			levels = append(levels, lvl)
		}
		return levels, nil
	}

	bidLevels, err := parseSide("bids", bids)
	if err != nil {
		return OrderBook{}, err
	}
	askLevels, err := parseSide("asks", asks)
	if err != nil {
		return OrderBook{}, err
	}
	return OrderBook{Bids: bidLevels, Asks: askLevels}, nil
}

// NewOrderBookFromFloats builds an OrderBook from [price, quantity] float
// pairs, the wire shape used by the secondary venue's book endpoint.
func NewOrderBookFromFloats(bids, asks [][2]float64) (OrderBook, error) {
	buildSide := func(side string, raw [][2]float64) ([]PriceLevel, error) {
		levels := make([]PriceLevel, 0, len(raw))
		for i, pair := range raw {
			lvl, err := newLevel(side, i, pair[0], pair[1])
			if err != nil {
				return nil, err
			}
			levels = append(levels, lvl)
		}
		return levels, nil
	}

	bidLevels, err := buildSide("bids", bids)
	if err != nil {
		return OrderBook{}, err
	}
	askLevels, err := buildSide("asks", asks)
	if err != nil {
		return OrderBook{}, err
	}
	return OrderBook{Bids: bidLevels, Asks: askLevels}, nil
}

func newLevel(side string, idx int, price, qty float64) (PriceLevel, error) {
	if price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return PriceLevel{}, fmt.Errorf("orderbook: %s[%d]: invalid price %v", side, idx, price)
	}
	if qty <= 0 || math.IsNaN(qty) || math.IsInf(qty, 0) {
		return PriceLevel{}, fmt.Errorf("orderbook: %s[%d]: invalid quantity %v", side, idx, qty)
	}
	return PriceLevel{Price: price, Quantity: qty}, nil
}
