// Package arbitrage implements the cross-venue arbitrage decision engine:
// given one normalized order book per venue, it decides whether a
// fee-adjusted profitable spread exists, in which direction, and at what
// price and quantity.
package arbitrage

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mbarbosa/crossarb/internal/domain"
	"github.com/mbarbosa/crossarb/internal/fees"
)

// Evaluator runs one arbitrage decision per call. It holds no mutable state;
// books in, optional opportunity out.
type Evaluator struct {
	fees   *fees.Schedule
	logger *slog.Logger
}

// NewEvaluator creates an evaluator backed by the given fee schedule.
func NewEvaluator(schedule *fees.Schedule, logger *slog.Logger) *Evaluator {
	return &Evaluator{
		fees:   schedule,
		logger: logger.With(slog.String("component", "evaluator")),
	}
}

// Evaluate compares top-of-book across the two venues in both directions and
// returns the profitable instruction, if any. A nil opportunity with nil
// error means no opportunity, which is the normal outcome, not a failure.
// Breakeven trades (profit exactly zero after fees) are taken.
//
// The two trigger conditions require opposite-sign crossings, so at most one
// direction can hold for a given pair of books.
func (e *Evaluator) Evaluate(primary, secondary domain.OrderBook, symbol domain.Symbol) (*domain.Opportunity, error) {
	primaryBid, okPB := primary.BestBid()
	primaryAsk, okPA := primary.BestAsk()
	secondaryBid, okSB := secondary.BestBid()
	secondaryAsk, okSA := secondary.BestAsk()
	if !okPB || !okPA || !okSB || !okSA {
		e.logger.Debug("insufficient depth, no decision possible",
			slog.String("symbol", string(symbol)),
		)
		return nil, nil
	}

	switch {
	case secondaryBid.Price > primaryAsk.Price:
		// Sell high on secondary, buy low on primary.
		return e.candidate(domain.DirectionShortSecondary, symbol, primaryAsk, secondaryBid)
	case primaryBid.Price > secondaryAsk.Price:
		// Sell high on primary, buy low on secondary.
		return e.candidate(domain.DirectionShortPrimary, symbol, secondaryAsk, primaryBid)
	default:
		return nil, nil
	}
}

// candidate prices one triggered direction: clamp quantity to the thinner of
// the two consumed levels, charge each leg's fee at the actual traded
// notional, and accept when the spread survives the fees.
func (e *Evaluator) candidate(dir domain.Direction, symbol domain.Symbol, ask, bid domain.PriceLevel) (*domain.Opportunity, error) {
	rawSpread := bid.Price - ask.Price

	quantity := ask.Quantity
	if bid.Quantity < quantity {
		quantity = bid.Quantity
	}

	buyCost, err := e.fees.LegCost(dir.BuyVenue(), ask.Price, quantity)
	if err != nil {
		return nil, fmt.Errorf("arbitrage: buy leg fee: %w", err)
	}
	sellCost, err := e.fees.LegCost(dir.SellVenue(), bid.Price, quantity)
	if err != nil {
		return nil, fmt.Errorf("arbitrage: sell leg fee: %w", err)
	}
	totalCost := -buyCost - sellCost
	profit := rawSpread + totalCost

	if profit < 0 {
		e.logger.Debug("spread eaten by fees",
			slog.String("symbol", string(symbol)),
			slog.String("direction", string(dir)),
			slog.Float64("raw_spread", rawSpread),
			slog.Float64("total_cost", totalCost),
		)
		return nil, nil
	}

	opp := &domain.Opportunity{
		ID:        uuid.New().String(),
		Symbol:    symbol,
		RawSpread: rawSpread,
		Profit:    profit,
		Instruction: domain.TradeInstruction{
			Direction: dir,
			Symbol:    symbol,
			AskPrice:  ask.Price,
			BidPrice:  bid.Price,
			Quantity:  quantity,
			TotalCost: totalCost,
		},
		DetectedAt: time.Now().UTC(),
	}
	e.logger.Debug("opportunity detected",
		slog.String("opp_id", opp.ID),
		slog.String("symbol", string(symbol)),
		slog.String("direction", string(dir)),
		slog.Float64("profit", profit),
		slog.Float64("quantity", quantity),
	)
	return opp, nil
}
