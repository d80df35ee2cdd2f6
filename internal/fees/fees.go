// Package fees implements the per-venue fee schedules used by the arbitrage
// evaluator: a flat rate for the primary venue and a volume-discounted,
// notional-tiered table for the secondary venue.
package fees

import (
	"fmt"

	"github.com/mbarbosa/crossarb/internal/domain"
)

// Tier is one band of the secondary venue's schedule. It covers notional
// values in (previous tier's Upper, Upper]; the first tier's band starts at
// zero.
type Tier struct {
	Upper float64
	Rate  float64
}

// Schedule maps (venue, price, quantity) to the fee rate applied to
// price*quantity for that leg. A Schedule is validated at construction and
// never produces a gap at lookup time: the tier bands are contiguous by
// representation and the terminal rate covers everything above the last
// upper bound.
type Schedule struct {
	primaryRate  float64
	tiers        []Tier
	terminalRate float64
}

// New builds a validated Schedule. The tier table must have strictly
// increasing upper bounds and strictly decreasing rates, with the terminal
// rate below the last tier's rate; larger trades never pay a higher marginal
// rate. A malformed table is a configuration error, not a runtime condition.
func New(primaryRate float64, tiers []Tier, terminalRate float64) (*Schedule, error) {
	if primaryRate <= 0 || primaryRate >= 1 {
		return nil, fmt.Errorf("fees: primary rate must be in (0,1), got %v", primaryRate)
	}
	if len(tiers) == 0 {
		return nil, fmt.Errorf("fees: secondary schedule needs at least one tier")
	}
	if terminalRate <= 0 || terminalRate >= 1 {
		return nil, fmt.Errorf("fees: terminal rate must be in (0,1), got %v", terminalRate)
	}
	for i, t := range tiers {
		if t.Upper <= 0 {
			return nil, fmt.Errorf("fees: tier %d upper bound must be positive, got %v", i, t.Upper)
		}
		if t.Rate <= 0 || t.Rate >= 1 {
			return nil, fmt.Errorf("fees: tier %d rate must be in (0,1), got %v", i, t.Rate)
		}
		if i > 0 {
			if t.Upper <= tiers[i-1].Upper {
				return nil, fmt.Errorf("fees: tier %d upper bound %v not above previous %v", i, t.Upper, tiers[i-1].Upper)
			}
			if t.Rate >= tiers[i-1].Rate {
				return nil, fmt.Errorf("fees: tier %d rate %v not below previous %v", i, t.Rate, tiers[i-1].Rate)
			}
		}
	}
	if terminalRate >= tiers[len(tiers)-1].Rate {
		return nil, fmt.Errorf("fees: terminal rate %v not below last tier rate %v", terminalRate, tiers[len(tiers)-1].Rate)
	}
	out := &Schedule{
		primaryRate:  primaryRate,
		tiers:        make([]Tier, len(tiers)),
		terminalRate: terminalRate,
	}
	copy(out.tiers, tiers)
	return out, nil
}

// Default returns the production schedule: 0.1% flat on the primary venue and
// the secondary venue's published volume bands.
func Default() *Schedule {
	s, err := New(0.001, DefaultSecondaryTiers(), 0.0025)
	if err != nil {
		// The built-in table is covered by tests; failing here means the
		// constants themselves were edited into an invalid state.
		panic(err)
	}
	return s
}

// DefaultSecondaryTiers returns the secondary venue's published notional
// bands, upper-bound inclusive.
func DefaultSecondaryTiers() []Tier {
	return []Tier{
		{Upper: 500_000, Rate: 0.007},
		{Upper: 10_000_000, Rate: 0.006},
		{Upper: 20_000_000, Rate: 0.005},
		{Upper: 50_000_000, Rate: 0.0045},
		{Upper: 100_000_000, Rate: 0.004},
		{Upper: 200_000_000, Rate: 0.003},
	}
}

// Rate returns the fee rate for a leg of the given notional on the given
// venue.
func (s *Schedule) Rate(venue domain.Venue, price, quantity float64) (float64, error) {
	switch venue {
	case domain.VenuePrimary:
		return s.primaryRate, nil
	case domain.VenueSecondary:
		return s.secondaryRate(price * quantity), nil
	default:
		return 0, fmt.Errorf("fees: no schedule for venue %q", venue)
	}
}

// LegCost returns the absolute fee cost of one leg: rate * price * quantity.
func (s *Schedule) LegCost(venue domain.Venue, price, quantity float64) (float64, error) {
	rate, err := s.Rate(venue, price, quantity)
	if err != nil {
		return 0, err
	}
	return rate * price * quantity, nil
}

func (s *Schedule) secondaryRate(notional float64) float64 {
	for _, t := range s.tiers {
		if notional <= t.Upper {
			return t.Rate
		}
	}
	return s.terminalRate
}
