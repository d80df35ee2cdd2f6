// Package ledger applies the settlement effect of an executed trade
// instruction to a balance ledger. Settlement is a pure transformation: the
// input ledger is never mutated, so a failed downstream step always observes
// the pre-trade balances.
package ledger

import (
	"fmt"

	"github.com/mbarbosa/crossarb/internal/domain"
)

// Apply settles an executed instruction against l and returns the resulting
// ledger. The quote currency is debited by quantity*ask_price plus both legs'
// fees (TotalCost is <= 0, so it deepens the debit); the base currency is
// credited by quantity; every other balance passes through unchanged.
//
// Both currencies must already be present in the ledger. A missing key means
// the pre-initialization contract was violated and is returned as an error
// wrapping domain.ErrMissingCurrency; callers treat it as fatal.
func Apply(l domain.Ledger, instr domain.TradeInstruction) (domain.Ledger, error) {
	switch instr.Direction {
	case domain.DirectionShortPrimary, domain.DirectionShortSecondary:
	default:
		return nil, fmt.Errorf("ledger: %w: %q", domain.ErrUnknownDirection, instr.Direction)
	}

	base := instr.Symbol.Base()
	if base == "" {
		return nil, fmt.Errorf("ledger: %w: %q", domain.ErrUnknownSymbol, instr.Symbol)
	}
	quote := instr.Symbol.Quote()

	if _, ok := l[quote]; !ok {
		return nil, fmt.Errorf("ledger: %w: %s", domain.ErrMissingCurrency, quote)
	}
	if _, ok := l[base]; !ok {
		return nil, fmt.Errorf("ledger: %w: %s", domain.ErrMissingCurrency, base)
	}

	out := l.Clone()
	out[quote] = out[quote] - instr.Quantity*instr.AskPrice + instr.TotalCost
	out[base] += instr.Quantity
	return out, nil
}
