package domain

import (
	"errors"
	"testing"
)

func TestParseSymbol(t *testing.T) {
	for _, s := range []string{"BTCBRL", "USDTBRL", "ETHBRL"} {
		sym, err := ParseSymbol(s)
		if err != nil {
			t.Fatalf("ParseSymbol(%q): %v", s, err)
		}
		if string(sym) != s {
			t.Fatalf("ParseSymbol(%q) = %q", s, sym)
		}
	}

	if _, err := ParseSymbol("DOGEBRL"); !errors.Is(err, ErrUnknownSymbol) {
		t.Fatalf("err = %v, want ErrUnknownSymbol", err)
	}
}

func TestSymbolCurrencies(t *testing.T) {
	cases := []struct {
		symbol Symbol
		base   Currency
	}{
		{SymbolBTCBRL, CurrencyBTC},
		{SymbolUSDTBRL, CurrencyUSDT},
		{SymbolETHBRL, CurrencyETH},
	}
	for _, tc := range cases {
		if got := tc.symbol.Base(); got != tc.base {
			t.Fatalf("%s.Base() = %s, want %s", tc.symbol, got, tc.base)
		}
		if got := tc.symbol.Quote(); got != CurrencyBRL {
			t.Fatalf("%s.Quote() = %s, want BRL", tc.symbol, got)
		}
	}
}

func TestSymbolVenueParams(t *testing.T) {
	if got := SymbolBTCBRL.PrimaryParam(); got != "BTCBRL" {
		t.Fatalf("PrimaryParam = %q, want BTCBRL", got)
	}
	if got := SymbolBTCBRL.SecondaryParam(); got != "BTC" {
		t.Fatalf("SecondaryParam = %q, want BTC", got)
	}
}

func TestDirectionVenues(t *testing.T) {
	if DirectionShortSecondary.SellVenue() != VenueSecondary {
		t.Fatal("short secondary must sell on the secondary venue")
	}
	if DirectionShortSecondary.BuyVenue() != VenuePrimary {
		t.Fatal("short secondary must buy on the primary venue")
	}
	if DirectionShortPrimary.SellVenue() != VenuePrimary {
		t.Fatal("short primary must sell on the primary venue")
	}
	if DirectionShortPrimary.BuyVenue() != VenueSecondary {
		t.Fatal("short primary must buy on the secondary venue")
	}
}

func TestInstructionLegs(t *testing.T) {
	instr := TradeInstruction{
		Direction: DirectionShortPrimary,
		Symbol:    SymbolETHBRL,
		AskPrice:  100,
		BidPrice:  108,
		Quantity:  2,
		TotalCost: -1.5,
	}

	legs := instr.Legs()
	sell, buy := legs[0], legs[1]
	if sell.Side != LegSell || sell.Venue != VenuePrimary || sell.Price != 108 {
		t.Fatalf("sell leg = %+v, want sell on primary at 108", sell)
	}
	if buy.Side != LegBuy || buy.Venue != VenueSecondary || buy.Price != 100 {
		t.Fatalf("buy leg = %+v, want buy on secondary at 100", buy)
	}
	if sell.Quantity != 2 || buy.Quantity != 2 {
		t.Fatal("both legs must carry the instruction quantity")
	}
	if sell.Symbol != SymbolETHBRL || buy.Symbol != SymbolETHBRL {
		t.Fatal("both legs must carry the instruction symbol")
	}
}

func TestNewOrderBookFromStrings(t *testing.T) {
	book, err := NewOrderBookFromStrings(
		[][2]string{{"100.5", "1.25"}, {"100.0", "3"}},
		[][2]string{{"101.0", "0.5"}},
	)
	if err != nil {
		t.Fatalf("NewOrderBookFromStrings: %v", err)
	}
	bid, ok := book.BestBid()
	if !ok || bid.Price != 100.5 || bid.Quantity != 1.25 {
		t.Fatalf("best bid = %+v", bid)
	}
	ask, ok := book.BestAsk()
	if !ok || ask.Price != 101.0 || ask.Quantity != 0.5 {
		t.Fatalf("best ask = %+v", ask)
	}

	if _, err := NewOrderBookFromStrings([][2]string{{"abc", "1"}}, nil); err == nil {
		t.Fatal("expected parse error for non-numeric price")
	}
}

func TestNewOrderBookRejectsInvalidLevels(t *testing.T) {
	cases := []struct {
		name       string
		bids, asks [][2]float64
	}{
		{"zero price", [][2]float64{{0, 1}}, nil},
		{"negative price", [][2]float64{{-5, 1}}, nil},
		{"zero quantity", nil, [][2]float64{{100, 0}}},
		{"negative quantity", nil, [][2]float64{{100, -1}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewOrderBookFromFloats(tc.bids, tc.asks); err == nil {
				t.Fatal("expected construction error")
			}
		})
	}
}

func TestEmptyBookSides(t *testing.T) {
	var book OrderBook
	if _, ok := book.BestBid(); ok {
		t.Fatal("empty book must have no best bid")
	}
	if _, ok := book.BestAsk(); ok {
		t.Fatal("empty book must have no best ask")
	}
}

func TestNewLedgerInitializesAllCurrencies(t *testing.T) {
	l := NewLedger(map[Currency]float64{CurrencyBRL: 50_000})
	if len(l) != len(Currencies) {
		t.Fatalf("ledger has %d keys, want %d", len(l), len(Currencies))
	}
	if l[CurrencyBRL] != 50_000 {
		t.Fatalf("BRL = %v, want 50000", l[CurrencyBRL])
	}
	for _, c := range []Currency{CurrencyBTC, CurrencyUSDT, CurrencyETH} {
		if v, ok := l[c]; !ok || v != 0 {
			t.Fatalf("%s = %v (present %v), want 0", c, v, ok)
		}
	}
}

func TestLedgerClone(t *testing.T) {
	l := NewLedger(map[Currency]float64{CurrencyBRL: 100})
	c := l.Clone()
	c[CurrencyBRL] = 1

	if l[CurrencyBRL] != 100 {
		t.Fatal("mutating a clone must not touch the original")
	}
}
