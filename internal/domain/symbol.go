package domain

import "fmt"

// Venue identifies one of the two exchanges being compared.
type Venue string

const (
	// VenuePrimary is the flat-fee venue (Binance).
	VenuePrimary Venue = "binance"
	// VenueSecondary is the tiered-fee venue (Mercado Bitcoin).
	VenueSecondary Venue = "mercadobitcoin"
)

// Currency is a settlement asset tracked by the ledger.
type Currency string

const (
	CurrencyBRL  Currency = "BRL"
	CurrencyBTC  Currency = "BTC"
	CurrencyUSDT Currency = "USDT"
	CurrencyETH  Currency = "ETH"
)

// Currencies lists every supported settlement asset. Ledgers are initialized
// with all of them so settlement never hits a missing key.
var Currencies = []Currency{CurrencyBRL, CurrencyBTC, CurrencyUSDT, CurrencyETH}

// Symbol is a tradable pair quoted in BRL.
type Symbol string

const (
	SymbolBTCBRL  Symbol = "BTCBRL"
	SymbolUSDTBRL Symbol = "USDTBRL"
	SymbolETHBRL  Symbol = "ETHBRL"
)

// ParseSymbol converts a config string into a Symbol.
func ParseSymbol(s string) (Symbol, error) {
	switch Symbol(s) {
	case SymbolBTCBRL, SymbolUSDTBRL, SymbolETHBRL:
		return Symbol(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSymbol, s)
	}
}

// Base returns the currency delivered when the symbol is bought.
func (s Symbol) Base() Currency {
	switch s {
	case SymbolBTCBRL:
		return CurrencyBTC
	case SymbolUSDTBRL:
		return CurrencyUSDT
	case SymbolETHBRL:
		return CurrencyETH
	default:
		return ""
	}
}

// Quote returns the currency paid when the symbol is bought. All supported
// pairs settle in BRL.
func (s Symbol) Quote() Currency { return CurrencyBRL }

// PrimaryParam returns the symbol parameter used by the primary venue's API.
func (s Symbol) PrimaryParam() string { return string(s) }

// SecondaryParam returns the coin parameter used by the secondary venue's API,
// which addresses books by base coin rather than by pair.
func (s Symbol) SecondaryParam() string { return string(s.Base()) }
