package domain

// Ledger maps each supported currency to its simulated holdings. A ledger is
// always fully initialized: every supported currency has a key, even at zero.
// Ledgers are treated as immutable values; mutation happens only through
// copy-on-write settlement in the ledger package.
type Ledger map[Currency]float64

// NewLedger builds a fully-initialized ledger from the given starting
// balances. Currencies absent from initial start at zero.
func NewLedger(initial map[Currency]float64) Ledger {
	l := make(Ledger, len(Currencies))
	for _, c := range Currencies {
		l[c] = initial[c]
	}
	return l
}

// Clone returns an independent copy of the ledger.
func (l Ledger) Clone() Ledger {
	out := make(Ledger, len(l))
	for c, v := range l {
		out[c] = v
	}
	return out
}
