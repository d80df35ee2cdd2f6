package domain

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrUnknownSymbol    = errors.New("unknown symbol")
	ErrUnknownDirection = errors.New("unknown trade direction")
	ErrMissingCurrency  = errors.New("currency missing from ledger")
)
