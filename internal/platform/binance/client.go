// Package binance adapts the Binance spot REST API to the domain BookSource
// interface for the primary venue.
package binance

import (
	"context"
	"fmt"
	"net/http"
	"time"

	gbinance "github.com/adshao/go-binance/v2"

	"github.com/mbarbosa/crossarb/internal/domain"
)

// bookDepthLimit is the number of levels requested per side. Only the top of
// book is consumed by the evaluator.
const bookDepthLimit = 5

// Client fetches order books from Binance. The depth endpoint is public, so
// no API credentials are configured.
type Client struct {
	api *gbinance.Client
}

// NewClient creates a Binance client. baseURL overrides the production API
// host when non-empty (useful against testnets or fixtures).
func NewClient(baseURL string, timeout time.Duration) *Client {
	api := gbinance.NewClient("", "")
	api.HTTPClient = &http.Client{Timeout: timeout}
	if baseURL != "" {
		api.BaseURL = baseURL
	}
	return &Client{api: api}
}

// Venue identifies this source as the primary venue.
func (c *Client) Venue() domain.Venue { return domain.VenuePrimary }

// FetchOrderBook retrieves the top of book for the symbol and normalizes the
// string-encoded [price, quantity] pairs into a domain OrderBook.
func (c *Client) FetchOrderBook(ctx context.Context, symbol domain.Symbol) (domain.OrderBook, error) {
	depth, err := c.api.NewDepthService().
		Symbol(symbol.PrimaryParam()).
		Limit(bookDepthLimit).
		Do(ctx)
	if err != nil {
		return domain.OrderBook{}, fmt.Errorf("binance: fetch depth %s: %w", symbol, err)
	}

	bids := make([][2]string, 0, len(depth.Bids))
	for _, b := range depth.Bids {
		bids = append(bids, [2]string{b.Price, b.Quantity})
	}
	asks := make([][2]string, 0, len(depth.Asks))
	for _, a := range depth.Asks {
		asks = append(asks, [2]string{a.Price, a.Quantity})
	}

	book, err := domain.NewOrderBookFromStrings(bids, asks)
	if err != nil {
		return domain.OrderBook{}, fmt.Errorf("binance: normalize book %s: %w", symbol, err)
	}
	return book, nil
}

var _ domain.BookSource = (*Client)(nil)
