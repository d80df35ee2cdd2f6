// Package mercadobitcoin adapts the Mercado Bitcoin public data API to the
// domain BookSource interface for the secondary venue.
package mercadobitcoin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mbarbosa/crossarb/internal/domain"
)

// DefaultBaseURL is the production data API root.
const DefaultBaseURL = "https://www.mercadobitcoin.net/api"

// Client is the REST client for the Mercado Bitcoin data API. The orderbook
// endpoint is public and addressed by base coin, with BRL as the implied
// quote currency.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Mercado Bitcoin client. baseURL falls back to the
// production host when empty.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Venue identifies this source as the secondary venue.
func (c *Client) Venue() domain.Venue { return domain.VenueSecondary }

// orderbookResponse is the venue wire format: numeric [price, quantity]
// pairs. The timestamp is not consumed by the core.
type orderbookResponse struct {
	Timestamp int64        `json:"timestamp"`
	Bids      [][2]float64 `json:"bids"`
	Asks      [][2]float64 `json:"asks"`
}

// FetchOrderBook retrieves the book for the symbol's base coin and
// normalizes it into a domain OrderBook.
func (c *Client) FetchOrderBook(ctx context.Context, symbol domain.Symbol) (domain.OrderBook, error) {
	url := fmt.Sprintf("%s/%s/orderbook/", c.baseURL, symbol.SecondaryParam())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.OrderBook{}, fmt.Errorf("mercadobitcoin: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.OrderBook{}, fmt.Errorf("mercadobitcoin: fetch orderbook %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return domain.OrderBook{}, fmt.Errorf("mercadobitcoin: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var payload orderbookResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.OrderBook{}, fmt.Errorf("mercadobitcoin: decode orderbook %s: %w", symbol, err)
	}

	book, err := domain.NewOrderBookFromFloats(payload.Bids, payload.Asks)
	if err != nil {
		return domain.OrderBook{}, fmt.Errorf("mercadobitcoin: normalize book %s: %w", symbol, err)
	}
	return book, nil
}

var _ domain.BookSource = (*Client)(nil)
