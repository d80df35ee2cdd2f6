package mercadobitcoin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mbarbosa/crossarb/internal/domain"
)

func TestFetchOrderBook(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"timestamp": 1700000000,
			"bids": [[352100.5, 0.25], [352000.0, 1.0]],
			"asks": [[352900.0, 0.5], [353000.0, 2.0]]
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 2*time.Second)
	book, err := c.FetchOrderBook(context.Background(), domain.SymbolBTCBRL)
	if err != nil {
		t.Fatalf("FetchOrderBook: %v", err)
	}

	if gotPath != "/BTC/orderbook/" {
		t.Fatalf("path = %q, want /BTC/orderbook/", gotPath)
	}
	bid, ok := book.BestBid()
	if !ok || bid.Price != 352100.5 || bid.Quantity != 0.25 {
		t.Fatalf("best bid = %+v, want 352100.5 x 0.25", bid)
	}
	ask, ok := book.BestAsk()
	if !ok || ask.Price != 352900.0 || ask.Quantity != 0.5 {
		t.Fatalf("best ask = %+v, want 352900 x 0.5", ask)
	}
	if len(book.Bids) != 2 || len(book.Asks) != 2 {
		t.Fatalf("levels = (%d, %d), want (2, 2)", len(book.Bids), len(book.Asks))
	}
}

func TestFetchOrderBookSymbolRouting(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"timestamp": 1, "bids": [[5.5, 100]], "asks": [[5.6, 100]]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 2*time.Second)
	if _, err := c.FetchOrderBook(context.Background(), domain.SymbolUSDTBRL); err != nil {
		t.Fatalf("FetchOrderBook: %v", err)
	}
	if gotPath != "/USDT/orderbook/" {
		t.Fatalf("path = %q, want /USDT/orderbook/", gotPath)
	}
}

func TestFetchOrderBookHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broken", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 2*time.Second)
	if _, err := c.FetchOrderBook(context.Background(), domain.SymbolBTCBRL); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestFetchOrderBookRejectsMalformedLevels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"timestamp": 1, "bids": [[-100, 1]], "asks": [[101, 1]]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 2*time.Second)
	if _, err := c.FetchOrderBook(context.Background(), domain.SymbolBTCBRL); err == nil {
		t.Fatal("expected error for non-positive price")
	}
}

func TestNewClientDefaultBaseURL(t *testing.T) {
	c := NewClient("", time.Second)
	if c.baseURL != DefaultBaseURL {
		t.Fatalf("baseURL = %q, want %q", c.baseURL, DefaultBaseURL)
	}
}
