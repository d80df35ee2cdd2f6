package binance

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mbarbosa/crossarb/internal/domain"
)

func TestFetchOrderBook(t *testing.T) {
	var gotPath, gotSymbol string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotSymbol = r.URL.Query().Get("symbol")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"lastUpdateId": 1027024,
			"bids": [["352000.10", "0.40"], ["351900.00", "1.20"]],
			"asks": [["352500.00", "0.80"]]
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 2*time.Second)
	book, err := c.FetchOrderBook(context.Background(), domain.SymbolBTCBRL)
	if err != nil {
		t.Fatalf("FetchOrderBook: %v", err)
	}

	if gotPath != "/api/v3/depth" {
		t.Fatalf("path = %q, want /api/v3/depth", gotPath)
	}
	if gotSymbol != "BTCBRL" {
		t.Fatalf("symbol param = %q, want BTCBRL", gotSymbol)
	}
	bid, ok := book.BestBid()
	if !ok || bid.Price != 352000.10 || bid.Quantity != 0.40 {
		t.Fatalf("best bid = %+v, want 352000.10 x 0.40", bid)
	}
	ask, ok := book.BestAsk()
	if !ok || ask.Price != 352500.00 || ask.Quantity != 0.80 {
		t.Fatalf("best ask = %+v, want 352500 x 0.80", ask)
	}
}

func TestFetchOrderBookAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code": -1121, "msg": "Invalid symbol."}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 2*time.Second)
	if _, err := c.FetchOrderBook(context.Background(), domain.SymbolBTCBRL); err == nil {
		t.Fatal("expected error for API failure")
	}
}
