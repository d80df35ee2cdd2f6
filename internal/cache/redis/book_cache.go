package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mbarbosa/crossarb/internal/domain"
)

// bookTTL bounds how long a stale snapshot stays visible. A single run's
// inputs are only interesting for post-hoc inspection, not as live data.
const bookTTL = 24 * time.Hour

// BookCache implements domain.BookCache using one JSON value per venue and
// symbol.
//
// Key schema:
//
//	book:{venue}:{symbol} - JSON snapshot {bids, asks, fetched_at}
type BookCache struct {
	rdb *redis.Client
}

// NewBookCache creates a BookCache backed by the given Client.
func NewBookCache(c *Client) *BookCache {
	return &BookCache{rdb: c.rdb}
}

func bookKey(venue domain.Venue, symbol domain.Symbol) string {
	return "book:" + string(venue) + ":" + string(symbol)
}

// snapshot is the stored wire shape.
type snapshot struct {
	Bids      []domain.PriceLevel `json:"bids"`
	Asks      []domain.PriceLevel `json:"asks"`
	FetchedAt time.Time           `json:"fetched_at"`
}

// SetBook stores the most recently fetched book for a venue and symbol.
func (bc *BookCache) SetBook(ctx context.Context, venue domain.Venue, symbol domain.Symbol, book domain.OrderBook, ts time.Time) error {
	data, err := json.Marshal(snapshot{Bids: book.Bids, Asks: book.Asks, FetchedAt: ts})
	if err != nil {
		return fmt.Errorf("redis: marshal book %s/%s: %w", venue, symbol, err)
	}
	if err := bc.rdb.Set(ctx, bookKey(venue, symbol), data, bookTTL).Err(); err != nil {
		return fmt.Errorf("redis: set book %s/%s: %w", venue, symbol, err)
	}
	return nil
}

// GetBook returns the last stored book for a venue and symbol, with its fetch
// time. It returns domain.ErrNotFound when no snapshot exists.
func (bc *BookCache) GetBook(ctx context.Context, venue domain.Venue, symbol domain.Symbol) (domain.OrderBook, time.Time, error) {
	data, err := bc.rdb.Get(ctx, bookKey(venue, symbol)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.OrderBook{}, time.Time{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.OrderBook{}, time.Time{}, fmt.Errorf("redis: get book %s/%s: %w", venue, symbol, err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return domain.OrderBook{}, time.Time{}, fmt.Errorf("redis: decode book %s/%s: %w", venue, symbol, err)
	}
	return domain.OrderBook{Bids: snap.Bids, Asks: snap.Asks}, snap.FetchedAt, nil
}

// Compile-time interface check.
var _ domain.BookCache = (*BookCache)(nil)
