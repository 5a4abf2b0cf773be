package clientstate

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/appetiteclub/tableside/internal/kv"
)

const LatestOrderKey = "latestOrder"

// Summary is what the last-order banner shows.
type Summary struct {
	OrderID    string    `json:"order_id"`
	Table      string    `json:"table"`
	TotalQty   int       `json:"total_qty"`
	TotalPrice float64   `json:"total_price"`
	PlacedAt   time.Time `json:"placed_at"`
}

type LastOrder struct {
	store kv.Store
}

func NewLastOrder(store kv.Store) *LastOrder {
	return &LastOrder{store: store}
}

func (l *LastOrder) Save(ctx context.Context, summary Summary) error {
	raw, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("cannot encode last order: %w", err)
	}
	if err := l.store.Set(ctx, LatestOrderKey, string(raw)); err != nil {
		return fmt.Errorf("cannot save last order: %w", err)
	}
	return nil
}

// Load returns nil when no order was placed yet.
func (l *LastOrder) Load(ctx context.Context) (*Summary, error) {
	raw, ok, err := l.store.Get(ctx, LatestOrderKey)
	if err != nil {
		return nil, fmt.Errorf("cannot read last order: %w", err)
	}
	if !ok || raw == "" || raw == "null" {
		return nil, nil
	}

	var summary Summary
	if err := json.Unmarshal([]byte(raw), &summary); err != nil {
		return nil, fmt.Errorf("malformed last order: %w", err)
	}
	return &summary, nil
}
