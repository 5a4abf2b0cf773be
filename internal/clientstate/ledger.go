// Package clientstate keeps the small pieces of client state that outlive a
// session: the seen-order ledger and the last-order banner.
package clientstate

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/aquamarinepk/aqm"

	"github.com/appetiteclub/tableside/internal/kv"
)

const SeenOrdersKey = "seenOrders"

// Ledger records which orders have been opened. The set lives only in the
// store and is read again on every call, so several ledgers sharing a
// store observe each other's writes.
type Ledger struct {
	store  kv.Store
	logger aqm.Logger
	mu     sync.Mutex
}

func NewLedger(store kv.Store, logger aqm.Logger) *Ledger {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &Ledger{store: store, logger: logger}
}

// IsNew reports whether orderID has never been opened. An unreadable set
// counts as empty.
func (l *Ledger) IsNew(ctx context.Context, orderID string) bool {
	seen, err := l.load(ctx)
	if err != nil {
		l.logger.Error("cannot read seen orders, treating as empty", "error", err)
		return true
	}
	return !contains(seen, orderID)
}

// MarkSeen adds orderID to the set. Calling it again is a no-op.
func (l *Ledger) MarkSeen(ctx context.Context, orderID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	seen, err := l.load(ctx)
	if err != nil {
		return err
	}
	if contains(seen, orderID) {
		return nil
	}

	raw, err := json.Marshal(append(seen, orderID))
	if err != nil {
		return fmt.Errorf("cannot encode seen orders: %w", err)
	}
	if err := l.store.Set(ctx, SeenOrdersKey, string(raw)); err != nil {
		return fmt.Errorf("cannot save seen orders: %w", err)
	}
	return nil
}

// Seen returns the persisted set in insertion order.
func (l *Ledger) Seen(ctx context.Context) ([]string, error) {
	return l.load(ctx)
}

func (l *Ledger) load(ctx context.Context) ([]string, error) {
	if l.store == nil {
		return nil, fmt.Errorf("seen ledger has no store")
	}

	raw, ok, err := l.store.Get(ctx, SeenOrdersKey)
	if err != nil {
		return nil, fmt.Errorf("cannot read seen orders: %w", err)
	}
	if !ok || raw == "" || raw == "null" {
		return []string{}, nil
	}

	var seen []string
	if err := json.Unmarshal([]byte(raw), &seen); err != nil {
		return nil, fmt.Errorf("malformed seen orders: %w", err)
	}
	return seen, nil
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
