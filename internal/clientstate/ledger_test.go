package clientstate

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/appetiteclub/tableside/internal/kv"
)

// failingStore implements kv.Store and fails every call
type failingStore struct{}

func (failingStore) Get(ctx context.Context, key string) (string, bool, error) {
	return "", false, errors.New("disk unavailable")
}

func (failingStore) Set(ctx context.Context, key, value string) error {
	return errors.New("disk unavailable")
}

func TestLedgerIsNewBeforeAndAfterMarkSeen(t *testing.T) {
	ctx := context.Background()
	ledger := NewLedger(kv.NewMemoryStore(), nil)

	if !ledger.IsNew(ctx, "o-1") {
		t.Fatal("IsNew() should be true before MarkSeen()")
	}

	if err := ledger.MarkSeen(ctx, "o-1"); err != nil {
		t.Fatalf("MarkSeen() error = %v", err)
	}

	for _, other := range []string{"o-2", "o-3"} {
		_ = ledger.MarkSeen(ctx, other)
		if ledger.IsNew(ctx, "o-1") {
			t.Errorf("IsNew(o-1) = true after marking %s", other)
		}
	}
}

func TestLedgerMarkSeenIdempotent(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	ledger := NewLedger(store, nil)

	_ = ledger.MarkSeen(ctx, "o-1")
	once, _, _ := store.Get(ctx, SeenOrdersKey)

	_ = ledger.MarkSeen(ctx, "o-1")
	twice, _, _ := store.Get(ctx, SeenOrdersKey)

	if once != twice {
		t.Errorf("stored set changed on repeated MarkSeen(): %q then %q", once, twice)
	}
	if once != `["o-1"]` {
		t.Errorf("stored set = %q, want JSON array of ids", once)
	}
}

func TestLedgerSharedStore(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()

	first := NewLedger(store, nil)
	second := NewLedger(store, nil)

	_ = first.MarkSeen(ctx, "o-1")
	if second.IsNew(ctx, "o-1") {
		t.Error("a ledger should see orders marked by another ledger on the same store")
	}

	_ = second.MarkSeen(ctx, "o-2")
	seen, err := first.Seen(ctx)
	if err != nil {
		t.Fatalf("Seen() error = %v", err)
	}
	if len(seen) != 2 {
		t.Errorf("Seen() = %v, want both ids", seen)
	}
}

func TestLedgerAbsentKeyIsEmpty(t *testing.T) {
	ledger := NewLedger(kv.NewMemoryStore(), nil)

	seen, err := ledger.Seen(context.Background())
	if err != nil {
		t.Fatalf("Seen() error = %v", err)
	}
	if len(seen) != 0 {
		t.Errorf("Seen() = %v, want empty set", seen)
	}
}

func TestLedgerMalformedValue(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	_ = store.Set(ctx, SeenOrdersKey, "{not json")
	ledger := NewLedger(store, nil)

	if !ledger.IsNew(ctx, "o-1") {
		t.Error("IsNew() should treat a malformed set as empty")
	}
	if err := ledger.MarkSeen(ctx, "o-1"); err == nil {
		t.Error("MarkSeen() should refuse to overwrite a malformed set")
	}

	raw, _, _ := store.Get(ctx, SeenOrdersKey)
	if raw != "{not json" {
		t.Errorf("stored value = %q, want untouched", raw)
	}
}

func TestLedgerStoreFailure(t *testing.T) {
	ledger := NewLedger(failingStore{}, nil)
	ctx := context.Background()

	if !ledger.IsNew(ctx, "o-1") {
		t.Error("IsNew() should report new when the store is unreadable")
	}
	if err := ledger.MarkSeen(ctx, "o-1"); err == nil {
		t.Error("MarkSeen() should return the store error")
	}
}

func TestLedgerConcurrentMarkSeen(t *testing.T) {
	ctx := context.Background()
	ledger := NewLedger(kv.NewMemoryStore(), nil)

	ids := []string{"o-1", "o-2", "o-3", "o-4", "o-5", "o-6", "o-7", "o-8"}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_ = ledger.MarkSeen(ctx, id)
		}(id)
	}
	wg.Wait()

	for _, id := range ids {
		if ledger.IsNew(ctx, id) {
			t.Errorf("IsNew(%s) = true, concurrent marks should not be lost", id)
		}
	}
}
