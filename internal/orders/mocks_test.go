package orders

import (
	"context"
	"errors"
	"sync"
)

// MockStore implements Store for testing
type MockStore struct {
	ListOrdersFunc  func(ctx context.Context) ([]Order, error)
	DeleteOrderFunc func(ctx context.Context, id string) error

	mu      sync.Mutex
	deleted []string
}

func (m *MockStore) ListOrders(ctx context.Context) ([]Order, error) {
	if m.ListOrdersFunc != nil {
		return m.ListOrdersFunc(ctx)
	}
	return nil, errors.New("not implemented")
}

func (m *MockStore) DeleteOrder(ctx context.Context, id string) error {
	m.mu.Lock()
	m.deleted = append(m.deleted, id)
	m.mu.Unlock()

	if m.DeleteOrderFunc != nil {
		return m.DeleteOrderFunc(ctx, id)
	}
	return nil
}

func (m *MockStore) DeleteCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.deleted...)
}

// MockLedger implements Ledger for testing
type MockLedger struct {
	mu   sync.Mutex
	seen map[string]bool
}

func NewMockLedger() *MockLedger {
	return &MockLedger{seen: make(map[string]bool)}
}

func (m *MockLedger) IsNew(ctx context.Context, orderID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.seen[orderID]
}

func (m *MockLedger) MarkSeen(ctx context.Context, orderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seen[orderID] = true
	return nil
}
