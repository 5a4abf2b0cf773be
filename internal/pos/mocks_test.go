package pos

import (
	"context"
	"errors"
	"sync"

	"github.com/appetiteclub/tableside/internal/catalog"
	"github.com/appetiteclub/tableside/internal/orders"
)

// staticMenu implements MenuSource for testing
type staticMenu struct {
	snapshot catalog.Snapshot
}

func (m staticMenu) Snapshot() catalog.Snapshot {
	return m.snapshot
}

// MockOrderStore implements orders.Store and orders.Submitter for testing
type MockOrderStore struct {
	ListOrdersFunc  func(ctx context.Context) ([]orders.Order, error)
	DeleteOrderFunc func(ctx context.Context, id string) error
	CreateOrderFunc func(ctx context.Context, sub orders.Submission) (*orders.Order, error)

	mu      sync.Mutex
	created []orders.Submission
}

func (m *MockOrderStore) ListOrders(ctx context.Context) ([]orders.Order, error) {
	if m.ListOrdersFunc != nil {
		return m.ListOrdersFunc(ctx)
	}
	return nil, errors.New("not implemented")
}

func (m *MockOrderStore) DeleteOrder(ctx context.Context, id string) error {
	if m.DeleteOrderFunc != nil {
		return m.DeleteOrderFunc(ctx, id)
	}
	return nil
}

func (m *MockOrderStore) CreateOrder(ctx context.Context, sub orders.Submission) (*orders.Order, error) {
	m.mu.Lock()
	m.created = append(m.created, sub)
	m.mu.Unlock()

	if m.CreateOrderFunc != nil {
		return m.CreateOrderFunc(ctx, sub)
	}
	return nil, errors.New("not implemented")
}

func (m *MockOrderStore) Created() []orders.Submission {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]orders.Submission(nil), m.created...)
}
