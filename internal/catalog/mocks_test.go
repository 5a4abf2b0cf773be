package catalog

import (
	"context"
	"errors"
)

// MockSource implements Source for testing
type MockSource struct {
	ListCategoriesFunc func(ctx context.Context) ([]Category, error)
	ListItemsFunc      func(ctx context.Context) ([]Item, error)
}

func (m *MockSource) ListCategories(ctx context.Context) ([]Category, error) {
	if m.ListCategoriesFunc != nil {
		return m.ListCategoriesFunc(ctx)
	}
	return nil, errors.New("not implemented")
}

func (m *MockSource) ListItems(ctx context.Context) ([]Item, error) {
	if m.ListItemsFunc != nil {
		return m.ListItemsFunc(ctx)
	}
	return nil, errors.New("not implemented")
}

func staticSource(categories []Category, items []Item) *MockSource {
	return &MockSource{
		ListCategoriesFunc: func(ctx context.Context) ([]Category, error) { return categories, nil },
		ListItemsFunc:      func(ctx context.Context) ([]Item, error) { return items, nil },
	}
}
