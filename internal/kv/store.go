// Package kv provides the small key-value persistence medium used for
// client-side state such as the seen-order ledger and the last-order banner.
package kv

import (
	"context"
	"sync"
)

// Store is a plain text key-value medium. A missing key is reported with
// ok == false and a nil error; absence is never an error.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// MemoryStore keeps values in process memory. Used in tests and when
// clientstate.backend is "memory".
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[key]
	return value, ok, nil
}

func (s *MemoryStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

type prefixedStore struct {
	next   Store
	prefix string
}

// WithPrefix scopes every key of next under prefix.
func WithPrefix(next Store, prefix string) Store {
	return &prefixedStore{next: next, prefix: prefix}
}

func (s *prefixedStore) Get(ctx context.Context, key string) (string, bool, error) {
	return s.next.Get(ctx, s.prefix+key)
}

func (s *prefixedStore) Set(ctx context.Context, key, value string) error {
	return s.next.Set(ctx, s.prefix+key, value)
}
