package pos

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/appetiteclub/tableside/internal/cart"
	"github.com/appetiteclub/tableside/internal/clientstate"
	"github.com/appetiteclub/tableside/internal/orders"
)

const sweepInterval = 5 * time.Minute

// Session is the client state of one browser: the customer's cart and
// last-order banner, and the admin board.
type Session struct {
	ID        string
	Cart      *cart.Cart
	Board     *orders.Board
	LastOrder *clientstate.LastOrder
	CreatedAt time.Time
	ExpiresAt time.Time
}

// SessionFactory builds the per-session components for id.
type SessionFactory func(id string) *Session

type SessionStore struct {
	sessions map[string]*Session
	mu       sync.RWMutex
	ttl      time.Duration
	factory  SessionFactory
	now      func() time.Time

	cancel context.CancelFunc
	done   chan struct{}
}

func NewSessionStore(ttl time.Duration, factory SessionFactory) *SessionStore {
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	return &SessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		factory:  factory,
		now:      time.Now,
	}
}

// Ensure returns the live session for id, creating one when id is unknown
// or expired. A well-formed id is kept so state persisted under it stays
// reachable after a restart.
func (s *SessionStore) Ensure(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if session, ok := s.sessions[id]; ok && now.Before(session.ExpiresAt) {
		session.ExpiresAt = now.Add(s.ttl)
		return session, false
	}

	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}

	session := s.factory(id)
	session.ID = id
	session.CreatedAt = now
	session.ExpiresAt = now.Add(s.ttl)
	s.sessions[id] = session

	return session, true
}

func (s *SessionStore) Get(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, errors.New("session not found")
	}
	if s.now().After(session.ExpiresAt) {
		return nil, errors.New("session expired")
	}
	return session, nil
}

func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Start runs the expiry sweeper until Stop.
func (s *SessionStore) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return errors.New("session sweeper already running")
	}

	sweepCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.cleanup(sweepCtx, s.done)

	return nil
}

func (s *SessionStore) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.cancel == nil {
		s.mu.Unlock()
		return nil
	}
	s.cancel()
	s.cancel = nil
	done := s.done
	s.mu.Unlock()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *SessionStore) cleanup(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *SessionStore) sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}
