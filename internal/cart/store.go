package cart

import "sync"

// Store keeps one cart per browsing session. Each cart is exclusively owned
// by its session; the lock only guards the map itself plus the handoff of the
// per-session mutex.
type Store struct {
	mu    sync.Mutex
	carts map[string]*sessionCart
}

type sessionCart struct {
	mu   sync.Mutex
	cart *Cart
}

func NewStore() *Store {
	return &Store{carts: make(map[string]*sessionCart)}
}

// With runs fn against the session's cart, creating it on first use. Mutations
// made by fn are visible to subsequent calls for the same session.
func (s *Store) With(sessionID string, fn func(c *Cart)) {
	s.mu.Lock()
	entry, ok := s.carts[sessionID]
	if !ok {
		entry = &sessionCart{cart: New()}
		s.carts[sessionID] = entry
	}
	s.mu.Unlock()

	entry.mu.Lock()
	defer entry.mu.Unlock()
	fn(entry.cart)
}

// Drop discards a session's cart entirely, e.g. after checkout succeeds.
func (s *Store) Drop(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
}
