// Package session holds per-session scratch state that is not worth a
// database table: today that is only the "last search" snapshot used by
// back-navigation. Entries are process-local and expire after a TTL.
package session

import (
	"sync"
	"time"

	"github.com/atlasbus/backend/internal/domain"
)

// DefaultTTL is how long a last-search entry survives without being rewritten.
const DefaultTTL = 24 * time.Hour

// Store is a TTL-bounded map of session id → last search parameters.
// Safe for concurrent use. Expired entries are dropped lazily on access.
type Store struct {
	mu  sync.RWMutex
	ttl time.Duration
	m   map[string]entry

	// now is injected so expiry tests can pin the clock.
	now func() time.Time
}

type entry struct {
	value   domain.LastSearch
	expires time.Time
}

// NewStore returns a Store with the given TTL; ttl <= 0 uses DefaultTTL.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{ttl: ttl, m: make(map[string]entry), now: time.Now}
}

// Put records the last search for a session, resetting its TTL.
func (s *Store) Put(sessionID string, v domain.LastSearch) {
	if sessionID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[sessionID] = entry{value: v, expires: s.now().Add(s.ttl)}
}

// Get returns the last search for a session, if present and unexpired.
func (s *Store) Get(sessionID string) (domain.LastSearch, bool) {
	s.mu.RLock()
	e, ok := s.m[sessionID]
	s.mu.RUnlock()
	if !ok {
		return domain.LastSearch{}, false
	}
	if s.now().After(e.expires) {
		s.mu.Lock()
		delete(s.m, sessionID)
		s.mu.Unlock()
		return domain.LastSearch{}, false
	}
	return e.value, true
}
