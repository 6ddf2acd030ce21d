package session

import (
	"context"
	"sync"
	"time"

	"goincome/domain/view"
	"goincome/internal"
	"goincome/ports"

	"github.com/google/uuid"
)

// CookieName carries the session ID between requests
const CookieName = "goincome_session"

// NewID returns a fresh session ID
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether s looks like an ID issued by NewID
func ValidID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

type entry struct {
	state    view.State
	lastSeen time.Time
}

var _ ports.SessionRepository = (*MemoryStore)(nil)

// MemoryStore keeps view states in process memory. Nothing survives a restart.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*entry
	ttl     time.Duration
	now     func() time.Time
	logger  *internal.Logger
}

// NewMemoryStore creates a store whose sessions expire after ttl of inactivity
func NewMemoryStore(ttl time.Duration, logger *internal.Logger) *MemoryStore {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &MemoryStore{
		entries: make(map[string]*entry),
		ttl:     ttl,
		now:     time.Now,
		logger:  logger.With("Sessions"),
	}
}

// Get returns the state of a session and whether it exists
func (s *MemoryStore) Get(sessionID string) (view.State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[sessionID]
	if !ok {
		return view.State{}, false
	}
	e.lastSeen = s.now()
	return e.state, true
}

// Update applies fn under the store lock, so transitions never interleave
func (s *MemoryStore) Update(sessionID string, fn func(view.State) view.State) view.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[sessionID]
	if !ok {
		e = &entry{state: view.New()}
		s.entries[sessionID] = e
	}
	e.state = fn(e.state)
	e.lastSeen = s.now()
	return e.state
}

// Delete drops a session
func (s *MemoryStore) Delete(sessionID string) {
	s.mu.Lock()
	delete(s.entries, sessionID)
	s.mu.Unlock()
}

// Len returns the number of live sessions
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// CleanupExpired removes sessions idle for longer than the TTL and returns how many were removed
func (s *MemoryStore) CleanupExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	removed := 0
	for id, e := range s.entries {
		if e.lastSeen.Before(cutoff) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

// RunJanitor prunes expired sessions every interval until ctx is done
func (s *MemoryStore) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.CleanupExpired(); n > 0 {
				s.logger.Debug("pruned %d idle sessions, %d remaining", n, s.Len())
			}
		}
	}
}
