// Package session provides the per-user dialogue session store.
package session

import (
	"sync"
	"time"

	"github.com/scribe-bot/scribe/internal/models"
)

// entry pairs a session with its own lock so that holding one user's
// session never blocks another user's.
type entry struct {
	mu      sync.Mutex
	session *models.Session
}

// Store holds at most one active dialogue session per user identity.
// The store-level lock guards only the map; all per-session work
// happens under the entry lock.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{entries: make(map[string]*entry)}
}

// Acquire returns the user's session with its lock held, creating a
// fresh idle session on first use. The returned release func must be
// called when the caller is done mutating the session. Collaborator
// I/O performed while holding the lock only serializes events for the
// same user identity.
func (s *Store) Acquire(userID string) (*models.Session, func()) {
	s.mu.Lock()
	e, ok := s.entries[userID]
	if !ok {
		e = &entry{session: models.NewSession(userID)}
		s.entries[userID] = e
	}
	s.mu.Unlock()

	e.mu.Lock()
	e.session.UpdatedAt = time.Now().UTC()
	return e.session, e.mu.Unlock
}

// Reset returns the user's session to idle, discarding in-progress
// data. It is a no-op for unknown users.
func (s *Store) Reset(userID string) {
	s.mu.Lock()
	e, ok := s.entries[userID]
	s.mu.Unlock()
	if !ok {
		return
	}

	e.mu.Lock()
	e.session.Reset()
	e.mu.Unlock()
}

// Len reports the number of tracked sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// ReapIdle drops sessions whose last activity is older than ttl,
// returning the affected user identities. Sessions mid-dialogue are
// reaped like any other; the user simply starts over.
func (s *Store) ReapIdle(ttl time.Duration) []string {
	if ttl <= 0 {
		return nil
	}
	cutoff := time.Now().UTC().Add(-ttl)

	s.mu.Lock()
	candidates := make(map[string]*entry, len(s.entries))
	for userID, e := range s.entries {
		candidates[userID] = e
	}
	s.mu.Unlock()

	reaped := make([]string, 0)
	for userID, e := range candidates {
		e.mu.Lock()
		stale := e.session.UpdatedAt.Before(cutoff)
		e.mu.Unlock()
		if !stale {
			continue
		}

		s.mu.Lock()
		// Re-check under the map lock in case the session saw an event
		// between the staleness check and now.
		if cur, ok := s.entries[userID]; ok && cur == e {
			e.mu.Lock()
			if e.session.UpdatedAt.Before(cutoff) {
				delete(s.entries, userID)
				reaped = append(reaped, userID)
			}
			e.mu.Unlock()
		}
		s.mu.Unlock()
	}
	return reaped
}
