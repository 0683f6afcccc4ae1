package services

import (
	"context"
	"sync"
	"time"

	"github.com/goimon-labs/goimon-cli/internal/core/domain"
	"github.com/goimon-labs/goimon-cli/internal/logger"
)

// sessionEntry wraps a session with its own lock so concurrent requests for
// the same session serialise against each other without blocking other
// sessions.
type sessionEntry struct {
	mu      sync.Mutex
	session *domain.Session

	// evicted marks an entry the sweeper removed from the map. Guarded by
	// mu; an updater that lands on an evicted entry must retry against a
	// fresh one.
	evicted bool
}

// SessionService is the in-memory session store. Sessions are created
// lazily on first contact and, unless a TTL is configured, live for the
// process lifetime.
//
// The outer map lock is held only for entry lookup/insertion; all
// read-modify-write of session state happens under the per-entry lock via
// Update, so overlapping requests for one session cannot lose updates.
type SessionService struct {
	mu       sync.RWMutex
	sessions map[string]*sessionEntry
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionService creates a session store. A zero ttl disables expiry.
func NewSessionService(ttl time.Duration) *SessionService {
	return &SessionService{
		sessions: make(map[string]*sessionEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

// entry returns the entry for a session id, creating it if unseen.
func (s *SessionService) entry(id string) *sessionEntry {
	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()
	if ok {
		return e
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok = s.sessions[id]; ok {
		return e
	}
	e = &sessionEntry{
		session: &domain.Session{ID: id, LastActive: s.now()},
	}
	s.sessions[id] = e
	logger.Debug("Created session %s", id)
	return e
}

// Update runs fn with exclusive access to the session, creating the session
// if it does not exist yet. LastActive is touched after fn returns.
//
// The sweeper can evict a session between the map lookup and the entry
// lock; such an entry is marked evicted and the update retries so fn never
// lands on state the map no longer holds.
func (s *SessionService) Update(id string, fn func(*domain.Session)) {
	for {
		e := s.entry(id)
		e.mu.Lock()
		if e.evicted {
			e.mu.Unlock()
			continue
		}
		fn(e.session)
		e.session.LastActive = s.now()
		e.mu.Unlock()
		return
	}
}

// Snapshot returns a copy of the session state, or false if the session has
// never been seen. Cart and history slices are copied so callers can read
// them without holding the session lock.
func (s *SessionService) Snapshot(id string) (domain.Session, bool) {
	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return domain.Session{}, false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	snap := *e.session
	snap.Cart = append([]domain.MenuItem(nil), e.session.Cart...)
	snap.History = append([]domain.Turn(nil), e.session.History...)
	if e.session.ActiveOrderID != nil {
		id := *e.session.ActiveOrderID
		snap.ActiveOrderID = &id
	}
	return snap, true
}

// Len returns the number of live sessions.
func (s *SessionService) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// StartSweeper evicts sessions idle for longer than the TTL, checking every
// interval until the context is cancelled. No-op when TTL is zero.
func (s *SessionService) StartSweeper(ctx context.Context, interval time.Duration) {
	if s.ttl <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweep()
			}
		}
	}()
}

func (s *SessionService) sweep() {
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range s.sessions {
		// A contended entry lock means the session is mid-turn; leave it
		// for the next pass.
		if !e.mu.TryLock() {
			continue
		}
		if e.session.LastActive.Before(cutoff) {
			e.evicted = true
			delete(s.sessions, id)
			logger.Debug("Evicted idle session %s", id)
		}
		e.mu.Unlock()
	}
}
