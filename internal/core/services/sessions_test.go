package services

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goimon-labs/goimon-cli/internal/core/domain"
)

func TestSessionCreatedOnFirstUpdate(t *testing.T) {
	svc := NewSessionService(0)
	assert.Zero(t, svc.Len())

	svc.Update("s1", func(session *domain.Session) {
		assert.Equal(t, "s1", session.ID)
	})
	assert.Equal(t, 1, svc.Len())

	// Same id reuses the entry.
	svc.Update("s1", func(*domain.Session) {})
	assert.Equal(t, 1, svc.Len())
}

func TestSessionStatePersistsAcrossUpdates(t *testing.T) {
	svc := NewSessionService(0)

	svc.Update("s1", func(session *domain.Session) {
		session.AddToCart(domain.MenuItem{ID: "pho-bo", Name: "Phở Bò", Price: 45000})
	})
	svc.Update("s1", func(session *domain.Session) {
		require.Len(t, session.Cart, 1)
		assert.Equal(t, int64(45000), session.CartTotal())
	})
}

func TestSessionSnapshotIsCopy(t *testing.T) {
	svc := NewSessionService(0)
	orderID := int64(7)

	svc.Update("s1", func(session *domain.Session) {
		session.AddToCart(domain.MenuItem{ID: "pho-bo", Price: 45000})
		session.AppendTurn("hi", "hello")
		session.ActiveOrderID = &orderID
	})

	snap, ok := svc.Snapshot("s1")
	require.True(t, ok)

	snap.Cart[0].ID = "mutated"
	snap.History[0].User = "mutated"
	*snap.ActiveOrderID = 99

	svc.Update("s1", func(session *domain.Session) {
		assert.Equal(t, "pho-bo", session.Cart[0].ID)
		assert.Equal(t, "hi", session.History[0].User)
		assert.Equal(t, int64(7), *session.ActiveOrderID)
	})
}

func TestSessionSnapshotUnknown(t *testing.T) {
	svc := NewSessionService(0)

	_, ok := svc.Snapshot("never-seen")
	assert.False(t, ok)
	assert.Zero(t, svc.Len())
}

func TestSessionConcurrentUpdatesSerialise(t *testing.T) {
	svc := NewSessionService(0)
	const workers = 50

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.Update("s1", func(session *domain.Session) {
				session.AddToCart(domain.MenuItem{ID: "pho-bo", Price: 1})
			})
		}()
	}
	wg.Wait()

	snap, ok := svc.Snapshot("s1")
	require.True(t, ok)
	assert.Len(t, snap.Cart, workers)
	assert.Equal(t, int64(workers), snap.CartTotal())
}

func TestSessionUpdateRetriesAfterEviction(t *testing.T) {
	svc := NewSessionService(time.Minute)

	svc.Update("s1", func(session *domain.Session) {
		session.AppendTurn("hi", "hello")
	})

	// Evict the entry exactly as the sweeper does, simulating a sweep
	// landing between an updater's map lookup and its entry lock.
	svc.mu.Lock()
	e := svc.sessions["s1"]
	delete(svc.sessions, "s1")
	svc.mu.Unlock()
	e.mu.Lock()
	e.evicted = true
	e.mu.Unlock()

	svc.Update("s1", func(session *domain.Session) {
		session.AppendTurn("again", "hello again")
	})

	// The turn must land on the fresh entry the map now holds, never on
	// the orphan.
	snap, ok := svc.Snapshot("s1")
	require.True(t, ok)
	require.Len(t, snap.History, 1)
	assert.Equal(t, "again", snap.History[0].User)

	assert.Len(t, e.session.History, 1)
	assert.Equal(t, "hi", e.session.History[0].User)
}

func TestSessionSweepSkipsBusySession(t *testing.T) {
	svc := NewSessionService(time.Minute)

	now := time.Now()
	svc.now = func() time.Time { return now }
	svc.Update("busy", func(*domain.Session) {})

	now = now.Add(2 * time.Minute)

	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		svc.Update("busy", func(*domain.Session) {
			close(entered)
			<-release
		})
		close(done)
	}()

	<-entered
	svc.sweep()
	assert.Equal(t, 1, svc.Len())

	close(release)
	<-done
}

func TestSessionSweepEvictsIdleSessions(t *testing.T) {
	svc := NewSessionService(time.Minute)

	now := time.Now()
	svc.now = func() time.Time { return now }

	svc.Update("idle", func(*domain.Session) {})

	now = now.Add(2 * time.Minute)
	svc.Update("fresh", func(*domain.Session) {})
	require.Equal(t, 2, svc.Len())

	svc.sweep()

	assert.Equal(t, 1, svc.Len())
	_, ok := svc.Snapshot("idle")
	assert.False(t, ok)
	_, ok = svc.Snapshot("fresh")
	assert.True(t, ok)
}
