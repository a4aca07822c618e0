// Package memory provides an in-process session store with optional TTL
// expiry. It is the default backing and the one used by tests.
package memory

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fairyhunter13/ai-interviewer/internal/domain"
)

type entry struct {
	sess      domain.Session
	expiresAt time.Time
}

// Store implements domain.SessionStore with a mutex-guarded map. Writes
// overwrite; concurrent writers to the same id race with last-write-wins.
type Store struct {
	mu    sync.RWMutex
	ttl   time.Duration
	items map[string]entry
	now   func() time.Time
}

// New constructs a Store. ttl of 0 disables expiry.
func New(ttl time.Duration) *Store {
	return &Store{ttl: ttl, items: make(map[string]entry), now: time.Now}
}

// Put stores s, replacing any existing entry with the same id.
func (st *Store) Put(_ domain.Context, s domain.Session) error {
	var exp time.Time
	if st.ttl > 0 {
		exp = st.now().Add(st.ttl)
	}
	st.mu.Lock()
	st.items[s.ID] = entry{sess: s, expiresAt: exp}
	st.mu.Unlock()
	return nil
}

// Get returns the session for id or domain.ErrNotFound.
func (st *Store) Get(_ domain.Context, id string) (domain.Session, error) {
	st.mu.RLock()
	e, ok := st.items[id]
	st.mu.RUnlock()
	if !ok {
		return domain.Session{}, fmt.Errorf("%w: session %q", domain.ErrNotFound, id)
	}
	if !e.expiresAt.IsZero() && st.now().After(e.expiresAt) {
		st.mu.Lock()
		// A Put may have replaced the entry between the locks; only drop the
		// one we saw expire.
		if cur, ok := st.items[id]; ok && cur.expiresAt.Equal(e.expiresAt) {
			delete(st.items, id)
		}
		st.mu.Unlock()
		return domain.Session{}, fmt.Errorf("%w: session %q expired", domain.ErrNotFound, id)
	}
	return e.sess, nil
}

// Len returns the number of live entries, counting not-yet-swept expired ones.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.items)
}

func (st *Store) sweepExpired() int {
	if st.ttl <= 0 {
		return 0
	}
	now := st.now()
	st.mu.Lock()
	defer st.mu.Unlock()
	removed := 0
	for id, e := range st.items {
		if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
			delete(st.items, id)
			removed++
		}
	}
	return removed
}

// RunJanitor periodically drops expired entries until ctx is cancelled.
// It returns immediately when expiry is disabled.
func (st *Store) RunJanitor(ctx domain.Context, interval time.Duration) {
	if st.ttl <= 0 {
		return
	}
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			slog.Info("session janitor stopping")
			return
		case <-ticker.C:
			if n := st.sweepExpired(); n > 0 {
				slog.Debug("expired sessions removed", slog.Int("count", n))
			}
		}
	}
}
