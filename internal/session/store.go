package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dharmasatrya/smarttrip/internal/metrics"
)

type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	idleTTL  time.Duration
	now      func() time.Time
}

func NewStore(idleTTL time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		idleTTL:  idleTTL,
		now:      time.Now,
	}
}

func (st *Store) Create() *Session {
	s := newSession(uuid.NewString(), st.now)

	st.mu.Lock()
	st.sessions[s.id] = s
	n := len(st.sessions)
	st.mu.Unlock()

	metrics.ActiveSessions.Set(float64(n))
	return s
}

func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

func (st *Store) Delete(id string) {
	st.mu.Lock()
	if s, ok := st.sessions[id]; ok {
		s.Clear()
		delete(st.sessions, id)
	}
	n := len(st.sessions)
	st.mu.Unlock()

	metrics.ActiveSessions.Set(float64(n))
}

// Sweep removes sessions idle for longer than the TTL. Sessions with a search
// in flight are kept. It returns how many were removed.
func (st *Store) Sweep() int {
	if st.idleTTL <= 0 {
		return 0
	}
	cutoff := st.now().Add(-st.idleTTL)

	st.mu.Lock()
	defer st.mu.Unlock()

	removed := 0
	for id, s := range st.sessions {
		touched, inFlight := s.idleSince()
		if inFlight || touched.After(cutoff) {
			continue
		}
		delete(st.sessions, id)
		removed++
	}
	metrics.ActiveSessions.Set(float64(len(st.sessions)))
	return removed
}

// Run sweeps every interval until ctx is done.
func (st *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			st.Sweep()
		}
	}
}
