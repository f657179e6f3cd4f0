// Package session provides a process-scoped in-memory session store. It is
// the default backend for single-process deployments; the redis store in
// internal/infrastructure/db/redis serves multi-instance setups.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/kataops/identity-api/internal/core/domain"
)

// tombstoneRetention bounds how long an invalidated token keeps reading as
// "expired" instead of "unknown".
const tombstoneRetention = time.Hour

// Store holds sessions behind one mutex so the "at most one session per
// principal" invariant holds immediately after every mutation.
type Store struct {
	mu          sync.Mutex
	byToken     map[string]domain.Session
	byPrincipal map[string]string
	tombstones  map[string]time.Time
}

func NewStore() *Store {
	return &Store{
		byToken:     make(map[string]domain.Session),
		byPrincipal: make(map[string]string),
		tombstones:  make(map[string]time.Time),
	}
}

// Save stores s, replacing any session the principal already had. The
// replaced token is tombstoned so replays read as expired.
func (st *Store) Save(_ context.Context, s *domain.Session) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if prev, ok := st.byPrincipal[s.PrincipalID]; ok && prev != s.Token {
		delete(st.byToken, prev)
		st.tombstones[prev] = time.Now().Add(tombstoneRetention)
	}
	st.byToken[s.Token] = *s
	st.byPrincipal[s.PrincipalID] = s.Token
	st.prune()
	return nil
}

// Find returns the session for token, ErrSessionExpired for tombstoned
// tokens, and ErrSessionNotFound otherwise.
func (st *Store) Find(_ context.Context, token string) (*domain.Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if s, ok := st.byToken[token]; ok {
		out := s
		return &out, nil
	}
	if until, ok := st.tombstones[token]; ok && time.Now().Before(until) {
		return nil, domain.ErrSessionExpired
	}
	return nil, domain.ErrSessionNotFound
}

// Touch persists a refreshed LastSeen.
func (st *Store) Touch(_ context.Context, s *domain.Session) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, ok := st.byToken[s.Token]; !ok {
		return domain.ErrSessionNotFound
	}
	st.byToken[s.Token] = *s
	return nil
}

// Delete removes the session without a tombstone; a replayed token reads as
// unknown, matching an explicit logout.
func (st *Store) Delete(_ context.Context, token string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.byToken[token]
	if !ok {
		return domain.ErrSessionNotFound
	}
	delete(st.byToken, token)
	if st.byPrincipal[s.PrincipalID] == token {
		delete(st.byPrincipal, s.PrincipalID)
	}
	return nil
}

// EvictPrincipal removes the principal's current session, tombstoning its
// token.
func (st *Store) EvictPrincipal(_ context.Context, principalID string) (bool, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	token, ok := st.byPrincipal[principalID]
	if !ok {
		return false, nil
	}
	delete(st.byToken, token)
	delete(st.byPrincipal, principalID)
	st.tombstones[token] = time.Now().Add(tombstoneRetention)
	return true, nil
}

// Expire removes a timed-out session, tombstoning its token.
func (st *Store) Expire(_ context.Context, token string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.byToken[token]
	if !ok {
		return nil
	}
	delete(st.byToken, token)
	if st.byPrincipal[s.PrincipalID] == token {
		delete(st.byPrincipal, s.PrincipalID)
	}
	st.tombstones[token] = time.Now().Add(tombstoneRetention)
	return nil
}

// prune drops stale tombstones. Caller holds the lock.
func (st *Store) prune() {
	now := time.Now()
	for token, until := range st.tombstones {
		if now.After(until) {
			delete(st.tombstones, token)
		}
	}
}
