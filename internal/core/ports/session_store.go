package ports

import (
	"context"
	"time"

	"github.com/kataops/identity-api/internal/core/domain"
)

// SessionStore is the process-wide session state behind an explicit
// interface. Implementations must uphold "at most one session per
// principal" immediately after every mutation, not eventually.
type SessionStore interface {
	// Save stores a session under its token and indexes it by principal.
	Save(ctx context.Context, s *domain.Session) error
	// Find returns the session for token. Unknown tokens yield
	// domain.ErrSessionNotFound; evicted or logged-out tokens yield
	// domain.ErrSessionExpired while their tombstone is retained.
	Find(ctx context.Context, token string) (*domain.Session, error)
	// Touch persists a refreshed LastSeen for an existing session.
	Touch(ctx context.Context, s *domain.Session) error
	// Delete removes a session without leaving a tombstone (logout).
	Delete(ctx context.Context, token string) error
	// EvictPrincipal removes the principal's current session, if any, and
	// tombstones its token so replays read as expired. Reports whether a
	// session was actually evicted.
	EvictPrincipal(ctx context.Context, principalID string) (bool, error)
	// Expire removes a session whose inactivity window has lapsed and
	// tombstones the token.
	Expire(ctx context.Context, token string) error
}

// SessionService drives the per-principal session state machine.
type SessionService interface {
	// Login authenticates name/password and issues a fresh session,
	// evicting any prior session of the same principal.
	Login(ctx context.Context, name, password string) (*domain.Session, error)
	// Authenticate resolves a bearer token to its live session, sliding
	// the inactivity window. Expired and evicted tokens return
	// domain.ErrSessionExpired; unknown tokens domain.ErrSessionNotFound.
	Authenticate(ctx context.Context, token string) (*domain.Session, error)
	Logout(ctx context.Context, token string) error
	// Timeout reports the configured inactivity window.
	Timeout() time.Duration
}
