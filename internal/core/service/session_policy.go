package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/kataops/identity-api/internal/api/metrics"
	"github.com/kataops/identity-api/internal/core/domain"
	"github.com/kataops/identity-api/internal/core/ports"
)

// DefaultSessionTimeout is the inactivity window after which a session
// expires.
const DefaultSessionTimeout = 30 * time.Minute

// SessionPolicy drives the per-principal session state machine over a
// pluggable store. Invariant: at most one live session per principal,
// immediately after every transition.
type SessionPolicy struct {
	users   ports.UserRepository
	store   ports.SessionStore
	timeout time.Duration
	logger  zerolog.Logger
}

func NewSessionPolicy(users ports.UserRepository, store ports.SessionStore, timeout time.Duration, logger zerolog.Logger) *SessionPolicy {
	if timeout <= 0 {
		timeout = DefaultSessionTimeout
	}
	return &SessionPolicy{users: users, store: store, timeout: timeout, logger: logger}
}

// Login checks credentials and issues a fresh session. The token is always
// newly generated after the credential check succeeds, never carried over
// from any pre-authentication state (session fixation defence). A prior
// session of the same principal is evicted before the new one is saved.
func (p *SessionPolicy) Login(ctx context.Context, name, password string) (*domain.Session, error) {
	if name == "" || password == "" {
		metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	user, err := p.users.FindByName(ctx, name)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login lookup: %w", err)
	}

	if !VerifyPassword(user.PasswordHash, password) {
		metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	evicted, err := p.store.EvictPrincipal(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("evict previous session: %w", err)
	}
	if evicted {
		p.logger.Info().Str("user_id", user.ID).Msg("previous session evicted")
		metrics.SessionsEvictedTotal.Inc()
	}

	now := time.Now().UTC()
	session := &domain.Session{
		Token:         newSessionToken(),
		PrincipalID:   user.ID,
		PrincipalName: user.Name,
		Roles:         user.RoleNames(),
		CreatedAt:     now,
		LastSeen:      now,
	}

	if err := p.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	p.logger.Info().Str("user_id", user.ID).Str("user", user.Name).Msg("login")
	return session, nil
}

// Authenticate resolves token to its session and slides the inactivity
// window. A session idle past the timeout is expired on the spot, so its
// bearer sees the expired outcome rather than anonymous.
func (p *SessionPolicy) Authenticate(ctx context.Context, token string) (*domain.Session, error) {
	session, err := p.store.Find(ctx, token)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if now.Sub(session.LastSeen) > p.timeout {
		if err := p.store.Expire(ctx, token); err != nil {
			return nil, fmt.Errorf("expire session: %w", err)
		}
		metrics.SessionsExpiredTotal.Inc()
		return nil, domain.ErrSessionExpired
	}

	session.LastSeen = now
	if err := p.store.Touch(ctx, session); err != nil {
		return nil, fmt.Errorf("touch session: %w", err)
	}
	return session, nil
}

// Logout invalidates the session for token. Unknown and already-invalidated
// tokens are a no-op: a browser logging out with an evicted cookie still
// deserves the clean logout flow.
func (p *SessionPolicy) Logout(ctx context.Context, token string) error {
	err := p.store.Delete(ctx, token)
	if err != nil && !errors.Is(err, domain.ErrSessionNotFound) && !errors.Is(err, domain.ErrSessionExpired) {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Timeout returns the configured inactivity window.
func (p *SessionPolicy) Timeout() time.Duration {
	return p.timeout
}

// newSessionToken returns a 256-bit random token in hex.
func newSessionToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("session token entropy unavailable: %v", err))
	}
	return hex.EncodeToString(b)
}
