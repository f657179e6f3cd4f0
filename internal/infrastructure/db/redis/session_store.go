package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kataops/identity-api/internal/core/domain"
)

const (
	// sessionRetention keeps session records visible past the inactivity
	// timeout so a timed-out token still reads as expired, not unknown.
	sessionRetention = 24 * time.Hour
	tombstoneTTL     = time.Hour
)

// SessionStore persists sessions in Redis for multi-instance deployments.
// Key layout:
//
//	session:<token>            JSON session record
//	session_principal:<id>     the principal's current token
//	session_evicted:<token>    tombstone for evicted/expired tokens
type SessionStore struct {
	client *redis.Client
}

func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func (s *SessionStore) Save(ctx context.Context, sess *domain.Session) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, sessionKey(sess.Token), payload, sessionRetention)
	pipe.Set(ctx, principalKey(sess.PrincipalID), sess.Token, sessionRetention)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *SessionStore) Find(ctx context.Context, token string) (*domain.Session, error) {
	payload, err := s.client.Get(ctx, sessionKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		n, terr := s.client.Exists(ctx, tombstoneKey(token)).Result()
		if terr != nil {
			return nil, fmt.Errorf("check tombstone: %w", terr)
		}
		if n > 0 {
			return nil, domain.ErrSessionExpired
		}
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}

	var sess domain.Session
	if err := json.Unmarshal(payload, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &sess, nil
}

func (s *SessionStore) Touch(ctx context.Context, sess *domain.Session) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(sess.Token), payload, sessionRetention).Err(); err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, token string) error {
	sess, err := s.Find(ctx, token)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, sessionKey(token))
	pipe.Del(ctx, principalKey(sess.PrincipalID))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *SessionStore) EvictPrincipal(ctx context.Context, principalID string) (bool, error) {
	token, err := s.client.Get(ctx, principalKey(principalID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup principal session: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, sessionKey(token))
	pipe.Del(ctx, principalKey(principalID))
	pipe.Set(ctx, tombstoneKey(token), "1", tombstoneTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("evict session: %w", err)
	}
	return true, nil
}

func (s *SessionStore) Expire(ctx context.Context, token string) error {
	sess, err := s.Find(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) || errors.Is(err, domain.ErrSessionExpired) {
			return nil
		}
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, sessionKey(token))
	pipe.Del(ctx, principalKey(sess.PrincipalID))
	pipe.Set(ctx, tombstoneKey(token), "1", tombstoneTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("expire session: %w", err)
	}
	return nil
}

func sessionKey(token string) string   { return "session:" + token }
func principalKey(id string) string    { return "session_principal:" + id }
func tombstoneKey(token string) string { return "session_evicted:" + token }
