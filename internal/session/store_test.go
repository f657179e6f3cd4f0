package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/kataops/identity-api/internal/core/domain"
)

func newSession(token, principalID string) *domain.Session {
	now := time.Now().UTC()
	return &domain.Session{
		Token:       token,
		PrincipalID: principalID,
		CreatedAt:   now,
		LastSeen:    now,
	}
}

func TestStore_SaveAndFind(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	if err := store.Save(ctx, newSession("t1", "p1")); err != nil {
		t.Fatalf("save: %v", err)
	}

	found, err := store.Find(ctx, "t1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.PrincipalID != "p1" {
		t.Fatalf("unexpected session: %+v", found)
	}

	if _, err := store.Find(ctx, "unknown"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestStore_SaveReplacesPrincipalSession(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	if err := store.Save(ctx, newSession("t1", "p1")); err != nil {
		t.Fatalf("save t1: %v", err)
	}
	if err := store.Save(ctx, newSession("t2", "p1")); err != nil {
		t.Fatalf("save t2: %v", err)
	}

	// One session per principal, immediately: the old token no longer
	// resolves, and reads as expired rather than unknown.
	if _, err := store.Find(ctx, "t1"); !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("replaced token must read expired, got %v", err)
	}
	if _, err := store.Find(ctx, "t2"); err != nil {
		t.Fatalf("new token must resolve: %v", err)
	}
}

func TestStore_EvictPrincipal(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	if err := store.Save(ctx, newSession("t1", "p1")); err != nil {
		t.Fatalf("save: %v", err)
	}

	evicted, err := store.EvictPrincipal(ctx, "p1")
	if err != nil {
		t.Fatalf("evict: %v", err)
	}
	if !evicted {
		t.Fatalf("expected an eviction")
	}
	if _, err := store.Find(ctx, "t1"); !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("evicted token must read expired, got %v", err)
	}

	evicted, err = store.EvictPrincipal(ctx, "p1")
	if err != nil {
		t.Fatalf("second evict: %v", err)
	}
	if evicted {
		t.Fatalf("no session left to evict")
	}
}

func TestStore_DeleteLeavesNoTombstone(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	if err := store.Save(ctx, newSession("t1", "p1")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Delete(ctx, "t1"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	// Logout is not eviction: the token reads as unknown afterwards.
	if _, err := store.Find(ctx, "t1"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("deleted token must read unknown, got %v", err)
	}
	if err := store.Delete(ctx, "t1"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("double delete must report not found, got %v", err)
	}
}

func TestStore_ExpireTombstonesToken(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	if err := store.Save(ctx, newSession("t1", "p1")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Expire(ctx, "t1"); err != nil {
		t.Fatalf("expire: %v", err)
	}
	if _, err := store.Find(ctx, "t1"); !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("expired token must read expired, got %v", err)
	}
	// Expiring an absent token is a no-op.
	if err := store.Expire(ctx, "t1"); err != nil {
		t.Fatalf("second expire: %v", err)
	}
}

func TestStore_ConcurrentLoginsKeepSinglePrincipalSession(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	const logins = 32
	var wg sync.WaitGroup
	for i := 0; i < logins; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = store.Save(ctx, newSession(token(n), "p1"))
		}(i)
	}
	wg.Wait()

	live := 0
	for i := 0; i < logins; i++ {
		if _, err := store.Find(ctx, token(i)); err == nil {
			live++
		}
	}
	if live != 1 {
		t.Fatalf("expected exactly 1 live session for the principal, got %d", live)
	}
}

func token(n int) string {
	return fmt.Sprintf("t%d", n)
}
