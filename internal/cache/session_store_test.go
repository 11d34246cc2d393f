package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T, ttl time.Duration) (*SessionStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewSessionStore(client, ttl), mr
}

func TestSessionStore_CreateGetDelete(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)
	ctx := context.Background()

	if err := store.Create(ctx, "sess-1", 42); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	userID, err := store.Get(ctx, "sess-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if userID != 42 {
		t.Errorf("expected user 42, got %d", userID)
	}

	if err := store.Delete(ctx, "sess-1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := store.Get(ctx, "sess-1"); !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("expected ErrCacheNotFound after delete, got %v", err)
	}
}

func TestSessionStore_Expiry(t *testing.T) {
	store, mr := newTestStore(t, time.Minute)
	ctx := context.Background()

	if err := store.Create(ctx, "sess-2", 7); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, err := store.Get(ctx, "sess-2"); !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("expected ErrCacheNotFound after TTL, got %v", err)
	}
}

func TestSessionStore_NoRedis(t *testing.T) {
	store := NewSessionStore(nil, time.Hour)
	ctx := context.Background()

	// Writes are no-ops, reads report the store as unavailable.
	if err := store.Create(ctx, "sess-3", 1); err != nil {
		t.Fatalf("Create without redis should be a no-op, got %v", err)
	}
	if _, err := store.Get(ctx, "sess-3"); !errors.Is(err, ErrSessionNotTracked) {
		t.Errorf("expected ErrSessionNotTracked, got %v", err)
	}
}
