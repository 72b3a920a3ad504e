package pause

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"namfulgor_backend/platform/logger"
)

func newTestStore(t *testing.T, ttl time.Duration) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewWithClient(client, ttl, logger.New("development")), mr
}

func TestPauseAndCheck(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)
	ctx := context.Background()

	paused, err := store.IsPaused(ctx, "conv-1")
	if err != nil {
		t.Fatalf("IsPaused: %v", err)
	}
	if paused {
		t.Fatal("fresh conversation must not be paused")
	}

	if err := store.Pause(ctx, "conv-1"); err != nil {
		t.Fatalf("Pause: %v", err)
	}

	paused, err = store.IsPaused(ctx, "conv-1")
	if err != nil {
		t.Fatalf("IsPaused: %v", err)
	}
	if !paused {
		t.Fatal("conversation should be paused")
	}

	if paused, _ := store.IsPaused(ctx, "conv-2"); paused {
		t.Fatal("pause must be scoped to one conversation")
	}
}

func TestPauseExpiresWithTTL(t *testing.T) {
	store, mr := newTestStore(t, time.Minute)
	ctx := context.Background()

	if err := store.Pause(ctx, "conv-1"); err != nil {
		t.Fatalf("Pause: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	paused, err := store.IsPaused(ctx, "conv-1")
	if err != nil {
		t.Fatalf("IsPaused: %v", err)
	}
	if paused {
		t.Fatal("pause should have expired")
	}
}

func TestResumeLiftsPauseEarly(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)
	ctx := context.Background()

	if err := store.Pause(ctx, "conv-1"); err != nil {
		t.Fatalf("Pause: %v", err)
	}
	if err := store.Resume(ctx, "conv-1"); err != nil {
		t.Fatalf("Resume: %v", err)
	}

	if paused, _ := store.IsPaused(ctx, "conv-1"); paused {
		t.Fatal("resumed conversation must not be paused")
	}
}

func TestDisabledStoreNeverPauses(t *testing.T) {
	store := &Store{ttl: time.Hour, log: logger.New("development")}
	ctx := context.Background()

	if err := store.Pause(ctx, "conv-1"); err != nil {
		t.Fatalf("Pause on disabled store: %v", err)
	}
	if paused, _ := store.IsPaused(ctx, "conv-1"); paused {
		t.Fatal("disabled store must report not paused")
	}
}
