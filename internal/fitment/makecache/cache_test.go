package makecache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeLister struct {
	mu    sync.Mutex
	makes []string
	err   error
	calls int
}

func (f *fakeLister) ListDistinctMakes(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.makes, nil
}

func (f *fakeLister) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeLister) set(makes []string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.makes = makes
	f.err = err
}

func TestGetFetchesOnceWhileFresh(t *testing.T) {
	lister := &fakeLister{makes: []string{"Chevrolet", "Toyota"}}
	now := time.Now()
	cache := New(lister, time.Hour).WithClock(func() time.Time { return now })

	for i := 0; i < 3; i++ {
		makes, err := cache.Get(context.Background())
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if len(makes) != 2 {
			t.Fatalf("got %d makes, want 2", len(makes))
		}
	}

	if got := lister.callCount(); got != 1 {
		t.Fatalf("lister called %d times, want 1 while cache is fresh", got)
	}
}

func TestGetServesStaleWhileRefreshing(t *testing.T) {
	lister := &fakeLister{makes: []string{"Chevrolet"}}
	now := time.Now()
	clock := func() time.Time { return now }
	cache := New(lister, time.Hour).WithClock(clock)

	if _, err := cache.Get(context.Background()); err != nil {
		t.Fatalf("initial get: %v", err)
	}

	lister.set([]string{"Chevrolet", "Toyota"}, nil)
	now = now.Add(2 * time.Hour)

	// Expired read returns the stale snapshot immediately.
	makes, err := cache.Get(context.Background())
	if err != nil {
		t.Fatalf("stale get: %v", err)
	}
	if len(makes) != 1 {
		t.Fatalf("stale read returned %d makes, want the old snapshot of 1", len(makes))
	}

	// The background refresh eventually lands the new snapshot.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		makes, err = cache.Get(context.Background())
		if err != nil {
			t.Fatalf("get after refresh: %v", err)
		}
		if len(makes) == 2 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("refresh never replaced the stale snapshot")
}

func TestGetColdCacheErrorPropagates(t *testing.T) {
	lister := &fakeLister{err: errors.New("db down")}
	cache := New(lister, time.Hour)

	if _, err := cache.Get(context.Background()); err == nil {
		t.Fatal("cold cache with failing lister must return the error")
	}
}
