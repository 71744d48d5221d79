package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_SetGetRespectsPerEntryTTL(t *testing.T) {
	t.Parallel()

	store := NewStore()
	current := time.Date(2025, 4, 12, 15, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }

	ctx := context.Background()
	store.Set(ctx, Key(PrefixMatch, 10), "short", TTLShort)
	store.Set(ctx, Key(PrefixStats, 10), "long", TTLLong)

	current = current.Add(TTLShort + time.Second)

	if _, ok := store.Get(ctx, Key(PrefixMatch, 10)); ok {
		t.Fatalf("short-tier entry should have expired")
	}
	if v, ok := store.Get(ctx, Key(PrefixStats, 10)); !ok || v != "long" {
		t.Fatalf("long-tier entry lost: got %v, ok=%v", v, ok)
	}
}

func TestStore_InvalidateMatchDropsDerivedKeys(t *testing.T) {
	t.Parallel()

	store := NewStore()
	ctx := context.Background()

	store.Set(ctx, Key(PrefixMatch, 42), "m", TTLShort)
	store.Set(ctx, Key(PrefixTimeline, 42), "t", TTLMedium)
	store.Set(ctx, Key(PrefixStats, 42), "s", TTLLong)
	store.Set(ctx, HashKey(PrefixTeamForm, map[string]any{"team": 7, "limit": 5}), "f", TTLLong)
	store.Set(ctx, Key(PrefixMatch, 43), "other", TTLShort)

	store.InvalidateMatch(ctx, 42)

	for _, key := range []string{Key(PrefixMatch, 42), Key(PrefixTimeline, 42), Key(PrefixStats, 42)} {
		if _, ok := store.Get(ctx, key); ok {
			t.Fatalf("key %q should have been invalidated", key)
		}
	}
	if store.Len() != 1 {
		t.Fatalf("want only the unrelated match entry left, got %d entries", store.Len())
	}
	if _, ok := store.Get(ctx, Key(PrefixMatch, 43)); !ok {
		t.Fatalf("unrelated match entry should survive invalidation")
	}
}

func TestHashKey_StableAcrossMapOrder(t *testing.T) {
	t.Parallel()

	a := HashKey(PrefixTeamForm, map[string]any{"team": 7, "limit": 5, "season": 2025})
	b := HashKey(PrefixTeamForm, map[string]any{"season": 2025, "limit": 5, "team": 7})
	if a != b {
		t.Fatalf("equal params hashed differently: %q vs %q", a, b)
	}

	c := HashKey(PrefixTeamForm, map[string]any{"team": 8, "limit": 5, "season": 2025})
	if a == c {
		t.Fatalf("different params should not collide: %q", a)
	}
}

func TestStore_GetOrLoad_UsesSingleFlight(t *testing.T) {
	t.Parallel()

	store := NewStore()
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "same-key", TTLShort, loader)
			if err != nil {
				errCh <- err
				return
			}
			if got, _ := v.(string); got != "value" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_UsesCachedValueAfterFirstLoad(t *testing.T) {
	t.Parallel()

	store := NewStore()
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		return "cached", nil
	}

	if _, err := store.GetOrLoad(context.Background(), "k", TTLMedium, loader); err != nil {
		t.Fatalf("first GetOrLoad error: %v", err)
	}
	if _, err := store.GetOrLoad(context.Background(), "k", TTLMedium, loader); err != nil {
		t.Fatalf("second GetOrLoad error: %v", err)
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_DoesNotCacheLoaderErrors(t *testing.T) {
	t.Parallel()

	store := NewStore()
	var calls atomic.Int32
	boom := errors.New("provider down")

	loader := func(context.Context) (any, error) {
		if calls.Add(1) == 1 {
			return nil, boom
		}
		return "recovered", nil
	}

	if _, err := store.GetOrLoad(context.Background(), "k", TTLShort, loader); !errors.Is(err, boom) {
		t.Fatalf("want loader error, got %v", err)
	}
	v, err := store.GetOrLoad(context.Background(), "k", TTLShort, loader)
	if err != nil {
		t.Fatalf("second GetOrLoad error: %v", err)
	}
	if v != "recovered" {
		t.Fatalf("want reload after error, got %v", v)
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")
