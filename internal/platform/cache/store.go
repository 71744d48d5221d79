package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"

	"github.com/EsatCanStudent/UpdatedScores2/internal/platform/resilience"
)

// TTL tiers for the read-through layer. Live-changing payloads use the
// short tier, finished-match payloads the medium tier, aggregates the long one.
const (
	TTLShort  = 5 * time.Minute
	TTLMedium = time.Hour
	TTLLong   = 24 * time.Hour
)

// Key prefixes for match-derived payloads. Everything under these prefixes
// is dropped when the match changes.
const (
	PrefixMatch    = "match"
	PrefixTimeline = "timeline"
	PrefixStats    = "stats"
	PrefixTeamForm = "team_form"
)

type entry struct {
	value     any
	expiresAt time.Time
}

// Store is an in-process TTL cache. Each entry carries its own deadline and
// concurrent loads for the same key are collapsed into one.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	flight  resilience.SingleFlight
	now     func() time.Time
}

func NewStore() *Store {
	return &Store{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Key builds a plain cache key from a prefix and an identifier.
func Key(prefix string, id any) string {
	return fmt.Sprintf("%s:%v", prefix, id)
}

// HashKey builds a stable key for parameter sets that are too unwieldy to
// inline. Params are serialized in sorted-key order so equal maps always
// hash to the same key.
func HashKey(prefix string, params map[string]any) string {
	if len(params) == 0 {
		return prefix
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		raw, err := sonic.Marshal(params[k])
		if err != nil {
			raw = []byte(fmt.Sprintf("%v", params[k]))
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.Write(raw)
		b.WriteByte(';')
	}

	sum := sha256.Sum256([]byte(b.String()))
	return prefix + ":" + hex.EncodeToString(sum[:8])
}

func (s *Store) Get(_ context.Context, key string) (any, bool) {
	if key == "" {
		return nil, false
	}

	now := s.now()
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !e.expiresAt.IsZero() && !e.expiresAt.After(now) {
		s.mu.Lock()
		if cur, ok := s.entries[key]; ok && cur.expiresAt.Equal(e.expiresAt) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return nil, false
	}

	return e.value, true
}

func (s *Store) Set(_ context.Context, key string, value any, ttl time.Duration) {
	if key == "" {
		return
	}

	expiresAt := time.Time{}
	if ttl > 0 {
		expiresAt = s.now().Add(ttl)
	}

	s.mu.Lock()
	s.entries[key] = entry{value: value, expiresAt: expiresAt}
	s.mu.Unlock()
}

func (s *Store) Delete(_ context.Context, key string) {
	if key == "" {
		return
	}

	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

func (s *Store) DeletePrefix(_ context.Context, prefix string) {
	if prefix == "" {
		return
	}

	full := prefix + ":"
	s.mu.Lock()
	for key := range s.entries {
		if key == prefix || strings.HasPrefix(key, full) {
			delete(s.entries, key)
		}
	}
	s.mu.Unlock()
}

// InvalidateMatch drops every cached payload derived from the given match.
func (s *Store) InvalidateMatch(ctx context.Context, matchID int64) {
	s.Delete(ctx, Key(PrefixMatch, matchID))
	s.Delete(ctx, Key(PrefixTimeline, matchID))
	s.Delete(ctx, Key(PrefixStats, matchID))
	// Team form aggregates span many matches; parameters are hashed into the
	// key so the whole prefix goes.
	s.DeletePrefix(ctx, PrefixTeamForm)
}

func (s *Store) Clear(_ context.Context) {
	s.mu.Lock()
	s.entries = make(map[string]entry)
	s.mu.Unlock()
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// GetOrLoad returns the cached value for key, invoking loader on a miss.
// Concurrent misses for the same key share a single loader call.
func (s *Store) GetOrLoad(ctx context.Context, key string, ttl time.Duration, loader func(context.Context) (any, error)) (any, error) {
	if loader == nil {
		return nil, fmt.Errorf("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}

	if value, ok := s.Get(ctx, key); ok {
		return value, nil
	}

	value, err, _ := s.flight.Do(key, func() (any, error) {
		if cached, ok := s.Get(ctx, key); ok {
			return cached, nil
		}

		loaded, loadErr := loader(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		s.Set(ctx, key, loaded, ttl)
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}

	return value, nil
}
