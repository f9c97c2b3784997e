package cache

import (
	"context"
	"sync"
	"time"

	"github.com/matchsight/analysis-api/internal/platform/resilience"
)

type entry struct {
	value     any
	expiresAt time.Time
}

// Store is an in-process TTL cache. Instances are injected, never shared
// through package globals, so tests and per-request scopes get isolation
// for free.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
	group   *resilience.SingleFlight
}

func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Store{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
		group:   resilience.NewSingleFlight(),
	}
}

func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	item, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if s.now().After(item.expiresAt) {
		s.mu.Lock()
		if current, stillThere := s.entries[key]; stillThere && s.now().After(current.expiresAt) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return nil, false
	}
	return item.value, true
}

func (s *Store) Set(key string, value any) {
	s.SetWithTTL(key, value, s.ttl)
}

func (s *Store) SetWithTTL(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = s.ttl
	}
	s.mu.Lock()
	s.entries[key] = entry{value: value, expiresAt: s.now().Add(ttl)}
	s.mu.Unlock()
}

func (s *Store) Delete(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

func (s *Store) Purge() {
	s.mu.Lock()
	s.entries = make(map[string]entry)
	s.mu.Unlock()
}

// GetOrLoad returns the cached value for key or invokes load exactly once per
// expiry window, collapsing concurrent misses onto a single loader call.
func (s *Store) GetOrLoad(ctx context.Context, key string, load func(context.Context) (any, error)) (any, error) {
	if value, ok := s.Get(key); ok {
		return value, nil
	}

	return s.group.Do(ctx, key, func(ctx context.Context) (any, error) {
		if value, ok := s.Get(key); ok {
			return value, nil
		}
		value, err := load(ctx)
		if err != nil {
			return nil, err
		}
		s.Set(key, value)
		return value, nil
	})
}
