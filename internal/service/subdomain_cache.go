package service

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// SubdomainCacheStore holds serialized page records keyed by SubdomainCacheKey.
// Entries are trusted until their TTL elapses.
type SubdomainCacheStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type NoopSubdomainCacheStore struct{}

func NewNoopSubdomainCacheStore() *NoopSubdomainCacheStore {
	return &NoopSubdomainCacheStore{}
}

func (s *NoopSubdomainCacheStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, nil
}

func (s *NoopSubdomainCacheStore) Set(context.Context, string, []byte, time.Duration) error {
	return nil
}

type inMemoryCacheEntry struct {
	value     []byte
	expiresAt time.Time
}

type InMemorySubdomainCacheStore struct {
	mu    sync.RWMutex
	clock clockwork.Clock
	store map[string]inMemoryCacheEntry
}

func NewInMemorySubdomainCacheStore(clock clockwork.Clock) *InMemorySubdomainCacheStore {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &InMemorySubdomainCacheStore{
		clock: clock,
		store: make(map[string]inMemoryCacheEntry),
	}
}

func (s *InMemorySubdomainCacheStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	now := s.clock.Now()
	s.mu.RLock()
	entry, ok := s.store[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !now.Before(entry.expiresAt) {
		s.mu.Lock()
		if cur, ok := s.store[key]; ok && !now.Before(cur.expiresAt) {
			delete(s.store, key)
		}
		s.mu.Unlock()
		return nil, false, nil
	}
	out := make([]byte, len(entry.value))
	copy(out, entry.value)
	return out, true, nil
}

func (s *InMemorySubdomainCacheStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	buf := make([]byte, len(value))
	copy(buf, value)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store[key] = inMemoryCacheEntry{value: buf, expiresAt: s.clock.Now().Add(ttl)}
	return nil
}
