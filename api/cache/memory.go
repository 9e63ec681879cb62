package cache

import (
	"context"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// DefaultCleanupInterval is how often the in-process store reaps expired
// entries.
const DefaultCleanupInterval = time.Minute

type entry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryStore keeps entries in process. It backs the cache when Redis is not
// reachable, so a single instance still honours expiry semantics. Expired
// entries are reaped by the go-cache janitor; reads also check the store's
// own clock so tests can move time.
type MemoryStore struct {
	items *gocache.Cache
	now   func() time.Time
}

func NewMemory() *MemoryStore {
	return NewMemoryWithCleanup(DefaultCleanupInterval)
}

// NewMemoryWithCleanup runs the janitor every interval.
func NewMemoryWithCleanup(interval time.Duration) *MemoryStore {
	return &MemoryStore{
		items: gocache.New(gocache.NoExpiration, interval),
		now:   time.Now,
	}
}

// WithClock replaces the time source used for expiry checks on read.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.now = now
	return s
}

// Len counts stored entries, including expired ones the janitor has not
// reaped yet.
func (s *MemoryStore) Len() int {
	return s.items.ItemCount()
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	raw, ok := s.items.Get(key)
	if !ok {
		return nil, false, nil
	}
	e := raw.(entry)
	if !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		s.items.Delete(key)
		return nil, false, nil
	}
	return e.value, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	e := entry{value: append([]byte(nil), value...)}
	expiration := gocache.NoExpiration
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
		expiration = ttl
	}
	s.items.Set(key, e, expiration)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		s.items.Delete(k)
	}
	return nil
}

func (s *MemoryStore) DeleteByPrefix(_ context.Context, prefix string) error {
	for k := range s.items.Items() {
		if strings.HasPrefix(k, prefix) {
			s.items.Delete(k)
		}
	}
	return nil
}
