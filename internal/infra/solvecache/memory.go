package solvecache

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

const defaultMemoryCapacity = 10000

type memoryStore struct {
	cache *ttlcache.Cache[string, *Entry]
}

// NewMemoryStore keeps entries in process, evicting after ttl or when the
// capacity is exceeded.
func NewMemoryStore(ttl time.Duration) Store {
	cache := ttlcache.New(
		ttlcache.WithTTL[string, *Entry](ttl),
		ttlcache.WithCapacity[string, *Entry](defaultMemoryCapacity),
	)
	go cache.Start()

	return &memoryStore{cache: cache}
}

func (s *memoryStore) Get(_ context.Context, key string) (*Entry, error) {
	item := s.cache.Get(key)
	if item == nil || item.IsExpired() {
		return nil, ErrCacheMiss
	}
	return item.Value(), nil
}

func (s *memoryStore) Set(_ context.Context, key string, entry *Entry) error {
	if entry == nil {
		return ErrInvalidEntry
	}
	s.cache.Set(key, entry, ttlcache.DefaultTTL)
	return nil
}

func (s *memoryStore) Close() error {
	s.cache.Stop()
	return nil
}
