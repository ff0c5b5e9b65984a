package solvecache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KasumiMercury/primind-slot-allocation/internal/observability/tracing"
)

type redisStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisStore namespaces solve keys under keyPrefix. It does not own the
// client; Close leaves it open.
func NewRedisStore(client *redis.Client, keyPrefix string, ttl time.Duration) Store {
	return &redisStore{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

func (s *redisStore) Get(ctx context.Context, key string) (*Entry, error) {
	redisKey := s.keyPrefix + key

	ctx, span := tracing.StartCacheOperationSpan(ctx, "redis", "get", redisKey)
	defer span.End()

	data, err := s.client.Get(ctx, redisKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		tracing.RecordError(span, err)
		return nil, err
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		tracing.RecordError(span, err)
		return nil, ErrInvalidEntry
	}

	return &entry, nil
}

func (s *redisStore) Set(ctx context.Context, key string, entry *Entry) error {
	if entry == nil {
		return ErrInvalidEntry
	}

	redisKey := s.keyPrefix + key

	ctx, span := tracing.StartCacheOperationSpan(ctx, "redis", "set", redisKey)
	defer span.End()

	data, err := json.Marshal(entry)
	if err != nil {
		return ErrInvalidEntry
	}

	err = s.client.Set(ctx, redisKey, data, s.ttl).Err()
	tracing.RecordError(span, err)
	return err
}

func (s *redisStore) Close() error {
	return nil
}
