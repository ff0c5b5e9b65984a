package solvecache

import (
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/KasumiMercury/primind-slot-allocation/internal/config"
	"github.com/KasumiMercury/primind-slot-allocation/internal/domain"
	"github.com/KasumiMercury/primind-slot-allocation/internal/observability/metrics"
)

// Wrap returns optimizer unchanged when caching is disabled. The returned
// close function releases the store.
func Wrap(optimizer domain.Optimizer, cfg *config.SolveCacheConfig, client *redis.Client, m *metrics.AllocationMetrics) (domain.Optimizer, func() error, error) {
	noop := func() error { return nil }

	if cfg == nil || cfg.Backend == config.SolveCacheNone {
		slog.Info("solve cache disabled")
		return optimizer, noop, nil
	}

	var store Store
	switch cfg.Backend {
	case config.SolveCacheMemory:
		store = NewMemoryStore(cfg.TTL)
	case config.SolveCacheRedis:
		if client == nil {
			return nil, nil, ErrRedisRequired
		}
		store = NewRedisStore(client, cfg.RedisKeyPrefix(), cfg.TTL)
	default:
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownBackend, cfg.Backend)
	}

	slog.Info("solve cache enabled",
		slog.String("backend", string(cfg.Backend)),
		slog.Duration("ttl", cfg.TTL),
	)

	return NewCachingOptimizer(optimizer, store, string(cfg.Backend), m), store.Close, nil
}
