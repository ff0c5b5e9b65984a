package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	"github.com/KasumiMercury/primind-slot-allocation/internal/config"
)

// newRedisClient connects an instrumented client for the redis solve cache.
func newRedisClient(ctx context.Context, cfg *config.SolveCacheRedisConfig) (*redis.Client, error) {
	opts := &redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if cfg.TLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(opts)

	if err := redisotel.InstrumentTracing(client); err != nil {
		slog.Error("failed to instrument redis tracing",
			slog.String("event", "redis.otel.tracing.fail"),
			slog.String("error", err.Error()),
		)
		_ = client.Close()
		return nil, err
	}

	if err := redisotel.InstrumentMetrics(client); err != nil {
		slog.Error("failed to instrument redis metrics",
			slog.String("event", "redis.otel.metrics.fail"),
			slog.String("error", err.Error()),
		)
		_ = client.Close()
		return nil, err
	}

	if err := client.Ping(ctx).Err(); err != nil {
		slog.Error("failed to connect redis",
			slog.String("event", "redis.connect.fail"),
			slog.String("error", err.Error()),
		)
		_ = client.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	slog.Info("redis connected", slog.String("addr", cfg.Addr), slog.Int("db", cfg.DB))
	return client, nil
}
