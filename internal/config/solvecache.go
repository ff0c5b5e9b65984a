package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	solveCacheBackendEnv = "SOLVE_CACHE_BACKEND"
	solveCacheTTLEnv     = "SOLVE_CACHE_TTL"

	solveCacheRedisAddrEnv     = "SOLVE_CACHE_REDIS_ADDR"
	solveCacheRedisPasswordEnv = "SOLVE_CACHE_REDIS_PASSWORD"
	solveCacheRedisDBEnv       = "SOLVE_CACHE_REDIS_DB"
	solveCacheRedisTLSEnv      = "SOLVE_CACHE_REDIS_TLS"
	solveCacheKeyPrefixEnv     = "SOLVE_CACHE_KEY_PREFIX"

	defaultSolveCacheBackend   = SolveCacheMemory
	defaultSolveCacheTTL       = 30 * time.Minute
	defaultSolveCacheKeyPrefix = "allocation:solve:"
)

type SolveCacheBackend string

const (
	SolveCacheNone   SolveCacheBackend = "none"
	SolveCacheMemory SolveCacheBackend = "memory"
	SolveCacheRedis  SolveCacheBackend = "redis"
)

type SolveCacheConfig struct {
	Backend SolveCacheBackend
	TTL     time.Duration
	// Redis is only consulted by the redis backend.
	Redis *SolveCacheRedisConfig
}

// SolveCacheRedisConfig locates the shared store that memoizes optimizer solves.
type SolveCacheRedisConfig struct {
	Addr      string
	Password  string
	DB        int
	TLS       bool
	KeyPrefix string
}

// LoadSolveCacheConfig falls back to defaults for unset or malformed values,
// except SOLVE_CACHE_REDIS_DB, which must be a non-negative integer when set.
func LoadSolveCacheConfig() (*SolveCacheConfig, error) {
	backend := SolveCacheBackend(os.Getenv(solveCacheBackendEnv))
	if backend == "" {
		backend = defaultSolveCacheBackend
	}

	if backend != SolveCacheNone && backend != SolveCacheMemory && backend != SolveCacheRedis {
		backend = defaultSolveCacheBackend
	}

	ttl := defaultSolveCacheTTL
	if v := os.Getenv(solveCacheTTLEnv); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil && parsed > 0 {
			ttl = parsed
		}
	}

	redisConfig, err := loadSolveCacheRedisConfig()
	if err != nil {
		return nil, err
	}

	return &SolveCacheConfig{
		Backend: backend,
		TTL:     ttl,
		Redis:   redisConfig,
	}, nil
}

func loadSolveCacheRedisConfig() (*SolveCacheRedisConfig, error) {
	db := 0
	if raw := os.Getenv(solveCacheRedisDBEnv); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return nil, ErrInvalidRedisDB
		}
		db = parsed
	}

	prefix := os.Getenv(solveCacheKeyPrefixEnv)
	if prefix == "" {
		prefix = defaultSolveCacheKeyPrefix
	} else if !strings.HasSuffix(prefix, ":") {
		prefix += ":"
	}

	return &SolveCacheRedisConfig{
		Addr:      os.Getenv(solveCacheRedisAddrEnv),
		Password:  os.Getenv(solveCacheRedisPasswordEnv),
		DB:        db,
		TLS:       os.Getenv(solveCacheRedisTLSEnv) == "true",
		KeyPrefix: prefix,
	}, nil
}

func (c *SolveCacheConfig) Validate() error {
	if c == nil {
		return nil
	}
	switch c.Backend {
	case SolveCacheNone, SolveCacheMemory, SolveCacheRedis:
	default:
		return ErrInvalidSolveCache
	}
	if c.Backend != SolveCacheNone && c.TTL <= 0 {
		return ErrInvalidSolveCacheTTL
	}
	if c.Backend == SolveCacheRedis && (c.Redis == nil || c.Redis.Addr == "") {
		return ErrRedisAddrMissing
	}
	return nil
}

// RedisKeyPrefix returns the configured prefix, or the default when unset.
func (c *SolveCacheConfig) RedisKeyPrefix() string {
	if c == nil || c.Redis == nil || c.Redis.KeyPrefix == "" {
		return defaultSolveCacheKeyPrefix
	}
	return c.Redis.KeyPrefix
}
