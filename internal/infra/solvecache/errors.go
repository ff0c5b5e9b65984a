package solvecache

import "errors"

var (
	ErrCacheMiss      = errors.New("solve cache miss")
	ErrInvalidEntry   = errors.New("invalid solve cache entry")
	ErrRedisRequired  = errors.New("redis client is required for the redis solve cache")
	ErrUnknownBackend = errors.New("unknown solve cache backend")
)
