package config

import "errors"

var (
	ErrRedisAddrMissing       = errors.New("SOLVE_CACHE_REDIS_ADDR is required for the redis solve cache")
	ErrInvalidRedisDB         = errors.New("SOLVE_CACHE_REDIS_DB must be a non-negative integer")
	ErrNoPolicies             = errors.New("ALLOCATION_POLICIES must name at least one known policy")
	ErrUnknownPolicy          = errors.New("unknown allocation policy")
	ErrInvalidSwapConcurrency = errors.New("SWAP_CONCURRENCY must be positive")
	ErrInvalidSolveCache      = errors.New("SOLVE_CACHE_BACKEND must be one of none, memory, redis")
	ErrInvalidSolveCacheTTL   = errors.New("SOLVE_CACHE_TTL must be a positive duration")
	ErrInvalidSlotsPerHour    = errors.New("SLOTS_PER_HOUR must be positive")
	ErrInvalidSlotWindow      = errors.New("SLOT_WINDOW_END must not precede SLOT_WINDOW_START")
	ErrInvalidTrials          = errors.New("TRIALS must be positive")
	ErrInvalidDistribution    = errors.New("triangular distribution requires 0 <= c <= 1 and scale > 0")
)
