package config

import (
	"errors"
	"fmt"
)

// ValidateForRun checks everything a policy run depends on. Redis settings are
// only required when the solve cache backend is redis.
func ValidateForRun(cfg *Config) error {
	var errs []error

	if cfg.Policy == nil {
		errs = append(errs, ErrNoPolicies)
	} else if err := cfg.Policy.Validate(); err != nil {
		errs = append(errs, err)
	}

	if cfg.Instance != nil {
		if err := cfg.Instance.Validate(); err != nil {
			errs = append(errs, err)
		}
	}

	if cfg.SolveCache != nil {
		if err := cfg.SolveCache.Validate(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %w", errors.Join(errs...))
	}
	return nil
}
