package health

import (
	"context"
	"sort"
	"time"
)

// Status represents the health status of a dependency or of the whole run
// environment.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
)

const defaultTimeout = 5 * time.Second

// CheckResult is the outcome of one probe.
type CheckResult struct {
	Status    Status `json:"status"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
	Error     string `json:"error,omitempty"`
}

type HealthStatus struct {
	Status  Status                 `json:"status"`
	Version string                 `json:"version,omitempty"`
	Checks  map[string]CheckResult `json:"checks,omitempty"`
}

// Probe reports whether a dependency is usable.
type Probe func(ctx context.Context) error

// Checker runs named probes before an allocation run.
type Checker struct {
	probes  map[string]Probe
	version string
	timeout time.Duration
}

func NewChecker(version string) *Checker {
	return &Checker{
		probes:  make(map[string]Probe),
		version: version,
		timeout: defaultTimeout,
	}
}

// Register adds a probe. A later registration under the same name replaces
// the earlier one.
func (c *Checker) Register(name string, probe Probe) *Checker {
	c.probes[name] = probe
	return c
}

// Check runs every probe in name order under one shared timeout.
func (c *Checker) Check(ctx context.Context) *HealthStatus {
	checkCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	status := &HealthStatus{
		Status:  StatusHealthy,
		Version: c.version,
		Checks:  make(map[string]CheckResult, len(c.probes)),
	}

	names := make([]string, 0, len(c.probes))
	for name := range c.probes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		start := time.Now()
		if err := c.probes[name](checkCtx); err != nil {
			status.Status = StatusUnhealthy
			status.Checks[name] = CheckResult{
				Status: StatusUnhealthy,
				Error:  err.Error(),
			}
			continue
		}
		status.Checks[name] = CheckResult{
			Status:    StatusHealthy,
			LatencyMs: time.Since(start).Milliseconds(),
		}
	}

	return status
}
