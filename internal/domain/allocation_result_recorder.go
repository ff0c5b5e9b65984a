package domain

import (
	"context"
	"time"
)

// AllocationResultRecord is one flight's outcome under one policy in one trial.
type AllocationResultRecord struct {
	RunID    string
	Trial    int
	Policy   string
	Outcome  FlightOutcome
	Recorded time.Time
}

// PolicySummaryRecord aggregates one policy's run in one trial.
type PolicySummaryRecord struct {
	RunID    string
	Trial    int
	Policy   string
	Summary  Summary
	Duration time.Duration
}

type AllocationResultRecorder interface {
	RecordFlightResults(ctx context.Context, records []AllocationResultRecord) error
	RecordPolicySummaries(ctx context.Context, records []PolicySummaryRecord) error
	Flush(ctx context.Context) error
	Close() error
}
