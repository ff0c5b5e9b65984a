package resultrecorder

import (
	"context"

	"github.com/KasumiMercury/primind-slot-allocation/internal/domain"
)

type noopRecorder struct{}

func NewNoopRecorder() domain.AllocationResultRecorder {
	return &noopRecorder{}
}

func (n *noopRecorder) RecordFlightResults(_ context.Context, _ []domain.AllocationResultRecord) error {
	return nil
}

func (n *noopRecorder) RecordPolicySummaries(_ context.Context, _ []domain.PolicySummaryRecord) error {
	return nil
}

func (n *noopRecorder) Flush(_ context.Context) error {
	return nil
}

func (n *noopRecorder) Close() error {
	return nil
}
