package sysopt

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KasumiMercury/primind-slot-allocation/internal/domain"
)

var _ domain.Allocator = (*SysOpt)(nil)

// SysOpt is the system-optimal benchmark: one solve over the whole instance.
type SysOpt struct {
	weighted  bool
	optimizer domain.Optimizer
}

func NewSysOpt(weighted bool, optimizer domain.Optimizer) *SysOpt {
	return &SysOpt{
		weighted:  weighted,
		optimizer: optimizer,
	}
}

func (s *SysOpt) Allocate(ctx context.Context, slots []domain.Slot, flights []domain.Flight) (domain.Assignment, error) {
	sol, err := s.optimizer.SolveAssignment(ctx, slots, flights, s.weighted)
	if err != nil {
		return nil, fmt.Errorf("system optimum: %w", err)
	}

	slog.DebugContext(ctx, "sysopt: allocation completed",
		slog.Bool("weighted", s.weighted),
		slog.Int("assigned", len(sol.Assignment)),
		slog.Float64("objective_seconds", sol.Objective),
	)

	return sol.Assignment, nil
}
