package health

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/KasumiMercury/primind-slot-allocation/internal/domain"
	"github.com/KasumiMercury/primind-slot-allocation/internal/infra/instance"
	"github.com/KasumiMercury/primind-slot-allocation/internal/testutil"
)

func TestChecker_Check(t *testing.T) {
	tests := []struct {
		name       string
		probes     map[string]Probe
		wantStatus Status
		wantFailed []string
	}{
		{
			name:       "no probes",
			wantStatus: StatusHealthy,
		},
		{
			name: "all healthy",
			probes: map[string]Probe{
				"a": func(context.Context) error { return nil },
				"b": func(context.Context) error { return nil },
			},
			wantStatus: StatusHealthy,
		},
		{
			name: "one failing",
			probes: map[string]Probe{
				"ok":     func(context.Context) error { return nil },
				"broken": func(context.Context) error { return errors.New("down") },
			},
			wantStatus: StatusUnhealthy,
			wantFailed: []string{"broken"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := NewChecker("v1")
			for name, probe := range tt.probes {
				checker.Register(name, probe)
			}

			status := checker.Check(context.Background())

			if status.Status != tt.wantStatus {
				t.Errorf("Status = %s, want %s", status.Status, tt.wantStatus)
			}
			if status.Version != "v1" {
				t.Errorf("Version = %q, want v1", status.Version)
			}
			if len(status.Checks) != len(tt.probes) {
				t.Errorf("expected %d checks, got %d", len(tt.probes), len(status.Checks))
			}
			for _, name := range tt.wantFailed {
				if status.Checks[name].Status != StatusUnhealthy || status.Checks[name].Error == "" {
					t.Errorf("expected %s to be reported unhealthy, got %+v", name, status.Checks[name])
				}
			}
		})
	}
}

func TestOptimizerProbe(t *testing.T) {
	inst := instance.SmallInstance()
	valid := domain.NewAssignment()
	valid.Assign(inst.Flights[0], inst.Slots[0])
	invalid := domain.NewAssignment()
	invalid.Assign(inst.Flights[0], domain.Slot{ID: "early", Time: inst.Flights[0].DepartureTime})

	tests := []struct {
		name    string
		sol     *domain.Solution
		err     error
		wantErr error
	}{
		{name: "valid solution", sol: &domain.Solution{Assignment: valid}},
		{name: "solver error", err: domain.ErrOptimizerInfeasible, wantErr: domain.ErrOptimizerInfeasible},
		{name: "nil solution", wantErr: domain.ErrOptimizerInfeasible},
		{name: "infeasible placement", sol: &domain.Solution{Assignment: invalid}, wantErr: domain.ErrInfeasibleAllocation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			optimizer := domain.NewMockOptimizer(ctrl)
			optimizer.EXPECT().
				SolveAssignment(gomock.Any(), gomock.Any(), gomock.Any(), true).
				Return(tt.sol, tt.err)

			err := OptimizerProbe(optimizer)(context.Background())
			if tt.wantErr == nil && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestRedisProbe(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	status := NewChecker("test").Register("redis", RedisProbe(client)).Check(ctx)
	if status.Status != StatusHealthy {
		t.Errorf("expected healthy redis, got %+v", status.Checks["redis"])
	}
}
