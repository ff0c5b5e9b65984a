package health

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/KasumiMercury/primind-slot-allocation/internal/domain"
	"github.com/KasumiMercury/primind-slot-allocation/internal/infra/instance"
)

func RedisProbe(client *redis.Client) Probe {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}

// OptimizerProbe solves the built-in fixture and checks the result is a
// valid assignment.
func OptimizerProbe(optimizer domain.Optimizer) Probe {
	return func(ctx context.Context) error {
		inst := instance.SmallInstance()
		sol, err := optimizer.SolveAssignment(ctx, inst.Slots, inst.Flights, true)
		if err != nil {
			return err
		}
		if sol == nil {
			return fmt.Errorf("%w: empty solution", domain.ErrOptimizerInfeasible)
		}
		return sol.Assignment.Validate()
	}
}
