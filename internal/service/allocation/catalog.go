package allocation

import (
	"fmt"
	"log/slog"

	"github.com/KasumiMercury/primind-slot-allocation/internal/config"
	"github.com/KasumiMercury/primind-slot-allocation/internal/domain"
	"github.com/KasumiMercury/primind-slot-allocation/internal/observability/metrics"
	"github.com/KasumiMercury/primind-slot-allocation/internal/service/cost"
	"github.com/KasumiMercury/primind-slot-allocation/internal/service/ctop"
	"github.com/KasumiMercury/primind-slot-allocation/internal/service/rbs"
	"github.com/KasumiMercury/primind-slot-allocation/internal/service/slotfill"
	"github.com/KasumiMercury/primind-slot-allocation/internal/service/sysopt"
)

// substitutionPolicy describes a policy run by the substitution engine.
type substitutionPolicy struct {
	cost     config.CostStrategyConfig
	compress bool
}

var substitutionPolicies = map[config.PolicyName]substitutionPolicy{
	config.PolicyCTOP:         {cost: config.CostStrategyConfig{Method: config.CostMethodRTC}},
	config.PolicyCmprRTC:      {cost: config.CostStrategyConfig{Method: config.CostMethodRTC}, compress: true},
	config.PolicyCmprOneStep:  {cost: config.CostStrategyConfig{Method: config.CostMethodLocal}, compress: true},
	config.PolicyCmprWOneStep: {cost: config.CostStrategyConfig{Method: config.CostMethodLocal, Weighted: true}, compress: true},
	config.PolicyCmprAssign:   {cost: config.CostStrategyConfig{Method: config.CostMethodReoptimize}, compress: true},
	config.PolicyCmprWAssign:  {cost: config.CostStrategyConfig{Method: config.CostMethodReoptimize, Weighted: true}, compress: true},
}

// Catalog builds named policies with shared run options.
type Catalog struct {
	optimizer       domain.Optimizer
	airlineCheats   bool
	postSwap        bool
	swapConcurrency int
	metrics         *metrics.AllocationMetrics
}

type CatalogOption func(*Catalog)

func WithCatalogMetrics(m *metrics.AllocationMetrics) CatalogOption {
	return func(c *Catalog) {
		c.metrics = m
	}
}

// NewCatalog builds policies backed by optimizer. optimizer may be nil when
// only RBS and the RTC/local substitution policies are used without cheats or
// post-swap.
func NewCatalog(optimizer domain.Optimizer, cfg *config.PolicyConfig, opts ...CatalogOption) *Catalog {
	c := &Catalog{optimizer: optimizer}
	if cfg != nil {
		c.airlineCheats = cfg.AirlineCheats
		c.postSwap = cfg.PostSwap
		c.swapConcurrency = cfg.SwapConcurrency
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Catalog) Build(name config.PolicyName) (domain.Allocator, error) {
	policy, err := c.build(name)
	if err != nil {
		return nil, err
	}

	if !c.postSwap {
		return policy, nil
	}
	if c.optimizer == nil {
		return nil, fmt.Errorf("%w: post-swap requires an optimizer", domain.ErrInvalidConfiguration)
	}
	return sysopt.WithSwaps(policy, sysopt.NewSwapPass(c.optimizer, sysopt.WithConcurrency(c.swapConcurrency))), nil
}

func (c *Catalog) build(name config.PolicyName) (domain.Allocator, error) {
	switch name {
	case config.PolicyRBS:
		slog.Debug("building RBS policy")
		return rbs.NewAllocator(), nil

	case config.PolicySysOpt, config.PolicyWSysOpt:
		if c.optimizer == nil {
			return nil, fmt.Errorf("%w: %s requires an optimizer", domain.ErrInvalidConfiguration, name)
		}
		weighted := name == config.PolicyWSysOpt
		slog.Debug("building system optimal policy",
			slog.String("policy", string(name)),
			slog.Bool("weighted", weighted),
		)
		return sysopt.NewSysOpt(weighted, c.optimizer), nil
	}

	policy, ok := substitutionPolicies[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown policy %q", domain.ErrInvalidConfiguration, name)
	}

	strategy, err := cost.NewStrategy(&policy.cost, c.optimizer)
	if err != nil {
		return nil, fmt.Errorf("policy %s: %w", name, err)
	}

	opts := []ctop.Option{ctop.WithMetrics(c.metrics)}
	if c.airlineCheats {
		if c.optimizer == nil {
			return nil, fmt.Errorf("%w: airline cheats require an optimizer", domain.ErrInvalidConfiguration)
		}
		opts = append(opts, ctop.WithAirlineCheats(cost.NewSubproblemReoptimization(true, c.optimizer)))
	}

	slog.Debug("building substitution policy",
		slog.String("policy", string(name)),
		slog.String("cost_method", string(policy.cost.Method)),
		slog.Bool("weighted", policy.cost.Weighted),
		slog.Bool("compress", policy.compress),
		slog.Bool("airline_cheats", c.airlineCheats),
	)

	runner, err := ctop.NewRunner(strategy, slotfill.NewFiller(policy.compress), opts...)
	if err != nil {
		return nil, fmt.Errorf("policy %s: %w", name, err)
	}
	return runner, nil
}
