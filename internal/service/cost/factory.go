package cost

import (
	"fmt"
	"log/slog"

	"github.com/KasumiMercury/primind-slot-allocation/internal/config"
	"github.com/KasumiMercury/primind-slot-allocation/internal/domain"
)

func NewStrategy(cfg *config.CostStrategyConfig, optimizer domain.Optimizer) (Strategy, error) {
	if cfg == nil {
		slog.Info("cost strategy config is nil, using rtc strategy")
		return NewRTC(), nil
	}

	switch cfg.Method {
	case config.CostMethodReoptimize:
		if optimizer == nil {
			return nil, fmt.Errorf("%w: reoptimize cost strategy requires an optimizer", domain.ErrInvalidConfiguration)
		}
		slog.Info("using subproblem reoptimization cost strategy",
			slog.Bool("weighted", cfg.Weighted),
		)
		return NewSubproblemReoptimization(cfg.Weighted, optimizer), nil

	case config.CostMethodLocal:
		slog.Info("using local substitution cost strategy",
			slog.Bool("weighted", cfg.Weighted),
		)
		return NewLocalSubstitution(cfg.Weighted), nil

	case config.CostMethodRTC:
		slog.Info("using rtc cost strategy")
		return NewRTC(), nil

	default:
		return nil, fmt.Errorf("%w: unknown cost method %q", domain.ErrInvalidConfiguration, cfg.Method)
	}
}
