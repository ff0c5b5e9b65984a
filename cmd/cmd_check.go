package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/KasumiMercury/primind-slot-allocation/internal/config"
	"github.com/KasumiMercury/primind-slot-allocation/internal/health"
	"github.com/KasumiMercury/primind-slot-allocation/internal/infra/solvecache"
	"github.com/KasumiMercury/primind-slot-allocation/internal/service/optimization"
)

var errUnhealthy = errors.New("dependency check failed")

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check configuration and dependencies before a run",
	Long:  "Validate the configuration, connect the configured solve cache and solve the built-in instance through it.",
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, shutdown, err := setup(ctx)
	if err != nil {
		return err
	}
	defer shutdown()

	if err := config.ValidateForRun(cfg); err != nil {
		return err
	}

	checker := health.NewChecker(Version)

	var redisClient *redis.Client
	if cfg.SolveCache.Backend == config.SolveCacheRedis {
		redisClient, err = newRedisClient(ctx, cfg.SolveCache.Redis)
		if err != nil {
			return err
		}
		defer redisClient.Close()
		checker.Register("redis", health.RedisProbe(redisClient))
	}

	optimizer, closeCache, err := solvecache.Wrap(optimization.NewSolver(), cfg.SolveCache, redisClient, nil)
	if err != nil {
		return err
	}
	defer closeCache()
	checker.Register("optimizer", health.OptimizerProbe(optimizer))

	status := checker.Check(ctx)

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(status); err != nil {
		return fmt.Errorf("encode status: %w", err)
	}

	if status.Status != health.StatusHealthy {
		slog.Error("dependency check failed", slog.Any("checks", status.Checks))
		return errUnhealthy
	}
	return nil
}
