package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/KasumiMercury/primind-slot-allocation/internal/config"
	"github.com/KasumiMercury/primind-slot-allocation/internal/domain"
	"github.com/KasumiMercury/primind-slot-allocation/internal/infra/instance"
	"github.com/KasumiMercury/primind-slot-allocation/internal/infra/resultrecorder"
	"github.com/KasumiMercury/primind-slot-allocation/internal/infra/solvecache"
	"github.com/KasumiMercury/primind-slot-allocation/internal/observability/metrics"
	"github.com/KasumiMercury/primind-slot-allocation/internal/service/allocation"
	"github.com/KasumiMercury/primind-slot-allocation/internal/service/optimization"
)

const baseTimeLayout = time.RFC3339

// Run flags
var (
	runInstancePath string
	runSchedulePath string
	runBaseTime     string
	runPolicies     string
	runTrials       int
	runSeed         uint64
	runCheats       bool
	runPostSwap     bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run allocation policies on an instance or a schedule",
	Long: `Run the selected allocation policies.

With --instance the policies run once on a fixed instance file (YAML or JSON).
With --schedule a CSV schedule (fid, airline, dt, fca) is turned into one
instance per trial by sampling reroute costs and weights.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runInstancePath, "instance", "", "Path to an instance file")
	runCmd.Flags().StringVar(&runSchedulePath, "schedule", "", "Path to a CSV schedule")
	runCmd.Flags().StringVar(&runBaseTime, "base-time", "1970-01-01T00:00:00Z", "Schedule origin (RFC3339)")
	runCmd.Flags().StringVar(&runPolicies, "policies", "", "Comma separated policies (overrides ALLOCATION_POLICIES)")
	runCmd.Flags().IntVar(&runTrials, "trials", 0, "Number of trials for schedule runs (overrides TRIALS)")
	runCmd.Flags().Uint64Var(&runSeed, "seed", 0, "Sampling seed (overrides SEED)")
	runCmd.Flags().BoolVar(&runCheats, "airline-cheats", false, "Let airlines veto displacements")
	runCmd.Flags().BoolVar(&runPostSwap, "post-swap", false, "Apply the per-airline swap pass after every policy")
	runCmd.MarkFlagsMutuallyExclusive("instance", "schedule")
	runCmd.MarkFlagsOneRequired("instance", "schedule")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, shutdown, err := setup(ctx)
	if err != nil {
		return err
	}
	defer shutdown()

	applyRunFlags(cmd, cfg)

	if err := config.ValidateForRun(cfg); err != nil {
		return err
	}

	allocationMetrics, err := metrics.NewAllocationMetrics()
	if err != nil {
		return fmt.Errorf("initialize allocation metrics: %w", err)
	}

	recorder, err := resultrecorder.NewRecorder(ctx, resultrecorder.LoadConfig())
	if err != nil {
		return fmt.Errorf("initialize result recorder: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := recorder.Flush(flushCtx); err != nil {
			slog.Warn("failed to flush result recorder", slog.String("error", err.Error()))
		}
		if err := recorder.Close(); err != nil {
			slog.Warn("failed to close result recorder", slog.String("error", err.Error()))
		}
	}()

	var redisClient *redis.Client
	if cfg.SolveCache.Backend == config.SolveCacheRedis {
		redisClient, err = newRedisClient(ctx, cfg.SolveCache.Redis)
		if err != nil {
			return err
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				slog.Warn("failed to close redis client", slog.String("error", err.Error()))
			}
		}()
	}

	optimizer, closeCache, err := solvecache.Wrap(
		optimization.NewSolver(optimization.WithMetrics(allocationMetrics)),
		cfg.SolveCache,
		redisClient,
		allocationMetrics,
	)
	if err != nil {
		return fmt.Errorf("initialize solve cache: %w", err)
	}
	defer func() {
		if err := closeCache(); err != nil {
			slog.Warn("failed to close solve cache", slog.String("error", err.Error()))
		}
	}()

	svc, err := allocation.NewService(
		allocation.NewCatalog(optimizer, cfg.Policy, allocation.WithCatalogMetrics(allocationMetrics)),
		cfg.Policy.Policies,
		allocation.WithRecorder(recorder),
		allocation.WithMetrics(allocationMetrics),
	)
	if err != nil {
		return err
	}

	slog.Info("allocation run starting",
		slog.Any("policies", cfg.Policy.Policies),
		slog.Bool("airline_cheats", cfg.Policy.AirlineCheats),
		slog.Bool("post_swap", cfg.Policy.PostSwap),
		slog.String("solve_cache", string(cfg.SolveCache.Backend)),
	)

	results, err := runAllocation(ctx, svc, cfg.Instance)
	if err != nil {
		return err
	}

	return printAverages(cmd.OutOrStdout(), allocation.Average(results))
}

func applyRunFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("policies") {
		cfg.Policy.Policies = config.ParsePolicies(runPolicies)
	}
	if flags.Changed("trials") {
		cfg.Instance.Trials = runTrials
	}
	if flags.Changed("seed") {
		cfg.Instance.Seed = runSeed
	}
	if flags.Changed("airline-cheats") {
		cfg.Policy.AirlineCheats = runCheats
	}
	if flags.Changed("post-swap") {
		cfg.Policy.PostSwap = runPostSwap
	}
}

func runAllocation(ctx context.Context, svc *allocation.Service, cfg *config.InstanceConfig) ([]*allocation.RunResult, error) {
	if runInstancePath != "" {
		inst, err := instance.LoadFile(runInstancePath)
		if err != nil {
			return nil, fmt.Errorf("load instance: %w", err)
		}
		result, err := svc.Run(ctx, inst.Slots, inst.Flights)
		if err != nil {
			return nil, err
		}
		return []*allocation.RunResult{result}, nil
	}

	gen, err := newGenerator(cfg, runSchedulePath, runBaseTime)
	if err != nil {
		return nil, err
	}
	return svc.RunTrials(ctx, cfg.Trials, func(int) ([]domain.Slot, []domain.Flight) {
		inst := gen.Next()
		return inst.Slots, inst.Flights
	})
}

func newGenerator(cfg *config.InstanceConfig, schedulePath, baseTime string) (*instance.Generator, error) {
	if schedulePath == "" {
		return nil, errors.New("a schedule is required")
	}

	rows, err := instance.ReadScheduleFile(schedulePath)
	if err != nil {
		return nil, fmt.Errorf("read schedule: %w", err)
	}

	base, err := time.Parse(baseTimeLayout, baseTime)
	if err != nil {
		return nil, fmt.Errorf("parse base time: %w", err)
	}

	return instance.NewGenerator(rows, instance.GeneratorConfig{
		BaseTime:        base,
		SlotWindowStart: cfg.SlotWindowStart,
		SlotWindowEnd:   cfg.SlotWindowEnd,
		SlotsPerHour:    cfg.SlotsPerHour,
		Model: instance.CostModel{
			RerouteCost: instance.Triangular(cfg.RerouteCost),
			Weight:      instance.Triangular(cfg.Weight),
		},
		Seed: cfg.Seed,
	})
}

func printAverages(out io.Writer, averages []allocation.PolicyAverage) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "POLICY\tTRIALS\tREROUTED\tTOTAL_S\tWTOTAL_S\tTOTAL_S/FLIGHT\tWTOTAL_S/FLIGHT\t")
	for _, a := range averages {
		fmt.Fprintf(w, "%s\t%d\t%.2f\t%.1f\t%.1f\t%.1f\t%.1f\t\n",
			a.Policy, a.Trials, a.MeanRerouted, a.MeanTotal, a.MeanWeightedTotal,
			a.MeanTotalPerFlight, a.MeanWeightedPerFlight)
	}
	return w.Flush()
}
