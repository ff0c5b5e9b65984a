package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/KasumiMercury/primind-slot-allocation/internal/config"
	"github.com/KasumiMercury/primind-slot-allocation/internal/observability"
)

// Version is set via ldflags at build time
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:           "slot-allocation",
	Short:         "Flight slot allocation engine",
	Long:          "Allocates constrained arrival slots to flights under RBS, substitution and system-optimal policies.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads configuration and installs the default logger. The returned
// function shuts observability down.
func setup(ctx context.Context) (*config.Config, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	obs, err := initObservability(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("initialize observability: %w", err)
	}
	slog.SetDefault(obs.Logger())

	shutdown := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := obs.Shutdown(shutdownCtx); err != nil {
			slog.Warn("observability shutdown error", slog.String("error", err.Error()))
		}
	}

	return cfg, shutdown, nil
}

func newObservabilityConfig(cfg *config.Config) observability.Config {
	return observability.Config{
		SamplingRate: 1.0,
		LogLevel:     cfg.LogLevel,
		LogFormat:    cfg.LogFormat,
	}
}
