package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/KasumiMercury/primind-slot-allocation/internal/config"
	"github.com/KasumiMercury/primind-slot-allocation/internal/service/allocation"
)

func TestRootCommand_RegistersSubcommands(t *testing.T) {
	for _, name := range []string{"run", "generate", "check"} {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("expected %q subcommand, got %v (err %v)", name, cmd, err)
		}
	}
}

func TestApplyRunFlags(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().StringVar(&runPolicies, "policies", "", "")
	cmd.Flags().IntVar(&runTrials, "trials", 0, "")
	cmd.Flags().Uint64Var(&runSeed, "seed", 0, "")
	cmd.Flags().BoolVar(&runCheats, "airline-cheats", false, "")
	cmd.Flags().BoolVar(&runPostSwap, "post-swap", false, "")

	if err := cmd.Flags().Parse([]string{"--policies", "rbs,wsysopt", "--trials", "5", "--post-swap"}); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	cfg := &config.Config{
		Policy:   &config.PolicyConfig{Policies: config.AllPolicies, AirlineCheats: true},
		Instance: config.DefaultInstanceConfig(),
	}
	applyRunFlags(cmd, cfg)

	if len(cfg.Policy.Policies) != 2 || cfg.Policy.Policies[1] != config.PolicyWSysOpt {
		t.Errorf("Policies = %v", cfg.Policy.Policies)
	}
	if cfg.Instance.Trials != 5 {
		t.Errorf("Trials = %d, want 5", cfg.Instance.Trials)
	}
	if cfg.Instance.Seed != 1 {
		t.Errorf("unchanged seed should keep the configured value, got %d", cfg.Instance.Seed)
	}
	if !cfg.Policy.AirlineCheats || !cfg.Policy.PostSwap {
		t.Errorf("unexpected policy flags: %+v", cfg.Policy)
	}
}

func TestPrintAverages(t *testing.T) {
	var buf bytes.Buffer
	err := printAverages(&buf, []allocation.PolicyAverage{
		{Policy: config.PolicyRBS, Trials: 2, MeanTotal: 1200},
		{Policy: config.PolicyWSysOpt, Trials: 2, MeanTotal: 900},
	})
	if err != nil {
		t.Fatalf("printAverages() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and two rows, got %q", buf.String())
	}
	if !strings.Contains(lines[1], "RBS") || !strings.Contains(lines[2], "WSYSOPT") {
		t.Errorf("unexpected rows: %q", lines[1:])
	}
}

func TestNewGenerator_RequiresSchedule(t *testing.T) {
	if _, err := newGenerator(config.DefaultInstanceConfig(), "", "1970-01-01T00:00:00Z"); err == nil {
		t.Error("expected an error without a schedule")
	}
}
