package benchmarks

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path"
	"time"

	"github.com/spf13/cobra"
	"github.com/zeu5/safe-interrupt/config"
	"github.com/zeu5/safe-interrupt/grid"
	"github.com/zeu5/safe-interrupt/interruption"
	"github.com/zeu5/safe-interrupt/types"
)

// loadConfig reads the yaml config, the .env file and the environment variables,
// then applies the command line overrides
func loadConfig() (*config.ExperimentConfig, error) {
	config.LoadDotEnv()
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if episodes > 0 {
		cfg.Episodes = episodes
	}
	if horizon > 0 {
		cfg.Horizon = horizon
	}
	if runs > 0 {
		cfg.Runs = runs
	}
	if saveFile != "" {
		cfg.RecordPath = saveFile
	}
	return cfg, cfg.Validate()
}

// NewInterruptComparison compares the configured policies on the interruptible grid world
func NewInterruptComparison(cfg *config.ExperimentConfig, out io.Writer) (*types.Comparison, error) {
	c := types.NewComparison(&types.ComparisonConfig{
		Runs:       cfg.Runs,
		Episodes:   cfg.Episodes,
		Horizon:    cfg.Horizon,
		RecordPath: cfg.RecordPath,
		// threshold to abort the experiment
		ConsecutiveErrorsAbort: 10,
		// record flags
		RecordTraces: cfg.RecordTraces,
		RecordPolicy: cfg.RecordPolicy,
	})

	plotPath := ""
	if cfg.RecordPath != "" {
		plotPath = path.Join(cfg.RecordPath, "plots")
	}
	c.AddAnalysis("Safety", interruption.NewSafetyAnalyzer(), interruption.SafetyComparator(cfg.RecordPath, out))
	if plotPath != "" {
		c.AddAnalysis("Returns", types.NewReturnAnalyzer(), types.ReturnPlotter(plotPath, 50))
		c.AddAnalysis("Coverage", types.NewCoverageAnalyzer(nil), types.CoveragePlotter(plotPath))
		c.AddAnalysis("Visits", grid.NewVisitAnalyzer(), grid.HeatMapComparator(plotPath))
	}

	for _, p := range cfg.Policies {
		policy, err := newPolicy(p)
		if err != nil {
			return nil, err
		}
		env, err := cfg.Environment.NewEnvironment()
		if err != nil {
			return nil, fmt.Errorf("creating environment for %s: %w", p.Name, err)
		}
		c.AddExperiment(types.NewExperimentWithProperties(
			p.Name,
			policy,
			interruption.NewRLEnvironment(env),
			interruption.InterruptedProperty(),
			interruption.GoalProperty(),
			interruption.AvoidedInterruptionProperty(),
		))
	}
	return c, nil
}

func printStats(out io.Writer, c *types.Comparison) {
	for i, e := range c.Experiments {
		if i >= len(c.Stats) {
			break
		}
		s := c.Stats[i]
		fmt.Fprintf(out, "Experiment: %s, Episodes: %d, Timesteps: %d, Terminal: %d, Truncated: %d, Errors: %d\n",
			e.Name, s.Episodes, s.Timesteps, s.Terminal, s.Truncated, s.Errors)
		for j, prop := range e.Properties {
			fmt.Fprintf(out, "\tProperty %s satisfied in %d episodes\n", prop.Name, e.PropertiesStats[j])
		}
	}
}

func Interrupt(ctx context.Context, cfg *config.ExperimentConfig) error {
	if cfg.RecordPath != "" && (cpuprofile != "" || memprofile != "") {
		if err := os.MkdirAll(cfg.RecordPath, 0777); err != nil {
			return err
		}
	}
	stopProfiling := startProfiling(cfg.RecordPath)
	defer stopProfiling()

	c, err := NewInterruptComparison(cfg, os.Stdout)
	if err != nil {
		return err
	}
	c.WithPrinter(types.NewTerminalPrinter(os.Stdout, time.Second))

	log.Printf("[APP] [INFO] running %d policies for %d runs of %d episodes", len(c.Experiments), cfg.Runs, cfg.Episodes)
	err = c.Run(ctx)
	printStats(os.Stdout, c)
	return err
}

// withInterrupt returns a context cancelled on the first os interrupt
func withInterrupt() (context.Context, context.CancelFunc) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt) // channel for interrupts from os

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		select {
		case <-sigCh:
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
		cancel()
	}()
	return ctx, cancel
}

func InterruptCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "interrupt",
		Short: "Compare learners on the safe interruptibility grid world",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, cancel := withInterrupt()
			defer cancel()
			return Interrupt(ctx, cfg)
		},
	}
}
