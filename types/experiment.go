package types

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"strconv"

	"github.com/zeu5/safe-interrupt/util"
)

type experimentRunConfig struct {
	// execution configuration
	CurrentRun int
	Episodes   int
	Horizon    int
	Analyzers  []Analyzer
	Context    context.Context

	// threshold to abort the experiment
	ConsecutiveErrorsAbort int

	// record flags
	RecordTraces bool
	RecordPolicy bool
	RecordPath   string

	// where the experiment publishes its status line, can be nil
	Output *ParallelOutput
}

// Experiment encapsulates the different parameters to configure an agent and analyze the traces
type Experiment struct {
	Name        string
	policy      Policy
	environment Environment

	Properties      []*Monitor
	PropertiesStats []int
}

// NewExperiment creates a new experiment instance
func NewExperiment(name string, policy Policy, environment Environment) *Experiment {
	return &Experiment{
		Name:            name,
		policy:          policy,
		environment:     environment,
		Properties:      make([]*Monitor, 0),
		PropertiesStats: make([]int, 0),
	}
}

// NewExperimentWithProperties additionally counts the episodes satisfying each property
func NewExperimentWithProperties(name string, policy Policy, environment Environment, properties ...*Monitor) *Experiment {
	e := NewExperiment(name, policy, environment)
	e.Properties = properties
	e.PropertiesStats = make([]int, len(properties))
	return e
}

func (e *Experiment) recordTrace(rConfig *experimentRunConfig, trace *Trace) error {
	tracesFile := path.Join(rConfig.RecordPath, "traces", e.Name+"_"+strconv.Itoa(rConfig.CurrentRun)+".jsonl")
	bs, err := json.Marshal(trace)
	if err != nil {
		return err
	}
	return util.AppendToFile(tracesFile, string(bs))
}

// ExperimentStats summarises how the episodes of a run ended
type ExperimentStats struct {
	Episodes   int
	Timesteps  int
	Terminal   int
	Truncated  int
	HorizonEnd int
	Errors     int
}

func (s ExperimentStats) String() string {
	return fmt.Sprintf("Eps:%d, TSteps:%d || Terminal:%d, Truncated:%d, Horizon:%d, Err:%d",
		s.Episodes, s.Timesteps, s.Terminal, s.Truncated, s.HorizonEnd, s.Errors)
}

// Run the experiment for the specified number of episodes
// Additionally, for each iteration, check if any of the properties have been satisfied
func (e *Experiment) Run(rConfig *experimentRunConfig) (ExperimentStats, error) {
	stats := ExperimentStats{}
	consecutiveErrors := 0
	for i := range e.PropertiesStats {
		e.PropertiesStats[i] = 0
	}

	agent := NewAgent(&AgentConfig{
		Episodes:    rConfig.Episodes,
		Horizon:     rConfig.Horizon,
		Policy:      e.policy,
		Environment: e.environment,
	})

	for episode := 0; episode < rConfig.Episodes; episode++ {
		select {
		case <-rConfig.Context.Done():
			return stats, rConfig.Context.Err()
		default:
		}

		eCtx := NewEpisodeContext(episode)
		e.runEpisode(eCtx, agent)

		stats.Episodes += 1
		stats.Timesteps += eCtx.Timesteps

		if eCtx.Err != nil {
			stats.Errors += 1
			consecutiveErrors += 1
			if consecutiveErrors >= rConfig.ConsecutiveErrorsAbort {
				return stats, fmt.Errorf("aborting experiment %s after %d consecutive errors: %w", e.Name, consecutiveErrors, eCtx.Err)
			}
			continue
		}
		consecutiveErrors = 0

		switch {
		case eCtx.Trace.Terminal:
			stats.Terminal += 1
		case eCtx.Trace.Truncated:
			stats.Truncated += 1
		case eCtx.HorizonEnd:
			stats.HorizonEnd += 1
		}

		if rConfig.RecordTraces {
			if err := e.recordTrace(rConfig, eCtx.Trace); err != nil {
				return stats, fmt.Errorf("recording trace: %w", err)
			}
		}

		for _, a := range rConfig.Analyzers {
			a.Analyze(rConfig.CurrentRun, episode, e.Name, eCtx.Trace)
		}

		for i, prop := range e.Properties {
			if _, ok := prop.Check(eCtx.Trace); ok {
				e.PropertiesStats[i] += 1
			}
		}

		if rConfig.Output != nil {
			rConfig.Output.TrySet(fmt.Sprintf("Exp:%s, Run:%d, %s", e.Name, rConfig.CurrentRun, stats.String()))
		}
	}

	if rConfig.RecordPolicy {
		if r, ok := e.policy.(Recorder); ok {
			if err := r.Record(path.Join(rConfig.RecordPath, "policies", e.Name+"_"+strconv.Itoa(rConfig.CurrentRun)+".json")); err != nil {
				return stats, fmt.Errorf("recording policy: %w", err)
			}
		}
	}
	return stats, nil
}

func (e *Experiment) runEpisode(eCtx *EpisodeContext, agent *Agent) {
	defer func() {
		if r := recover(); r != nil {
			eCtx.SetError(fmt.Errorf("%v", r))
		}
	}()
	agent.RunEpisode(eCtx)
}

// Reset clears what the policy learnt so that the next run starts fresh
func (e *Experiment) Reset() {
	e.policy.Reset()
}

// Generic Dataset that contains information after processing the traces
type DataSet interface{}

// Analyzer compresses the information in the traces to a DataSet
type Analyzer interface {
	// Run, episode, experiment, trace
	Analyze(int, int, string, *Trace)
	// Resulting dataset
	DataSet() DataSet
	// Reset the analyzer
	Reset()
}

// Comparator differentiates between different datasets with associated names
// run, experiment names, datasets
type Comparator func(int, []string, []DataSet) error

// ComparisonConfig contains the configuration for the comparison
type ComparisonConfig struct {
	Runs     int // number of runs
	Episodes int // number of episodes
	Horizon  int // number of steps

	RecordPath string // path to store the results

	// threshold to abort an experiment
	ConsecutiveErrorsAbort int

	// record flags
	RecordTraces bool
	RecordPolicy bool
}

// Comparison contains the different experiments to compare
// The traces obtained from the experiments are analyzed
// The analyzed datasets are then compared
type Comparison struct {
	Experiments   []*Experiment
	analyzerNames []string
	analyzers     map[string]Analyzer
	comparators   map[string]Comparator
	cConfig       *ComparisonConfig
	printer       *TerminalPrinter

	// Stats of the last run, indexed like Experiments
	Stats []ExperimentStats
}

// NewComparison creates a comparison instance
func NewComparison(config *ComparisonConfig) *Comparison {
	return &Comparison{
		Experiments:   make([]*Experiment, 0),
		analyzerNames: make([]string, 0),
		analyzers:     make(map[string]Analyzer),
		comparators:   make(map[string]Comparator),
		cConfig:       config,
	}
}

// WithPrinter attaches a terminal printer that shows the progress of each experiment
func (c *Comparison) WithPrinter(p *TerminalPrinter) *Comparison {
	c.printer = p
	return c
}

// AddAnalysis adds an analyzer and comparator to the comparison
func (c *Comparison) AddAnalysis(name string, analyzer Analyzer, comparator Comparator) {
	if _, ok := c.analyzers[name]; !ok {
		c.analyzerNames = append(c.analyzerNames, name)
	}
	c.analyzers[name] = analyzer
	c.comparators[name] = comparator
}

// Add experiments to compare
func (c *Comparison) AddExperiment(e *Experiment) {
	c.Experiments = append(c.Experiments, e)
}

func (c *Comparison) prepareFolders() error {
	cfg := c.cConfig
	if cfg.RecordPath == "" {
		return nil
	}
	folders := []string{""}
	if cfg.RecordTraces {
		folders = append(folders, "traces")
	}
	if cfg.RecordPolicy {
		folders = append(folders, "policies")
	}
	for _, f := range folders {
		if err := os.MkdirAll(path.Join(cfg.RecordPath, f), 0777); err != nil {
			return err
		}
	}
	return nil
}

// record the configuration of the comparison
func (c *Comparison) recordConfig() error {
	cfg := c.cConfig
	if cfg.RecordPath == "" {
		return nil
	}
	out := make(map[string]interface{})
	out["runs"] = cfg.Runs
	out["episodes"] = cfg.Episodes
	out["horizon"] = cfg.Horizon
	out["record_traces"] = cfg.RecordTraces
	out["record_policy"] = cfg.RecordPolicy

	experiments := make([]string, 0)
	for _, e := range c.Experiments {
		experiments = append(experiments, e.Name)
	}
	out["experiments"] = experiments
	out["analyzers"] = c.analyzerNames

	bs, err := json.Marshal(out)
	if err != nil {
		return err
	}
	return os.WriteFile(path.Join(cfg.RecordPath, "comparison_config.json"), bs, 0644)
}

// Run the comparison
func (c *Comparison) Run(ctx context.Context) error {
	if err := c.prepareFolders(); err != nil {
		return fmt.Errorf("preparing record folders: %w", err)
	}
	if err := c.recordConfig(); err != nil {
		return fmt.Errorf("recording config: %w", err)
	}

	var output *ParallelOutput
	if c.printer != nil {
		output = c.printer.Output()
		c.printer.Start(ctx)
		defer c.printer.Stop()
	}

	for run := 0; run < c.cConfig.Runs; run++ {
		datasets := make(map[string][]DataSet)
		for name := range c.analyzers {
			datasets[name] = make([]DataSet, len(c.Experiments))
		}
		c.Stats = make([]ExperimentStats, len(c.Experiments))

		names := make([]string, len(c.Experiments))
		for i, e := range c.Experiments {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			stats, err := e.Run(c.prepareRunConfig(ctx, run, output))
			c.Stats[i] = stats
			if err != nil {
				return err
			}
			for name, a := range c.analyzers {
				datasets[name][i] = a.DataSet()
				a.Reset()
			}
			names[i] = e.Name
			e.Reset()
		}
		for _, name := range c.analyzerNames {
			if err := c.comparators[name](run, names, datasets[name]); err != nil {
				return fmt.Errorf("comparator %s: %w", name, err)
			}
		}
	}
	return nil
}

// prepare the run configuration for the experiment
func (c *Comparison) prepareRunConfig(ctx context.Context, run int, output *ParallelOutput) *experimentRunConfig {
	rCfg := &experimentRunConfig{
		CurrentRun:             run,
		Episodes:               c.cConfig.Episodes,
		Horizon:                c.cConfig.Horizon,
		Analyzers:              make([]Analyzer, 0, len(c.analyzers)),
		Context:                ctx,
		ConsecutiveErrorsAbort: c.cConfig.ConsecutiveErrorsAbort,
		RecordTraces:           c.cConfig.RecordTraces && c.cConfig.RecordPath != "",
		RecordPolicy:           c.cConfig.RecordPolicy && c.cConfig.RecordPath != "",
		RecordPath:             c.cConfig.RecordPath,
		Output:                 output,
	}
	if rCfg.ConsecutiveErrorsAbort == 0 {
		rCfg.ConsecutiveErrorsAbort = 10
	}
	for _, name := range c.analyzerNames {
		rCfg.Analyzers = append(rCfg.Analyzers, c.analyzers[name])
	}
	return rCfg
}
