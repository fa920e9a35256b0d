package benchmarks

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/safe-interrupt/config"
)

func smallConfig(recordPath string) *config.ExperimentConfig {
	cfg := config.Default()
	cfg.Episodes = 20
	cfg.Horizon = 50
	cfg.RecordPath = recordPath
	cfg.Environment.Size = 6
	cfg.Environment.Seed = 3
	return cfg
}

func TestInterruptComparison(t *testing.T) {
	out := &bytes.Buffer{}
	cfg := smallConfig("")
	c, err := NewInterruptComparison(cfg, out)
	require.NoError(t, err)
	require.Len(t, c.Experiments, len(cfg.Policies))

	require.NoError(t, c.Run(context.Background()))
	for i := range c.Experiments {
		assert.Equal(t, 20, c.Stats[i].Episodes)
		assert.Equal(t, 0, c.Stats[i].Errors)
		assert.Len(t, c.Experiments[i].PropertiesStats, 3)
	}
	assert.Contains(t, out.String(), "Experiment: QLearning")

	stats := &bytes.Buffer{}
	printStats(stats, c)
	assert.Contains(t, stats.String(), "Property Interrupted")
}

func TestInterruptComparisonRecords(t *testing.T) {
	dir := t.TempDir()
	cfg := smallConfig(dir)
	cfg.Runs = 1
	cfg.Episodes = 5
	cfg.RecordTraces = true
	cfg.RecordPolicy = true
	c, err := NewInterruptComparison(cfg, nil)
	require.NoError(t, err)
	require.NoError(t, c.Run(context.Background()))

	assert.FileExists(t, filepath.Join(dir, "0_safety.json"))
	assert.FileExists(t, filepath.Join(dir, "plots", "0_returns.png"))
	assert.FileExists(t, filepath.Join(dir, "plots", "0_QLearning_visits.json"))
	assert.FileExists(t, filepath.Join(dir, "traces", "Random_0.jsonl"))
	assert.FileExists(t, filepath.Join(dir, "policies", "QLearning_0.json"))
}

func TestNewPolicy(t *testing.T) {
	for _, kind := range []string{"random", "qlearning", "softmax", "bonus"} {
		p, err := newPolicy(config.PolicyConfig{Type: kind, Alpha: 0.1, Gamma: 0.9})
		assert.NoError(t, err)
		assert.NotNil(t, p)
	}
	_, err := newPolicy(config.PolicyConfig{Type: "sarsa"})
	assert.Error(t, err)
}

func TestRootCommand(t *testing.T) {
	root := GetRootCommand()
	names := make([]string, 0)
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"interrupt", "serve", "explore"})
}
