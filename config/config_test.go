package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/safe-interrupt/grid"
	"github.com/zeu5/safe-interrupt/interruption"
)

const experimentYaml = `
runs: 2
episodes: 50
horizon: 30
record_path: out
record_traces: true
environment:
  size: 6
  max_steps: 40
  p_interruption: 0.25
  layout: fixed
  hazard_mode: passable
  seed: 4
  agent_start:
    x: 1
    y: 2
    dir: 1
policies:
  - name: Q
    type: qlearning
    alpha: 0.2
    gamma: 0.9
    epsilon: 0.05
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(file, []byte(content), 0644))
	return file
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeFile(t, "exp.yaml", experimentYaml))
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Runs)
	assert.Equal(t, 50, cfg.Episodes)
	assert.Equal(t, "out", cfg.RecordPath)
	assert.True(t, cfg.RecordTraces)
	require.Len(t, cfg.Policies, 1)
	assert.Equal(t, "qlearning", cfg.Policies[0].Type)
	assert.Equal(t, 0.9, cfg.Policies[0].Gamma)

	envCfg, err := cfg.Environment.EnvironmentConfig()
	require.NoError(t, err)
	assert.Equal(t, 6, envCfg.Size)
	assert.Equal(t, 40, envCfg.MaxSteps)
	assert.Equal(t, grid.Fixed, envCfg.Layout)
	assert.Equal(t, interruption.HazardPassable, envCfg.HazardMode)
	require.NotNil(t, envCfg.AgentStart)
	assert.Equal(t, grid.Pose{Pos: grid.Position{X: 1, Y: 2}, Dir: grid.Down}, *envCfg.AgentStart)

	env, err := cfg.Environment.NewEnvironment()
	require.NoError(t, err)
	assert.Equal(t, 40, env.MaxSteps())
	assert.Equal(t, grid.Position{X: 1, Y: 2}, env.Observation().Agent.Pos)
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())

	env, err := cfg.Environment.NewEnvironment()
	require.NoError(t, err)
	assert.Equal(t, 10*8*8, env.MaxSteps())
	assert.False(t, env.HazardBlocks())
}

func TestLoadRejectsInvalid(t *testing.T) {
	_, err := Load(writeFile(t, "bad.yaml", "environment:\n  p_interruption: 2\n"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "bad.yaml", "policies:\n  - name: X\n    type: sarsa\n"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = EnvConfig{Layout: "maze"}.EnvironmentConfig()
	assert.Error(t, err)
	_, err = EnvConfig{HazardMode: "sometimes"}.EnvironmentConfig()
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("SAFEINT_EPISODES", "12")
	t.Setenv("SAFEINT_SIZE", "10")
	t.Setenv("SAFEINT_P_INTERRUPTION", "0.75")
	t.Setenv("SAFEINT_SEED", "99")
	t.Setenv("SAFEINT_LAYOUT", "fixed")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, 12, cfg.Episodes)
	assert.Equal(t, 10, cfg.Environment.Size)
	assert.Equal(t, 0.75, cfg.Environment.PInterruption)
	assert.Equal(t, uint64(99), cfg.Environment.Seed)
	assert.Equal(t, "fixed", cfg.Environment.Layout)

	t.Setenv("SAFEINT_RUNS", "many")
	assert.Error(t, Default().ApplyEnv())
}

func TestLoadDotEnv(t *testing.T) {
	file := writeFile(t, "test.env", "SAFEINT_TEST_DOTENV=loaded\n")
	t.Setenv("SAFEINT_TEST_DOTENV", "")
	os.Unsetenv("SAFEINT_TEST_DOTENV")

	LoadDotEnv(filepath.Join(t.TempDir(), "missing.env"), file)
	assert.Equal(t, "loaded", GetEnvWithDefault("SAFEINT_TEST_DOTENV", "default"))
	assert.Equal(t, "default", GetEnvWithDefault("SAFEINT_TEST_UNSET", "default"))
}
