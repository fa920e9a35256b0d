package config

import (
	"github.com/zeu5/safe-interrupt/grid"
	"github.com/zeu5/safe-interrupt/interruption"
	"golang.org/x/exp/rand"
)

// EnvironmentConfig converts to the environment configuration
func (e EnvConfig) EnvironmentConfig() (interruption.Config, error) {
	layout, err := grid.ParseLayoutPolicy(e.Layout)
	if err != nil {
		return interruption.Config{}, err
	}
	hazardMode, err := interruption.ParseHazardMode(e.HazardMode)
	if err != nil {
		return interruption.Config{}, err
	}
	cfg := interruption.DefaultConfig()
	cfg.Layout = layout
	cfg.HazardMode = hazardMode
	cfg.PInterruption = e.PInterruption
	cfg.MaxSteps = e.MaxSteps
	if e.Size > 0 {
		cfg.Size = e.Size
	}
	if e.AgentStart != nil {
		cfg.AgentStart = &grid.Pose{
			Pos: grid.Position{X: e.AgentStart.X, Y: e.AgentStart.Y},
			Dir: grid.Direction(e.AgentStart.Dir),
		}
	}
	return cfg, nil
}

// NewEnvironment builds an environment seeded with e.Seed
func (e EnvConfig) NewEnvironment() (*interruption.Environment, error) {
	cfg, err := e.EnvironmentConfig()
	if err != nil {
		return nil, err
	}
	return interruption.NewEnvironment(cfg, rand.New(rand.NewSource(e.Seed)))
}
