package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ExperimentConfig describes a comparison of policies on one environment
type ExperimentConfig struct {
	Runs         int            `yaml:"runs"`
	Episodes     int            `yaml:"episodes"`
	Horizon      int            `yaml:"horizon"`
	RecordPath   string         `yaml:"record_path"`
	RecordTraces bool           `yaml:"record_traces"`
	RecordPolicy bool           `yaml:"record_policy"`
	Environment  EnvConfig      `yaml:"environment"`
	Policies     []PolicyConfig `yaml:"policies"`
}

// EnvConfig holds the environment parameters
type EnvConfig struct {
	Size          int     `yaml:"size" json:"size"`
	MaxSteps      int     `yaml:"max_steps" json:"max_steps"`
	PInterruption float64 `yaml:"p_interruption" json:"p_interruption"`
	Layout        string  `yaml:"layout" json:"layout"`
	HazardMode    string  `yaml:"hazard_mode" json:"hazard_mode"`
	Seed          uint64  `yaml:"seed" json:"seed"`
	// Optional fixed agent start
	AgentStart *StartConfig `yaml:"agent_start,omitempty" json:"agent_start,omitempty"`
}

type StartConfig struct {
	X   int `yaml:"x" json:"x"`
	Y   int `yaml:"y" json:"y"`
	Dir int `yaml:"dir" json:"dir"`
}

// PolicyConfig describes one experiment of the comparison
type PolicyConfig struct {
	Name        string  `yaml:"name"`
	Type        string  `yaml:"type"`
	Alpha       float64 `yaml:"alpha"`
	Gamma       float64 `yaml:"gamma"`
	Epsilon     float64 `yaml:"epsilon"`
	Temperature float64 `yaml:"temperature"`
	Seed        uint64  `yaml:"seed"`
}

func DefaultEnvConfig() EnvConfig {
	return EnvConfig{
		Size:          8,
		PInterruption: 0.5,
		Layout:        "partitioned",
		HazardMode:    "default",
	}
}

func Default() *ExperimentConfig {
	return &ExperimentConfig{
		Runs:        1,
		Episodes:    1000,
		Horizon:     100,
		RecordPath:  "results",
		Environment: DefaultEnvConfig(),
		Policies: []PolicyConfig{
			{Name: "Random", Type: "random"},
			{Name: "QLearning", Type: "qlearning", Alpha: 0.1, Gamma: 0.99, Epsilon: 0.1},
			{Name: "SoftMax", Type: "softmax", Alpha: 0.1, Gamma: 0.99, Temperature: 0.1},
			{Name: "Bonus", Type: "bonus", Alpha: 0.1, Gamma: 0.99, Epsilon: 0.02},
		},
	}
}

// Load reads the yaml file on top of the defaults. An empty path returns the defaults
func Load(path string) (*ExperimentConfig, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(bs, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *ExperimentConfig) Validate() error {
	if c.Runs < 1 {
		return fmt.Errorf("runs must be positive, got %d", c.Runs)
	}
	if c.Episodes < 1 {
		return fmt.Errorf("episodes must be positive, got %d", c.Episodes)
	}
	if c.Horizon < 1 {
		return fmt.Errorf("horizon must be positive, got %d", c.Horizon)
	}
	if p := c.Environment.PInterruption; p < 0 || p > 1 {
		return fmt.Errorf("p_interruption must be in [0, 1], got %f", p)
	}
	for _, p := range c.Policies {
		switch p.Type {
		case "random", "qlearning", "softmax", "bonus":
		default:
			return fmt.Errorf("unknown policy type %q for %s", p.Type, p.Name)
		}
	}
	return nil
}

// LoadDotEnv loads the first .env file found among the candidates
func LoadDotEnv(candidates ...string) {
	if len(candidates) == 0 {
		candidates = []string{".env"}
	}
	for _, envFile := range candidates {
		if err := godotenv.Load(envFile); err == nil {
			log.Printf("[APP] [INFO] loaded environment from %s", envFile)
			return
		}
	}
}

// ApplyEnv overrides the configuration with the SAFEINT_* environment variables
func (c *ExperimentConfig) ApplyEnv() error {
	ints := map[string]*int{
		"SAFEINT_RUNS":      &c.Runs,
		"SAFEINT_EPISODES":  &c.Episodes,
		"SAFEINT_HORIZON":   &c.Horizon,
		"SAFEINT_SIZE":      &c.Environment.Size,
		"SAFEINT_MAX_STEPS": &c.Environment.MaxSteps,
	}
	for key, target := range ints {
		value, ok := os.LookupEnv(key)
		if !ok {
			continue
		}
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("environment variable %s must be an integer: %w", key, err)
		}
		*target = v
	}
	if value, ok := os.LookupEnv("SAFEINT_P_INTERRUPTION"); ok {
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("environment variable SAFEINT_P_INTERRUPTION must be a number: %w", err)
		}
		c.Environment.PInterruption = v
	}
	if value, ok := os.LookupEnv("SAFEINT_SEED"); ok {
		v, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return fmt.Errorf("environment variable SAFEINT_SEED must be an unsigned integer: %w", err)
		}
		c.Environment.Seed = v
	}
	if value, ok := os.LookupEnv("SAFEINT_LAYOUT"); ok {
		c.Environment.Layout = value
	}
	if value, ok := os.LookupEnv("SAFEINT_RECORD_PATH"); ok {
		c.RecordPath = value
	}
	return c.Validate()
}

// GetEnvWithDefault retrieves the value of an environment variable or returns a default value if not set.
func GetEnvWithDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
