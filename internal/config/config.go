// Package config reads cdplan run configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"cooldown-planner/optimizer"
	"cooldown-planner/score"
)

// ErrInvalid marks a configuration that parsed but cannot drive a run.
var ErrInvalid = errors.New("invalid config")

// Config models cdplan.yml.
type Config struct {
	Strategy     string             `yaml:"strategy"`
	Iterations   int                `yaml:"iterations"`
	TimeBudget   time.Duration      `yaml:"time_budget"`
	Seed         uint64             `yaml:"seed"`
	MaxPerAttack int                `yaml:"max_per_attack"`
	Weights      map[string]float64 `yaml:"weights"`
	LocalSearch  struct {
		Temperature float64 `yaml:"temperature"`
		Cooling     float64 `yaml:"cooling"`
	} `yaml:"local_search"`
	// Portfolio, when set, runs every listed strategy and keeps the best.
	Portfolio []string `yaml:"portfolio,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	d := optimizer.DefaultConfig()
	c := &Config{
		Strategy:     d.Strategy.String(),
		Iterations:   d.Budget.Iterations,
		TimeBudget:   d.Budget.Time,
		Seed:         d.Seed,
		MaxPerAttack: d.MaxPerAttack,
		Weights:      d.Weights,
	}
	c.LocalSearch.Temperature = d.Temperature
	c.LocalSearch.Cooling = d.Cooling
	return c
}

// Load reads and validates a config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config %s not found", path)
		}
		return nil, err
	}
	return FromYAML(data)
}

// FromYAML parses and validates config from raw YAML bytes. Keys left out
// keep their defaults; a weights block replaces the default weights
// rather than merging with them.
func FromYAML(data []byte) (*Config, error) {
	cfg := Default()
	cfg.Weights = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid config yaml: %w", err)
	}
	if cfg.Weights == nil {
		cfg.Weights = score.DefaultWeights()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// YAML renders the config back to YAML.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate ensures every run the config describes is usable.
func (c *Config) Validate() error {
	_, err := c.Runs()
	return err
}

// Runs converts the config into one optimizer config per run: the single
// strategy, or each portfolio entry in order.
func (c *Config) Runs() ([]optimizer.Config, error) {
	names := c.Portfolio
	if len(names) == 0 {
		names = []string{c.Strategy}
	}
	runs := make([]optimizer.Config, 0, len(names))
	for _, name := range names {
		s, err := optimizer.ParseStrategy(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
		}
		oc := c.base()
		oc.Strategy = s
		if err := oc.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalid, name, err)
		}
		runs = append(runs, oc)
	}
	return runs, nil
}

func (c *Config) base() optimizer.Config {
	w := make(score.Weights, len(c.Weights))
	for k, v := range c.Weights {
		w[k] = v
	}
	return optimizer.Config{
		Budget:       optimizer.Budget{Iterations: c.Iterations, Time: c.TimeBudget},
		Weights:      w,
		Seed:         c.Seed,
		MaxPerAttack: c.MaxPerAttack,
		Temperature:  c.LocalSearch.Temperature,
		Cooling:      c.LocalSearch.Cooling,
	}
}
