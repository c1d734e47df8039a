package optimizer

import (
	"errors"
	"fmt"
	"time"

	"cooldown-planner/score"
)

// Strategy selects the search algorithm. The set is closed.
type Strategy int

const (
	Greedy Strategy = iota
	Exhaustive
	LocalSearch
)

func (s Strategy) String() string {
	switch s {
	case Greedy:
		return "greedy"
	case Exhaustive:
		return "exhaustive"
	case LocalSearch:
		return "local-search"
	}
	return fmt.Sprintf("strategy(%d)", int(s))
}

// ParseStrategy decodes a strategy name.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "greedy":
		return Greedy, nil
	case "exhaustive", "backtracking":
		return Exhaustive, nil
	case "local-search", "local", "annealing":
		return LocalSearch, nil
	}
	return 0, fmt.Errorf("%w: unknown strategy %q", ErrConfig, s)
}

// Strategies lists every strategy in declaration order.
func Strategies() []Strategy { return []Strategy{Greedy, Exhaustive, LocalSearch} }

func (s Strategy) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Strategy) UnmarshalText(b []byte) error {
	v, err := ParseStrategy(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Budget bounds a search. Iterations counts search steps (nodes visited,
// moves tried or candidates scored); zero disables that bound.
type Budget struct {
	Iterations int           `json:"iterations" yaml:"iterations"`
	Time       time.Duration `json:"time" yaml:"time"`
}

// Observer receives run lifecycle notifications. Implementations must be
// safe for concurrent use when shared across a portfolio.
type Observer interface {
	RunStarted(s Strategy)
	RunFinished(p *Plan)
}

// Config tunes one optimization run.
type Config struct {
	Strategy Strategy
	Budget   Budget
	// Weights maps score function names to their weight in the objective.
	Weights score.Weights
	// Seed makes local search reproducible.
	Seed uint64
	// MaxPerAttack caps assignments proposed per attack. Zero uses the
	// attack's need count.
	MaxPerAttack int
	// Temperature is the initial local-search acceptance temperature.
	Temperature float64
	// Cooling multiplies the temperature after every local-search step.
	Cooling float64
	// Observer, if set, is notified when the run starts and finishes.
	Observer Observer
}

// DefaultConfig returns a greedy configuration with a bounded budget.
func DefaultConfig() Config {
	return Config{
		Strategy:    Greedy,
		Budget:      Budget{Iterations: 50000},
		Weights:     score.DefaultWeights(),
		Seed:        1,
		Temperature: 0.5,
		Cooling:     0.995,
	}
}

// ErrConfig marks an unusable configuration.
var ErrConfig = errors.New("invalid optimizer config")

// Validate checks the configuration without running anything.
func (c Config) Validate() error {
	switch c.Strategy {
	case Greedy, Exhaustive, LocalSearch:
	default:
		return fmt.Errorf("%w: unknown strategy %d", ErrConfig, int(c.Strategy))
	}
	if c.Budget.Iterations < 0 || c.Budget.Time < 0 {
		return fmt.Errorf("%w: negative budget", ErrConfig)
	}
	if c.Budget.Iterations == 0 && c.Budget.Time == 0 {
		return fmt.Errorf("%w: budget needs an iteration or time bound", ErrConfig)
	}
	if c.MaxPerAttack < 0 {
		return fmt.Errorf("%w: max per attack %d", ErrConfig, c.MaxPerAttack)
	}
	if c.Strategy == LocalSearch {
		if c.Temperature <= 0 {
			return fmt.Errorf("%w: temperature must be positive", ErrConfig)
		}
		if c.Cooling <= 0 || c.Cooling > 1 {
			return fmt.Errorf("%w: cooling must be in (0, 1]", ErrConfig)
		}
	}
	if _, err := score.Compile(c.Weights); err != nil {
		return fmt.Errorf("%w: %v", ErrConfig, err)
	}
	return nil
}
