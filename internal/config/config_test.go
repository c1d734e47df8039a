package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cooldown-planner/optimizer"
	"cooldown-planner/score"
)

func TestDefaultMatchesOptimizer(t *testing.T) {
	runs, err := Default().Runs()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, optimizer.DefaultConfig(), runs[0])
}

func TestFromYAML(t *testing.T) {
	cfg, err := FromYAML([]byte(`
strategy: local-search
iterations: 2000
time_budget: 1500ms
seed: 9
max_per_attack: 2
weights:
  coverage: 1
  idle: 0.25
local_search:
  temperature: 0.8
  cooling: 0.99
`))
	require.NoError(t, err)
	runs, err := cfg.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	r := runs[0]
	assert.Equal(t, optimizer.LocalSearch, r.Strategy)
	assert.Equal(t, optimizer.Budget{Iterations: 2000, Time: 1500 * time.Millisecond}, r.Budget)
	assert.Equal(t, uint64(9), r.Seed)
	assert.Equal(t, 2, r.MaxPerAttack)
	assert.Equal(t, score.Weights{"coverage": 1, "idle": 0.25}, r.Weights, "weights replace the defaults")
	assert.Equal(t, 0.8, r.Temperature)
	assert.Equal(t, 0.99, r.Cooling)
}

func TestFromYAMLKeepsDefaults(t *testing.T) {
	cfg, err := FromYAML([]byte("seed: 3\n"))
	require.NoError(t, err)
	assert.Equal(t, "greedy", cfg.Strategy)
	assert.Equal(t, uint64(3), cfg.Seed)
	assert.Equal(t, map[string]float64(score.DefaultWeights()), cfg.Weights)
	assert.Equal(t, optimizer.DefaultConfig().Budget.Iterations, cfg.Iterations)
}

func TestPortfolioRuns(t *testing.T) {
	cfg, err := FromYAML([]byte("portfolio: [greedy, exhaustive, annealing]\n"))
	require.NoError(t, err)
	runs, err := cfg.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, optimizer.Greedy, runs[0].Strategy)
	assert.Equal(t, optimizer.Exhaustive, runs[1].Strategy)
	assert.Equal(t, optimizer.LocalSearch, runs[2].Strategy)

	runs[0].Weights["coverage"] = 5
	assert.Equal(t, 1.0, runs[1].Weights["coverage"], "runs do not share weight maps")
}

func TestInvalidConfigs(t *testing.T) {
	cases := map[string]string{
		"bad yaml":         "strategy: [",
		"unknown strategy": "strategy: genetic\n",
		"unbounded":        "iterations: 0\n",
		"unknown weight":   "weights: {luck: 1}\n",
		"bad portfolio":    "portfolio: [greedy, nope]\n",
		"bad cooling":      "strategy: local-search\nlocal_search: {cooling: 2}\n",
		"bad duration":     "time_budget: soon\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := FromYAML([]byte(doc))
			assert.Error(t, err)
		})
	}
	_, err := FromYAML([]byte("strategy: genetic\n"))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestLoadAndRoundTrip(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(filepath.Join(dir, "missing.yml"))
	assert.ErrorContains(t, err, "not found")

	out, err := Default().YAML()
	require.NoError(t, err)
	path := filepath.Join(dir, "cdplan.yml")
	require.NoError(t, os.WriteFile(path, out, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
