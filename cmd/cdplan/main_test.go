//go:build !lambda

package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cooldown-planner/fight"
	"cooldown-planner/optimizer"
)

const fightJSON = `{
  "id": "twin-blast",
  "spells": [{"id": 1, "name": "Barrier", "cooldown": "0:30", "category": "X"}],
  "characters": [{"id": "priest", "spells": [1]}],
  "attacks": [
    {"id": "a0", "time": "0:10", "need": {"category": "X"}},
    {"id": "a1", "time": "0:20", "need": {"category": "X"}}
  ]
}`

func TestLoadConfigOverrides(t *testing.T) {
	v := viper.New()
	v.Set("strategy", "exhaustive")
	v.Set("iterations", 77)
	v.Set("time", "3s")
	v.Set("seed", 5)
	cfg, err := loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "exhaustive", cfg.Strategy)
	assert.Equal(t, 77, cfg.Iterations)
	assert.Equal(t, 3*time.Second, cfg.TimeBudget)
	assert.Equal(t, uint64(5), cfg.Seed)
}

func TestLoadConfigAll(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cdplan.yml")
	require.NoError(t, os.WriteFile(path, []byte("iterations: 500\nstrategy: greedy\n"), 0o644))

	v := viper.New()
	v.Set("config", path)
	v.Set("strategy", "all")
	cfg, err := loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, []string{"greedy", "exhaustive", "local-search"}, cfg.Portfolio)
	runs, err := cfg.Runs()
	require.NoError(t, err)
	assert.Len(t, runs, 3)
	for _, r := range runs {
		assert.Equal(t, 500, r.Budget.Iterations)
	}

	v.Set("strategy", "quantum")
	_, err = loadConfig(v)
	assert.Error(t, err)
}

func TestSolve(t *testing.T) {
	m, err := fight.Parse(fightJSON)
	require.NoError(t, err)
	newLogger(io.Discard, true, false)

	single := optimizer.DefaultConfig()
	p, err := solve(context.Background(), m, []optimizer.Config{single})
	require.NoError(t, err)
	assert.Equal(t, optimizer.Greedy, p.Strategy)
	require.Len(t, p.Assignments, 1)
	assert.Equal(t, fight.AttackID("a0"), p.Assignments[0].Attack)

	ex := single
	ex.Strategy = optimizer.Exhaustive
	p, err = solve(context.Background(), m, []optimizer.Config{ex, single})
	require.NoError(t, err)
	assert.Equal(t, optimizer.Exhaustive, p.Strategy, "earliest run wins ties")
}
