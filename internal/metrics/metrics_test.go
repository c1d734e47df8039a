package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cooldown-planner/fight"
	"cooldown-planner/optimizer"
)

func testModel(t *testing.T) *fight.Model {
	t.Helper()
	m, err := fight.New("m", "", []fight.Spell{{ID: 1, Cooldown: 30 * fight.Second, Charges: 1, Category: "X"}},
		[]fight.Character{{ID: "c", Spells: []fight.SpellID{1}}},
		[]fight.Attack{
			{ID: "a0", Time: 10 * fight.Second, Need: fight.Need{Category: "X"}},
			{ID: "a1", Time: 20 * fight.Second, Need: fight.Need{Category: "X"}},
		})
	require.NoError(t, err)
	return m
}

func TestNewCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	assert.NotNil(t, c.runs)
	assert.NotNil(t, c.duration)
	assert.Panics(t, func() { NewCollector(reg) }, "duplicate registration")
}

func TestRecordsRuns(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	m := testModel(t)

	cfg := optimizer.DefaultConfig()
	cfg.Observer = c
	p, err := optimizer.Optimize(context.Background(), m, cfg)
	require.NoError(t, err)

	cfg.Strategy = optimizer.Exhaustive
	cfg.Budget.Iterations = 2
	ex, err := optimizer.Optimize(context.Background(), m, cfg)
	require.NoError(t, err)
	require.True(t, ex.Exhausted)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.runs.WithLabelValues("greedy")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.runs.WithLabelValues("exhaustive")))
	assert.Equal(t, float64(p.Iterations), testutil.ToFloat64(c.iterations.WithLabelValues("greedy")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.exhausted.WithLabelValues("greedy")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.exhausted.WithLabelValues("exhaustive")))
	assert.Equal(t, p.Score, testutil.ToFloat64(c.bestScore.WithLabelValues("greedy")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.assignments.WithLabelValues("greedy")))
	assert.Equal(t, 2, testutil.CollectAndCount(c.duration))
}

func TestHandlerServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RunStarted(optimizer.LocalSearch)

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()
	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `cdplan_runs_total{strategy="local-search"} 1`)
}
