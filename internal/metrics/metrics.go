// Package metrics exposes optimizer runs as Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cooldown-planner/optimizer"
)

// Collector implements optimizer.Observer. All series are labelled by
// strategy. Safe for concurrent use across a portfolio.
type Collector struct {
	runs        *prometheus.CounterVec
	iterations  *prometheus.CounterVec
	exhausted   *prometheus.CounterVec
	bestScore   *prometheus.GaugeVec
	assignments *prometheus.GaugeVec
	duration    *prometheus.HistogramVec
}

var _ optimizer.Observer = (*Collector)(nil)

// NewCollector creates the collector and registers it with reg. A nil reg
// uses prometheus.DefaultRegisterer.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	labels := []string{"strategy"}
	c := &Collector{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cdplan_runs_total",
			Help: "Total number of optimizer runs started",
		}, labels),
		iterations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cdplan_iterations_total",
			Help: "Total search steps taken by finished runs",
		}, labels),
		exhausted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cdplan_budget_exhausted_total",
			Help: "Runs that stopped on their budget before completing",
		}, labels),
		bestScore: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "cdplan_best_score",
			Help: "Score of the most recent plan",
		}, labels),
		assignments: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "cdplan_plan_assignments",
			Help: "Assignments in the most recent plan",
		}, labels),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cdplan_run_duration_seconds",
			Help:    "Optimizer run wall time in seconds",
			Buckets: prometheus.DefBuckets,
		}, labels),
	}
	reg.MustRegister(c.runs, c.iterations, c.exhausted, c.bestScore, c.assignments, c.duration)
	return c
}

// RunStarted counts a run.
func (c *Collector) RunStarted(s optimizer.Strategy) {
	c.runs.WithLabelValues(s.String()).Inc()
}

// RunFinished records the finished plan.
func (c *Collector) RunFinished(p *optimizer.Plan) {
	l := p.Strategy.String()
	c.iterations.WithLabelValues(l).Add(float64(p.Iterations))
	if p.Exhausted {
		c.exhausted.WithLabelValues(l).Inc()
	}
	c.bestScore.WithLabelValues(l).Set(p.Score)
	c.assignments.WithLabelValues(l).Set(float64(len(p.Assignments)))
	c.duration.WithLabelValues(l).Observe(p.Elapsed.Seconds())
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
