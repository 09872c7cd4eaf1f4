// Package metrics exposes Prometheus collectors for the alignment and backtest
// pipelines and the price sources behind them.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Pipeline names.
const (
	PipelineAlign    = "align"
	PipelineBacktest = "backtest"
)

// Outcome label values.
const (
	OutcomeOK       = "ok"
	OutcomeEmpty    = "empty"
	OutcomeError    = "error"
	OutcomeCacheHit = "cache_hit"
)

// Metrics groups the collectors. A nil *Metrics is valid and records nothing,
// so library code can run without a registry.
type Metrics struct {
	pipelineRuns     *prometheus.CounterVec
	priceFetches     *prometheus.CounterVec
	pipelineDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		pipelineRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tga_pipeline_runs_total",
			Help: "Pipeline runs by outcome.",
		}, []string{"pipeline", "outcome"}),
		priceFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tga_price_fetch_total",
			Help: "Daily price fetches by source and outcome.",
		}, []string{"source", "outcome"}),
		pipelineDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tga_pipeline_duration_seconds",
			Help:    "Wall time of a pipeline run.",
			Buckets: prometheus.DefBuckets,
		}, []string{"pipeline"}),
	}
	reg.MustRegister(m.pipelineRuns, m.priceFetches, m.pipelineDuration)
	return m
}

// ObserveRun records one pipeline run that started at start.
func (m *Metrics) ObserveRun(pipeline, outcome string, start time.Time) {
	if m == nil {
		return
	}
	m.pipelineRuns.WithLabelValues(pipeline, outcome).Inc()
	m.pipelineDuration.WithLabelValues(pipeline).Observe(time.Since(start).Seconds())
}

func (m *Metrics) PriceFetch(source, outcome string) {
	if m == nil {
		return
	}
	m.priceFetches.WithLabelValues(source, outcome).Inc()
}

// Outcome classifies a run result for the outcome label.
func Outcome(err error, empty bool) string {
	switch {
	case err != nil:
		return OutcomeError
	case empty:
		return OutcomeEmpty
	default:
		return OutcomeOK
	}
}
