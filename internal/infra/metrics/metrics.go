// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"trend-orchestrator/internal/usecase"
)

// Collector records pipeline metrics into a Prometheus registry.
type Collector struct {
	pipelineRuns     *prometheus.CounterVec
	pipelineDuration prometheus.Histogram
	cacheHits        prometheus.Counter
	sourceFetches    *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		pipelineRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trend_pipeline_runs_total",
			Help: "Pipeline executions by quality tier and outcome.",
		}, []string{"tier", "outcome"}),
		pipelineDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "trend_pipeline_duration_seconds",
			Help:    "End-to-end pipeline latency in seconds.",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trend_cache_hits_total",
			Help: "Pipeline requests served from the result cache.",
		}),
		sourceFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trend_source_fetch_total",
			Help: "Source fetches by platform and whether the body was synthetic.",
		}, []string{"platform", "synthetic"}),
	}

	reg.MustRegister(
		c.pipelineRuns,
		c.pipelineDuration,
		c.cacheHits,
		c.sourceFetches,
	)

	return c
}

// RecordRun records one completed or failed pipeline execution.
func (c *Collector) RecordRun(tier string, outcome string, duration time.Duration) {
	c.pipelineRuns.WithLabelValues(tier, outcome).Inc()
	c.pipelineDuration.Observe(duration.Seconds())
}

// RecordCacheHit records a pipeline request served from cache.
func (c *Collector) RecordCacheHit() {
	c.cacheHits.Inc()
}

// RecordSource records one gathered source result.
func (c *Collector) RecordSource(platform string, synthetic bool) {
	c.sourceFetches.WithLabelValues(platform, strconv.FormatBool(synthetic)).Inc()
}

// Handler returns the HTTP handler for Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

var _ usecase.PipelineMetrics = (*Collector)(nil)
