package telemetry

import (
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mohammad-safakhou/scout/config"
)

// Telemetry tracks pipeline metrics. Each instance owns its registry so
// tests can construct as many as they need.
type Telemetry struct {
	config   config.TelemetryConfig
	logger   *log.Logger
	registry *prometheus.Registry

	runsTotal    *prometheus.CounterVec
	stepsTotal   *prometheus.CounterVec
	llmRequests  prometheus.Counter
	toolRequests *prometheus.CounterVec
	runDuration  prometheus.Histogram
}

// NewTelemetry creates a new telemetry instance
func NewTelemetry(cfg config.TelemetryConfig) *Telemetry {
	registry := prometheus.NewRegistry()

	t := &Telemetry{
		config:   cfg,
		logger:   log.New(log.Writer(), "[TELEMETRY] ", log.LstdFlags),
		registry: registry,
		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scout_runs_total",
			Help: "Pipeline runs by overall status.",
		}, []string{"status"}),
		stepsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scout_steps_total",
			Help: "Executed plan steps by tool kind and status.",
		}, []string{"tool", "status"}),
		llmRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scout_llm_requests_total",
			Help: "Language model requests issued.",
		}),
		toolRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scout_tool_requests_total",
			Help: "External tool adapter calls by tool.",
		}, []string{"tool"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "scout_run_duration_seconds",
			Help:    "End-to-end pipeline run duration.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	registry.MustRegister(t.runsTotal, t.stepsTotal, t.llmRequests, t.toolRequests, t.runDuration)
	return t
}

// Handler exposes the metrics registry over HTTP
func (t *Telemetry) Handler() http.Handler {
	return promhttp.HandlerFor(t.registry, promhttp.HandlerOpts{})
}

// RecordRun records a completed pipeline run
func (t *Telemetry) RecordRun(status string, duration time.Duration) {
	if t == nil {
		return
	}
	t.runsTotal.WithLabelValues(status).Inc()
	t.runDuration.Observe(duration.Seconds())
	if t.config.Enabled {
		t.logger.Printf("run finished: status=%s duration=%v", status, duration)
	}
}

// RecordStep records one executed plan step
func (t *Telemetry) RecordStep(tool, status string) {
	if t == nil {
		return
	}
	t.stepsTotal.WithLabelValues(tool, status).Inc()
}

// RecordLLMRequest records one language model call
func (t *Telemetry) RecordLLMRequest() {
	if t == nil {
		return
	}
	t.llmRequests.Inc()
}

// RecordToolRequest records one external tool adapter call
func (t *Telemetry) RecordToolRequest(tool string) {
	if t == nil {
		return
	}
	t.toolRequests.WithLabelValues(tool).Inc()
}
