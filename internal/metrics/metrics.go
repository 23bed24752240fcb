// Package metrics exposes Prometheus collectors for a catalog run and
// writes them in the node_exporter textfile format.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/agentstation/specmap/pkg/engine"
	"github.com/agentstation/specmap/pkg/errors"
)

// Metrics provides observability for a sync run.
type Metrics struct {
	registry *prometheus.Registry

	// Registry size per publisher
	Entries *prometheus.GaugeVec
	Aliases *prometheus.GaugeVec

	// Observations that did not become entries, by reason
	Skipped *prometheus.CounterVec

	// Fatal per-catalog failures by stage
	Failures *prometheus.CounterVec

	// Pipeline latency per publisher
	Duration *prometheus.HistogramVec

	// HTTP round trips by publisher and status code
	HTTPAttempts *prometheus.CounterVec

	// Unix time of the last successful resolution
	LastSuccess *prometheus.GaugeVec
}

// New creates a Metrics instance backed by its own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		Entries: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "specmap_registry_entries",
			Help: "Canonical entries in the last resolved registry",
		}, []string{"publisher"}),

		Aliases: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "specmap_registry_aliases",
			Help: "Alias redirects in the last resolved registry",
		}, []string{"publisher"}),

		Skipped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "specmap_observations_skipped_total",
			Help: "Catalog observations that did not become entries",
		}, []string{"publisher", "reason"}), // reason: "precedence", "duplicate_url"

		Failures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "specmap_catalog_failures_total",
			Help: "Fatal catalog failures by pipeline stage",
		}, []string{"publisher", "stage"}),

		Duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "specmap_resolve_duration_seconds",
			Help:    "Duration of catalog resolution",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"publisher"}),

		HTTPAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "specmap_http_attempts_total",
			Help: "HTTP requests made to publisher sites",
		}, []string{"publisher", "code"}),

		LastSuccess: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "specmap_last_success_timestamp_seconds",
			Help: "Unix time of the last successful resolution",
		}, []string{"publisher"}),
	}
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveResult records a resolved catalog.
func (m *Metrics) ObserveResult(res *engine.Result) {
	if m == nil || res == nil {
		return
	}
	publisher := res.Publisher.String()
	m.Entries.WithLabelValues(publisher).Set(float64(res.Registry.EntryCount()))
	m.Aliases.WithLabelValues(publisher).Set(float64(res.Registry.AliasCount()))
	m.Skipped.WithLabelValues(publisher, "precedence").Add(float64(res.Stats.Kept))
	m.Skipped.WithLabelValues(publisher, "duplicate_url").Add(float64(res.Stats.DuplicateURLs))
	m.Duration.WithLabelValues(publisher).Observe(res.Duration.Seconds())
	m.LastSuccess.WithLabelValues(publisher).Set(float64(time.Now().Unix()))
}

// IncrementFailure records a fatal catalog failure.
func (m *Metrics) IncrementFailure(publisher, stage string) {
	if m != nil {
		m.Failures.WithLabelValues(publisher, stage).Inc()
	}
}

// IncrementAttempt records one HTTP round trip. A zero status means the
// request failed before a response arrived.
func (m *Metrics) IncrementAttempt(publisher string, status int) {
	if m == nil {
		return
	}
	code := "error"
	if status != 0 {
		code = strconv.Itoa(status)
	}
	m.HTTPAttempts.WithLabelValues(publisher, code).Inc()
}

// WriteTextfile writes every collected metric to path atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}
