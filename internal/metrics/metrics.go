// Package metrics counts what a run did and writes it in the Prometheus text
// format, for node_exporter's textfile collector.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the run counters. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	searches       *prometheus.CounterVec
	entries        *prometheus.CounterVec
	tokenExchanges *prometheus.CounterVec
	lastSuccess    prometheus.Gauge
}

// New creates a Metrics with its own registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bano_searches_total",
			Help: "Search requests issued, by language code.",
		}, []string{"lang"}),
		entries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bano_entries_total",
			Help: "Entries appended to feeds, by feed short code.",
		}, []string{"feed"}),
		tokenExchanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bano_token_exchanges_total",
			Help: "Bearer token exchanges, by result.",
		}, []string{"result"}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bano_last_success_timestamp_seconds",
			Help: "Unix time of the last run that finished without error.",
		}),
	}

	m.registry.MustRegister(m.searches, m.entries, m.tokenExchanges, m.lastSuccess)
	return m
}

func (m *Metrics) Search(lang string) {
	if m == nil {
		return
	}
	m.searches.WithLabelValues(lang).Inc()
}

func (m *Metrics) Entries(feed string, n int) {
	if m == nil {
		return
	}
	m.entries.WithLabelValues(feed).Add(float64(n))
}

func (m *Metrics) TokenExchange(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.tokenExchanges.WithLabelValues(result).Inc()
}

func (m *Metrics) Success(t time.Time) {
	if m == nil {
		return
	}
	m.lastSuccess.Set(float64(t.Unix()))
}

// WriteFile writes every metric to path in the text exposition format
func (m *Metrics) WriteFile(path string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}
