// Package api pkg/api/metrics.go exposes engine counters to Prometheus.
package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mfreeman451/scandeck/pkg/models"
)

const metricsNamespace = "scandeck"

// Metrics holds the Prometheus instruments for the engine.
type Metrics struct {
	registry *prometheus.Registry

	ScansStarted *prometheus.CounterVec
	PollTicks    prometheus.Counter
	Refreshes    prometheus.Counter
	BulkOutcomes *prometheus.CounterVec

	devicesTotal  prometheus.Gauge
	devicesOnline prometheus.Gauge
	devicesAuthed prometheus.Gauge
}

// NewMetrics builds a registry with all engine metrics registered.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		ScansStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "scans_started_total",
			Help:      "Scans started through the dashboard, by kind.",
		}, []string{"kind"}),
		PollTicks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "poll_ticks_total",
			Help:      "Job status poll ticks issued.",
		}),
		Refreshes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "inventory_refreshes_total",
			Help:      "Inventory refresh fetches completed.",
		}),
		BulkOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "bulk_device_outcomes_total",
			Help:      "Per-device outcomes of bulk scans.",
		}, []string{"outcome"}),
		devicesTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "devices_total",
			Help:      "Devices currently in the inventory.",
		}),
		devicesOnline: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "devices_online",
			Help:      "Devices currently reported up.",
		}),
		devicesAuthed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "devices_authenticated",
			Help:      "Devices with a successful credentialed scan.",
		}),
	}

	registry.MustRegister(
		m.ScansStarted, m.PollTicks, m.Refreshes, m.BulkOutcomes,
		m.devicesTotal, m.devicesOnline, m.devicesAuthed,
	)

	return m
}

// SetStats mirrors the derived inventory counters into gauges.
func (m *Metrics) SetStats(stats models.Stats) {
	m.devicesTotal.Set(float64(stats.Total))
	m.devicesOnline.Set(float64(stats.Online))
	m.devicesAuthed.Set(float64(stats.Authenticated))
}

// Handler serves the registry in Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
