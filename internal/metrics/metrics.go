package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Metrics holds the collectors for one crawl process
type Metrics struct {
	registry *prometheus.Registry

	PagesFetched     *prometheus.CounterVec
	ItemsSkipped     *prometheus.CounterVec
	RecordsCollected *prometheus.CounterVec
	RunDuration      prometheus.Gauge
	RunRecords       prometheus.Gauge
}

// New registers the crawl collectors on a private registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		PagesFetched: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "livehs_pages_fetched_total",
				Help: "Listing page fetch attempts by outcome.",
			},
			[]string{"status"}, // ok, network, rate_limit, parsing
		),
		ItemsSkipped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "livehs_items_skipped_total",
				Help: "Listing items dropped during parsing by reason.",
			},
			[]string{"reason"},
		),
		RecordsCollected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "livehs_records_collected_total",
				Help: "Deduplicated schedule records collected per category.",
			},
			[]string{"category"},
		),
		RunDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "livehs_run_duration_seconds",
			Help: "Wall time of the last crawl run.",
		}),
		RunRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "livehs_run_records",
			Help: "Records handed to the sink by the last crawl run.",
		}),
	}
	m.registry.MustRegister(m.PagesFetched, m.ItemsSkipped, m.RecordsCollected, m.RunDuration, m.RunRecords)
	return m
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Push sends the collected metrics to a Pushgateway under the given job name
func (m *Metrics) Push(url, job string) error {
	return push.New(url, job).Gatherer(m.registry).Push()
}

// PageFetched counts one listing fetch outcome. Safe on a nil receiver.
func (m *Metrics) PageFetched(status string) {
	if m == nil {
		return
	}
	m.PagesFetched.WithLabelValues(status).Inc()
}

// ItemSkipped counts one dropped listing item. Safe on a nil receiver.
func (m *Metrics) ItemSkipped(reason string) {
	if m == nil {
		return
	}
	m.ItemsSkipped.WithLabelValues(reason).Inc()
}

// RecordsAdded counts records kept for a category. Safe on a nil receiver.
func (m *Metrics) RecordsAdded(category string, n int) {
	if m == nil {
		return
	}
	m.RecordsCollected.WithLabelValues(category).Add(float64(n))
}
