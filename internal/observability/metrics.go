package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// watch engine and the type-resolution cache.
type Metrics struct {
	PollsTotal       *prometheus.CounterVec // labels: outcome={ok,error,skipped,discarded}
	PollDuration     prometheus.Histogram
	AircraftInRadius prometheus.Gauge
	AlertsTotal      prometheus.Counter
	WatchActive      prometheus.Gauge

	// Type-resolution metrics.
	TypeLookups   *prometheus.CounterVec // labels: outcome={found,negative,error}
	TypeCacheHits *prometheus.CounterVec // labels: result={hit,miss}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		PollsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tailwatch",
			Name:      "polls_total",
			Help:      "Poll cycles by outcome.",
		}, []string{"outcome"}),
		PollDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tailwatch",
			Name:      "poll_duration_seconds",
			Help:      "Duration of a complete fetch-resolve-match poll cycle.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		AircraftInRadius: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tailwatch",
			Name:      "aircraft_in_radius",
			Help:      "Aircraft inside the watch circle at the last successful poll.",
		}),
		AlertsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tailwatch",
			Name:      "alerts_total",
			Help:      "Total notifications fired.",
		}),
		WatchActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tailwatch",
			Name:      "watch_active",
			Help:      "1 when the watch area is active, 0 otherwise.",
		}),
		TypeLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tailwatch",
			Name:      "type_lookups_total",
			Help:      "Type feed lookups by outcome.",
		}, []string{"outcome"}),
		TypeCacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tailwatch",
			Name:      "type_cache_total",
			Help:      "Type-resolution cache lookups by result.",
		}, []string{"result"}),
	}

	prometheus.MustRegister(
		m.PollsTotal,
		m.PollDuration,
		m.AircraftInRadius,
		m.AlertsTotal,
		m.WatchActive,
		m.TypeLookups,
		m.TypeCacheHits,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		PollsTotal:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "tailwatch", Name: "polls_total"}, []string{"outcome"}),
		PollDuration:     prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "tailwatch", Name: "poll_duration_seconds"}),
		AircraftInRadius: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "tailwatch", Name: "aircraft_in_radius"}),
		AlertsTotal:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "tailwatch", Name: "alerts_total"}),
		WatchActive:      prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "tailwatch", Name: "watch_active"}),
		TypeLookups:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "tailwatch", Name: "type_lookups_total"}, []string{"outcome"}),
		TypeCacheHits:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "tailwatch", Name: "type_cache_total"}, []string{"result"}),
	}
}
