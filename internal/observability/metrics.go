package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the extraction engine.
type Metrics struct {
	ExtractRequests   *prometheus.CounterVec // labels: outcome={ok,not_found,invalid,no_policy,malformed,error}
	ExtractDuration   prometheus.Histogram
	BurnedPixels      prometheus.Histogram
	GridParseFailures prometheus.Counter

	// Geometry and ignition degradation.
	GeometryCache       *prometheus.CounterVec // labels: result={hit,miss}
	GeometryUnavailable prometheus.Counter
	IgnitionUnresolved  *prometheus.CounterVec // labels: reason={geometry_unavailable,missing,malformed,out_of_grid}
}

// NewMetrics creates and registers all engine metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := NewMetricsForTesting()

	prometheus.MustRegister(
		m.ExtractRequests,
		m.ExtractDuration,
		m.BurnedPixels,
		m.GridParseFailures,
		m.GeometryCache,
		m.GeometryUnavailable,
		m.IgnitionUnresolved,
	)

	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		ExtractRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fire_spread",
			Name:      "extract_requests_total",
			Help:      "Fire spread queries by outcome.",
		}, []string{"outcome"}),
		ExtractDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fire_spread",
			Name:      "extract_duration_seconds",
			Help:      "Duration of a complete fire spread query.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}),
		BurnedPixels: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fire_spread",
			Name:      "burned_pixels",
			Help:      "Burned pixels returned per successful query.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
		GridParseFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fire_spread",
			Name:      "grid_parse_failures_total",
			Help:      "Timestep grids that could not be read or parsed.",
		}),
		GeometryCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fire_spread",
			Name:      "geometry_cache_total",
			Help:      "Geometry cache lookups by result.",
		}, []string{"result"}),
		GeometryUnavailable: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fire_spread",
			Name:      "geometry_unavailable_total",
			Help:      "Reference tables that could not be loaded.",
		}),
		IgnitionUnresolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fire_spread",
			Name:      "ignition_unresolved_total",
			Help:      "Queries reported without an ignition point, by reason.",
		}, []string{"reason"}),
	}
}
