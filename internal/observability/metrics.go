package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the dashboard.
type Metrics struct {
	DatasetRows     prometheus.Gauge
	DashboardState  prometheus.Gauge // 0 idle, 1 recomputing
	Recomputations  prometheus.Counter
	Superseded      prometheus.Counter
	RecomputeTime   prometheus.Histogram
	SelectedRows    prometheus.Histogram
	ViewCache       *prometheus.CounterVec // labels: result={hit,miss}
	SelectionEvents *prometheus.CounterVec // labels: outcome={published,error}
}

// NewMetrics creates and registers all dashboard metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.DatasetRows,
		m.DashboardState,
		m.Recomputations,
		m.Superseded,
		m.RecomputeTime,
		m.SelectedRows,
		m.ViewCache,
		m.SelectionEvents,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them so tests can
// build as many as they like.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		DatasetRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "rainfall_dashboard",
			Name:      "dataset_rows",
			Help:      "Rows in the loaded forecast table.",
		}),
		DashboardState: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "rainfall_dashboard",
			Name:      "state",
			Help:      "0 when idle, 1 while views are being recomputed.",
		}),
		Recomputations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rainfall_dashboard",
			Name:      "recomputations_total",
			Help:      "Date-range changes that triggered a full view recomputation.",
		}),
		Superseded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rainfall_dashboard",
			Name:      "recomputations_superseded_total",
			Help:      "Recomputations overtaken by a newer range change from any client before finishing. Counted process-wide.",
		}),
		RecomputeTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "rainfall_dashboard",
			Name:      "recompute_duration_seconds",
			Help:      "Time to filter the table and derive every view.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
		SelectedRows: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "rainfall_dashboard",
			Name:      "selected_rows",
			Help:      "Rows inside the selected date range.",
			Buckets:   []float64{0, 1, 7, 31, 92, 183, 366, 731, 1827},
		}),
		ViewCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rainfall_dashboard",
			Name:      "view_cache_total",
			Help:      "View cache lookups by result.",
		}, []string{"result"}),
		SelectionEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rainfall_dashboard",
			Name:      "selection_events_total",
			Help:      "Range selection events handed to the publisher, by outcome.",
		}, []string{"outcome"}),
	}
}
