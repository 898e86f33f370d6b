package fetch

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds Prometheus metrics for batch fetching.
type Metrics struct {
	fetches  *prometheus.CounterVec
	retries  prometheus.Counter
	batches  prometheus.Counter
	inFlight prometheus.Gauge
	duration *prometheus.HistogramVec
}

// NewMetrics creates fetch metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fdk_fetch_objects_total",
			Help: "Total object fetches by outcome.",
		}, []string{"outcome"}),
		retries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fdk_fetch_retries_total",
			Help: "Total fetch attempts beyond the first.",
		}),
		batches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fdk_fetch_batches_total",
			Help: "Total batch fetch runs.",
		}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fdk_fetch_in_flight",
			Help: "Currently in-flight object fetches.",
		}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fdk_fetch_duration_seconds",
			Help:    "Time spent fetching one object, retries included.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		}, []string{"outcome"}),
	}

	reg.MustRegister(m.fetches, m.retries, m.batches, m.inFlight, m.duration)
	return m
}
