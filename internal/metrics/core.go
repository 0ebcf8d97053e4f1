package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Core operation Prometheus metrics.
var (
	CoreRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tastematch",
			Name:      "core_requests_total",
			Help:      "Total number of core operations",
		},
		[]string{"op", "category", "outcome"},
	)

	CoreRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tastematch",
			Name:      "core_request_duration_seconds",
			Help:      "Core operation duration in seconds",
			Buckets:   []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
		[]string{"op"},
	)

	CoreResults = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tastematch",
			Name:      "core_results",
			Help:      "Number of results returned per core operation",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 20},
		},
		[]string{"op"},
	)

	CorpusEntities = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "tastematch",
			Name:      "corpus_entities",
			Help:      "Entities loaded per category",
		},
		[]string{"category"},
	)

	CorpusDroppedVectors = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "tastematch",
			Name:      "corpus_dropped_vectors",
			Help:      "Feature vectors discarded for a dimension mismatch",
		},
		[]string{"category"},
	)
)

var coreMetricsRegistered bool

// RegisterCoreMetrics registers core Prometheus metrics. Must be called once from main.
func RegisterCoreMetrics() {
	if coreMetricsRegistered {
		return
	}
	prometheus.MustRegister(CoreRequestsTotal)
	prometheus.MustRegister(CoreRequestDuration)
	prometheus.MustRegister(CoreResults)
	prometheus.MustRegister(CorpusEntities)
	prometheus.MustRegister(CorpusDroppedVectors)
	coreMetricsRegistered = true
}

// ObserveCore records one core operation. Unknown categories fold to "invalid".
func ObserveCore(op, category, outcome string, elapsed time.Duration, results int) {
	CoreRequestsTotal.WithLabelValues(op, categoryLabel(category), outcome).Inc()
	CoreRequestDuration.WithLabelValues(op).Observe(elapsed.Seconds())
	CoreResults.WithLabelValues(op).Observe(float64(results))
}
