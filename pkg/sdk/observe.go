package tastematch

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/tastematch/internal/domain"
	"github.com/kailas-cloud/tastematch/internal/domain/category"
)

// lookupMetrics are the optional Prometheus series for Search, Suggest and Recommend.
type lookupMetrics struct {
	lookups  *prometheus.CounterVec
	duration *prometheus.HistogramVec
	results  *prometheus.HistogramVec
}

func newLookupMetrics(reg prometheus.Registerer) (*lookupMetrics, error) {
	m := &lookupMetrics{
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tastematch",
			Subsystem: "sdk",
			Name:      "lookups_total",
			Help:      "Embedded lookups by operation, category and error code (ok on success).",
		}, []string{"operation", "category", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "tastematch",
			Subsystem: "sdk",
			Name:      "lookup_duration_seconds",
			Help:      "Embedded lookup latency; the corpus is in memory so buckets start at 10µs.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8),
		}, []string{"operation"}),
		results: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "tastematch",
			Subsystem: "sdk",
			Name:      "lookup_results",
			Help:      "Entities returned per lookup, up to the 20 / 8 / 5 caps.",
			Buckets:   []float64{0, 1, 3, 5, 8, 20},
		}, []string{"operation"}),
	}
	if err := registerOrReuse(reg, &m.lookups); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.duration); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.results); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse lets two Clients share one registerer.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			existing, ok := are.ExistingCollector.(T)
			if !ok {
				return fmt.Errorf("tastematch: metric already registered with incompatible type: %T", are.ExistingCollector)
			}
			*c = existing
			return nil
		}
		return fmt.Errorf("tastematch: register metric: %w", err)
	}
	return nil
}

// categoryLabel keeps caller-supplied categories from growing label cardinality.
func categoryLabel(c Category) string {
	parsed, err := category.Parse(string(c))
	if err != nil {
		return "invalid"
	}
	return string(parsed)
}

// observer logs and measures each lookup. A nil observer does nothing.
type observer struct {
	logger  *slog.Logger
	metrics *lookupMetrics
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	var m *lookupMetrics
	if reg != nil {
		var err error
		m, err = newLookupMetrics(reg)
		if err != nil {
			return nil, err
		}
	}
	return &observer{logger: logger, metrics: m}, nil
}

func (o *observer) observe(op string, cat Category, start time.Time, results int, err error) {
	if o == nil {
		return
	}
	dur := time.Since(start)
	code := domain.Code(err)
	label := categoryLabel(cat)

	if o.metrics != nil {
		o.metrics.lookups.WithLabelValues(op, label, code).Inc()
		o.metrics.duration.WithLabelValues(op).Observe(dur.Seconds())
		o.metrics.results.WithLabelValues(op).Observe(float64(results))
	}

	if o.logger == nil {
		return
	}
	switch code {
	case domain.CodeOK:
		o.logger.Debug("lookup completed", "op", op, "category", label, "results", results, "duration", dur)
	case domain.CodeInternal:
		o.logger.Error("lookup failed", "op", op, "category", label, "duration", dur, "error", err)
	default:
		// Empty queries, misses and vectorless picks are user outcomes, not faults.
		o.logger.Info("lookup rejected", "op", op, "category", label, "code", code, "error", err)
	}
}
