package knn

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts knn work. A nil *Metrics records nothing.
type Metrics struct {
	queries     prometheus.Counter
	errors      prometheus.Counter
	scanned     prometheus.Counter
	prefiltered prometheus.Counter
	returned    prometheus.Counter
	latency     prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg when reg
// is not nil. Collectors already registered by another table are reused.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		queries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vec0",
			Name:      "knn_queries_total",
			Help:      "Total knn queries executed",
		}),
		errors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vec0",
			Name:      "knn_query_errors_total",
			Help:      "Total knn queries rejected",
		}),
		scanned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vec0",
			Name:      "knn_rows_scanned_total",
			Help:      "Valid rows visited by knn scans",
		}),
		prefiltered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vec0",
			Name:      "knn_rows_prefiltered_total",
			Help:      "Rows excluded by pre-filter predicates before distance computation",
		}),
		returned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vec0",
			Name:      "knn_rows_returned_total",
			Help:      "Rows returned by knn queries",
		}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "vec0",
			Name:      "knn_query_duration_seconds",
			Help:      "Latency of knn scans",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		return m, nil
	}
	var err error
	m.queries, err = register(reg, m.queries)
	if err == nil {
		m.errors, err = register(reg, m.errors)
	}
	if err == nil {
		m.scanned, err = register(reg, m.scanned)
	}
	if err == nil {
		m.prefiltered, err = register(reg, m.prefiltered)
	}
	if err == nil {
		m.returned, err = register(reg, m.returned)
	}
	if err == nil {
		m.latency, err = register(reg, m.latency)
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (m *Metrics) observe(started time.Time, scanned, prefiltered, returned int) {
	if m == nil {
		return
	}
	m.queries.Inc()
	m.scanned.Add(float64(scanned))
	m.prefiltered.Add(float64(prefiltered))
	m.returned.Add(float64(returned))
	m.latency.Observe(time.Since(started).Seconds())
}

func (m *Metrics) failed() {
	if m == nil {
		return
	}
	m.errors.Inc()
}
