// Package metrics holds prometheus collectors for data-access outcomes.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CodeOK labels successful operations.
const CodeOK = "OK"

// Collectors groups the counters and histograms recorded at the operation boundary.
type Collectors struct {
	results  *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg (prometheus.DefaultRegisterer if nil).
func New(reg prometheus.Registerer) (*Collectors, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	c := &Collectors{
		results: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agenda",
			Name:      "operation_results_total",
			Help:      "Data-access operations by outcome code",
		}, []string{"op", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "agenda",
			Name:      "operation_duration_seconds",
			Help:      "Latency of data-access operations",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
	}
	for _, col := range []prometheus.Collector{c.results, c.duration} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Observe records one finished operation. A nil receiver is a no-op.
func (c *Collectors) Observe(op, code string, took time.Duration) {
	if c == nil {
		return
	}
	c.results.WithLabelValues(op, code).Inc()
	c.duration.WithLabelValues(op).Observe(took.Seconds())
}
