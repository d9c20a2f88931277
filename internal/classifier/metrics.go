package classifier

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricsNamespace = "sqlclass"
	metricsSubsystem = "classifier"
	lblStatus        = "status"
)

type metrics struct {
	classifications *prometheus.CounterVec
	duration        prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		classifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "classifications_total",
				Help:      "Counter of classified statements by resulting status.",
			}, []string{lblStatus}),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "duration_seconds",
				Help:      "Time spent classifying one statement.",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 2, 16),
			}),
	}

	for _, c := range []prometheus.Collector{m.classifications, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("registering classifier metrics: %w", err)
		}
	}
	return m, nil
}

func (m *metrics) observe(rec *Record, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.classifications.WithLabelValues(rec.Status().String()).Inc()
	m.duration.Observe(elapsed.Seconds())
}
