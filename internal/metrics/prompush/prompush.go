// Package prompush implements a Prometheus Pushgateway backend for the
// metrics package. Pipeline runs are short-lived batch jobs, so metrics are
// pushed to a gateway on Flush instead of being exposed on a scrape endpoint.
package prompush

import (
	"fmt"

	"salesetl/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Backend is a Prometheus Pushgateway metrics backend.
type Backend struct {
	gatewayURL string
	jobName    string
	reg        *prometheus.Registry

	stageCounter  *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	recordCounter *prometheus.CounterVec
	batchCounter  prometheus.Counter
}

// NewBackend constructs a backend pushing to gatewayURL under the Pushgateway
// job group jobName.
func NewBackend(jobName, gatewayURL string) (*Backend, error) {
	if gatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if jobName == "" {
		jobName = "salesetl"
	}

	reg := prometheus.NewRegistry()

	stageCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metrics.StageTotal,
			Help: "Pipeline stage executions, partitioned by stage and status.",
		},
		[]string{"stage", "status"},
	)
	stageDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    metrics.StageDuration,
			Help:    "Pipeline stage duration in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
		},
		[]string{"stage", "status"},
	)
	recordCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metrics.RecordsTotal,
			Help: "Record counts per kind (parsed, dropped_invalid, inserted, ...).",
		},
		[]string{"kind"},
	)
	batchCounter := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: metrics.BatchesTotal,
			Help: "Insert batches flushed during the run.",
		},
	)

	for _, c := range []prometheus.Collector{stageCounter, stageDuration, recordCounter, batchCounter} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("prompush: register: %w", err)
		}
	}

	return &Backend{
		gatewayURL:    gatewayURL,
		jobName:       jobName,
		reg:           reg,
		stageCounter:  stageCounter,
		stageDuration: stageDuration,
		recordCounter: recordCounter,
		batchCounter:  batchCounter,
	}, nil
}

// IncCounter implements metrics.Backend.
func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	switch name {
	case metrics.StageTotal:
		b.stageCounter.WithLabelValues(labels["stage"], labels["status"]).Add(delta)
	case metrics.RecordsTotal:
		b.recordCounter.WithLabelValues(labels["kind"]).Add(delta)
	case metrics.BatchesTotal:
		b.batchCounter.Add(delta)
	default:
		// unknown metric name: ignore
	}
}

// ObserveDuration implements metrics.Backend.
func (b *Backend) ObserveDuration(name string, seconds float64, labels metrics.Labels) {
	if name != metrics.StageDuration {
		return
	}
	b.stageDuration.WithLabelValues(labels["stage"], labels["status"]).Observe(seconds)
}

// Flush pushes the current registry to the Pushgateway.
func (b *Backend) Flush() error {
	return push.New(b.gatewayURL, b.jobName).
		Gatherer(b.reg).
		Push()
}
