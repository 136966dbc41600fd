// Package metrics provides a small, backend-agnostic abstraction for
// recording operational metrics from the sales pipeline.
//
// A global, pluggable backend defaults to a no-op implementation, so the
// recording helpers are always safe to call even when no metrics system is
// configured. Concrete backends (Prometheus Pushgateway, Datadog) live in
// subpackages and are installed via SetBackend, mirroring the registration
// pattern of the storage package.
package metrics

import "time"

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveDuration records a value in a latency-style metric.
	ObserveDuration(name string, seconds float64, labels Labels)
	// Flush pushes buffered metrics if the backend needs it.
	Flush() error
}

// nopBackend keeps metrics optional.
type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)      {}
func (nopBackend) ObserveDuration(string, float64, Labels) {}
func (nopBackend) Flush() error                            { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the current one.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Flush delegates to the current backend.
func Flush() error { return backend.Flush() }

// Metric names understood by the built-in backends.
const (
	StageTotal    = "sales_stage_total"
	StageDuration = "sales_stage_duration_seconds"
	RecordsTotal  = "sales_records_total"
	BatchesTotal  = "sales_batches_total"
)

// RecordStage measures one pipeline stage: a count partitioned by outcome
// plus its duration.
func RecordStage(job, stage string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	lbls := Labels{"job": job, "stage": stage, "status": status}
	backend.IncCounter(StageTotal, 1, lbls)
	backend.ObserveDuration(StageDuration, d.Seconds(), lbls)
}

// RecordRows increments a record-level counter for the given job and kind.
//
// Typical kinds mirror the run summary fields:
//   - "parsed"
//   - "parse_skipped"
//   - "dropped_missing"
//   - "dropped_invalid"
//   - "deduplicated"
//   - "inserted"
func RecordRows(job, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter(RecordsTotal, float64(delta), Labels{"job": job, "kind": kind})
}

// RecordBatches increments the flushed batch counter for the given job.
func RecordBatches(job string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter(BatchesTotal, float64(delta), Labels{"job": job})
}
