// Package metrics tracks best-effort request counters for diagnostics.
package metrics

import (
	"sync/atomic"
	"time"
)

// Collector accumulates process-wide request counters. Increments are atomic;
// a snapshot taken during concurrent updates may mix counters from adjacent
// requests, which is acceptable for diagnostics.
type Collector struct {
	started  time.Time
	requests atomic.Int64
	errors   atomic.Int64
	nanos    atomic.Int64
}

// NewCollector returns a collector with the uptime clock started now.
func NewCollector() *Collector {
	return &Collector{started: time.Now()}
}

// RecordRequest records one completed request. status is the HTTP status sent;
// 5xx counts as an error.
func (c *Collector) RecordRequest(d time.Duration, status int) {
	c.requests.Add(1)
	c.nanos.Add(int64(d))
	if status >= 500 {
		c.errors.Add(1)
	}
}

// Stats is a point-in-time view of the counters.
type Stats struct {
	Requests       int64         `json:"requests"`
	Errors         int64         `json:"errors"`
	TotalDuration  time.Duration `json:"-"`
	TotalSeconds   float64       `json:"total_processing_seconds"`
	AverageSeconds float64       `json:"average_request_seconds"`
	UptimeSeconds  float64       `json:"uptime_seconds"`
}

// Snapshot returns the current counter values.
func (c *Collector) Snapshot() Stats {
	requests := c.requests.Load()
	total := time.Duration(c.nanos.Load())
	avg := 0.0
	if requests > 0 {
		avg = total.Seconds() / float64(requests)
	}
	return Stats{
		Requests:       requests,
		Errors:         c.errors.Load(),
		TotalDuration:  total,
		TotalSeconds:   total.Seconds(),
		AverageSeconds: avg,
		UptimeSeconds:  time.Since(c.started).Seconds(),
	}
}
