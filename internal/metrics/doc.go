// Package metrics exports comparison statistics in the Prometheus format.
//
// A Recorder is registered as the compare.Observer of the comparator used
// by `urlprint serve`; every finished scheme updates its counters and the
// latency histogram, and Handler serves them on /metrics.
package metrics
