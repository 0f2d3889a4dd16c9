// Package perf implements the perf command, a small load generator that
// measures the latency of store operations with go-metrics timers.
package perf
