// Package prometheus exposes goOnboard engine counters in Prometheus text format.
//
// [New] wraps an engine and [Exporter.Handler] serves every counter as
// goonboard_*_total plus, when latency tracking is on, the
// goonboard_auth_code_latency_seconds histogram.
//
// # What this package must NOT do
//
//   - Register in a global Prometheus registry; callers mount the Handler.
//   - Mutate engine state.
package prometheus
