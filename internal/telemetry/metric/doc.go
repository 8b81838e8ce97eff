// Package metric provides Prometheus metrics for HallWatch.
//
//   - prometheus.go: registry, counters, histograms and the /metrics handler
//   - collector.go: scrape-time gauges computed from the published view
//
// Metrics are exposed at /metrics in Prometheus text format.
package metric
