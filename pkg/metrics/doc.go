// Package metrics provides Prometheus instrumentation for throttle components.
//
// # Quick Start
//
// Enable metrics by using the metrics-enabled constructors:
//
//	t, err := throttle.NewWithMetrics(10, "github_api")
//
// Then expose metrics via HTTP:
//
//	http.Handle("/metrics", promhttp.Handler())
//	log.Fatal(http.ListenAndServe(":8080", nil))
//
// # Custom Registry
//
// Use a custom Prometheus registry for isolation:
//
//	registry := prometheus.NewRegistry()
//	t, err := throttle.NewWithConfigAndMetrics(
//		throttle.Config{Rate: 5},
//		"custom_throttle",
//		metrics.Config{Enabled: true, Registry: registry},
//	)
//
// # Available Metrics
//
//   - throttle_submitted_total: calls submitted to the throttle
//   - throttle_started_total: calls released for execution
//   - throttle_succeeded_total: calls whose future was fulfilled
//   - throttle_failed_total: calls whose future was rejected by the wrapped function
//   - throttle_rejected_total: calls rejected without running
//   - throttle_queue_depth: calls waiting to start
//   - throttle_queue_wait_seconds: submission to start latency
//   - throttle_execution_duration_seconds: time spent in the wrapped function
//   - throttle_start_interval_seconds: spacing between consecutive starts
//
// Every metric carries a throttle_name label with the user-provided name.
package metrics
