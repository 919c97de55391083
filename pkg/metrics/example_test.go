package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// Example_customRegistry demonstrates using a custom Prometheus registry.
func Example_customRegistry() {
	customRegistry := prometheus.NewRegistry()

	registry := NewRegistry(customRegistry)
	registry.Submitted.WithLabelValues("api").Add(12)
	registry.Started.WithLabelValues("api").Add(10)

	fmt.Printf("submitted: %.0f\n", testutil.ToFloat64(registry.Submitted.WithLabelValues("api")))
	fmt.Printf("started: %.0f\n", testutil.ToFloat64(registry.Started.WithLabelValues("api")))

	// Output:
	// submitted: 12
	// started: 10
}

// Example_configuration demonstrates different metrics configurations.
func Example_configuration() {
	defaultConfig := DefaultConfig()
	fmt.Printf("Default enabled: %v\n", defaultConfig.Enabled)
	fmt.Printf("Default namespace: %s\n", defaultConfig.Namespace)

	customConfig := Config{
		Enabled:   false,
		Namespace: "myapp",
	}
	fmt.Printf("Custom enabled: %v\n", customConfig.Enabled)
	fmt.Printf("Custom namespace: %s\n", customConfig.Namespace)

	// Output:
	// Default enabled: true
	// Default namespace: throttle
	// Custom enabled: false
	// Custom namespace: myapp
}
