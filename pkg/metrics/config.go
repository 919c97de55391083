package metrics

import (
	"sort"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "throttle"

// Config holds configuration for metrics collection.
type Config struct {
	// Enabled controls whether metrics collection is active.
	Enabled bool

	// Registry is the Prometheus registry to use. If nil, DefaultRegistry is used
	// by instrumented constructors.
	Registry prometheus.Registerer

	// Namespace overrides the default "throttle" namespace for metrics.
	Namespace string

	// Labels are additional constant labels added to all metrics.
	Labels prometheus.Labels
}

// DefaultConfig returns a default metrics configuration.
func DefaultConfig() Config {
	return Config{
		Enabled:   true,
		Registry:  prometheus.DefaultRegisterer,
		Namespace: DefaultNamespace,
		Labels:    nil,
	}
}

// Instrumentable is an interface for components that can be instrumented with metrics.
type Instrumentable interface {
	// EnableMetrics enables metrics collection for this component.
	EnableMetrics(config Config) error

	// DisableMetrics disables metrics collection for this component.
	DisableMetrics()

	// MetricsEnabled returns true if metrics are currently enabled.
	MetricsEnabled() bool
}

// For resolves the Registry an instrumented component should record into.
// A nil Registry, or the default registerer with default naming, maps to
// DefaultRegistry. Components configured with the same registerer, namespace
// and labels share one Registry, so its collectors are registered only once.
func For(config Config) *Registry {
	if config.Registry == nil {
		return DefaultRegistry
	}
	defaultNaming := (config.Namespace == "" || config.Namespace == DefaultNamespace) && len(config.Labels) == 0
	if config.Registry == prometheus.DefaultRegisterer && defaultNaming {
		return DefaultRegistry
	}

	key := registryKey{reg: config.Registry, namespace: config.Namespace, labels: labelKey(config.Labels)}
	if key.namespace == "" {
		key.namespace = DefaultNamespace
	}

	sharedMu.Lock()
	defer sharedMu.Unlock()
	if r, ok := shared[key]; ok {
		return r
	}
	r := NewRegistryWithConfig(config)
	shared[key] = r
	return r
}

type registryKey struct {
	reg       prometheus.Registerer
	namespace string
	labels    string
}

var (
	sharedMu sync.Mutex
	shared   = map[registryKey]*Registry{}
)

func labelKey(labels prometheus.Labels) string {
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(labels[k])
		b.WriteByte(',')
	}
	return b.String()
}
