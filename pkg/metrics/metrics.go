// Package metrics provides Prometheus instrumentation for throttle components.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all metric instances for throttle components.
type Registry struct {
	Submitted     *prometheus.CounterVec
	Started       *prometheus.CounterVec
	Succeeded     *prometheus.CounterVec
	Failed        *prometheus.CounterVec
	Rejected      *prometheus.CounterVec
	QueueDepth    *prometheus.GaugeVec
	QueueWait     *prometheus.HistogramVec
	ExecDuration  *prometheus.HistogramVec
	StartInterval *prometheus.HistogramVec
}

// DefaultRegistry is the default metrics registry used by throttle components.
var DefaultRegistry *Registry

func init() {
	DefaultRegistry = NewRegistry(prometheus.DefaultRegisterer)
}

// NewRegistry creates a new metrics registry with the given Prometheus registerer
// under the default namespace.
func NewRegistry(reg prometheus.Registerer) *Registry {
	return NewRegistryWithConfig(Config{Registry: reg})
}

// NewRegistryWithConfig creates a registry honoring config.Namespace and config.Labels.
// A nil config.Registry registers nothing, which is useful for throwaway instances.
func NewRegistryWithConfig(config Config) *Registry {
	factory := promauto.With(config.Registry)

	ns := config.Namespace
	if ns == "" {
		ns = DefaultNamespace
	}
	labels := []string{"throttle_name"}

	return &Registry{
		Submitted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Name:        "submitted_total",
				Help:        "Total number of calls submitted to the throttle",
				ConstLabels: config.Labels,
			},
			labels,
		),

		Started: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Name:        "started_total",
				Help:        "Total number of calls released for execution",
				ConstLabels: config.Labels,
			},
			labels,
		),

		Succeeded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Name:        "succeeded_total",
				Help:        "Total number of calls whose future was fulfilled",
				ConstLabels: config.Labels,
			},
			labels,
		),

		Failed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Name:        "failed_total",
				Help:        "Total number of calls whose future was rejected by the wrapped function",
				ConstLabels: config.Labels,
			},
			labels,
		),

		Rejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Name:        "rejected_total",
				Help:        "Total number of calls rejected without running (closed throttle or dispatcher failure)",
				ConstLabels: config.Labels,
			},
			labels,
		),

		QueueDepth: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace:   ns,
				Name:        "queue_depth",
				Help:        "Number of calls waiting to start",
				ConstLabels: config.Labels,
			},
			labels,
		),

		QueueWait: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace:   ns,
				Name:        "queue_wait_seconds",
				Help:        "Time between submission and start of a call",
				Buckets:     prometheus.DefBuckets,
				ConstLabels: config.Labels,
			},
			labels,
		),

		ExecDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace:   ns,
				Name:        "execution_duration_seconds",
				Help:        "Time spent executing the wrapped function",
				Buckets:     prometheus.DefBuckets,
				ConstLabels: config.Labels,
			},
			labels,
		),

		StartInterval: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace:   ns,
				Name:        "start_interval_seconds",
				Help:        "Time between two consecutive starts",
				Buckets:     prometheus.ExponentialBuckets(0.001, 2, 14),
				ConstLabels: config.Labels,
			},
			labels,
		),
	}
}
