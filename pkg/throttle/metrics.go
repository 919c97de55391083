package throttle

import (
	"time"

	"github.com/vnykmshr/throttle/pkg/metrics"
)

// NewWithMetrics creates a throttle that records into metrics.DefaultRegistry
// under the given name.
func NewWithMetrics(rate float64, name string) (*Throttle, error) {
	return NewWithConfigAndMetrics(Config{Rate: rate}, name, metrics.Config{Enabled: true})
}

// NewWithConfigAndMetrics creates a throttle with custom config and metrics.
// A non-empty name overrides config.Name.
func NewWithConfigAndMetrics(config Config, name string, metricsConfig metrics.Config) (*Throttle, error) {
	if name != "" {
		config.Name = name
	}

	t, err := NewWithConfig(config)
	if err != nil {
		return nil, err
	}

	if err := t.EnableMetrics(metricsConfig); err != nil {
		_ = t.Close()
		return nil, err
	}

	return t, nil
}

// EnableMetrics enables metrics collection.
func (t *Throttle) EnableMetrics(config metrics.Config) error {
	if !config.Enabled {
		t.metrics.Store(nil)
		return nil
	}

	reg := metrics.For(config)
	t.metrics.Store(reg)
	reg.QueueDepth.WithLabelValues(t.config.Name).Set(float64(t.Len()))

	return nil
}

// DisableMetrics disables metrics collection.
func (t *Throttle) DisableMetrics() {
	t.metrics.Store(nil)
}

// MetricsEnabled returns true if metrics are currently enabled.
func (t *Throttle) MetricsEnabled() bool {
	return t.metrics.Load() != nil
}

var _ metrics.Instrumentable = (*Throttle)(nil)

func (t *Throttle) observeSubmitted(depth int) {
	reg := t.metrics.Load()
	if reg == nil {
		return
	}
	reg.Submitted.WithLabelValues(t.config.Name).Inc()
	reg.QueueDepth.WithLabelValues(t.config.Name).Set(float64(depth))
}

func (t *Throttle) observeStarted(depth int, wait, interval time.Duration) {
	reg := t.metrics.Load()
	if reg == nil {
		return
	}
	reg.Started.WithLabelValues(t.config.Name).Inc()
	reg.QueueDepth.WithLabelValues(t.config.Name).Set(float64(depth))
	reg.QueueWait.WithLabelValues(t.config.Name).Observe(wait.Seconds())
	if interval > 0 {
		reg.StartInterval.WithLabelValues(t.config.Name).Observe(interval.Seconds())
	}
}

func (t *Throttle) observeSettled(err error, elapsed time.Duration) {
	reg := t.metrics.Load()
	if reg == nil {
		return
	}
	reg.ExecDuration.WithLabelValues(t.config.Name).Observe(elapsed.Seconds())
	if err != nil {
		reg.Failed.WithLabelValues(t.config.Name).Inc()
	} else {
		reg.Succeeded.WithLabelValues(t.config.Name).Inc()
	}
}

func (t *Throttle) observeRejected(n int) {
	reg := t.metrics.Load()
	if reg == nil || n == 0 {
		return
	}
	reg.Rejected.WithLabelValues(t.config.Name).Add(float64(n))
}

func (t *Throttle) observeDepth(depth int) {
	reg := t.metrics.Load()
	if reg == nil {
		return
	}
	reg.QueueDepth.WithLabelValues(t.config.Name).Set(float64(depth))
}
