package throttle

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/vnykmshr/throttle/pkg/common/errors"
	"github.com/vnykmshr/throttle/pkg/common/validation"
	"github.com/vnykmshr/throttle/pkg/metrics"
)

// Order selects which queued call is released next.
type Order int

const (
	// FIFO releases the oldest queued call first.
	FIFO Order = iota

	// LIFO releases the most recently queued call first.
	LIFO
)

func (o Order) String() string {
	switch o {
	case FIFO:
		return "fifo"
	case LIFO:
		return "lifo"
	default:
		return fmt.Sprintf("Order(%d)", int(o))
	}
}

// ParseOrder converts "fifo" or "lifo" (any case) to an Order.
// The empty string maps to FIFO.
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(s) {
	case "", "fifo":
		return FIFO, nil
	case "lifo":
		return LIFO, nil
	default:
		return FIFO, errors.NewValidationError("throttle", "order", s, "unknown queue order").
			WithHint("use fifo or lifo")
	}
}

// DefaultName labels throttles created without a name.
const DefaultName = "default"

// Config holds configuration options for creating a new Throttle.
type Config struct {
	// Rate is the maximum number of calls started per second. Must be positive and finite.
	Rate float64

	// Order selects the queue removal discipline. Defaults to FIFO.
	Order Order

	// Name identifies the throttle in logs, spans and metrics.
	Name string

	// Logger receives debug events per call and error events on dispatcher failure.
	// If nil, logging is disabled.
	Logger *zerolog.Logger

	// Tracer starts one span per execution. If nil, a no-op tracer is used.
	Tracer trace.Tracer
}

// Throttle releases submitted calls for execution no faster than its rate.
// Start times are paced; calls may overlap once started.
type Throttle struct {
	config Config
	logger zerolog.Logger
	tracer trace.Tracer

	// mu guards queue, pacer, closed and err. Pop and timestamp update
	// happen under one critical section.
	mu     sync.Mutex
	queue  *queue
	pacer  *pacer
	closed bool
	err    error

	wake      chan struct{}
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
	inflight  sync.WaitGroup

	metrics atomic.Pointer[metrics.Registry]
}

// New creates a FIFO throttle that starts at most rate calls per second.
func New(rate float64) (*Throttle, error) {
	return NewWithConfig(Config{Rate: rate})
}

// NewWithConfig creates a throttle from config, returning a *errors.ValidationError
// when the configuration is unusable.
func NewWithConfig(config Config) (*Throttle, error) {
	if err := validateConfig(config); err != nil {
		return nil, err
	}

	if config.Name == "" {
		config.Name = DefaultName
	}

	logger := zerolog.Nop()
	if config.Logger != nil {
		logger = config.Logger.With().Str("throttle", config.Name).Logger()
	}

	if config.Tracer == nil {
		config.Tracer = noop.NewTracerProvider().Tracer("no-op tracer")
	}

	t := &Throttle{
		config: config,
		logger: logger,
		tracer: config.Tracer,
		queue:  newQueue(config.Order),
		pacer:  newPacer(boundaryFor(config.Rate), systemClock{}),
		wake:   make(chan struct{}, 1),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}

	go t.run()

	return t, nil
}

func validateConfig(config Config) error {
	if err := validation.ValidatePositiveFloat("throttle", "rate", config.Rate); err != nil {
		return err
	}
	if err := validation.ValidateFinite("throttle", "rate", config.Rate); err != nil {
		return err
	}
	if float64(time.Second)/config.Rate > float64(math.MaxInt64) {
		return errors.NewValidationError("throttle", "rate", config.Rate, "too small to express as an interval").
			WithHint("use at least one call every 290 years")
	}
	if config.Order != FIFO && config.Order != LIFO {
		return errors.NewValidationError("throttle", "order", config.Order, "unknown queue order").
			WithHint("use FIFO or LIFO")
	}
	return nil
}

func boundaryFor(rate float64) time.Duration {
	return time.Duration(float64(time.Second) / rate)
}

// Rate returns the configured starts per second.
func (t *Throttle) Rate() float64 {
	return t.config.Rate
}

// Boundary returns the minimum spacing between two consecutive starts.
func (t *Throttle) Boundary() time.Duration {
	return t.pacer.boundary
}

// Order returns the queue removal discipline.
func (t *Throttle) Order() Order {
	return t.config.Order
}

// Name returns the throttle's name.
func (t *Throttle) Name() string {
	return t.config.Name
}

// Len returns the number of calls that have been submitted but not yet started.
func (t *Throttle) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.queue.Len()
}

// Done returns a channel that is closed once the dispatcher has stopped,
// either after Close drained the queue or after an internal failure.
func (t *Throttle) Done() <-chan struct{} {
	return t.done
}

// Err returns the internal failure that stopped the dispatcher, if any.
func (t *Throttle) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Close stops accepting calls, waits until every queued call has been started
// at the configured pace and every started call has settled, and returns the
// dispatcher failure if one occurred. Calls submitted after Close are rejected
// with errors.ErrClosed. Close is safe to call more than once.
func (t *Throttle) Close() error {
	t.closeOnce.Do(func() {
		t.mu.Lock()
		t.closed = true
		t.mu.Unlock()
		close(t.quit)
	})

	<-t.done
	t.inflight.Wait()

	return t.Err()
}

// enqueue appends it and wakes the dispatcher. Calls against a closed or
// failed throttle are rejected immediately.
func (t *Throttle) enqueue(it *item) {
	t.mu.Lock()
	if t.closed {
		reason := t.err
		if reason == nil {
			reason = errors.ErrClosed
		}
		t.mu.Unlock()

		it.reject(reason)
		t.observeRejected(1)
		return
	}
	t.queue.push(it)
	depth := t.queue.Len()
	t.mu.Unlock()

	t.observeSubmitted(depth)
	t.logger.Debug().Str("item_id", it.id).Int("depth", depth).Msg("queued")

	select {
	case t.wake <- struct{}{}:
	default:
	}
}

// run is the dispatch loop. It is the only consumer of the queue: it idles
// while the queue is empty, waits out the pacing boundary when needed, and
// starts one call per evaluation.
func (t *Throttle) run() {
	defer close(t.done)

	quit := t.quit
	closing := false

	for {
		t.mu.Lock()
		empty := t.queue.Len() == 0
		var wait time.Duration
		ready := false
		if !empty {
			wait, ready = t.pacer.evaluate()
		}
		t.mu.Unlock()

		if empty {
			if closing {
				return
			}
			select {
			case <-t.wake:
			case <-quit:
				closing, quit = true, nil
			}
			continue
		}

		if !ready {
			timer := time.NewTimer(wait)
			select {
			case <-timer.C:
			case <-quit:
				timer.Stop()
				closing, quit = true, nil
			}
			continue
		}

		if err := t.execute(); err != nil {
			t.fail(err)
			return
		}
	}
}

// execute pops one call, records its start time and launches it.
func (t *Throttle) execute() error {
	t.mu.Lock()
	it, ok := t.queue.pop()
	if !ok {
		t.mu.Unlock()
		return fmt.Errorf("dispatch: %w", errors.ErrEmptyQueue)
	}
	started, interval := t.pacer.mark()
	depth := t.queue.Len()
	t.inflight.Add(1)
	t.mu.Unlock()

	wait := started.Sub(it.enqueued)
	t.observeStarted(depth, wait, interval)
	t.logger.Debug().
		Str("item_id", it.id).
		Dur("queue_wait", wait).
		Dur("interval", interval).
		Int("depth", depth).
		Msg("started")

	go t.invoke(it, started, wait)

	return nil
}

// invoke runs a started call on its own goroutine and settles its future.
func (t *Throttle) invoke(it *item, started time.Time, wait time.Duration) {
	defer t.inflight.Done()

	ctx := context.WithValue(it.ctx, startedKey{}, started)
	ctx, span := t.tracer.Start(ctx, "throttle.execute",
		trace.WithAttributes(
			attribute.String("throttle.name", t.config.Name),
			attribute.String("throttle.item_id", it.id),
			attribute.Int64("throttle.queue_wait_ms", wait.Milliseconds()),
		))
	defer span.End()

	err := it.run(ctx)
	elapsed := time.Since(started)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	t.observeSettled(err, elapsed)
	t.logger.Debug().Str("item_id", it.id).Dur("took", elapsed).Err(err).Msg("settled")
}

type startedKey struct{}

// StartedAt returns the start time the dispatcher recorded for the call
// running with ctx. Pacing is measured between these timestamps.
func StartedAt(ctx context.Context) (time.Time, bool) {
	started, ok := ctx.Value(startedKey{}).(time.Time)
	return started, ok
}

// fail records a dispatcher defect, rejects every call still queued with it
// and marks the throttle closed.
func (t *Throttle) fail(err error) {
	t.mu.Lock()
	t.err = err
	t.closed = true
	pending := t.queue.drain()
	t.mu.Unlock()

	t.logger.Error().Err(err).Int("rejected", len(pending)).Msg("dispatcher stopped")

	for _, it := range pending {
		it.reject(err)
	}
	t.observeRejected(len(pending))
	t.observeDepth(0)
}
