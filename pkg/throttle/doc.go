/*
Package throttle releases asynchronous calls for execution no faster than a
configured rate, while handing every caller a future for its own result.

A Throttle owns a queue of pending calls and a single dispatch goroutine. Each
call is started at least 1/rate seconds after the previous one; once started,
calls run on their own goroutines, so a slow call never delays the next start.
Only start times are paced, not the number of calls in flight.

# Basic Usage

Wrap an existing function; the wrapped form queues instead of running:

	th, err := throttle.New(10) // 10 starts per second
	if err != nil {
		return err
	}
	defer th.Close()

	fetch := throttle.Wrap(th, func(ctx context.Context, url string) (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		return http.DefaultClient.Do(req)
	})

	resp, err := fetch(ctx, "https://api.example.com/items").Await(ctx)

Functions taking several arguments are wrapped with a struct argument; functions
taking none use WrapFunc. Submit queues a one-off closure.

# Results

The future settles exactly once: with the function's value, with its error
unchanged, or with a *PanicError if it panicked. Canceling the context passed to
Await stops the wait only; queued calls cannot be withdrawn.

# Ordering

Calls are released oldest first by default. Config.Order = LIFO releases the
most recent call first.

# Lifecycle

Close stops accepting calls, drains the queue at the configured pace and waits
for running calls to finish. Calls submitted afterwards are rejected with
errors.ErrClosed. If the dispatcher ever detects a broken internal invariant it
stops, rejects everything still queued, and reports the failure through Done,
Err and Close.

# Observability

Config.Logger takes a zerolog logger for per-call debug events, Config.Tracer
an OpenTelemetry tracer for one span per execution, and NewWithMetrics or
EnableMetrics record Prometheus metrics (see package metrics).
*/
package throttle
