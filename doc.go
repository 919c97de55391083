/*
Package throttle paces asynchronous calls so that no more than a configured
number of them start per second. Calls beyond the rate wait in a queue instead
of being rejected, and every caller gets a future that settles with exactly the
result or error of its own call.

Core (pkg/throttle):
  - Throttle: the queue and a single dispatch goroutine
  - Wrap, WrapFunc, Submit: turn a function into a paced one
  - Future: the settle-once result of a paced call

Support:
  - pkg/metrics: Prometheus collectors for throttles
  - pkg/common/errors: sentinel errors and ValidationError
  - pkg/common/validation: configuration checks

Daemon (cmd/throttled): fires cron-scheduled HTTP jobs through one throttle
and serves /metrics and /health.

Example usage:

	import "github.com/vnykmshr/throttle/pkg/throttle"

	th, _ := throttle.New(5) // at most 5 starts per second
	defer th.Close()

	fetch := throttle.Wrap(th, func(ctx context.Context, id int) (string, error) {
		return lookup(ctx, id)
	})

	v, err := fetch(ctx, 42).Await(ctx)
*/
package throttle
