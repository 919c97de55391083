package throttle

import (
	"context"
	"fmt"
	"sync"
)

// Future is the pending result of a throttled call. It settles exactly once,
// with the wrapped function's value or with its error.
type Future[R any] struct {
	done  chan struct{}
	once  sync.Once
	value R
	err   error
}

func newFuture[R any]() *Future[R] {
	return &Future[R]{done: make(chan struct{})}
}

// resolve fulfils the future. It reports false if the future was already settled.
func (f *Future[R]) resolve(v R) bool {
	settled := false
	f.once.Do(func() {
		f.value = v
		close(f.done)
		settled = true
	})
	return settled
}

// reject fails the future with err. It reports false if the future was already settled.
func (f *Future[R]) reject(err error) bool {
	settled := false
	f.once.Do(func() {
		f.err = err
		close(f.done)
		settled = true
	})
	return settled
}

// Done returns a channel that is closed when the future settles.
func (f *Future[R]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the future settles or ctx is done. A canceled ctx only
// stops the wait: the call itself stays queued and still runs.
func (f *Future[R]) Await(ctx context.Context) (R, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero R
		return zero, ctx.Err()
	}
}

// Get blocks until the future settles.
func (f *Future[R]) Get() (R, error) {
	<-f.done
	return f.value, f.err
}

// Result returns the settled value and error without blocking. ok is false
// while the call is still pending.
func (f *Future[R]) Result() (value R, err error, ok bool) {
	select {
	case <-f.done:
		return f.value, f.err, true
	default:
		var zero R
		return zero, nil, false
	}
}

// PanicError rejects the future of a call whose function panicked.
type PanicError struct {
	Value interface{}
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("task panicked: %v", e.Value)
}
