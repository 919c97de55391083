package throttle

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
)

// Submit queues fn on t and returns its future. fn never runs on the caller's
// goroutine. Submit itself never fails: a closed throttle rejects the future
// with errors.ErrClosed.
func Submit[R any](ctx context.Context, t *Throttle, fn func(context.Context) (R, error)) *Future[R] {
	if ctx == nil {
		ctx = context.Background()
	}

	f := newFuture[R]()
	t.enqueue(&item{
		id:       uuid.NewString(),
		ctx:      ctx,
		enqueued: time.Now(),
		run: func(ctx context.Context) error {
			v, err := call(ctx, fn)
			if err != nil {
				f.reject(err)
				return err
			}
			f.resolve(v)
			return nil
		},
		reject: func(err error) {
			f.reject(err)
		},
	})

	return f
}

// Wrap adapts fn into a throttle-controlled function with the same argument.
// Use a struct for A when fn needs several arguments.
func Wrap[A, R any](t *Throttle, fn func(context.Context, A) (R, error)) func(context.Context, A) *Future[R] {
	return func(ctx context.Context, arg A) *Future[R] {
		return Submit(ctx, t, func(ctx context.Context) (R, error) {
			return fn(ctx, arg)
		})
	}
}

// WrapFunc adapts an argument-less fn into a throttle-controlled function.
func WrapFunc[R any](t *Throttle, fn func(context.Context) (R, error)) func(context.Context) *Future[R] {
	return func(ctx context.Context) *Future[R] {
		return Submit(ctx, t, fn)
	}
}

// call runs fn, turning a panic into a *PanicError.
func call[R any](ctx context.Context, fn func(context.Context) (R, error)) (v R, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero R
			v, err = zero, &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return fn(ctx)
}
