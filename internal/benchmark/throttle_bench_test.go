package benchmark

import (
	"context"
	"io"
	"strconv"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/vnykmshr/throttle/pkg/metrics"
	"github.com/vnykmshr/throttle/pkg/throttle"
)

// unpaced is a rate high enough that the boundary never delays a start.
const unpaced = 1e9

type request struct {
	ID   int
	Path string
}

func newThrottle(b *testing.B, config throttle.Config) *throttle.Throttle {
	b.Helper()
	th, err := throttle.NewWithConfig(config)
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { _ = th.Close() })
	return th
}

// BenchmarkWrapRoundTrip measures submit, start and settle for one call at a time.
func BenchmarkWrapRoundTrip(b *testing.B) {
	for _, order := range []throttle.Order{throttle.FIFO, throttle.LIFO} {
		b.Run(order.String(), func(b *testing.B) {
			th := newThrottle(b, throttle.Config{Rate: unpaced, Order: order})
			call := throttle.Wrap(th, func(_ context.Context, r request) (string, error) {
				return r.Path, nil
			})
			ctx := context.Background()

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := call(ctx, request{ID: i, Path: "/"}).Get(); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkBatch measures queuing a batch before awaiting any of it.
func BenchmarkBatch(b *testing.B) {
	for _, size := range []int{10, 100, 1000} {
		b.Run(sizeLabel(size), func(b *testing.B) {
			th := newThrottle(b, throttle.Config{Rate: unpaced})
			noop := throttle.WrapFunc(th, func(context.Context) (int, error) { return 0, nil })
			ctx := context.Background()
			futures := make([]*throttle.Future[int], size)

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				for j := range futures {
					futures[j] = noop(ctx)
				}
				for _, f := range futures {
					if _, err := f.Get(); err != nil {
						b.Fatal(err)
					}
				}
			}
		})
	}
}

// BenchmarkConcurrentSubmitters measures contention on the queue lock.
func BenchmarkConcurrentSubmitters(b *testing.B) {
	th := newThrottle(b, throttle.Config{Rate: unpaced})
	noop := throttle.WrapFunc(th, func(context.Context) (int, error) { return 0, nil })

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		ctx := context.Background()
		for pb.Next() {
			if _, err := noop(ctx).Get(); err != nil {
				b.Error(err)
				return
			}
		}
	})
}

// BenchmarkInstrumentation compares a bare throttle with one that records
// metrics and debug logs.
func BenchmarkInstrumentation(b *testing.B) {
	discard := zerolog.Nop()
	debug := zerolog.New(io.Discard).Level(zerolog.DebugLevel)

	cases := []struct {
		name    string
		logger  *zerolog.Logger
		metrics bool
	}{
		{"bare", nil, false},
		{"nop_logger", &discard, false},
		{"debug_logger", &debug, false},
		{"metrics", nil, true},
	}

	for _, tc := range cases {
		b.Run(tc.name, func(b *testing.B) {
			th := newThrottle(b, throttle.Config{Rate: unpaced, Name: tc.name, Logger: tc.logger})
			if tc.metrics {
				if err := th.EnableMetrics(metrics.Config{Enabled: true, Registry: prometheus.NewRegistry()}); err != nil {
					b.Fatal(err)
				}
			}
			noop := throttle.WrapFunc(th, func(context.Context) (int, error) { return 0, nil })
			ctx := context.Background()

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := noop(ctx).Get(); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func sizeLabel(n int) string {
	return "size_" + strconv.Itoa(n)
}
