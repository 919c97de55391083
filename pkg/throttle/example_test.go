package throttle_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/vnykmshr/throttle/pkg/throttle"
)

func ExampleWrap() {
	th, err := throttle.New(50) // at most 50 starts per second
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer th.Close()

	double := throttle.Wrap(th, func(_ context.Context, n int) (int, error) {
		return n * 2, nil
	})

	ctx := context.Background()
	futures := []*throttle.Future[int]{double(ctx, 1), double(ctx, 2), double(ctx, 3)}

	for _, f := range futures {
		v, err := f.Await(ctx)
		fmt.Println(v, err)
	}

	// Output:
	// 2 <nil>
	// 4 <nil>
	// 6 <nil>
}

func ExampleWrapFunc() {
	th, err := throttle.NewWithConfig(throttle.Config{Rate: 10, Name: "pinger"})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer th.Close()

	errDown := errors.New("service down")
	ping := throttle.WrapFunc(th, func(context.Context) (string, error) {
		return "", errDown
	})

	_, err = ping(context.Background()).Get()
	fmt.Println(errors.Is(err, errDown))

	// Output:
	// true
}

func ExampleNew_invalidRate() {
	_, err := throttle.New(0)
	fmt.Println(err)

	// Output:
	// throttle: invalid rate=0 (must be positive) - value must be greater than 0
}

func ExampleThrottle_Close() {
	th, _ := throttle.New(100)

	echo := throttle.Wrap(th, func(_ context.Context, s string) (string, error) {
		return s, nil
	})
	f := echo(context.Background(), "queued before close")

	// Close waits for queued calls to run.
	fmt.Println(th.Close())
	fmt.Println(f.Get())

	_, err := echo(context.Background(), "too late").Get()
	fmt.Println(err)

	// Output:
	// <nil>
	// queued before close <nil>
	// throttle is closed
}
