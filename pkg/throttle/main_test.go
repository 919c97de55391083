package throttle

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain enables goroutine leak detection for all tests in this package.
// Every throttle created by a test must be closed.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
