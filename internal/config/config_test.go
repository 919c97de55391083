package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vnykmshr/throttle/internal/testutil"
	gferrors "github.com/vnykmshr/throttle/pkg/common/errors"
	"github.com/vnykmshr/throttle/pkg/throttle"
)

const sample = `
throttle:
  rate: 5
  order: lifo
  name: upstream
observability:
  log_level: debug
jobs:
  - name: health
    schedule: "@every 10s"
    target: http://localhost:8080/health
    calls: 20
  - name: search
    schedule: "*/30 * * * * *"
    target: http://localhost:8080/search
    method: POST
    calls: 3
    timeout_ms: 1500
`

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	testutil.AssertNoError(t, os.WriteFile(path, []byte(sample), 0o600))

	cfg, err := Load(path)
	testutil.AssertNoError(t, err)

	testutil.AssertEqual(t, cfg.Throttle.Rate, 5.0)
	testutil.AssertEqual(t, cfg.Throttle.Name, "upstream")
	testutil.AssertEqual(t, cfg.Observability.LogLevel, "debug")
	testutil.AssertEqual(t, cfg.Observability.MetricsAddr, ":9090")
	testutil.AssertEqual(t, cfg.Observability.MetricsPath, "/metrics")
	testutil.AssertEqual(t, len(cfg.Jobs), 2)

	health := cfg.Jobs[0]
	testutil.AssertEqual(t, health.HTTPMethod(), "GET")
	testutil.AssertEqual(t, health.Timeout(), 5*time.Second)

	search := cfg.Jobs[1]
	testutil.AssertEqual(t, search.HTTPMethod(), "POST")
	testutil.AssertEqual(t, search.Timeout(), 1500*time.Millisecond)

	tc, err := cfg.Throttle.Config()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, tc.Order, throttle.LIFO)
	testutil.AssertEqual(t, tc.Rate, 5.0)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	testutil.AssertErrorIs(t, err, os.ErrNotExist)
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte("throttle:\n  rate: 1\n"))
	testutil.AssertNoError(t, err)

	testutil.AssertEqual(t, cfg.Throttle.Name, throttle.DefaultName)
	testutil.AssertEqual(t, cfg.Observability.LogLevel, "info")
	testutil.AssertEqual(t, len(cfg.Jobs), 0)

	tc, err := cfg.Throttle.Config()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, tc.Order, throttle.FIFO)
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name      string
		doc       string
		wantField string
	}{
		{"missing rate", "throttle:\n  name: x\n", "throttle.rate"},
		{"negative rate", "throttle:\n  rate: -1\n", "throttle.rate"},
		{"bad order", "throttle:\n  rate: 1\n  order: random\n", "throttle.order"},
		{
			"job without target",
			"throttle:\n  rate: 1\njobs:\n  - name: a\n    schedule: '@hourly'\n    calls: 1\n",
			"jobs[0].target",
		},
		{
			"job with zero calls",
			"throttle:\n  rate: 1\njobs:\n  - name: a\n    schedule: '@hourly'\n    target: http://x\n",
			"jobs[0].calls",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			testutil.AssertErrorIs(t, err, gferrors.ErrInvalidConfiguration)
			if !strings.HasPrefix(err.Error(), "config: invalid "+tt.wantField+"=") {
				t.Errorf("unexpected message %q", err.Error())
			}
		})
	}
}

func TestParseUnknownField(t *testing.T) {
	_, err := Parse([]byte("throttle:\n  rate: 1\n  burst: 4\n"))
	testutil.AssertError(t, err)
	if gferrors.IsValidationError(err) {
		t.Error("unknown keys are a decode error, not a validation error")
	}
}
