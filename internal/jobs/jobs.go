// Package jobs fires scheduled batches of HTTP calls through a shared throttle.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/vnykmshr/throttle/internal/config"
	gferrors "github.com/vnykmshr/throttle/pkg/common/errors"
	"github.com/vnykmshr/throttle/pkg/throttle"
)

// Result summarises one firing of a job.
type Result struct {
	Job       string
	Succeeded int
	Failed    int

	// Err is the first failure observed, if any.
	Err error
}

// Option configures a Runner.
type Option func(*Runner)

// WithHTTPClient replaces the client used for outgoing calls.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Runner) { r.client = c }
}

// WithLogger sets the logger for job and scheduler events.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

type request struct {
	method string
	target string
	job    config.Job
}

// Runner schedules jobs on a cron and sends their calls through one throttle,
// so every job shares the same start rate.
type Runner struct {
	client *http.Client
	logger zerolog.Logger
	cron   *cron.Cron
	call   func(context.Context, request) *throttle.Future[int]

	ctx    context.Context
	cancel context.CancelFunc

	startOnce sync.Once
	stopOnce  sync.Once
}

// NewRunner registers every job on a new cron. Schedules accept an optional
// seconds field and descriptors such as "@every 10s".
func NewRunner(t *throttle.Throttle, jobs []config.Job, opts ...Option) (*Runner, error) {
	r := &Runner{
		client: &http.Client{},
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.ctx, r.cancel = context.WithCancel(context.Background())
	r.call = throttle.Wrap(t, r.do)

	cl := cronLogger{r.logger}
	r.cron = cron.New(
		cron.WithParser(cron.NewParser(cron.SecondOptional|cron.Minute|cron.Hour|cron.Dom|cron.Month|cron.Dow|cron.Descriptor)),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	for i, job := range jobs {
		job := job
		if _, err := r.cron.AddFunc(job.Schedule, func() { r.Fire(r.ctx, job) }); err != nil {
			r.cancel()
			return nil, gferrors.NewValidationError("jobs", fmt.Sprintf("jobs[%d].schedule", i), job.Schedule, err.Error()).
				WithHint("use a cron expression or a descriptor such as @every 10s")
		}
	}

	return r, nil
}

// Len returns the number of scheduled jobs.
func (r *Runner) Len() int {
	return len(r.cron.Entries())
}

// Start begins firing jobs on their schedules.
func (r *Runner) Start() {
	r.startOnce.Do(r.cron.Start)
}

// Stop halts the schedule and waits for running firings to finish. If ctx
// expires first, in-progress requests are cancelled and ctx.Err() is returned.
func (r *Runner) Stop(ctx context.Context) error {
	var err error
	r.stopOnce.Do(func() {
		defer r.cancel()
		select {
		case <-r.cron.Stop().Done():
		case <-ctx.Done():
			err = ctx.Err()
		}
	})
	return err
}

// Fire submits job.Calls requests through the throttle and waits for all of them.
func (r *Runner) Fire(ctx context.Context, job config.Job) Result {
	req := request{method: job.HTTPMethod(), target: job.Target, job: job}

	futures := make([]*throttle.Future[int], job.Calls)
	for i := range futures {
		futures[i] = r.call(ctx, req)
	}

	res := Result{Job: job.Name}
	for _, f := range futures {
		if _, err := f.Await(ctx); err != nil {
			res.Failed++
			if res.Err == nil {
				res.Err = err
			}
			continue
		}
		res.Succeeded++
	}

	ev := r.logger.Info()
	if res.Failed > 0 {
		ev = r.logger.Warn().Err(res.Err).Bool("temporary", gferrors.IsTemporary(res.Err))
	}
	ev.Str("job", job.Name).
		Int("succeeded", res.Succeeded).
		Int("failed", res.Failed).
		Msg("job fired")

	return res
}

func (r *Runner) do(ctx context.Context, req request) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, req.job.Timeout())
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, req.method, req.target, nil)
	if err != nil {
		return 0, gferrors.NewOperationError("jobs", "request", err).WithContext(req.job.Name)
	}

	resp, err := r.client.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%w after %s", gferrors.ErrTimeout, req.job.Timeout())
		}
		return 0, gferrors.NewOperationError("jobs", "request", err).WithContext(req.job.Name)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		return resp.StatusCode, gferrors.NewOperationError("jobs", "request",
			fmt.Errorf("%s %s: unexpected status %d", req.method, req.target, resp.StatusCode)).
			WithContext(req.job.Name)
	}

	return resp.StatusCode, nil
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	l zerolog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
