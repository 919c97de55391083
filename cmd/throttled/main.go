// Command throttled fires scheduled HTTP jobs through a shared rate limiter
// and exposes its metrics over HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/vnykmshr/throttle/internal/config"
	"github.com/vnykmshr/throttle/internal/jobs"
	"github.com/vnykmshr/throttle/internal/obs"
	"github.com/vnykmshr/throttle/pkg/metrics"
	"github.com/vnykmshr/throttle/pkg/throttle"
)

const shutdownTimeout = 10 * time.Second

func main() {
	path := flag.String("config", "./config.yaml", "path to the YAML configuration")
	flag.Parse()

	cfg, err := config.Load(*path)
	if err != nil {
		fallback := obs.SetupLogger("info")
		fallback.Fatal().Err(err).Msg("load config")
	}

	logger := obs.SetupLogger(cfg.Observability.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error().Err(err).Msg("exit")
		os.Exit(1)
	}
	logger.Info().Msg("bye")
}

// run serves until ctx is cancelled, then stops the schedule, drains the
// throttle and shuts the server down, in that order.
func run(ctx context.Context, cfg *config.Root, logger zerolog.Logger) error {
	tc, err := cfg.Throttle.Config()
	if err != nil {
		return err
	}
	tc.Logger = &logger

	th, err := throttle.NewWithConfigAndMetrics(tc, "", metrics.Config{Enabled: true})
	if err != nil {
		return err
	}

	runner, err := jobs.NewRunner(th, cfg.Jobs, jobs.WithLogger(logger))
	if err != nil {
		_ = th.Close()
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Observability.MetricsAddr,
		Handler:           obs.AccessLog(logger)(newMux(cfg.Observability.MetricsPath, th)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", srv.Addr).
			Str("throttle", th.Name()).
			Float64("rate", th.Rate()).
			Int("jobs", runner.Len()).
			Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	runner.Start()

	var errs []error
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		errs = append(errs, err)
	case <-th.Done():
		// th.Close below reports the failure.
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := runner.Stop(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("job runner did not stop in time")
	}
	if err := th.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, err)
	}
	if err := <-serveErr; err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func newMux(metricsPath string, th *throttle.Throttle) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle(metricsPath, promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		select {
		case <-th.Done():
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"ok":false}`))
		default:
			_, _ = w.Write([]byte(`{"ok":true}`))
		}
	})
	return mux
}
