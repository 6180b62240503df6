// Command api serves the football reports over HTTP from the store that the
// ingest CLI fills.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/riskibarqy/football-etl/internal/app"
	"github.com/riskibarqy/football-etl/internal/config"
	"github.com/riskibarqy/football-etl/internal/observability"
	"github.com/riskibarqy/football-etl/internal/platform/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := cfg.Logger(os.Stdout)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		return fmt.Errorf("init uptrace: %w", err)
	}
	stopProfiling, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		return fmt.Errorf("init pyroscope: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger, app.Options{CacheReports: true})
	if err != nil {
		return fmt.Errorf("build app: %w", err)
	}
	defer func() { _ = a.Close() }()

	srv, err := app.NewHTTPServer(cfg, a, logger)
	if err != nil {
		return err
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("http server starting", "addr", srv.Addr, "cache_enabled", cfg.CacheEnabled)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err = <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		logger.Error("graceful shutdown failed", "error", shutdownErr)
	}
	if stopErr := stopProfiling(); stopErr != nil {
		logger.Warn("stop pyroscope", "error", stopErr)
	}
	if traceErr := shutdownTracing(shutdownCtx); traceErr != nil {
		logger.Warn("shutdown uptrace", "error", traceErr)
	}

	logger.Info("http server stopped")
	if err != nil {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}
