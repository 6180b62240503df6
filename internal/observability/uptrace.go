// Package observability starts the tracing, log export and profiling
// backends shared by the CLI and the report API.
package observability

import (
	"context"

	"github.com/uptrace/uptrace-go/uptrace"

	"github.com/riskibarqy/football-etl/internal/config"
	"github.com/riskibarqy/football-etl/internal/platform/logging"
)

// ShutdownFunc flushes and stops a backend.
type ShutdownFunc func(context.Context) error

func noopShutdown(context.Context) error { return nil }

// InitUptrace installs the global OpenTelemetry providers. With
// UPTRACE_LOGS_ENABLED the log entries are mirrored as OTel log records too.
func InitUptrace(cfg config.Config, logger *logging.Logger) (ShutdownFunc, error) {
	if logger == nil {
		logger = logging.Default()
	}
	logging.SetMirror(nil)

	if !cfg.UptraceEnabled {
		logger.Debug("uptrace disabled")
		return noopShutdown, nil
	}

	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(cfg.UptraceDSN),
		uptrace.WithServiceName(cfg.ServiceName),
		uptrace.WithServiceVersion(cfg.ServiceVersion),
		uptrace.WithDeploymentEnvironment(cfg.AppEnv),
		uptrace.WithLoggingEnabled(cfg.UptraceLogsEnabled),
	)
	if cfg.UptraceLogsEnabled {
		logging.SetMirror(newOTelLogMirror(cfg.ServiceVersion))
	}
	logger.Info("uptrace enabled", "environment", cfg.AppEnv, "logs_enabled", cfg.UptraceLogsEnabled)

	return func(ctx context.Context) error {
		logging.SetMirror(nil)
		return uptrace.Shutdown(ctx)
	}, nil
}
