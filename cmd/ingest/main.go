// Command ingest loads SportMonks football data into the store and prints
// reports from it.
//
// Usage:
//
//	football-ingest migrate
//	football-ingest ingest file fixtures.json
//	football-ingest sync fixtures --from 2024-08-01 --to 2024-08-31
//	football-ingest sync reference leagues seasons teams
//	football-ingest sync standings --season 23614
//	football-ingest watermark get fixtures
//	football-ingest report table --league 8 --season 23614
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	sonic "github.com/bytedance/sonic"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/riskibarqy/football-etl/internal/app"
	"github.com/riskibarqy/football-etl/internal/config"
	"github.com/riskibarqy/football-etl/internal/infrastructure/repository/sqlstore"
	"github.com/riskibarqy/football-etl/internal/observability"
	"github.com/riskibarqy/football-etl/internal/platform/logging"
)

var cliTracer = otel.Tracer("football-etl/cmd/ingest")

type rootFlags struct {
	envFile string
	migrate bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:          "football-ingest",
		Short:        "SportMonks football data ingestion CLI",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&flags.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	root.PersistentFlags().BoolVar(&flags.migrate, "migrate", false, "apply migrations before running the command")

	root.AddCommand(migrateCmd(flags))
	root.AddCommand(ingestCmd(flags))
	root.AddCommand(syncCmd(flags))
	root.AddCommand(watermarkCmd(flags))
	root.AddCommand(reportCmd(flags))
	return root
}

func migrateCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if err := sqlstore.Migrate(cfg.DBDriver, cfg.DBURL); err != nil {
				return err
			}
			logger.Info("migrations applied", "driver", cfg.DBDriver)
			return nil
		},
	}
}

func loadConfig(flags *rootFlags) (config.Config, *logging.Logger, error) {
	if flags.envFile != "" {
		_ = godotenv.Load(flags.envFile)
	}

	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("load config: %w", err)
	}

	logger := cfg.Logger(os.Stderr)
	logging.SetDefault(logger)
	return cfg, logger, nil
}

// runWithApp loads configuration, wires the app and runs fn under a root span
// that is canceled on SIGINT or SIGTERM.
func runWithApp(cmd *cobra.Command, flags *rootFlags, fn func(ctx context.Context, cfg config.Config, a *app.App) error) error {
	cfg, logger, err := loadConfig(flags)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		return fmt.Errorf("init uptrace: %w", err)
	}
	stopProfiling, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		return fmt.Errorf("init pyroscope: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, span := cliTracer.Start(ctx, cmd.CommandPath())
	runErr := func() (err error) {
		defer func() {
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				logger.ErrorContext(ctx, "command failed", "command", cmd.CommandPath(), "error", err)
			}
			span.End()
		}()

		a, err := app.New(ctx, cfg, logger, app.Options{MigrateOnOpen: flags.migrate})
		if err != nil {
			return err
		}
		defer func() { _ = a.Close() }()

		return fn(ctx, cfg, a)
	}()

	if err := stopProfiling(); err != nil {
		logger.Warn("stop pyroscope", "error", err)
	}
	if err := shutdownTracing(context.WithoutCancel(ctx)); err != nil {
		logger.Warn("shutdown uptrace", "error", err)
	}
	return runErr
}

func printJSON(w io.Writer, v any) error {
	out, err := sonic.ConfigDefault.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
