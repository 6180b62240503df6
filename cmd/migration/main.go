// Command migration manages the embedded schema migrations of the store
// named by DB_DRIVER and DB_URL.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/riskibarqy/football-etl/internal/config"
	"github.com/riskibarqy/football-etl/internal/infrastructure/repository/sqlstore"
	"github.com/riskibarqy/football-etl/internal/platform/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFile string
	root := &cobra.Command{
		Use:          "football-migration",
		Short:        "Apply, roll back or inspect schema migrations",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	run := func(fn func(m *migrate.Migrate, out io.Writer, logger *logging.Logger, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			if envFile != "" {
				_ = godotenv.Load(envFile)
			}
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger := cfg.Logger(cmd.ErrOrStderr()).With("driver", cfg.DBDriver)

			m, err := sqlstore.NewMigrator(cfg.DBDriver, cfg.DBURL)
			if err != nil {
				return err
			}
			defer func() {
				srcErr, dbErr := m.Close()
				if err := errors.Join(srcErr, dbErr); err != nil {
					logger.Warn("close migrator", "error", err)
				}
			}()
			return fn(m, cmd.OutOrStdout(), logger, args)
		}
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply every pending migration",
			Args:  cobra.NoArgs,
			RunE: run(func(m *migrate.Migrate, _ io.Writer, logger *logging.Logger, _ []string) error {
				return report(logger, m.Up(), "migrations applied")
			}),
		},
		&cobra.Command{
			Use:   "down [steps]",
			Short: "Roll back the last steps migrations (default 1)",
			Args:  cobra.MaximumNArgs(1),
			RunE: run(func(m *migrate.Migrate, _ io.Writer, logger *logging.Logger, args []string) error {
				steps := 1
				if len(args) == 1 {
					n, err := strconv.Atoi(args[0])
					if err != nil || n <= 0 {
						return fmt.Errorf("down steps must be a positive integer, got %q", args[0])
					}
					steps = n
				}
				return report(logger, m.Steps(-steps), "migrations rolled back", "steps", steps)
			}),
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the applied version and dirty flag",
			Args:  cobra.NoArgs,
			RunE: run(func(m *migrate.Migrate, out io.Writer, _ *logging.Logger, _ []string) error {
				version, dirty, err := m.Version()
				if errors.Is(err, migrate.ErrNilVersion) {
					_, err = fmt.Fprintln(out, "version: none\ndirty: false")
					return err
				}
				if err != nil {
					return fmt.Errorf("read version: %w", err)
				}
				_, err = fmt.Fprintf(out, "version: %d\ndirty: %t\n", version, dirty)
				return err
			}),
		},
		&cobra.Command{
			Use:   "force <version>",
			Short: "Set the version without running migrations and clear the dirty flag",
			Args:  cobra.ExactArgs(1),
			RunE: run(func(m *migrate.Migrate, _ io.Writer, logger *logging.Logger, args []string) error {
				version, err := strconv.Atoi(args[0])
				if err != nil || version < -1 {
					return fmt.Errorf("invalid version %q", args[0])
				}
				return report(logger, m.Force(version), "version forced", "version", version)
			}),
		},
		&cobra.Command{
			Use:   "goto <version>",
			Short: "Migrate up or down to version",
			Args:  cobra.ExactArgs(1),
			RunE: run(func(m *migrate.Migrate, _ io.Writer, logger *logging.Logger, args []string) error {
				target, err := strconv.ParseUint(args[0], 10, 0)
				if err != nil {
					return fmt.Errorf("invalid target version %q: %w", args[0], err)
				}
				return report(logger, m.Migrate(uint(target)), "migrated", "version", target)
			}),
		},
	)
	return root
}

// report logs msg on success and treats ErrNoChange as success.
func report(logger *logging.Logger, err error, msg string, args ...any) error {
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migration changes")
		return nil
	}
	if err != nil {
		return err
	}
	logger.Info(msg, args...)
	return nil
}
