package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/riskibarqy/football-etl/internal/app"
	"github.com/riskibarqy/football-etl/internal/config"
	"github.com/riskibarqy/football-etl/internal/usecase"
)

func syncCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Fetch data from SportMonks and ingest it",
	}
	cmd.AddCommand(syncFixturesCmd(flags))
	cmd.AddCommand(syncReferenceCmd(flags))
	cmd.AddCommand(syncStandingsCmd(flags))
	cmd.AddCommand(syncTopScorersCmd(flags))
	cmd.AddCommand(syncSquadCmd(flags))
	cmd.AddCommand(syncOddsCmd(flags))
	cmd.AddCommand(syncPredictionsCmd(flags))
	return cmd
}

// runSync is runWithApp for commands that call the provider.
func runSync(cmd *cobra.Command, flags *rootFlags, fn func(ctx context.Context, a *app.App) (any, error)) error {
	return runWithApp(cmd, flags, func(ctx context.Context, cfg config.Config, a *app.App) error {
		if err := cfg.RequireSportMonks(); err != nil {
			return err
		}
		result, err := fn(ctx, a)
		if result != nil {
			if printErr := printJSON(cmd.OutOrStdout(), result); printErr != nil && err == nil {
				return printErr
			}
		}
		return err
	})
}

func syncFixturesCmd(flags *rootFlags) *cobra.Command {
	var (
		from, to string
		ids      []int64
	)
	cmd := &cobra.Command{
		Use:   "fixtures",
		Short: "Sync fixtures by id or by start date",
		Long: "Without --id the fixtures starting between --from and --to are synced. " +
			"Without --from the range starts at the fixtures watermark, which moves on success.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			input := usecase.SyncFixturesInput{FixtureIDs: ids}
			var err error
			if input.From, err = parseDay("from", from); err != nil {
				return err
			}
			if input.To, err = parseDay("to", to); err != nil {
				return err
			}
			if len(ids) > 0 && (input.From != nil || input.To != nil) {
				return fmt.Errorf("--id cannot be combined with --from or --to")
			}

			return runSync(cmd, flags, func(ctx context.Context, a *app.App) (any, error) {
				return a.Sync.SyncFixtures(ctx, input)
			})
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "range start (YYYY-MM-DD); defaults to the fixtures watermark")
	cmd.Flags().StringVar(&to, "to", "", "range end (YYYY-MM-DD); defaults to now")
	cmd.Flags().Int64SliceVar(&ids, "id", nil, "fixture ids to sync, comma separated")
	return cmd
}

func syncReferenceCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "reference [kind...]",
		Short: "Sync reference feeds in dependency order; no kinds means all",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd, flags, func(ctx context.Context, a *app.App) (any, error) {
				result, err := a.Sync.SyncReference(ctx, args)
				if err == nil && result.Failed > 0 {
					err = fmt.Errorf("%d reference feed(s) failed", result.Failed)
				}
				return result, err
			})
		},
	}
}

func syncStandingsCmd(flags *rootFlags) *cobra.Command {
	var seasonID int64
	cmd := &cobra.Command{
		Use:   "standings",
		Short: "Replace the standings of a season",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSync(cmd, flags, func(ctx context.Context, a *app.App) (any, error) {
				return a.Sync.SyncStandings(ctx, seasonID)
			})
		},
	}
	cmd.Flags().Int64Var(&seasonID, "season", 0, "SportMonks season id")
	_ = cmd.MarkFlagRequired("season")
	return cmd
}

func syncTopScorersCmd(flags *rootFlags) *cobra.Command {
	var (
		seasonID int64
		category string
	)
	cmd := &cobra.Command{
		Use:   "topscorers",
		Short: "Sync the top performer lists of a season",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSync(cmd, flags, func(ctx context.Context, a *app.App) (any, error) {
				return a.Sync.SyncTopScorers(ctx, seasonID, category)
			})
		},
	}
	cmd.Flags().Int64Var(&seasonID, "season", 0, "SportMonks season id")
	cmd.Flags().StringVar(&category, "category", "goals", "category used when the feed does not name one")
	_ = cmd.MarkFlagRequired("season")
	return cmd
}

func syncSquadCmd(flags *rootFlags) *cobra.Command {
	var seasonID, teamID int64
	cmd := &cobra.Command{
		Use:   "squad",
		Short: "Sync a team's squad for a season",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSync(cmd, flags, func(ctx context.Context, a *app.App) (any, error) {
				return a.Sync.SyncSquad(ctx, seasonID, teamID)
			})
		},
	}
	cmd.Flags().Int64Var(&seasonID, "season", 0, "SportMonks season id")
	cmd.Flags().Int64Var(&teamID, "team", 0, "SportMonks team id")
	_ = cmd.MarkFlagRequired("season")
	_ = cmd.MarkFlagRequired("team")
	return cmd
}

func syncOddsCmd(flags *rootFlags) *cobra.Command {
	var fixtureID int64
	cmd := &cobra.Command{
		Use:   "odds",
		Short: "Replace the pre-match odds of a fixture",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSync(cmd, flags, func(ctx context.Context, a *app.App) (any, error) {
				return a.Sync.SyncOdds(ctx, fixtureID)
			})
		},
	}
	cmd.Flags().Int64Var(&fixtureID, "fixture", 0, "SportMonks fixture id")
	_ = cmd.MarkFlagRequired("fixture")
	return cmd
}

func syncPredictionsCmd(flags *rootFlags) *cobra.Command {
	var fixtureID int64
	cmd := &cobra.Command{
		Use:   "predictions",
		Short: "Sync the full-time result prediction of a fixture",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSync(cmd, flags, func(ctx context.Context, a *app.App) (any, error) {
				return a.Sync.SyncPredictions(ctx, fixtureID)
			})
		},
	}
	cmd.Flags().Int64Var(&fixtureID, "fixture", 0, "SportMonks fixture id")
	_ = cmd.MarkFlagRequired("fixture")
	return cmd
}
