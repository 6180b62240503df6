package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/riskibarqy/football-etl/internal/app"
	"github.com/riskibarqy/football-etl/internal/config"
	"github.com/riskibarqy/football-etl/internal/usecase"
)

func reportCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print reports computed from stored fixtures",
	}
	cmd.AddCommand(reportTableCmd(flags))
	cmd.AddCommand(reportFormCmd(flags))
	cmd.AddCommand(reportResultsCmd(flags))
	cmd.AddCommand(reportGoalsCmd(flags))
	cmd.AddCommand(reportPicksCmd(flags))
	return cmd
}

func runReport(cmd *cobra.Command, flags *rootFlags, fn func(ctx context.Context, reports *usecase.ReportService) (any, error)) error {
	return runWithApp(cmd, flags, func(ctx context.Context, _ config.Config, a *app.App) error {
		result, err := fn(ctx, a.Reports)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), result)
	})
}

func reportTableCmd(flags *rootFlags) *cobra.Command {
	var leagueID, seasonID int64
	cmd := &cobra.Command{
		Use:   "table",
		Short: "League table from finished fixtures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReport(cmd, flags, func(ctx context.Context, reports *usecase.ReportService) (any, error) {
				return reports.LeagueTable(ctx, leagueID, seasonID)
			})
		},
	}
	cmd.Flags().Int64Var(&leagueID, "league", 0, "league id")
	cmd.Flags().Int64Var(&seasonID, "season", 0, "season id; 0 means every season")
	_ = cmd.MarkFlagRequired("league")
	return cmd
}

func reportFormCmd(flags *rootFlags) *cobra.Command {
	var (
		teamID int64
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "form",
		Short: "Last finished matches of a team",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReport(cmd, flags, func(ctx context.Context, reports *usecase.ReportService) (any, error) {
				return reports.TeamForm(ctx, teamID, limit)
			})
		},
	}
	cmd.Flags().Int64Var(&teamID, "team", 0, "team id")
	cmd.Flags().IntVar(&limit, "limit", usecase.DefaultFormMatches, "number of matches")
	_ = cmd.MarkFlagRequired("team")
	return cmd
}

func reportResultsCmd(flags *rootFlags) *cobra.Command {
	var (
		leagueID int64
		limit    int
	)
	cmd := &cobra.Command{
		Use:   "results",
		Short: "Recent finished matches of a league",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReport(cmd, flags, func(ctx context.Context, reports *usecase.ReportService) (any, error) {
				return reports.RecentResults(ctx, leagueID, limit)
			})
		},
	}
	cmd.Flags().Int64Var(&leagueID, "league", 0, "league id")
	cmd.Flags().IntVar(&limit, "limit", usecase.DefaultRecentResults, "number of matches")
	_ = cmd.MarkFlagRequired("league")
	return cmd
}

func reportGoalsCmd(flags *rootFlags) *cobra.Command {
	var leagueID int64
	cmd := &cobra.Command{
		Use:   "goals",
		Short: "Goal averages and over/under rates of a league",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReport(cmd, flags, func(ctx context.Context, reports *usecase.ReportService) (any, error) {
				return reports.GoalStats(ctx, leagueID)
			})
		},
	}
	cmd.Flags().Int64Var(&leagueID, "league", 0, "league id")
	_ = cmd.MarkFlagRequired("league")
	return cmd
}

func reportPicksCmd(flags *rootFlags) *cobra.Command {
	var (
		leagueID      int64
		minConfidence float64
	)
	cmd := &cobra.Command{
		Use:   "picks",
		Short: "Most likely outcome of unfinished fixtures with a prediction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReport(cmd, flags, func(ctx context.Context, reports *usecase.ReportService) (any, error) {
				return reports.RecommendedPicks(ctx, leagueID, minConfidence)
			})
		},
	}
	cmd.Flags().Int64Var(&leagueID, "league", 0, "league id; 0 means every league")
	cmd.Flags().Float64Var(&minConfidence, "min-confidence", usecase.DefaultPickConfidence, "minimum outcome probability")
	return cmd
}
