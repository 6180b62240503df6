package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/riskibarqy/football-etl/internal/app"
	"github.com/riskibarqy/football-etl/internal/config"
)

type watermarkOutput struct {
	EntityType string     `json:"entity_type"`
	At         *time.Time `json:"at"`
}

func watermarkCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watermark",
		Short: "Read or move sync watermarks",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "get <entity-type>",
		Short: "Print the watermark of an entity type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, flags, func(ctx context.Context, _ config.Config, a *app.App) error {
				out := watermarkOutput{EntityType: args[0]}
				at, ok, err := a.Watermarks.Get(ctx, args[0])
				if err != nil {
					return err
				}
				if ok {
					out.At = &at
				}
				return printJSON(cmd.OutOrStdout(), out)
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set <entity-type> <YYYY-MM-DD|RFC3339>",
		Short: "Move the watermark of an entity type",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := parseDay("at", args[1])
			if err != nil {
				return err
			}
			if at == nil {
				return fmt.Errorf("watermark time is required")
			}
			return runWithApp(cmd, flags, func(ctx context.Context, _ config.Config, a *app.App) error {
				if err := a.Watermarks.Set(ctx, args[0], *at); err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), watermarkOutput{EntityType: args[0], At: at})
			})
		},
	})
	return cmd
}
