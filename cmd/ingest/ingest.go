package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/riskibarqy/football-etl/external/sportmonks"
	"github.com/riskibarqy/football-etl/internal/app"
	"github.com/riskibarqy/football-etl/internal/config"
)

const kindFixtures = "fixtures"

func ingestCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Ingest stored provider payloads",
	}
	cmd.AddCommand(ingestFileCmd(flags))
	return cmd
}

func ingestFileCmd(flags *rootFlags) *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "file <path|->",
		Short: "Replay a JSON file of fixtures or reference items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind = strings.ToLower(strings.TrimSpace(kind))
			if kind != kindFixtures && !slices.Contains(sportmonks.ReferenceKinds(), kind) {
				return fmt.Errorf("--kind must be %s or one of %s", kindFixtures, strings.Join(sportmonks.ReferenceKinds(), ", "))
			}

			payloads, err := readPayloadFile(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			return runWithApp(cmd, flags, func(ctx context.Context, _ config.Config, a *app.App) error {
				if kind == kindFixtures {
					summary, err := a.Batch.Ingest(ctx, payloads, a.BatchOptions())
					if printErr := printJSON(cmd.OutOrStdout(), summary); printErr != nil {
						return printErr
					}
					return err
				}

				result, err := a.Reference.Ingest(ctx, kind, payloads)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), result)
			})
		},
	}
	cmd.Flags().StringVar(&kind, "kind", kindFixtures, "payload kind: fixtures or a reference kind")
	return cmd
}

func readPayloadFile(stdin io.Reader, path string) ([]json.RawMessage, error) {
	if path == "-" {
		return readPayloads(stdin)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return readPayloads(f)
}
