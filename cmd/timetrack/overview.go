package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/untoldecay/timetrack/internal/config"
	"github.com/untoldecay/timetrack/internal/model"
	"github.com/untoldecay/timetrack/internal/ui"
)

var overviewCmd = &cobra.Command{
	Use: "overview [range]",
	Short: `Show the task tree and totals for a window ("all", "day", "week", "today", ` +
		`or, as a CLI convenience, free text like "yesterday")`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rangeLabel := "all"
		if len(args) == 1 {
			rangeLabel = args[0]
		}

		if watch, _ := cmd.Flags().GetBool("watch"); watch {
			return watchOverview(cmd, rangeLabel)
		}

		return withApp(func(ctx context.Context, a *app) error {
			o, err := a.agg.OverviewText(ctx, rangeLabel, model.NowUnix(), config.Location())
			if err != nil {
				return err
			}
			if jsonRequested(cmd) {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(o)
			}
			fmt.Fprint(cmd.OutOrStdout(), ui.RenderOverview(o))
			return nil
		})
	},
}

func init() {
	overviewCmd.Flags().Bool("watch", false, "keep running and re-render when the database changes")
	rootCmd.AddCommand(overviewCmd)
}
