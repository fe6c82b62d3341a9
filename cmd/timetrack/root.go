package main

import (
	"context"

	"github.com/spf13/cobra"
)

// rootCmd is the shared parent every per-command file registers onto from
// its own init().
var rootCmd = &cobra.Command{
	Use:           "timetrack",
	Short:         "Hierarchical task time tracking",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().Bool("json", false, "emit machine-readable JSON instead of a rendered table")
}

// withApp builds a fresh app for the duration of one command run and closes
// the store on the way out. Commands call this first thing in RunE.
func withApp(run func(ctx context.Context, a *app) error) error {
	ctx := context.Background()
	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer a.store.Close()
	return run(ctx, a)
}

func jsonRequested(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}
