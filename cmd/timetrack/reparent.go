package main

import (
	"context"

	"github.com/spf13/cobra"
)

var reparentCmd = &cobra.Command{
	Use:   "reparent [task-id]",
	Short: "Move a task under a new parent, or to the root with --parent=\"\"",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var newParentID *string
		if p, _ := cmd.Flags().GetString("parent"); p != "" {
			newParentID = &p
		}
		return withApp(func(ctx context.Context, a *app) error {
			return a.svc.ReparentTask(ctx, args[0], newParentID)
		})
	},
}

func init() {
	reparentCmd.Flags().String("parent", "", "new parent task id (omit to move to the root)")
	rootCmd.AddCommand(reparentCmd)
}
