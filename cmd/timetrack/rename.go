package main

import (
	"context"

	"github.com/spf13/cobra"
)

var renameCmd = &cobra.Command{
	Use:   "rename [task-id] [title]",
	Short: "Rename a task",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app) error {
			return a.svc.RenameTask(ctx, args[0], args[1])
		})
	},
}

func init() {
	rootCmd.AddCommand(renameCmd)
}
