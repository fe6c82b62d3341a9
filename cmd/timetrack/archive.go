package main

import (
	"context"

	"github.com/spf13/cobra"
)

var archiveCmd = &cobra.Command{
	Use:   "archive [task-id]",
	Short: "Soft-delete a task and its subtree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app) error {
			return a.svc.ArchiveTask(ctx, args[0])
		})
	},
}

func init() {
	rootCmd.AddCommand(archiveCmd)
}
