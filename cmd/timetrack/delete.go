package main

import (
	"context"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [task-id ...]",
	Short: "Delete one or more tasks and their subtrees",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hard, _ := cmd.Flags().GetBool("hard")
		return withApp(func(ctx context.Context, a *app) error {
			return a.svc.DeleteTasks(ctx, args, hard)
		})
	},
}

func init() {
	deleteCmd.Flags().Bool("hard", false, "permanently remove rows instead of soft-archiving them")
	rootCmd.AddCommand(deleteCmd)
}
