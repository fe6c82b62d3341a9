package main

import (
	"context"

	"github.com/spf13/cobra"
)

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Manage task tags",
}

var tagAddCmd = &cobra.Command{
	Use:   "add [task-id] [tag-name]",
	Short: "Attach a tag to a task, creating it case-insensitively if new",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app) error {
			return a.svc.AddTagToTask(ctx, args[0], args[1])
		})
	},
}

var tagRemoveCmd = &cobra.Command{
	Use:   "remove [task-id] [tag-name]",
	Short: "Detach a tag from a task, pruning it if no task references it anymore",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app) error {
			return a.svc.RemoveTagFromTask(ctx, args[0], args[1])
		})
	},
}

func init() {
	tagCmd.AddCommand(tagAddCmd, tagRemoveCmd)
	rootCmd.AddCommand(tagCmd)
}
