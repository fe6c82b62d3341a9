package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var insertSubtaskCmd = &cobra.Command{
	Use:   "insert-subtask [parent-task-id] [title]",
	Short: "Pause the running parent, create a subtask under it, and start the subtask",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app) error {
			childID, err := a.svc.InsertSubtaskAndStart(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Println(childID)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(insertSubtaskCmd)
}
