package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var createCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "Create a new task",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		var parentID *string
		if p, _ := cmd.Flags().GetString("parent"); p != "" {
			parentID = &p
		}

		if len(args) == 1 {
			title = args[0]
		}
		if title == "" {
			var err error
			title, err = promptTitle()
			if err != nil {
				return err
			}
		}

		return withApp(func(ctx context.Context, a *app) error {
			id, err := a.svc.CreateTask(ctx, title, parentID)
			if err != nil {
				return err
			}
			fmt.Println(id)
			return nil
		})
	},
}

func init() {
	createCmd.Flags().String("title", "", "task title (prompted interactively if omitted)")
	createCmd.Flags().String("parent", "", "parent task id, if this is a subtask")
	rootCmd.AddCommand(createCmd)
}
