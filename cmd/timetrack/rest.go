package main

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"
)

var restCmd = &cobra.Command{
	Use:   "rest",
	Short: "Manage rest suggestions",
}

var restRespondCmd = &cobra.Command{
	Use:   "respond [suggestion-id] [accept|ignore]",
	Short: "Record the user's response to a rest suggestion",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return err
		}
		accept := args[1] == "accept"
		return withApp(func(ctx context.Context, a *app) error {
			return a.svc.RespondRestSuggestion(ctx, id, accept)
		})
	},
}

func init() {
	restCmd.AddCommand(restRespondCmd)
	rootCmd.AddCommand(restCmd)
}
