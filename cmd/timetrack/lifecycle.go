package main

import (
	"context"

	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start [task-id]",
	Short: "Start a task (a paused task is continued with resume)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app) error {
			return a.svc.StartTask(ctx, args[0])
		})
	},
}

var pauseCmd = &cobra.Command{
	Use:   "pause [task-id]",
	Short: "Pause a running task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app) error {
			return a.svc.PauseTask(ctx, args[0])
		})
	},
}

var resumeCmd = &cobra.Command{
	Use:   "resume [task-id]",
	Short: "Resume a paused task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app) error {
			return a.svc.ResumeTask(ctx, args[0])
		})
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop [task-id]",
	Short: "Stop a task and auto-resume its parent if eligible",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(ctx context.Context, a *app) error {
			return a.svc.StopTask(ctx, args[0])
		})
	},
}

func init() {
	rootCmd.AddCommand(startCmd, pauseCmd, resumeCmd, stopCmd)
}
