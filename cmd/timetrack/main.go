// Command timetrack is the single-binary CLI front-end for the task
// lifecycle and time-accounting engine.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/untoldecay/timetrack/internal/aggregator"
	"github.com/untoldecay/timetrack/internal/config"
	"github.com/untoldecay/timetrack/internal/restadvisor"
	"github.com/untoldecay/timetrack/internal/store"
	"github.com/untoldecay/timetrack/internal/store/sqlite"
	"github.com/untoldecay/timetrack/internal/taskengine"
)

// app bundles every wired component a command needs. withApp builds a
// fresh one for each command run.
type app struct {
	store   store.Storage
	svc     *taskengine.Service
	agg     *aggregator.Aggregator
	advisor *restadvisor.Advisor
}

func buildApp(ctx context.Context) (*app, error) {
	if err := config.Initialize(); err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	s, err := sqlite.Open(ctx, store.Config{Path: config.DBPath()})
	if err != nil {
		logOpenFailure(err)
		return nil, fmt.Errorf("opening database: %w", err)
	}

	advisor := restadvisor.New(s, config.RestAdvisorEnabled())
	svc := taskengine.New(s, advisor)
	agg := aggregator.New(s)
	return &app{store: s, svc: svc, agg: agg, advisor: advisor}, nil
}

// logOpenFailure writes the one diagnostic line the engine emits on a
// store open/migrate failure, to stderr and to the rotating file sink.
func logOpenFailure(err error) {
	fmt.Fprintf(os.Stderr, "timetrack: %v\n", err)
	if w := config.LogWriter(); w != nil {
		fmt.Fprintf(w, "store open failed: %v\n", err)
		_ = w.Close()
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
