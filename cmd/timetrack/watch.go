package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/untoldecay/timetrack/internal/config"
	"github.com/untoldecay/timetrack/internal/model"
	"github.com/untoldecay/timetrack/internal/ui"
)

// watchOverview re-renders the overview whenever another process writes the
// database file. The watch is on the containing directory: SQLite writes
// journal/WAL sidecars next to the main file, and a rename-into-place would
// leave a file-level watch pinned to a dead inode.
func watchOverview(cmd *cobra.Command, rangeLabel string) error {
	return withApp(func(ctx context.Context, a *app) error {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return err
		}
		defer func() { _ = watcher.Close() }()

		dbPath := a.store.Path()
		if err := watcher.Add(filepath.Dir(dbPath)); err != nil {
			return err
		}

		render := func() error {
			o, err := a.agg.OverviewText(ctx, rangeLabel, model.NowUnix(), config.Location())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), "\033[2J\033[H")
			fmt.Fprint(cmd.OutOrStdout(), ui.RenderOverview(o))
			return nil
		}
		if err := render(); err != nil {
			return err
		}

		base := filepath.Base(dbPath)
		related := map[string]bool{base: true, base + "-journal": true, base + "-wal": true}

		// SQLite touches the journal several times per transaction, so
		// coalesce event bursts before re-rendering.
		var pending <-chan time.Time
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if !related[filepath.Base(ev.Name)] {
					continue
				}
				pending = time.After(200 * time.Millisecond)
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				return err
			case <-pending:
				pending = nil
				if err := render(); err != nil {
					// The writer may still hold the file lock; wait for
					// its next write rather than giving up.
					if model.Is(err, model.KindConflict) {
						pending = time.After(200 * time.Millisecond)
						continue
					}
					return err
				}
			}
		}
	})
}
