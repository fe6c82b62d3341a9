package sqlite

import (
	"context"
	"database/sql"

	"github.com/untoldecay/timetrack/internal/model"
	"github.com/untoldecay/timetrack/internal/store"
)

// AllNonArchivedTasks returns every non-archived task ordered by
// created_at ascending, the load order the aggregator replay requires.
func (s *SQLiteStorage) AllNonArchivedTasks(ctx context.Context) ([]*model.Task, error) {
	var out []*model.Task
	err := s.withExclusive(func() error {
		rows, err := s.db.QueryContext(ctx, `
			SELECT id, parent_id, title, status, created_at, archived_at
			FROM tasks WHERE archived_at IS NULL
			ORDER BY created_at ASC`)
		if err != nil {
			return model.Storage("listing tasks", err)
		}
		defer func() { _ = rows.Close() }()
		for rows.Next() {
			t, err := scanTask(rows)
			if err != nil {
				return model.Storage("scanning task", err)
			}
			out = append(out, t)
		}
		return rows.Err()
	})
	return out, err
}

// TagNamesByTask returns, for every task that has at least one tag, its
// tag names sorted case-sensitively ascending.
func (s *SQLiteStorage) TagNamesByTask(ctx context.Context) (map[string][]string, error) {
	out := make(map[string][]string)
	err := s.withExclusive(func() error {
		rows, err := s.db.QueryContext(ctx, `
			SELECT tt.task_id, t.name
			FROM task_tags tt JOIN tags t ON t.id = tt.tag_id
			ORDER BY tt.task_id, t.name ASC`)
		if err != nil {
			return model.Storage("listing task tags", err)
		}
		defer func() { _ = rows.Close() }()
		for rows.Next() {
			var taskID, name string
			if err := rows.Scan(&taskID, &name); err != nil {
				return model.Storage("scanning task tag", err)
			}
			out[taskID] = append(out[taskID], name)
		}
		return rows.Err()
	})
	return out, err
}

func queryEvents(ctx context.Context, q func(context.Context, string, ...interface{}) (*sql.Rows, error), query string, args ...interface{}) ([]*model.TimeEvent, error) {
	rows, err := q(ctx, query, args...)
	if err != nil {
		return nil, model.Storage("listing time events", err)
	}
	defer func() { _ = rows.Close() }()
	var out []*model.TimeEvent
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, model.Storage("scanning time event", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// AllEventsOrdered returns every event with ts <= upTo, ordered by
// (ts asc, id asc), the canonical replay order.
func (s *SQLiteStorage) AllEventsOrdered(ctx context.Context, upTo int64) ([]*model.TimeEvent, error) {
	var out []*model.TimeEvent
	err := s.withExclusive(func() error {
		var err error
		out, err = queryEvents(ctx, s.db.QueryContext, `
			SELECT id, task_id, event_type, ts, payload
			FROM time_events WHERE ts <= ?
			ORDER BY ts ASC, id ASC`, upTo)
		return err
	})
	return out, err
}

// EventsUpTo is an alias of AllEventsOrdered kept distinct because the
// rest advisor and the aggregator read the same log for different
// purposes and each names the call after its own use.
func (s *SQLiteStorage) EventsUpTo(ctx context.Context, upTo int64) ([]*model.TimeEvent, error) {
	return s.AllEventsOrdered(ctx, upTo)
}

// EventsInWindow returns events with ts in [from, to] ordered by
// (ts asc, id asc). An empty taskID matches start/resume events across
// all tasks, which is what the rest advisor's switch count reads.
func (s *SQLiteStorage) EventsInWindow(ctx context.Context, taskID string, from, to int64) ([]*model.TimeEvent, error) {
	var out []*model.TimeEvent
	err := s.withExclusive(func() error {
		var err error
		if taskID == "" {
			out, err = queryEvents(ctx, s.db.QueryContext, `
				SELECT id, task_id, event_type, ts, payload
				FROM time_events
				WHERE event_type IN ('start','resume') AND ts BETWEEN ? AND ?
				ORDER BY ts ASC, id ASC`, from, to)
		} else {
			out, err = queryEvents(ctx, s.db.QueryContext, `
				SELECT id, task_id, event_type, ts, payload
				FROM time_events
				WHERE task_id = ? AND ts BETWEEN ? AND ?
				ORDER BY ts ASC, id ASC`, taskID, from, to)
		}
		return err
	})
	return out, err
}

// LatestPendingSuggestion returns the sole pending suggestion row, if any.
func (s *SQLiteStorage) LatestPendingSuggestion(ctx context.Context) (*model.RestSuggestion, error) {
	var out *model.RestSuggestion
	err := s.withExclusive(func() error {
		row := s.db.QueryRowContext(ctx, `
			SELECT `+suggestionCols+`
			FROM rest_suggestions WHERE status = 'pending'
			ORDER BY created_at DESC, id DESC LIMIT 1`)
		sug, err := scanSuggestion(row)
		if err == sql.ErrNoRows {
			return nil
		}
		if err != nil {
			return model.Storage("reading pending suggestion", err)
		}
		out = sug
		return nil
	})
	return out, err
}

// The Transaction-interface methods below also need direct Storage entry
// points outside of RunInTransaction, for single-call sites. Each wraps a
// throwaway transaction.
func (s *SQLiteStorage) GetTask(ctx context.Context, id string) (*model.Task, error) {
	var out *model.Task
	err := s.RunInTransaction(ctx, func(tx store.Transaction) error {
		t, err := tx.GetTask(ctx, id)
		out = t
		return err
	})
	return out, err
}

func (s *SQLiteStorage) InsertTask(ctx context.Context, t *model.Task) error {
	return s.RunInTransaction(ctx, func(tx store.Transaction) error { return tx.InsertTask(ctx, t) })
}

func (s *SQLiteStorage) UpdateTaskStatus(ctx context.Context, id string, status model.Status) error {
	return s.RunInTransaction(ctx, func(tx store.Transaction) error { return tx.UpdateTaskStatus(ctx, id, status) })
}

func (s *SQLiteStorage) UpdateTaskParent(ctx context.Context, id string, parentID *string) error {
	return s.RunInTransaction(ctx, func(tx store.Transaction) error { return tx.UpdateTaskParent(ctx, id, parentID) })
}

func (s *SQLiteStorage) UpdateTaskTitle(ctx context.Context, id string, title string) error {
	return s.RunInTransaction(ctx, func(tx store.Transaction) error { return tx.UpdateTaskTitle(ctx, id, title) })
}

func (s *SQLiteStorage) ArchiveTasks(ctx context.Context, ids []string, at int64) error {
	return s.RunInTransaction(ctx, func(tx store.Transaction) error { return tx.ArchiveTasks(ctx, ids, at) })
}

func (s *SQLiteStorage) DeleteTasks(ctx context.Context, ids []string) error {
	return s.RunInTransaction(ctx, func(tx store.Transaction) error { return tx.DeleteTasks(ctx, ids) })
}

func (s *SQLiteStorage) NonArchivedChildren(ctx context.Context, parentID string) ([]*model.Task, error) {
	var out []*model.Task
	err := s.RunInTransaction(ctx, func(tx store.Transaction) error {
		children, err := tx.NonArchivedChildren(ctx, parentID)
		out = children
		return err
	})
	return out, err
}

func (s *SQLiteStorage) RunningOrPausedTask(ctx context.Context, ids []string) (*model.Task, error) {
	var out *model.Task
	err := s.RunInTransaction(ctx, func(tx store.Transaction) error {
		t, err := tx.RunningOrPausedTask(ctx, ids)
		out = t
		return err
	})
	return out, err
}

func (s *SQLiteStorage) RunningTask(ctx context.Context) (*model.Task, error) {
	var out *model.Task
	err := s.RunInTransaction(ctx, func(tx store.Transaction) error {
		t, err := tx.RunningTask(ctx)
		out = t
		return err
	})
	return out, err
}

func (s *SQLiteStorage) AppendEvent(ctx context.Context, e *model.TimeEvent) (int64, error) {
	var id int64
	err := s.RunInTransaction(ctx, func(tx store.Transaction) error {
		n, err := tx.AppendEvent(ctx, e)
		id = n
		return err
	})
	return id, err
}

func (s *SQLiteStorage) LatestEvent(ctx context.Context, taskID string) (*model.TimeEvent, error) {
	var out *model.TimeEvent
	err := s.RunInTransaction(ctx, func(tx store.Transaction) error {
		e, err := tx.LatestEvent(ctx, taskID)
		out = e
		return err
	})
	return out, err
}

func (s *SQLiteStorage) LatestFocusEvent(ctx context.Context) (*model.TimeEvent, error) {
	var out *model.TimeEvent
	err := s.RunInTransaction(ctx, func(tx store.Transaction) error {
		e, err := tx.LatestFocusEvent(ctx)
		out = e
		return err
	})
	return out, err
}

func (s *SQLiteStorage) DeleteEventsForTasks(ctx context.Context, taskIDs []string) error {
	return s.RunInTransaction(ctx, func(tx store.Transaction) error { return tx.DeleteEventsForTasks(ctx, taskIDs) })
}

func (s *SQLiteStorage) FindTagByName(ctx context.Context, name string) (*model.Tag, error) {
	var out *model.Tag
	err := s.RunInTransaction(ctx, func(tx store.Transaction) error {
		t, err := tx.FindTagByName(ctx, name)
		out = t
		return err
	})
	return out, err
}

func (s *SQLiteStorage) InsertTag(ctx context.Context, t *model.Tag) error {
	return s.RunInTransaction(ctx, func(tx store.Transaction) error { return tx.InsertTag(ctx, t) })
}

func (s *SQLiteStorage) LinkTag(ctx context.Context, taskID, tagID string, at int64) (bool, error) {
	var out bool
	err := s.RunInTransaction(ctx, func(tx store.Transaction) error {
		b, err := tx.LinkTag(ctx, taskID, tagID, at)
		out = b
		return err
	})
	return out, err
}

func (s *SQLiteStorage) UnlinkTag(ctx context.Context, taskID, tagID string) (bool, error) {
	var out bool
	err := s.RunInTransaction(ctx, func(tx store.Transaction) error {
		b, err := tx.UnlinkTag(ctx, taskID, tagID)
		out = b
		return err
	})
	return out, err
}

func (s *SQLiteStorage) PruneUnreferencedTags(ctx context.Context) error {
	return s.RunInTransaction(ctx, func(tx store.Transaction) error { return tx.PruneUnreferencedTags(ctx) })
}

func (s *SQLiteStorage) DeleteTaskTagsForTasks(ctx context.Context, taskIDs []string) error {
	return s.RunInTransaction(ctx, func(tx store.Transaction) error { return tx.DeleteTaskTagsForTasks(ctx, taskIDs) })
}

func (s *SQLiteStorage) DemotePendingSuggestions(ctx context.Context, respondedAt int64) error {
	return s.RunInTransaction(ctx, func(tx store.Transaction) error { return tx.DemotePendingSuggestions(ctx, respondedAt) })
}

func (s *SQLiteStorage) InsertSuggestion(ctx context.Context, sug *model.RestSuggestion) (int64, error) {
	var id int64
	err := s.RunInTransaction(ctx, func(tx store.Transaction) error {
		n, err := tx.InsertSuggestion(ctx, sug)
		id = n
		return err
	})
	return id, err
}

func (s *SQLiteStorage) DeleteSuggestionsForTasks(ctx context.Context, taskIDs []string) error {
	return s.RunInTransaction(ctx, func(tx store.Transaction) error { return tx.DeleteSuggestionsForTasks(ctx, taskIDs) })
}

func (s *SQLiteStorage) GetSuggestion(ctx context.Context, id int64) (*model.RestSuggestion, error) {
	var out *model.RestSuggestion
	err := s.RunInTransaction(ctx, func(tx store.Transaction) error {
		sug, err := tx.GetSuggestion(ctx, id)
		out = sug
		return err
	})
	return out, err
}

func (s *SQLiteStorage) UpdateSuggestionResponse(ctx context.Context, id int64, status model.SuggestionStatus, respondedAt int64) error {
	return s.RunInTransaction(ctx, func(tx store.Transaction) error {
		return tx.UpdateSuggestionResponse(ctx, id, status, respondedAt)
	})
}
