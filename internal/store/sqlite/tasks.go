package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/untoldecay/timetrack/internal/model"
)

func scanTask(row interface {
	Scan(dest ...interface{}) error
}) (*model.Task, error) {
	var t model.Task
	var parentID sql.NullString
	var archivedAt sql.NullInt64
	if err := row.Scan(&t.ID, &parentID, &t.Title, &t.Status, &t.CreatedAt, &archivedAt); err != nil {
		return nil, err
	}
	if parentID.Valid {
		t.ParentID = &parentID.String
	}
	if archivedAt.Valid {
		t.ArchivedAt = &archivedAt.Int64
	}
	return &t, nil
}

// GetTask excludes archived tasks: callers (internal/taskengine) treat a
// nil result as "not found", and an archived task is not a valid target
// for any Task Service operation.
func (tx *sqlTx) GetTask(ctx context.Context, id string) (*model.Task, error) {
	row := tx.tx.QueryRowContext(ctx, `
		SELECT id, parent_id, title, status, created_at, archived_at
		FROM tasks WHERE id = ? AND archived_at IS NULL`, id)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, model.Storage("reading task", err)
	}
	return t, nil
}

func (tx *sqlTx) InsertTask(ctx context.Context, t *model.Task) error {
	if t.ID == "" {
		t.ID = newID()
	}
	_, err := tx.tx.ExecContext(ctx, `
		INSERT INTO tasks (id, parent_id, title, status, created_at, archived_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.ParentID, t.Title, t.Status, t.CreatedAt, t.ArchivedAt)
	return wrapExec("inserting task", err)
}

func (tx *sqlTx) UpdateTaskStatus(ctx context.Context, id string, status model.Status) error {
	_, err := tx.tx.ExecContext(ctx, `UPDATE tasks SET status = ? WHERE id = ?`, status, id)
	return wrapExec("updating task status", err)
}

func (tx *sqlTx) UpdateTaskParent(ctx context.Context, id string, parentID *string) error {
	_, err := tx.tx.ExecContext(ctx, `UPDATE tasks SET parent_id = ? WHERE id = ?`, parentID, id)
	return wrapExec("updating task parent", err)
}

func (tx *sqlTx) UpdateTaskTitle(ctx context.Context, id string, title string) error {
	_, err := tx.tx.ExecContext(ctx, `UPDATE tasks SET title = ? WHERE id = ?`, title, id)
	return wrapExec("updating task title", err)
}

func (tx *sqlTx) ArchiveTasks(ctx context.Context, ids []string, at int64) error {
	for _, id := range ids {
		_, err := tx.tx.ExecContext(ctx, `
			UPDATE tasks SET archived_at = ? WHERE id = ? AND archived_at IS NULL`, at, id)
		if err != nil {
			return model.Storage(fmt.Sprintf("archiving task %s", id), err)
		}
	}
	return nil
}

func (tx *sqlTx) DeleteTasks(ctx context.Context, ids []string) error {
	// Delete in the caller-supplied order (children before parents — see
	// internal/taskengine's subtree walk, which produces pre-order and is
	// reversed before calling this).
	for _, id := range ids {
		if _, err := tx.tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id); err != nil {
			return model.Storage(fmt.Sprintf("deleting task %s", id), err)
		}
	}
	return nil
}

func (tx *sqlTx) NonArchivedChildren(ctx context.Context, parentID string) ([]*model.Task, error) {
	rows, err := tx.tx.QueryContext(ctx, `
		SELECT id, parent_id, title, status, created_at, archived_at
		FROM tasks WHERE parent_id = ? AND archived_at IS NULL
		ORDER BY created_at ASC`, parentID)
	if err != nil {
		return nil, model.Storage("listing children", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, model.Storage("scanning child task", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// RunningOrPausedTask returns the first task among ids that is currently
// running or paused, or nil if none is.
func (tx *sqlTx) RunningOrPausedTask(ctx context.Context, ids []string) (*model.Task, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders := make([]interface{}, 0, len(ids))
	q := "SELECT id, parent_id, title, status, created_at, archived_at FROM tasks WHERE status IN ('running','paused') AND id IN ("
	for i, id := range ids {
		if i > 0 {
			q += ","
		}
		q += "?"
		placeholders = append(placeholders, id)
	}
	q += ") LIMIT 1"

	row := tx.tx.QueryRowContext(ctx, q, placeholders...)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, model.Storage("checking running/paused tasks", err)
	}
	return t, nil
}

func (tx *sqlTx) RunningTask(ctx context.Context) (*model.Task, error) {
	row := tx.tx.QueryRowContext(ctx, `
		SELECT id, parent_id, title, status, created_at, archived_at
		FROM tasks WHERE status = 'running' AND archived_at IS NULL LIMIT 1`)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, model.Storage("checking running task", err)
	}
	return t, nil
}
