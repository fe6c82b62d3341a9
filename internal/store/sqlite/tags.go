package sqlite

import (
	"context"
	"database/sql"

	"github.com/untoldecay/timetrack/internal/model"
)

// FindTagByName looks tags up case-insensitively. Display casing is
// preserved in the name column; uniqueness is on LOWER(name).
func (tx *sqlTx) FindTagByName(ctx context.Context, name string) (*model.Tag, error) {
	row := tx.tx.QueryRowContext(ctx, `SELECT id, name FROM tags WHERE LOWER(name) = LOWER(?)`, name)
	var t model.Tag
	if err := row.Scan(&t.ID, &t.Name); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, model.Storage("finding tag", err)
	}
	return &t, nil
}

func (tx *sqlTx) InsertTag(ctx context.Context, t *model.Tag) error {
	if t.ID == "" {
		t.ID = newID()
	}
	_, err := tx.tx.ExecContext(ctx, `INSERT INTO tags (id, name) VALUES (?, ?)`, t.ID, t.Name)
	return wrapExec("inserting tag", err)
}

// LinkTag links taskID to tagID, reporting whether a new row was created.
// Callers only append a tag_add event when the link table actually
// changed.
func (tx *sqlTx) LinkTag(ctx context.Context, taskID, tagID string, at int64) (bool, error) {
	res, err := tx.tx.ExecContext(ctx, `
		INSERT OR IGNORE INTO task_tags (task_id, tag_id, created_at) VALUES (?, ?, ?)`,
		taskID, tagID, at)
	if err != nil {
		return false, model.Storage("linking tag", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, model.Storage("reading link result", err)
	}
	return n > 0, nil
}

func (tx *sqlTx) UnlinkTag(ctx context.Context, taskID, tagID string) (bool, error) {
	res, err := tx.tx.ExecContext(ctx, `DELETE FROM task_tags WHERE task_id = ? AND tag_id = ?`, taskID, tagID)
	if err != nil {
		return false, model.Storage("unlinking tag", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, model.Storage("reading unlink result", err)
	}
	return n > 0, nil
}

func (tx *sqlTx) PruneUnreferencedTags(ctx context.Context) error {
	_, err := tx.tx.ExecContext(ctx, `
		DELETE FROM tags WHERE id NOT IN (SELECT DISTINCT tag_id FROM task_tags)`)
	return wrapExec("pruning unreferenced tags", err)
}

func (tx *sqlTx) DeleteTaskTagsForTasks(ctx context.Context, taskIDs []string) error {
	for _, id := range taskIDs {
		if _, err := tx.tx.ExecContext(ctx, `DELETE FROM task_tags WHERE task_id = ?`, id); err != nil {
			return model.Storage("deleting task tags", err)
		}
	}
	return nil
}
