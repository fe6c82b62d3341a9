package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/untoldecay/timetrack/internal/model"
)

func encodeReasons(r []string) (string, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return "", model.Storage("serializing reasons", err)
	}
	return string(b), nil
}

func decodeReasons(s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	var r []string
	if err := json.Unmarshal([]byte(s), &r); err != nil {
		return nil, model.Storage("parsing reasons", err)
	}
	return r, nil
}

func scanSuggestion(row interface {
	Scan(dest ...interface{}) error
}) (*model.RestSuggestion, error) {
	var s model.RestSuggestion
	var taskID sql.NullString
	var reasons string
	var respondedAt sql.NullInt64
	if err := row.Scan(&s.ID, &s.TriggerType, &taskID, &s.FocusSeconds, &s.SwitchCount30m,
		&s.DeviationRatio, &s.SuggestedMinutes, &reasons, &s.Status, &s.CreatedAt, &respondedAt); err != nil {
		return nil, err
	}
	if taskID.Valid {
		s.TaskID = &taskID.String
	}
	if respondedAt.Valid {
		s.RespondedAt = &respondedAt.Int64
	}
	r, err := decodeReasons(reasons)
	if err != nil {
		return nil, err
	}
	s.Reasons = r
	return &s, nil
}

const suggestionCols = `id, trigger_type, task_id, focus_seconds, switch_count_30m,
	deviation_ratio, suggested_minutes, reasons, status, created_at, responded_at`

// DemotePendingSuggestions flips every currently-pending row to ignored.
// At most one row may be pending, so this runs before a new pending row
// is inserted.
func (tx *sqlTx) DemotePendingSuggestions(ctx context.Context, respondedAt int64) error {
	_, err := tx.tx.ExecContext(ctx, `
		UPDATE rest_suggestions SET status = 'ignored', responded_at = ?
		WHERE status = 'pending'`, respondedAt)
	return wrapExec("demoting pending suggestions", err)
}

func (tx *sqlTx) InsertSuggestion(ctx context.Context, s *model.RestSuggestion) (int64, error) {
	reasons, err := encodeReasons(s.Reasons)
	if err != nil {
		return 0, err
	}
	res, err := tx.tx.ExecContext(ctx, `
		INSERT INTO rest_suggestions
			(trigger_type, task_id, focus_seconds, switch_count_30m, deviation_ratio,
			 suggested_minutes, reasons, status, created_at, responded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.TriggerType, s.TaskID, s.FocusSeconds, s.SwitchCount30m, s.DeviationRatio,
		s.SuggestedMinutes, reasons, s.Status, s.CreatedAt, s.RespondedAt)
	if err != nil {
		return 0, model.Storage("inserting rest suggestion", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, model.Storage("reading inserted suggestion id", err)
	}
	return id, nil
}

func (tx *sqlTx) DeleteSuggestionsForTasks(ctx context.Context, taskIDs []string) error {
	for _, id := range taskIDs {
		if _, err := tx.tx.ExecContext(ctx, `DELETE FROM rest_suggestions WHERE task_id = ?`, id); err != nil {
			return model.Storage("deleting rest suggestions", err)
		}
	}
	return nil
}

func (tx *sqlTx) GetSuggestion(ctx context.Context, id int64) (*model.RestSuggestion, error) {
	row := tx.tx.QueryRowContext(ctx, `SELECT `+suggestionCols+` FROM rest_suggestions WHERE id = ?`, id)
	s, err := scanSuggestion(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, model.Storage("reading rest suggestion", err)
	}
	return s, nil
}

func (tx *sqlTx) UpdateSuggestionResponse(ctx context.Context, id int64, status model.SuggestionStatus, respondedAt int64) error {
	_, err := tx.tx.ExecContext(ctx, `
		UPDATE rest_suggestions SET status = ?, responded_at = ? WHERE id = ?`,
		status, respondedAt, id)
	return wrapExec("updating rest suggestion", err)
}
