package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/untoldecay/timetrack/internal/model"
)

// encodePayload serializes a recognized-key payload as a JSON object in
// the payload TEXT column; nil and empty payloads store as NULL.
func encodePayload(p map[string]string) (sql.NullString, error) {
	if len(p) == 0 {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return sql.NullString{}, model.Storage("serializing event payload", err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func decodePayload(s sql.NullString) (map[string]string, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	var p map[string]string
	if err := json.Unmarshal([]byte(s.String), &p); err != nil {
		return nil, model.Storage("parsing event payload", err)
	}
	return p, nil
}

func scanEvent(row interface {
	Scan(dest ...interface{}) error
}) (*model.TimeEvent, error) {
	var e model.TimeEvent
	var payload sql.NullString
	if err := row.Scan(&e.ID, &e.TaskID, &e.EventType, &e.Ts, &payload); err != nil {
		return nil, err
	}
	p, err := decodePayload(payload)
	if err != nil {
		return nil, err
	}
	e.Payload = p
	return &e, nil
}

func (tx *sqlTx) AppendEvent(ctx context.Context, e *model.TimeEvent) (int64, error) {
	payload, err := encodePayload(e.Payload)
	if err != nil {
		return 0, err
	}
	res, err := tx.tx.ExecContext(ctx, `
		INSERT INTO time_events (task_id, event_type, ts, payload)
		VALUES (?, ?, ?, ?)`, e.TaskID, e.EventType, e.Ts, payload)
	if err != nil {
		return 0, model.Storage("appending time event", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, model.Storage("reading inserted event id", err)
	}
	return id, nil
}

// LatestEvent returns the most recent event for taskID by (ts desc, id
// desc), the canonical event order.
func (tx *sqlTx) LatestEvent(ctx context.Context, taskID string) (*model.TimeEvent, error) {
	row := tx.tx.QueryRowContext(ctx, `
		SELECT id, task_id, event_type, ts, payload
		FROM time_events WHERE task_id = ?
		ORDER BY ts DESC, id DESC LIMIT 1`, taskID)
	e, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, model.Storage("reading latest event", err)
	}
	return e, nil
}

// LatestFocusEvent returns the most recent start/resume event across all
// tasks — the "previous focus task" that start/resume compare against
// before firing a task-switch advisory.
func (tx *sqlTx) LatestFocusEvent(ctx context.Context) (*model.TimeEvent, error) {
	row := tx.tx.QueryRowContext(ctx, `
		SELECT id, task_id, event_type, ts, payload
		FROM time_events WHERE event_type IN ('start','resume')
		ORDER BY ts DESC, id DESC LIMIT 1`)
	e, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, model.Storage("reading latest focus event", err)
	}
	return e, nil
}

func (tx *sqlTx) DeleteEventsForTasks(ctx context.Context, taskIDs []string) error {
	for _, id := range taskIDs {
		if _, err := tx.tx.ExecContext(ctx, `DELETE FROM time_events WHERE task_id = ?`, id); err != nil {
			return model.Storage("deleting time events", err)
		}
	}
	return nil
}
