package sqlite

// schema is applied on every Open with CREATE TABLE/INDEX IF NOT EXISTS
// statements, so opening an existing database is always safe.
const schema = `
PRAGMA foreign_keys = ON;

CREATE TABLE IF NOT EXISTS tasks (
    id          TEXT PRIMARY KEY,
    parent_id   TEXT REFERENCES tasks(id),
    title       TEXT NOT NULL CHECK(length(title) > 0),
    status      TEXT NOT NULL DEFAULT 'idle',
    created_at  INTEGER NOT NULL,
    archived_at INTEGER
);

CREATE INDEX IF NOT EXISTS idx_tasks_parent_id ON tasks(parent_id);
CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);

CREATE TABLE IF NOT EXISTS tags (
    id   TEXT PRIMARY KEY,
    name TEXT NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_tags_name_lower ON tags(LOWER(name));

CREATE TABLE IF NOT EXISTS task_tags (
    task_id    TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
    tag_id     TEXT NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
    created_at INTEGER NOT NULL,
    PRIMARY KEY (task_id, tag_id)
);

CREATE INDEX IF NOT EXISTS idx_task_tags_task ON task_tags(task_id);
CREATE INDEX IF NOT EXISTS idx_task_tags_tag ON task_tags(tag_id);

CREATE TABLE IF NOT EXISTS time_events (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    task_id    TEXT NOT NULL REFERENCES tasks(id),
    event_type TEXT NOT NULL,
    ts         INTEGER NOT NULL,
    payload    TEXT
);

CREATE INDEX IF NOT EXISTS idx_time_events_task_ts_id ON time_events(task_id, ts, id);
CREATE INDEX IF NOT EXISTS idx_time_events_ts_id ON time_events(ts, id);

CREATE TABLE IF NOT EXISTS rest_suggestions (
    id                 INTEGER PRIMARY KEY AUTOINCREMENT,
    trigger_type       TEXT NOT NULL,
    task_id            TEXT REFERENCES tasks(id),
    focus_seconds      INTEGER NOT NULL,
    switch_count_30m   INTEGER NOT NULL,
    deviation_ratio    REAL NOT NULL,
    suggested_minutes  INTEGER NOT NULL,
    reasons            TEXT NOT NULL,
    status             TEXT NOT NULL DEFAULT 'pending',
    created_at         INTEGER NOT NULL,
    responded_at       INTEGER
);

CREATE INDEX IF NOT EXISTS idx_rest_suggestions_status_created
    ON rest_suggestions(status, created_at DESC, id DESC);
`
