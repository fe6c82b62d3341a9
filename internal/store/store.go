// Package store defines the interface for the persistent task/time-event
// backend: a narrow Transaction interface for atomic multi-step writes,
// and a wider Storage interface for everything else.
package store

import (
	"context"
	"database/sql"

	"github.com/untoldecay/timetrack/internal/model"
)

// Transaction provides atomic multi-operation support within a single
// database transaction. Every task mutation runs its reads and writes
// through one Transaction so that no partial state is ever visible on
// failure.
//
// # SQLite specifics
//
//   - The transaction opens with the driver's default (deferred) BEGIN
//     while the store's exclusive guard is held, so transactions on one
//     store never overlap.
//   - If fn returns an error, the transaction rolls back; on nil it commits.
type Transaction interface {
	GetTask(ctx context.Context, id string) (*model.Task, error)
	InsertTask(ctx context.Context, t *model.Task) error
	UpdateTaskStatus(ctx context.Context, id string, status model.Status) error
	UpdateTaskParent(ctx context.Context, id string, parentID *string) error
	UpdateTaskTitle(ctx context.Context, id string, title string) error
	ArchiveTasks(ctx context.Context, ids []string, at int64) error
	DeleteTasks(ctx context.Context, ids []string) error
	NonArchivedChildren(ctx context.Context, parentID string) ([]*model.Task, error)
	RunningOrPausedTask(ctx context.Context, ids []string) (*model.Task, error)
	RunningTask(ctx context.Context) (*model.Task, error)

	AppendEvent(ctx context.Context, e *model.TimeEvent) (int64, error)
	LatestEvent(ctx context.Context, taskID string) (*model.TimeEvent, error)
	LatestFocusEvent(ctx context.Context) (*model.TimeEvent, error)
	DeleteEventsForTasks(ctx context.Context, taskIDs []string) error

	FindTagByName(ctx context.Context, name string) (*model.Tag, error)
	InsertTag(ctx context.Context, t *model.Tag) error
	LinkTag(ctx context.Context, taskID, tagID string, at int64) (bool, error)
	UnlinkTag(ctx context.Context, taskID, tagID string) (bool, error)
	PruneUnreferencedTags(ctx context.Context) error
	DeleteTaskTagsForTasks(ctx context.Context, taskIDs []string) error

	DemotePendingSuggestions(ctx context.Context, respondedAt int64) error
	InsertSuggestion(ctx context.Context, s *model.RestSuggestion) (int64, error)
	DeleteSuggestionsForTasks(ctx context.Context, taskIDs []string) error
	GetSuggestion(ctx context.Context, id int64) (*model.RestSuggestion, error)
	UpdateSuggestionResponse(ctx context.Context, id int64, status model.SuggestionStatus, respondedAt int64) error
}

// Storage is the full persistence surface of the engine.
type Storage interface {
	Transaction

	AllNonArchivedTasks(ctx context.Context) ([]*model.Task, error)
	TagNamesByTask(ctx context.Context) (map[string][]string, error)
	AllEventsOrdered(ctx context.Context, upTo int64) ([]*model.TimeEvent, error)
	EventsUpTo(ctx context.Context, upTo int64) ([]*model.TimeEvent, error)
	EventsInWindow(ctx context.Context, taskID string, from, to int64) ([]*model.TimeEvent, error)
	LatestPendingSuggestion(ctx context.Context) (*model.RestSuggestion, error)

	// RunInTransaction executes fn atomically. If fn returns nil the
	// transaction commits; any error rolls it back and propagates.
	RunInTransaction(ctx context.Context, fn func(tx Transaction) error) error

	Close() error
	Path() string
	UnderlyingDB() *sql.DB
}

// Config configures Open.
type Config struct {
	// Path is the SQLite database file path. ":memory:" opens a private
	// in-memory database, used throughout the test suite.
	Path string
}
