// Package sqlite implements store.Storage on top of a single SQLite file,
// using the pure-Go github.com/ncruces/go-sqlite3 driver so the module
// cross-compiles without cgo.
package sqlite

import (
	"context"
	"database/sql"
	"sync"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/gofrs/flock"

	"github.com/untoldecay/timetrack/internal/model"
	"github.com/untoldecay/timetrack/internal/store"
)

// SQLiteStorage implements store.Storage.
//
// The engine is single-writer by contract: one caller owns exclusive
// access for the duration of any operation. Two layers enforce this:
//
//   - mu, an in-process sync.Mutex, serializes calls within this process.
//   - fileLock, an on-disk flock, serializes calls across processes that
//     might otherwise both open the same database file.
type SQLiteStorage struct {
	db       *sql.DB
	path     string
	mu       sync.Mutex
	fileLock *flock.Flock
}

// Open opens (creating if necessary) the SQLite database at cfg.Path and
// applies the schema. cfg.Path may be ":memory:" for a private in-memory
// database, used throughout this module's tests.
func Open(ctx context.Context, cfg store.Config) (store.Storage, error) {
	connStr := cfg.Path
	if connStr == "" {
		return nil, model.InvalidInput("database path must not be empty")
	}

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, model.Storage("opening database", err)
	}
	db.SetMaxOpenConns(1) // single-writer contract; avoid SQLITE_BUSY entirely

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, model.Storage("applying schema", err)
	}

	s := &SQLiteStorage{db: db, path: connStr}
	if connStr != ":memory:" {
		s.fileLock = flock.New(connStr + ".lock")
	}
	return s, nil
}

func (s *SQLiteStorage) Close() error { return s.db.Close() }
func (s *SQLiteStorage) Path() string { return s.path }
func (s *SQLiteStorage) UnderlyingDB() *sql.DB { return s.db }

// withExclusive acquires the in-process mutex and, if configured, the
// on-disk flock, runs fn, then releases both. Every public Storage method
// funnels through this so the single-writer guarantee holds regardless of
// entry point.
func (s *SQLiteStorage) withExclusive(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fileLock != nil {
		locked, err := s.fileLock.TryLock()
		if err != nil {
			return model.Storage("acquiring file lock", err)
		}
		if !locked {
			return model.Conflict("database is held by another process")
		}
		defer func() { _ = s.fileLock.Unlock() }()
	}
	return fn()
}

// RunInTransaction executes fn atomically. The transaction opens with the
// driver's default (deferred) BEGIN; it runs inside withExclusive, so
// calls through this store never overlap.
func (s *SQLiteStorage) RunInTransaction(ctx context.Context, fn func(tx store.Transaction) error) error {
	return s.withExclusive(func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return model.Storage("beginning transaction", err)
		}
		committed := false
		defer func() {
			if !committed {
				_ = tx.Rollback()
			}
		}()

		txw := &sqlTx{tx: tx}
		if err := fn(txw); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return model.Storage("committing transaction", err)
		}
		committed = true
		return nil
	})
}

// sqlTx implements store.Transaction over a single *sql.Tx.
type sqlTx struct {
	tx *sql.Tx
}

func wrapExec(action string, err error) error {
	if err != nil {
		return model.Storage(action, err)
	}
	return nil
}
