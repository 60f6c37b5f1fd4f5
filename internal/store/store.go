// Package store implements plugin.Store on SQLite (modernc.org/sqlite, no
// cgo). Modules own their tables through versioned migrations recorded in a
// shared _migrations table.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/pkg/plugin"
	"golang.org/x/mod/semver"
	_ "modernc.org/sqlite"
)

// ErrNewerSchema is returned when the database was last opened by a newer
// binary than the one running.
var ErrNewerSchema = errors.New("database was written by a newer alzheon release")

var _ plugin.Store = (*SQLiteStore)(nil)

// Querier is satisfied by both *sql.DB and *sql.Tx so repository methods
// can run standalone or inside a transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLiteStore is the shared database handle.
type SQLiteStore struct {
	db       *sql.DB
	migrate  sync.Mutex
	initOnce sync.Once
	initErr  error
}

var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA busy_timeout=5000",
	"PRAGMA synchronous=NORMAL",
	"PRAGMA foreign_keys=ON",
}

// New opens or creates the database at path. ":memory:" is accepted for
// tests.
func New(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}
	// One writer; WAL lets readers proceed. Also keeps ":memory:" on a single
	// connection so every query sees the same database.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite %q: %w", path, err)
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec %q: %w", p, err)
		}
	}
	return &SQLiteStore{db: db}, nil
}

// DB returns the underlying handle.
func (s *SQLiteStore) DB() *sql.DB { return s.db }

// Close closes the database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

// Tx runs fn in a transaction, committing on nil and rolling back otherwise.
func (s *SQLiteStore) Tx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback: %v (cause: %w)", rbErr, err)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Migrate applies the module's pending migrations in order. Each migration
// runs in its own transaction together with its _migrations record.
func (s *SQLiteStore) Migrate(ctx context.Context, module string, migrations []plugin.Migration) error {
	if err := s.bootstrap(ctx); err != nil {
		return err
	}

	s.migrate.Lock()
	defer s.migrate.Unlock()

	for _, m := range migrations {
		var n int
		if err := s.db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM _migrations WHERE module = ? AND version = ?",
			module, m.Version,
		).Scan(&n); err != nil {
			return fmt.Errorf("check migration %s/%d: %w", module, m.Version, err)
		}
		if n > 0 {
			continue
		}

		err := s.Tx(ctx, func(tx *sql.Tx) error {
			if err := m.Up(tx); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx,
				"INSERT INTO _migrations (module, version, description) VALUES (?, ?, ?)",
				module, m.Version, m.Description)
			return err
		})
		if err != nil {
			return fmt.Errorf("migration %s/%d (%s): %w", module, m.Version, m.Description, err)
		}
	}
	return nil
}

// CheckVersion refuses to run an older binary against a database last
// opened by a newer one, and records the running version otherwise. "dev"
// always passes.
func (s *SQLiteStore) CheckVersion(ctx context.Context, current string) error {
	if err := s.bootstrap(ctx); err != nil {
		return err
	}

	var stored string
	err := s.db.QueryRowContext(ctx, "SELECT app_version FROM _schema_meta WHERE id = 1").Scan(&stored)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return s.recordVersion(ctx, current)
	case err != nil:
		return fmt.Errorf("read schema version: %w", err)
	}

	if stored == "dev" || current == "dev" {
		return s.recordVersion(ctx, current)
	}

	cmp := semver.Compare(canonical(current), canonical(stored))
	if cmp < 0 {
		return fmt.Errorf("%w: database=%s binary=%s", ErrNewerSchema, stored, current)
	}
	if cmp > 0 {
		return s.recordVersion(ctx, current)
	}
	return nil
}

func (s *SQLiteStore) recordVersion(ctx context.Context, v string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO _schema_meta (id, app_version, updated_at) VALUES (1, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET app_version = excluded.app_version, updated_at = CURRENT_TIMESTAMP`,
		v)
	if err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	return nil
}

// bootstrap creates the bookkeeping tables once per store.
func (s *SQLiteStore) bootstrap(ctx context.Context) error {
	s.initOnce.Do(func() {
		_, s.initErr = s.db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS _migrations (
				module      TEXT     NOT NULL,
				version     INTEGER  NOT NULL,
				description TEXT     NOT NULL,
				applied_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
				PRIMARY KEY (module, version)
			);
			CREATE TABLE IF NOT EXISTS _schema_meta (
				id          INTEGER  PRIMARY KEY CHECK (id = 1),
				app_version TEXT     NOT NULL,
				updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			);`)
		if s.initErr != nil {
			s.initErr = fmt.Errorf("create bookkeeping tables: %w", s.initErr)
		}
	})
	return s.initErr
}

func canonical(v string) string {
	if v != "" && v[0] != 'v' {
		return "v" + v
	}
	return v
}
