package audit

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	// registers the "sqlite" driver
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS tool_invocations (
	id          TEXT PRIMARY KEY,
	tool        TEXT NOT NULL,
	model       TEXT NOT NULL DEFAULT '',
	ok          INTEGER NOT NULL,
	message     TEXT NOT NULL,
	duration_ms INTEGER NOT NULL,
	created_at  TEXT NOT NULL
)`

// timeLayout has fixed-width fractions so text order matches time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// SQLiteStore is a Store backed by a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens the database at dsn (a file: URI or ":memory:").
func OpenSQLite(ctx context.Context, dsn string) (*SQLiteStore, error) {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	if dsn != ":memory:" {
		dsn += sep + "_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite audit store")
	}
	if strings.Contains(dsn, ":memory:") {
		// every connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "ping sqlite audit store")
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "create audit table")
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Record(ctx context.Context, e Entry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tool_invocations (id, tool, model, ok, message, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID.String(), e.Tool, e.Model, e.OK, e.Message,
		e.Duration.Milliseconds(), e.CreatedAt.UTC().Format(timeLayout))
	return errors.Wrap(err, "insert audit entry")
}

// Recent returns the newest entries first.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, tool, model, ok, message, duration_ms, created_at
		 FROM tool_invocations ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "query audit entries")
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e          Entry
			id, ts     string
			durationMS int64
		)
		if err := rows.Scan(&id, &e.Tool, &e.Model, &e.OK, &e.Message, &durationMS, &ts); err != nil {
			return nil, errors.Wrap(err, "scan audit entry")
		}
		if e.ID, err = uuid.Parse(id); err != nil {
			return nil, errors.Wrapf(err, "parse audit id %q", id)
		}
		if e.CreatedAt, err = time.Parse(timeLayout, ts); err != nil {
			return nil, errors.Wrapf(err, "parse audit time %q", ts)
		}
		e.Duration = time.Duration(durationMS) * time.Millisecond
		out = append(out, e)
	}
	return out, errors.Wrap(rows.Err(), "iterate audit entries")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
