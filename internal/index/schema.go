// Package index stores published result sets in SQLite, with optional FTS5
// full-text search over record bodies.
package index

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// files.checksum is the last content seen for a path, parsed or not.
// published_checksum and revision only move when a parse succeeds.
const coreSchemaSQL = `
CREATE TABLE IF NOT EXISTS files (
	path               TEXT PRIMARY KEY,
	checksum           TEXT NOT NULL DEFAULT '',
	published_checksum TEXT NOT NULL DEFAULT '',
	revision           TEXT NOT NULL DEFAULT '',
	encoding           TEXT NOT NULL DEFAULT '',
	families           INTEGER NOT NULL DEFAULT 0,
	individuals        INTEGER NOT NULL DEFAULT 0,
	sources            INTEGER NOT NULL DEFAULT 0,
	others             INTEGER NOT NULL DEFAULT 0,
	error_kind         TEXT NOT NULL DEFAULT '',
	last_error         TEXT NOT NULL DEFAULT '',
	published_at       DATETIME,
	updated_at         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS records (
	path            TEXT NOT NULL,
	kind            TEXT NOT NULL,
	seq             INTEGER NOT NULL,
	xref            TEXT NOT NULL,
	given_name      TEXT NOT NULL DEFAULT '',
	surname         TEXT NOT NULL DEFAULT '',
	display_name    TEXT NOT NULL DEFAULT '',
	husband_surname TEXT NOT NULL DEFAULT '',
	wife_surname    TEXT NOT NULL DEFAULT '',
	body            TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (path, kind, seq)
);

CREATE INDEX IF NOT EXISTS idx_records_xref ON records(path, xref);
CREATE INDEX IF NOT EXISTS idx_records_surname ON records(surname);
`

// DB wraps a sql.DB with index-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("index: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: ping: %w", err)
	}
	if _, err := conn.Exec(coreSchemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply core schema: %w", err)
	}
	if err := initFTS(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply fts schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping checks that the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}
