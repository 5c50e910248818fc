package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database holding the latest converted graph and the
// history of conversion runs.
type DB struct {
	conn *sql.DB
	Path string
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id               TEXT PRIMARY KEY,
	source           TEXT NOT NULL,
	created_at       INTEGER NOT NULL,
	row_count        INTEGER NOT NULL DEFAULT 0,
	node_count       INTEGER NOT NULL,
	edge_count       INTEGER NOT NULL,
	provenance_count INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS nodes (
	id       INTEGER PRIMARY KEY,
	name     TEXT NOT NULL,
	type     TEXT NOT NULL,
	category TEXT,
	run_id   TEXT NOT NULL REFERENCES runs(id),
	UNIQUE (name, type)
);
CREATE TABLE IF NOT EXISTS node_titles (
	node_id  INTEGER NOT NULL REFERENCES nodes(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	title    TEXT NOT NULL,
	PRIMARY KEY (node_id, position)
);
CREATE TABLE IF NOT EXISTS node_dois (
	node_id  INTEGER NOT NULL REFERENCES nodes(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	doi      TEXT NOT NULL,
	PRIMARY KEY (node_id, position)
);
CREATE TABLE IF NOT EXISTS edges (
	seq       INTEGER PRIMARY KEY,
	source_id INTEGER NOT NULL REFERENCES nodes(id) ON DELETE CASCADE,
	target_id INTEGER NOT NULL REFERENCES nodes(id) ON DELETE CASCADE,
	relation  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_edges_source ON edges(source_id);
CREATE INDEX IF NOT EXISTS idx_edges_target ON edges(target_id);
CREATE INDEX IF NOT EXISTS idx_nodes_type ON nodes(type);
`

// OpenDB opens a SQLite database with WAL mode and foreign keys enabled and
// makes sure the schema exists.
func OpenDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// One connection: pragmas are per-connection and sqlite has one writer.
	conn.SetMaxOpenConns(1)

	// Enable WAL mode for concurrent reads
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	// Enable foreign keys
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	return &DB{conn: conn, Path: path}, nil
}

// Close closes the database connection
func (d *DB) Close() error {
	return d.conn.Close()
}

