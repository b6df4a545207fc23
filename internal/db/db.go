// Package db provides SQLite database access for Scribe.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/scribe-bot/scribe/internal/logging"
)

// DB wraps the SQL connection pool with schema management.
type DB struct {
	*sql.DB
	logger zerolog.Logger
}

// Open opens (creating if needed) the database at the given path.
func Open(path string) (*DB, error) {
	if path == "" {
		return nil, fmt.Errorf("database path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}
	return open(path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)")
}

// OpenInMemory opens an in-memory database, used in tests.
func OpenInMemory() (*DB, error) {
	return open("file::memory:?cache=shared&_pragma=foreign_keys(ON)")
}

func open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A single connection keeps in-memory databases coherent and
	// sidesteps SQLITE_BUSY under concurrent writers.
	conn.SetMaxOpenConns(1)
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{
		DB:     conn,
		logger: logging.Component("db"),
	}, nil
}

// migrations are applied in order; the schema_version table records
// the last applied index.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS submissions (
		id TEXT PRIMARY KEY,
		template_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		created_at TEXT NOT NULL,
		fields_json TEXT NOT NULL,
		rendered_text TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_submissions_user ON submissions(user_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		timestamp TEXT NOT NULL,
		type TEXT NOT NULL,
		entity_type TEXT NOT NULL,
		entity_id TEXT NOT NULL,
		payload_json TEXT,
		metadata_json TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_events_entity ON events(entity_type, entity_id, timestamp)`,
}

// MigrateUp applies pending migrations, returning how many ran.
func (d *DB) MigrateUp(ctx context.Context) (int, error) {
	if _, err := d.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return 0, fmt.Errorf("create schema_version: %w", err)
	}

	var version int
	row := d.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_version`)
	if err := row.Scan(&version); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}

	applied := 0
	for i := version; i < len(migrations); i++ {
		if _, err := d.ExecContext(ctx, migrations[i]); err != nil {
			return applied, fmt.Errorf("apply migration %d: %w", i+1, err)
		}
		if _, err := d.ExecContext(ctx, `INSERT INTO schema_version (version) VALUES (?)`, i+1); err != nil {
			return applied, fmt.Errorf("record migration %d: %w", i+1, err)
		}
		applied++
	}

	if applied > 0 {
		d.logger.Debug().Int("applied", applied).Msg("database migrations applied")
	}
	return applied, nil
}
