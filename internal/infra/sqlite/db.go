// Package sqlite persists user profiles in a local SQLite database.
// It implements domain.ProfileStore with one users row per username and child
// tables for badges, goals and savings entries.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// FileName is the database file created inside the data directory.
const FileName = "finquest.db"

// DB wraps the SQLite handle.
type DB struct {
	db *sql.DB
}

// Open opens (or creates) dir/finquest.db and applies migrations.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	dsn := "file:" + filepath.Join(dir, FileName) +
		"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// SQLite has a single writer.
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	d := &DB{db: sqlDB}
	if err := d.migrate(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return d, nil
}

// Close closes the database handle.
func (d *DB) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

func (d *DB) migrate() error {
	for _, stmt := range Migrations() {
		if _, err := d.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// ─── Schema ─────────────────────────────────────────────────────────────────

// Migrations returns the schema statements.
// Each string is a single SQL statement (SQLite executes one at a time).
func Migrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS users (
			username             TEXT PRIMARY KEY,
			credential           TEXT NOT NULL,
			points               INTEGER NOT NULL DEFAULT 0,
			correct_quiz_answers INTEGER NOT NULL DEFAULT 0,
			created_at           TEXT NOT NULL
		)`,

		// Badges in award order
		`CREATE TABLE IF NOT EXISTS user_badges (
			username TEXT NOT NULL REFERENCES users(username) ON DELETE CASCADE,
			badge    TEXT NOT NULL,
			position INTEGER NOT NULL,
			PRIMARY KEY (username, badge)
		)`,

		// Goals; amounts are decimal strings
		`CREATE TABLE IF NOT EXISTS goals (
			id         TEXT PRIMARY KEY,
			username   TEXT NOT NULL REFERENCES users(username) ON DELETE CASCADE,
			position   INTEGER NOT NULL,
			name       TEXT NOT NULL,
			target     TEXT NOT NULL,
			saved      TEXT NOT NULL DEFAULT '0',
			completed  INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_goals_user ON goals(username, position)`,

		// Append-only savings history
		`CREATE TABLE IF NOT EXISTS savings_entries (
			id         TEXT PRIMARY KEY,
			username   TEXT NOT NULL REFERENCES users(username) ON DELETE CASCADE,
			position   INTEGER NOT NULL,
			amount     TEXT NOT NULL,
			entry_date TEXT NOT NULL,
			goal_id    TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_savings_user ON savings_entries(username, position)`,
	}
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() {
	case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
		return true
	}
	return false
}
