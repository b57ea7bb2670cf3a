// Package sqlite implements the repositories on a local SQLite database
// using the pure-Go modernc.org/sqlite driver.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/JonnyWalker81/patternlog/internal/repository"
)

// SchemaVersion is the current schema version of the database
const SchemaVersion = 1

// Open opens (or creates) the database at path and applies migrations
func Open(path string) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("open: empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("open: create db dir: %w", err)
	}

	dsn := "file:" + path + "?mode=rwc&_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open: sql open: %w", err)
	}
	db.SetMaxOpenConns(4)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open: ping: %w", err)
	}
	if err := Migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open: migrate: %w", err)
	}
	return db, nil
}

// NewStore opens the database at path and returns its repositories
func NewStore(path string) (*repository.Store, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	return &repository.Store{
		Observations: NewObservationRepository(db),
		Medications:  NewMedicationRepository(db),
		Intakes:      NewMedicationIntakeRepository(db),
		Entries:      NewEntryRepository(db),
		Close:        db.Close,
	}, nil
}

var migrations = []struct {
	name string
	stmt string
}{
	{"observations table", `
		CREATE TABLE IF NOT EXISTS observations (
			id TEXT PRIMARY KEY,
			ts INTEGER NOT NULL,
			category TEXT NOT NULL,
			pattern_type TEXT NOT NULL,
			intensity INTEGER NOT NULL DEFAULT 0,
			duration_minutes INTEGER NOT NULL DEFAULT 0,
			notes TEXT NULL,
			details TEXT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`},
	{"medications table", `
		CREATE TABLE IF NOT EXISTS medications (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			dosage TEXT NOT NULL DEFAULT '',
			active INTEGER NOT NULL DEFAULT 1,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`},
	{"medication_intakes table", `
		CREATE TABLE IF NOT EXISTS medication_intakes (
			id TEXT PRIMARY KEY,
			ts INTEGER NOT NULL,
			medication_id TEXT NOT NULL,
			taken INTEGER NOT NULL,
			effectiveness INTEGER NOT NULL DEFAULT 0,
			mood INTEGER NOT NULL DEFAULT 0,
			energy_level INTEGER NOT NULL DEFAULT 0,
			side_effects_note TEXT NULL,
			skip_reason TEXT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			FOREIGN KEY(medication_id) REFERENCES medications(id)
		);`},
	{"idx_observations_ts", `CREATE INDEX IF NOT EXISTS idx_observations_ts ON observations(ts, id);`},
	{"idx_medication_intakes_ts", `CREATE INDEX IF NOT EXISTS idx_medication_intakes_ts ON medication_intakes(ts, id);`},
}

// Migrate ensures the schema exists and is at SchemaVersion
func Migrate(db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("migrate: db is nil")
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (version INTEGER PRIMARY KEY);`); err != nil {
		return fmt.Errorf("migrate: create schema_migrations: %w", err)
	}

	var current int
	if err := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations;`).Scan(&current); err != nil {
		return fmt.Errorf("migrate: read current version: %w", err)
	}
	if current >= SchemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("migrate: begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, m := range migrations {
		if _, err := tx.Exec(m.stmt); err != nil {
			return fmt.Errorf("migrate: create %s: %w", m.name, err)
		}
	}

	if _, err := tx.Exec(`INSERT INTO schema_migrations(version) VALUES (?);`, SchemaVersion); err != nil {
		return fmt.Errorf("migrate: record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("migrate: commit transaction: %w", err)
	}
	return nil
}

// Timestamps are stored as unix nanoseconds so range scans use the index;
// bookkeeping columns are RFC 3339 text.

func toUnix(t time.Time) int64 {
	return t.UnixNano()
}

func fromUnix(n int64) time.Time {
	return time.Unix(0, n).UTC()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// scanner is the Scan method shared by *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}
