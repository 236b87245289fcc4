package sqlite

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver
)

const createEmployeesTable = `
CREATE TABLE IF NOT EXISTS employees (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    first_name TEXT NOT NULL,
    last_name TEXT NOT NULL,
    email TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL DEFAULT (CURRENT_TIMESTAMP),
    updated_at TEXT NOT NULL DEFAULT (CURRENT_TIMESTAMP)
);
`

// Open opens (or creates) the SQLite database at path and applies the schema.
// A single connection is kept so that ":memory:" databases survive between queries.
func Open(path string) (*sql.DB, error) {
	dtb, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %s: %w", path, err)
	}
	dtb.SetMaxOpenConns(1)

	if err = dtb.Ping(); err != nil {
		_ = dtb.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	// journal_mode is not supported for in-memory databases
	_, _ = dtb.Exec(`PRAGMA journal_mode=WAL`)
	if _, err = dtb.Exec(`PRAGMA busy_timeout=5000`); err != nil {
		_ = dtb.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if err = Migrate(dtb); err != nil {
		_ = dtb.Close()
		return nil, err
	}

	return dtb, nil
}

// Migrate creates the employees table if it does not exist.
func Migrate(dtb *sql.DB) error {
	if _, err := dtb.Exec(createEmployeesTable); err != nil {
		return fmt.Errorf("failed to create employees table: %w", err)
	}

	return nil
}
