package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("error open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error ping db: %w", err)
	}

	_, err = db.Exec(`
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at TEXT NOT NULL,
		any_failed INTEGER NOT NULL DEFAULT 0,
		report TEXT NOT NULL
	);
	`)
	if err != nil {
		return nil, fmt.Errorf("error creating runs table: %w", err)
	}

	_, err = db.Exec(`
	CREATE TABLE IF NOT EXISTS check_results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		server TEXT NOT NULL,
		record TEXT NOT NULL,
		expected_ip TEXT NOT NULL,
		actual_ip TEXT,
		outcome TEXT NOT NULL,
		failure TEXT,
		attempts INTEGER NOT NULL DEFAULT 1,
		duration_ms INTEGER NOT NULL DEFAULT 0
	);
	`)
	if err != nil {
		return nil, fmt.Errorf("error creating check_results table: %w", err)
	}

	return db, nil
}
