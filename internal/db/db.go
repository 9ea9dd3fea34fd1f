package db

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Init opens the database at path and ensures the schema exists.
func Init(path string) (*sql.DB, error) {
	if err := ensureDirectory(path); err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)
	database, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database at %s: %w", path, err)
	}

	if err = database.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	enableWAL(database)
	if _, err := database.Exec("PRAGMA foreign_keys = ON"); err != nil {
		log.Printf("⚠️  Could not enable foreign keys: %v", err)
	}

	if err = CreateSchema(database); err != nil {
		return nil, err
	}
	return database, nil
}

func ensureDirectory(path string) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create database directory %s: %w", dir, err)
		}
	}
	return nil
}

func enableWAL(database *sql.DB) {
	if _, err := database.Exec("PRAGMA journal_mode=WAL"); err != nil {
		log.Printf("⚠️  Could not enable WAL mode: %v", err)
	}
}

// CreateSchema creates all tables. Also used by package tests against
// in-memory databases.
func CreateSchema(database *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS domains (
		id                 INTEGER PRIMARY KEY AUTOINCREMENT,
		hostname           TEXT NOT NULL UNIQUE,
		ssl_danger         INTEGER,
		ssl_warning        INTEGER,
		domain_danger      INTEGER,
		domain_warning     INTEGER,
		monitor_ssl        INTEGER DEFAULT 1,
		monitor_domain     INTEGER DEFAULT 1,
		notify_on_warning  INTEGER DEFAULT 1,
		notify_on_critical INTEGER DEFAULT 1,
		created_at         DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_domains_hostname ON domains(hostname);

	CREATE TABLE IF NOT EXISTS check_history (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		domain_id      INTEGER NOT NULL,
		run_id         TEXT NOT NULL,
		ssl_days       INTEGER,
		domain_days    INTEGER,
		ssl_status     TEXT NOT NULL,
		domain_status  TEXT NOT NULL,
		overall_status TEXT NOT NULL,
		checked_at     DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (domain_id) REFERENCES domains(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_history_domain ON check_history(domain_id);
	CREATE INDEX IF NOT EXISTS idx_history_checked ON check_history(checked_at);
	CREATE INDEX IF NOT EXISTS idx_history_run ON check_history(run_id);

	CREATE TABLE IF NOT EXISTS notification_channels (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		name         TEXT NOT NULL,
		channel_type TEXT NOT NULL,
		config_json  TEXT NOT NULL,
		enabled      INTEGER DEFAULT 1,
		created_at   DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at   DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`

	if _, err := database.Exec(schema); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}
