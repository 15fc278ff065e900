package storage

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// DB is the SQLite cache of imported city datasets.
type DB struct {
	*sql.DB
	path   string
	logger *slog.Logger
}

// Open opens the dataset cache at path, creating the file and its parent
// directory when missing, and brings the schema up to date.
func Open(path string, logger *slog.Logger) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	params := url.Values{}
	params.Set("_journal_mode", "WAL")
	params.Set("_busy_timeout", "5000")
	params.Set("_foreign_keys", "on")
	sqlDB, err := sql.Open("sqlite3", "file:"+path+"?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("open dataset cache %s: %w", path, err)
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("open dataset cache %s: %w", path, err)
	}

	db := &DB{DB: sqlDB, path: path, logger: logger}
	version, err := db.upgradeSchema()
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("upgrade schema of %s: %w", path, err)
	}

	logger.Debug("dataset cache ready", "path", path, "schema_version", version)
	return db, nil
}

// Path returns the database file location.
func (db *DB) Path() string {
	return db.path
}

// Close checkpoints the write-ahead log into the main file and closes the
// database.
func (db *DB) Close() error {
	if _, err := db.Exec(`PRAGMA wal_checkpoint(TRUNCATE)`); err != nil {
		db.logger.Warn("wal checkpoint failed", "path", db.path, "error", err)
	}
	return db.DB.Close()
}
