package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const dbFile = "resterx.db"

// ensureSecureFile creates a file with secure permissions if it doesn't exist,
// or verifies/fixes permissions if it does exist. This prevents a TOCTOU race
// condition where the file could be created with insecure default permissions.
func ensureSecureFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, secureFileMode)
		if err != nil {
			return fmt.Errorf("failed to create secure file: %w", err)
		}
		return f.Close()
	}
	if err != nil {
		return fmt.Errorf("failed to stat file: %w", err)
	}

	if info.Mode().Perm() != secureFileMode {
		if err := os.Chmod(path, secureFileMode); err != nil {
			return fmt.Errorf("failed to set secure permissions: %w", err)
		}
	}
	return nil
}

// SQLiteKV persists keys in a single sqlite table
type SQLiteKV struct {
	db      *sql.DB
	dataDir string
}

// NewSQLiteKV opens (creating if needed) the database in dataDir
func NewSQLiteKV(dataDir string) (*SQLiteKV, error) {
	if err := ensureDataDir(dataDir); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dataDir, dbFile)
	if err := ensureSecureFile(dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	s := &SQLiteKV{db: db, dataDir: dataDir}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	if err := s.migrateFromJSON(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate json files: %w", err)
	}

	return s, nil
}

// Close closes the database connection
func (s *SQLiteKV) Close() error {
	return s.db.Close()
}

func (s *SQLiteKV) initSchema() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`)
	return err
}

func (s *SQLiteKV) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *SQLiteKV) Set(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value)
	return err
}

func (s *SQLiteKV) Delete(key string) error {
	_, err := s.db.Exec("DELETE FROM kv WHERE key = ?", key)
	return err
}

// migrateFromJSON imports values written by the json backend when the
// database is still empty, renaming each imported file to *.migrated.
func (s *SQLiteKV) migrateFromJSON() error {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM kv").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	files := &FileKV{dataDir: s.dataDir}
	for _, key := range Keys {
		value, ok, err := files.Get(key)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if err := s.Set(key, value); err != nil {
			return err
		}
		if err := os.Rename(files.path(key), files.path(key)+".migrated"); err != nil {
			return err
		}
	}
	return nil
}
