package credentials

import (
	"context"
	"database/sql"
	stderrors "errors"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"git.home.luguber.info/inful/restyaboard/internal/foundation/errors"
)

// DatabaseFile is the state file name inside the state directory.
const DatabaseFile = "state.db"

// SQLiteStore implements Store on a single-table SQLite database.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// OpenStateDir opens (creating if needed) the store at <dir>/state.db.
func OpenStateDir(dir string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.FileSystemError("could not create state directory").
			WithCause(err).
			WithContext("path", dir).
			Build()
	}
	return NewSQLiteStore(filepath.Join(dir, DatabaseFile))
}

// NewSQLiteStore opens a store. Use ":memory:" for an in-memory database.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.StorageError("could not open credential database").
			WithCause(err).
			WithContext("path", dbPath).
			Build()
	}
	// One connection keeps ":memory:" databases shared across calls.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, errors.StorageError("failed to initialize credential schema").
			WithCause(err).
			WithContext("path", dbPath).
			Build()
	}
	return store, nil
}

func (s *SQLiteStore) initialize() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`)
	return err
}

// Get returns the value stored under key, or "" when absent.
func (s *SQLiteStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if stderrors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", errors.StorageError("failed to read credential").
			WithCause(err).
			WithContext("key", key).
			Build()
	}
	return value, nil
}

// Set upserts key.
func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		return errors.StorageError("failed to write credential").
			WithCause(err).
			WithContext("key", key).
			Build()
	}
	return nil
}

// Delete removes key; deleting a missing key is not an error.
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key); err != nil {
		return errors.StorageError("failed to delete credential").
			WithCause(err).
			WithContext("key", key).
			Build()
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
