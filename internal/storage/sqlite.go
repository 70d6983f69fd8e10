package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// seenAtLayout has fixed-width fractional seconds so MIN/MAX over the text
// column order chronologically.
const seenAtLayout = "2006-01-02T15:04:05.000000Z07:00"

// SQLiteStore implements Store backed by a SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	ownsDB bool

	// Prepared statements
	insertSeen *sql.Stmt
	findSeen   *sql.Stmt
}

// OpenSQLite opens (creating if needed) the database file at path, runs
// migrations, and returns a store that closes the database on Close.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path not set")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := NewMigrationRunner(db).Run(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	store, err := NewSQLiteStore(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create store: %w", err)
	}
	store.ownsDB = true
	return store, nil
}

// NewSQLiteStore creates a new SQLiteStore from an already-opened and
// migrated database. The pool is limited to a single connection so reads
// and writes from concurrent callers are serialized.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	db.SetMaxOpenConns(1)
	s := &SQLiteStore{db: db}

	if err := s.prepareStatements(); err != nil {
		return nil, fmt.Errorf("prepare statements: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.insertSeen, err = s.db.Prepare(`
		INSERT OR IGNORE INTO seen_messages (id, seen_at) VALUES (?, ?)
	`)
	if err != nil {
		return err
	}

	s.findSeen, err = s.db.Prepare(`
		SELECT id, seen_at FROM seen_messages WHERE id = ? LIMIT 1
	`)
	if err != nil {
		return err
	}

	return nil
}

// Has reports whether id has been recorded.
func (s *SQLiteStore) Has(ctx context.Context, id string) (bool, error) {
	_, err := s.Find(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Find retrieves a single seen message by exact ID.
func (s *SQLiteStore) Find(ctx context.Context, id string) (*SeenMessage, error) {
	var m SeenMessage
	var tsStr string

	err := s.findSeen.QueryRowContext(ctx, id).Scan(&m.ID, &tsStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("message %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("find seen message: %w", err)
	}

	m.SeenAt, _ = parseTimestamp(tsStr)
	return &m, nil
}

// Insert records id. Inserting an ID that already exists is a no-op.
func (s *SQLiteStore) Insert(ctx context.Context, id string) error {
	ts := time.Now().UTC().Format(seenAtLayout)
	if _, err := s.insertSeen.ExecContext(ctx, id, ts); err != nil {
		return fmt.Errorf("insert seen message: %w", err)
	}
	return nil
}

// Stats returns aggregate statistics about the database.
func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{Driver: DriverSQLite}

	version, err := NewMigrationRunner(s.db).Version(ctx)
	if err != nil {
		return nil, fmt.Errorf("schema version: %w", err)
	}
	stats.SchemaVersion = version

	err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM seen_messages").Scan(&stats.TotalSeen)
	if err != nil {
		return nil, fmt.Errorf("count seen messages: %w", err)
	}

	// Oldest and newest (handle empty DB)
	if stats.TotalSeen > 0 {
		var oldestStr, newestStr string
		err = s.db.QueryRowContext(ctx, "SELECT MIN(seen_at), MAX(seen_at) FROM seen_messages").Scan(&oldestStr, &newestStr)
		if err != nil {
			return nil, fmt.Errorf("seen time range: %w", err)
		}
		stats.OldestSeen, _ = parseTimestamp(oldestStr)
		stats.NewestSeen, _ = parseTimestamp(newestStr)
	}

	return stats, nil
}

// Close releases all prepared statements. The underlying *sql.DB is only
// closed when the store was created by OpenSQLite.
func (s *SQLiteStore) Close() error {
	for _, stmt := range []*sql.Stmt{s.insertSeen, s.findSeen} {
		if stmt != nil {
			stmt.Close()
		}
	}
	if s.ownsDB {
		return s.db.Close()
	}
	return nil
}
