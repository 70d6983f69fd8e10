package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "embed"

	_ "github.com/lib/pq"
)

// Pool limits.
const (
	DefaultMaxOpenConns    = 10
	DefaultMaxIdleConns    = 10
	DefaultConnMaxLifetime = 5 * time.Minute
)

//go:embed migrations_postgres.sql
var postgresMigrations string

// PostgresStore implements Store backed by PostgreSQL. Uniqueness is
// enforced by the primary key, so concurrent writers from several app
// instances converge on one row per ID.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore connects to dsn and applies the schema.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN not set")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(DefaultMaxOpenConns)
	db.SetMaxIdleConns(DefaultMaxIdleConns)
	db.SetConnMaxLifetime(DefaultConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	slog.Debug("Postgres ping successful")

	if _, err := db.ExecContext(ctx, postgresMigrations); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	slog.Debug("Postgres migrations applied successfully")

	return &PostgresStore{db: db}, nil
}

// Has reports whether id has been recorded.
func (s *PostgresStore) Has(ctx context.Context, id string) (bool, error) {
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
func (s *PostgresStore) Find(ctx context.Context, id string) (*SeenMessage, error) {
	var m SeenMessage
	err := s.db.QueryRowContext(ctx,
		`SELECT id, seen_at FROM seen_messages WHERE id = $1 LIMIT 1`, id,
	).Scan(&m.ID, &m.SeenAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("message %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find seen message: %w", err)
	}
	return &m, nil
}

// Insert records id. Inserting an ID that already exists is a no-op.
func (s *PostgresStore) Insert(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO seen_messages (id, seen_at) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`,
		id, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert seen message: %w", err)
	}
	return nil
}

// Stats returns aggregate statistics about the table.
func (s *PostgresStore) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{Driver: DriverPostgres}
	var oldest, newest sql.NullTime
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), MIN(seen_at), MAX(seen_at) FROM seen_messages`,
	).Scan(&stats.TotalSeen, &oldest, &newest)
	if err != nil {
		return nil, fmt.Errorf("seen message stats: %w", err)
	}
	stats.OldestSeen = oldest.Time
	stats.NewestSeen = newest.Time
	return stats, nil
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
