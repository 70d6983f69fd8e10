package storage

import (
	"context"
	"fmt"
	"time"
)

// Store defines the durable seen-message set. Implementations must be safe
// for concurrent use and must treat Insert of an existing ID as a no-op.
type Store interface {
	Has(ctx context.Context, id string) (bool, error)
	Find(ctx context.Context, id string) (*SeenMessage, error)
	Insert(ctx context.Context, id string) error
	Stats(ctx context.Context) (*Stats, error)
	Close() error
}

// Supported driver names.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMemory   = "memory"
)

// Options selects and configures a backend for Open.
type Options struct {
	Driver string

	SQLitePath string

	PostgresDSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisKey      string
}

// Open constructs the backend named by opts.Driver.
func Open(ctx context.Context, opts Options) (Store, error) {
	var (
		store Store
		err   error
	)
	switch opts.Driver {
	case DriverSQLite, "":
		store, err = openSQLite(ctx, opts.SQLitePath)
	case DriverPostgres:
		store, err = openPostgres(ctx, opts.PostgresDSN)
	case DriverRedis:
		store, err = openRedis(ctx, RedisOptions{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
			Key:      opts.RedisKey,
		})
	case DriverMemory:
		store = NewMemoryStore()
	default:
		err = fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
	if err != nil {
		return nil, err
	}
	return store, nil
}

// The open* helpers keep a failed constructor from yielding a non-nil Store
// holding a nil pointer.
func openSQLite(ctx context.Context, path string) (Store, error) {
	s, err := OpenSQLite(ctx, path)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func openPostgres(ctx context.Context, dsn string) (Store, error) {
	s, err := NewPostgresStore(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func openRedis(ctx context.Context, opts RedisOptions) (Store, error) {
	s, err := NewRedisStore(ctx, opts)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// parseTimestamp tries several common SQLite timestamp formats.
func parseTimestamp(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05.999999999-07:00",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse timestamp: %s", s)
}
