package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the hash holding seen message IDs.
const DefaultRedisKey = "inkgate:seen"

// RedisOptions configures a RedisStore.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Key      string
}

// RedisStore implements Store with a single Redis hash mapping message ID to
// the time it was first seen. HSETNX gives the insert-once guarantee.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	if opts.Addr == "" {
		return nil, fmt.Errorf("redis address not set")
	}

	client := redis.NewClient(&redis.Options{
		Addr:        opts.Addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return NewRedisStoreFromClient(client, opts.Key), nil
}

// NewRedisStoreFromClient wraps an existing client. An empty key selects
// DefaultRedisKey.
func NewRedisStoreFromClient(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{client: client, key: key}
}

// Has reports whether id has been recorded.
func (s *RedisStore) Has(ctx context.Context, id string) (bool, error) {
	ok, err := s.client.HExists(ctx, s.key, id).Result()
	if err != nil {
		return false, fmt.Errorf("check seen message: %w", err)
	}
	return ok, nil
}

// Find retrieves a single seen message by exact ID.
func (s *RedisStore) Find(ctx context.Context, id string) (*SeenMessage, error) {
	v, err := s.client.HGet(ctx, s.key, id).Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("message %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find seen message: %w", err)
	}
	m := &SeenMessage{ID: id}
	m.SeenAt, _ = parseTimestamp(v)
	return m, nil
}

// Insert records id. Inserting an ID that already exists is a no-op.
func (s *RedisStore) Insert(ctx context.Context, id string) error {
	ts := time.Now().UTC().Format(seenAtLayout)
	if err := s.client.HSetNX(ctx, s.key, id, ts).Err(); err != nil {
		return fmt.Errorf("insert seen message: %w", err)
	}
	return nil
}

// Stats returns the number of recorded IDs. The time range is not tracked.
func (s *RedisStore) Stats(ctx context.Context) (*Stats, error) {
	n, err := s.client.HLen(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("count seen messages: %w", err)
	}
	return &Stats{Driver: DriverRedis, TotalSeen: n}, nil
}

// Close closes the Redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
