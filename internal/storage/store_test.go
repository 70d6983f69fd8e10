package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestStore creates a migrated in-memory SQLiteStore for testing.
func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db := openTestDB(t)

	require.NoError(t, NewMigrationRunner(db).Run(context.Background()))

	store, err := NewSQLiteStore(db)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

// exerciseStore runs the behaviour every backend must share.
func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	has, err := store.Has(ctx, "msg-1")
	require.NoError(t, err)
	assert.False(t, has, "unknown id should not be present")

	_, err = store.Find(ctx, "msg-1")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Insert(ctx, "msg-1"))
	first, err := store.Find(ctx, "msg-1")
	require.NoError(t, err)
	assert.Equal(t, "msg-1", first.ID)
	assert.False(t, first.SeenAt.IsZero(), "seen_at should be set")

	// Duplicate insert is a silent no-op and keeps the original timestamp.
	require.NoError(t, store.Insert(ctx, "msg-1"))
	again, err := store.Find(ctx, "msg-1")
	require.NoError(t, err)
	assert.True(t, first.SeenAt.Equal(again.SeenAt))

	has, err = store.Has(ctx, "msg-1")
	require.NoError(t, err)
	assert.True(t, has)

	// Lookup is by exact id.
	has, err = store.Has(ctx, "MSG-1")
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, store.Insert(ctx, "msg-2"))
	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalSeen)
}

func TestSQLiteStore_Behaviour(t *testing.T) {
	exerciseStore(t, openTestStore(t))
}

func TestMemoryStore_Behaviour(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestPostgresStore_Behaviour(t *testing.T) {
	dsn := os.Getenv("INKGATE_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("INKGATE_TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()
	store, err := NewPostgresStore(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	_, err = store.db.ExecContext(ctx, "TRUNCATE seen_messages")
	require.NoError(t, err)

	exerciseStore(t, store)
}

func TestRedisStore_Behaviour(t *testing.T) {
	addr := os.Getenv("INKGATE_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("INKGATE_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	key := fmt.Sprintf("inkgate:test:%s", t.Name())
	store, err := NewRedisStore(ctx, RedisOptions{Addr: addr, Key: key})
	require.NoError(t, err)
	t.Cleanup(func() {
		store.client.Del(context.Background(), key)
		store.Close()
	})

	exerciseStore(t, store)
}

func TestNewRedisStore_Unreachable(t *testing.T) {
	_, err := NewRedisStore(context.Background(), RedisOptions{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}

func TestNewRedisStore_RequiresAddr(t *testing.T) {
	_, err := NewRedisStore(context.Background(), RedisOptions{})
	assert.Error(t, err)
}

func TestNewPostgresStore_RequiresDSN(t *testing.T) {
	_, err := NewPostgresStore(context.Background(), "")
	assert.Error(t, err)
}

func TestSQLiteStore_StatsEmpty(t *testing.T) {
	store := openTestStore(t)

	stats, err := store.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, stats.Driver)
	assert.Equal(t, 1, stats.SchemaVersion)
	assert.Equal(t, int64(0), stats.TotalSeen)
	assert.True(t, stats.OldestSeen.IsZero())
}

func TestSQLiteStore_StatsRange(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, "a"))
	require.NoError(t, store.Insert(ctx, "b"))

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalSeen)
	assert.False(t, stats.OldestSeen.IsZero())
	assert.False(t, stats.NewestSeen.Before(stats.OldestSeen))
}

func TestOpenSQLite_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "seen.db")

	store, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, store.Insert(ctx, "persisted"))
	require.NoError(t, store.Close())

	reopened, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	has, err := reopened.Has(ctx, "persisted")
	require.NoError(t, err)
	assert.True(t, has, "seen ids should survive a restart")
}

func TestOpenSQLite_RequiresPath(t *testing.T) {
	_, err := OpenSQLite(context.Background(), "")
	assert.Error(t, err)
}

func TestSQLiteStore_ConcurrentInsertAndHas(t *testing.T) {
	ctx := context.Background()
	store, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "seen.db"))
	require.NoError(t, err)
	defer store.Close()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("msg-%d", i%5)
			assert.NoError(t, store.Insert(ctx, id))
			_, err := store.Has(ctx, id)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), stats.TotalSeen)
}

func TestSQLiteStore_ClosedStoreReturnsErrors(t *testing.T) {
	ctx := context.Background()
	store, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "seen.db"))
	require.NoError(t, err)
	require.NoError(t, store.Close())

	_, err = store.Has(ctx, "x")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Error(t, store.Insert(ctx, "x"))
}

func TestOpen_SelectsDriver(t *testing.T) {
	ctx := context.Background()

	mem, err := Open(ctx, Options{Driver: DriverMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, mem)

	sqlite, err := Open(ctx, Options{Driver: DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "x.db")})
	require.NoError(t, err)
	defer sqlite.Close()
	assert.IsType(t, &SQLiteStore{}, sqlite)

	_, err = Open(ctx, Options{Driver: "cassandra"})
	assert.Error(t, err)
}
