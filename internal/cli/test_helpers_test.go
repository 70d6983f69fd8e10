package cli

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/runnerr0/inkgate/internal/seen"
	"github.com/runnerr0/inkgate/internal/storage"
)

// captureOutput captures stdout during fn execution and returns it as a string.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

// testGate returns a gate over an in-memory backend.
func testGate(t *testing.T) *seen.Store {
	t.Helper()
	gate := seen.New(storage.NewMemoryStore(), nil)
	t.Cleanup(func() { gate.Close() })
	return gate
}

// writeTestConfig writes a config file pointing storage at a temp directory
// and returns its path.
func writeTestConfig(t *testing.T, extra string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "storage:\n  driver: sqlite\n  path: " + dir + "\n  sqlite_file: seen.db\nlogging:\n  level: error\n" + extra
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	return path
}
