package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/runnerr0/inkgate/internal/config"
	"github.com/runnerr0/inkgate/internal/seen"
	"github.com/runnerr0/inkgate/internal/storage"
)

// statusJSON is the JSON output structure for the status command.
type statusJSON struct {
	Version           string `json:"version"`
	Driver            string `json:"driver"`
	SchemaVersion     int    `json:"schema_version,omitempty"`
	DatabasePath      string `json:"database_path,omitempty"`
	DatabaseSizeBytes int64  `json:"database_size_bytes,omitempty"`
	TotalSeen         int64  `json:"total_seen"`
	OldestSeen        string `json:"oldest_seen,omitempty"`
	NewestSeen        string `json:"newest_seen,omitempty"`
	DaemonAddr        string `json:"daemon_addr"`
	DaemonRunning     bool   `json:"daemon_running"`
	EventsTarget      string `json:"events_target"`
}

// Execute implements the go-flags Commander interface for StatusCommand.
func (c *StatusCommand) Execute(args []string) error {
	ctx := context.Background()
	cfg, gate, cleanup, err := prepare(ctx, c.globals)
	if err != nil {
		return err
	}
	defer cleanup()

	return c.executeWithGate(ctx, gate, cfg)
}

// executeWithGate runs status against a provided gate and config (for testing).
func (c *StatusCommand) executeWithGate(ctx context.Context, gate *seen.Store, cfg *config.Config) error {
	stats, err := gate.Stats(ctx)
	if err != nil {
		return fmt.Errorf("get stats: %w", err)
	}

	out := statusJSON{
		Version:       c.version,
		Driver:        stats.Driver,
		SchemaVersion: stats.SchemaVersion,
		TotalSeen:     stats.TotalSeen,
		DaemonAddr:    cfg.Daemon.Addr(),
		DaemonRunning: checkDaemon(cfg.Daemon.Addr()),
		EventsTarget:  "log",
	}
	if cfg.Events.NATSURL != "" {
		out.EventsTarget = "nats " + cfg.Events.Subject
	}
	if stats.Driver == storage.DriverSQLite {
		if path, err := cfg.Storage.SQLitePath(); err == nil {
			out.DatabasePath = path
			out.DatabaseSizeBytes = getDatabaseSize(path)
		}
	}
	if stats.TotalSeen > 0 {
		out.OldestSeen = stats.OldestSeen.UTC().Format(time.RFC3339)
		out.NewestSeen = stats.NewestSeen.UTC().Format(time.RFC3339)
	}

	if c.globals != nil && c.globals.JSON {
		return printJSON(out)
	}
	c.printStatusHuman(out, stats)
	return nil
}

func (c *StatusCommand) printStatusHuman(out statusJSON, stats *storage.Stats) {
	fmt.Println("inkgate Status")
	fmt.Println("==============")
	fmt.Printf("Version:       %s\n", out.Version)
	fmt.Printf("Storage:       %s\n", out.Driver)
	if out.DatabasePath != "" {
		fmt.Printf("Database:      %s (%s)\n", out.DatabasePath, formatBytes(out.DatabaseSizeBytes))
	}
	if out.SchemaVersion > 0 {
		fmt.Printf("Schema:        v%d\n", out.SchemaVersion)
	}
	fmt.Printf("Seen:          %s\n", formatNumber(out.TotalSeen))

	if stats.TotalSeen > 0 {
		fmt.Printf("Oldest:        %s\n", stats.OldestSeen.Local().Format("2006-01-02"))
		fmt.Printf("Newest:        %s (%s ago)\n", stats.NewestSeen.Local().Format("2006-01-02"), formatDurationHuman(time.Since(stats.NewestSeen)))
	}

	fmt.Println()
	if out.DaemonRunning {
		fmt.Printf("Daemon:        running on %s\n", out.DaemonAddr)
	} else {
		fmt.Println("Daemon:        not running")
	}
	fmt.Printf("Events:        %s\n", out.EventsTarget)
}

// getDatabaseSize returns the database file size in bytes, or 0 when the
// file cannot be read.
func getDatabaseSize(dbPath string) int64 {
	info, err := os.Stat(dbPath)
	if err != nil {
		return 0
	}
	return info.Size()
}

// checkDaemon attempts an HTTP GET to the daemon health endpoint.
// Returns true if the daemon responds within 1 second.
func checkDaemon(addr string) bool {
	client := &http.Client{Timeout: 1 * time.Second}
	resp, err := client.Get("http://" + addr + "/healthz")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// formatBytes formats a byte count into a human-readable string.
func formatBytes(b int64) string {
	switch {
	case b >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(b)/float64(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/float64(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

// formatNumber formats an int64 with comma separators.
func formatNumber(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
		if len(s) > remainder {
			result.WriteString(",")
		}
	}
	for i := remainder; i < len(s); i += 3 {
		if i > remainder {
			result.WriteString(",")
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}
