package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/runnerr0/inkgate/internal/config"
	"github.com/runnerr0/inkgate/internal/logging"
	"github.com/runnerr0/inkgate/internal/seen"
	"github.com/runnerr0/inkgate/internal/storage"
)

// loadConfig resolves configuration: .env, then the config file
// (--config or the default path), then INKGATE_* variables.
func loadConfig(globals *GlobalFlags) (*config.Config, error) {
	if err := config.LoadEnvFile(); err != nil {
		return nil, err
	}

	var cfg *config.Config
	var err error
	if globals != nil && globals.Config != "" {
		cfg, err = config.Load(globals.Config)
	} else {
		cfg, err = config.LoadOrCreate()
	}
	if err != nil {
		return nil, err
	}

	if err := config.ApplyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setupLogging installs the default logger. --verbose forces debug.
func setupLogging(cfg *config.Config, globals *GlobalFlags) (io.Closer, error) {
	opts := logging.Options{
		Level:      cfg.Logging.Level,
		File:       cfg.Logging.File,
		MaxSize:    cfg.Logging.MaxSize,
		MaxBackups: cfg.Logging.MaxBackups,
	}
	if globals != nil && globals.Verbose {
		opts.Level = "debug"
	}
	if opts.File != "" {
		path, err := config.ExpandPath(opts.File)
		if err != nil {
			return nil, err
		}
		opts.File = path
	}
	return logging.Setup(opts)
}

// storageOptions maps the storage config section onto backend options.
func storageOptions(cfg *config.Config) (storage.Options, error) {
	opts := storage.Options{
		Driver:        cfg.Storage.Driver,
		PostgresDSN:   cfg.Storage.PostgresDSN,
		RedisAddr:     cfg.Storage.Redis.Addr,
		RedisPassword: cfg.Storage.Redis.Password,
		RedisDB:       cfg.Storage.Redis.DB,
		RedisKey:      cfg.Storage.Redis.Key,
	}
	if opts.Driver == storage.DriverSQLite || opts.Driver == "" {
		path, err := cfg.Storage.SQLitePath()
		if err != nil {
			return storage.Options{}, err
		}
		opts.SQLitePath = path
	}
	return opts, nil
}

// openGate opens the configured backend behind a seen gate. A backend that
// fails to open is logged and the gate runs without one, letting every
// message through.
func openGate(ctx context.Context, cfg *config.Config) *seen.Store {
	opts, err := storageOptions(cfg)
	if err == nil {
		var backend storage.Store
		backend, err = storage.Open(ctx, opts)
		if err == nil {
			return seen.New(backend, slog.Default())
		}
	}
	slog.Warn("seen store unavailable, all messages will be shown", "driver", cfg.Storage.Driver, "error", err)
	return seen.New(nil, slog.Default())
}

// prepare loads config, installs logging and opens the gate. The returned
// cleanup closes both.
func prepare(ctx context.Context, globals *GlobalFlags) (*config.Config, *seen.Store, func(), error) {
	cfg, err := loadConfig(globals)
	if err != nil {
		return nil, nil, nil, err
	}
	logCloser, err := setupLogging(cfg, globals)
	if err != nil {
		return nil, nil, nil, err
	}
	gate := openGate(ctx, cfg)
	cleanup := func() {
		gate.Close()
		logCloser.Close()
	}
	return cfg, gate, cleanup, nil
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatDurationHuman formats a duration into a human-readable string like "30 days".
func formatDurationHuman(d time.Duration) string {
	days := int(d.Hours() / 24)
	if days > 0 {
		if days == 1 {
			return "1 day"
		}
		return fmt.Sprintf("%d days", days)
	}
	hours := int(d.Hours())
	if hours > 0 {
		if hours == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", hours)
	}
	return d.Round(time.Second).String()
}
