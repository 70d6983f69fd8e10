package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables that override file settings.
const (
	EnvStorageDriver = "INKGATE_STORAGE_DRIVER"
	EnvStoragePath   = "INKGATE_STORAGE_PATH"
	EnvSQLiteFile    = "INKGATE_SQLITE_FILE"
	EnvPostgresDSN   = "INKGATE_POSTGRES_DSN"
	EnvRedisAddr     = "INKGATE_REDIS_ADDR"
	EnvRedisPassword = "INKGATE_REDIS_PASSWORD"
	EnvRedisDB       = "INKGATE_REDIS_DB"
	EnvRedisKey      = "INKGATE_REDIS_KEY"
	EnvDaemonHost    = "INKGATE_DAEMON_HOST"
	EnvDaemonPort    = "INKGATE_DAEMON_PORT"
	EnvLogLevel      = "INKGATE_LOG_LEVEL"
	EnvLogFile       = "INKGATE_LOG_FILE"
	EnvNATSURL       = "INKGATE_NATS_URL"
	EnvNATSSubject   = "INKGATE_NATS_SUBJECT"
)

// LoadEnvFile loads variables from .env files (default ".env") into the
// process environment without overriding variables already set. Missing
// files are not an error.
func LoadEnvFile(filenames ...string) error {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}
	for _, name := range filenames {
		if err := godotenv.Load(name); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				slog.Debug("no env file", "file", name)
				continue
			}
			return fmt.Errorf("loading env file %s: %w", name, err)
		}
		slog.Debug("loaded env file", "file", name)
	}
	return nil
}

// ApplyEnv overlays INKGATE_* environment variables onto cfg.
func ApplyEnv(cfg *Config) error {
	setString(&cfg.Storage.Driver, EnvStorageDriver)
	setString(&cfg.Storage.Path, EnvStoragePath)
	setString(&cfg.Storage.SQLiteFile, EnvSQLiteFile)
	setString(&cfg.Storage.PostgresDSN, EnvPostgresDSN)
	setString(&cfg.Storage.Redis.Addr, EnvRedisAddr)
	setString(&cfg.Storage.Redis.Password, EnvRedisPassword)
	setString(&cfg.Storage.Redis.Key, EnvRedisKey)
	setString(&cfg.Daemon.Host, EnvDaemonHost)
	setString(&cfg.Logging.Level, EnvLogLevel)
	setString(&cfg.Logging.File, EnvLogFile)
	setString(&cfg.Events.NATSURL, EnvNATSURL)
	setString(&cfg.Events.Subject, EnvNATSSubject)

	if err := setInt(&cfg.Storage.Redis.DB, EnvRedisDB); err != nil {
		return err
	}
	if err := setInt(&cfg.Daemon.Port, EnvDaemonPort); err != nil {
		return err
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", key, err)
	}
	*dst = n
	return nil
}
