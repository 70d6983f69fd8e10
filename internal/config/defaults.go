package config

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Driver:      "sqlite",
			Path:        "~/.config/inkgate",
			SQLiteFile:  "seen.db",
			PostgresDSN: "",
			Redis: RedisConfig{
				Addr: "127.0.0.1:6379",
				DB:   0,
				Key:  "inkgate:seen",
			},
		},
		Daemon: DaemonConfig{
			Host:           "127.0.0.1",
			Port:           8733,
			MaxRequestSize: 1048576,
		},
		Logging: LoggingConfig{
			Level:      "info",
			File:       "",
			MaxSize:    10,
			MaxBackups: 3,
		},
		Events: EventsConfig{
			NATSURL: "",
			Subject: "inkgate.clicks",
		},
	}
}
