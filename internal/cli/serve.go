package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/runnerr0/inkgate/internal/config"
	"github.com/runnerr0/inkgate/internal/events"
	"github.com/runnerr0/inkgate/internal/messaging"
	"github.com/runnerr0/inkgate/internal/server"
)

// Execute implements the go-flags Commander interface for ServeCommand.
func (c *ServeCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}
	c.applyOverrides(cfg)

	logCloser, err := setupLogging(cfg, c.globals)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gate := openGate(ctx, cfg)
	defer gate.Close()

	sink, closeSink := openSink(cfg)
	defer closeSink()

	srv := server.New(gate, server.Options{
		MaxRequestSize: int64(cfg.Daemon.MaxRequestSize),
		Logger:         slog.Default(),
		Adapter:        []messaging.Option{messaging.WithSink(sink)},
	})

	slog.Info("inkgate daemon starting", "version", c.version, "storage", cfg.Storage.Driver)
	if err := srv.ListenAndServe(ctx, cfg.Daemon.Addr()); err != nil {
		return fmt.Errorf("daemon: %w", err)
	}
	return nil
}

// applyOverrides folds command-line overrides into cfg.
func (c *ServeCommand) applyOverrides(cfg *config.Config) {
	if c.Host != "" {
		cfg.Daemon.Host = c.Host
	}
	if c.Port != 0 {
		cfg.Daemon.Port = c.Port
	}
	if c.LogLevel != "" {
		cfg.Logging.Level = c.LogLevel
	}
}

// openSink builds the click event sink. Events are always logged; with a NATS
// URL configured they are also published. A NATS connection failure
// degrades to logging only.
func openSink(cfg *config.Config) (events.Sink, func()) {
	logSink := events.LogSink{Logger: slog.Default()}
	if cfg.Events.NATSURL == "" {
		return logSink, func() {}
	}

	ns, err := events.NewNATSSink(events.NATSConfig{
		URL:     cfg.Events.NATSURL,
		Subject: cfg.Events.Subject,
	})
	if err != nil {
		slog.Warn("click events will only be logged", "error", err)
		return logSink, func() {}
	}
	return events.Multi{logSink, ns}, func() { ns.Close() }
}
