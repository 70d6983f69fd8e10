// Package seen implements the seen-message de-duplication gate. It answers
// whether an in-app message may be shown and records messages once shown.
//
// Every storage fault is absorbed here: a failed lookup lets the message
// through and a failed write is dropped, so persistence problems never stop
// a message from being displayed.
package seen

import (
	"context"
	"log/slog"

	"github.com/runnerr0/inkgate/internal/storage"
)

// Gate is the narrow interface callers depend on. An empty id means the
// message carries no identifier and cannot be de-duplicated.
type Gate interface {
	CanShow(ctx context.Context, id string) bool
	MarkShown(ctx context.Context, id string)
}

// Store is the fail-open Gate over a storage backend.
type Store struct {
	backend storage.Store
	logger  *slog.Logger
}

// Compile-time check that Store implements Gate.
var _ Gate = (*Store)(nil)

// New wraps backend. A nil backend is allowed and behaves like a backend
// whose every call fails.
func New(backend storage.Store, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{backend: backend, logger: logger}
}

// Has reports whether a message with exactly this id has been recorded.
func (s *Store) Has(ctx context.Context, id string) (bool, error) {
	if s.backend == nil {
		return false, errNoBackend
	}
	return s.backend.Has(ctx, id)
}

// CanShow returns true when id is empty, when id has not been recorded, or
// when the backend cannot answer.
func (s *Store) CanShow(ctx context.Context, id string) bool {
	if id == "" {
		s.logger.Debug("message has no id, showing without dedup")
		return true
	}

	seen, err := s.Has(ctx, id)
	if err != nil {
		s.logger.Warn("seen lookup failed, showing message", "message_id", id, "error", err)
		return true
	}
	if seen {
		s.logger.Debug("message already shown", "message_id", id)
	}
	return !seen
}

// MarkShown records id. Empty ids and backend errors are ignored.
func (s *Store) MarkShown(ctx context.Context, id string) {
	if id == "" {
		return
	}
	if s.backend == nil {
		s.logger.Warn("seen store unavailable, not recording message", "message_id", id)
		return
	}
	if err := s.backend.Insert(ctx, id); err != nil {
		s.logger.Warn("recording shown message failed", "message_id", id, "error", err)
		return
	}
	s.logger.Debug("message marked shown", "message_id", id)
}

// Stats passes through to the backend for reporting.
func (s *Store) Stats(ctx context.Context) (*storage.Stats, error) {
	if s.backend == nil {
		return nil, errNoBackend
	}
	return s.backend.Stats(ctx)
}

// Close releases the backend.
func (s *Store) Close() error {
	if s.backend == nil {
		return nil
	}
	return s.backend.Close()
}
