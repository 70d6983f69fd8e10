// Package events delivers in-app message button taps to the host's
// analytics pipeline.
package events

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// ClickEventName is the event name used for every button tap.
const ClickEventName = "in_app_message_button_tapped"

// ClickEvent reports that a tagged link was tapped inside a message.
type ClickEvent struct {
	Name      string    `json:"name"`
	ButtonID  string    `json:"button_id"`
	MILink    string    `json:"mi_link"`
	MessageID string    `json:"message_id"`
	At        time.Time `json:"at"`
}

// NewClickEvent stamps a ClickEvent with its name and the current time.
func NewClickEvent(buttonID, miLink, messageID string) ClickEvent {
	return ClickEvent{
		Name:      ClickEventName,
		ButtonID:  buttonID,
		MILink:    miLink,
		MessageID: messageID,
		At:        time.Now().UTC(),
	}
}

// Sink receives click events.
type Sink interface {
	Publish(ctx context.Context, e ClickEvent) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, e ClickEvent) error

func (f SinkFunc) Publish(ctx context.Context, e ClickEvent) error { return f(ctx, e) }

// LogSink writes click events to a structured logger.
type LogSink struct {
	Logger *slog.Logger
}

func (s LogSink) Publish(ctx context.Context, e ClickEvent) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, e.Name,
		"button_id", e.ButtonID,
		"mi_link", e.MILink,
		"message_id", e.MessageID,
	)
	return nil
}

// Multi publishes to every sink and joins their errors.
type Multi []Sink

func (m Multi) Publish(ctx context.Context, e ClickEvent) error {
	var errs []error
	for _, s := range m {
		if err := s.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
