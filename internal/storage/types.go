package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned by Find when no message with the given ID exists.
var ErrNotFound = errors.New("seen message not found")

// SeenMessage records a message identifier that has been shown to the user.
type SeenMessage struct {
	ID     string
	SeenAt time.Time
}

// Stats holds aggregate statistics about a seen-message backend.
// SchemaVersion is zero for backends without versioned migrations.
type Stats struct {
	Driver        string
	SchemaVersion int
	TotalSeen     int64
	OldestSeen    time.Time
	NewestSeen    time.Time
}
