package events

import (
	"context"
	"log/slog"
)

// LogPublisher writes events to the log. It is the default when no broker
// is configured.
type LogPublisher struct {
	log *slog.Logger
}

// NewLogPublisher creates a new LogPublisher.
func NewLogPublisher(log *slog.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

// Publish logs the event at info level.
func (p *LogPublisher) Publish(ctx context.Context, event Event) error {
	p.log.InfoContext(ctx, "event",
		"event_id", event.ID,
		"type", event.Type,
		"key", event.Key,
	)
	return nil
}

// Close is a no-op.
func (p *LogPublisher) Close() error { return nil }
