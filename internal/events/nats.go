package events

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nats-io/nats.go"
)

// NATSPublisher publishes each event on <prefix>.<type>.
type NATSPublisher struct {
	nc     *nats.Conn
	prefix string
}

// NewNATSPublisher creates a new NATSPublisher.
func NewNATSPublisher(url, prefix string, log *slog.Logger) (*NATSPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("unigo"),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn("nats disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			log.Info("nats reconnected")
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			log.Info("nats closed")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &NATSPublisher{nc: nc, prefix: prefix}, nil
}

// Publish sends the event on the subject derived from its type.
func (p *NATSPublisher) Publish(_ context.Context, event Event) error {
	b, err := event.Encode()
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	return p.nc.Publish(Subject(p.prefix, event.Type), b)
}

// Close drains the connection.
func (p *NATSPublisher) Close() error {
	if p.nc == nil {
		return nil
	}
	return p.nc.Drain()
}

// Subject joins prefix and event type into a valid NATS subject.
func Subject(prefix string, t Type) string {
	prefix = strings.Trim(strings.TrimSpace(prefix), ".")
	// Tokens cannot contain spaces or wildcards.
	repl := strings.NewReplacer(" ", "_", ">", "_", "*", "_", "\t", "_")
	subject := repl.Replace(string(t))
	if prefix == "" {
		return subject
	}
	return repl.Replace(prefix) + "." + subject
}
