// Package events publishes domain events to the configured broker.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Type names a domain event. Values double as routing keys and subjects.
type Type string

const (
	TripPublished    Type = "trip.published"
	TripUpdated      Type = "trip.updated"
	TripDeleted      Type = "trip.deleted"
	TripStarted      Type = "trip.started"
	TripCompleted    Type = "trip.completed"
	TripCancelled    Type = "trip.cancelled"
	BookingCreated   Type = "booking.created"
	BookingCancelled Type = "booking.cancelled"
	BookingConfirmed Type = "booking.confirmed"
	BookingRejected  Type = "booking.rejected"
	ReviewCreated    Type = "review.created"
	ReviewFlagged    Type = "review.flagged"
	IncidentReported Type = "incident.reported"
)

// Event is the envelope written to every broker.
type Event struct {
	ID         string    `json:"id"`
	Type       Type      `json:"type"`
	Key        string    `json:"key"` // Aggregate id, used for partitioning
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// New builds an event with a fresh id.
func New(t Type, key string, payload any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       t,
		Key:        key,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// Encode renders the event as JSON.
func (e Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher delivers events to a broker.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}
