package repository

import (
	"context"

	"unigo/internal/domain"
)

// TripRepository defines the persistence operations for trips.
type TripRepository interface {
	// Create persists a new trip.
	Create(ctx context.Context, trip *domain.Trip) error

	// GetByID retrieves a trip with its driver.
	GetByID(ctx context.Context, id string) (*domain.Trip, error)

	// Update overwrites the mutable fields of a trip.
	Update(ctx context.Context, trip *domain.Trip) error

	// Delete removes a trip.
	Delete(ctx context.Context, id string) error

	// ListByDriver returns a driver's trips, newest departure first.
	ListByDriver(ctx context.Context, driverID string) ([]domain.Trip, error)

	// ListSearchable returns published and scheduled trips with their drivers.
	ListSearchable(ctx context.Context) ([]domain.Trip, error)

	// AdjustSeats adds delta to available seats atomically.
	// Returns ErrSeatsUnavailable when the result would leave [0, total].
	AdjustSeats(ctx context.Context, id string, delta int) error
}
