package repository

import (
	"context"

	"unigo/internal/domain"
)

// BookingRepository defines the persistence operations for bookings.
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	Update(ctx context.Context, booking *domain.Booking) error

	// ListByPassenger returns a passenger's bookings, newest first.
	ListByPassenger(ctx context.Context, passengerID string) ([]domain.Booking, error)

	// ListByTrip returns every booking on a trip.
	ListByTrip(ctx context.Context, tripID string) ([]domain.Booking, error)
}
