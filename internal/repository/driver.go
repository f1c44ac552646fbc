package repository

import (
	"context"

	"unigo/internal/domain"
)

// DriverRepository defines the persistence operations for driver profiles.
type DriverRepository interface {
	// GetByID retrieves a driver by ID.
	GetByID(ctx context.Context, id string) (*domain.Driver, error)

	// IncrementCompletedTrips bumps the completed trip counter by one.
	IncrementCompletedTrips(ctx context.Context, id string) error

	// UpdateRating sets the driver's average rating.
	UpdateRating(ctx context.Context, id string, rating float64) error
}
