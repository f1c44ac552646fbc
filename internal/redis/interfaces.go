package redis

import (
	"context"
	"time"

	"unigo/internal/domain"
)

// TripCache defines the cached trip reads used by the services.
type TripCache interface {
	GetSearchableTrips(ctx context.Context) ([]domain.Trip, bool, error)
	SetSearchableTrips(ctx context.Context, trips []domain.Trip) error
	GetTrip(ctx context.Context, tripID string) (*domain.Trip, error)
	SetTrip(ctx context.Context, trip *domain.Trip) error
	InvalidateTrip(ctx context.Context, tripID string) error
}

// UniversityCache defines the cached university catalogue.
type UniversityCache interface {
	GetUniversities(ctx context.Context) ([]domain.University, bool, error)
	SetUniversities(ctx context.Context, universities []domain.University) error
}

// TripLocator defines the geo index of trip departures.
type TripLocator interface {
	IndexTrip(ctx context.Context, tripID string, lat, lng float64) error
	FindNearbyTrips(ctx context.Context, lat, lng, radiusKm float64) ([]TripLocation, error)
	RemoveTrip(ctx context.Context, tripID string) error
}

// TripLocker defines the per-trip seat lock.
type TripLocker interface {
	AcquireTripLock(ctx context.Context, tripID string, ttl time.Duration) (bool, error)
	ReleaseTripLock(ctx context.Context, tripID string) error
}

// ResponseStore keeps replayable responses for idempotent requests.
type ResponseStore interface {
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key string, data []byte) error
}

// Ensure concrete types implement interfaces.
var (
	_ TripCache       = (*CacheStore)(nil)
	_ UniversityCache = (*CacheStore)(nil)
	_ TripLocator     = (*LocationStore)(nil)
	_ TripLocker      = (*LockStore)(nil)
	_ ResponseStore   = (*IdempotencyStore)(nil)
)
