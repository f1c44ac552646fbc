package handler

import (
	"context"

	"unigo/internal/domain"
	"unigo/internal/geocode"
	"unigo/internal/service"
)

// TripUseCase is the trip lifecycle as seen by the HTTP layer.
type TripUseCase interface {
	CreateTrip(ctx context.Context, req service.CreateTripRequest) (*domain.Trip, error)
	UpdateTrip(ctx context.Context, req service.UpdateTripRequest) (*domain.Trip, error)
	DeleteTrip(ctx context.Context, tripID, driverID string) error
	GetTrip(ctx context.Context, tripID string) (*domain.Trip, error)
	ListByDriver(ctx context.Context, driverID string) ([]domain.Trip, error)
	StartTrip(ctx context.Context, tripID, driverID string) (*domain.Trip, error)
	CompleteTrip(ctx context.Context, tripID, driverID string) (*domain.Trip, error)
	CancelTrip(ctx context.Context, tripID, driverID, reason string) (*domain.Trip, error)
}

// SearchUseCase answers trip searches.
type SearchUseCase interface {
	Search(ctx context.Context, q domain.SearchQuery) (*service.SearchResponse, error)
	Nearby(ctx context.Context, lat, lng, radiusKm float64) (*service.SearchResponse, error)
}

// BookingUseCase handles seat reservations.
type BookingUseCase interface {
	BookTrip(ctx context.Context, req service.BookTripRequest) (*domain.Booking, error)
	CancelBooking(ctx context.Context, bookingID, userID, reason string) (*domain.Booking, error)
	DriverUpdate(ctx context.Context, bookingID, driverID string, action service.DriverAction) (*domain.Booking, error)
	ListBookings(ctx context.Context, userID string) ([]domain.Booking, error)
}

// ReviewUseCase handles reviews.
type ReviewUseCase interface {
	CreateReview(ctx context.Context, req service.CreateReviewRequest) (*domain.Review, error)
	HasReviewed(ctx context.Context, tripID, userID string) (bool, error)
	ListForUser(ctx context.Context, userID string) (*service.UserReviews, error)
}

// IncidentUseCase records incident reports.
type IncidentUseCase interface {
	ReportIncident(ctx context.Context, req service.ReportIncidentRequest) (*domain.Incident, error)
}

// UniversityUseCase lists partner universities.
type UniversityUseCase interface {
	ListUniversities(ctx context.Context) ([]domain.University, service.Source, error)
}

// GeocodeUseCase resolves addresses and coordinates.
type GeocodeUseCase interface {
	Search(ctx context.Context, query string) ([]geocode.Suggestion, error)
	Reverse(ctx context.Context, lat, lng float64) (*geocode.Suggestion, error)
}

// Ensure services implement the use cases.
var (
	_ TripUseCase       = (*service.TripService)(nil)
	_ SearchUseCase     = (*service.SearchService)(nil)
	_ BookingUseCase    = (*service.BookingService)(nil)
	_ ReviewUseCase     = (*service.ReviewService)(nil)
	_ IncidentUseCase   = (*service.IncidentService)(nil)
	_ UniversityUseCase = (*service.UniversityService)(nil)
	_ GeocodeUseCase    = (*geocode.Client)(nil)
)
