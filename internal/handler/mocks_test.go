package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"unigo/internal/domain"
	"unigo/internal/geocode"
	"unigo/internal/service"
)

// MockTripUseCase is a mock implementation of TripUseCase
type MockTripUseCase struct {
	mock.Mock
}

func (m *MockTripUseCase) trip(args mock.Arguments) (*domain.Trip, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Trip), args.Error(1)
}

func (m *MockTripUseCase) CreateTrip(ctx context.Context, req service.CreateTripRequest) (*domain.Trip, error) {
	return m.trip(m.Called(ctx, req))
}

func (m *MockTripUseCase) UpdateTrip(ctx context.Context, req service.UpdateTripRequest) (*domain.Trip, error) {
	return m.trip(m.Called(ctx, req))
}

func (m *MockTripUseCase) DeleteTrip(ctx context.Context, tripID, driverID string) error {
	return m.Called(ctx, tripID, driverID).Error(0)
}

func (m *MockTripUseCase) GetTrip(ctx context.Context, tripID string) (*domain.Trip, error) {
	return m.trip(m.Called(ctx, tripID))
}

func (m *MockTripUseCase) ListByDriver(ctx context.Context, driverID string) ([]domain.Trip, error) {
	args := m.Called(ctx, driverID)
	return args.Get(0).([]domain.Trip), args.Error(1)
}

func (m *MockTripUseCase) StartTrip(ctx context.Context, tripID, driverID string) (*domain.Trip, error) {
	return m.trip(m.Called(ctx, tripID, driverID))
}

func (m *MockTripUseCase) CompleteTrip(ctx context.Context, tripID, driverID string) (*domain.Trip, error) {
	return m.trip(m.Called(ctx, tripID, driverID))
}

func (m *MockTripUseCase) CancelTrip(ctx context.Context, tripID, driverID, reason string) (*domain.Trip, error) {
	return m.trip(m.Called(ctx, tripID, driverID, reason))
}

// MockSearchUseCase is a mock implementation of SearchUseCase
type MockSearchUseCase struct {
	mock.Mock
}

func (m *MockSearchUseCase) Search(ctx context.Context, q domain.SearchQuery) (*service.SearchResponse, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SearchResponse), args.Error(1)
}

func (m *MockSearchUseCase) Nearby(ctx context.Context, lat, lng, radiusKm float64) (*service.SearchResponse, error) {
	args := m.Called(ctx, lat, lng, radiusKm)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SearchResponse), args.Error(1)
}

// MockBookingUseCase is a mock implementation of BookingUseCase
type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) booking(args mock.Arguments) (*domain.Booking, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) BookTrip(ctx context.Context, req service.BookTripRequest) (*domain.Booking, error) {
	return m.booking(m.Called(ctx, req))
}

func (m *MockBookingUseCase) CancelBooking(ctx context.Context, bookingID, userID, reason string) (*domain.Booking, error) {
	return m.booking(m.Called(ctx, bookingID, userID, reason))
}

func (m *MockBookingUseCase) DriverUpdate(ctx context.Context, bookingID, driverID string, action service.DriverAction) (*domain.Booking, error) {
	return m.booking(m.Called(ctx, bookingID, driverID, action))
}

func (m *MockBookingUseCase) ListBookings(ctx context.Context, userID string) ([]domain.Booking, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

// MockReviewUseCase is a mock implementation of ReviewUseCase
type MockReviewUseCase struct {
	mock.Mock
}

func (m *MockReviewUseCase) CreateReview(ctx context.Context, req service.CreateReviewRequest) (*domain.Review, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *MockReviewUseCase) HasReviewed(ctx context.Context, tripID, userID string) (bool, error) {
	args := m.Called(ctx, tripID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockReviewUseCase) ListForUser(ctx context.Context, userID string) (*service.UserReviews, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UserReviews), args.Error(1)
}

// MockIncidentUseCase is a mock implementation of IncidentUseCase
type MockIncidentUseCase struct {
	mock.Mock
}

func (m *MockIncidentUseCase) ReportIncident(ctx context.Context, req service.ReportIncidentRequest) (*domain.Incident, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Incident), args.Error(1)
}

// MockUniversityUseCase is a mock implementation of UniversityUseCase
type MockUniversityUseCase struct {
	mock.Mock
}

func (m *MockUniversityUseCase) ListUniversities(ctx context.Context) ([]domain.University, service.Source, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.University), args.Get(1).(service.Source), args.Error(2)
}

// MockGeocodeUseCase is a mock implementation of GeocodeUseCase
type MockGeocodeUseCase struct {
	mock.Mock
}

func (m *MockGeocodeUseCase) Search(ctx context.Context, query string) ([]geocode.Suggestion, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]geocode.Suggestion), args.Error(1)
}

func (m *MockGeocodeUseCase) Reverse(ctx context.Context, lat, lng float64) (*geocode.Suggestion, error) {
	args := m.Called(ctx, lat, lng)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*geocode.Suggestion), args.Error(1)
}
