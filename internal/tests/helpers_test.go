package tests

import (
	"testing"
	"time"

	"unigo/internal/domain"
	"unigo/internal/logging"
	"unigo/internal/metrics"
	"unigo/internal/service"
)

// testEnv wires every service over the in-memory mocks.
type testEnv struct {
	trips     *MockTripRepository
	bookings  *MockBookingRepository
	drivers   *MockDriverRepository
	reviews   *MockReviewRepository
	incidents *MockIncidentRepository
	tx        *MockTxManager
	cache     *MockCacheStore
	locator   *MockLocationStore
	locks     *MockLockStore
	publisher *RecordingPublisher
	metrics   *metrics.Collector

	tripService     *service.TripService
	bookingService  *service.BookingService
	searchService   *service.SearchService
	reviewService   *service.ReviewService
	incidentService *service.IncidentService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	e := &testEnv{
		trips:     NewMockTripRepository(),
		bookings:  NewMockBookingRepository(),
		drivers:   NewMockDriverRepository(),
		reviews:   NewMockReviewRepository(),
		incidents: NewMockIncidentRepository(),
		cache:     NewMockCacheStore(),
		locator:   NewMockLocationStore(),
		locks:     NewMockLockStore(),
		publisher: &RecordingPublisher{},
		metrics:   metrics.NewCollector(),
	}
	e.tx = NewMockTxManager(e.trips, e.bookings, e.drivers)

	log := logging.Discard()
	notifier := service.NewNotificationService(e.publisher)

	e.tripService = service.NewTripService(e.tx, e.trips, e.bookings, e.cache, e.locator, notifier, log)
	e.bookingService = service.NewBookingService(e.tx, e.bookings, e.locks, e.cache, notifier, e.metrics, log, time.Second)
	e.searchService = service.NewSearchService(e.trips, e.cache, e.locator, e.metrics, log, service.SearchOptions{SeedFallback: true})
	e.reviewService = service.NewReviewService(e.reviews, e.trips, e.bookings, e.drivers, notifier, log)
	e.incidentService = service.NewIncidentService(e.incidents, e.trips, notifier, log)
	return e
}

// openTrip stores a published trip departing in two days from Agdal to UIR.
func (e *testEnv) openTrip(id, driverID string, seats int, price float64) *domain.Trip {
	trip := &domain.Trip{
		ID:             id,
		DriverID:       driverID,
		Departure:      domain.Place{Address: "Agdal, Rabat", Coordinates: domain.Coordinate{Lat: 33.9716, Lng: -6.8498}},
		Arrival:        domain.Place{Address: "Université Internationale de Rabat, Salé", Coordinates: domain.Coordinate{Lat: 33.9547, Lng: -6.8326}},
		DepartureTime:  time.Now().Add(48 * time.Hour),
		PricePerSeat:   price,
		TotalSeats:     seats,
		AvailableSeats: seats,
		PaymentModes:   []domain.PaymentMode{domain.PaymentModeCash},
		TripType:       domain.TripTypeOneWay,
		DistanceKm:     2.4,
		Status:         domain.TripStatusPublished,
	}
	e.trips.AddTrip(trip)
	return trip
}

func validCreateRequest(driverID string) service.CreateTripRequest {
	return service.CreateTripRequest{
		DriverID:      driverID,
		Departure:     domain.Place{Address: "Hay Riad, Rabat", Coordinates: domain.Coordinate{Lat: 33.9591, Lng: -6.8756}},
		Arrival:       domain.Place{Address: "Technopolis, Salé", Coordinates: domain.Coordinate{Lat: 33.9925, Lng: -6.7230}},
		DepartureTime: time.Now().Add(24 * time.Hour),
		PricePerSeat:  20,
		TotalSeats:    3,
		Tags:          []string{"non_smoke"},
		PaymentModes:  []domain.PaymentMode{domain.PaymentModeUniCard},
	}
}
