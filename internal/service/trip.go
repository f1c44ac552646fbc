package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"unigo/internal/domain"
	"unigo/internal/events"
	"unigo/internal/geo"
	"unigo/internal/redis"
	"unigo/internal/repository"
)

// MaxSeats bounds the seats a single car can offer.
const MaxSeats = 8

// TripService handles the trip lifecycle.
type TripService struct {
	txManager           repository.TxManager
	tripRepo            repository.TripRepository
	bookingRepo         repository.BookingRepository
	cache               redis.TripCache
	locator             redis.TripLocator
	notificationService *NotificationService
	log                 *slog.Logger
	now                 func() time.Time
}

// NewTripService creates a new TripService. cache and locator may be nil.
func NewTripService(
	txManager repository.TxManager,
	tripRepo repository.TripRepository,
	bookingRepo repository.BookingRepository,
	cache redis.TripCache,
	locator redis.TripLocator,
	notificationService *NotificationService,
	log *slog.Logger,
) *TripService {
	return &TripService{
		txManager:           txManager,
		tripRepo:            tripRepo,
		bookingRepo:         bookingRepo,
		cache:               cache,
		locator:             locator,
		notificationService: notificationService,
		log:                 log,
		now:                 time.Now,
	}
}

// CreateTripRequest contains the parameters for publishing a trip.
type CreateTripRequest struct {
	DriverID      string
	Departure     domain.Place
	Arrival       domain.Place
	DepartureTime time.Time
	ArrivalTime   time.Time // Estimated from distance when zero
	PricePerSeat  float64
	TotalSeats    int
	Tags          []string
	PaymentModes  []domain.PaymentMode // Defaults to cash
	TripType      domain.TripType      // Defaults to one_way
	UniversityID  string
}

// CreateTrip validates and publishes a new trip.
func (s *TripService) CreateTrip(ctx context.Context, req CreateTripRequest) (*domain.Trip, error) {
	if req.DriverID == "" {
		return nil, ErrInvalidUserID
	}

	now := s.now()
	trip := &domain.Trip{
		ID:             uuid.New().String(),
		DriverID:       req.DriverID,
		Departure:      normalizePlace(req.Departure),
		Arrival:        normalizePlace(req.Arrival),
		DepartureTime:  req.DepartureTime,
		ArrivalTime:    req.ArrivalTime,
		PricePerSeat:   req.PricePerSeat,
		TotalSeats:     req.TotalSeats,
		AvailableSeats: req.TotalSeats,
		Tags:           normalizeTags(req.Tags),
		PaymentModes:   req.PaymentModes,
		TripType:       req.TripType,
		UniversityID:   req.UniversityID,
		Status:         domain.TripStatusPublished,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if len(trip.PaymentModes) == 0 {
		trip.PaymentModes = []domain.PaymentMode{domain.PaymentModeCash}
	}
	if trip.TripType == "" {
		trip.TripType = domain.TripTypeOneWay
	}
	measure(trip)

	if err := validateTrip(trip, now); err != nil {
		return nil, err
	}

	if err := s.tripRepo.Create(ctx, trip); err != nil {
		return nil, err
	}

	s.refreshIndex(ctx, trip)
	_ = s.notificationService.NotifyTripPublished(ctx, trip)

	s.log.InfoContext(ctx, "trip published",
		"trip_id", trip.ID,
		"driver_id", trip.DriverID,
		"distance_km", trip.DistanceKm,
	)
	return trip, nil
}

// UpdateTripRequest carries the fields a driver may change. Nil fields are
// left untouched.
type UpdateTripRequest struct {
	TripID        string
	DriverID      string
	Departure     *domain.Place
	Arrival       *domain.Place
	DepartureTime *time.Time
	ArrivalTime   *time.Time
	PricePerSeat  *float64
	TotalSeats    *int
	Tags          []string
	PaymentModes  []domain.PaymentMode
	TripType      *domain.TripType
}

// UpdateTrip edits a trip that has not started yet.
func (s *TripService) UpdateTrip(ctx context.Context, req UpdateTripRequest) (*domain.Trip, error) {
	if req.TripID == "" {
		return nil, ErrInvalidTripID
	}
	if req.DriverID == "" {
		return nil, ErrInvalidUserID
	}

	var trip *domain.Trip
	var passengers []string
	err := s.txManager.WithinTx(ctx, func(tx repository.Tx) error {
		var err error
		trip, err = ownedTrip(ctx, tx, req.TripID, req.DriverID)
		if err != nil {
			return err
		}
		if !trip.Status.Bookable() {
			return ErrTripNotEditable
		}

		if err := applyUpdate(trip, req); err != nil {
			return err
		}
		trip.UpdatedAt = s.now()
		if err := validateTrip(trip, trip.UpdatedAt); err != nil {
			return err
		}
		if err := tx.Trips().Update(ctx, trip); err != nil {
			return err
		}

		passengers, err = openPassengers(ctx, tx, trip.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.refreshIndex(ctx, trip)
	_ = s.notificationService.NotifyTripChanged(ctx, events.TripUpdated, trip, passengers)
	return trip, nil
}

// DeleteTrip removes a trip that has no open bookings.
func (s *TripService) DeleteTrip(ctx context.Context, tripID, driverID string) error {
	if tripID == "" {
		return ErrInvalidTripID
	}
	if driverID == "" {
		return ErrInvalidUserID
	}

	var trip *domain.Trip
	err := s.txManager.WithinTx(ctx, func(tx repository.Tx) error {
		var err error
		trip, err = ownedTrip(ctx, tx, tripID, driverID)
		if err != nil {
			return err
		}
		passengers, err := openPassengers(ctx, tx, tripID)
		if err != nil {
			return err
		}
		if len(passengers) > 0 {
			return ErrTripHasBookings
		}
		return tx.Trips().Delete(ctx, tripID)
	})
	if err != nil {
		return err
	}

	s.dropIndex(ctx, tripID)
	_ = s.notificationService.NotifyTripChanged(ctx, events.TripDeleted, trip, nil)
	s.log.InfoContext(ctx, "trip deleted", "trip_id", tripID)
	return nil
}

// GetTrip retrieves a trip, reading through the cache.
func (s *TripService) GetTrip(ctx context.Context, tripID string) (*domain.Trip, error) {
	if tripID == "" {
		return nil, ErrInvalidTripID
	}

	if s.cache != nil {
		trip, err := s.cache.GetTrip(ctx, tripID)
		if err != nil {
			s.log.WarnContext(ctx, "trip cache read failed", "trip_id", tripID, "error", err)
		}
		if trip != nil {
			return trip, nil
		}
	}

	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetTrip(ctx, trip); err != nil {
			s.log.WarnContext(ctx, "trip cache write failed", "trip_id", tripID, "error", err)
		}
	}
	return trip, nil
}

// ListByDriver returns every trip published by a driver.
func (s *TripService) ListByDriver(ctx context.Context, driverID string) ([]domain.Trip, error) {
	if driverID == "" {
		return nil, ErrInvalidUserID
	}
	return s.tripRepo.ListByDriver(ctx, driverID)
}

// StartTrip moves a published or scheduled trip to active.
func (s *TripService) StartTrip(ctx context.Context, tripID, driverID string) (*domain.Trip, error) {
	var passengers []string
	trip, err := s.transition(ctx, tripID, driverID, func(tx repository.Tx, trip *domain.Trip) error {
		if !trip.Status.Bookable() {
			return ErrInvalidTransition
		}
		trip.Status = domain.TripStatusActive
		var err error
		passengers, err = openPassengers(ctx, tx, trip.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.dropIndex(ctx, trip.ID)
	_ = s.notificationService.NotifyTripChanged(ctx, events.TripStarted, trip, passengers)
	s.log.InfoContext(ctx, "trip started", "trip_id", trip.ID)
	return trip, nil
}

// CompleteTrip moves an active trip to completed and bumps the driver's trip
// counter. Confirmed bookings complete with it; pending ones are cancelled
// with a full refund.
func (s *TripService) CompleteTrip(ctx context.Context, tripID, driverID string) (*domain.Trip, error) {
	var passengers []string
	var expired []domain.Booking
	trip, err := s.transition(ctx, tripID, driverID, func(tx repository.Tx, trip *domain.Trip) error {
		if trip.Status != domain.TripStatusActive {
			return ErrInvalidTransition
		}
		trip.Status = domain.TripStatusCompleted

		bookings, err := tx.Bookings().ListByTrip(ctx, trip.ID)
		if err != nil {
			return err
		}
		for i := range bookings {
			b := &bookings[i]
			switch b.Status {
			case domain.BookingStatusConfirmed:
				b.Status = domain.BookingStatusCompleted
				b.UpdatedAt = trip.UpdatedAt
				passengers = append(passengers, b.PassengerID)
			case domain.BookingStatusPending:
				// Requests the driver never answered are refunded in full.
				cancelBooking(b, driverID, "trip completed", 100, trip.UpdatedAt)
				expired = append(expired, *b)
			default:
				continue
			}
			if err := tx.Bookings().Update(ctx, b); err != nil {
				return err
			}
		}

		err = tx.Drivers().IncrementCompletedTrips(ctx, trip.DriverID)
		if errors.Is(err, repository.ErrNotFound) {
			// Drivers without a profile row still complete trips.
			return nil
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	_ = s.notificationService.NotifyTripChanged(ctx, events.TripCompleted, trip, passengers)
	for i := range expired {
		_ = s.notificationService.NotifyBookingDecision(ctx, &expired[i])
	}
	s.log.InfoContext(ctx, "trip completed",
		"trip_id", trip.ID,
		"passengers", len(passengers),
		"expired_bookings", len(expired),
	)
	return trip, nil
}

// CancelTrip cancels a trip that has not ended and refunds every open
// booking in full.
func (s *TripService) CancelTrip(ctx context.Context, tripID, driverID, reason string) (*domain.Trip, error) {
	var cancelled []domain.Booking
	trip, err := s.transition(ctx, tripID, driverID, func(tx repository.Tx, trip *domain.Trip) error {
		if trip.Status.Terminal() {
			return ErrInvalidTransition
		}
		trip.Status = domain.TripStatusCancelled

		bookings, err := tx.Bookings().ListByTrip(ctx, trip.ID)
		if err != nil {
			return err
		}
		for i := range bookings {
			b := &bookings[i]
			if !b.Status.Open() {
				continue
			}
			cancelBooking(b, driverID, reason, 100, trip.UpdatedAt)
			if err := tx.Bookings().Update(ctx, b); err != nil {
				return err
			}
			trip.AvailableSeats = min(trip.AvailableSeats+b.Seats, trip.TotalSeats)
			cancelled = append(cancelled, *b)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.dropIndex(ctx, trip.ID)
	_ = s.notificationService.NotifyTripCancelled(ctx, trip, cancelled, reason)
	s.log.InfoContext(ctx, "trip cancelled",
		"trip_id", trip.ID,
		"refunded_bookings", len(cancelled),
	)
	return trip, nil
}

// transition loads an owned trip, lets fn mutate it and persists it, all in
// one transaction.
func (s *TripService) transition(ctx context.Context, tripID, driverID string, fn func(tx repository.Tx, trip *domain.Trip) error) (*domain.Trip, error) {
	if tripID == "" {
		return nil, ErrInvalidTripID
	}
	if driverID == "" {
		return nil, ErrInvalidUserID
	}

	var trip *domain.Trip
	err := s.txManager.WithinTx(ctx, func(tx repository.Tx) error {
		var err error
		trip, err = ownedTrip(ctx, tx, tripID, driverID)
		if err != nil {
			return err
		}
		trip.UpdatedAt = s.now()
		if err := fn(tx, trip); err != nil {
			return err
		}
		return tx.Trips().Update(ctx, trip)
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, trip.ID)
	return trip, nil
}

// refreshIndex makes a written trip visible to search.
func (s *TripService) refreshIndex(ctx context.Context, trip *domain.Trip) {
	s.invalidate(ctx, trip.ID)
	if s.locator == nil {
		return
	}
	dep := trip.Departure.Coordinates
	if err := s.locator.IndexTrip(ctx, trip.ID, dep.Lat, dep.Lng); err != nil {
		s.log.WarnContext(ctx, "trip geo index write failed", "trip_id", trip.ID, "error", err)
	}
}

// dropIndex hides a trip from search.
func (s *TripService) dropIndex(ctx context.Context, tripID string) {
	s.invalidate(ctx, tripID)
	if s.locator == nil {
		return
	}
	if err := s.locator.RemoveTrip(ctx, tripID); err != nil {
		s.log.WarnContext(ctx, "trip geo index removal failed", "trip_id", tripID, "error", err)
	}
}

func (s *TripService) invalidate(ctx context.Context, tripID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateTrip(ctx, tripID); err != nil {
		s.log.WarnContext(ctx, "trip cache invalidation failed", "trip_id", tripID, "error", err)
	}
}

func ownedTrip(ctx context.Context, tx repository.Tx, tripID, driverID string) (*domain.Trip, error) {
	trip, err := tx.Trips().GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip.DriverID != driverID {
		return nil, ErrForbidden
	}
	return trip, nil
}

func openPassengers(ctx context.Context, tx repository.Tx, tripID string) ([]string, error) {
	bookings, err := tx.Bookings().ListByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, b := range bookings {
		if b.Status.Open() {
			ids = append(ids, b.PassengerID)
		}
	}
	return ids, nil
}

func applyUpdate(trip *domain.Trip, req UpdateTripRequest) error {
	moved := false
	if req.Departure != nil {
		trip.Departure = normalizePlace(*req.Departure)
		moved = true
	}
	if req.Arrival != nil {
		trip.Arrival = normalizePlace(*req.Arrival)
		moved = true
	}
	if req.DepartureTime != nil {
		trip.DepartureTime = *req.DepartureTime
	}
	if req.ArrivalTime != nil {
		trip.ArrivalTime = *req.ArrivalTime
	}
	if req.PricePerSeat != nil {
		trip.PricePerSeat = *req.PricePerSeat
	}
	if req.TotalSeats != nil {
		booked := trip.BookedSeats()
		if *req.TotalSeats < booked {
			return ErrSeatsBelowBooked
		}
		trip.TotalSeats = *req.TotalSeats
		trip.AvailableSeats = trip.TotalSeats - booked
	}
	if req.Tags != nil {
		trip.Tags = normalizeTags(req.Tags)
	}
	if req.PaymentModes != nil {
		trip.PaymentModes = req.PaymentModes
	}
	if req.TripType != nil {
		trip.TripType = *req.TripType
	}
	if moved {
		trip.ArrivalTime = time.Time{}
		if req.ArrivalTime != nil {
			trip.ArrivalTime = *req.ArrivalTime
		}
		measure(trip)
	}
	return nil
}

// measure fills the trip length and, when missing, the arrival estimate.
func measure(trip *domain.Trip) {
	dep, arr := trip.Departure.Coordinates, trip.Arrival.Coordinates
	trip.DistanceKm = geo.DistanceKm(dep.Lat, dep.Lng, arr.Lat, arr.Lng)
	if trip.ArrivalTime.IsZero() && !trip.DepartureTime.IsZero() {
		minutes := geo.EstimatedDurationMinutes(trip.DistanceKm)
		trip.ArrivalTime = trip.DepartureTime.Add(time.Duration(minutes) * time.Minute)
	}
}

func validateTrip(trip *domain.Trip, now time.Time) error {
	for _, p := range []domain.Place{trip.Departure, trip.Arrival} {
		if p.Address == "" {
			return ErrInvalidLocation
		}
		if err := geo.ValidateCoordinate(p.Coordinates.Lat, p.Coordinates.Lng); err != nil {
			return ErrInvalidLocation
		}
	}
	if trip.PricePerSeat < 0 {
		return ErrInvalidPrice
	}
	if trip.TotalSeats < 1 || trip.TotalSeats > MaxSeats {
		return ErrInvalidSeats
	}
	if trip.AvailableSeats < 0 || trip.AvailableSeats > trip.TotalSeats {
		return ErrInvalidSeats
	}
	if !trip.DepartureTime.After(now) {
		return ErrInvalidSchedule
	}
	if !trip.ArrivalTime.IsZero() && !trip.ArrivalTime.After(trip.DepartureTime) {
		return ErrInvalidSchedule
	}
	for _, m := range trip.PaymentModes {
		if !m.Valid() {
			return ErrInvalidPaymentMethod
		}
	}
	switch trip.TripType {
	case domain.TripTypeOneWay, domain.TripTypeRoundTrip, domain.TripTypeRecurring:
	default:
		return ErrInvalidTripType
	}
	return nil
}

func normalizePlace(p domain.Place) domain.Place {
	p.Address = strings.TrimSpace(p.Address)
	return p
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" && !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	return out
}
