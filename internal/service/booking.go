package service

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"unigo/internal/domain"
	"unigo/internal/metrics"
	"unigo/internal/redis"
	"unigo/internal/repository"
)

// DefaultLockTTL bounds how long a crashed booking can hold a trip lock.
const DefaultLockTTL = 5 * time.Second

// Refund tiers by notice given before departure.
const (
	FullRefundNotice    = 24 * time.Hour
	PartialRefundNotice = 2 * time.Hour
)

// DriverAction is a driver's decision on a pending booking.
type DriverAction string

const (
	ActionConfirm DriverAction = "confirm"
	ActionReject  DriverAction = "reject"
)

// BookingService handles seat reservations.
type BookingService struct {
	txManager           repository.TxManager
	bookingRepo         repository.BookingRepository
	locker              redis.TripLocker
	cache               redis.TripCache
	notificationService *NotificationService
	metrics             *metrics.Collector
	log                 *slog.Logger
	lockTTL             time.Duration
	now                 func() time.Time
}

// NewBookingService creates a new BookingService. locker and cache may be nil.
func NewBookingService(
	txManager repository.TxManager,
	bookingRepo repository.BookingRepository,
	locker redis.TripLocker,
	cache redis.TripCache,
	notificationService *NotificationService,
	m *metrics.Collector,
	log *slog.Logger,
	lockTTL time.Duration,
) *BookingService {
	if lockTTL <= 0 {
		lockTTL = DefaultLockTTL
	}
	return &BookingService{
		txManager:           txManager,
		bookingRepo:         bookingRepo,
		locker:              locker,
		cache:               cache,
		notificationService: notificationService,
		metrics:             m,
		log:                 log,
		lockTTL:             lockTTL,
		now:                 time.Now,
	}
}

// BookTripRequest contains the parameters for reserving seats.
type BookTripRequest struct {
	TripID        string
	PassengerID   string
	Seats         int
	PaymentMethod domain.PaymentMode
}

// BookTrip reserves seats on a trip. The booking starts pending until the
// driver confirms it.
func (s *BookingService) BookTrip(ctx context.Context, req BookTripRequest) (*domain.Booking, error) {
	booking, err := s.bookTrip(ctx, req)
	s.metrics.BookingOutcome(bookingOutcome(err))
	return booking, err
}

func (s *BookingService) bookTrip(ctx context.Context, req BookTripRequest) (*domain.Booking, error) {
	if req.TripID == "" {
		return nil, ErrInvalidTripID
	}
	if req.PassengerID == "" {
		return nil, ErrInvalidUserID
	}
	if req.Seats < 1 || req.Seats > MaxSeats {
		return nil, ErrInvalidSeats
	}
	if !req.PaymentMethod.Valid() {
		return nil, ErrInvalidPaymentMethod
	}

	release, err := s.lock(ctx, req.TripID)
	if err != nil {
		return nil, err
	}
	defer release()

	var booking *domain.Booking
	var trip *domain.Trip
	err = s.txManager.WithinTx(ctx, func(tx repository.Tx) error {
		var err error
		trip, err = tx.Trips().GetByID(ctx, req.TripID)
		if err != nil {
			return err
		}

		now := s.now()
		switch {
		case trip.DriverID == req.PassengerID:
			return ErrOwnTrip
		case !trip.Status.Bookable() || !trip.DepartureTime.After(now):
			return ErrTripNotBookable
		case !trip.AcceptsPayment(req.PaymentMethod):
			return ErrPaymentNotAccepted
		case trip.AvailableSeats < req.Seats:
			return ErrInsufficientSeats
		}

		// Conditional decrement guards the seat count when the lock is unavailable.
		if err := tx.Trips().AdjustSeats(ctx, trip.ID, -req.Seats); err != nil {
			if errors.Is(err, repository.ErrSeatsUnavailable) {
				return ErrInsufficientSeats
			}
			return err
		}
		trip.AvailableSeats -= req.Seats

		booking = &domain.Booking{
			ID:            uuid.New().String(),
			TripID:        trip.ID,
			PassengerID:   req.PassengerID,
			Seats:         req.Seats,
			PaymentMethod: req.PaymentMethod,
			TotalPrice:    roundMAD(float64(req.Seats) * trip.PricePerSeat),
			Status:        domain.BookingStatusPending,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		return tx.Bookings().Create(ctx, booking)
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, trip.ID)
	_ = s.notificationService.NotifyBookingCreated(ctx, booking, trip)

	s.log.InfoContext(ctx, "trip booked",
		"booking_id", booking.ID,
		"trip_id", trip.ID,
		"seats", booking.Seats,
		"total_price", booking.TotalPrice,
	)
	return booking, nil
}

// CancelBooking lets the passenger or the trip's driver cancel an open
// booking. The refund depends on the notice given before departure.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID, userID, reason string) (*domain.Booking, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}
	if userID == "" {
		return nil, ErrInvalidUserID
	}

	var booking *domain.Booking
	var trip *domain.Trip
	err := s.txManager.WithinTx(ctx, func(tx repository.Tx) error {
		var err error
		booking, err = tx.Bookings().GetByID(ctx, bookingID)
		if err != nil {
			return err
		}
		trip, err = tx.Trips().GetByID(ctx, booking.TripID)
		if err != nil {
			return err
		}
		if userID != booking.PassengerID && userID != trip.DriverID {
			return ErrForbidden
		}
		if !booking.Status.Open() {
			return ErrBookingNotCancellable
		}

		now := s.now()
		percent := RefundPercent(trip.DepartureTime.Sub(now))
		if userID == trip.DriverID {
			percent = 100
		}
		cancelBooking(booking, userID, reason, percent, now)
		if err := tx.Bookings().Update(ctx, booking); err != nil {
			return err
		}
		return s.restoreSeats(ctx, tx, trip, booking.Seats)
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, trip.ID)
	_ = s.notificationService.NotifyBookingCancelled(ctx, booking, trip)
	s.metrics.BookingOutcome("cancelled")
	s.log.InfoContext(ctx, "booking cancelled",
		"booking_id", booking.ID,
		"refund_percent", booking.RefundPercent,
		"refund_amount", booking.RefundAmount,
	)
	return booking, nil
}

// DriverUpdate confirms or rejects a pending booking on the driver's trip.
func (s *BookingService) DriverUpdate(ctx context.Context, bookingID, driverID string, action DriverAction) (*domain.Booking, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}
	if driverID == "" {
		return nil, ErrInvalidUserID
	}
	if action != ActionConfirm && action != ActionReject {
		return nil, ErrInvalidAction
	}

	var booking *domain.Booking
	var trip *domain.Trip
	err := s.txManager.WithinTx(ctx, func(tx repository.Tx) error {
		var err error
		booking, err = tx.Bookings().GetByID(ctx, bookingID)
		if err != nil {
			return err
		}
		trip, err = tx.Trips().GetByID(ctx, booking.TripID)
		if err != nil {
			return err
		}
		if trip.DriverID != driverID {
			return ErrForbidden
		}
		if booking.Status != domain.BookingStatusPending {
			return ErrBookingNotPending
		}
		if trip.Status.Terminal() {
			return ErrTripEnded
		}

		now := s.now()
		if action == ActionConfirm {
			booking.Status = domain.BookingStatusConfirmed
			booking.UpdatedAt = now
			return tx.Bookings().Update(ctx, booking)
		}

		cancelBooking(booking, driverID, "rejected by driver", 100, now)
		if err := tx.Bookings().Update(ctx, booking); err != nil {
			return err
		}
		return s.restoreSeats(ctx, tx, trip, booking.Seats)
	})
	if err != nil {
		return nil, err
	}

	if action == ActionReject {
		s.invalidate(ctx, trip.ID)
	}
	_ = s.notificationService.NotifyBookingDecision(ctx, booking)
	s.metrics.BookingOutcome(string(booking.Status))
	return booking, nil
}

// ListBookings returns a passenger's bookings.
func (s *BookingService) ListBookings(ctx context.Context, userID string) ([]domain.Booking, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	return s.bookingRepo.ListByPassenger(ctx, userID)
}

// RefundPercent maps the notice before departure to a refund tier.
func RefundPercent(notice time.Duration) int {
	switch {
	case notice >= FullRefundNotice:
		return 100
	case notice >= PartialRefundNotice:
		return 50
	default:
		return 0
	}
}

// restoreSeats gives seats back unless the trip already left search.
func (s *BookingService) restoreSeats(ctx context.Context, tx repository.Tx, trip *domain.Trip, seats int) error {
	if trip.Status.Terminal() {
		return nil
	}
	if err := tx.Trips().AdjustSeats(ctx, trip.ID, seats); err != nil {
		return err
	}
	trip.AvailableSeats += seats
	return nil
}

// lock takes the per-trip booking lock. A Redis failure degrades to the
// conditional seat update alone.
func (s *BookingService) lock(ctx context.Context, tripID string) (func(), error) {
	noop := func() {}
	if s.locker == nil {
		return noop, nil
	}
	ok, err := s.locker.AcquireTripLock(ctx, tripID, s.lockTTL)
	if err != nil {
		s.log.WarnContext(ctx, "trip lock unavailable", "trip_id", tripID, "error", err)
		return noop, nil
	}
	if !ok {
		return nil, ErrTripBusy
	}
	return func() {
		if err := s.locker.ReleaseTripLock(context.WithoutCancel(ctx), tripID); err != nil {
			s.log.WarnContext(ctx, "trip lock release failed", "trip_id", tripID, "error", err)
		}
	}, nil
}

func (s *BookingService) invalidate(ctx context.Context, tripID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateTrip(ctx, tripID); err != nil {
		s.log.WarnContext(ctx, "trip cache invalidation failed", "trip_id", tripID, "error", err)
	}
}

func cancelBooking(b *domain.Booking, by, reason string, percent int, at time.Time) {
	b.Status = domain.BookingStatusCancelled
	b.CancelledAt = at
	b.CancelledBy = by
	b.CancelReason = reason
	b.RefundPercent = percent
	b.RefundAmount = roundMAD(b.TotalPrice * float64(percent) / 100)
	b.UpdatedAt = at
}

func bookingOutcome(err error) string {
	switch {
	case err == nil:
		return "created"
	case errors.Is(err, ErrInsufficientSeats):
		return "no_seats"
	case errors.Is(err, ErrTripBusy):
		return "busy"
	default:
		return "rejected"
	}
}

func roundMAD(v float64) float64 {
	return math.Round(v*100) / 100
}
