package tests

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unigo/internal/domain"
	"unigo/internal/events"
	"unigo/internal/service"
)

// ──────────────────────────────────────────────
// 1. BOOKING CREATION
// ──────────────────────────────────────────────

func TestBookTrip_CreatesPendingBooking(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	e.openTrip("trip-1", "driver-1", 4, 15)

	booking, err := e.bookingService.BookTrip(context.Background(), service.BookTripRequest{
		TripID: "trip-1", PassengerID: "p-1", Seats: 2, PaymentMethod: domain.PaymentModeCash,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.BookingStatusPending, booking.Status)
	assert.Equal(t, 30.0, booking.TotalPrice)
	assert.Equal(t, 2, e.trips.GetTrip("trip-1").AvailableSeats)
	assert.False(t, e.locks.IsLocked("trip-1"), "lock released after booking")
	assert.Equal(t, []events.Type{events.BookingCreated}, e.publisher.Types())
	assert.Equal(t, 1.0, testutil.ToFloat64(e.metrics.Bookings.WithLabelValues("created")))
}

func TestBookTrip_Rejections(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		setup func(*testEnv)
		req   service.BookTripRequest
		want  error
	}{
		{
			name: "own trip",
			req:  service.BookTripRequest{TripID: "trip-1", PassengerID: "driver-1", Seats: 1, PaymentMethod: domain.PaymentModeCash},
			want: service.ErrOwnTrip,
		},
		{
			name: "payment not accepted",
			req:  service.BookTripRequest{TripID: "trip-1", PassengerID: "p-1", Seats: 1, PaymentMethod: domain.PaymentModeUniCard},
			want: service.ErrPaymentNotAccepted,
		},
		{
			name: "not enough seats",
			req:  service.BookTripRequest{TripID: "trip-1", PassengerID: "p-1", Seats: 5, PaymentMethod: domain.PaymentModeCash},
			want: service.ErrInsufficientSeats,
		},
		{
			name: "trip already started",
			setup: func(e *testEnv) {
				trip := e.trips.GetTrip("trip-1")
				trip.Status = domain.TripStatusActive
			},
			req:  service.BookTripRequest{TripID: "trip-1", PassengerID: "p-1", Seats: 1, PaymentMethod: domain.PaymentModeCash},
			want: service.ErrTripNotBookable,
		},
		{
			name: "departure passed",
			setup: func(e *testEnv) {
				trip := e.trips.GetTrip("trip-1")
				trip.DepartureTime = time.Now().Add(-time.Minute)
			},
			req:  service.BookTripRequest{TripID: "trip-1", PassengerID: "p-1", Seats: 1, PaymentMethod: domain.PaymentModeCash},
			want: service.ErrTripNotBookable,
		},
		{
			name:  "lock held",
			setup: func(e *testEnv) { e.locks.ForceAcquireFailure = true },
			req:   service.BookTripRequest{TripID: "trip-1", PassengerID: "p-1", Seats: 1, PaymentMethod: domain.PaymentModeCash},
			want:  service.ErrTripBusy,
		},
		{
			name: "zero seats",
			req:  service.BookTripRequest{TripID: "trip-1", PassengerID: "p-1", Seats: 0, PaymentMethod: domain.PaymentModeCash},
			want: service.ErrInvalidSeats,
		},
		{
			name: "unknown payment",
			req:  service.BookTripRequest{TripID: "trip-1", PassengerID: "p-1", Seats: 1, PaymentMethod: "card"},
			want: service.ErrInvalidPaymentMethod,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEnv(t)
			e.openTrip("trip-1", "driver-1", 4, 15)
			if tc.setup != nil {
				tc.setup(e)
			}

			_, err := e.bookingService.BookTrip(context.Background(), tc.req)

			assert.ErrorIs(t, err, tc.want)
			assert.Equal(t, 0, e.bookings.CountBookings())
			assert.Equal(t, 4, e.trips.GetTrip("trip-1").AvailableSeats)
		})
	}
}

func TestBookTrip_MixedAcceptsEitherMethod(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	trip := e.openTrip("trip-1", "driver-1", 4, 15)
	trip.PaymentModes = []domain.PaymentMode{domain.PaymentModeMixed}
	e.trips.AddTrip(trip)

	for _, method := range []domain.PaymentMode{domain.PaymentModeCash, domain.PaymentModeUniCard} {
		_, err := e.bookingService.BookTrip(context.Background(), service.BookTripRequest{
			TripID: "trip-1", PassengerID: "p-" + string(method), Seats: 1, PaymentMethod: method,
		})
		assert.NoError(t, err, method)
	}
}

func TestBookTrip_RedisDownFallsBackToConditionalUpdate(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	e.openTrip("trip-1", "driver-1", 1, 15)
	e.locks.AcquireError = ErrMockRedis

	_, err := e.bookingService.BookTrip(context.Background(), service.BookTripRequest{
		TripID: "trip-1", PassengerID: "p-1", Seats: 1, PaymentMethod: domain.PaymentModeCash,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 0, e.locks.ReleaseCallCount)
}

func TestBookTrip_CreateFailureRestoresSeats(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	e.openTrip("trip-1", "driver-1", 4, 15)
	e.bookings.CreateError = ErrMockDBConnection

	_, err := e.bookingService.BookTrip(context.Background(), service.BookTripRequest{
		TripID: "trip-1", PassengerID: "p-1", Seats: 2, PaymentMethod: domain.PaymentModeCash,
	})

	assert.ErrorIs(t, err, ErrMockDBConnection)
	assert.Equal(t, 4, e.trips.GetTrip("trip-1").AvailableSeats)
	assert.False(t, e.locks.IsLocked("trip-1"))
}

func TestBookTrip_ConcurrentRequestsNeverOversell(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	e.openTrip("trip-1", "driver-1", 3, 15)

	const passengers = 10
	var wg sync.WaitGroup
	var booked, refused atomic.Int32
	for i := 0; i < passengers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := e.bookingService.BookTrip(context.Background(), service.BookTripRequest{
				TripID: "trip-1", PassengerID: "p-" + string(rune('a'+i)), Seats: 1, PaymentMethod: domain.PaymentModeCash,
			})
			switch {
			case err == nil:
				booked.Add(1)
			case errors.Is(err, service.ErrTripBusy), errors.Is(err, service.ErrInsufficientSeats):
				refused.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, booked.Load(), int32(3))
	assert.Equal(t, int32(passengers), booked.Load()+refused.Load())
	trip := e.trips.GetTrip("trip-1")
	assert.Equal(t, 3-int(booked.Load()), trip.AvailableSeats)
	assert.GreaterOrEqual(t, trip.AvailableSeats, 0)
}

// ──────────────────────────────────────────────
// 2. CANCELLATION AND REFUNDS
// ──────────────────────────────────────────────

func TestRefundPercent_Tiers(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		notice time.Duration
		want   int
	}{
		{72 * time.Hour, 100},
		{24 * time.Hour, 100},
		{24*time.Hour - time.Second, 50},
		{2 * time.Hour, 50},
		{2*time.Hour - time.Second, 0},
		{-time.Hour, 0},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, service.RefundPercent(tc.notice), tc.notice.String())
	}
}

func TestCancelBooking_PassengerGetsTieredRefund(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		departsIn time.Duration
		percent   int
		amount    float64
	}{
		{"two days ahead", 48 * time.Hour, 100, 40},
		{"same day", 5 * time.Hour, 50, 20},
		{"last minute", 30 * time.Minute, 0, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEnv(t)
			trip := e.openTrip("trip-1", "driver-1", 4, 20)
			trip.AvailableSeats = 2
			trip.DepartureTime = time.Now().Add(tc.departsIn)
			e.trips.AddTrip(trip)
			e.bookings.AddBooking(&domain.Booking{ID: "b-1", TripID: "trip-1", PassengerID: "p-1", Seats: 2, TotalPrice: 40, Status: domain.BookingStatusConfirmed})

			b, err := e.bookingService.CancelBooking(context.Background(), "b-1", "p-1", "plans changed")
			require.NoError(t, err)

			assert.Equal(t, domain.BookingStatusCancelled, b.Status)
			assert.Equal(t, tc.percent, b.RefundPercent)
			assert.Equal(t, tc.amount, b.RefundAmount)
			assert.Equal(t, 4, e.trips.GetTrip("trip-1").AvailableSeats)
		})
	}
}

func TestCancelBooking_DriverCancellationRefundsInFull(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	trip := e.openTrip("trip-1", "driver-1", 4, 20)
	trip.DepartureTime = time.Now().Add(30 * time.Minute)
	trip.AvailableSeats = 3
	e.trips.AddTrip(trip)
	e.bookings.AddBooking(&domain.Booking{ID: "b-1", TripID: "trip-1", PassengerID: "p-1", Seats: 1, TotalPrice: 20, Status: domain.BookingStatusPending})

	b, err := e.bookingService.CancelBooking(context.Background(), "b-1", "driver-1", "")
	require.NoError(t, err)

	assert.Equal(t, 100, b.RefundPercent)
	last, _ := e.publisher.Last()
	n := last.Payload.(service.Notification)
	assert.Equal(t, []string{"p-1"}, n.RecipientIDs)
}

func TestCancelBooking_Guards(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	e.openTrip("trip-1", "driver-1", 4, 20)
	e.bookings.AddBooking(&domain.Booking{ID: "b-open", TripID: "trip-1", PassengerID: "p-1", Seats: 1, Status: domain.BookingStatusPending})
	e.bookings.AddBooking(&domain.Booking{ID: "b-done", TripID: "trip-1", PassengerID: "p-1", Seats: 1, Status: domain.BookingStatusCancelled})

	_, err := e.bookingService.CancelBooking(context.Background(), "b-open", "stranger", "")
	assert.ErrorIs(t, err, service.ErrForbidden)

	_, err = e.bookingService.CancelBooking(context.Background(), "b-done", "p-1", "")
	assert.ErrorIs(t, err, service.ErrBookingNotCancellable)

	_, err = e.bookingService.CancelBooking(context.Background(), "", "p-1", "")
	assert.ErrorIs(t, err, service.ErrInvalidBookingID)
}

// ──────────────────────────────────────────────
// 3. DRIVER DECISIONS
// ──────────────────────────────────────────────

func TestDriverUpdate_ConfirmAndReject(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	trip := e.openTrip("trip-1", "driver-1", 4, 15)
	trip.AvailableSeats = 1
	e.trips.AddTrip(trip)
	e.bookings.AddBooking(&domain.Booking{ID: "b-1", TripID: "trip-1", PassengerID: "p-1", Seats: 1, TotalPrice: 15, Status: domain.BookingStatusPending})
	e.bookings.AddBooking(&domain.Booking{ID: "b-2", TripID: "trip-1", PassengerID: "p-2", Seats: 2, TotalPrice: 30, Status: domain.BookingStatusPending})
	ctx := context.Background()

	confirmed, err := e.bookingService.DriverUpdate(ctx, "b-1", "driver-1", service.ActionConfirm)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusConfirmed, confirmed.Status)

	rejected, err := e.bookingService.DriverUpdate(ctx, "b-2", "driver-1", service.ActionReject)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCancelled, rejected.Status)
	assert.Equal(t, 100, rejected.RefundPercent)
	assert.Equal(t, 30.0, rejected.RefundAmount)
	assert.Equal(t, 3, e.trips.GetTrip("trip-1").AvailableSeats)

	_, err = e.bookingService.DriverUpdate(ctx, "b-1", "driver-1", service.ActionReject)
	assert.ErrorIs(t, err, service.ErrBookingNotPending)

	assert.Equal(t, []events.Type{events.BookingConfirmed, events.BookingRejected}, e.publisher.Types())
}

func TestDriverUpdate_Guards(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	e.openTrip("trip-1", "driver-1", 4, 15)
	e.bookings.AddBooking(&domain.Booking{ID: "b-1", TripID: "trip-1", PassengerID: "p-1", Seats: 1, Status: domain.BookingStatusPending})

	_, err := e.bookingService.DriverUpdate(context.Background(), "b-1", "driver-2", service.ActionConfirm)
	assert.ErrorIs(t, err, service.ErrForbidden)

	_, err = e.bookingService.DriverUpdate(context.Background(), "b-1", "driver-1", "maybe")
	assert.ErrorIs(t, err, service.ErrInvalidAction)
}

func TestDriverUpdate_EndedTrip(t *testing.T) {
	t.Parallel()

	for _, status := range []domain.TripStatus{domain.TripStatusCompleted, domain.TripStatusCancelled} {
		t.Run(string(status), func(t *testing.T) {
			t.Parallel()
			e := newTestEnv(t)
			trip := e.openTrip("trip-1", "driver-1", 4, 15)
			trip.Status = status
			e.trips.AddTrip(trip)
			e.bookings.AddBooking(&domain.Booking{ID: "b-1", TripID: "trip-1", PassengerID: "p-1", Seats: 1, Status: domain.BookingStatusPending})

			_, err := e.bookingService.DriverUpdate(context.Background(), "b-1", "driver-1", service.ActionConfirm)

			assert.ErrorIs(t, err, service.ErrTripEnded)
			assert.Equal(t, domain.BookingStatusPending, e.bookings.GetBooking("b-1").Status)
			assert.Empty(t, e.publisher.Types())
		})
	}
}

func TestListBookings_ReturnsPassengerHistory(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	e.bookings.AddBooking(&domain.Booking{ID: "b-1", PassengerID: "p-1", CreatedAt: time.Now().Add(-time.Hour)})
	e.bookings.AddBooking(&domain.Booking{ID: "b-2", PassengerID: "p-1", CreatedAt: time.Now()})
	e.bookings.AddBooking(&domain.Booking{ID: "b-3", PassengerID: "p-2"})

	list, err := e.bookingService.ListBookings(context.Background(), "p-1")
	require.NoError(t, err)

	require.Len(t, list, 2)
	assert.Equal(t, "b-2", list[0].ID)
}
