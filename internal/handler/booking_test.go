package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"unigo/internal/domain"
	"unigo/internal/service"
)

func sampleBooking() *domain.Booking {
	return &domain.Booking{
		ID:            "booking-1",
		TripID:        "trip-1",
		PassengerID:   "passenger-1",
		Seats:         2,
		PaymentMethod: domain.PaymentModeCash,
		TotalPrice:    30,
		Status:        domain.BookingStatusPending,
		CreatedAt:     time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestBookingHandler_BookTrip(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	input := BookTripRequest{Seats: 2, PaymentMethod: domain.PaymentModeCash}
	c, w := newTestContext(http.MethodPost, "/api/trips/trip-1/book", input, "passenger-1")
	c.Params = gin.Params{{Key: "id", Value: "trip-1"}}

	expected := service.BookTripRequest{
		TripID:        "trip-1",
		PassengerID:   "passenger-1",
		Seats:         2,
		PaymentMethod: domain.PaymentModeCash,
	}
	mockService.On("BookTrip", mock.Anything, expected).Return(sampleBooking(), nil)

	handler.BookTrip(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var response BookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "booking-1", response.ID)
	assert.Equal(t, domain.BookingStatusPending, response.Status)
	assert.Equal(t, 30.0, response.TotalPrice)
	assert.Empty(t, response.CancelledAt)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_BookTrip_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		body    any
		err     error
		want    int
		reaches bool
	}{
		{"zero seats", map[string]any{"seats": 0, "payment_method": "cash"}, nil, http.StatusBadRequest, false},
		{"no payment method", map[string]any{"seats": 1}, nil, http.StatusBadRequest, false},
		{"sold out", BookTripRequest{Seats: 4, PaymentMethod: domain.PaymentModeCash}, service.ErrInsufficientSeats, http.StatusConflict, true},
		{"own trip", BookTripRequest{Seats: 1, PaymentMethod: domain.PaymentModeCash}, service.ErrOwnTrip, http.StatusForbidden, true},
		{"locked", BookTripRequest{Seats: 1, PaymentMethod: domain.PaymentModeCash}, service.ErrTripBusy, http.StatusConflict, true},
		{"bad payment", BookTripRequest{Seats: 1, PaymentMethod: "card"}, service.ErrInvalidPaymentMethod, http.StatusBadRequest, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockService := &MockBookingUseCase{}
			handler := NewBookingHandler(mockService)
			if tc.reaches {
				mockService.On("BookTrip", mock.Anything, mock.Anything).Return(nil, tc.err)
			}

			c, w := newTestContext(http.MethodPost, "/api/trips/trip-1/book", tc.body, "passenger-1")
			c.Params = gin.Params{{Key: "id", Value: "trip-1"}}
			handler.BookTrip(c)

			assert.Equal(t, tc.want, w.Code)
			if !tc.reaches {
				mockService.AssertNotCalled(t, "BookTrip", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestBookingHandler_CancelBooking(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	cancelled := sampleBooking()
	cancelled.Status = domain.BookingStatusCancelled
	cancelled.CancelledAt = time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC)
	cancelled.CancelReason = "exam moved"
	cancelled.RefundPercent = 50
	cancelled.RefundAmount = 15

	mockService.On("CancelBooking", mock.Anything, "booking-1", "passenger-1", "exam moved").Return(cancelled, nil)
	mockService.On("CancelBooking", mock.Anything, "booking-2", "passenger-1", "").Return(nil, service.ErrBookingNotCancellable)

	c, w := newTestContext(http.MethodPut, "/api/bookings/booking-1/cancel", map[string]string{"reason": "exam moved"}, "passenger-1")
	c.Params = gin.Params{{Key: "id", Value: "booking-1"}}
	handler.CancelBooking(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var response BookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 50, response.RefundPercent)
	assert.Equal(t, 15.0, response.RefundAmount)
	assert.Equal(t, "2025-03-02T09:00:00Z", response.CancelledAt)

	c, w = newTestContext(http.MethodPut, "/api/bookings/booking-2/cancel", nil, "passenger-1")
	c.Params = gin.Params{{Key: "id", Value: "booking-2"}}
	handler.CancelBooking(c)
	assert.Equal(t, http.StatusConflict, w.Code)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_DriverUpdate(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	confirmed := sampleBooking()
	confirmed.Status = domain.BookingStatusConfirmed
	mockService.On("DriverUpdate", mock.Anything, "booking-1", "driver-1", service.ActionConfirm).Return(confirmed, nil)

	c, w := newTestContext(http.MethodPut, "/api/bookings/booking-1/driver-update", map[string]string{"action": "confirm"}, "driver-1")
	c.Params = gin.Params{{Key: "id", Value: "booking-1"}}
	handler.DriverUpdate(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"confirmed"`)

	c, w = newTestContext(http.MethodPut, "/api/bookings/booking-1/driver-update", map[string]string{"action": "ignore"}, "driver-1")
	c.Params = gin.Params{{Key: "id", Value: "booking-1"}}
	handler.DriverUpdate(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_ListBookings(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	mockService.On("ListBookings", mock.Anything, "passenger-1").Return([]domain.Booking{*sampleBooking()}, nil)

	c, w := newTestContext(http.MethodGet, "/api/bookings", nil, "passenger-1")
	handler.ListBookings(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var response struct {
		Bookings []BookingResponse `json:"bookings"`
		Count    int               `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 1, response.Count)
	assert.Equal(t, "trip-1", response.Bookings[0].TripID)

	mockService.AssertExpectations(t)
}
