package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"unigo/internal/domain"
	"unigo/internal/middleware"
	"unigo/internal/service"
)

// BookingHandler handles HTTP requests for bookings.
type BookingHandler struct {
	bookings BookingUseCase
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bookings BookingUseCase) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

// BookTripRequest is the body of POST /api/trips/:id/book.
type BookTripRequest struct {
	Seats         int                `json:"seats" binding:"required,min=1"`
	PaymentMethod domain.PaymentMode `json:"payment_method" binding:"required"`
}

// BookTrip handles POST /api/trips/:id/book
func (h *BookingHandler) BookTrip(c *gin.Context) {
	var req BookTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	booking, err := h.bookings.BookTrip(c.Request.Context(), service.BookTripRequest{
		TripID:        c.Param("id"),
		PassengerID:   middleware.UserID(c),
		Seats:         req.Seats,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusCreated, toBookingResponse(booking))
}

// ListBookings handles GET /api/bookings
func (h *BookingHandler) ListBookings(c *gin.Context) {
	bookings, err := h.bookings.ListBookings(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]BookingResponse, len(bookings))
	for i := range bookings {
		out[i] = toBookingResponse(&bookings[i])
	}
	respondJSON(c, http.StatusOK, gin.H{"bookings": out, "count": len(out)})
}

// CancelBooking handles PUT /api/bookings/:id/cancel
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	var req reasonRequest
	_ = c.ShouldBindJSON(&req)

	booking, err := h.bookings.CancelBooking(c.Request.Context(), c.Param("id"), middleware.UserID(c), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toBookingResponse(booking))
}

// DriverUpdateRequest is the body of PUT /api/bookings/:id/driver-update.
type DriverUpdateRequest struct {
	Action service.DriverAction `json:"action" binding:"required,oneof=confirm reject"`
}

// DriverUpdate handles PUT /api/bookings/:id/driver-update
func (h *BookingHandler) DriverUpdate(c *gin.Context) {
	var req DriverUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "action must be confirm or reject")
		return
	}

	booking, err := h.bookings.DriverUpdate(c.Request.Context(), c.Param("id"), middleware.UserID(c), req.Action)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toBookingResponse(booking))
}
