package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"unigo/internal/geo"
	"unigo/internal/geocode"
	"unigo/internal/repository"
	"unigo/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
// Unmapped errors are reported without their internal detail.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	_ = c.Error(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		msg = "internal server error"
	}
	c.JSON(code, ErrorResponse{Error: msg})
}

// respondBadRequest reports malformed input.
func respondBadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Upstream geocoding failures, ahead of an empty answer from a fallback
	case errors.Is(err, geocode.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, geocode.ErrUpstream),
		errors.Is(err, geocode.ErrNotConfigured):
		return http.StatusBadGateway

	// Not found errors
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, geocode.ErrNoResults):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidTripID),
		errors.Is(err, service.ErrInvalidBookingID),
		errors.Is(err, service.ErrInvalidUserID),
		errors.Is(err, service.ErrInvalidLocation),
		errors.Is(err, service.ErrInvalidPrice),
		errors.Is(err, service.ErrInvalidSeats),
		errors.Is(err, service.ErrInvalidSchedule),
		errors.Is(err, service.ErrInvalidPaymentMethod),
		errors.Is(err, service.ErrInvalidTripType),
		errors.Is(err, service.ErrInvalidAction),
		errors.Is(err, service.ErrInvalidRating),
		errors.Is(err, service.ErrInvalidCategory),
		errors.Is(err, service.ErrInvalidDescription),
		errors.Is(err, service.ErrSelfReview),
		errors.Is(err, geo.ErrInvalidCoordinates),
		errors.Is(err, geocode.ErrQueryTooShort):
		return http.StatusBadRequest

	// Forbidden errors
	case errors.Is(err, service.ErrForbidden),
		errors.Is(err, service.ErrOwnTrip):
		return http.StatusForbidden

	// Conflict errors
	case errors.Is(err, service.ErrTripNotBookable),
		errors.Is(err, service.ErrPaymentNotAccepted),
		errors.Is(err, service.ErrInsufficientSeats),
		errors.Is(err, service.ErrTripBusy),
		errors.Is(err, service.ErrTripNotEditable),
		errors.Is(err, service.ErrSeatsBelowBooked),
		errors.Is(err, service.ErrTripHasBookings),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrBookingNotCancellable),
		errors.Is(err, service.ErrBookingNotPending),
		errors.Is(err, service.ErrTripEnded),
		errors.Is(err, service.ErrTripNotCompleted),
		errors.Is(err, service.ErrAlreadyReviewed),
		errors.Is(err, repository.ErrDuplicate):
		return http.StatusConflict

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
