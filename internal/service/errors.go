package service

import "errors"

var (
	// ErrInvalidTripID is returned when trip ID is empty.
	ErrInvalidTripID = errors.New("invalid trip id")

	// ErrInvalidBookingID is returned when booking ID is empty.
	ErrInvalidBookingID = errors.New("invalid booking id")

	// ErrInvalidUserID is returned when a passenger, driver or reviewer ID is empty.
	ErrInvalidUserID = errors.New("invalid user id")

	// ErrInvalidLocation is returned when an address is empty or coordinates are out of range.
	ErrInvalidLocation = errors.New("invalid location")

	// ErrInvalidPrice is returned when a price is negative.
	ErrInvalidPrice = errors.New("invalid price")

	// ErrInvalidSeats is returned when a seat count is out of range.
	ErrInvalidSeats = errors.New("invalid seat count")

	// ErrInvalidSchedule is returned when departure is in the past or arrival precedes it.
	ErrInvalidSchedule = errors.New("invalid schedule")

	// ErrInvalidPaymentMethod is returned when payment method is invalid.
	ErrInvalidPaymentMethod = errors.New("invalid payment method")

	// ErrInvalidTripType is returned when the trip type is unknown.
	ErrInvalidTripType = errors.New("invalid trip type")

	// ErrInvalidAction is returned when a driver booking action is unknown.
	ErrInvalidAction = errors.New("invalid action")

	// ErrForbidden is returned when the caller does not own the resource.
	ErrForbidden = errors.New("not allowed to modify this resource")

	// ErrTripNotBookable is returned when the trip is not open for booking.
	ErrTripNotBookable = errors.New("trip is not open for booking")

	// ErrOwnTrip is returned when a driver tries to book their own trip.
	ErrOwnTrip = errors.New("cannot book your own trip")

	// ErrPaymentNotAccepted is returned when the trip does not accept the payment method.
	ErrPaymentNotAccepted = errors.New("payment method not accepted for this trip")

	// ErrInsufficientSeats is returned when fewer seats are available than requested.
	ErrInsufficientSeats = errors.New("not enough seats available")

	// ErrTripBusy is returned when another booking holds the trip lock.
	ErrTripBusy = errors.New("trip is being booked, try again")

	// ErrTripNotEditable is returned when updating a trip that already started or ended.
	ErrTripNotEditable = errors.New("trip can no longer be edited")

	// ErrSeatsBelowBooked is returned when total seats would drop below seats already booked.
	ErrSeatsBelowBooked = errors.New("total seats below seats already booked")

	// ErrTripHasBookings is returned when deleting a trip with open bookings.
	ErrTripHasBookings = errors.New("trip has active bookings")

	// ErrInvalidTransition is returned when the trip status does not allow the transition.
	ErrInvalidTransition = errors.New("invalid trip status transition")

	// ErrBookingNotCancellable is returned when the booking is already closed.
	ErrBookingNotCancellable = errors.New("booking cannot be cancelled in current state")

	// ErrBookingNotPending is returned when a driver acts on a non-pending booking.
	ErrBookingNotPending = errors.New("booking is not pending")

	// ErrTripEnded is returned when a driver acts on a booking of a completed or cancelled trip.
	ErrTripEnded = errors.New("trip has already ended")

	// ErrTripNotCompleted is returned when reviewing a trip that has not been completed.
	ErrTripNotCompleted = errors.New("trip not completed")

	// ErrAlreadyReviewed is returned when the reviewer already reviewed the trip.
	ErrAlreadyReviewed = errors.New("trip already reviewed")

	// ErrSelfReview is returned when reviewer and reviewee are the same user.
	ErrSelfReview = errors.New("cannot review yourself")

	// ErrInvalidRating is returned when a rating is outside 1..5.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")

	// ErrInvalidCategory is returned when an incident category is unknown.
	ErrInvalidCategory = errors.New("invalid incident category")

	// ErrInvalidDescription is returned when an incident has no description.
	ErrInvalidDescription = errors.New("description is required")
)
