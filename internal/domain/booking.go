package domain

import "time"

// BookingStatus represents the current state of a reservation.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

// Open reports whether the booking still holds seats.
func (s BookingStatus) Open() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed
}

// Booking is a passenger's claim on seats of a trip.
type Booking struct {
	ID            string
	TripID        string
	PassengerID   string
	Seats         int
	PaymentMethod PaymentMode
	TotalPrice    float64
	Status        BookingStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Cancellation metadata.
	CancelledAt   time.Time
	CancelledBy   string
	CancelReason  string
	RefundPercent int
	RefundAmount  float64
}
