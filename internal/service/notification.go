package service

import (
	"context"
	"fmt"

	"unigo/internal/domain"
	"unigo/internal/events"
)

// Notification is the payload carried by every published event.
type Notification struct {
	RecipientIDs []string       `json:"recipient_ids"`
	Title        string         `json:"title"`
	Message      string         `json:"message"`
	Data         map[string]any `json:"data"`
}

// NotificationService turns domain changes into events for the broker.
// Delivery to devices happens downstream of the broker.
type NotificationService struct {
	publisher events.Publisher
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(publisher events.Publisher) *NotificationService {
	return &NotificationService{publisher: publisher}
}

// NotifyTripPublished announces a new trip offer.
func (s *NotificationService) NotifyTripPublished(ctx context.Context, trip *domain.Trip) error {
	return s.send(ctx, events.TripPublished, trip.ID, Notification{
		Title:   "New trip",
		Message: fmt.Sprintf("%s → %s at %s", trip.Departure.Address, trip.Arrival.Address, trip.DepartureTime.Format("15:04")),
		Data:    tripData(trip),
	})
}

// NotifyTripChanged tells booked passengers the trip was updated, deleted,
// started or completed.
func (s *NotificationService) NotifyTripChanged(ctx context.Context, t events.Type, trip *domain.Trip, passengerIDs []string) error {
	var msg string
	switch t {
	case events.TripStarted:
		msg = "Your trip has started. Enjoy your ride!"
	case events.TripCompleted:
		msg = "Your trip is complete. You can now leave a review."
	case events.TripDeleted:
		msg = "A trip you were following has been removed."
	default:
		msg = "The driver has updated the trip details."
	}
	return s.send(ctx, t, trip.ID, Notification{
		RecipientIDs: passengerIDs,
		Title:        "Trip update",
		Message:      msg,
		Data:         tripData(trip),
	})
}

// NotifyTripCancelled tells every passenger whose booking was refunded.
func (s *NotificationService) NotifyTripCancelled(ctx context.Context, trip *domain.Trip, cancelled []domain.Booking, reason string) error {
	ids := make([]string, 0, len(cancelled))
	refunds := make(map[string]float64, len(cancelled))
	for _, b := range cancelled {
		ids = append(ids, b.PassengerID)
		refunds[b.ID] = b.RefundAmount
	}
	data := tripData(trip)
	data["reason"] = reason
	data["refunds"] = refunds
	return s.send(ctx, events.TripCancelled, trip.ID, Notification{
		RecipientIDs: ids,
		Title:        "Trip cancelled",
		Message:      "The driver cancelled the trip. Your booking has been fully refunded.",
		Data:         data,
	})
}

// NotifyBookingCreated tells the driver a seat request is waiting.
func (s *NotificationService) NotifyBookingCreated(ctx context.Context, booking *domain.Booking, trip *domain.Trip) error {
	return s.send(ctx, events.BookingCreated, trip.ID, Notification{
		RecipientIDs: []string{trip.DriverID},
		Title:        "New booking request",
		Message:      fmt.Sprintf("%d seat(s) requested, %.2f MAD by %s", booking.Seats, booking.TotalPrice, booking.PaymentMethod),
		Data:         bookingData(booking),
	})
}

// NotifyBookingCancelled tells the other party that a booking was cancelled.
func (s *NotificationService) NotifyBookingCancelled(ctx context.Context, booking *domain.Booking, trip *domain.Trip) error {
	recipient := trip.DriverID
	msg := "A passenger cancelled their booking."
	if booking.CancelledBy != booking.PassengerID {
		recipient = booking.PassengerID
		msg = "Your booking was cancelled."
	}
	return s.send(ctx, events.BookingCancelled, trip.ID, Notification{
		RecipientIDs: []string{recipient},
		Title:        "Booking cancelled",
		Message:      msg,
		Data:         bookingData(booking),
	})
}

// NotifyBookingDecision tells the passenger whether the driver accepted.
func (s *NotificationService) NotifyBookingDecision(ctx context.Context, booking *domain.Booking) error {
	t, msg := events.BookingConfirmed, "Your booking has been confirmed."
	if booking.Status == domain.BookingStatusCancelled {
		t, msg = events.BookingRejected, "The driver declined your booking. You have been fully refunded."
	}
	return s.send(ctx, t, booking.TripID, Notification{
		RecipientIDs: []string{booking.PassengerID},
		Title:        "Booking update",
		Message:      msg,
		Data:         bookingData(booking),
	})
}

// NotifyReviewCreated tells the reviewee; low ratings also go to moderation.
func (s *NotificationService) NotifyReviewCreated(ctx context.Context, review *domain.Review) error {
	n := Notification{
		RecipientIDs: []string{review.RevieweeID},
		Title:        "New review",
		Message:      fmt.Sprintf("You received a %d-star review.", review.Rating),
		Data: map[string]any{
			"review_id": review.ID,
			"trip_id":   review.TripID,
			"rating":    review.Rating,
			"flagged":   review.Flagged,
		},
	}
	if err := s.send(ctx, events.ReviewCreated, review.TripID, n); err != nil {
		return err
	}
	if !review.Flagged {
		return nil
	}
	n.RecipientIDs = nil
	n.Title = "Review flagged"
	return s.send(ctx, events.ReviewFlagged, review.TripID, n)
}

// NotifyIncidentReported forwards an incident to moderation.
func (s *NotificationService) NotifyIncidentReported(ctx context.Context, incident *domain.Incident) error {
	return s.send(ctx, events.IncidentReported, incident.TripID, Notification{
		Title:   "Incident reported",
		Message: fmt.Sprintf("%s incident on trip %s", incident.Category, incident.TripID),
		Data: map[string]any{
			"incident_id": incident.ID,
			"trip_id":     incident.TripID,
			"reporter_id": incident.ReporterID,
			"category":    incident.Category,
			"severity":    incident.Severity,
		},
	})
}

func (s *NotificationService) send(ctx context.Context, t events.Type, key string, n Notification) error {
	if s == nil || s.publisher == nil {
		return nil
	}
	return s.publisher.Publish(ctx, events.New(t, key, n))
}

func tripData(trip *domain.Trip) map[string]any {
	return map[string]any{
		"trip_id":         trip.ID,
		"driver_id":       trip.DriverID,
		"departure":       trip.Departure.Address,
		"arrival":         trip.Arrival.Address,
		"departure_time":  trip.DepartureTime,
		"price_per_seat":  trip.PricePerSeat,
		"available_seats": trip.AvailableSeats,
		"status":          trip.Status,
	}
}

func bookingData(b *domain.Booking) map[string]any {
	return map[string]any{
		"booking_id":     b.ID,
		"trip_id":        b.TripID,
		"passenger_id":   b.PassengerID,
		"seats":          b.Seats,
		"total_price":    b.TotalPrice,
		"status":         b.Status,
		"refund_percent": b.RefundPercent,
		"refund_amount":  b.RefundAmount,
	}
}
