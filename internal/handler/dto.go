package handler

import (
	"time"

	"unigo/internal/domain"
	"unigo/internal/search"
)

// DriverInfo is the public driver profile embedded in trip responses.
type DriverInfo struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Gender         string  `json:"gender,omitempty"`
	Rating         float64 `json:"rating"`
	CompletedTrips int     `json:"completed_trips"`
	Verified       bool    `json:"verified"`
}

// TripResponse is the HTTP representation of a trip.
type TripResponse struct {
	ID             string               `json:"id"`
	DriverID       string               `json:"driver_id"`
	Driver         *DriverInfo          `json:"driver,omitempty"`
	Departure      domain.Place         `json:"departure"`
	Arrival        domain.Place         `json:"arrival"`
	DepartureTime  string               `json:"departure_time"`
	ArrivalTime    string               `json:"arrival_time,omitempty"`
	PricePerSeat   float64              `json:"price_per_seat"`
	TotalSeats     int                  `json:"total_seats"`
	AvailableSeats int                  `json:"available_seats"`
	Tags           []string             `json:"tags"`
	PaymentModes   []domain.PaymentMode `json:"payment_modes"`
	TripType       domain.TripType      `json:"trip_type"`
	DistanceKm     float64              `json:"distance_km"`
	UniversityID   string               `json:"university_id,omitempty"`
	Status         domain.TripStatus    `json:"status"`
	CreatedAt      string               `json:"created_at,omitempty"`
	UpdatedAt      string               `json:"updated_at,omitempty"`
}

// SearchResultResponse is one search hit.
type SearchResultResponse struct {
	TripResponse
	Distance        float64 `json:"distance"`
	DistanceLabel   string  `json:"distance_label"`
	DurationMinutes int     `json:"estimated_duration_minutes"`
}

// SearchResponse wraps search hits with the source they were read from.
type SearchResponse struct {
	Trips  []SearchResultResponse `json:"trips"`
	Count  int                    `json:"count"`
	Source string                 `json:"source"`
}

// BookingResponse is the HTTP representation of a booking.
type BookingResponse struct {
	ID            string               `json:"id"`
	TripID        string               `json:"trip_id"`
	PassengerID   string               `json:"passenger_id"`
	Seats         int                  `json:"seats"`
	PaymentMethod domain.PaymentMode   `json:"payment_method"`
	TotalPrice    float64              `json:"total_price"`
	Status        domain.BookingStatus `json:"status"`
	CreatedAt     string               `json:"created_at"`
	CancelledAt   string               `json:"cancelled_at,omitempty"`
	CancelReason  string               `json:"cancel_reason,omitempty"`
	RefundPercent int                  `json:"refund_percent,omitempty"`
	RefundAmount  float64              `json:"refund_amount,omitempty"`
}

// ReviewResponse is the HTTP representation of a review.
type ReviewResponse struct {
	ID         string `json:"id"`
	TripID     string `json:"trip_id"`
	ReviewerID string `json:"reviewer_id"`
	RevieweeID string `json:"reviewee_id"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment,omitempty"`
	Flagged    bool   `json:"flagged"`
	CreatedAt  string `json:"created_at"`
}

// IncidentResponse is the HTTP representation of an incident report.
type IncidentResponse struct {
	ID        string                  `json:"id"`
	TripID    string                  `json:"trip_id"`
	Category  domain.IncidentCategory `json:"category"`
	Severity  domain.IncidentSeverity `json:"severity"`
	CreatedAt string                  `json:"created_at"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func toTripResponse(t *domain.Trip) TripResponse {
	resp := TripResponse{
		ID:             t.ID,
		DriverID:       t.DriverID,
		Departure:      t.Departure,
		Arrival:        t.Arrival,
		DepartureTime:  formatTime(t.DepartureTime),
		ArrivalTime:    formatTime(t.ArrivalTime),
		PricePerSeat:   t.PricePerSeat,
		TotalSeats:     t.TotalSeats,
		AvailableSeats: t.AvailableSeats,
		Tags:           t.Tags,
		PaymentModes:   t.PaymentModes,
		TripType:       t.TripType,
		DistanceKm:     t.DistanceKm,
		UniversityID:   t.UniversityID,
		Status:         t.Status,
		CreatedAt:      formatTime(t.CreatedAt),
		UpdatedAt:      formatTime(t.UpdatedAt),
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	if d := t.Driver; d != nil {
		resp.Driver = &DriverInfo{
			ID:             d.ID,
			Name:           d.Name,
			Gender:         d.Gender,
			Rating:         d.Rating,
			CompletedTrips: d.CompletedTrips,
			Verified:       d.Verified(),
		}
	}
	return resp
}

func toTripResponses(trips []domain.Trip) []TripResponse {
	out := make([]TripResponse, len(trips))
	for i := range trips {
		out[i] = toTripResponse(&trips[i])
	}
	return out
}

func toSearchResponse(results []search.Result, source string) SearchResponse {
	out := make([]SearchResultResponse, len(results))
	for i := range results {
		r := &results[i]
		out[i] = SearchResultResponse{
			TripResponse:    toTripResponse(&r.Trip),
			Distance:        r.DistanceKm,
			DistanceLabel:   r.DistanceLabel,
			DurationMinutes: r.DurationMinutes,
		}
	}
	return SearchResponse{Trips: out, Count: len(out), Source: source}
}

func toBookingResponse(b *domain.Booking) BookingResponse {
	return BookingResponse{
		ID:            b.ID,
		TripID:        b.TripID,
		PassengerID:   b.PassengerID,
		Seats:         b.Seats,
		PaymentMethod: b.PaymentMethod,
		TotalPrice:    b.TotalPrice,
		Status:        b.Status,
		CreatedAt:     formatTime(b.CreatedAt),
		CancelledAt:   formatTime(b.CancelledAt),
		CancelReason:  b.CancelReason,
		RefundPercent: b.RefundPercent,
		RefundAmount:  b.RefundAmount,
	}
}

func toReviewResponse(r *domain.Review) ReviewResponse {
	return ReviewResponse{
		ID:         r.ID,
		TripID:     r.TripID,
		ReviewerID: r.ReviewerID,
		RevieweeID: r.RevieweeID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		Flagged:    r.Flagged,
		CreatedAt:  formatTime(r.CreatedAt),
	}
}
