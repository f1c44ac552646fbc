package domain

import "time"

// TripStatus represents the lifecycle state of a published trip.
type TripStatus string

const (
	TripStatusPublished TripStatus = "published"
	TripStatusScheduled TripStatus = "scheduled"
	TripStatusActive    TripStatus = "active"
	TripStatusCompleted TripStatus = "completed"
	TripStatusCancelled TripStatus = "cancelled"
)

// Bookable reports whether passengers can still reserve seats.
func (s TripStatus) Bookable() bool {
	return s == TripStatusPublished || s == TripStatusScheduled
}

// Terminal reports whether no further transition is allowed.
func (s TripStatus) Terminal() bool {
	return s == TripStatusCompleted || s == TripStatusCancelled
}

// Trip tags used by facet filters.
const (
	TagNonSmoke   = "non_smoke"
	TagFemaleOnly = "female_only"
)

// TripType distinguishes one-off rides from recurring commutes.
type TripType string

const (
	TripTypeOneWay    TripType = "one_way"
	TripTypeRoundTrip TripType = "round_trip"
	TripTypeRecurring TripType = "recurring"
)

// Coordinate is a WGS84 point in degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Place is an address with its resolved coordinates.
type Place struct {
	Address     string     `json:"address"`
	Coordinates Coordinate `json:"coordinates"`
}

// Trip is a driver-published ride offer.
type Trip struct {
	ID             string
	DriverID       string
	Driver         *Driver // Optional, joined for facet filtering
	Departure      Place
	Arrival        Place
	DepartureTime  time.Time
	ArrivalTime    time.Time
	PricePerSeat   float64
	TotalSeats     int
	AvailableSeats int
	Tags           []string
	PaymentModes   []PaymentMode
	TripType       TripType
	DistanceKm     float64 // Departure to arrival, great-circle
	UniversityID   string
	Status         TripStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// HasTag reports whether the trip carries the given tag.
func (t *Trip) HasTag(tag string) bool {
	for _, tg := range t.Tags {
		if tg == tag {
			return true
		}
	}
	return false
}

// BookedSeats is the number of seats already claimed by passengers.
func (t *Trip) BookedSeats() int {
	return t.TotalSeats - t.AvailableSeats
}

// AcceptsPayment reports whether a passenger may pay with the given method.
// A trip offering the mixed mode accepts both cash and UniCard.
func (t *Trip) AcceptsPayment(method PaymentMode) bool {
	for _, m := range t.PaymentModes {
		if m == method || m == PaymentModeMixed {
			return true
		}
	}
	return false
}
