package search

import (
	"cmp"
	"slices"
	"strings"

	"unigo/internal/domain"
	"unigo/internal/geo"
)

const (
	// DefaultRadiusKm is used when a query carries coordinates but no radius.
	DefaultRadiusKm = 5.0

	departureLayout = "2006-01-02T15:04:05"
)

// Result is a trip that survived the pipeline, with display helpers.
type Result struct {
	Trip            domain.Trip
	DistanceKm      float64 // From the searcher's departure point when known, else the trip length
	DistanceLabel   string
	DurationMinutes int
}

// Run filters trips against q and returns them in the requested order.
func Run(trips []domain.Trip, q domain.SearchQuery) []Result {
	results := make([]Result, 0, len(trips))
	for i := range trips {
		trip := &trips[i]
		if !MatchesLocation(trip, q) || !MatchesScalars(trip, q) || !MatchesFacets(trip, q.Facets) {
			continue
		}
		results = append(results, newResult(trip, q))
	}
	Sort(results, q.SortBy, q.Descending)
	return results
}

// Nearby returns trips whose departure lies within radiusKm of point,
// closest first.
func Nearby(trips []domain.Trip, point domain.Coordinate, radiusKm float64) []Result {
	if radiusKm <= 0 {
		radiusKm = DefaultRadiusKm
	}
	q := domain.SearchQuery{DepartureCoord: &point}
	results := make([]Result, 0)
	for i := range trips {
		trip := &trips[i]
		dep := trip.Departure.Coordinates
		if !geo.IsWithinRadius(point.Lat, point.Lng, dep.Lat, dep.Lng, radiusKm) {
			continue
		}
		results = append(results, newResult(trip, q))
	}
	Sort(results, domain.SortByDistance, false)
	return results
}

// WithDistance builds a result whose distance was measured elsewhere,
// e.g. by the geo index.
func WithDistance(trip domain.Trip, distanceKm float64) Result {
	return Result{
		Trip:            trip,
		DistanceKm:      distanceKm,
		DistanceLabel:   geo.FormatDistance(distanceKm),
		DurationMinutes: geo.EstimatedDurationMinutes(trip.DistanceKm),
	}
}

// MatchesLocation evaluates the departure and arrival legs independently.
// A leg passes when its text query is empty or matches, or when the query
// carries a coordinate for that leg within the search radius.
func MatchesLocation(trip *domain.Trip, q domain.SearchQuery) bool {
	radius := q.RadiusKm
	if radius <= 0 {
		radius = DefaultRadiusKm
	}
	return legMatches(q.Departure, q.DepartureCoord, trip.Departure, radius) &&
		legMatches(q.Arrival, q.ArrivalCoord, trip.Arrival, radius)
}

func legMatches(text string, coord *domain.Coordinate, place domain.Place, radiusKm float64) bool {
	if strings.TrimSpace(text) == "" || MatchesQuery(text, place.Address) {
		return true
	}
	if coord == nil {
		return false
	}
	return geo.IsWithinRadius(coord.Lat, coord.Lng, place.Coordinates.Lat, place.Coordinates.Lng, radiusKm)
}

// MatchesScalars applies the date prefix, price ceiling and seat floor.
// The date check is a string prefix on the departure time, not a calendar
// comparison, so it ignores time zones.
func MatchesScalars(trip *domain.Trip, q domain.SearchQuery) bool {
	if q.Date != "" && !strings.HasPrefix(trip.DepartureTime.Format(departureLayout), q.Date) {
		return false
	}
	if q.MaxPrice > 0 && trip.PricePerSeat > q.MaxPrice {
		return false
	}
	if q.MinSeats > 0 && trip.AvailableSeats < q.MinSeats {
		return false
	}
	return true
}

// MatchesFacets applies every enabled facet; all must pass.
func MatchesFacets(trip *domain.Trip, f domain.Facets) bool {
	if f.MinPrice > 0 && trip.PricePerSeat < f.MinPrice {
		return false
	}
	if f.MaxPrice > 0 && trip.PricePerSeat > f.MaxPrice {
		return false
	}
	if f.MinSeats > 0 && trip.AvailableSeats < f.MinSeats {
		return false
	}
	if f.TripType != "" && trip.TripType != f.TripType {
		return false
	}
	if len(f.PaymentMethods) > 0 && !intersects(trip.PaymentModes, f.PaymentMethods) {
		return false
	}
	if f.TimeOfDay != "" && BucketOf(trip.DepartureTime.Hour()) != f.TimeOfDay {
		return false
	}
	if f.Smoking != "" && SmokingPolicyOf(trip) != f.Smoking {
		return false
	}
	switch f.Gender {
	case domain.GenderFemale:
		if !trip.HasTag(domain.TagFemaleOnly) {
			return false
		}
	case domain.GenderMale:
		if trip.HasTag(domain.TagFemaleOnly) {
			return false
		}
	}

	needsDriver := f.MinRating > 0 || f.Experience != "" || f.VerifiedOnly
	if !needsDriver {
		return true
	}
	d := trip.Driver
	if d == nil {
		return false
	}
	if f.MinRating > 0 && d.Rating < f.MinRating {
		return false
	}
	if f.Experience != "" && TierOf(d.CompletedTrips) != f.Experience {
		return false
	}
	if f.VerifiedOnly && !d.Verified() {
		return false
	}
	return true
}

// BucketOf maps a departure hour to its time-of-day bucket.
func BucketOf(hour int) domain.TimeOfDay {
	switch {
	case hour >= 6 && hour < 12:
		return domain.TimeOfDayMorning
	case hour >= 12 && hour < 18:
		return domain.TimeOfDayAfternoon
	case hour >= 18 && hour < 22:
		return domain.TimeOfDayEvening
	default:
		return domain.TimeOfDayNight
	}
}

// TierOf maps a completed-trip count to an experience tier.
func TierOf(completedTrips int) domain.ExperienceTier {
	switch {
	case completedTrips < 10:
		return domain.ExperienceNew
	case completedTrips < 50:
		return domain.ExperienceExperienced
	default:
		return domain.ExperienceExpert
	}
}

// SmokingPolicyOf derives the policy from the trip tags.
func SmokingPolicyOf(trip *domain.Trip) domain.SmokingPolicy {
	if trip.HasTag(domain.TagNonSmoke) {
		return domain.SmokingForbidden
	}
	return domain.SmokingAllowed
}

// Sort orders results in place. The sort is stable, so ties keep their
// input order. An unknown key leaves the order untouched.
func Sort(results []Result, key domain.SortKey, descending bool) {
	var compare func(a, b Result) int
	switch key {
	case domain.SortByPrice:
		compare = func(a, b Result) int { return cmp.Compare(a.Trip.PricePerSeat, b.Trip.PricePerSeat) }
	case domain.SortByDepartureTime:
		compare = func(a, b Result) int { return a.Trip.DepartureTime.Compare(b.Trip.DepartureTime) }
	case domain.SortByDistance:
		compare = func(a, b Result) int { return cmp.Compare(a.DistanceKm, b.DistanceKm) }
	default:
		return
	}
	if descending {
		asc := compare
		compare = func(a, b Result) int { return asc(b, a) }
	}
	slices.SortStableFunc(results, compare)
}

func newResult(trip *domain.Trip, q domain.SearchQuery) Result {
	dist := trip.DistanceKm
	if q.DepartureCoord != nil {
		dist = geo.DistanceKm(q.DepartureCoord.Lat, q.DepartureCoord.Lng,
			trip.Departure.Coordinates.Lat, trip.Departure.Coordinates.Lng)
	}
	return Result{
		Trip:            *trip,
		DistanceKm:      dist,
		DistanceLabel:   geo.FormatDistance(dist),
		DurationMinutes: geo.EstimatedDurationMinutes(trip.DistanceKm),
	}
}

func intersects(have, want []domain.PaymentMode) bool {
	for _, w := range want {
		if slices.Contains(have, w) {
			return true
		}
	}
	return false
}
