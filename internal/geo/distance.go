// Package geo holds the great-circle helpers used by trip search.
package geo

import (
	"errors"
	"fmt"
	"math"
)

const (
	// EarthRadiusKm is the mean Earth radius used by DistanceKm.
	EarthRadiusKm = 6371.0

	// AverageSpeedKmh is the flat urban speed behind EstimatedDurationMinutes.
	AverageSpeedKmh = 30.0
)

// ErrInvalidCoordinates is returned when a latitude or longitude is out of range.
var ErrInvalidCoordinates = errors.New("invalid coordinates")

// DistanceKm returns the Haversine distance between two points in kilometers.
func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLng := toRadians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// IsWithinRadius reports whether the target lies within radiusKm of the user.
func IsWithinRadius(userLat, userLng, targetLat, targetLng, radiusKm float64) bool {
	return DistanceKm(userLat, userLng, targetLat, targetLng) <= radiusKm
}

// FormatDistance renders a distance as meters below one kilometer, else as
// kilometers with one decimal.
func FormatDistance(km float64) string {
	if km < 1 {
		return fmt.Sprintf("%dm", int(math.Round(km*1000)))
	}
	return fmt.Sprintf("%.1fkm", km)
}

// EstimatedDurationMinutes is a rough travel time at AverageSpeedKmh.
// It knows nothing about traffic or the road graph.
func EstimatedDurationMinutes(km float64) int {
	return int(math.Round(km / AverageSpeedKmh * 60))
}

// ValidateCoordinate checks that lat/lng are finite and within WGS84 bounds.
func ValidateCoordinate(lat, lng float64) error {
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return fmt.Errorf("%w: not a number", ErrInvalidCoordinates)
	}
	if lat < -90 || lat > 90 {
		return fmt.Errorf("%w: latitude must be between -90 and 90", ErrInvalidCoordinates)
	}
	if lng < -180 || lng > 180 {
		return fmt.Errorf("%w: longitude must be between -180 and 180", ErrInvalidCoordinates)
	}
	return nil
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
