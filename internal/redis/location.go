package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const tripDepartureKey = "trips:departures"

// TripLocation is an indexed trip departure point.
type TripLocation struct {
	TripID     string
	Lat        float64
	Lng        float64
	DistanceKm float64 // From the query point
}

// LocationStore indexes trip departure points with Redis GEO commands.
type LocationStore struct {
	client *redis.Client
}

// NewLocationStore creates a new LocationStore.
func NewLocationStore(client *redis.Client) *LocationStore {
	return &LocationStore{client: client}
}

// IndexTrip stores a trip's departure point using GEOADD.
func (s *LocationStore) IndexTrip(ctx context.Context, tripID string, lat, lng float64) error {
	return s.client.GeoAdd(ctx, tripDepartureKey, &redis.GeoLocation{
		Name:      tripID,
		Longitude: lng,
		Latitude:  lat,
	}).Err()
}

// FindNearbyTrips returns trips departing within radiusKm, nearest first.
func (s *LocationStore) FindNearbyTrips(ctx context.Context, lat, lng, radiusKm float64) ([]TripLocation, error) {
	results, err := s.client.GeoRadius(ctx, tripDepartureKey, lng, lat, &redis.GeoRadiusQuery{
		Radius:    radiusKm,
		Unit:      "km",
		WithCoord: true,
		WithDist:  true,
		Sort:      "ASC",
	}).Result()
	if err != nil {
		return nil, err
	}

	locations := make([]TripLocation, 0, len(results))
	for _, r := range results {
		locations = append(locations, TripLocation{
			TripID:     r.Name,
			Lat:        r.Latitude,
			Lng:        r.Longitude,
			DistanceKm: r.Dist,
		})
	}
	return locations, nil
}

// RemoveTrip removes a trip from the geo index.
func (s *LocationStore) RemoveTrip(ctx context.Context, tripID string) error {
	return s.client.ZRem(ctx, tripDepartureKey, tripID).Err()
}
