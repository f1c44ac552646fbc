package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"unigo/internal/domain"
)

// Key prefixes
const (
	tripListKey        = "cache:trips:searchable"
	tripCachePrefix    = "cache:trip:"
	universityCacheKey = "cache:universities"
)

// DefaultTripCacheTTL applies when the store is built with a zero TTL.
const DefaultTripCacheTTL = 30 * time.Second

// CacheStore caches trip reads in Redis.
type CacheStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client, ttl time.Duration) *CacheStore {
	if ttl <= 0 {
		ttl = DefaultTripCacheTTL
	}
	return &CacheStore{client: client, ttl: ttl}
}

// GetSearchableTrips returns the cached searchable trip list.
// A miss returns (nil, false, nil).
func (s *CacheStore) GetSearchableTrips(ctx context.Context) ([]domain.Trip, bool, error) {
	var trips []domain.Trip
	ok, err := s.getJSON(ctx, tripListKey, &trips)
	return trips, ok, err
}

// SetSearchableTrips caches the searchable trip list.
func (s *CacheStore) SetSearchableTrips(ctx context.Context, trips []domain.Trip) error {
	return s.setJSON(ctx, tripListKey, trips, s.ttl)
}

// GetTrip returns a cached trip. A miss returns (nil, nil).
func (s *CacheStore) GetTrip(ctx context.Context, tripID string) (*domain.Trip, error) {
	var trip domain.Trip
	ok, err := s.getJSON(ctx, tripCachePrefix+tripID, &trip)
	if err != nil || !ok {
		return nil, err
	}
	return &trip, nil
}

// SetTrip caches a single trip.
func (s *CacheStore) SetTrip(ctx context.Context, trip *domain.Trip) error {
	return s.setJSON(ctx, tripCachePrefix+trip.ID, trip, s.ttl)
}

// InvalidateTrip drops a trip and the searchable list in one pipeline.
func (s *CacheStore) InvalidateTrip(ctx context.Context, tripID string) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, tripCachePrefix+tripID)
	pipe.Del(ctx, tripListKey)
	_, err := pipe.Exec(ctx)
	return err
}

// GetUniversities returns the cached university catalogue.
func (s *CacheStore) GetUniversities(ctx context.Context) ([]domain.University, bool, error) {
	var out []domain.University
	ok, err := s.getJSON(ctx, universityCacheKey, &out)
	return out, ok, err
}

// SetUniversities caches the university catalogue. It changes rarely, so
// it lives longer than trips.
func (s *CacheStore) SetUniversities(ctx context.Context, universities []domain.University) error {
	return s.setJSON(ctx, universityCacheKey, universities, time.Hour)
}

func (s *CacheStore) getJSON(ctx context.Context, key string, out any) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil // Cache miss
		}
		return false, err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, err
	}
	return true, nil
}

func (s *CacheStore) setJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}
