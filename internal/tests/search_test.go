package tests

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unigo/internal/domain"
	"unigo/internal/logging"
	"unigo/internal/service"
)

// ──────────────────────────────────────────────
// SEARCH SOURCE CHAIN
// ──────────────────────────────────────────────

func TestSearch_RepositoryThenCache(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	e.openTrip("trip-1", "driver-1", 4, 15)
	ctx := context.Background()

	first, err := e.searchService.Search(ctx, domain.SearchQuery{})
	require.NoError(t, err)
	assert.Equal(t, service.SourceDatabase, first.Source)
	require.Len(t, first.Results, 1)

	second, err := e.searchService.Search(ctx, domain.SearchQuery{})
	require.NoError(t, err)
	assert.Equal(t, service.SourceCache, second.Source)
	assert.EqualValues(t, 1, e.trips.ListSearchableCallCount)
	assert.Equal(t, 1.0, testutil.ToFloat64(e.metrics.SearchSource.WithLabelValues("cache")))
}

func TestSearch_SeedWhenRepositoryFails(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	e.trips.ListSearchableError = ErrMockDBConnection

	resp, err := e.searchService.Search(context.Background(), domain.SearchQuery{MaxPrice: 18})
	require.NoError(t, err)

	assert.Equal(t, service.SourceSeed, resp.Source)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "1", resp.Results[0].Trip.ID)
	assert.EqualValues(t, 0, e.cache.SetListCallCount, "seed trips are never cached")
}

func TestSearch_SeedWhenRepositoryEmpty(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)

	resp, err := e.searchService.Search(context.Background(), domain.SearchQuery{
		SortBy: domain.SortByDepartureTime,
	})
	require.NoError(t, err)

	assert.Equal(t, service.SourceSeed, resp.Source)
	ids := make([]string, len(resp.Results))
	for i, r := range resp.Results {
		ids[i] = r.Trip.ID
	}
	assert.Equal(t, []string{"3", "1", "2"}, ids)
}

func TestSearch_NoSeedFallbackSurfacesError(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	e.trips.ListSearchableError = ErrMockDBConnection
	svc := service.NewSearchService(e.trips, nil, nil, nil, logging.Discard(), service.SearchOptions{})

	_, err := svc.Search(context.Background(), domain.SearchQuery{})

	assert.ErrorIs(t, err, ErrMockDBConnection)
}

func TestSearch_CacheFailureFallsThrough(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	e.openTrip("trip-1", "driver-1", 4, 15)
	e.cache.GetError = ErrMockRedis

	resp, err := e.searchService.Search(context.Background(), domain.SearchQuery{})
	require.NoError(t, err)

	assert.Equal(t, service.SourceDatabase, resp.Source)
}

func TestSearch_RejectsInvalidQuery(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)

	_, err := e.searchService.Search(context.Background(), domain.SearchQuery{
		DepartureCoord: &domain.Coordinate{Lat: 120, Lng: 0},
	})
	assert.ErrorIs(t, err, service.ErrInvalidLocation)

	_, err = e.searchService.Search(context.Background(), domain.SearchQuery{MaxPrice: -5})
	assert.ErrorIs(t, err, service.ErrInvalidPrice)
}

func TestSearch_WriteInvalidatesList(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	e.openTrip("trip-1", "driver-1", 4, 15)
	ctx := context.Background()

	_, err := e.searchService.Search(ctx, domain.SearchQuery{})
	require.NoError(t, err)

	_, err = e.tripService.CreateTrip(ctx, validCreateRequest("driver-2"))
	require.NoError(t, err)

	resp, err := e.searchService.Search(ctx, domain.SearchQuery{})
	require.NoError(t, err)
	assert.Equal(t, service.SourceDatabase, resp.Source)
	assert.Len(t, resp.Results, 2)
}

// ──────────────────────────────────────────────
// NEARBY
// ──────────────────────────────────────────────

func TestNearby_UsesGeoIndex(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	ctx := context.Background()
	e.openTrip("trip-1", "driver-1", 4, 15)
	require.NoError(t, e.locator.IndexTrip(ctx, "trip-1", 33.9716, -6.8498))
	// Indexed but no longer searchable.
	require.NoError(t, e.locator.IndexTrip(ctx, "stale", 33.9720, -6.8500))

	resp, err := e.searchService.Nearby(ctx, 33.9716, -6.8498, 2)
	require.NoError(t, err)

	assert.Equal(t, service.SourceGeoIndex, resp.Source)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "trip-1", resp.Results[0].Trip.ID)
	assert.InDelta(t, 0, resp.Results[0].DistanceKm, 0.001)
}

func TestNearby_FallsBackToDistanceEngine(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)
	e.openTrip("trip-1", "driver-1", 4, 15)
	e.locator.FindError = ErrMockRedis

	resp, err := e.searchService.Nearby(context.Background(), 33.9716, -6.8498, 0)
	require.NoError(t, err)

	assert.Equal(t, service.SourceDatabase, resp.Source)
	require.Len(t, resp.Results, 1)
}

func TestNearby_InvalidCoordinates(t *testing.T) {
	t.Parallel()
	e := newTestEnv(t)

	_, err := e.searchService.Nearby(context.Background(), 0, 200, 5)

	assert.ErrorIs(t, err, service.ErrInvalidLocation)
}
