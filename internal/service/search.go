package service

import (
	"context"
	"log/slog"
	"time"

	"unigo/internal/domain"
	"unigo/internal/geo"
	"unigo/internal/metrics"
	"unigo/internal/redis"
	"unigo/internal/repository"
	"unigo/internal/search"
)

// Source names where a search read its trips from.
type Source string

const (
	SourceCache    Source = "cache"
	SourceDatabase Source = "database"
	SourceSeed     Source = "seed"
	SourceGeoIndex Source = "geo_index"
)

// SearchResponse is the outcome of a search.
type SearchResponse struct {
	Results []search.Result
	Source  Source
}

// SearchService answers trip searches through the cache, database and seed chain.
type SearchService struct {
	tripRepo        repository.TripRepository
	cache           redis.TripCache
	locator         redis.TripLocator
	metrics         *metrics.Collector
	log             *slog.Logger
	defaultRadiusKm float64
	seedFallback    bool
	now             func() time.Time
}

// SearchOptions tunes the search service. Zero values use the package defaults.
type SearchOptions struct {
	DefaultRadiusKm float64
	SeedFallback    bool
}

// NewSearchService creates a new SearchService. cache and locator may be nil.
func NewSearchService(
	tripRepo repository.TripRepository,
	cache redis.TripCache,
	locator redis.TripLocator,
	m *metrics.Collector,
	log *slog.Logger,
	opts SearchOptions,
) *SearchService {
	if opts.DefaultRadiusKm <= 0 {
		opts.DefaultRadiusKm = search.DefaultRadiusKm
	}
	return &SearchService{
		tripRepo:        tripRepo,
		cache:           cache,
		locator:         locator,
		metrics:         m,
		log:             log,
		defaultRadiusKm: opts.DefaultRadiusKm,
		seedFallback:    opts.SeedFallback,
		now:             time.Now,
	}
}

// Search filters and sorts the searchable trips against q.
func (s *SearchService) Search(ctx context.Context, q domain.SearchQuery) (*SearchResponse, error) {
	if err := validateQuery(q); err != nil {
		return nil, err
	}
	if q.RadiusKm <= 0 {
		q.RadiusKm = s.defaultRadiusKm
	}

	trips, source, err := s.loadTrips(ctx)
	if err != nil {
		return nil, err
	}

	results := search.Run(trips, q)
	s.metrics.ObserveSearch(string(source), len(results))
	s.log.DebugContext(ctx, "trip search",
		"source", source,
		"candidates", len(trips),
		"results", len(results),
	)
	return &SearchResponse{Results: results, Source: source}, nil
}

// Nearby returns trips departing within radiusKm of the given point,
// closest first.
func (s *SearchService) Nearby(ctx context.Context, lat, lng, radiusKm float64) (*SearchResponse, error) {
	if err := geo.ValidateCoordinate(lat, lng); err != nil {
		return nil, ErrInvalidLocation
	}
	if radiusKm <= 0 {
		radiusKm = s.defaultRadiusKm
	}

	trips, source, err := s.loadTrips(ctx)
	if err != nil {
		return nil, err
	}

	var results []search.Result
	if s.locator != nil && source != SourceSeed {
		results, err = s.nearbyFromIndex(ctx, trips, lat, lng, radiusKm)
		if err == nil {
			source = SourceGeoIndex
		} else {
			s.log.WarnContext(ctx, "geo index lookup failed, using distance engine", "error", err)
		}
	}
	if source != SourceGeoIndex {
		results = search.Nearby(trips, domain.Coordinate{Lat: lat, Lng: lng}, radiusKm)
	}

	s.metrics.ObserveSearch(string(source), len(results))
	return &SearchResponse{Results: results, Source: source}, nil
}

func (s *SearchService) nearbyFromIndex(ctx context.Context, trips []domain.Trip, lat, lng, radiusKm float64) ([]search.Result, error) {
	locs, err := s.locator.FindNearbyTrips(ctx, lat, lng, radiusKm)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*domain.Trip, len(trips))
	for i := range trips {
		byID[trips[i].ID] = &trips[i]
	}
	results := make([]search.Result, 0, len(locs))
	for _, loc := range locs {
		// Index entries can outlive the trip being searchable.
		trip, ok := byID[loc.TripID]
		if !ok {
			continue
		}
		results = append(results, search.WithDistance(*trip, loc.DistanceKm))
	}
	return results, nil
}

// loadTrips walks cache, repository and seed fixture in that order.
func (s *SearchService) loadTrips(ctx context.Context) ([]domain.Trip, Source, error) {
	if s.cache != nil {
		trips, ok, err := s.cache.GetSearchableTrips(ctx)
		if err != nil {
			s.log.WarnContext(ctx, "trip cache read failed", "error", err)
		}
		if ok && len(trips) > 0 {
			return trips, SourceCache, nil
		}
	}

	trips, err := s.tripRepo.ListSearchable(ctx)
	switch {
	case err != nil:
		s.log.WarnContext(ctx, "trip repository unavailable", "error", err)
	case len(trips) == 0:
		s.log.InfoContext(ctx, "no searchable trips in repository")
	default:
		if s.cache != nil {
			if cerr := s.cache.SetSearchableTrips(ctx, trips); cerr != nil {
				s.log.WarnContext(ctx, "trip cache write failed", "error", cerr)
			}
		}
		return trips, SourceDatabase, nil
	}

	if !s.seedFallback {
		return trips, SourceDatabase, err
	}
	s.log.InfoContext(ctx, "serving seed trips")
	return search.SeedTrips(s.now()), SourceSeed, nil
}

func validateQuery(q domain.SearchQuery) error {
	for _, c := range []*domain.Coordinate{q.DepartureCoord, q.ArrivalCoord} {
		if c == nil {
			continue
		}
		if err := geo.ValidateCoordinate(c.Lat, c.Lng); err != nil {
			return ErrInvalidLocation
		}
	}
	if q.MaxPrice < 0 || q.Facets.MinPrice < 0 || q.Facets.MaxPrice < 0 {
		return ErrInvalidPrice
	}
	if q.MinSeats < 0 || q.Facets.MinSeats < 0 {
		return ErrInvalidSeats
	}
	return nil
}
