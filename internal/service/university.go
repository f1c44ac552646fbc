package service

import (
	"context"
	"log/slog"

	"unigo/internal/domain"
	"unigo/internal/redis"
	"unigo/internal/repository"
	"unigo/internal/search"
)

// StaticUniversities is served when neither cache nor database can answer.
var StaticUniversities = search.Universities

// UniversityService lists partner universities.
type UniversityService struct {
	universityRepo repository.UniversityRepository
	cache          redis.UniversityCache
	log            *slog.Logger
}

// NewUniversityService creates a new UniversityService. cache may be nil.
func NewUniversityService(universityRepo repository.UniversityRepository, cache redis.UniversityCache, log *slog.Logger) *UniversityService {
	return &UniversityService{universityRepo: universityRepo, cache: cache, log: log}
}

// ListUniversities walks cache, repository and static catalogue in that order.
func (s *UniversityService) ListUniversities(ctx context.Context) ([]domain.University, Source, error) {
	if s.cache != nil {
		list, ok, err := s.cache.GetUniversities(ctx)
		if err != nil {
			s.log.WarnContext(ctx, "university cache read failed", "error", err)
		}
		if ok && len(list) > 0 {
			return list, SourceCache, nil
		}
	}

	list, err := s.universityRepo.List(ctx)
	switch {
	case err != nil:
		s.log.WarnContext(ctx, "university repository unavailable", "error", err)
	case len(list) > 0:
		if s.cache != nil {
			if err := s.cache.SetUniversities(ctx, list); err != nil {
				s.log.WarnContext(ctx, "university cache write failed", "error", err)
			}
		}
		return list, SourceDatabase, nil
	}

	out := make([]domain.University, len(StaticUniversities))
	copy(out, StaticUniversities)
	return out, SourceSeed, nil
}
