package repository

import (
	"context"

	"unigo/internal/domain"
)

// ReviewRepository defines the persistence operations for reviews.
type ReviewRepository interface {
	// Create persists a review. Returns ErrDuplicate when the reviewer
	// already reviewed the trip.
	Create(ctx context.Context, review *domain.Review) error

	// Exists reports whether reviewerID has reviewed tripID.
	Exists(ctx context.Context, tripID, reviewerID string) (bool, error)

	// ListByReviewee returns reviews received by a user, newest first.
	ListByReviewee(ctx context.Context, revieweeID string) ([]domain.Review, error)

	// AverageForReviewee returns the mean rating and review count.
	AverageForReviewee(ctx context.Context, revieweeID string) (float64, int, error)
}

// IncidentRepository defines the persistence operations for incident reports.
type IncidentRepository interface {
	Create(ctx context.Context, incident *domain.Incident) error
}

// UniversityRepository lists partner universities.
type UniversityRepository interface {
	List(ctx context.Context) ([]domain.University, error)
}
