package postgres

import (
	"context"
	"database/sql"

	"unigo/internal/domain"
	"unigo/internal/repository"
)

// ReviewRepository is a PostgreSQL implementation of repository.ReviewRepository.
type ReviewRepository struct {
	q Querier
}

// NewReviewRepository creates a new PostgreSQL review repository.
func NewReviewRepository(db *sql.DB) *ReviewRepository {
	return &ReviewRepository{q: db}
}

// Create persists a review. The (trip_id, reviewer_id) unique constraint
// surfaces as repository.ErrDuplicate.
func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	query := `
		INSERT INTO reviews (id, trip_id, reviewer_id, reviewee_id, rating, comment, flagged, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.q.ExecContext(ctx, query,
		review.ID,
		review.TripID,
		review.ReviewerID,
		review.RevieweeID,
		review.Rating,
		review.Comment,
		review.Flagged,
		review.CreatedAt,
	)
	return mapError(err)
}

// Exists reports whether reviewerID has reviewed tripID.
func (r *ReviewRepository) Exists(ctx context.Context, tripID, reviewerID string) (bool, error) {
	var exists bool
	err := r.q.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM reviews WHERE trip_id = $1 AND reviewer_id = $2)`,
		tripID, reviewerID,
	).Scan(&exists)
	return exists, err
}

// ListByReviewee returns reviews received by a user, newest first.
func (r *ReviewRepository) ListByReviewee(ctx context.Context, revieweeID string) ([]domain.Review, error) {
	query := `
		SELECT id, trip_id, reviewer_id, reviewee_id, rating, comment, flagged, created_at
		FROM reviews WHERE reviewee_id = $1
		ORDER BY created_at DESC LIMIT 100
	`
	rows, err := r.q.QueryContext(ctx, query, revieweeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(
			&rv.ID,
			&rv.TripID,
			&rv.ReviewerID,
			&rv.RevieweeID,
			&rv.Rating,
			&rv.Comment,
			&rv.Flagged,
			&rv.CreatedAt,
		); err != nil {
			return nil, err
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}

// AverageForReviewee returns the mean rating and review count.
func (r *ReviewRepository) AverageForReviewee(ctx context.Context, revieweeID string) (float64, int, error) {
	var (
		avg   float64
		count int
	)
	err := r.q.QueryRowContext(ctx,
		`SELECT COALESCE(AVG(rating), 0), COUNT(*) FROM reviews WHERE reviewee_id = $1`,
		revieweeID,
	).Scan(&avg, &count)
	return avg, count, err
}

// IncidentRepository is a PostgreSQL implementation of repository.IncidentRepository.
type IncidentRepository struct {
	q Querier
}

// NewIncidentRepository creates a new PostgreSQL incident repository.
func NewIncidentRepository(db *sql.DB) *IncidentRepository {
	return &IncidentRepository{q: db}
}

// Create persists an incident report.
func (r *IncidentRepository) Create(ctx context.Context, incident *domain.Incident) error {
	query := `
		INSERT INTO incidents (id, trip_id, reporter_id, category, description, severity, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.q.ExecContext(ctx, query,
		incident.ID,
		incident.TripID,
		incident.ReporterID,
		incident.Category,
		incident.Description,
		incident.Severity,
		incident.CreatedAt,
	)
	return mapError(err)
}

// UniversityRepository is a PostgreSQL implementation of repository.UniversityRepository.
type UniversityRepository struct {
	q Querier
}

// NewUniversityRepository creates a new PostgreSQL university repository.
func NewUniversityRepository(db *sql.DB) *UniversityRepository {
	return &UniversityRepository{q: db}
}

// List returns all universities ordered by name.
func (r *UniversityRepository) List(ctx context.Context) ([]domain.University, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT id, name, short_name, city, lat, lng FROM universities ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.University
	for rows.Next() {
		var u domain.University
		if err := rows.Scan(&u.ID, &u.Name, &u.ShortName, &u.City, &u.Coordinates.Lat, &u.Coordinates.Lng); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

var (
	_ repository.ReviewRepository     = (*ReviewRepository)(nil)
	_ repository.IncidentRepository   = (*IncidentRepository)(nil)
	_ repository.UniversityRepository = (*UniversityRepository)(nil)
)
