package postgres

import (
	"context"
	"database/sql"

	"unigo/internal/domain"
	"unigo/internal/repository"
)

// DriverRepository is a PostgreSQL implementation of repository.DriverRepository.
type DriverRepository struct {
	q Querier
}

// NewDriverRepository creates a new PostgreSQL driver repository.
func NewDriverRepository(db *sql.DB) *DriverRepository {
	return &DriverRepository{q: db}
}

// NewDriverRepositoryWithTx creates a driver repository using a transaction.
func NewDriverRepositoryWithTx(tx *sql.Tx) *DriverRepository {
	return &DriverRepository{q: tx}
}

// GetByID retrieves a driver by ID.
func (r *DriverRepository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	query := `SELECT id, name, gender, rating, completed_trips, status FROM drivers WHERE id = $1`

	var driver domain.Driver
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&driver.ID,
		&driver.Name,
		&driver.Gender,
		&driver.Rating,
		&driver.CompletedTrips,
		&driver.Status,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return &driver, nil
}

// IncrementCompletedTrips bumps the completed trip counter by one.
func (r *DriverRepository) IncrementCompletedTrips(ctx context.Context, id string) error {
	result, err := r.q.ExecContext(ctx, `UPDATE drivers SET completed_trips = completed_trips + 1 WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectOne(result)
}

// UpdateRating sets the driver's average rating.
func (r *DriverRepository) UpdateRating(ctx context.Context, id string, rating float64) error {
	result, err := r.q.ExecContext(ctx, `UPDATE drivers SET rating = $1 WHERE id = $2`, rating, id)
	if err != nil {
		return err
	}
	return expectOne(result)
}

// Ensure DriverRepository implements repository.DriverRepository.
var _ repository.DriverRepository = (*DriverRepository)(nil)
