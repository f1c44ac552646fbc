package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"unigo/internal/domain"
	"unigo/internal/repository"
)

// TripRepository is a PostgreSQL implementation of repository.TripRepository.
type TripRepository struct {
	q Querier
}

// NewTripRepository creates a new PostgreSQL trip repository.
func NewTripRepository(db *sql.DB) *TripRepository {
	return &TripRepository{q: db}
}

// NewTripRepositoryWithTx creates a trip repository using a transaction.
func NewTripRepositoryWithTx(tx *sql.Tx) *TripRepository {
	return &TripRepository{q: tx}
}

const tripColumns = `
	t.id, t.driver_id,
	t.departure_address, t.departure_lat, t.departure_lng,
	t.arrival_address, t.arrival_lat, t.arrival_lng,
	t.departure_time, t.arrival_time,
	t.price_per_seat, t.total_seats, t.available_seats,
	t.tags, t.payment_modes, t.trip_type, t.distance_km, t.university_id,
	t.status, t.created_at, t.updated_at,
	d.id, d.name, d.gender, d.rating, d.completed_trips, d.status`

const tripFrom = `FROM trips t LEFT JOIN drivers d ON d.id = t.driver_id`

// Create persists a new trip.
func (r *TripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	query := `
		INSERT INTO trips (
			id, driver_id,
			departure_address, departure_lat, departure_lng,
			arrival_address, arrival_lat, arrival_lng,
			departure_time, arrival_time,
			price_per_seat, total_seats, available_seats,
			tags, payment_modes, trip_type, distance_km, university_id,
			status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
	`

	_, err := r.q.ExecContext(ctx, query,
		trip.ID,
		trip.DriverID,
		trip.Departure.Address,
		trip.Departure.Coordinates.Lat,
		trip.Departure.Coordinates.Lng,
		trip.Arrival.Address,
		trip.Arrival.Coordinates.Lat,
		trip.Arrival.Coordinates.Lng,
		trip.DepartureTime,
		toNullTime(trip.ArrivalTime),
		trip.PricePerSeat,
		trip.TotalSeats,
		trip.AvailableSeats,
		pq.Array(trip.Tags),
		pq.Array(paymentModeStrings(trip.PaymentModes)),
		trip.TripType,
		trip.DistanceKm,
		trip.UniversityID,
		trip.Status,
		trip.CreatedAt,
		trip.UpdatedAt,
	)
	return mapError(err)
}

// GetByID retrieves a trip with its driver.
func (r *TripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` ` + tripFrom + ` WHERE t.id = $1`

	trip, err := scanTrip(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err)
	}
	return trip, nil
}

// Update overwrites the mutable fields of a trip.
func (r *TripRepository) Update(ctx context.Context, trip *domain.Trip) error {
	query := `
		UPDATE trips SET
			departure_address = $1, departure_lat = $2, departure_lng = $3,
			arrival_address = $4, arrival_lat = $5, arrival_lng = $6,
			departure_time = $7, arrival_time = $8,
			price_per_seat = $9, total_seats = $10, available_seats = $11,
			tags = $12, payment_modes = $13, trip_type = $14, distance_km = $15,
			status = $16, updated_at = $17
		WHERE id = $18
	`

	result, err := r.q.ExecContext(ctx, query,
		trip.Departure.Address,
		trip.Departure.Coordinates.Lat,
		trip.Departure.Coordinates.Lng,
		trip.Arrival.Address,
		trip.Arrival.Coordinates.Lat,
		trip.Arrival.Coordinates.Lng,
		trip.DepartureTime,
		toNullTime(trip.ArrivalTime),
		trip.PricePerSeat,
		trip.TotalSeats,
		trip.AvailableSeats,
		pq.Array(trip.Tags),
		pq.Array(paymentModeStrings(trip.PaymentModes)),
		trip.TripType,
		trip.DistanceKm,
		trip.Status,
		trip.UpdatedAt,
		trip.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return expectOne(result)
}

// Delete removes a trip.
func (r *TripRepository) Delete(ctx context.Context, id string) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM trips WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	return expectOne(result)
}

// ListByDriver returns a driver's trips, newest departure first.
func (r *TripRepository) ListByDriver(ctx context.Context, driverID string) ([]domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` ` + tripFrom + `
		WHERE t.driver_id = $1
		ORDER BY t.departure_time DESC
		LIMIT 200`
	return r.list(ctx, query, driverID)
}

// ListSearchable returns published and scheduled trips with their drivers.
func (r *TripRepository) ListSearchable(ctx context.Context) ([]domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` ` + tripFrom + `
		WHERE t.status = ANY($1)
		ORDER BY t.departure_time ASC
		LIMIT 500`
	statuses := pq.Array([]string{string(domain.TripStatusPublished), string(domain.TripStatusScheduled)})
	return r.list(ctx, query, statuses)
}

// AdjustSeats adds delta to available seats in a single conditional update.
func (r *TripRepository) AdjustSeats(ctx context.Context, id string, delta int) error {
	query := `
		UPDATE trips
		SET available_seats = available_seats + $1, updated_at = now()
		WHERE id = $2
		  AND available_seats + $1 >= 0
		  AND available_seats + $1 <= total_seats
	`
	result, err := r.q.ExecContext(ctx, query, delta, id)
	if err != nil {
		return mapError(err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 1 {
		return nil
	}

	// Distinguish a missing trip from a rejected adjustment.
	var exists bool
	if err := r.q.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM trips WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return repository.ErrNotFound
	}
	return repository.ErrSeatsUnavailable
}

func (r *TripRepository) list(ctx context.Context, query string, args ...any) ([]domain.Trip, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []domain.Trip
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, *trip)
	}
	return trips, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTrip(s scanner) (*domain.Trip, error) {
	var (
		trip         domain.Trip
		arrivalTime  sql.NullTime
		tags         pq.StringArray
		paymentModes pq.StringArray

		driverID     sql.NullString
		driverName   sql.NullString
		driverGender sql.NullString
		driverRating sql.NullFloat64
		driverTrips  sql.NullInt64
		driverStatus sql.NullString
	)

	err := s.Scan(
		&trip.ID,
		&trip.DriverID,
		&trip.Departure.Address,
		&trip.Departure.Coordinates.Lat,
		&trip.Departure.Coordinates.Lng,
		&trip.Arrival.Address,
		&trip.Arrival.Coordinates.Lat,
		&trip.Arrival.Coordinates.Lng,
		&trip.DepartureTime,
		&arrivalTime,
		&trip.PricePerSeat,
		&trip.TotalSeats,
		&trip.AvailableSeats,
		&tags,
		&paymentModes,
		&trip.TripType,
		&trip.DistanceKm,
		&trip.UniversityID,
		&trip.Status,
		&trip.CreatedAt,
		&trip.UpdatedAt,
		&driverID,
		&driverName,
		&driverGender,
		&driverRating,
		&driverTrips,
		&driverStatus,
	)
	if err != nil {
		return nil, err
	}

	if arrivalTime.Valid {
		trip.ArrivalTime = arrivalTime.Time
	}
	trip.Tags = []string(tags)
	trip.PaymentModes = make([]domain.PaymentMode, len(paymentModes))
	for i, m := range paymentModes {
		trip.PaymentModes[i] = domain.PaymentMode(m)
	}

	if driverID.Valid {
		trip.Driver = &domain.Driver{
			ID:             driverID.String,
			Name:           driverName.String,
			Gender:         driverGender.String,
			Rating:         driverRating.Float64,
			CompletedTrips: int(driverTrips.Int64),
			Status:         domain.DriverStatus(driverStatus.String),
		}
	}

	return &trip, nil
}

func toNullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}

func paymentModeStrings(modes []domain.PaymentMode) []string {
	out := make([]string, len(modes))
	for i, m := range modes {
		out[i] = string(m)
	}
	return out
}

// Ensure TripRepository implements repository.TripRepository.
var _ repository.TripRepository = (*TripRepository)(nil)
