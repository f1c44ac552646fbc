package postgres

import (
	"context"
	"database/sql"

	"unigo/internal/domain"
	"unigo/internal/repository"
)

// BookingRepository is a PostgreSQL implementation of repository.BookingRepository.
type BookingRepository struct {
	q Querier
}

// NewBookingRepository creates a new PostgreSQL booking repository.
func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{q: db}
}

// NewBookingRepositoryWithTx creates a booking repository using a transaction.
func NewBookingRepositoryWithTx(tx *sql.Tx) *BookingRepository {
	return &BookingRepository{q: tx}
}

const bookingColumns = `
	id, trip_id, passenger_id, seats, payment_method, total_price, status,
	created_at, updated_at, cancelled_at, cancelled_by, cancel_reason,
	refund_percent, refund_amount`

// Create persists a new booking.
func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	query := `INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := r.q.ExecContext(ctx, query,
		b.ID,
		b.TripID,
		b.PassengerID,
		b.Seats,
		b.PaymentMethod,
		b.TotalPrice,
		b.Status,
		b.CreatedAt,
		b.UpdatedAt,
		toNullTime(b.CancelledAt),
		b.CancelledBy,
		b.CancelReason,
		b.RefundPercent,
		b.RefundAmount,
	)
	return mapError(err)
}

// GetByID retrieves a booking by ID.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	b, err := scanBooking(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err)
	}
	return b, nil
}

// Update persists status and cancellation changes.
func (r *BookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	query := `
		UPDATE bookings SET
			status = $1, updated_at = $2, cancelled_at = $3, cancelled_by = $4,
			cancel_reason = $5, refund_percent = $6, refund_amount = $7
		WHERE id = $8
	`
	result, err := r.q.ExecContext(ctx, query,
		b.Status,
		b.UpdatedAt,
		toNullTime(b.CancelledAt),
		b.CancelledBy,
		b.CancelReason,
		b.RefundPercent,
		b.RefundAmount,
		b.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return expectOne(result)
}

// ListByPassenger returns a passenger's bookings, newest first.
func (r *BookingRepository) ListByPassenger(ctx context.Context, passengerID string) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE passenger_id = $1 ORDER BY created_at DESC LIMIT 200`
	return r.list(ctx, query, passengerID)
}

// ListByTrip returns every booking on a trip.
func (r *BookingRepository) ListByTrip(ctx context.Context, tripID string) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE trip_id = $1 ORDER BY created_at ASC`
	return r.list(ctx, query, tripID)
}

func (r *BookingRepository) list(ctx context.Context, query string, args ...any) ([]domain.Booking, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func scanBooking(s scanner) (*domain.Booking, error) {
	var (
		b           domain.Booking
		cancelledAt sql.NullTime
	)
	err := s.Scan(
		&b.ID,
		&b.TripID,
		&b.PassengerID,
		&b.Seats,
		&b.PaymentMethod,
		&b.TotalPrice,
		&b.Status,
		&b.CreatedAt,
		&b.UpdatedAt,
		&cancelledAt,
		&b.CancelledBy,
		&b.CancelReason,
		&b.RefundPercent,
		&b.RefundAmount,
	)
	if err != nil {
		return nil, err
	}
	if cancelledAt.Valid {
		b.CancelledAt = cancelledAt.Time
	}
	return &b, nil
}

// Ensure BookingRepository implements repository.BookingRepository.
var _ repository.BookingRepository = (*BookingRepository)(nil)
