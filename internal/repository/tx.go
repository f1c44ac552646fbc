package repository

import "context"

// Tx exposes repositories bound to one database transaction.
type Tx interface {
	Trips() TripRepository
	Bookings() BookingRepository
	Drivers() DriverRepository
}

// TxManager runs fn inside a transaction. The transaction commits when fn
// returns nil and rolls back otherwise.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
}
