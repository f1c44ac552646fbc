package domain

// DriverStatus represents the account state of a driver.
type DriverStatus string

const (
	DriverStatusActive    DriverStatus = "active" // Verified
	DriverStatusPending   DriverStatus = "pending"
	DriverStatusSuspended DriverStatus = "suspended"
)

// Gender values used by the gender preference facet.
const (
	GenderFemale = "female"
	GenderMale   = "male"
)

// Driver is the public profile of the student publishing a trip.
type Driver struct {
	ID             string
	Name           string
	Gender         string
	Rating         float64 // 0..5
	CompletedTrips int
	Status         DriverStatus
}

// Verified reports whether the driver passed account verification.
func (d *Driver) Verified() bool {
	return d.Status == DriverStatusActive
}
