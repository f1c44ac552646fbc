package tests

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"unigo/internal/domain"
	"unigo/internal/events"
	"unigo/internal/geo"
	"unigo/internal/redis"
	"unigo/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK TRIP REPOSITORY
// ──────────────────────────────────────────────

// MockTripRepository is a mock implementation of TripRepository.
type MockTripRepository struct {
	mu    sync.RWMutex
	trips map[string]*domain.Trip

	// Counters for verification
	CreateCallCount         int32
	UpdateCallCount         int32
	ListSearchableCallCount int32

	// Error injection
	CreateError         error
	UpdateError         error
	ListSearchableError error
}

// NewMockTripRepository creates a new mock trip repository.
func NewMockTripRepository() *MockTripRepository {
	return &MockTripRepository{
		trips: make(map[string]*domain.Trip),
	}
}

// AddTrip adds a trip to the mock repository.
func (m *MockTripRepository) AddTrip(trip *domain.Trip) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *trip
	m.trips[trip.ID] = &copy
}

func (m *MockTripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trips[trip.ID]; ok {
		return repository.ErrDuplicate
	}
	copy := *trip
	m.trips[trip.ID] = &copy
	return nil
}

func (m *MockTripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	trip, ok := m.trips[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *trip
	return &copy, nil
}

func (m *MockTripRepository) Update(ctx context.Context, trip *domain.Trip) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trips[trip.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *trip
	m.trips[trip.ID] = &copy
	return nil
}

func (m *MockTripRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trips[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.trips, id)
	return nil
}

func (m *MockTripRepository) ListByDriver(ctx context.Context, driverID string) ([]domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []domain.Trip
	for _, t := range m.trips {
		if t.DriverID == driverID {
			result = append(result, *t)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].DepartureTime.After(result[j].DepartureTime)
	})
	return result, nil
}

func (m *MockTripRepository) ListSearchable(ctx context.Context) ([]domain.Trip, error) {
	atomic.AddInt32(&m.ListSearchableCallCount, 1)
	if m.ListSearchableError != nil {
		return nil, m.ListSearchableError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []domain.Trip
	for _, t := range m.trips {
		if t.Status.Bookable() {
			result = append(result, *t)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].DepartureTime.Before(result[j].DepartureTime)
	})
	return result, nil
}

func (m *MockTripRepository) AdjustSeats(ctx context.Context, id string, delta int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	trip, ok := m.trips[id]
	if !ok {
		return repository.ErrNotFound
	}
	next := trip.AvailableSeats + delta
	if next < 0 || next > trip.TotalSeats {
		return repository.ErrSeatsUnavailable
	}
	trip.AvailableSeats = next
	return nil
}

// GetTrip returns trip for test assertions.
func (m *MockTripRepository) GetTrip(id string) *domain.Trip {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.trips[id]
}

// CountTrips returns the number of stored trips.
func (m *MockTripRepository) CountTrips() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.trips)
}

func (m *MockTripRepository) snapshot() func() {
	m.mu.RLock()
	saved := make(map[string]domain.Trip, len(m.trips))
	for id, t := range m.trips {
		saved[id] = *t
	}
	m.mu.RUnlock()
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.trips = make(map[string]*domain.Trip, len(saved))
		for id, t := range saved {
			copy := t
			m.trips[id] = &copy
		}
	}
}

// ──────────────────────────────────────────────
// MOCK BOOKING REPOSITORY
// ──────────────────────────────────────────────

// MockBookingRepository is a mock implementation of BookingRepository.
type MockBookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]*domain.Booking

	// Counters
	CreateCallCount int32
	UpdateCallCount int32

	// Error injection
	CreateError error
	UpdateError error
}

// NewMockBookingRepository creates a new mock booking repository.
func NewMockBookingRepository() *MockBookingRepository {
	return &MockBookingRepository{
		bookings: make(map[string]*domain.Booking),
	}
}

// AddBooking adds a booking to the mock repository.
func (m *MockBookingRepository) AddBooking(b *domain.Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *b
	m.bookings[b.ID] = &copy
}

func (m *MockBookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *b
	m.bookings[b.ID] = &copy
	return nil
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *b
	return &copy, nil
}

func (m *MockBookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[b.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *b
	m.bookings[b.ID] = &copy
	return nil
}

func (m *MockBookingRepository) ListByPassenger(ctx context.Context, passengerID string) ([]domain.Booking, error) {
	return m.filter(func(b *domain.Booking) bool { return b.PassengerID == passengerID }), nil
}

func (m *MockBookingRepository) ListByTrip(ctx context.Context, tripID string) ([]domain.Booking, error) {
	return m.filter(func(b *domain.Booking) bool { return b.TripID == tripID }), nil
}

func (m *MockBookingRepository) filter(keep func(*domain.Booking) bool) []domain.Booking {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []domain.Booking
	for _, b := range m.bookings {
		if keep(b) {
			result = append(result, *b)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

// GetBooking returns booking for test assertions.
func (m *MockBookingRepository) GetBooking(id string) *domain.Booking {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bookings[id]
}

// CountBookings returns the number of stored bookings.
func (m *MockBookingRepository) CountBookings() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.bookings)
}

func (m *MockBookingRepository) snapshot() func() {
	m.mu.RLock()
	saved := make(map[string]domain.Booking, len(m.bookings))
	for id, b := range m.bookings {
		saved[id] = *b
	}
	m.mu.RUnlock()
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.bookings = make(map[string]*domain.Booking, len(saved))
		for id, b := range saved {
			copy := b
			m.bookings[id] = &copy
		}
	}
}

// ──────────────────────────────────────────────
// MOCK DRIVER REPOSITORY
// ──────────────────────────────────────────────

// MockDriverRepository is a mock implementation of DriverRepository.
type MockDriverRepository struct {
	mu      sync.RWMutex
	drivers map[string]*domain.Driver

	// Counters
	UpdateRatingCallCount int32
}

// NewMockDriverRepository creates a new mock driver repository.
func NewMockDriverRepository() *MockDriverRepository {
	return &MockDriverRepository{
		drivers: make(map[string]*domain.Driver),
	}
}

// AddDriver adds a driver to the mock repository.
func (m *MockDriverRepository) AddDriver(driver *domain.Driver) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *driver
	m.drivers[driver.ID] = &copy
}

func (m *MockDriverRepository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.drivers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *d
	return &copy, nil
}

func (m *MockDriverRepository) IncrementCompletedTrips(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.drivers[id]
	if !ok {
		return repository.ErrNotFound
	}
	d.CompletedTrips++
	return nil
}

func (m *MockDriverRepository) UpdateRating(ctx context.Context, id string, rating float64) error {
	atomic.AddInt32(&m.UpdateRatingCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.drivers[id]
	if !ok {
		return repository.ErrNotFound
	}
	d.Rating = rating
	return nil
}

// GetDriver returns driver for test assertions.
func (m *MockDriverRepository) GetDriver(id string) *domain.Driver {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.drivers[id]
}

func (m *MockDriverRepository) snapshot() func() {
	m.mu.RLock()
	saved := make(map[string]domain.Driver, len(m.drivers))
	for id, d := range m.drivers {
		saved[id] = *d
	}
	m.mu.RUnlock()
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.drivers = make(map[string]*domain.Driver, len(saved))
		for id, d := range saved {
			copy := d
			m.drivers[id] = &copy
		}
	}
}

// ──────────────────────────────────────────────
// MOCK TRANSACTION MANAGER
// ──────────────────────────────────────────────

// MockTxManager runs fn against the mock repositories and restores their
// contents when fn fails.
type MockTxManager struct {
	Trips    *MockTripRepository
	Bookings *MockBookingRepository
	Drivers  *MockDriverRepository

	// Serializes transactions like row locks would.
	mu sync.Mutex

	// Counters
	TxCount       int32
	RollbackCount int32

	// Error injection
	BeginError error
}

// NewMockTxManager creates a transaction manager over the given repositories.
func NewMockTxManager(trips *MockTripRepository, bookings *MockBookingRepository, drivers *MockDriverRepository) *MockTxManager {
	return &MockTxManager{Trips: trips, Bookings: bookings, Drivers: drivers}
}

func (m *MockTxManager) WithinTx(ctx context.Context, fn func(tx repository.Tx) error) error {
	atomic.AddInt32(&m.TxCount, 1)
	if m.BeginError != nil {
		return m.BeginError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	restores := []func(){m.Trips.snapshot(), m.Bookings.snapshot(), m.Drivers.snapshot()}
	if err := fn(mockTx{m}); err != nil {
		atomic.AddInt32(&m.RollbackCount, 1)
		for _, restore := range restores {
			restore()
		}
		return err
	}
	return nil
}

type mockTx struct{ m *MockTxManager }

func (t mockTx) Trips() repository.TripRepository       { return t.m.Trips }
func (t mockTx) Bookings() repository.BookingRepository { return t.m.Bookings }
func (t mockTx) Drivers() repository.DriverRepository   { return t.m.Drivers }

// ──────────────────────────────────────────────
// MOCK REVIEW / INCIDENT / UNIVERSITY REPOSITORIES
// ──────────────────────────────────────────────

// MockReviewRepository is a mock implementation of ReviewRepository.
type MockReviewRepository struct {
	mu      sync.RWMutex
	reviews []domain.Review

	// Skips the Exists check result to exercise the unique constraint path.
	hideExisting bool
}

// SetHideExisting makes Exists report false regardless of stored reviews.
func (m *MockReviewRepository) SetHideExisting(hide bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hideExisting = hide
}

// NewMockReviewRepository creates a new mock review repository.
func NewMockReviewRepository() *MockReviewRepository {
	return &MockReviewRepository{}
}

func (m *MockReviewRepository) Create(ctx context.Context, r *domain.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.reviews {
		if existing.TripID == r.TripID && existing.ReviewerID == r.ReviewerID {
			return repository.ErrDuplicate
		}
	}
	m.reviews = append(m.reviews, *r)
	return nil
}

func (m *MockReviewRepository) Exists(ctx context.Context, tripID, reviewerID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.hideExisting {
		return false, nil
	}
	for _, r := range m.reviews {
		if r.TripID == tripID && r.ReviewerID == reviewerID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockReviewRepository) ListByReviewee(ctx context.Context, revieweeID string) ([]domain.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []domain.Review
	for _, r := range m.reviews {
		if r.RevieweeID == revieweeID {
			result = append(result, r)
		}
	}
	slices.Reverse(result)
	return result, nil
}

func (m *MockReviewRepository) AverageForReviewee(ctx context.Context, revieweeID string) (float64, int, error) {
	reviews, _ := m.ListByReviewee(ctx, revieweeID)
	if len(reviews) == 0 {
		return 0, 0, nil
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(reviews)), len(reviews), nil
}

// CountReviews returns the number of stored reviews.
func (m *MockReviewRepository) CountReviews() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.reviews)
}

// MockIncidentRepository is a mock implementation of IncidentRepository.
type MockIncidentRepository struct {
	mu        sync.Mutex
	Incidents []domain.Incident

	CreateError error
}

// NewMockIncidentRepository creates a new mock incident repository.
func NewMockIncidentRepository() *MockIncidentRepository {
	return &MockIncidentRepository{}
}

func (m *MockIncidentRepository) Create(ctx context.Context, incident *domain.Incident) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Incidents = append(m.Incidents, *incident)
	return nil
}

// MockUniversityRepository is a mock implementation of UniversityRepository.
type MockUniversityRepository struct {
	Universities []domain.University
	ListError    error

	ListCallCount int32
}

func (m *MockUniversityRepository) List(ctx context.Context) ([]domain.University, error) {
	atomic.AddInt32(&m.ListCallCount, 1)
	if m.ListError != nil {
		return nil, m.ListError
	}
	return slices.Clone(m.Universities), nil
}

// ──────────────────────────────────────────────
// MOCK CACHE STORE
// ──────────────────────────────────────────────

// MockCacheStore is a mock implementation of TripCache and UniversityCache.
type MockCacheStore struct {
	mu           sync.Mutex
	searchable   []domain.Trip
	hasList      bool
	trips        map[string]domain.Trip
	universities []domain.University

	// Counters
	InvalidateCallCount int32
	SetListCallCount    int32

	// Error injection
	GetError error
	SetError error
}

// NewMockCacheStore creates a new mock cache store.
func NewMockCacheStore() *MockCacheStore {
	return &MockCacheStore{trips: make(map[string]domain.Trip)}
}

func (m *MockCacheStore) GetSearchableTrips(ctx context.Context) ([]domain.Trip, bool, error) {
	if m.GetError != nil {
		return nil, false, m.GetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.searchable), m.hasList, nil
}

func (m *MockCacheStore) SetSearchableTrips(ctx context.Context, trips []domain.Trip) error {
	atomic.AddInt32(&m.SetListCallCount, 1)
	if m.SetError != nil {
		return m.SetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searchable = slices.Clone(trips)
	m.hasList = true
	return nil
}

func (m *MockCacheStore) GetTrip(ctx context.Context, tripID string) (*domain.Trip, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.trips[tripID]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (m *MockCacheStore) SetTrip(ctx context.Context, trip *domain.Trip) error {
	if m.SetError != nil {
		return m.SetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips[trip.ID] = *trip
	return nil
}

func (m *MockCacheStore) InvalidateTrip(ctx context.Context, tripID string) error {
	atomic.AddInt32(&m.InvalidateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.trips, tripID)
	m.searchable = nil
	m.hasList = false
	return nil
}

func (m *MockCacheStore) GetUniversities(ctx context.Context) ([]domain.University, bool, error) {
	if m.GetError != nil {
		return nil, false, m.GetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.universities), m.universities != nil, nil
}

func (m *MockCacheStore) SetUniversities(ctx context.Context, list []domain.University) error {
	if m.SetError != nil {
		return m.SetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.universities = slices.Clone(list)
	return nil
}

// HasTrip reports whether the single-trip cache holds tripID.
func (m *MockCacheStore) HasTrip(tripID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.trips[tripID]
	return ok
}

// ──────────────────────────────────────────────
// MOCK LOCATION STORE
// ──────────────────────────────────────────────

// MockLocationStore is a mock implementation of TripLocator that filters
// with the distance engine.
type MockLocationStore struct {
	mu        sync.RWMutex
	locations map[string]domain.Coordinate

	// Counters
	IndexCallCount int32

	// Error injection
	IndexError error
	FindError  error
}

// NewMockLocationStore creates a new mock location store.
func NewMockLocationStore() *MockLocationStore {
	return &MockLocationStore{locations: make(map[string]domain.Coordinate)}
}

func (m *MockLocationStore) IndexTrip(ctx context.Context, tripID string, lat, lng float64) error {
	atomic.AddInt32(&m.IndexCallCount, 1)
	if m.IndexError != nil {
		return m.IndexError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locations[tripID] = domain.Coordinate{Lat: lat, Lng: lng}
	return nil
}

func (m *MockLocationStore) FindNearbyTrips(ctx context.Context, lat, lng, radiusKm float64) ([]redis.TripLocation, error) {
	if m.FindError != nil {
		return nil, m.FindError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []redis.TripLocation
	for _, id := range slices.Sorted(maps.Keys(m.locations)) {
		c := m.locations[id]
		d := geo.DistanceKm(lat, lng, c.Lat, c.Lng)
		if d <= radiusKm {
			result = append(result, redis.TripLocation{TripID: id, Lat: c.Lat, Lng: c.Lng, DistanceKm: d})
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].DistanceKm < result[j].DistanceKm })
	return result, nil
}

func (m *MockLocationStore) RemoveTrip(ctx context.Context, tripID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locations, tripID)
	return nil
}

// HasLocation checks if a trip is indexed.
func (m *MockLocationStore) HasLocation(tripID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.locations[tripID]
	return ok
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of TripLocker.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]time.Time

	// Counters
	AcquireCallCount int32
	ReleaseCallCount int32

	// Error injection
	AcquireError error

	// Force lock failure
	ForceAcquireFailure bool
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{
		locks: make(map[string]time.Time),
	}
}

func (m *MockLockStore) AcquireTripLock(ctx context.Context, tripID string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	if m.ForceAcquireFailure {
		return false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	key := "lock:trip:" + tripID
	if expiry, exists := m.locks[key]; exists && time.Now().Before(expiry) {
		return false, nil // Lock still held.
	}
	m.locks[key] = time.Now().Add(ttl)
	return true, nil
}

func (m *MockLockStore) ReleaseTripLock(ctx context.Context, tripID string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, "lock:trip:"+tripID)
	return nil
}

// IsLocked checks if a trip is locked (for test assertions).
func (m *MockLockStore) IsLocked(tripID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	expiry, exists := m.locks["lock:trip:"+tripID]
	return exists && time.Now().Before(expiry)
}

// ──────────────────────────────────────────────
// RECORDING PUBLISHER
// ──────────────────────────────────────────────

// RecordingPublisher keeps every published event in memory.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []events.Event

	PublishError error
}

func (p *RecordingPublisher) Publish(ctx context.Context, e events.Event) error {
	if p.PublishError != nil {
		return p.PublishError
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *RecordingPublisher) Close() error { return nil }

// Types returns the published event types in order.
func (p *RecordingPublisher) Types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Type, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

// Last returns the most recent event.
func (p *RecordingPublisher) Last() (events.Event, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.events) == 0 {
		return events.Event{}, false
	}
	return p.events[len(p.events)-1], true
}

// ──────────────────────────────────────────────
// HELPER ERRORS
// ──────────────────────────────────────────────

var (
	ErrMockDBConnection = errors.New("mock: database connection failed")
	ErrMockRedis        = errors.New("mock: redis unavailable")
)

// Ensure mocks implement interfaces.
var (
	_ repository.TripRepository       = (*MockTripRepository)(nil)
	_ repository.BookingRepository    = (*MockBookingRepository)(nil)
	_ repository.DriverRepository     = (*MockDriverRepository)(nil)
	_ repository.ReviewRepository     = (*MockReviewRepository)(nil)
	_ repository.IncidentRepository   = (*MockIncidentRepository)(nil)
	_ repository.UniversityRepository = (*MockUniversityRepository)(nil)
	_ repository.TxManager            = (*MockTxManager)(nil)
	_ redis.TripCache                 = (*MockCacheStore)(nil)
	_ redis.UniversityCache           = (*MockCacheStore)(nil)
	_ redis.TripLocator               = (*MockLocationStore)(nil)
	_ redis.TripLocker                = (*MockLockStore)(nil)
	_ events.Publisher                = (*RecordingPublisher)(nil)
)
