package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unigo/internal/app"
	"unigo/internal/auth"
	"unigo/internal/geocode"
	"unigo/internal/handler"
	"unigo/internal/logging"
	"unigo/internal/middleware"
	"unigo/internal/service"
)

// =============================================================================
// Router Integration Tests
// =============================================================================

// memoryResponses is an in-memory idempotency store.
type memoryResponses struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (s *memoryResponses) Load(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.data[key]
	return d, ok, nil
}

func (s *memoryResponses) Save(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = data
	return nil
}

type apiClient struct {
	t      *testing.T
	router *gin.Engine
}

func (a apiClient) do(method, path, token string, body any, headers ...string) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func newTestRouter(t *testing.T, e *testEnv) (apiClient, *auth.JWTService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logging.Discard()
	jwtSvc := auth.NewJWTService("test-secret", "unigo", time.Hour)
	universities := service.NewUniversityService(&MockUniversityRepository{}, e.cache, log)
	geocoder := geocode.NewClient(geocode.NewChain(e.metrics), time.Second, e.metrics)

	router := app.NewRouter(app.RouterDeps{
		TripHandler:       handler.NewTripHandler(e.tripService, e.searchService),
		BookingHandler:    handler.NewBookingHandler(e.bookingService),
		ReviewHandler:     handler.NewReviewHandler(e.reviewService, e.incidentService),
		UniversityHandler: handler.NewUniversityHandler(universities),
		GeocodeHandler:    handler.NewGeocodeHandler(geocoder, geocode.DefaultCityCentre, 0, log),
		Tokens:            jwtSvc,
		Responses:         &memoryResponses{data: map[string][]byte{}},
		Metrics:           e.metrics,
		Logger:            log,
	})
	return apiClient{t: t, router: router}, jwtSvc
}

func TestRouter_TripAndBookingFlow(t *testing.T) {
	e := newTestEnv(t)
	api, jwtSvc := newTestRouter(t, e)

	driverToken, err := jwtSvc.GenerateToken("driver-1", auth.RoleDriver)
	require.NoError(t, err)
	passengerToken, err := jwtSvc.GenerateToken("passenger-1", auth.RolePassenger)
	require.NoError(t, err)

	w := api.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	req := validCreateRequest("ignored")
	body := map[string]any{
		"departure":      req.Departure,
		"arrival":        req.Arrival,
		"departure_time": req.DepartureTime.UTC().Format(time.RFC3339),
		"price_per_seat": req.PricePerSeat,
		"total_seats":    req.TotalSeats,
		"payment_modes":  req.PaymentModes,
	}

	// Writes need a token.
	w = api.do(http.MethodPost, "/api/trips", "", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(http.MethodPost, "/api/trips", driverToken, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var trip handler.TripResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &trip))
	assert.Equal(t, "driver-1", trip.DriverID)
	assert.Equal(t, 3, trip.AvailableSeats)

	// Reads are public.
	w = api.do(http.MethodGet, "/api/trips", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var found handler.SearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &found))
	assert.Equal(t, 1, found.Count)
	assert.Equal(t, string(service.SourceDatabase), found.Source)

	// A retried booking with the same key is served from the store.
	book := map[string]any{"seats": 2, "payment_method": "unicard"}
	first := api.do(http.MethodPost, "/api/trips/"+trip.ID+"/book", passengerToken, book, middleware.IdempotencyHeader, "k-1")
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())
	second := api.do(http.MethodPost, "/api/trips/"+trip.ID+"/book", passengerToken, book, middleware.IdempotencyHeader, "k-1")
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "true", second.Header().Get(middleware.ReplayedHeader))
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, e.bookings.CountBookings())
	assert.Equal(t, 1, e.trips.GetTrip(trip.ID).AvailableSeats)

	var booking handler.BookingResponse
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &booking))

	// Drivers cannot book their own trip.
	w = api.do(http.MethodPost, "/api/trips/"+trip.ID+"/book", driverToken, map[string]any{"seats": 1, "payment_method": "unicard"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(http.MethodPut, "/api/bookings/"+booking.ID+"/driver-update", driverToken, map[string]string{"action": "confirm"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"status":"confirmed"`)

	w = api.do(http.MethodGet, "/api/bookings", passengerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":1`)

	w = api.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "unigo_bookings_total")
	assert.Contains(t, w.Body.String(), "unigo_http_requests_total")
}

func TestRouter_PublicLookups(t *testing.T) {
	e := newTestEnv(t)
	api, _ := newTestRouter(t, e)

	w := api.do(http.MethodGet, "/api/universities", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"source":"seed"`)

	w = api.do(http.MethodGet, "/api/geocode/search?q=ab", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodGet, "/api/trips/nearby?lat=95&lng=0", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodGet, "/api/trips/unknown", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}
