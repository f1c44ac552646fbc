package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"unigo/internal/domain"
	"unigo/internal/middleware"
	"unigo/internal/repository"
	"unigo/internal/search"
	"unigo/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestContext builds a gin context for a request made by userID.
func newTestContext(method, target string, body any, userID string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	c.Request = httptest.NewRequest(method, target, reader)
	c.Request.Header.Set("Content-Type", "application/json")
	if userID != "" {
		c.Set(middleware.ContextUserID, userID)
	}
	return c, w
}

func sampleTrip() *domain.Trip {
	dep := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	return &domain.Trip{
		ID:             "trip-1",
		DriverID:       "driver-1",
		Departure:      domain.Place{Address: "Agdal, Rabat", Coordinates: domain.Coordinate{Lat: 33.9911, Lng: -6.8498}},
		Arrival:        domain.Place{Address: "UIR, Sala Al Jadida", Coordinates: domain.Coordinate{Lat: 33.9812, Lng: -6.7269}},
		DepartureTime:  dep,
		ArrivalTime:    dep.Add(25 * time.Minute),
		PricePerSeat:   15,
		TotalSeats:     3,
		AvailableSeats: 2,
		PaymentModes:   []domain.PaymentMode{domain.PaymentModeCash},
		TripType:       domain.TripTypeOneWay,
		DistanceKm:     11.4,
		Status:         domain.TripStatusPublished,
	}
}

func TestTripHandler_Search(t *testing.T) {
	mockSearch := &MockSearchUseCase{}
	handler := NewTripHandler(&MockTripUseCase{}, mockSearch)

	c, w := newTestContext(http.MethodGet,
		"/api/trips?departure=Agdal&departure_lat=33.99&departure_lng=-6.85&max_price=30&payment_methods=cash,%20unicard&sort_by=price_per_seat&order=desc",
		nil, "")

	resp := &service.SearchResponse{
		Results: []search.Result{{Trip: *sampleTrip(), DistanceKm: 0.4, DistanceLabel: "400m", DurationMinutes: 25}},
		Source:  service.SourceDatabase,
	}
	mockSearch.On("Search", mock.Anything, mock.MatchedBy(func(q domain.SearchQuery) bool {
		return q.Departure == "Agdal" &&
			q.DepartureCoord != nil && q.DepartureCoord.Lat == 33.99 &&
			q.ArrivalCoord == nil &&
			q.MaxPrice == 30 &&
			q.SortBy == domain.SortByPrice && q.Descending &&
			len(q.Facets.PaymentMethods) == 2 &&
			q.Facets.PaymentMethods[1] == domain.PaymentModeUniCard
	})).Return(resp, nil)

	handler.Search(c)

	require.Equal(t, http.StatusOK, w.Code)
	var body SearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
	assert.Equal(t, "database", body.Source)
	assert.Equal(t, "400m", body.Trips[0].DistanceLabel)
	assert.Equal(t, "trip-1", body.Trips[0].ID)
	assert.Equal(t, "2025-03-10T08:00:00Z", body.Trips[0].DepartureTime)
	assert.NotNil(t, body.Trips[0].Tags)

	mockSearch.AssertExpectations(t)
}

func TestTripHandler_Search_HalfCoordinate(t *testing.T) {
	mockSearch := &MockSearchUseCase{}
	handler := NewTripHandler(&MockTripUseCase{}, mockSearch)

	c, w := newTestContext(http.MethodGet, "/api/trips?arrival_lat=33.98", nil, "")
	handler.Search(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSearch.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
}

func TestTripHandler_Search_ServiceError(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want int
	}{
		{"invalid location", service.ErrInvalidLocation, http.StatusBadRequest},
		{"not found", repository.ErrNotFound, http.StatusNotFound},
		{"unexpected", assert.AnError, http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockSearch := &MockSearchUseCase{}
			handler := NewTripHandler(&MockTripUseCase{}, mockSearch)
			mockSearch.On("Search", mock.Anything, mock.Anything).Return(nil, tc.err)

			c, w := newTestContext(http.MethodGet, "/api/trips", nil, "")
			handler.Search(c)

			assert.Equal(t, tc.want, w.Code)
			if tc.want == http.StatusInternalServerError {
				assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
			}
		})
	}
}

func TestTripHandler_Nearby(t *testing.T) {
	mockSearch := &MockSearchUseCase{}
	handler := NewTripHandler(&MockTripUseCase{}, mockSearch)

	mockSearch.On("Nearby", mock.Anything, 33.99, -6.85, 3.0).
		Return(&service.SearchResponse{Results: []search.Result{}, Source: service.SourceGeoIndex}, nil)

	c, w := newTestContext(http.MethodGet, "/api/trips/nearby?lat=33.99&lng=-6.85&radius_km=3", nil, "")
	handler.Nearby(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"trips":[],"count":0,"source":"geo_index"}`, w.Body.String())

	c, w = newTestContext(http.MethodGet, "/api/trips/nearby?lat=33.99", nil, "")
	handler.Nearby(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	mockSearch.AssertExpectations(t)
}

func TestTripHandler_CreateTrip(t *testing.T) {
	mockTrips := &MockTripUseCase{}
	handler := NewTripHandler(mockTrips, &MockSearchUseCase{})

	trip := sampleTrip()
	input := map[string]any{
		"departure":      trip.Departure,
		"arrival":        trip.Arrival,
		"departure_time": "2025-03-10T08:00:00Z",
		"price_per_seat": 15,
		"total_seats":    3,
		"tags":           []string{"Music"},
	}
	c, w := newTestContext(http.MethodPost, "/api/trips", input, "driver-1")

	mockTrips.On("CreateTrip", mock.Anything, mock.MatchedBy(func(req service.CreateTripRequest) bool {
		return req.DriverID == "driver-1" &&
			req.TotalSeats == 3 &&
			req.PricePerSeat == 15 &&
			req.DepartureTime.Equal(trip.DepartureTime) &&
			req.ArrivalTime.IsZero() &&
			req.Departure.Address == "Agdal, Rabat"
	})).Return(trip, nil)

	handler.CreateTrip(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var body TripResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "trip-1", body.ID)
	assert.Equal(t, domain.TripStatusPublished, body.Status)

	mockTrips.AssertExpectations(t)
}

func TestTripHandler_CreateTrip_Rejected(t *testing.T) {
	mockTrips := &MockTripUseCase{}
	handler := NewTripHandler(mockTrips, &MockSearchUseCase{})

	// Missing required fields never reach the service.
	c, w := newTestContext(http.MethodPost, "/api/trips", map[string]any{"price_per_seat": 10}, "driver-1")
	handler.CreateTrip(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockTrips.AssertNotCalled(t, "CreateTrip", mock.Anything, mock.Anything)

	mockTrips.On("CreateTrip", mock.Anything, mock.Anything).Return(nil, service.ErrInvalidSeats)
	c, w = newTestContext(http.MethodPost, "/api/trips", map[string]any{
		"departure_time": "2025-03-10T08:00:00Z",
		"total_seats":    12,
	}, "driver-1")
	handler.CreateTrip(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), service.ErrInvalidSeats.Error())
}

func TestTripHandler_UpdateTrip(t *testing.T) {
	mockTrips := &MockTripUseCase{}
	handler := NewTripHandler(mockTrips, &MockSearchUseCase{})

	updated := sampleTrip()
	updated.PricePerSeat = 20
	mockTrips.On("UpdateTrip", mock.Anything, mock.MatchedBy(func(req service.UpdateTripRequest) bool {
		return req.TripID == "trip-1" && req.DriverID == "driver-1" &&
			req.PricePerSeat != nil && *req.PricePerSeat == 20 &&
			req.TotalSeats == nil && req.Departure == nil
	})).Return(updated, nil).Once()
	mockTrips.On("UpdateTrip", mock.Anything, mock.MatchedBy(func(req service.UpdateTripRequest) bool {
		return req.DriverID == "intruder"
	})).Return(nil, service.ErrForbidden).Once()

	c, w := newTestContext(http.MethodPut, "/api/trips/trip-1", map[string]any{"price_per_seat": 20}, "driver-1")
	c.Params = gin.Params{{Key: "id", Value: "trip-1"}}
	handler.UpdateTrip(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"price_per_seat":20`)

	c, w = newTestContext(http.MethodPut, "/api/trips/trip-1", map[string]any{"price_per_seat": 20}, "intruder")
	c.Params = gin.Params{{Key: "id", Value: "trip-1"}}
	handler.UpdateTrip(c)
	assert.Equal(t, http.StatusForbidden, w.Code)

	mockTrips.AssertExpectations(t)
}

func TestTripHandler_DeleteTrip(t *testing.T) {
	mockTrips := &MockTripUseCase{}
	handler := NewTripHandler(mockTrips, &MockSearchUseCase{})

	mockTrips.On("DeleteTrip", mock.Anything, "trip-1", "driver-1").Return(nil)
	mockTrips.On("DeleteTrip", mock.Anything, "trip-2", "driver-1").Return(service.ErrTripHasBookings)

	r := gin.New()
	r.DELETE("/trips/:id", func(c *gin.Context) {
		c.Set(middleware.ContextUserID, "driver-1")
	}, handler.DeleteTrip)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/trips/trip-1", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/trips/trip-2", nil))
	assert.Equal(t, http.StatusConflict, w.Code)

	mockTrips.AssertExpectations(t)
}

func TestTripHandler_Transitions(t *testing.T) {
	mockTrips := &MockTripUseCase{}
	handler := NewTripHandler(mockTrips, &MockSearchUseCase{})

	active := sampleTrip()
	active.Status = domain.TripStatusActive
	cancelled := sampleTrip()
	cancelled.Status = domain.TripStatusCancelled

	mockTrips.On("StartTrip", mock.Anything, "trip-1", "driver-1").Return(active, nil)
	mockTrips.On("CompleteTrip", mock.Anything, "trip-1", "driver-1").Return(nil, service.ErrInvalidTransition)
	mockTrips.On("CancelTrip", mock.Anything, "trip-1", "driver-1", "car broke down").Return(cancelled, nil)
	mockTrips.On("CancelTrip", mock.Anything, "trip-1", "driver-1", "").Return(cancelled, nil)

	run := func(fn gin.HandlerFunc, body any) *httptest.ResponseRecorder {
		c, w := newTestContext(http.MethodPut, "/api/trips/trip-1/x", body, "driver-1")
		c.Params = gin.Params{{Key: "id", Value: "trip-1"}}
		fn(c)
		return w
	}

	w := run(handler.StartTrip, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"active"`)

	w = run(handler.CompleteTrip, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = run(handler.CancelTrip, map[string]string{"reason": "car broke down"})
	assert.Equal(t, http.StatusOK, w.Code)

	// The cancellation reason is optional.
	w = run(handler.CancelTrip, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	mockTrips.AssertExpectations(t)
}

func TestTripHandler_GetAndList(t *testing.T) {
	mockTrips := &MockTripUseCase{}
	handler := NewTripHandler(mockTrips, &MockSearchUseCase{})

	trip := sampleTrip()
	trip.Driver = &domain.Driver{ID: "driver-1", Name: "Salma", Rating: 4.8, CompletedTrips: 40}
	mockTrips.On("GetTrip", mock.Anything, "trip-1").Return(trip, nil)
	mockTrips.On("GetTrip", mock.Anything, "missing").Return(nil, repository.ErrNotFound)
	mockTrips.On("ListByDriver", mock.Anything, "driver-1").Return([]domain.Trip{*trip}, nil)

	c, w := newTestContext(http.MethodGet, "/api/trips/trip-1", nil, "")
	c.Params = gin.Params{{Key: "id", Value: "trip-1"}}
	handler.GetTrip(c)
	assert.Equal(t, http.StatusOK, w.Code)
	var body TripResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotNil(t, body.Driver)
	assert.Equal(t, "Salma", body.Driver.Name)

	c, w = newTestContext(http.MethodGet, "/api/trips/missing", nil, "")
	c.Params = gin.Params{{Key: "id", Value: "missing"}}
	handler.GetTrip(c)
	assert.Equal(t, http.StatusNotFound, w.Code)

	c, w = newTestContext(http.MethodGet, "/api/trips/driver/driver-1", nil, "")
	c.Params = gin.Params{{Key: "id", Value: "driver-1"}}
	handler.ListByDriver(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":1`)

	mockTrips.AssertExpectations(t)
}
