package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"unigo/internal/domain"
	"unigo/internal/middleware"
	"unigo/internal/service"
)

// TripHandler handles HTTP requests for trips.
type TripHandler struct {
	trips  TripUseCase
	search SearchUseCase
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(trips TripUseCase, search SearchUseCase) *TripHandler {
	return &TripHandler{trips: trips, search: search}
}

// searchParams is the query string of GET /trips.
type searchParams struct {
	Departure    string   `form:"departure"`
	Arrival      string   `form:"arrival"`
	DepartureLat *float64 `form:"departure_lat"`
	DepartureLng *float64 `form:"departure_lng"`
	ArrivalLat   *float64 `form:"arrival_lat"`
	ArrivalLng   *float64 `form:"arrival_lng"`
	Date         string   `form:"date"`
	RadiusKm     float64  `form:"radius_km"`
	MaxPrice     float64  `form:"max_price"`
	MinSeats     int      `form:"min_seats"`
	SortBy       string   `form:"sort_by"`
	Order        string   `form:"order"`

	// Facets
	PriceMin       float64 `form:"price_min"`
	PriceMax       float64 `form:"price_max"`
	SeatsMin       int     `form:"seats_min"`
	TripType       string  `form:"trip_type"`
	PaymentMethods string  `form:"payment_methods"` // Comma separated
	TimeOfDay      string  `form:"time_of_day"`
	MinRating      float64 `form:"min_rating"`
	Experience     string  `form:"experience"`
	Smoking        string  `form:"smoking"`
	Gender         string  `form:"gender"`
	VerifiedOnly   bool    `form:"verified_only"`
}

func (p searchParams) query() (domain.SearchQuery, bool) {
	dep, ok := coordinatePair(p.DepartureLat, p.DepartureLng)
	if !ok {
		return domain.SearchQuery{}, false
	}
	arr, ok := coordinatePair(p.ArrivalLat, p.ArrivalLng)
	if !ok {
		return domain.SearchQuery{}, false
	}

	var methods []domain.PaymentMode
	for _, m := range strings.Split(p.PaymentMethods, ",") {
		if m = strings.TrimSpace(m); m != "" {
			methods = append(methods, domain.PaymentMode(m))
		}
	}

	return domain.SearchQuery{
		Departure:      p.Departure,
		Arrival:        p.Arrival,
		DepartureCoord: dep,
		ArrivalCoord:   arr,
		Date:           p.Date,
		RadiusKm:       p.RadiusKm,
		MaxPrice:       p.MaxPrice,
		MinSeats:       p.MinSeats,
		SortBy:         domain.SortKey(p.SortBy),
		Descending:     strings.EqualFold(p.Order, "desc"),
		Facets: domain.Facets{
			MinPrice:       p.PriceMin,
			MaxPrice:       p.PriceMax,
			MinSeats:       p.SeatsMin,
			TripType:       domain.TripType(p.TripType),
			PaymentMethods: methods,
			TimeOfDay:      domain.TimeOfDay(p.TimeOfDay),
			MinRating:      p.MinRating,
			Experience:     domain.ExperienceTier(p.Experience),
			Smoking:        domain.SmokingPolicy(p.Smoking),
			Gender:         p.Gender,
			VerifiedOnly:   p.VerifiedOnly,
		},
	}, true
}

// coordinatePair requires both halves or neither.
func coordinatePair(lat, lng *float64) (*domain.Coordinate, bool) {
	switch {
	case lat == nil && lng == nil:
		return nil, true
	case lat == nil || lng == nil:
		return nil, false
	}
	return &domain.Coordinate{Lat: *lat, Lng: *lng}, true
}

// Search handles GET /api/trips
func (h *TripHandler) Search(c *gin.Context) {
	var params searchParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	q, ok := params.query()
	if !ok {
		respondBadRequest(c, "latitude and longitude must be given together")
		return
	}

	resp, err := h.search.Search(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toSearchResponse(resp.Results, string(resp.Source)))
}

type nearbyParams struct {
	Lat      *float64 `form:"lat" binding:"required"`
	Lng      *float64 `form:"lng" binding:"required"`
	RadiusKm float64  `form:"radius_km"`
}

// Nearby handles GET /api/trips/nearby
func (h *TripHandler) Nearby(c *gin.Context) {
	var params nearbyParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBadRequest(c, "lat and lng are required")
		return
	}

	resp, err := h.search.Nearby(c.Request.Context(), *params.Lat, *params.Lng, params.RadiusKm)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toSearchResponse(resp.Results, string(resp.Source)))
}

// GetTrip handles GET /api/trips/:id
func (h *TripHandler) GetTrip(c *gin.Context) {
	trip, err := h.trips.GetTrip(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toTripResponse(trip))
}

// ListByDriver handles GET /api/trips/driver/:id
func (h *TripHandler) ListByDriver(c *gin.Context) {
	trips, err := h.trips.ListByDriver(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, gin.H{"trips": toTripResponses(trips), "count": len(trips)})
}

// CreateTripRequest is the body of POST /api/trips.
type CreateTripRequest struct {
	Departure     domain.Place         `json:"departure"`
	Arrival       domain.Place         `json:"arrival"`
	DepartureTime time.Time            `json:"departure_time" binding:"required"`
	ArrivalTime   *time.Time           `json:"arrival_time"`
	PricePerSeat  float64              `json:"price_per_seat"`
	TotalSeats    int                  `json:"total_seats" binding:"required"`
	Tags          []string             `json:"tags"`
	PaymentModes  []domain.PaymentMode `json:"payment_modes"`
	TripType      domain.TripType      `json:"trip_type"`
	UniversityID  string               `json:"university_id"`
}

// CreateTrip handles POST /api/trips
func (h *TripHandler) CreateTrip(c *gin.Context) {
	var req CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	in := service.CreateTripRequest{
		DriverID:      middleware.UserID(c),
		Departure:     req.Departure,
		Arrival:       req.Arrival,
		DepartureTime: req.DepartureTime,
		PricePerSeat:  req.PricePerSeat,
		TotalSeats:    req.TotalSeats,
		Tags:          req.Tags,
		PaymentModes:  req.PaymentModes,
		TripType:      req.TripType,
		UniversityID:  req.UniversityID,
	}
	if req.ArrivalTime != nil {
		in.ArrivalTime = *req.ArrivalTime
	}

	trip, err := h.trips.CreateTrip(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusCreated, toTripResponse(trip))
}

// UpdateTripRequest is the body of PUT /api/trips/:id. Omitted fields are kept.
type UpdateTripRequest struct {
	Departure     *domain.Place        `json:"departure"`
	Arrival       *domain.Place        `json:"arrival"`
	DepartureTime *time.Time           `json:"departure_time"`
	ArrivalTime   *time.Time           `json:"arrival_time"`
	PricePerSeat  *float64             `json:"price_per_seat"`
	TotalSeats    *int                 `json:"total_seats"`
	Tags          []string             `json:"tags"`
	PaymentModes  []domain.PaymentMode `json:"payment_modes"`
	TripType      *domain.TripType     `json:"trip_type"`
}

// UpdateTrip handles PUT /api/trips/:id
func (h *TripHandler) UpdateTrip(c *gin.Context) {
	var req UpdateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	trip, err := h.trips.UpdateTrip(c.Request.Context(), service.UpdateTripRequest{
		TripID:        c.Param("id"),
		DriverID:      middleware.UserID(c),
		Departure:     req.Departure,
		Arrival:       req.Arrival,
		DepartureTime: req.DepartureTime,
		ArrivalTime:   req.ArrivalTime,
		PricePerSeat:  req.PricePerSeat,
		TotalSeats:    req.TotalSeats,
		Tags:          req.Tags,
		PaymentModes:  req.PaymentModes,
		TripType:      req.TripType,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toTripResponse(trip))
}

// DeleteTrip handles DELETE /api/trips/:id
func (h *TripHandler) DeleteTrip(c *gin.Context) {
	if err := h.trips.DeleteTrip(c.Request.Context(), c.Param("id"), middleware.UserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// StartTrip handles PUT /api/trips/:id/start
func (h *TripHandler) StartTrip(c *gin.Context) {
	trip, err := h.trips.StartTrip(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toTripResponse(trip))
}

// CompleteTrip handles PUT /api/trips/:id/complete
func (h *TripHandler) CompleteTrip(c *gin.Context) {
	trip, err := h.trips.CompleteTrip(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toTripResponse(trip))
}

type reasonRequest struct {
	Reason string `json:"reason"`
}

// CancelTrip handles PUT /api/trips/:id/cancel
func (h *TripHandler) CancelTrip(c *gin.Context) {
	var req reasonRequest
	// The body is optional.
	_ = c.ShouldBindJSON(&req)

	trip, err := h.trips.CancelTrip(c.Request.Context(), c.Param("id"), middleware.UserID(c), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toTripResponse(trip))
}
