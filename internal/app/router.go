package app

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"

	"unigo/internal/handler"
	"unigo/internal/metrics"
	"unigo/internal/middleware"
	"unigo/internal/redis"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	TripHandler       *handler.TripHandler
	BookingHandler    *handler.BookingHandler
	ReviewHandler     *handler.ReviewHandler
	UniversityHandler *handler.UniversityHandler
	GeocodeHandler    *handler.GeocodeHandler

	Tokens      middleware.TokenValidator
	Responses   redis.ResponseStore // Optional; idempotent replays are disabled without it
	Metrics     *metrics.Collector
	Logger      *slog.Logger
	NewRelicApp *newrelic.Application
	CORSOrigins []string
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(deps.Logger, deps.Metrics))
	router.Use(middleware.CORSMiddleware(deps.CORSOrigins))

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	api := router.Group("/api")

	// Public reads.
	{
		api.GET("/trips", deps.TripHandler.Search)
		api.GET("/trips/nearby", deps.TripHandler.Nearby)
		api.GET("/trips/:id", deps.TripHandler.GetTrip)
		api.GET("/trips/driver/:id", deps.TripHandler.ListByDriver)

		api.GET("/reviews/check/:tripId/:userId", deps.ReviewHandler.CheckReview)
		api.GET("/users/:id/reviews", deps.ReviewHandler.ListUserReviews)
		api.GET("/universities", deps.UniversityHandler.List)

		api.GET("/geocode/search", deps.GeocodeHandler.Search)
		api.GET("/geocode/reverse", deps.GeocodeHandler.Reverse)
		api.GET("/geocode/ws", deps.GeocodeHandler.Autocomplete)
		api.POST("/location/resolve", deps.GeocodeHandler.ResolveLocation)
	}

	// Authenticated routes. Idempotency runs after Auth so replays are
	// scoped to the caller.
	authed := api.Group("")
	authed.Use(middleware.Auth(deps.Tokens))
	if deps.Responses != nil {
		authed.Use(middleware.Idempotency(deps.Responses, deps.Logger))
	}
	{
		authed.POST("/trips", deps.TripHandler.CreateTrip)
		authed.PUT("/trips/:id", deps.TripHandler.UpdateTrip)
		authed.DELETE("/trips/:id", deps.TripHandler.DeleteTrip)
		authed.PUT("/trips/:id/start", deps.TripHandler.StartTrip)
		authed.PUT("/trips/:id/complete", deps.TripHandler.CompleteTrip)
		authed.PUT("/trips/:id/cancel", deps.TripHandler.CancelTrip)

		authed.POST("/trips/:id/book", deps.BookingHandler.BookTrip)
		authed.GET("/bookings", deps.BookingHandler.ListBookings)
		authed.PUT("/bookings/:id/cancel", deps.BookingHandler.CancelBooking)
		authed.PUT("/bookings/:id/driver-update", deps.BookingHandler.DriverUpdate)

		authed.POST("/reviews", deps.ReviewHandler.CreateReview)
		authed.POST("/incidents/report", deps.ReviewHandler.ReportIncident)
	}

	return router
}
