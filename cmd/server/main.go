package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"unigo/internal/app"
	"unigo/internal/auth"
	"unigo/internal/config"
	"unigo/internal/domain"
	"unigo/internal/events"
	"unigo/internal/geocode"
	"unigo/internal/handler"
	"unigo/internal/logging"
	"unigo/internal/metrics"
	internalRedis "unigo/internal/redis"
	"unigo/internal/repository/postgres"
	"unigo/internal/service"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg.Log.Level)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			logger.Warn("failed to initialize New Relic", "error", err)
		} else {
			logger.Info("New Relic enabled", "app", cfg.NewRelic.AppName)
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	logger.Info("connected to PostgreSQL", "migrations", cfg.Database.RunMigrations)

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		logger.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	logger.Info("connected to Redis", "addr", cfg.Redis.Addr)

	collector := metrics.NewCollector()

	publisher, err := events.NewPublisher(cfg.Events, logger, collector)
	if err != nil {
		logger.Error("failed to start event publisher", "driver", cfg.Events.Driver, "error", err)
		os.Exit(1)
	}
	defer publisher.Close()
	logger.Info("event publisher ready", "driver", cfg.Events.Driver)

	// Wire dependencies.
	server := wireServer(db, redisClient, nrApp, publisher, collector, logger, cfg)

	// Start server in goroutine.
	go func() {
		logger.Info("starting server", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
	if nrApp != nil {
		nrApp.Shutdown(cfg.Server.ShutdownTimeout)
	}

	logger.Info("server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(
	db *sql.DB,
	redisClient *redis.Client,
	nrApp *newrelic.Application,
	publisher events.Publisher,
	collector *metrics.Collector,
	logger *slog.Logger,
	cfg *config.Config,
) *http.Server {
	// Initialize Redis stores.
	locationStore := internalRedis.NewLocationStore(redisClient)
	lockStore := internalRedis.NewLockStore(redisClient)
	cacheStore := internalRedis.NewCacheStore(redisClient, cfg.Redis.TripCacheTTL)
	idempotencyStore := internalRedis.NewIdempotencyStore(redisClient, cfg.Redis.IdempotencyTTL)

	// Initialize repositories.
	tripRepo := postgres.NewTripRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	driverRepo := postgres.NewDriverRepository(db)
	reviewRepo := postgres.NewReviewRepository(db)
	incidentRepo := postgres.NewIncidentRepository(db)
	universityRepo := postgres.NewUniversityRepository(db)
	txManager := postgres.NewTxManager(db)

	// Initialize geocoding: Geoapify first, Nominatim as the keyless fallback.
	httpClient := geocode.NewHTTPClient(cfg.Geocode.HTTPTimeout)
	providers := geocode.NewChain(collector,
		geocode.NewGeoapify(geocode.GeoapifyConfig{
			BaseURL:     cfg.Geocode.GeoapifyURL,
			APIKey:      cfg.Geocode.GeoapifyAPIKey,
			Language:    cfg.Geocode.Language,
			CountryCode: cfg.Geocode.CountryCode,
			Limit:       cfg.Geocode.Limit,
		}, httpClient),
		geocode.NewNominatim(geocode.NominatimConfig{
			BaseURL:     cfg.Geocode.NominatimURL,
			UserAgent:   cfg.Geocode.UserAgent,
			Language:    cfg.Geocode.Language,
			CountryCode: cfg.Geocode.CountryCode,
			Limit:       cfg.Geocode.Limit,
		}, httpClient),
	)
	geocoder := geocode.NewClient(providers, cfg.Geocode.LookupTimeout, collector)

	// Initialize services.
	notificationService := service.NewNotificationService(publisher)
	tripService := service.NewTripService(txManager, tripRepo, bookingRepo, cacheStore, locationStore, notificationService, logger)
	searchService := service.NewSearchService(tripRepo, cacheStore, locationStore, collector, logger, service.SearchOptions{
		DefaultRadiusKm: cfg.Search.DefaultRadiusKm,
		SeedFallback:    cfg.Search.SeedFallback,
	})
	bookingService := service.NewBookingService(txManager, bookingRepo, lockStore, cacheStore, notificationService, collector, logger, cfg.Redis.LockTTL)
	reviewService := service.NewReviewService(reviewRepo, tripRepo, bookingRepo, driverRepo, notificationService, logger)
	incidentService := service.NewIncidentService(incidentRepo, tripRepo, notificationService, logger)
	universityService := service.NewUniversityService(universityRepo, cacheStore, logger)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		TripHandler:       handler.NewTripHandler(tripService, searchService),
		BookingHandler:    handler.NewBookingHandler(bookingService),
		ReviewHandler:     handler.NewReviewHandler(reviewService, incidentService),
		UniversityHandler: handler.NewUniversityHandler(universityService),
		GeocodeHandler: handler.NewGeocodeHandler(
			geocoder,
			domain.Coordinate{Lat: cfg.Search.DefaultLat, Lng: cfg.Search.DefaultLng},
			cfg.Geocode.Debounce,
			logger,
		),
		Tokens:      auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenExpiry),
		Responses:   idempotencyStore,
		Metrics:     collector,
		Logger:      logger,
		NewRelicApp: nrApp,
		CORSOrigins: cfg.Server.CORSOrigins,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
