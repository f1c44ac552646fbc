// Package metrics owns the Prometheus collectors exposed at /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "unigo"

// Collector groups every metric the service records. All methods are safe
// on a nil *Collector so callers can run without metrics.
type Collector struct {
	reg *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	SearchSource  *prometheus.CounterVec // source: cache|database|seed|geo_index
	SearchResults prometheus.Histogram

	Bookings *prometheus.CounterVec // outcome

	GeocodeLookups *prometheus.CounterVec // provider, outcome
	GeocodeShared  prometheus.Counter

	EventsPublished *prometheus.CounterVec // type, outcome
}

// NewCollector registers all collectors on a private registry.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests handled.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		SearchSource: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_source_total",
			Help:      "Trip searches by the source that answered them.",
		}, []string{"source"}),
		SearchResults: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_results",
			Help:      "Number of trips returned per search.",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100},
		}),
		Bookings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_total",
			Help:      "Booking operations by outcome.",
		}, []string{"outcome"}),
		GeocodeLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_lookups_total",
			Help:      "Upstream geocoding lookups by provider and outcome.",
		}, []string{"provider", "outcome"}),
		GeocodeShared: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_shared_total",
			Help:      "Geocoding lookups answered by an in-flight identical request.",
		}),
		EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Domain events published by type and outcome.",
		}, []string{"type", "outcome"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.HTTPRequests,
		c.HTTPDuration,
		c.SearchSource,
		c.SearchResults,
		c.Bookings,
		c.GeocodeLookups,
		c.GeocodeShared,
		c.EventsPublished,
	)
	return c
}

// Registry exposes the underlying registry, mainly for tests.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.reg
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{Registry: c.reg})
}

// ObserveHTTP records one served request.
func (c *Collector) ObserveHTTP(method, route string, status int, d time.Duration) {
	if c == nil {
		return
	}
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// ObserveSearch records a search and its result count by data source.
func (c *Collector) ObserveSearch(source string, results int) {
	if c == nil {
		return
	}
	c.SearchSource.WithLabelValues(source).Inc()
	c.SearchResults.Observe(float64(results))
}

// BookingOutcome counts a booking attempt by outcome.
func (c *Collector) BookingOutcome(outcome string) {
	if c == nil {
		return
	}
	c.Bookings.WithLabelValues(outcome).Inc()
}

// GeocodeLookup counts a provider lookup by result.
func (c *Collector) GeocodeLookup(provider string, err error) {
	if c == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.GeocodeLookups.WithLabelValues(provider, outcome).Inc()
}

// GeocodeSharedInc counts a lookup served by an in-flight call.
func (c *Collector) GeocodeSharedInc() {
	if c == nil {
		return
	}
	c.GeocodeShared.Inc()
}

// EventPublished counts a published event by type and result.
func (c *Collector) EventPublished(eventType string, err error) {
	if c == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.EventsPublished.WithLabelValues(eventType, outcome).Inc()
}
