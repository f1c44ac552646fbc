// Package geocode resolves free-text places and coordinates through upstream
// geocoding services.
package geocode

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"unigo/internal/domain"
	"unigo/internal/metrics"
)

var (
	// ErrNoResults is returned when a provider answered but found nothing.
	ErrNoResults = errors.New("no geocoding results")

	// ErrNotConfigured is returned by providers missing credentials.
	ErrNotConfigured = errors.New("geocoding provider not configured")

	// ErrUpstream wraps non-2xx responses from a provider.
	ErrUpstream = errors.New("geocoding upstream error")
)

// Suggestion is one geocoding candidate.
type Suggestion struct {
	Label       string            `json:"label"`
	Coordinates domain.Coordinate `json:"coordinates"`
	City        string            `json:"city,omitempty"`
	Country     string            `json:"country,omitempty"`
	Source      string            `json:"source"`
}

// Provider is an upstream geocoding service.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string) ([]Suggestion, error)
	Reverse(ctx context.Context, lat, lng float64) (*Suggestion, error)
}

// Chain tries providers in order and returns the first useful answer.
type Chain struct {
	providers []Provider
	metrics   *metrics.Collector
}

// NewChain creates a Chain. The first provider is the primary.
func NewChain(m *metrics.Collector, providers ...Provider) *Chain {
	return &Chain{providers: providers, metrics: m}
}

// Name implements Provider.
func (c *Chain) Name() string { return "chain" }

// Search returns the first non-empty answer from the providers in order.
func (c *Chain) Search(ctx context.Context, query string) ([]Suggestion, error) {
	var errs []error
	for _, p := range c.providers {
		results, err := p.Search(ctx, query)
		if errors.Is(err, ErrNotConfigured) {
			continue
		}
		if err == nil && len(results) == 0 {
			err = ErrNoResults
		}
		c.metrics.GeocodeLookup(p.Name(), err)
		if err == nil {
			return results, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
		if ctx.Err() != nil {
			break
		}
	}
	return nil, chainError(errs)
}

// Reverse returns the first place a provider resolves for the coordinates.
func (c *Chain) Reverse(ctx context.Context, lat, lng float64) (*Suggestion, error) {
	var errs []error
	for _, p := range c.providers {
		result, err := p.Reverse(ctx, lat, lng)
		if errors.Is(err, ErrNotConfigured) {
			continue
		}
		if err == nil && result == nil {
			err = ErrNoResults
		}
		c.metrics.GeocodeLookup(p.Name(), err)
		if err == nil {
			return result, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
		if ctx.Err() != nil {
			break
		}
	}
	return nil, chainError(errs)
}

// chainError reports ErrNoResults only when every provider answered empty.
// Otherwise the failures are returned as ErrUpstream.
func chainError(errs []error) error {
	if len(errs) == 0 {
		return ErrNotConfigured
	}
	var failures []error
	for _, err := range errs {
		if !errors.Is(err, ErrNoResults) {
			failures = append(failures, err)
		}
	}
	if len(failures) == 0 {
		return errors.Join(errs...)
	}
	joined := errors.Join(failures...)
	if errors.Is(joined, ErrUpstream) {
		return joined
	}
	return fmt.Errorf("%w: %w", ErrUpstream, joined)
}

// NewHTTPClient returns the client shared by the HTTP providers.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}
