package geocode

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/singleflight"

	"unigo/internal/geo"
	"unigo/internal/metrics"
)

// MinQueryLength is the shortest query sent upstream.
const MinQueryLength = 3

// DefaultLookupTimeout bounds every lookup when none is configured.
const DefaultLookupTimeout = 12 * time.Second

var (
	ErrQueryTooShort = errors.New("geocoding query too short")
	ErrTimeout       = errors.New("geocoding lookup timed out")
)

// Client deduplicates concurrent identical lookups and bounds each caller's
// wait with a deadline.
type Client struct {
	provider Provider
	group    singleflight.Group
	timeout  time.Duration
	metrics  *metrics.Collector
}

// NewClient wraps provider.
func NewClient(provider Provider, timeout time.Duration, m *metrics.Collector) *Client {
	if timeout <= 0 {
		timeout = DefaultLookupTimeout
	}
	return &Client{provider: provider, timeout: timeout, metrics: m}
}

// Search returns suggestions for query.
func (c *Client) Search(ctx context.Context, query string) ([]Suggestion, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < MinQueryLength {
		return nil, ErrQueryTooShort
	}
	key := "search:" + strings.ToLower(query)

	v, err := c.do(ctx, key, func(ctx context.Context) (any, error) {
		return c.provider.Search(ctx, query)
	})
	if err != nil {
		return nil, err
	}
	return v.([]Suggestion), nil
}

// Reverse resolves coordinates to a place.
func (c *Client) Reverse(ctx context.Context, lat, lng float64) (*Suggestion, error) {
	if err := geo.ValidateCoordinate(lat, lng); err != nil {
		return nil, err
	}
	key := fmt.Sprintf("reverse:%.5f,%.5f", lat, lng)

	v, err := c.do(ctx, key, func(ctx context.Context) (any, error) {
		return c.provider.Reverse(ctx, lat, lng)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Suggestion), nil
}

// do runs fn once per key among concurrent callers. The upstream call is
// detached from any single caller's cancellation so a departing caller does
// not fail the others; each caller still stops waiting at its own deadline.
func (c *Client) do(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ch := c.group.DoChan(key, func() (any, error) {
		upstream, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()
		return fn(upstream)
	})

	select {
	case res := <-ch:
		if res.Shared {
			c.metrics.GeocodeSharedInc()
		}
		if errors.Is(res.Err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v", ErrTimeout, res.Err)
		}
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrTimeout, ctx.Err())
	}
}
