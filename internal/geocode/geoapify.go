package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Geoapify is the primary provider.
type Geoapify struct {
	baseURL     string
	apiKey      string
	lang        string
	countryCode string
	limit       int
	client      *http.Client
}

// GeoapifyConfig configures a Geoapify provider.
type GeoapifyConfig struct {
	BaseURL     string
	APIKey      string
	Language    string
	CountryCode string
	Limit       int
}

// NewGeoapify creates a new Geoapify provider.
func NewGeoapify(cfg GeoapifyConfig, client *http.Client) *Geoapify {
	return &Geoapify{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		lang:        cfg.Language,
		countryCode: cfg.CountryCode,
		limit:       cfg.Limit,
		client:      client,
	}
}

func (g *Geoapify) Name() string { return "geoapify" }

type geoapifyResponse struct {
	Results []struct {
		Formatted string  `json:"formatted"`
		Lat       float64 `json:"lat"`
		Lon       float64 `json:"lon"`
		City      string  `json:"city"`
		Country   string  `json:"country"`
	} `json:"results"`
}

// Search calls the autocomplete endpoint.
func (g *Geoapify) Search(ctx context.Context, query string) ([]Suggestion, error) {
	if g.apiKey == "" {
		return nil, ErrNotConfigured
	}
	params := url.Values{}
	params.Set("text", query)
	params.Set("format", "json")
	params.Set("apiKey", g.apiKey)
	if g.lang != "" {
		params.Set("lang", g.lang)
	}
	if g.limit > 0 {
		params.Set("limit", strconv.Itoa(g.limit))
	}
	if g.countryCode != "" {
		params.Set("filter", "countrycode:"+g.countryCode)
	}

	var resp geoapifyResponse
	if err := getJSON(ctx, g.client, g.baseURL+"/autocomplete?"+params.Encode(), "", &resp); err != nil {
		return nil, err
	}
	return g.suggestions(resp), nil
}

// Reverse calls the reverse geocoding endpoint.
func (g *Geoapify) Reverse(ctx context.Context, lat, lng float64) (*Suggestion, error) {
	if g.apiKey == "" {
		return nil, ErrNotConfigured
	}
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	params.Set("format", "json")
	params.Set("apiKey", g.apiKey)
	if g.lang != "" {
		params.Set("lang", g.lang)
	}

	var resp geoapifyResponse
	if err := getJSON(ctx, g.client, g.baseURL+"/reverse?"+params.Encode(), "", &resp); err != nil {
		return nil, err
	}
	out := g.suggestions(resp)
	if len(out) == 0 {
		return nil, ErrNoResults
	}
	return &out[0], nil
}

func (g *Geoapify) suggestions(resp geoapifyResponse) []Suggestion {
	out := make([]Suggestion, 0, len(resp.Results))
	for _, r := range resp.Results {
		out = append(out, Suggestion{
			Label:       r.Formatted,
			Coordinates: coordinate(r.Lat, r.Lon),
			City:        r.City,
			Country:     r.Country,
			Source:      g.Name(),
		})
	}
	return out
}

// getJSON performs a GET and decodes a 2xx JSON body into out.
func getJSON(ctx context.Context, client *http.Client, rawURL, userAgent string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
