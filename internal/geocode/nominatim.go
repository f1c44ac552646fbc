package geocode

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"unigo/internal/domain"
)

// Nominatim is the OpenStreetMap fallback provider. It needs no key but
// requires an identifying User-Agent.
type Nominatim struct {
	baseURL     string
	userAgent   string
	lang        string
	countryCode string
	limit       int
	client      *http.Client
}

// NominatimConfig configures a Nominatim provider.
type NominatimConfig struct {
	BaseURL     string
	UserAgent   string
	Language    string
	CountryCode string
	Limit       int
}

// NewNominatim creates a new Nominatim provider.
func NewNominatim(cfg NominatimConfig, client *http.Client) *Nominatim {
	return &Nominatim{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:   cfg.UserAgent,
		lang:        cfg.Language,
		countryCode: cfg.CountryCode,
		limit:       cfg.Limit,
		client:      client,
	}
}

func (n *Nominatim) Name() string { return "nominatim" }

type nominatimPlace struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	Error       string `json:"error"`
	Address     struct {
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
		Country string `json:"country"`
	} `json:"address"`
}

// Search calls the search endpoint.
func (n *Nominatim) Search(ctx context.Context, query string) ([]Suggestion, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "jsonv2")
	params.Set("addressdetails", "1")
	if n.limit > 0 {
		params.Set("limit", strconv.Itoa(n.limit))
	}
	if n.countryCode != "" {
		params.Set("countrycodes", n.countryCode)
	}
	if n.lang != "" {
		params.Set("accept-language", n.lang)
	}

	var places []nominatimPlace
	if err := getJSON(ctx, n.client, n.baseURL+"/search?"+params.Encode(), n.userAgent, &places); err != nil {
		return nil, err
	}

	out := make([]Suggestion, 0, len(places))
	for _, p := range places {
		s, ok := n.suggestion(p)
		if ok {
			out = append(out, s)
		}
	}
	return out, nil
}

// Reverse calls the reverse endpoint.
func (n *Nominatim) Reverse(ctx context.Context, lat, lng float64) (*Suggestion, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	params.Set("format", "jsonv2")
	params.Set("addressdetails", "1")
	if n.lang != "" {
		params.Set("accept-language", n.lang)
	}

	var place nominatimPlace
	if err := getJSON(ctx, n.client, n.baseURL+"/reverse?"+params.Encode(), n.userAgent, &place); err != nil {
		return nil, err
	}
	if place.Error != "" {
		return nil, ErrNoResults
	}
	s, ok := n.suggestion(place)
	if !ok {
		return nil, ErrNoResults
	}
	return &s, nil
}

func (n *Nominatim) suggestion(p nominatimPlace) (Suggestion, bool) {
	lat, errLat := strconv.ParseFloat(p.Lat, 64)
	lng, errLng := strconv.ParseFloat(p.Lon, 64)
	if errLat != nil || errLng != nil {
		return Suggestion{}, false
	}
	city := p.Address.City
	if city == "" {
		city = p.Address.Town
	}
	if city == "" {
		city = p.Address.Village
	}
	return Suggestion{
		Label:       p.DisplayName,
		Coordinates: coordinate(lat, lng),
		City:        city,
		Country:     p.Address.Country,
		Source:      n.Name(),
	}, true
}

func coordinate(lat, lng float64) domain.Coordinate {
	return domain.Coordinate{Lat: lat, Lng: lng}
}
