package geocode

import (
	"strings"

	"unigo/internal/domain"
	"unigo/internal/geo"
)

// PositionErrorCode mirrors the browser geolocation error codes.
type PositionErrorCode int

const (
	PositionOK               PositionErrorCode = 0
	PositionPermissionDenied PositionErrorCode = 1
	PositionUnavailable      PositionErrorCode = 2
	PositionTimeout          PositionErrorCode = 3
)

// DefaultCityCentre is Rabat, used when the device location is unusable.
var DefaultCityCentre = domain.Coordinate{Lat: 33.9716, Lng: -6.8498}

// PositionReport is what a client observed when asking for its location.
type PositionReport struct {
	Coordinates *domain.Coordinate `json:"coordinates,omitempty"`
	Accuracy    float64            `json:"accuracy,omitempty"`
	ErrorCode   PositionErrorCode  `json:"error_code"`
	Lang        string             `json:"lang"`
}

// ResolvedPosition is the location the client should use.
type ResolvedPosition struct {
	Coordinates domain.Coordinate `json:"coordinates"`
	Accuracy    float64           `json:"accuracy,omitempty"`
	Enabled     bool              `json:"enabled"`
	Fallback    bool              `json:"fallback"`
	Message     string            `json:"message,omitempty"`
}

var positionMessages = map[string]map[PositionErrorCode]string{
	"fr": {
		PositionPermissionDenied: "Accès à la localisation refusé. Rabat est utilisée par défaut.",
		PositionUnavailable:      "Position indisponible. Rabat est utilisée par défaut.",
		PositionTimeout:          "La localisation a pris trop de temps. Rabat est utilisée par défaut.",
		-1:                       "Erreur de localisation inconnue. Rabat est utilisée par défaut.",
	},
	"en": {
		PositionPermissionDenied: "Location access denied. Using Rabat as default.",
		PositionUnavailable:      "Location unavailable. Using Rabat as default.",
		PositionTimeout:          "Location request timed out. Using Rabat as default.",
		-1:                       "Unknown location error. Using Rabat as default.",
	},
}

// ResolvePosition turns a client report into a usable position. Any failure
// falls back to fallback with a localized message and Enabled unset.
func ResolvePosition(r PositionReport, fallback domain.Coordinate) ResolvedPosition {
	code := r.ErrorCode
	if code == PositionOK {
		if r.Coordinates != nil && geo.ValidateCoordinate(r.Coordinates.Lat, r.Coordinates.Lng) == nil {
			return ResolvedPosition{
				Coordinates: *r.Coordinates,
				Accuracy:    r.Accuracy,
				Enabled:     true,
			}
		}
		code = PositionUnavailable
	}

	return ResolvedPosition{
		Coordinates: fallback,
		Enabled:     false,
		Fallback:    true,
		Message:     PositionMessage(code, r.Lang),
	}
}

// PositionMessage returns the localized message for code. Unknown languages
// use French, unknown codes the generic message.
func PositionMessage(code PositionErrorCode, lang string) string {
	msgs, ok := positionMessages[strings.ToLower(strings.TrimSpace(lang))]
	if !ok {
		msgs = positionMessages["fr"]
	}
	if m, ok := msgs[code]; ok {
		return m
	}
	return msgs[-1]
}
