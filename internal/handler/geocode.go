package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"unigo/internal/domain"
	"unigo/internal/geocode"
)

// GeocodeHandler serves address autocomplete, reverse lookups and device
// position resolution.
type GeocodeHandler struct {
	geocoder GeocodeUseCase
	fallback domain.Coordinate
	debounce time.Duration
	upgrader websocket.Upgrader
	log      *slog.Logger
}

// NewGeocodeHandler creates a new GeocodeHandler. A zero debounce uses
// geocode.DefaultDebounce.
func NewGeocodeHandler(geocoder GeocodeUseCase, fallback domain.Coordinate, debounce time.Duration, log *slog.Logger) *GeocodeHandler {
	if debounce <= 0 {
		debounce = geocode.DefaultDebounce
	}
	return &GeocodeHandler{
		geocoder: geocoder,
		fallback: fallback,
		debounce: debounce,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origins are enforced by the CORS middleware on the HTTP routes.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		log: log,
	}
}

// Search handles GET /api/geocode/search?q=
func (h *GeocodeHandler) Search(c *gin.Context) {
	results, err := h.geocoder.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, gin.H{"results": results, "count": len(results)})
}

type reverseParams struct {
	Lat *float64 `form:"lat" binding:"required"`
	Lng *float64 `form:"lng" binding:"required"`
}

// Reverse handles GET /api/geocode/reverse?lat=&lng=
func (h *GeocodeHandler) Reverse(c *gin.Context) {
	var params reverseParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBadRequest(c, "lat and lng are required")
		return
	}

	result, err := h.geocoder.Reverse(c.Request.Context(), *params.Lat, *params.Lng)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, result)
}

// ResolveLocation handles POST /api/location/resolve
func (h *GeocodeHandler) ResolveLocation(c *gin.Context) {
	var report geocode.PositionReport
	if err := c.ShouldBindJSON(&report); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	respondJSON(c, http.StatusOK, geocode.ResolvePosition(report, h.fallback))
}

type autocompleteRequest struct {
	Query string `json:"query"`
}

type autocompleteResponse struct {
	Query       string               `json:"query"`
	Suggestions []geocode.Suggestion `json:"suggestions"`
	Error       string               `json:"error,omitempty"`
}

// Autocomplete handles GET /api/geocode/ws. Each message carries the current
// input; only the last input within the debounce window is looked up.
func (h *GeocodeHandler) Autocomplete(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	debouncer := geocode.NewDebouncer(h.debounce)
	defer debouncer.Stop()

	var writeMu sync.Mutex
	write := func(resp autocompleteResponse) {
		writeMu.Lock()
		defer writeMu.Unlock()
		if err := conn.WriteJSON(resp); err != nil {
			h.log.Debug("autocomplete write failed", "error", err)
		}
	}

	for {
		var req autocompleteRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Debug("autocomplete connection closed", "error", err)
			}
			return
		}

		query := strings.TrimSpace(req.Query)
		if len([]rune(query)) < geocode.MinQueryLength {
			write(autocompleteResponse{Query: query, Suggestions: []geocode.Suggestion{}})
			continue
		}

		debouncer.Trigger(func() {
			results, err := h.geocoder.Search(ctx, query)
			resp := autocompleteResponse{Query: query, Suggestions: results}
			if err != nil {
				resp.Error = err.Error()
			}
			if resp.Suggestions == nil {
				resp.Suggestions = []geocode.Suggestion{}
			}
			write(resp)
		})
	}
}
