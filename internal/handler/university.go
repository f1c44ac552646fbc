package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// UniversityHandler serves the partner university catalogue.
type UniversityHandler struct {
	universities UniversityUseCase
}

// NewUniversityHandler creates a new UniversityHandler.
func NewUniversityHandler(universities UniversityUseCase) *UniversityHandler {
	return &UniversityHandler{universities: universities}
}

// List handles GET /api/universities
func (h *UniversityHandler) List(c *gin.Context) {
	list, source, err := h.universities.ListUniversities(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, gin.H{"universities": list, "source": source})
}
