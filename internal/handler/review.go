package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"unigo/internal/domain"
	"unigo/internal/middleware"
	"unigo/internal/service"
)

// ReviewHandler handles HTTP requests for reviews and incident reports.
type ReviewHandler struct {
	reviews   ReviewUseCase
	incidents IncidentUseCase
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviews ReviewUseCase, incidents IncidentUseCase) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, incidents: incidents}
}

// CreateReviewRequest is the body of POST /api/reviews.
type CreateReviewRequest struct {
	TripID     string `json:"trip_id" binding:"required"`
	RevieweeID string `json:"reviewee_id" binding:"required"`
	Rating     int    `json:"rating" binding:"required"`
	Comment    string `json:"comment"`
}

// CreateReview handles POST /api/reviews
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	review, err := h.reviews.CreateReview(c.Request.Context(), service.CreateReviewRequest{
		TripID:     req.TripID,
		ReviewerID: middleware.UserID(c),
		RevieweeID: req.RevieweeID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusCreated, toReviewResponse(review))
}

// CheckReview handles GET /api/reviews/check/:tripId/:userId
func (h *ReviewHandler) CheckReview(c *gin.Context) {
	done, err := h.reviews.HasReviewed(c.Request.Context(), c.Param("tripId"), c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, gin.H{"has_reviewed": done})
}

// ListUserReviews handles GET /api/users/:id/reviews
func (h *ReviewHandler) ListUserReviews(c *gin.Context) {
	list, err := h.reviews.ListForUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]ReviewResponse, len(list.Reviews))
	for i := range list.Reviews {
		out[i] = toReviewResponse(&list.Reviews[i])
	}
	respondJSON(c, http.StatusOK, gin.H{
		"reviews":        out,
		"average_rating": list.Average,
		"count":          list.Count,
	})
}

// ReportIncidentRequest is the body of POST /api/incidents/report.
type ReportIncidentRequest struct {
	TripID      string                  `json:"trip_id" binding:"required"`
	Category    domain.IncidentCategory `json:"category" binding:"required"`
	Description string                  `json:"description" binding:"required"`
}

// ReportIncident handles POST /api/incidents/report
func (h *ReviewHandler) ReportIncident(c *gin.Context) {
	var req ReportIncidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	incident, err := h.incidents.ReportIncident(c.Request.Context(), service.ReportIncidentRequest{
		TripID:      req.TripID,
		ReporterID:  middleware.UserID(c),
		Category:    req.Category,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusCreated, IncidentResponse{
		ID:        incident.ID,
		TripID:    incident.TripID,
		Category:  incident.Category,
		Severity:  incident.Severity,
		CreatedAt: formatTime(incident.CreatedAt),
	})
}
