package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"unigo/internal/domain"
	"unigo/internal/repository"
)

// FlagThreshold is the highest rating sent to moderation.
const FlagThreshold = 2

// ReviewService handles reviews between trip participants.
type ReviewService struct {
	reviewRepo          repository.ReviewRepository
	tripRepo            repository.TripRepository
	bookingRepo         repository.BookingRepository
	driverRepo          repository.DriverRepository
	notificationService *NotificationService
	log                 *slog.Logger
	now                 func() time.Time
}

// NewReviewService creates a new ReviewService.
func NewReviewService(
	reviewRepo repository.ReviewRepository,
	tripRepo repository.TripRepository,
	bookingRepo repository.BookingRepository,
	driverRepo repository.DriverRepository,
	notificationService *NotificationService,
	log *slog.Logger,
) *ReviewService {
	return &ReviewService{
		reviewRepo:          reviewRepo,
		tripRepo:            tripRepo,
		bookingRepo:         bookingRepo,
		driverRepo:          driverRepo,
		notificationService: notificationService,
		log:                 log,
		now:                 time.Now,
	}
}

// CreateReviewRequest contains the parameters for reviewing a participant.
type CreateReviewRequest struct {
	TripID     string
	ReviewerID string
	RevieweeID string
	Rating     int
	Comment    string
}

// UserReviews is the review history of one user.
type UserReviews struct {
	Reviews []domain.Review
	Average float64
	Count   int
}

// CreateReview records a review on a completed trip. Each participant may
// review a trip once.
func (s *ReviewService) CreateReview(ctx context.Context, req CreateReviewRequest) (*domain.Review, error) {
	if req.TripID == "" {
		return nil, ErrInvalidTripID
	}
	if req.ReviewerID == "" || req.RevieweeID == "" {
		return nil, ErrInvalidUserID
	}
	if req.ReviewerID == req.RevieweeID {
		return nil, ErrSelfReview
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, ErrInvalidRating
	}

	trip, err := s.tripRepo.GetByID(ctx, req.TripID)
	if err != nil {
		return nil, err
	}
	if trip.Status != domain.TripStatusCompleted {
		return nil, ErrTripNotCompleted
	}

	participants, err := s.participants(ctx, trip)
	if err != nil {
		return nil, err
	}
	if !participants[req.ReviewerID] || !participants[req.RevieweeID] {
		return nil, ErrForbidden
	}

	exists, err := s.reviewRepo.Exists(ctx, req.TripID, req.ReviewerID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyReviewed
	}

	review := &domain.Review{
		ID:         uuid.New().String(),
		TripID:     req.TripID,
		ReviewerID: req.ReviewerID,
		RevieweeID: req.RevieweeID,
		Rating:     req.Rating,
		Comment:    strings.TrimSpace(req.Comment),
		Flagged:    req.Rating <= FlagThreshold,
		CreatedAt:  s.now(),
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyReviewed
		}
		return nil, err
	}

	if review.RevieweeID == trip.DriverID {
		s.refreshDriverRating(ctx, trip.DriverID)
	}
	_ = s.notificationService.NotifyReviewCreated(ctx, review)

	if review.Flagged {
		s.log.WarnContext(ctx, "review flagged for moderation",
			"review_id", review.ID,
			"trip_id", review.TripID,
			"rating", review.Rating,
		)
	}
	return review, nil
}

// HasReviewed reports whether userID already reviewed tripID.
func (s *ReviewService) HasReviewed(ctx context.Context, tripID, userID string) (bool, error) {
	if tripID == "" {
		return false, ErrInvalidTripID
	}
	if userID == "" {
		return false, ErrInvalidUserID
	}
	return s.reviewRepo.Exists(ctx, tripID, userID)
}

// ListForUser returns the reviews a user received with their average.
func (s *ReviewService) ListForUser(ctx context.Context, userID string) (*UserReviews, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	reviews, err := s.reviewRepo.ListByReviewee(ctx, userID)
	if err != nil {
		return nil, err
	}
	avg, count, err := s.reviewRepo.AverageForReviewee(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &UserReviews{Reviews: reviews, Average: avg, Count: count}, nil
}

// participants returns the driver and every passenger who rode the trip.
func (s *ReviewService) participants(ctx context.Context, trip *domain.Trip) (map[string]bool, error) {
	bookings, err := s.bookingRepo.ListByTrip(ctx, trip.ID)
	if err != nil {
		return nil, err
	}
	set := map[string]bool{trip.DriverID: true}
	for _, b := range bookings {
		if b.Status == domain.BookingStatusCompleted {
			set[b.PassengerID] = true
		}
	}
	return set, nil
}

func (s *ReviewService) refreshDriverRating(ctx context.Context, driverID string) {
	avg, _, err := s.reviewRepo.AverageForReviewee(ctx, driverID)
	if err == nil {
		err = s.driverRepo.UpdateRating(ctx, driverID, avg)
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.log.WarnContext(ctx, "driver rating refresh failed", "driver_id", driverID, "error", err)
	}
}
