package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"unigo/internal/domain"
	"unigo/internal/repository"
)

// IncidentService records problems reported on trips.
type IncidentService struct {
	incidentRepo        repository.IncidentRepository
	tripRepo            repository.TripRepository
	notificationService *NotificationService
	log                 *slog.Logger
	now                 func() time.Time
}

// NewIncidentService creates a new IncidentService.
func NewIncidentService(
	incidentRepo repository.IncidentRepository,
	tripRepo repository.TripRepository,
	notificationService *NotificationService,
	log *slog.Logger,
) *IncidentService {
	return &IncidentService{
		incidentRepo:        incidentRepo,
		tripRepo:            tripRepo,
		notificationService: notificationService,
		log:                 log,
		now:                 time.Now,
	}
}

// ReportIncidentRequest contains the parameters for an incident report.
type ReportIncidentRequest struct {
	TripID      string
	ReporterID  string
	Category    domain.IncidentCategory
	Description string
}

// ReportIncident stores an incident and forwards it to moderation.
func (s *IncidentService) ReportIncident(ctx context.Context, req ReportIncidentRequest) (*domain.Incident, error) {
	if req.TripID == "" {
		return nil, ErrInvalidTripID
	}
	if req.ReporterID == "" {
		return nil, ErrInvalidUserID
	}
	if !req.Category.Valid() {
		return nil, ErrInvalidCategory
	}
	desc := strings.TrimSpace(req.Description)
	if desc == "" {
		return nil, ErrInvalidDescription
	}

	if _, err := s.tripRepo.GetByID(ctx, req.TripID); err != nil {
		return nil, err
	}

	incident := &domain.Incident{
		ID:          uuid.New().String(),
		TripID:      req.TripID,
		ReporterID:  req.ReporterID,
		Category:    req.Category,
		Description: desc,
		Severity:    SeverityOf(req.Category),
		CreatedAt:   s.now(),
	}
	if err := s.incidentRepo.Create(ctx, incident); err != nil {
		return nil, err
	}

	_ = s.notificationService.NotifyIncidentReported(ctx, incident)
	s.log.WarnContext(ctx, "incident reported",
		"incident_id", incident.ID,
		"trip_id", incident.TripID,
		"category", incident.Category,
		"severity", incident.Severity,
	)
	return incident, nil
}

// SeverityOf escalates personal safety categories.
func SeverityOf(c domain.IncidentCategory) domain.IncidentSeverity {
	if c == domain.IncidentSafety || c == domain.IncidentHarassment {
		return domain.SeverityHigh
	}
	return domain.SeverityNormal
}
