package domain

import "time"

// Review is a rating left by one trip participant about another.
type Review struct {
	ID         string
	TripID     string
	ReviewerID string
	RevieweeID string
	Rating     int // 1..5
	Comment    string
	Flagged    bool
	CreatedAt  time.Time
}

// IncidentCategory classifies a reported incident.
type IncidentCategory string

const (
	IncidentSafety     IncidentCategory = "safety"
	IncidentHarassment IncidentCategory = "harassment"
	IncidentNoShow     IncidentCategory = "no_show"
	IncidentPayment    IncidentCategory = "payment"
	IncidentOther      IncidentCategory = "other"
)

// Valid reports whether c is a known category.
func (c IncidentCategory) Valid() bool {
	switch c {
	case IncidentSafety, IncidentHarassment, IncidentNoShow, IncidentPayment, IncidentOther:
		return true
	}
	return false
}

// IncidentSeverity drives moderation priority.
type IncidentSeverity string

const (
	SeverityNormal IncidentSeverity = "normal"
	SeverityHigh   IncidentSeverity = "high"
)

// Incident is a problem reported on a trip.
type Incident struct {
	ID          string
	TripID      string
	ReporterID  string
	Category    IncidentCategory
	Description string
	Severity    IncidentSeverity
	CreatedAt   time.Time
}

// University is a campus trips can be attached to.
type University struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	ShortName   string     `json:"short_name"`
	City        string     `json:"city"`
	Coordinates Coordinate `json:"coordinates"`
}
