package domain

import "time"

type IncidentStatus string

const (
	IncidentInvestigating IncidentStatus = "investigating"
	IncidentIdentified    IncidentStatus = "identified"
	IncidentMonitoring    IncidentStatus = "monitoring"
	IncidentResolved      IncidentStatus = "resolved"
	IncidentScheduled     IncidentStatus = "scheduled"
	IncidentInProgress    IncidentStatus = "in_progress"
	IncidentCompleted     IncidentStatus = "completed"
)

func (s IncidentStatus) Valid() bool {
	switch s {
	case IncidentInvestigating, IncidentIdentified, IncidentMonitoring, IncidentResolved,
		IncidentScheduled, IncidentInProgress, IncidentCompleted:
		return true
	}
	return false
}

// Terminal reports whether the status closes the incident.
func (s IncidentStatus) Terminal() bool {
	return s == IncidentResolved || s == IncidentCompleted
}

type IncidentImpact string

const (
	ImpactNone     IncidentImpact = "none"
	ImpactMinor    IncidentImpact = "minor"
	ImpactMajor    IncidentImpact = "major"
	ImpactCritical IncidentImpact = "critical"
)

func (i IncidentImpact) Valid() bool {
	switch i {
	case ImpactNone, ImpactMinor, ImpactMajor, ImpactCritical:
		return true
	}
	return false
}

type Incident struct {
	ID             string         `gorm:"column:incident_id;primaryKey;size:64" json:"incident_id"`
	PageID         string         `gorm:"index;not null;size:64" json:"page_id"`
	Page           *Page          `gorm:"foreignKey:PageID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	Name           string         `gorm:"size:200;not null" json:"name"`
	Status         IncidentStatus `gorm:"size:32;not null;default:investigating" json:"status"`
	Impact         IncidentImpact `gorm:"size:16;not null;default:none" json:"impact"`
	ScheduledFor   *time.Time     `gorm:"index" json:"scheduled_for,omitempty"`
	ScheduledUntil *time.Time     `json:"scheduled_until,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	ResolvedAt     *time.Time     `gorm:"index" json:"resolved_at,omitempty"`
}

type IncidentUpdate struct {
	ID         string         `gorm:"column:update_id;primaryKey;size:64" json:"update_id"`
	IncidentID string         `gorm:"index;not null;size:64" json:"incident_id"`
	Incident   *Incident      `gorm:"foreignKey:IncidentID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	Status     IncidentStatus `gorm:"size:32;not null" json:"status"`
	Body       string         `gorm:"type:text;not null" json:"body"`
	DisplayAt  time.Time      `gorm:"index;not null" json:"display_at"`
	CreatedAt  time.Time      `json:"created_at"`
}

// IncidentComponent links an incident to an affected component.
type IncidentComponent struct {
	IncidentID  string           `gorm:"primaryKey;size:64" json:"incident_id"`
	Incident    *Incident        `gorm:"foreignKey:IncidentID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	ComponentID string           `gorm:"primaryKey;index;size:64" json:"component_id"`
	Component   *Component       `gorm:"foreignKey:ComponentID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	OldStatus   *ComponentStatus `gorm:"size:32" json:"old_status,omitempty"`
	NewStatus   *ComponentStatus `gorm:"size:32" json:"new_status,omitempty"`
}
