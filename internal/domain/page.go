package domain

import "time"

// StatusIndicator is the aggregate health shown at the top of a status page.
type StatusIndicator string

const (
	StatusIndicatorNone        StatusIndicator = "none"
	StatusIndicatorMinor       StatusIndicator = "minor"
	StatusIndicatorMajor       StatusIndicator = "major"
	StatusIndicatorCritical    StatusIndicator = "critical"
	StatusIndicatorMaintenance StatusIndicator = "maintenance"
)

func (s StatusIndicator) Valid() bool {
	switch s {
	case StatusIndicatorNone, StatusIndicatorMinor, StatusIndicatorMajor, StatusIndicatorCritical, StatusIndicatorMaintenance:
		return true
	}
	return false
}

// Page is a tenant's status page, addressed by its unique subdomain.
type Page struct {
	ID                string          `gorm:"column:page_id;primaryKey;size:64" json:"page_id"`
	Name              string          `gorm:"size:200;not null" json:"name"`
	Subdomain         string          `gorm:"size:63;uniqueIndex;not null" json:"subdomain"`
	CustomDomain      *string         `gorm:"size:253;index" json:"custom_domain,omitempty"`
	StatusIndicator   StatusIndicator `gorm:"size:16;not null;default:none" json:"status_indicator"`
	StatusDescription *string         `gorm:"size:500" json:"status_description,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}
