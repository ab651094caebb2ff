package domain

import "time"

type ComponentStatus string

const (
	ComponentOperational         ComponentStatus = "operational"
	ComponentDegradedPerformance ComponentStatus = "degraded_performance"
	ComponentPartialOutage       ComponentStatus = "partial_outage"
	ComponentMajorOutage         ComponentStatus = "major_outage"
	ComponentUnderMaintenance    ComponentStatus = "under_maintenance"
)

func (s ComponentStatus) Valid() bool {
	switch s {
	case ComponentOperational, ComponentDegradedPerformance, ComponentPartialOutage, ComponentMajorOutage, ComponentUnderMaintenance:
		return true
	}
	return false
}

type ComponentGroup struct {
	ID        string    `gorm:"column:group_id;primaryKey;size:64" json:"group_id"`
	PageID    string    `gorm:"index;not null;size:64" json:"page_id"`
	Page      *Page     `gorm:"foreignKey:PageID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Position  int       `gorm:"not null;default:0" json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Component is a single service shown on a status page.
type Component struct {
	ID          string          `gorm:"column:component_id;primaryKey;size:64" json:"component_id"`
	PageID      string          `gorm:"index;not null;size:64" json:"page_id"`
	Page        *Page           `gorm:"foreignKey:PageID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	GroupID     *string         `gorm:"index;size:64" json:"group_id"`
	Group       *ComponentGroup `gorm:"foreignKey:GroupID;references:ID;constraint:OnDelete:SET NULL" json:"-"`
	Name        string          `gorm:"size:100;not null" json:"name"`
	Description *string         `gorm:"size:1000" json:"description"`
	Status      ComponentStatus `gorm:"size:32;not null;default:operational" json:"status"`
	Position    int             `gorm:"not null;default:0" json:"position"`
	Showcase    bool            `gorm:"not null;default:true" json:"showcase"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
