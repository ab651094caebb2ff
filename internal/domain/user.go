package domain

import "time"

type User struct {
	ID           string     `gorm:"column:user_id;primaryKey;size:64" json:"user_id"`
	Email        string     `gorm:"size:320;uniqueIndex;not null" json:"email"`
	PasswordHash *string    `gorm:"size:256" json:"-"`
	Name         string     `gorm:"size:200;not null" json:"name"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

type TeamRole string

const (
	TeamRoleOwner  TeamRole = "owner"
	TeamRoleAdmin  TeamRole = "admin"
	TeamRoleMember TeamRole = "member"
)

// TeamMember grants a user access to a page.
type TeamMember struct {
	ID        string    `gorm:"column:team_member_id;primaryKey;size:64" json:"team_member_id"`
	PageID    string    `gorm:"index;index:team_members_page_user_idx;not null;size:64" json:"page_id"`
	Page      *Page     `gorm:"foreignKey:PageID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	UserID    string    `gorm:"index;index:team_members_page_user_idx;not null;size:64" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	Role      TeamRole  `gorm:"size:16;not null;default:member" json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
