package domain

import "time"

// Session is an opaque server-side login session. The ID is the bearer token
// handed to the browser in the session cookie.
type Session struct {
	ID        string    `gorm:"column:session_id;primaryKey;size:64" json:"-"`
	UserID    string    `gorm:"index;not null;size:64" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	ExpiresAt time.Time `gorm:"index;not null" json:"expires_at"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

// ValidAt reports whether the session is still usable at now. Expiry is
// strict: a session expiring exactly at now is invalid.
func (s *Session) ValidAt(now time.Time) bool {
	return s != nil && s.ExpiresAt.After(now)
}

// MagicLink is a one-time passwordless login token.
type MagicLink struct {
	Token     string     `gorm:"primaryKey;size:64" json:"-"`
	UserID    string     `gorm:"index;not null;size:64" json:"user_id"`
	User      *User      `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	CreatedAt time.Time  `gorm:"not null" json:"created_at"`
}
