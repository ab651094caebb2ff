package domain

import "time"

type Subscriber struct {
	ID             string     `gorm:"column:subscriber_id;primaryKey;size:64" json:"subscriber_id"`
	PageID         string     `gorm:"index;index:subscribers_page_email_idx;not null;size:64" json:"page_id"`
	Page           *Page      `gorm:"foreignKey:PageID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	Email          string     `gorm:"size:320;index;index:subscribers_page_email_idx;not null" json:"email"`
	ComponentIDs   *string    `gorm:"type:text" json:"component_ids,omitempty"`
	ConfirmedAt    *time.Time `json:"confirmed_at,omitempty"`
	QuarantinedAt  *time.Time `json:"quarantined_at,omitempty"`
	UnsubscribedAt *time.Time `json:"unsubscribed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// Active reports whether the subscriber should receive notifications.
func (s *Subscriber) Active() bool {
	return s.ConfirmedAt != nil && s.UnsubscribedAt == nil && s.QuarantinedAt == nil
}

type SubscriberConfirmation struct {
	Token        string      `gorm:"primaryKey;size:64" json:"-"`
	SubscriberID string      `gorm:"index;not null;size:64" json:"subscriber_id"`
	Subscriber   *Subscriber `gorm:"foreignKey:SubscriberID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	ExpiresAt    time.Time   `gorm:"not null" json:"expires_at"`
	CreatedAt    time.Time   `json:"created_at"`
}
