package models

import "time"

// DeviceToken is a push-notification token registered by a device
type DeviceToken struct {
	ID uint `gorm:"primaryKey" json:"id"`
	SyncMeta

	Token      string     `gorm:"size:500;not null" json:"token"`
	Platform   string     `gorm:"size:50" json:"platform"`
	DeviceInfo string     `gorm:"size:500" json:"device_info"`
	Active     bool       `json:"active"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
}

// TableName returns the table name for DeviceToken
func (DeviceToken) TableName() string {
	return "device_tokens"
}

// Announcement is an application-wide notification
type Announcement struct {
	ID uint `gorm:"primaryKey" json:"id"`
	SyncMeta

	Title          string `gorm:"size:255" json:"title"`
	Message        string `gorm:"type:text" json:"message"`
	Kind           string `gorm:"size:100" json:"kind"`
	TargetAudience string `gorm:"size:100" json:"target_audience"`
	Priority       string `gorm:"size:20" json:"priority"`

	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	SentAt      *time.Time `json:"sent_at,omitempty"`
	Sent        bool       `json:"sent"`
}

// TableName returns the table name for Announcement
func (Announcement) TableName() string {
	return "announcements"
}
