package models

import "time"

// RemoteAccount mirrors a user account from the remote auth system
type RemoteAccount struct {
	ID uint `gorm:"primaryKey" json:"id"`
	SyncMeta

	Email       string `gorm:"size:255;index" json:"email"`
	DisplayName string `gorm:"size:255" json:"display_name"`
	PhoneNumber string `gorm:"size:50" json:"phone_number"`
	PhotoURL    string `gorm:"size:500" json:"photo_url"`

	Premium bool `json:"premium"`
	Active  bool `json:"active"`

	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	RegisteredAt *time.Time `json:"registered_at,omitempty"`
}

// TableName returns the table name for RemoteAccount
func (RemoteAccount) TableName() string {
	return "remote_accounts"
}

// Testimonial is user-submitted feedback displayed on the site
type Testimonial struct {
	ID uint `gorm:"primaryKey" json:"id"`
	SyncMeta

	AuthorName   string `gorm:"size:255" json:"author_name"`
	AuthorEmail  string `gorm:"size:255" json:"author_email"`
	AuthorAvatar string `gorm:"size:500" json:"author_avatar"`
	Content      string `gorm:"type:text" json:"content"`
	Rating       int    `json:"rating"`
	Approved     bool   `json:"approved"`
	Featured     bool   `json:"featured"`
}

// TableName returns the table name for Testimonial
func (Testimonial) TableName() string {
	return "testimonials"
}
