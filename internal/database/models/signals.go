package models

import (
	"time"

	"gorm.io/datatypes"
)

// Signal is a published trading signal
type Signal struct {
	ID uint `gorm:"primaryKey" json:"id"`
	SyncMeta

	SignalType string   `gorm:"size:100" json:"signal_type"`
	Symbol     string   `gorm:"size:50;index" json:"symbol"`
	EntryPrice *float64 `json:"entry_price,omitempty"`
	StopLoss   *float64 `json:"stop_loss,omitempty"`
	TakeProfit *float64 `json:"take_profit,omitempty"`

	Title       string `gorm:"size:255" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Status      string `gorm:"size:50" json:"status"`

	SignaledAt *time.Time `gorm:"index" json:"signaled_at,omitempty"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

// TableName returns the table name for Signal
func (Signal) TableName() string {
	return "signals"
}

// SignalSubscription is a user's subscription to premium signals
type SignalSubscription struct {
	ID uint `gorm:"primaryKey" json:"id"`
	SyncMeta

	SubscriptionType string     `gorm:"size:100" json:"subscription_type"`
	Status           string     `gorm:"size:50" json:"status"`
	StartsAt         *time.Time `json:"starts_at,omitempty"`
	EndsAt           *time.Time `gorm:"index" json:"ends_at,omitempty"`
	AutoRenew        bool       `json:"auto_renew"`
	Price            *float64   `json:"price,omitempty"`
}

// TableName returns the table name for SignalSubscription
func (SignalSubscription) TableName() string {
	return "signal_subscriptions"
}

// SignalNotification is a per-user notification about a signal
type SignalNotification struct {
	ID uint `gorm:"primaryKey" json:"id"`
	SyncMeta

	Title   string `gorm:"size:255" json:"title"`
	Message string `gorm:"type:text" json:"message"`
	Kind    string `gorm:"size:100" json:"kind"`

	// SignalPayload holds the raw signal detail mapping as stored remotely
	SignalPayload datatypes.JSON `json:"signal_payload,omitempty"`

	Read     bool   `json:"read"`
	Priority string `gorm:"size:20" json:"priority"`

	NotifiedAt *time.Time `gorm:"index" json:"notified_at,omitempty"`
	ReadAt     *time.Time `json:"read_at,omitempty"`
}

// TableName returns the table name for SignalNotification
func (SignalNotification) TableName() string {
	return "signal_notifications"
}
