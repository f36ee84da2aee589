// Package models defines the relational projections of remote documents.
// One table per entity kind; every table is keyed by the unique external
// id imported from the remote document and is written exclusively by the
// sync engine's upsert path.
package models

import "time"

// SyncMeta carries the metadata columns shared by every synced entity
type SyncMeta struct {
	// ExternalID is the remote document identity, immutable once set
	ExternalID string `gorm:"uniqueIndex;size:255;not null" json:"external_id"`

	// OwnerExternalID is the remote user the record belongs to, when any
	OwnerExternalID string `gorm:"size:255;index" json:"owner_external_id,omitempty"`

	SyncedAt      time.Time `gorm:"autoUpdateTime" json:"synced_at"`
	FirstSyncedAt time.Time `gorm:"autoCreateTime" json:"first_synced_at"`
}

// All returns every synced model for migration
func All() []interface{} {
	return []interface{}{
		&Purchase{},
		&SignalPayment{},
		&SignalNotification{},
		&CourseProgress{},
		&Signal{},
		&SignalSubscription{},
		&Course{},
		&DeviceToken{},
		&Announcement{},
		&Testimonial{},
		&RemoteAccount{},
	}
}
