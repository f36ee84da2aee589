package models

import (
	"time"

	"gorm.io/datatypes"
)

// Course is a published trading course
type Course struct {
	ID uint `gorm:"primaryKey" json:"id"`
	SyncMeta

	Title        string   `gorm:"size:255" json:"title"`
	Description  string   `gorm:"type:text" json:"description"`
	Instructor   string   `gorm:"size:255" json:"instructor"`
	Duration     string   `gorm:"size:100" json:"duration"`
	Level        string   `gorm:"size:50" json:"level"`
	Category     string   `gorm:"size:100;index" json:"category"`
	ThumbnailURL string   `gorm:"size:500" json:"thumbnail_url"`
	VideoCount   int      `json:"video_count"`
	Price        *float64 `json:"price,omitempty"`
	Free         bool     `json:"free"`
	Published    bool     `json:"published"`
}

// TableName returns the table name for Course
func (Course) TableName() string {
	return "courses"
}

// CourseProgress tracks a user's progress through course material
type CourseProgress struct {
	ID uint `gorm:"primaryKey" json:"id"`
	SyncMeta

	// CompletedItems is the raw list of completed video ids
	CompletedItems datatypes.JSON `json:"completed_items,omitempty"`

	// ItemDurations is the raw per-video duration mapping
	ItemDurations datatypes.JSON `json:"item_durations,omitempty"`

	CompletedCount  int        `json:"completed_count"`
	ProgressPercent *float64   `json:"progress_percent,omitempty"`
	LastActivityAt  *time.Time `gorm:"index" json:"last_activity_at,omitempty"`
}

// TableName returns the table name for CourseProgress
func (CourseProgress) TableName() string {
	return "course_progress"
}
