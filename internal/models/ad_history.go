package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AdHistory struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	AdID   string    `gorm:"size:100" json:"ad_id,omitempty"`

	WatchedAt   time.Time `gorm:"not null" json:"watched_at"`
	LevelBefore int       `gorm:"not null" json:"level_before"`
	LevelAfter  int       `gorm:"not null" json:"level_after"`

	CreatedAt time.Time `json:"created_at"`
}

func (h *AdHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}
