package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GalleryImage struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	Title       string `gorm:"size:200;not null" json:"title"`
	Description string `gorm:"size:500" json:"description"`
	Order       int    `gorm:"column:sort_order;not null;default:0" json:"order"`

	ObjectKey string `gorm:"size:255;uniqueIndex;not null" json:"-"`
	URL       string `gorm:"size:500;not null" json:"url"`

	UploadedByID *uuid.UUID `gorm:"type:uuid" json:"uploaded_by,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (g *GalleryImage) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}
