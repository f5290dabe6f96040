package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	BannerImage = "image"
	BannerVideo = "video"
)

// BannerPages são as páginas do site que aceitam banner.
var BannerPages = []string{
	"accueil",
	"presentation",
	"reservations",
	"formules",
	"contact",
	"nouveautes",
	"qui-suis-je",
	"univers-de-nana-head-spa",
}

func IsBannerPage(name string) bool {
	return slices.Contains(BannerPages, name)
}

type PageBanner struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	PageName string `gorm:"size:50;uniqueIndex;not null" json:"page_name"`
	Type     string `gorm:"size:10;not null" json:"type"`

	MediaKey string `gorm:"size:255" json:"-"`
	MediaURL string `gorm:"size:500" json:"media_url"`

	Title    string `gorm:"size:200" json:"title"`
	Subtitle string `gorm:"size:500" json:"subtitle"`

	LastUpdatedByID *uuid.UUID `gorm:"type:uuid" json:"last_updated_by,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *PageBanner) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
