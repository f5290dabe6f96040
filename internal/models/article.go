package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ArticleCategoryNews   = "nouveauté"
	ArticleCategoryAdvice = "conseil"
)

type Article struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	Title    string `gorm:"size:200;uniqueIndex;not null" json:"title"`
	Slug     string `gorm:"size:220;uniqueIndex;not null" json:"slug"`
	Category string `gorm:"size:20;not null;index" json:"category"`
	Content  string `gorm:"type:text;not null" json:"content"`

	AuthorID uuid.UUID `gorm:"type:uuid;not null" json:"author_id"`
	Author   *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"author,omitempty"`

	ImageKey string `gorm:"size:255" json:"-"`
	ImageURL string `gorm:"size:500" json:"image_url"`

	PublishedAt time.Time `gorm:"index" json:"published_at"`
	IsPublished bool      `gorm:"not null;default:false;index" json:"is_published"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Article) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
