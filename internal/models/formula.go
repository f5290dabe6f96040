package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Formula é um pacote de serviços (soins) vendido pelo spa.
type Formula struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	Title     string   `gorm:"size:100;uniqueIndex;not null" json:"title"`
	Etiquette string   `gorm:"size:50" json:"etiquette"`
	Price     float64  `gorm:"not null" json:"price"`
	Duration  string   `gorm:"size:50;not null" json:"duration"`
	Soins     []string `gorm:"type:text;serializer:json" json:"soins"`
	Raison    string   `gorm:"size:1000" json:"raison"`
	IsActive  bool     `gorm:"not null" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (f *Formula) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
