package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClientFile é a ficha de atendimento mantida pelo spa (cliente com ou sem conta).
type ClientFile struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	Nom       string `gorm:"size:100;not null;index" json:"nom"`
	Prenom    string `gorm:"size:100;not null" json:"prenom"`
	Email     string `gorm:"size:100" json:"email"`
	Telephone string `gorm:"size:20" json:"telephone"`

	// Histórico serializado como JSON na própria linha
	Sessions []ClientSession `gorm:"type:text;serializer:json" json:"historique_seances"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ClientSession struct {
	DateSeance         string   `json:"date_seance"` // YYYY-MM-DD
	Problematique      string   `json:"problematique"`
	HuilesEssentielles []string `json:"huiles_essentielles"`
	Notes              string   `json:"notes,omitempty"`
}

func (f *ClientFile) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
