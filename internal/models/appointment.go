package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Appointment struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	ClientID uuid.UUID `gorm:"type:uuid;not null;index" json:"client_id"`
	Client   *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"client,omitempty"`

	FormulaID uuid.UUID `gorm:"type:uuid;not null;index" json:"formula_id"`
	Formula   *Formula  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"formula,omitempty"`

	// Data do atendimento (YYYY-MM-DD) e horários HH:MM
	Date      string `gorm:"column:appointment_date;size:10;not null;index" json:"date"`
	StartTime string `gorm:"size:5;not null" json:"start_time"`
	EndTime   string `gorm:"size:5;not null" json:"end_time"`

	// Minutos desde meia-noite, usados pela exclusion constraint
	StartMinute int `gorm:"not null" json:"-"`
	EndMinute   int `gorm:"not null" json:"-"`

	Status string `gorm:"size:20;not null;default:'pending';index" json:"status"`

	AdminNotes         string `gorm:"size:500" json:"admin_notes,omitempty"`
	CancellationReason string `gorm:"size:200" json:"cancellation_reason,omitempty"`

	ProcessedByID *uuid.UUID `gorm:"type:uuid" json:"processed_by,omitempty"`

	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
