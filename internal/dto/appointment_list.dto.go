package dto

import (
	"github.com/google/uuid"

	"github.com/BruksfildServices01/headspa-scheduler/internal/models"
)

// AppointmentListDTO é a linha das listagens admin (painel e "à venir").
type AppointmentListDTO struct {
	ID           uuid.UUID `json:"id"`
	Date         string    `json:"date"`
	StartTime    string    `json:"start_time"`
	EndTime      string    `json:"end_time"`
	Status       string    `json:"status"`
	ClientID     uuid.UUID `json:"client_id"`
	ClientName   string    `json:"client_name"`
	ClientEmail  string    `json:"client_email"`
	ClientPhone  string    `json:"client_phone"`
	FormulaTitle string    `json:"formula_title"`
	AdminNotes   string    `json:"admin_notes,omitempty"`
}

func NewAppointmentList(apps []models.Appointment) []AppointmentListDTO {
	out := make([]AppointmentListDTO, 0, len(apps))
	for _, ap := range apps {
		row := AppointmentListDTO{
			ID:         ap.ID,
			Date:       ap.Date,
			StartTime:  ap.StartTime,
			EndTime:    ap.EndTime,
			Status:     ap.Status,
			ClientID:   ap.ClientID,
			AdminNotes: ap.AdminNotes,
		}
		if ap.Client != nil {
			row.ClientName = ap.Client.FullName()
			row.ClientEmail = ap.Client.Email
			row.ClientPhone = ap.Client.Phone
		}
		if ap.Formula != nil {
			row.FormulaTitle = ap.Formula.Title
		}
		out = append(out, row)
	}
	return out
}
