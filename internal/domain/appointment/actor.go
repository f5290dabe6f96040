package appointment

import (
	"github.com/google/uuid"

	"github.com/BruksfildServices01/headspa-scheduler/internal/httperr"
	"github.com/BruksfildServices01/headspa-scheduler/internal/models"
)

// Actor é o principal autenticado que executa a operação.
type Actor struct {
	ID   uuid.UUID
	Role string
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

func RequireAdmin(a Actor) error {
	if !a.IsAdmin() {
		return httperr.ErrForbidden("admin_only", "Accès réservé aux administrateurs.")
	}
	return nil
}

// CanAccess libera o cliente dono ou qualquer admin.
func CanAccess(a Actor, ap *models.Appointment) error {
	if a.IsAdmin() || (a.ID != uuid.Nil && ap.ClientID == a.ID) {
		return nil
	}
	return httperr.ErrForbidden("forbidden", "Vous n'êtes pas autorisé à accéder à ce rendez-vous.")
}
