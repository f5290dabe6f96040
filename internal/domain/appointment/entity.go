package appointment

import (
	"time"

	"github.com/BruksfildServices01/headspa-scheduler/internal/httperr"
	"github.com/BruksfildServices01/headspa-scheduler/internal/models"
)

const (
	MaxAdminNotes         = 500
	MaxCancellationReason = 200
)

// ===============================
// Ações de domínio
// ===============================

// Cancel aplica o cancelamento pelo dono ou por um admin.
func Cancel(
	ap *models.Appointment,
	actor Actor,
	reason string,
	now time.Time,
) error {

	if err := CanAccess(actor, ap); err != nil {
		return err
	}

	if err := CanCancel(Status(ap.Status)); err != nil {
		return err
	}

	if len([]rune(reason)) > MaxCancellationReason {
		return httperr.ErrValidation("invalid_input", "Motif d'annulation trop long.").
			WithField("cancellation_reason", "200 caractères maximum")
	}

	start, err := StartInstant(ap.Date, ap.StartTime, now.Location())
	if err != nil {
		return httperr.ErrInternal("corrupt_appointment", err)
	}
	if !start.After(now) {
		return httperr.ErrValidation(
			"appointment_already_started",
			"Impossible d'annuler un rendez-vous passé ou en cours.",
		)
	}

	ap.Status = string(StatusCancelled)
	ap.CancellationReason = reason
	ap.CancelledAt = &now
	if actor.IsAdmin() {
		stamp(ap, actor)
	}
	return nil
}

// ChangeStatus é a transição administrativa.
func ChangeStatus(
	ap *models.Appointment,
	actor Actor,
	to Status,
	now time.Time,
) error {

	if err := RequireAdmin(actor); err != nil {
		return err
	}

	if err := CanTransition(Status(ap.Status), to); err != nil {
		return err
	}

	ap.Status = string(to)
	switch to {
	case StatusCompleted:
		ap.CompletedAt = &now
	case StatusCancelled:
		ap.CancelledAt = &now
	}
	stamp(ap, actor)
	return nil
}

// SetAdminNotes valida e grava as notas. Só admin.
func SetAdminNotes(ap *models.Appointment, actor Actor, notes string) error {
	if err := RequireAdmin(actor); err != nil {
		return err
	}
	if len([]rune(notes)) > MaxAdminNotes {
		return httperr.ErrValidation("invalid_input", "Notes trop longues.").
			WithField("admin_notes", "500 caractères maximum")
	}
	ap.AdminNotes = notes
	stamp(ap, actor)
	return nil
}

func stamp(ap *models.Appointment, actor Actor) {
	id := actor.ID
	ap.ProcessedByID = &id
}
