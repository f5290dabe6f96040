package appointment

import (
	"context"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/headspa-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/headspa-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/headspa-scheduler/internal/httperr"
	"github.com/BruksfildServices01/headspa-scheduler/internal/metrics"
	"github.com/BruksfildServices01/headspa-scheduler/internal/models"
	"github.com/BruksfildServices01/headspa-scheduler/internal/timezone"
)

type UpdateAppointmentStatusInput struct {
	Actor      domain.Actor
	ID         uuid.UUID
	Status     string
	AdminNotes *string
}

type UpdateAppointmentStatus struct {
	repo     domain.Repository
	locker   domain.DateLocker
	clock    *timezone.Clock
	audit    *audit.Dispatcher
	notifier Notifier
}

func NewUpdateAppointmentStatus(
	repo domain.Repository,
	locker domain.DateLocker,
	clock *timezone.Clock,
	audit *audit.Dispatcher,
	notifier Notifier,
) *UpdateAppointmentStatus {
	return &UpdateAppointmentStatus{
		repo:     repo,
		locker:   locker,
		clock:    clock,
		audit:    audit,
		notifier: orNop(notifier),
	}
}

func (uc *UpdateAppointmentStatus) Execute(
	ctx context.Context,
	in UpdateAppointmentStatusInput,
) (*models.Appointment, error) {

	// papel primeiro: nunca revelar nada a quem não é admin
	if err := domain.RequireAdmin(in.Actor); err != nil {
		return nil, err
	}

	to, ok := domain.ParseStatus(in.Status)
	if !ok {
		return nil, httperr.ErrValidation("invalid_status", "Statut invalide.").
			WithField("status", "valeur inconnue")
	}

	current, err := loadAppointment(ctx, uc.repo, in.ID)
	if err != nil {
		return nil, err
	}
	from := current.Status

	ap, err := mutateLocked(ctx, uc.repo, uc.locker, current, nil,
		func(_ context.Context, _ domain.Repository, fresh *models.Appointment) error {
			if err := domain.ChangeStatus(fresh, in.Actor, to, uc.clock.Now()); err != nil {
				return err
			}
			if in.AdminNotes != nil {
				return domain.SetAdminNotes(fresh, in.Actor, *in.AdminNotes)
			}
			return nil
		},
	)
	if err != nil {
		return nil, err
	}

	metrics.AppointmentTransitions.WithLabelValues(string(to)).Inc()
	uc.audit.Dispatch(audit.Event{
		ActorID:  ptrID(in.Actor.ID),
		Action:   "appointment_status_changed",
		Entity:   "appointment",
		EntityID: ptrID(ap.ID),
		Metadata: map[string]any{
			"from": from,
			"to":   ap.Status,
		},
	})

	if to == domain.StatusCancelled {
		uc.notifier.AppointmentCancelled(ap)
	} else {
		uc.notifier.AppointmentStatusChanged(ap)
	}

	return ap, nil
}
