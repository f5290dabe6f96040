package appointment

import (
	"context"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/headspa-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/headspa-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/headspa-scheduler/internal/metrics"
	"github.com/BruksfildServices01/headspa-scheduler/internal/models"
	"github.com/BruksfildServices01/headspa-scheduler/internal/timezone"
)

type CancelAppointment struct {
	repo     domain.Repository
	locker   domain.DateLocker
	clock    *timezone.Clock
	audit    *audit.Dispatcher
	notifier Notifier
}

func NewCancelAppointment(
	repo domain.Repository,
	locker domain.DateLocker,
	clock *timezone.Clock,
	audit *audit.Dispatcher,
	notifier Notifier,
) *CancelAppointment {
	return &CancelAppointment{
		repo:     repo,
		locker:   locker,
		clock:    clock,
		audit:    audit,
		notifier: orNop(notifier),
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	actor domain.Actor,
	appointmentID uuid.UUID,
	reason string,
) (*models.Appointment, error) {

	ap, err := loadAppointment(ctx, uc.repo, appointmentID)
	if err != nil {
		return nil, err
	}

	// Falha cedo sem pegar lock (dono/admin, estado, horário)
	if err := domain.Cancel(clone(ap), actor, reason, uc.clock.Now()); err != nil {
		return nil, err
	}

	ap, err = mutateLocked(ctx, uc.repo, uc.locker, ap, nil,
		func(_ context.Context, _ domain.Repository, fresh *models.Appointment) error {
			return domain.Cancel(fresh, actor, reason, uc.clock.Now())
		},
	)
	if err != nil {
		return nil, err
	}

	metrics.AppointmentTransitions.WithLabelValues(string(domain.StatusCancelled)).Inc()
	uc.audit.Dispatch(audit.Event{
		ActorID:  ptrID(actor.ID),
		Action:   "appointment_cancelled",
		Entity:   "appointment",
		EntityID: ptrID(ap.ID),
		Metadata: map[string]any{
			"by_admin": actor.IsAdmin(),
			"reason":   reason,
		},
	})
	uc.notifier.AppointmentCancelled(ap)

	return ap, nil
}

func clone(ap *models.Appointment) *models.Appointment {
	c := *ap
	return &c
}
