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

// UpdateAppointmentInput é a edição completa do admin. Campos nil não mudam.
type UpdateAppointmentInput struct {
	Actor domain.Actor
	ID    uuid.UUID

	FormulaID          *string
	Date               *string
	StartTime          *string
	EndTime            *string
	Status             *string
	AdminNotes         *string
	CancellationReason *string
}

type UpdateAppointment struct {
	repo     domain.Repository
	locker   domain.DateLocker
	clock    *timezone.Clock
	audit    *audit.Dispatcher
	notifier Notifier
}

func NewUpdateAppointment(
	repo domain.Repository,
	locker domain.DateLocker,
	clock *timezone.Clock,
	audit *audit.Dispatcher,
	notifier Notifier,
) *UpdateAppointment {
	return &UpdateAppointment{
		repo:     repo,
		locker:   locker,
		clock:    clock,
		audit:    audit,
		notifier: orNop(notifier),
	}
}

func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	in UpdateAppointmentInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1️⃣ Papel e formato do patch
	// --------------------------------------------------
	if err := domain.RequireAdmin(in.Actor); err != nil {
		return nil, err
	}

	patch, err := uc.parsePatch(in)
	if err != nil {
		return nil, err
	}

	current, err := loadAppointment(ctx, uc.repo, in.ID)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2️⃣ Fórmula nova precisa existir
	// --------------------------------------------------
	var formula *models.Formula
	if patch.formulaID != nil {
		if formula, err = loadFormula(ctx, uc.repo, *patch.formulaID); err != nil {
			return nil, err
		}
	}

	var extraDates []string
	if patch.date != nil {
		extraDates = append(extraDates, *patch.date)
	}

	// --------------------------------------------------
	// 3️⃣ Aplicação sob lock (data antiga e nova)
	// --------------------------------------------------
	var changed []string
	ap, err := mutateLocked(ctx, uc.repo, uc.locker, current, extraDates,
		func(ctx context.Context, tx domain.Repository, fresh *models.Appointment) error {
			var err error
			changed, err = uc.apply(ctx, tx, fresh, patch, formula, in)
			return err
		},
	)
	if err != nil {
		if httperr.IsCode(err, "time_conflict") {
			metrics.AppointmentConflicts.Inc()
		}
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  ptrID(in.Actor.ID),
		Action:   "appointment_updated",
		Entity:   "appointment",
		EntityID: ptrID(ap.ID),
		Metadata: map[string]any{"fields": changed},
	})

	if patch.status != nil && string(*patch.status) != current.Status {
		metrics.AppointmentTransitions.WithLabelValues(string(*patch.status)).Inc()
		if *patch.status == domain.StatusCancelled {
			uc.notifier.AppointmentCancelled(ap)
		} else {
			uc.notifier.AppointmentStatusChanged(ap)
		}
	}

	return ap, nil
}

type appointmentPatch struct {
	formulaID *uuid.UUID
	date      *string
	start     *int
	end       *int
	status    *domain.Status
}

func (uc *UpdateAppointment) parsePatch(in UpdateAppointmentInput) (appointmentPatch, error) {
	var p appointmentPatch
	verr := httperr.ErrValidation("invalid_input", "Données de mise à jour invalides.")

	if in.FormulaID != nil {
		if id, err := uuid.Parse(*in.FormulaID); err != nil {
			verr.WithField("formula_id", "identifiant invalide")
		} else {
			p.formulaID = &id
		}
	}

	if in.Date != nil {
		if _, err := domain.ParseDate(*in.Date, uc.clock.Location()); err != nil {
			verr.WithField("date", "format attendu YYYY-MM-DD")
		} else {
			p.date = in.Date
		}
	}

	if in.StartTime != nil {
		if m, err := domain.ToMinutes(*in.StartTime); err != nil {
			verr.WithField("start_time", "format attendu HH:MM")
		} else {
			p.start = &m
		}
	}

	if in.EndTime != nil {
		if m, err := domain.ToMinutes(*in.EndTime); err != nil {
			verr.WithField("end_time", "format attendu HH:MM")
		} else {
			p.end = &m
		}
	}

	if in.Status != nil {
		if st, ok := domain.ParseStatus(*in.Status); !ok {
			verr.WithField("status", "valeur inconnue")
		} else {
			p.status = &st
		}
	}

	if in.AdminNotes != nil && len([]rune(*in.AdminNotes)) > domain.MaxAdminNotes {
		verr.WithField("admin_notes", "500 caractères maximum")
	}
	if in.CancellationReason != nil && len([]rune(*in.CancellationReason)) > domain.MaxCancellationReason {
		verr.WithField("cancellation_reason", "200 caractères maximum")
	}

	if len(verr.Fields) > 0 {
		return p, verr
	}
	return p, nil
}

func (uc *UpdateAppointment) apply(
	ctx context.Context,
	tx domain.Repository,
	ap *models.Appointment,
	p appointmentPatch,
	formula *models.Formula,
	in UpdateAppointmentInput,
) ([]string, error) {

	var changed []string
	slotChanged := false

	if p.formulaID != nil && *p.formulaID != ap.FormulaID {
		ap.FormulaID = *p.formulaID
		ap.Formula = formula
		changed = append(changed, "formula_id")
	}
	if p.date != nil && *p.date != ap.Date {
		ap.Date = *p.date
		slotChanged = true
		changed = append(changed, "date")
	}
	if p.start != nil && *p.start != ap.StartMinute {
		ap.StartMinute = *p.start
		ap.StartTime = *in.StartTime
		slotChanged = true
		changed = append(changed, "start_time")
	}
	if p.end != nil && *p.end != ap.EndMinute {
		ap.EndMinute = *p.end
		ap.EndTime = *in.EndTime
		slotChanged = true
		changed = append(changed, "end_time")
	}

	if ap.EndMinute <= ap.StartMinute {
		return nil, httperr.ErrValidation("invalid_time_range", "L'heure de fin doit être après l'heure de début.").
			WithField("end_time", "doit être après start_time")
	}

	if p.status != nil && string(*p.status) != ap.Status {
		if err := domain.ChangeStatus(ap, in.Actor, *p.status, uc.clock.Now()); err != nil {
			return nil, err
		}
		changed = append(changed, "status")
	}

	if in.AdminNotes != nil {
		ap.AdminNotes = *in.AdminNotes
		changed = append(changed, "admin_notes")
	}
	if in.CancellationReason != nil {
		// motivo só acompanha um agendamento cancelado
		if *in.CancellationReason != "" && domain.Status(ap.Status) != domain.StatusCancelled {
			return nil, httperr.ErrValidation("cancellation_reason_requires_cancelled",
				"Un motif d'annulation ne peut être saisi que pour un rendez-vous annulé.").
				WithField("cancellation_reason", "exige status cancelled")
		}
		ap.CancellationReason = *in.CancellationReason
		changed = append(changed, "cancellation_reason")
	}

	// Reagendamento revalida conflito, ignorando o próprio agendamento
	if slotChanged && domain.Status(ap.Status) != domain.StatusCancelled {
		conflict, err := domain.NewConflictChecker(tx).HasConflict(ctx, ap.Date, ap.StartTime, ap.EndTime, &ap.ID)
		if err != nil {
			return nil, err
		}
		if conflict {
			return nil, conflictError()
		}
	}

	id := in.Actor.ID
	ap.ProcessedByID = &id
	return changed, nil
}
