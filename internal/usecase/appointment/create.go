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

// ======================================================
// ENTRADA
// ======================================================

type CreateAppointmentInput struct {
	Actor domain.Actor

	FormulaID string
	Date      string
	StartTime string
	EndTime   string
}

// ======================================================
// CASO DE USO
// ======================================================

type CreateAppointment struct {
	repo     domain.Repository
	locker   domain.DateLocker
	clock    *timezone.Clock
	audit    *audit.Dispatcher
	notifier Notifier
}

func NewCreateAppointment(
	repo domain.Repository,
	locker domain.DateLocker,
	clock *timezone.Clock,
	audit *audit.Dispatcher,
	notifier Notifier,
) *CreateAppointment {
	return &CreateAppointment{
		repo:     repo,
		locker:   locker,
		clock:    clock,
		audit:    audit,
		notifier: orNop(notifier),
	}
}

// ======================================================
// EXECUÇÃO
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1️⃣ Campos obrigatórios e formato
	// --------------------------------------------------
	formulaID, slot, err := uc.validateInput(in)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2️⃣ Fórmula
	// --------------------------------------------------
	if _, err := loadFormula(ctx, uc.repo, formulaID); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 3️⃣ Data no passado
	// --------------------------------------------------
	now := uc.clock.Now()
	today := now.Format(timezone.DateLayout)
	if slot.Date < today {
		return nil, httperr.ErrValidation("date_in_past", "La date du rendez-vous ne peut pas être dans le passé.").
			WithField("date", "doit être aujourd'hui ou plus tard")
	}

	// --------------------------------------------------
	// 4️⃣ Hoje: horário precisa ser futuro
	// --------------------------------------------------
	if slot.Date == today && slot.Start <= now.Hour()*60+now.Minute() {
		return nil, httperr.ErrValidation("time_in_past", "L'heure de début doit être dans le futur.").
			WithField("start_time", "doit être après l'heure actuelle")
	}

	// --------------------------------------------------
	// 5️⃣ Fim depois do início
	// --------------------------------------------------
	if slot.End <= slot.Start {
		return nil, httperr.ErrValidation("invalid_time_range", "L'heure de fin doit être après l'heure de début.").
			WithField("end_time", "doit être après start_time")
	}

	// --------------------------------------------------
	// 6️⃣ + 7️⃣ Conflito e criação, serializados por data
	// --------------------------------------------------
	ap := &models.Appointment{
		ClientID:    in.Actor.ID,
		FormulaID:   formulaID,
		Date:        slot.Date,
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		StartMinute: slot.Start,
		EndMinute:   slot.End,
		Status:      string(domain.InitialStatus()),
	}

	err = withDates(ctx, uc.locker, []string{slot.Date}, func(ctx context.Context) error {
		return uc.repo.Transaction(ctx, func(tx domain.Repository) error {
			conflict, err := domain.NewConflictChecker(tx).HasConflict(ctx, slot.Date, in.StartTime, in.EndTime, nil)
			if err != nil {
				return err
			}
			if conflict {
				return conflictError()
			}
			return tx.CreateAppointment(ctx, ap)
		})
	})
	if err != nil {
		if httperr.IsCode(err, "time_conflict") || httperr.IsExclusionConflict(err) {
			metrics.AppointmentConflicts.Inc()
			uc.audit.Dispatch(audit.Event{
				ActorID: ptrID(in.Actor.ID),
				Action:  "appointment_conflict",
				Entity:  "appointment",
				Metadata: map[string]any{
					"date":  slot.Date,
					"start": in.StartTime,
					"end":   in.EndTime,
				},
			})
		}
		return nil, storeError("failed_to_create_appointment", err)
	}

	// --------------------------------------------------
	// 8️⃣ Auditoria e aviso
	// --------------------------------------------------
	metrics.AppointmentsCreated.Inc()
	uc.audit.Dispatch(audit.Event{
		ActorID:  ptrID(in.Actor.ID),
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: ptrID(ap.ID),
	})

	if loaded, err := uc.repo.GetAppointment(ctx, ap.ID); err == nil {
		ap = loaded
	}
	uc.notifier.AppointmentBooked(ap)

	return ap, nil
}

func (uc *CreateAppointment) validateInput(in CreateAppointmentInput) (uuid.UUID, domain.Slot, error) {
	verr := httperr.ErrValidation("invalid_input", "Données du rendez-vous invalides.")

	if in.Actor.ID == uuid.Nil {
		verr.WithField("client", "requis")
	}

	var formulaID uuid.UUID
	if in.FormulaID == "" {
		verr.WithField("formula_id", "requis")
	} else if id, err := uuid.Parse(in.FormulaID); err != nil {
		verr.WithField("formula_id", "identifiant invalide")
	} else {
		formulaID = id
	}

	if in.Date == "" {
		verr.WithField("date", "requis")
	} else if _, err := domain.ParseDate(in.Date, uc.clock.Location()); err != nil {
		verr.WithField("date", "format attendu YYYY-MM-DD")
	}

	var start, end int
	if in.StartTime == "" {
		verr.WithField("start_time", "requis")
	} else if m, err := domain.ToMinutes(in.StartTime); err != nil {
		verr.WithField("start_time", "format attendu HH:MM")
	} else {
		start = m
	}

	if in.EndTime == "" {
		verr.WithField("end_time", "requis")
	} else if m, err := domain.ToMinutes(in.EndTime); err != nil {
		verr.WithField("end_time", "format attendu HH:MM")
	} else {
		end = m
	}

	if len(verr.Fields) > 0 {
		return uuid.Nil, domain.Slot{}, verr
	}
	return formulaID, domain.Slot{Date: in.Date, Start: start, End: end}, nil
}
