package appointment

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/headspa-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/headspa-scheduler/internal/httperr"
	"github.com/BruksfildServices01/headspa-scheduler/internal/metrics"
	"github.com/BruksfildServices01/headspa-scheduler/internal/models"
)

// Notifier recebe os eventos que geram e-mail para o cliente.
type Notifier interface {
	AppointmentBooked(ap *models.Appointment)
	AppointmentCancelled(ap *models.Appointment)
	AppointmentStatusChanged(ap *models.Appointment)
}

type nopNotifier struct{}

func (nopNotifier) AppointmentBooked(*models.Appointment)        {}
func (nopNotifier) AppointmentCancelled(*models.Appointment)     {}
func (nopNotifier) AppointmentStatusChanged(*models.Appointment) {}

func orNop(n Notifier) Notifier {
	if n == nil {
		return nopNotifier{}
	}
	return n
}

func conflictError() error {
	return httperr.ErrConflict("time_conflict", "Ce créneau est déjà réservé.")
}

// withDates pega os locks das datas em ordem: duas edições nunca travam uma à outra.
func withDates(
	ctx context.Context,
	locker domain.DateLocker,
	dates []string,
	fn func(ctx context.Context) error,
) error {

	uniq := make([]string, 0, len(dates))
	seen := map[string]bool{}
	for _, d := range dates {
		if !seen[d] {
			seen[d] = true
			uniq = append(uniq, d)
		}
	}
	sort.Strings(uniq)

	started := time.Now()
	var run func(ctx context.Context, i int) error
	run = func(ctx context.Context, i int) error {
		if i == len(uniq) {
			metrics.LockWaitSeconds.Observe(time.Since(started).Seconds())
			return fn(ctx)
		}
		return locker.WithDateLock(ctx, uniq[i], func(ctx context.Context) error {
			return run(ctx, i+1)
		})
	}

	err := run(ctx, 0)
	if errors.Is(err, domain.ErrLockNotAcquired) {
		return httperr.ErrConflict("slot_busy", "Ce créneau est en cours de réservation, veuillez réessayer.")
	}
	return err
}

// storeError traduz erros de persistência para a taxonomia da API.
func storeError(code string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := httperr.As(err); ok {
		return err
	}
	if httperr.IsExclusionConflict(err) {
		return conflictError()
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return httperr.ErrInternal("request_timeout", err)
	}
	return httperr.ErrInternal(code, err)
}

func loadAppointment(
	ctx context.Context,
	repo domain.Repository,
	id uuid.UUID,
) (*models.Appointment, error) {

	ap, err := repo.GetAppointment(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.ErrNotFound("appointment_not_found", "Rendez-vous introuvable.")
		}
		return nil, storeError("appointment_lookup_failed", err)
	}
	return ap, nil
}

func loadFormula(
	ctx context.Context,
	repo domain.Repository,
	id uuid.UUID,
) (*models.Formula, error) {

	f, err := repo.GetFormula(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.ErrNotFound("formula_not_found", "Formule introuvable.")
		}
		return nil, storeError("formula_lookup_failed", err)
	}
	return f, nil
}

func ptrID(id uuid.UUID) *uuid.UUID {
	return &id
}

// mutateLocked relê o agendamento dentro do lock das datas e da transação,
// aplica fn e persiste.
func mutateLocked(
	ctx context.Context,
	repo domain.Repository,
	locker domain.DateLocker,
	current *models.Appointment,
	extraDates []string,
	fn func(ctx context.Context, tx domain.Repository, ap *models.Appointment) error,
) (*models.Appointment, error) {

	dates := append([]string{current.Date}, extraDates...)

	var result *models.Appointment
	err := withDates(ctx, locker, dates, func(ctx context.Context) error {
		return repo.Transaction(ctx, func(tx domain.Repository) error {
			fresh, err := loadAppointment(ctx, tx, current.ID)
			if err != nil {
				return err
			}
			if fresh.Date != current.Date {
				return httperr.ErrConflict("concurrent_update", "Le rendez-vous a été modifié entre-temps, veuillez réessayer.")
			}

			if err := fn(ctx, tx, fresh); err != nil {
				return err
			}
			if err := tx.UpdateAppointment(ctx, fresh); err != nil {
				return err
			}
			result = fresh
			return nil
		})
	})
	if err != nil {
		return nil, storeError("failed_to_update_appointment", err)
	}
	return result, nil
}
