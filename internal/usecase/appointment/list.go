package appointment

import (
	"context"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/headspa-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/headspa-scheduler/internal/httperr"
	"github.com/BruksfildServices01/headspa-scheduler/internal/models"
	"github.com/BruksfildServices01/headspa-scheduler/internal/timezone"
)

// UpcomingDays é a janela do painel "à venir": hoje + 2 dias.
const UpcomingDays = 2

var upcomingStatuses = []domain.Status{
	domain.StatusPending,
	domain.StatusConfirmed,
	domain.StatusInProgress,
}

// Queries agrupa as leituras de agendamento. Nenhuma escreve.
type Queries struct {
	repo  domain.Repository
	clock *timezone.Clock
}

func NewQueries(repo domain.Repository, clock *timezone.Clock) *Queries {
	return &Queries{repo: repo, clock: clock}
}

// Get devolve um agendamento ao dono ou a um admin.
func (q *Queries) Get(
	ctx context.Context,
	actor domain.Actor,
	id uuid.UUID,
) (*models.Appointment, error) {

	ap, err := loadAppointment(ctx, q.repo, id)
	if err != nil {
		return nil, err
	}
	if err := domain.CanAccess(actor, ap); err != nil {
		return nil, err
	}
	return ap, nil
}

func (q *Queries) ListMine(ctx context.Context, actor domain.Actor) ([]models.Appointment, error) {
	apps, err := q.repo.ListByClient(ctx, actor.ID, "")
	if err != nil {
		return nil, storeError("failed_to_list_appointments", err)
	}
	return apps, nil
}

// History lista os agendamentos concluídos de quem chama.
func (q *Queries) History(ctx context.Context, actor domain.Actor) ([]models.Appointment, error) {
	apps, err := q.repo.ListByClient(ctx, actor.ID, domain.StatusCompleted)
	if err != nil {
		return nil, storeError("failed_to_list_history", err)
	}
	return apps, nil
}

type AdminListInput struct {
	Status   string
	Date     string
	ClientID string
}

func (q *Queries) AdminList(
	ctx context.Context,
	actor domain.Actor,
	in AdminListInput,
) ([]models.Appointment, error) {

	if err := domain.RequireAdmin(actor); err != nil {
		return nil, err
	}

	filter := domain.AdminFilter{}
	verr := httperr.ErrValidation("invalid_filter", "Filtres invalides.")

	if in.Status != "" {
		if _, ok := domain.ParseStatus(in.Status); !ok {
			verr.WithField("status", "valeur inconnue")
		}
		filter.Status = in.Status
	}
	if in.Date != "" {
		if _, err := domain.ParseDate(in.Date, q.clock.Location()); err != nil {
			verr.WithField("date", "format attendu YYYY-MM-DD")
		}
		filter.Date = in.Date
	}
	if in.ClientID != "" {
		id, err := uuid.Parse(in.ClientID)
		if err != nil {
			verr.WithField("client_id", "identifiant invalide")
		}
		filter.ClientID = &id
	}
	if len(verr.Fields) > 0 {
		return nil, verr
	}

	apps, err := q.repo.ListForAdmin(ctx, filter)
	if err != nil {
		return nil, storeError("failed_to_list_appointments", err)
	}
	return apps, nil
}

// Upcoming lista os agendamentos ativos de hoje até hoje+2.
func (q *Queries) Upcoming(ctx context.Context, actor domain.Actor) ([]models.Appointment, error) {
	if err := domain.RequireAdmin(actor); err != nil {
		return nil, err
	}

	apps, err := q.repo.ListUpcoming(ctx, q.clock.Today(), q.clock.DayOffset(UpcomingDays), upcomingStatuses)
	if err != nil {
		return nil, storeError("failed_to_list_upcoming", err)
	}
	return apps, nil
}
