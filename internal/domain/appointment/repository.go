package appointment

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/headspa-scheduler/internal/models"
)

var (
	ErrNotFound = errors.New("record not found")

	// ErrLockNotAcquired: outra request segurou o lock da data além do tempo de espera.
	ErrLockNotAcquired = errors.New("date lock not acquired")
)

type AdminFilter struct {
	Status   string
	Date     string
	ClientID *uuid.UUID
}

type Repository interface {
	CandidateFinder

	// Transaction roda fn com um repositório preso a uma única transação.
	Transaction(
		ctx context.Context,
		fn func(repo Repository) error,
	) error

	// -------- Formula --------
	GetFormula(
		ctx context.Context,
		id uuid.UUID,
	) (*models.Formula, error)

	// -------- Appointment (create / update) --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	GetAppointment(
		ctx context.Context,
		id uuid.UUID,
	) (*models.Appointment, error)

	// -------- Appointment (reads) --------
	ListByClient(
		ctx context.Context,
		clientID uuid.UUID,
		status Status,
	) ([]models.Appointment, error)

	ListForAdmin(
		ctx context.Context,
		filter AdminFilter,
	) ([]models.Appointment, error)

	ListUpcoming(
		ctx context.Context,
		fromDate string,
		toDate string,
		statuses []Status,
	) ([]models.Appointment, error)
}

// DateLocker serializa o check-and-insert por data.
type DateLocker interface {
	WithDateLock(
		ctx context.Context,
		date string,
		fn func(ctx context.Context) error,
	) error
}
