package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/headspa-scheduler/internal/models"
)

const (
	EngagementLevel  = 500
	ActiveWindowDays = 30
	RecentDays       = 7
)

var ErrUserNotFound = errors.New("user not found")

func IsRole(role string) bool {
	return role == models.RoleClient || role == models.RoleAdmin
}

type Repository interface {
	List(ctx context.Context, role string) ([]models.User, error)
	Admins(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailTaken(ctx context.Context, email string, except uuid.UUID) (bool, error)

	Create(ctx context.Context, u *models.User) error
	Save(ctx context.Context, u *models.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	HasAppointments(ctx context.Context, id uuid.UUID) (bool, error)
}

type StatsRepository interface {
	Count(ctx context.Context) (int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
	// CreatedSince devolve os instantes de cadastro; o agrupamento por dia é feito no fuso do spa.
	CreatedSince(ctx context.Context, since time.Time) ([]time.Time, error)
	CountByRole(ctx context.Context) (map[string]int64, error)

	CountFidelityAbove(ctx context.Context, level int) (int64, error)
	CountFidelityAtLeast(ctx context.Context, level int) (int64, error)
	CountAdViews(ctx context.Context) (int64, error)
	// CountActiveClients conta clientes distintos com agendamento confirmado a partir de fromDate.
	CountActiveClients(ctx context.Context, fromDate string) (int64, error)
}
