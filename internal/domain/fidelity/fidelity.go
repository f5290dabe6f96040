package fidelity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/headspa-scheduler/internal/models"
)

const (
	MinLevel     = 1
	MaxLevel     = 1000
	HistoryLimit = 50
)

// CanWatchToday: no máximo um ganho de nível por dia civil no fuso do spa.
func CanWatchToday(last *time.Time, now time.Time) bool {
	if last == nil {
		return true
	}
	l := last.In(now.Location())
	ly, lm, ld := l.Date()
	ny, nm, nd := now.Date()
	return ly != ny || lm != nm || ld != nd
}

func NextLevel(current int) int {
	if current < MinLevel {
		current = MinLevel
	}
	if current >= MaxLevel {
		return MaxLevel
	}
	return current + 1
}

var ErrUserNotFound = errors.New("user not found")

type Repository interface {
	Transaction(ctx context.Context, fn func(repo Repository) error) error

	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserForUpdate(ctx context.Context, id uuid.UUID) (*models.User, error)
	SaveFidelity(ctx context.Context, user *models.User) error
	AddHistory(ctx context.Context, entry *models.AdHistory) error
	ListHistory(ctx context.Context, userID uuid.UUID, limit int) ([]models.AdHistory, error)
}
