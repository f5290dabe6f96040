package fidelity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/headspa-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/headspa-scheduler/internal/domain/fidelity"
	"github.com/BruksfildServices01/headspa-scheduler/internal/httperr"
	"github.com/BruksfildServices01/headspa-scheduler/internal/models"
	"github.com/BruksfildServices01/headspa-scheduler/internal/timezone"
)

type Level struct {
	Level           int        `json:"level"`
	LastAdWatchedAt *time.Time `json:"last_ad_watched_at"`
	CanWatchToday   bool       `json:"can_watch_today"`
}

type WatchResult struct {
	NewLevel        int       `json:"new_level"`
	LastAdWatchedAt time.Time `json:"last_ad_watched_at"`
	Message         string    `json:"-"`
}

type Service struct {
	repo  domain.Repository
	clock *timezone.Clock
	audit *audit.Dispatcher
}

func NewService(repo domain.Repository, clock *timezone.Clock, audit *audit.Dispatcher) *Service {
	return &Service{repo: repo, clock: clock, audit: audit}
}

// WatchAd sobe um nível, no máximo uma vez por dia.
func (s *Service) WatchAd(ctx context.Context, userID uuid.UUID, adID string) (*WatchResult, error) {
	now := s.clock.Now()

	var res *WatchResult
	err := s.repo.Transaction(ctx, func(tx domain.Repository) error {
		user, err := tx.GetUserForUpdate(ctx, userID)
		if err != nil {
			return err
		}

		if !domain.CanWatchToday(user.LastAdWatchedAt, now) {
			return httperr.ErrValidation("already_watched_today", "Vous avez déjà progressé aujourd'hui. Revenez demain !")
		}
		if user.FidelityLevel >= domain.MaxLevel {
			return httperr.ErrValidation("max_level_reached", "Félicitations ! Vous avez atteint le niveau maximum de 1000.")
		}

		before := user.FidelityLevel
		user.FidelityLevel = domain.NextLevel(before)
		user.LastAdWatchedAt = &now

		if err := tx.SaveFidelity(ctx, user); err != nil {
			return err
		}
		if err := tx.AddHistory(ctx, &models.AdHistory{
			UserID:      user.ID,
			AdID:        adID,
			WatchedAt:   now,
			LevelBefore: before,
			LevelAfter:  user.FidelityLevel,
		}); err != nil {
			return err
		}

		res = &WatchResult{
			NewLevel:        user.FidelityLevel,
			LastAdWatchedAt: now,
			Message:         fmt.Sprintf("Félicitations ! Vous êtes passé au niveau %d.", user.FidelityLevel),
		}
		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}

	s.audit.Dispatch(audit.Event{
		ActorID:  &userID,
		Action:   "fidelity_level_up",
		Entity:   "user",
		EntityID: &userID,
		Metadata: map[string]any{"level": res.NewLevel, "ad_id": adID},
	})
	return res, nil
}

func (s *Service) MyLevel(ctx context.Context, userID uuid.UUID) (*Level, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, mapError(err)
	}
	return &Level{
		Level:           user.FidelityLevel,
		LastAdWatchedAt: user.LastAdWatchedAt,
		CanWatchToday:   domain.CanWatchToday(user.LastAdWatchedAt, s.clock.Now()) && user.FidelityLevel < domain.MaxLevel,
	}, nil
}

// History devolve as últimas entradas, da mais recente para a mais antiga.
func (s *Service) History(ctx context.Context, userID uuid.UUID) ([]models.AdHistory, error) {
	entries, err := s.repo.ListHistory(ctx, userID, domain.HistoryLimit)
	if err != nil {
		return nil, mapError(err)
	}
	if entries == nil {
		entries = []models.AdHistory{}
	}
	return entries, nil
}

func mapError(err error) error {
	if _, ok := httperr.As(err); ok {
		return err
	}
	if errors.Is(err, domain.ErrUserNotFound) {
		return httperr.ErrNotFound("user_not_found", "Utilisateur non trouvé.")
	}
	return httperr.ErrInternal("fidelity_failed", err)
}
