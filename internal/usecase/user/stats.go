package user

import (
	"context"
	"time"

	apDomain "github.com/BruksfildServices01/headspa-scheduler/internal/domain/appointment"
	fidelity "github.com/BruksfildServices01/headspa-scheduler/internal/domain/fidelity"
	domain "github.com/BruksfildServices01/headspa-scheduler/internal/domain/user"
	"github.com/BruksfildServices01/headspa-scheduler/internal/httperr"
	"github.com/BruksfildServices01/headspa-scheduler/internal/models"
	"github.com/BruksfildServices01/headspa-scheduler/internal/timezone"
)

type DayCount struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int64  `json:"count"`
}

type RoleCounts struct {
	TotalUsers   int64 `json:"total_users"`
	TotalClients int64 `json:"total_clients"`
	TotalAdmins  int64 `json:"total_admins"`
}

type Engagement struct {
	UsersAboveLevel500 int64 `json:"users_above_level_500"`
	UsersAtMaxLevel    int64 `json:"users_at_max_level"`
	TotalAdsWatched    int64 `json:"total_ads_watched"`
	ActiveClients      int64 `json:"active_clients"`
}

// Stats alimenta o painel de usuários do admin.
type Stats struct {
	repo  domain.StatsRepository
	clock *timezone.Clock
}

func NewStats(repo domain.StatsRepository, clock *timezone.Clock) *Stats {
	return &Stats{repo: repo, clock: clock}
}

func (s *Stats) Count(ctx context.Context, actor apDomain.Actor) (int64, error) {
	if err := apDomain.RequireAdmin(actor); err != nil {
		return 0, err
	}
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, httperr.ErrInternal("failed_to_count_users", err)
	}
	return n, nil
}

// Recent conta os cadastros dos últimos 7 dias corridos.
func (s *Stats) Recent(ctx context.Context, actor apDomain.Actor) (int64, error) {
	if err := apDomain.RequireAdmin(actor); err != nil {
		return 0, err
	}
	since := s.clock.Now().AddDate(0, 0, -domain.RecentDays)
	n, err := s.repo.CountCreatedSince(ctx, since)
	if err != nil {
		return 0, httperr.ErrInternal("failed_to_count_users", err)
	}
	return n, nil
}

// RegistrationsLastWeek devolve 7 dias (hoje incluído), sem buracos.
func (s *Stats) RegistrationsLastWeek(ctx context.Context, actor apDomain.Actor) ([]DayCount, error) {
	if err := apDomain.RequireAdmin(actor); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	loc := s.clock.Location()
	y, m, d := now.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc).AddDate(0, 0, -(domain.RecentDays - 1))

	stamps, err := s.repo.CreatedSince(ctx, start)
	if err != nil {
		return nil, httperr.ErrInternal("failed_to_count_registrations", err)
	}

	perDay := make(map[string]int64, domain.RecentDays)
	for _, ts := range stamps {
		perDay[ts.In(loc).Format(timezone.DateLayout)]++
	}

	out := make([]DayCount, 0, domain.RecentDays)
	for i := 0; i < domain.RecentDays; i++ {
		day := start.AddDate(0, 0, i).Format(timezone.DateLayout)
		out = append(out, DayCount{Date: day, Count: perDay[day]})
	}
	return out, nil
}

func (s *Stats) CountsByRole(ctx context.Context, actor apDomain.Actor) (*RoleCounts, error) {
	if err := apDomain.RequireAdmin(actor); err != nil {
		return nil, err
	}
	raw, err := s.repo.CountByRole(ctx)
	if err != nil {
		return nil, httperr.ErrInternal("failed_to_count_roles", err)
	}

	out := &RoleCounts{
		TotalClients: raw[models.RoleClient],
		TotalAdmins:  raw[models.RoleAdmin],
	}
	out.TotalUsers = out.TotalClients + out.TotalAdmins
	return out, nil
}

func (s *Stats) FidelityEngagement(ctx context.Context, actor apDomain.Actor) (*Engagement, error) {
	if err := apDomain.RequireAdmin(actor); err != nil {
		return nil, err
	}

	var (
		out Engagement
		err error
	)
	if out.UsersAboveLevel500, err = s.repo.CountFidelityAbove(ctx, domain.EngagementLevel); err != nil {
		return nil, httperr.ErrInternal("failed_to_compute_engagement", err)
	}
	if out.UsersAtMaxLevel, err = s.repo.CountFidelityAtLeast(ctx, fidelity.MaxLevel); err != nil {
		return nil, httperr.ErrInternal("failed_to_compute_engagement", err)
	}
	if out.TotalAdsWatched, err = s.repo.CountAdViews(ctx); err != nil {
		return nil, httperr.ErrInternal("failed_to_compute_engagement", err)
	}
	if out.ActiveClients, err = s.repo.CountActiveClients(ctx, s.clock.DayOffset(-domain.ActiveWindowDays)); err != nil {
		return nil, httperr.ErrInternal("failed_to_compute_engagement", err)
	}
	return &out, nil
}
