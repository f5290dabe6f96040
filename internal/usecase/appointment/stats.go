package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/headspa-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/headspa-scheduler/internal/httperr"
	"github.com/BruksfildServices01/headspa-scheduler/internal/timezone"
)

const (
	popularityLimit = 5
	trendMonths     = 3
)

type StatusCounts struct {
	Total    int64                   `json:"total_appointments"`
	ByStatus map[domain.Status]int64 `json:"status_counts"`
}

type FormulaPopularity struct {
	MostReserved  []domain.FormulaCount `json:"most_reserved"`
	LeastReserved []domain.FormulaCount `json:"least_reserved"`
}

type TrendInput struct {
	Status    string
	FormulaID string
}

// Stats são as visões agregadas do painel admin.
type Stats struct {
	repo  domain.StatsRepository
	clock *timezone.Clock
}

func NewStats(repo domain.StatsRepository, clock *timezone.Clock) *Stats {
	return &Stats{repo: repo, clock: clock}
}

// CountsByStatus sempre traz todos os status, inclusive os zerados.
func (s *Stats) CountsByStatus(ctx context.Context, actor domain.Actor) (*StatusCounts, error) {
	if err := domain.RequireAdmin(actor); err != nil {
		return nil, err
	}

	raw, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, storeError("failed_to_count_appointments", err)
	}

	out := &StatusCounts{ByStatus: make(map[domain.Status]int64, len(raw))}
	for _, st := range domain.AllStatuses() {
		out.ByStatus[st] = raw[st]
		out.Total += raw[st]
	}
	return out, nil
}

func (s *Stats) Popularity(ctx context.Context, actor domain.Actor) (*FormulaPopularity, error) {
	if err := domain.RequireAdmin(actor); err != nil {
		return nil, err
	}

	most, err := s.repo.FormulaPopularity(ctx, false, popularityLimit)
	if err != nil {
		return nil, storeError("failed_to_rank_formulas", err)
	}
	least, err := s.repo.FormulaPopularity(ctx, true, popularityLimit)
	if err != nil {
		return nil, storeError("failed_to_rank_formulas", err)
	}

	return &FormulaPopularity{
		MostReserved:  nonNil(most),
		LeastReserved: nonNil(least),
	}, nil
}

// MonthlyTrend conta agendamentos por mês nos três últimos meses,
// mês atual incluído, até hoje. Mês sem agendamento vem zerado.
func (s *Stats) MonthlyTrend(
	ctx context.Context,
	actor domain.Actor,
	in TrendInput,
) ([]domain.MonthCount, error) {

	if err := domain.RequireAdmin(actor); err != nil {
		return nil, err
	}

	filter := domain.TrendFilter{}
	if in.Status != "" {
		if _, ok := domain.ParseStatus(in.Status); !ok {
			return nil, httperr.ErrValidation("invalid_filter", "Filtres invalides.").
				WithField("status", "valeur inconnue")
		}
		filter.Status = in.Status
	}
	if in.FormulaID != "" {
		id, err := uuid.Parse(in.FormulaID)
		if err != nil {
			return nil, httperr.ErrValidation("invalid_filter", "Filtres invalides.").
				WithField("formula_id", "identifiant invalide")
		}
		filter.FormulaID = &id
	}

	now := s.clock.Now()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).
		AddDate(0, -(trendMonths - 1), 0)

	rows, err := s.repo.MonthlyCounts(ctx,
		first.Format(timezone.DateLayout),
		s.clock.DayOffset(1),
		filter,
	)
	if err != nil {
		return nil, storeError("failed_to_compute_trend", err)
	}

	found := make(map[string]int64, len(rows))
	for _, r := range rows {
		found[r.Month] = r.Count
	}

	out := make([]domain.MonthCount, 0, trendMonths)
	for i := 0; i < trendMonths; i++ {
		m := first.AddDate(0, i, 0).Format("2006-01")
		out = append(out, domain.MonthCount{Month: m, Count: found[m]})
	}
	return out, nil
}

func nonNil(in []domain.FormulaCount) []domain.FormulaCount {
	if in == nil {
		return []domain.FormulaCount{}
	}
	return in
}
