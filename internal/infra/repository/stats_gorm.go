package repository

import (
	"context"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/headspa-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/headspa-scheduler/internal/models"
)

type StatsGormRepository struct {
	db *gorm.DB
}

func NewStatsGormRepository(db *gorm.DB) *StatsGormRepository {
	return &StatsGormRepository{db: db}
}

func (r *StatsGormRepository) CountByStatus(ctx context.Context) (map[domain.Status]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}

	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make(map[domain.Status]int64, len(rows))
	for _, row := range rows {
		out[domain.Status(row.Status)] = row.Count
	}
	return out, nil
}

// FormulaPopularity conta agendamentos por fórmula, incluindo fórmulas sem reserva.
func (r *StatsGormRepository) FormulaPopularity(
	ctx context.Context,
	ascending bool,
	limit int,
) ([]domain.FormulaCount, error) {

	order := "count DESC, f.title ASC"
	if ascending {
		order = "count ASC, f.title ASC"
	}

	var rows []domain.FormulaCount
	if err := r.db.WithContext(ctx).
		Table("formulas AS f").
		Select("f.id AS formula_id, f.title AS title, COUNT(a.id) AS count").
		Joins("LEFT JOIN appointments a ON a.formula_id = f.id").
		Group("f.id, f.title").
		Order(order).
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *StatsGormRepository) MonthlyCounts(
	ctx context.Context,
	fromDate string,
	toDate string,
	filter domain.TrendFilter,
) ([]domain.MonthCount, error) {

	q := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Select("SUBSTR(appointment_date, 1, 7) AS month, COUNT(*) AS count").
		Where("appointment_date >= ? AND appointment_date < ?", fromDate, toDate)

	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.FormulaID != nil {
		q = q.Where("formula_id = ?", *filter.FormulaID)
	}

	var rows []domain.MonthCount
	if err := q.
		Group("SUBSTR(appointment_date, 1, 7)").
		Order("month ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

var _ domain.StatsRepository = (*StatsGormRepository)(nil)
