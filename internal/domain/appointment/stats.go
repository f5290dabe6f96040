package appointment

import (
	"context"

	"github.com/google/uuid"
)

type FormulaCount struct {
	FormulaID uuid.UUID `json:"formula_id"`
	Title     string    `json:"title"`
	Count     int64     `json:"count"`
}

type MonthCount struct {
	Month string `json:"month"` // YYYY-MM
	Count int64  `json:"count"`
}

type TrendFilter struct {
	Status    string
	FormulaID *uuid.UUID
}

type StatsRepository interface {
	CountByStatus(ctx context.Context) (map[Status]int64, error)

	FormulaPopularity(
		ctx context.Context,
		ascending bool,
		limit int,
	) ([]FormulaCount, error)

	// MonthlyCounts agrupa por mês os agendamentos com fromDate <= date < toDate.
	MonthlyCounts(
		ctx context.Context,
		fromDate string,
		toDate string,
		filter TrendFilter,
	) ([]MonthCount, error)
}
