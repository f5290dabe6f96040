package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/headspa-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/headspa-scheduler/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

func (r *AppointmentGormRepository) Transaction(
	ctx context.Context,
	fn func(repo domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&AppointmentGormRepository{db: tx})
	})
}

// --------------------------------------------------
// Fórmula
// --------------------------------------------------

func (r *AppointmentGormRepository) GetFormula(
	ctx context.Context,
	id uuid.UUID,
) (*models.Formula, error) {

	var formula models.Formula
	if err := r.db.WithContext(ctx).First(&formula, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &formula, nil
}

// --------------------------------------------------
// Agendamento (conflito)
// --------------------------------------------------

func (r *AppointmentGormRepository) ListConflictCandidates(
	ctx context.Context,
	date string,
	excludeID *uuid.UUID,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Where("appointment_date = ? AND status <> ?", date, string(domain.StatusCancelled))

	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}

	// SQLite não tem lock de linha
	if r.db.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var apps []models.Appointment
	if err := q.Order("start_minute ASC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// --------------------------------------------------
// Agendamento (criação / edição)
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(ap).Error
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(ap).Error
}

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	id uuid.UUID,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Formula").
		First(&ap, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &ap, nil
}

// --------------------------------------------------
// Agendamento (leituras)
// --------------------------------------------------

func (r *AppointmentGormRepository) ListByClient(
	ctx context.Context,
	clientID uuid.UUID,
	status domain.Status,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Preload("Formula").
		Where("client_id = ?", clientID)

	if status != "" {
		q = q.Where("status = ?", string(status))
	}

	var apps []models.Appointment
	if err := q.
		Order("appointment_date DESC").
		Order("start_minute DESC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *AppointmentGormRepository) ListForAdmin(
	ctx context.Context,
	filter domain.AdminFilter,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Formula")

	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Date != "" {
		q = q.Where("appointment_date = ?", filter.Date)
	}
	if filter.ClientID != nil {
		q = q.Where("client_id = ?", *filter.ClientID)
	}

	var apps []models.Appointment
	if err := q.
		Order("appointment_date DESC").
		Order("start_minute ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *AppointmentGormRepository) ListUpcoming(
	ctx context.Context,
	fromDate string,
	toDate string,
	statuses []domain.Status,
) ([]models.Appointment, error) {

	values := make([]string, 0, len(statuses))
	for _, s := range statuses {
		values = append(values, string(s))
	}

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Formula").
		Where("appointment_date >= ? AND appointment_date <= ?", fromDate, toDate).
		Where("status IN ?", values).
		Order("appointment_date ASC").
		Order("start_minute ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}

// Checagem em tempo de compilação
var _ domain.Repository = (*AppointmentGormRepository)(nil)
