package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/headspa-scheduler/internal/domain/fidelity"
	"github.com/BruksfildServices01/headspa-scheduler/internal/models"
)

type FidelityGormRepository struct {
	db *gorm.DB
}

func NewFidelityGormRepository(db *gorm.DB) *FidelityGormRepository {
	return &FidelityGormRepository{db: db}
}

func (r *FidelityGormRepository) Transaction(
	ctx context.Context,
	fn func(repo fidelity.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&FidelityGormRepository{db: tx})
	})
}

func (r *FidelityGormRepository) GetUser(
	ctx context.Context,
	id uuid.UUID,
) (*models.User, error) {
	return r.findUser(r.db.WithContext(ctx), id)
}

func (r *FidelityGormRepository) GetUserForUpdate(
	ctx context.Context,
	id uuid.UUID,
) (*models.User, error) {

	q := r.db.WithContext(ctx)
	if r.db.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return r.findUser(q, id)
}

func (r *FidelityGormRepository) findUser(q *gorm.DB, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := q.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fidelity.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *FidelityGormRepository) SaveFidelity(
	ctx context.Context,
	user *models.User,
) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]any{
			"fidelity_level":     user.FidelityLevel,
			"last_ad_watched_at": user.LastAdWatchedAt,
		}).Error
}

func (r *FidelityGormRepository) AddHistory(
	ctx context.Context,
	entry *models.AdHistory,
) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *FidelityGormRepository) ListHistory(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]models.AdHistory, error) {

	var entries []models.AdHistory
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("watched_at DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

var _ fidelity.Repository = (*FidelityGormRepository)(nil)
