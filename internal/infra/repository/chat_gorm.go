package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/headspa-scheduler/internal/domain/chat"
	"github.com/BruksfildServices01/headspa-scheduler/internal/models"
)

type ChatGormRepository struct {
	db *gorm.DB
}

func NewChatGormRepository(db *gorm.DB) *ChatGormRepository {
	return &ChatGormRepository{db: db}
}

func (r *ChatGormRepository) Transaction(
	ctx context.Context,
	fn func(repo chat.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ChatGormRepository{db: tx})
	})
}

// --------------------------------------------------
// Usuários
// --------------------------------------------------

func (r *ChatGormRepository) GetUser(
	ctx context.Context,
	id uuid.UUID,
) (*models.User, error) {

	var u models.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, chat.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *ChatGormRepository) FirstAdmin(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).
		Where("role = ?", models.RoleAdmin).
		Order("created_at ASC").
		First(&u).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, chat.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// --------------------------------------------------
// Conversas
// --------------------------------------------------

func (r *ChatGormRepository) ListConversations(
	ctx context.Context,
	userID uuid.UUID,
) ([]models.Conversation, error) {

	var convs []models.Conversation
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Admin").
		Where("client_id = ? OR admin_id = ?", userID, userID).
		Order("updated_at DESC").
		Find(&convs).Error; err != nil {
		return nil, err
	}
	return convs, nil
}

func (r *ChatGormRepository) GetConversation(
	ctx context.Context,
	id uuid.UUID,
) (*models.Conversation, error) {

	var conv models.Conversation
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Admin").
		First(&conv, "id = ?", id).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, chat.ErrConversationNotFound
		}
		return nil, err
	}
	return &conv, nil
}

// FindOrCreateConversation apoia-se no índice único (client_id, admin_id):
// duas chamadas simultâneas terminam na mesma linha.
func (r *ChatGormRepository) FindOrCreateConversation(
	ctx context.Context,
	clientID, adminID uuid.UUID,
) (*models.Conversation, error) {

	conv := models.Conversation{ClientID: clientID, AdminID: adminID}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "client_id"}, {Name: "admin_id"}},
			DoNothing: true,
		}).
		Create(&conv).Error; err != nil {
		return nil, err
	}

	var found models.Conversation
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Admin").
		Where("client_id = ? AND admin_id = ?", clientID, adminID).
		First(&found).Error; err != nil {
		return nil, err
	}
	return &found, nil
}

func (r *ChatGormRepository) TouchConversation(
	ctx context.Context,
	conv *models.Conversation,
) error {
	return r.db.WithContext(ctx).
		Model(&models.Conversation{}).
		Where("id = ?", conv.ID).
		Updates(map[string]any{
			"last_message_preview": conv.LastMessagePreview,
			"last_message_at":      conv.LastMessageAt,
			"last_sender_id":       conv.LastSenderID,
		}).Error
}

func (r *ChatGormRepository) UnreadCounts(
	ctx context.Context,
	userID uuid.UUID,
	convIDs []uuid.UUID,
) (map[uuid.UUID]int64, error) {

	out := make(map[uuid.UUID]int64, len(convIDs))
	if len(convIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		ConversationID uuid.UUID
		Total          int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Select("conversation_id, COUNT(*) AS total").
		Where("conversation_id IN ?", convIDs).
		Where("sender_id <> ?", userID).
		Where("read_at IS NULL").
		Group("conversation_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		out[row.ConversationID] = row.Total
	}
	return out, nil
}

// --------------------------------------------------
// Mensagens
// --------------------------------------------------

func (r *ChatGormRepository) ListMessages(
	ctx context.Context,
	convID uuid.UUID,
	limit int,
) ([]models.Message, error) {

	// últimas N, devolvidas em ordem cronológica
	var msgs []models.Message
	if err := r.db.WithContext(ctx).
		Preload("Sender").
		Where("conversation_id = ?", convID).
		Order("created_at DESC").
		Limit(limit).
		Find(&msgs).Error; err != nil {
		return nil, err
	}

	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

func (r *ChatGormRepository) CreateMessage(
	ctx context.Context,
	msg *models.Message,
) error {
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Preload("Sender").First(msg, "id = ?", msg.ID).Error
}

func (r *ChatGormRepository) MarkRead(
	ctx context.Context,
	convID, readerID uuid.UUID,
	at time.Time,
) (int64, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND read_at IS NULL", convID, readerID).
		Update("read_at", at)
	return res.RowsAffected, res.Error
}

var _ chat.Repository = (*ChatGormRepository)(nil)
