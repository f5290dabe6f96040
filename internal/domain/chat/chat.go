package chat

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/headspa-scheduler/internal/models"
)

const (
	MaxContent    = 2000
	PreviewLength = 200
	MessagesLimit = 500
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrUserNotFound         = errors.New("user not found")
)

// Preview corta o conteúdo para a lista de conversas, sem quebrar runas.
func Preview(content string) string {
	content = strings.Join(strings.Fields(content), " ")
	if utf8.RuneCountInString(content) <= PreviewLength {
		return content
	}
	r := []rune(content)
	return string(r[:PreviewLength-1]) + "…"
}

type Repository interface {
	Transaction(ctx context.Context, fn func(repo Repository) error) error

	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	// FirstAdmin devolve o admin mais antigo (ErrUserNotFound se não houver).
	FirstAdmin(ctx context.Context) (*models.User, error)

	ListConversations(ctx context.Context, userID uuid.UUID) ([]models.Conversation, error)
	GetConversation(ctx context.Context, id uuid.UUID) (*models.Conversation, error)
	FindOrCreateConversation(ctx context.Context, clientID, adminID uuid.UUID) (*models.Conversation, error)
	TouchConversation(ctx context.Context, conv *models.Conversation) error

	// UnreadCounts conta, por conversa, as mensagens de outros ainda não lidas.
	UnreadCounts(ctx context.Context, userID uuid.UUID, convIDs []uuid.UUID) (map[uuid.UUID]int64, error)

	ListMessages(ctx context.Context, convID uuid.UUID, limit int) ([]models.Message, error)
	CreateMessage(ctx context.Context, msg *models.Message) error
	MarkRead(ctx context.Context, convID, readerID uuid.UUID, at time.Time) (int64, error)
}
