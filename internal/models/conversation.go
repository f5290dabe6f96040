package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Conversation é o fio único entre um cliente e um admin.
type Conversation struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	ClientID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_conversation_pair" json:"client_id"`
	Client   *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"client,omitempty"`

	AdminID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_conversation_pair;index" json:"admin_id"`
	Admin   *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"admin,omitempty"`

	// Resumo da última mensagem para a lista
	LastMessagePreview string     `gorm:"size:200" json:"last_message_preview"`
	LastMessageAt      *time.Time `gorm:"index" json:"last_message_at"`
	LastSenderID       *uuid.UUID `gorm:"type:uuid" json:"last_sender_id,omitempty"`

	UnreadCount int64 `gorm:"-" json:"unread_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Conversation) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Has diz se o usuário participa da conversa.
func (c *Conversation) Has(userID uuid.UUID) bool {
	return c.ClientID == userID || c.AdminID == userID
}

// Other devolve o outro participante.
func (c *Conversation) Other(userID uuid.UUID) uuid.UUID {
	if c.ClientID == userID {
		return c.AdminID
	}
	return c.ClientID
}

type Message struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	ConversationID uuid.UUID     `gorm:"type:uuid;not null;index:idx_message_conversation,priority:1" json:"conversation_id"`
	Conversation   *Conversation `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	SenderID uuid.UUID `gorm:"type:uuid;not null" json:"sender_id"`
	Sender   *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"sender,omitempty"`

	Content string `gorm:"type:text;not null" json:"content"`

	// Lido pelo destinatário (conversa tem só dois participantes)
	ReadAt *time.Time `json:"read_at"`

	CreatedAt time.Time `gorm:"index:idx_message_conversation,priority:2" json:"created_at"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
