package chat

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/headspa-scheduler/internal/audit"
	apDomain "github.com/BruksfildServices01/headspa-scheduler/internal/domain/appointment"
	domain "github.com/BruksfildServices01/headspa-scheduler/internal/domain/chat"
	"github.com/BruksfildServices01/headspa-scheduler/internal/httperr"
	"github.com/BruksfildServices01/headspa-scheduler/internal/models"
	"github.com/BruksfildServices01/headspa-scheduler/internal/timezone"
)

type Service struct {
	repo  domain.Repository
	hub   *Hub
	clock *timezone.Clock
	audit *audit.Dispatcher
}

// NewService aceita hub nil: as mensagens só ficam disponíveis via REST.
func NewService(repo domain.Repository, hub *Hub, clock *timezone.Clock, audit *audit.Dispatcher) *Service {
	return &Service{repo: repo, hub: hub, clock: clock, audit: audit}
}

// ==================================================
// 📬 Conversas
// ==================================================

// Conversations lista as conversas de quem chama, a mais recente primeiro,
// com o número de mensagens não lidas.
func (s *Service) Conversations(ctx context.Context, actor apDomain.Actor) ([]models.Conversation, error) {
	convs, err := s.repo.ListConversations(ctx, actor.ID)
	if err != nil {
		return nil, mapError(err)
	}

	ids := make([]uuid.UUID, 0, len(convs))
	for _, c := range convs {
		ids = append(ids, c.ID)
	}
	unread, err := s.repo.UnreadCounts(ctx, actor.ID, ids)
	if err != nil {
		return nil, mapError(err)
	}

	for i := range convs {
		convs[i].UnreadCount = unread[convs[i].ID]
	}
	if convs == nil {
		convs = []models.Conversation{}
	}
	return convs, nil
}

// Messages devolve o histórico em ordem cronológica e marca como lidas
// as mensagens do outro participante.
func (s *Service) Messages(ctx context.Context, actor apDomain.Actor, convID uuid.UUID) ([]models.Message, error) {
	conv, err := s.participant(ctx, actor, convID)
	if err != nil {
		return nil, err
	}

	msgs, err := s.repo.ListMessages(ctx, conv.ID, domain.MessagesLimit)
	if err != nil {
		return nil, mapError(err)
	}
	if _, err := s.repo.MarkRead(ctx, conv.ID, actor.ID, s.clock.Now()); err != nil {
		return nil, mapError(err)
	}

	if msgs == nil {
		msgs = []models.Message{}
	}
	return msgs, nil
}

// StartWithAdmin abre (ou reabre) a conversa do cliente com o admin principal.
func (s *Service) StartWithAdmin(ctx context.Context, actor apDomain.Actor) (*models.Conversation, error) {
	if actor.Role != models.RoleClient {
		return nil, httperr.ErrForbidden("clients_only",
			"Seuls les clients peuvent démarrer une conversation avec l'équipe.")
	}

	admin, err := s.repo.FirstAdmin(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, httperr.ErrNotFound("no_admin_available", "Aucun administrateur disponible pour discuter.")
		}
		return nil, mapError(err)
	}

	conv, err := s.repo.FindOrCreateConversation(ctx, actor.ID, admin.ID)
	if err != nil {
		return nil, mapError(err)
	}
	return conv, nil
}

// AdminStart abre a conversa de um admin com um cliente específico.
func (s *Service) AdminStart(ctx context.Context, actor apDomain.Actor, clientID uuid.UUID) (*models.Conversation, error) {
	if err := apDomain.RequireAdmin(actor); err != nil {
		return nil, err
	}

	client, err := s.repo.GetUser(ctx, clientID)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, mapError(err)
	}
	if client == nil || client.Role != models.RoleClient {
		return nil, httperr.ErrNotFound("client_not_found", "Client introuvable.")
	}

	conv, err := s.repo.FindOrCreateConversation(ctx, client.ID, actor.ID)
	if err != nil {
		return nil, mapError(err)
	}
	return conv, nil
}

// ==================================================
// ✉️ Envio
// ==================================================

func (s *Service) Send(ctx context.Context, actor apDomain.Actor, convID uuid.UUID, content string) (*models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, httperr.ErrValidation("content_required", "Le message ne peut pas être vide.").
			WithField("content", "obrigatório")
	}
	if utf8.RuneCountInString(content) > domain.MaxContent {
		return nil, httperr.ErrValidation("content_too_long", "Le message ne doit pas dépasser 2000 caractères.").
			WithField("content", "máximo 2000 caracteres")
	}

	conv, err := s.participant(ctx, actor, convID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	msg := &models.Message{
		ConversationID: conv.ID,
		SenderID:       actor.ID,
		Content:        content,
	}

	err = s.repo.Transaction(ctx, func(tx domain.Repository) error {
		if err := tx.CreateMessage(ctx, msg); err != nil {
			return err
		}
		conv.LastMessagePreview = domain.Preview(content)
		conv.LastMessageAt = &now
		conv.LastSenderID = &actor.ID
		return tx.TouchConversation(ctx, conv)
	})
	if err != nil {
		return nil, mapError(err)
	}

	// push para quem está com o stream aberto, inclusive outras abas do remetente
	s.hub.Publish(conv.Other(actor.ID), *msg)
	s.hub.Publish(actor.ID, *msg)

	s.audit.Dispatch(audit.Event{
		ActorID:  &actor.ID,
		Action:   "chat_message_sent",
		Entity:   "conversation",
		EntityID: &conv.ID,
	})
	return msg, nil
}

// Stream inscreve quem chama no hub.
func (s *Service) Stream(actor apDomain.Actor) (<-chan models.Message, func(), error) {
	if s.hub == nil {
		return nil, nil, httperr.ErrNotFound("stream_unavailable", "Flux temps réel indisponible.")
	}
	ch, cancel := s.hub.Subscribe(actor.ID)
	return ch, cancel, nil
}

// participant carrega a conversa e exige que quem chama participe dela.
func (s *Service) participant(ctx context.Context, actor apDomain.Actor, convID uuid.UUID) (*models.Conversation, error) {
	conv, err := s.repo.GetConversation(ctx, convID)
	if err != nil {
		return nil, mapError(err)
	}
	if !conv.Has(actor.ID) {
		return nil, httperr.ErrForbidden("not_a_participant", "Accès refusé à cette conversation.")
	}
	return conv, nil
}

func mapError(err error) error {
	if _, ok := httperr.As(err); ok {
		return err
	}
	switch {
	case errors.Is(err, domain.ErrConversationNotFound):
		return httperr.ErrNotFound("conversation_not_found", "Conversation introuvable.")
	case errors.Is(err, domain.ErrUserNotFound):
		return httperr.ErrNotFound("user_not_found", "Utilisateur non trouvé.")
	}
	return httperr.ErrInternal("chat_failed", err)
}
