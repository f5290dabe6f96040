package handlers

import (
	"time"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/headspa-scheduler/internal/httperr"
	"github.com/BruksfildServices01/headspa-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/headspa-scheduler/internal/middleware"
	ucChat "github.com/BruksfildServices01/headspa-scheduler/internal/usecase/chat"
)

const streamKeepAlive = 25 * time.Second

type ChatHandler struct {
	svc *ucChat.Service
}

func NewChatHandler(svc *ucChat.Service) *ChatHandler {
	return &ChatHandler{svc: svc}
}

type SendMessageRequest struct {
	ConversationID string `json:"conversation_id"`
	Content        string `json:"content"`
}

func (h *ChatHandler) Conversations(c *gin.Context) {
	convs, err := h.svc.Conversations(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, convs)
}

func (h *ChatHandler) Messages(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	msgs, err := h.svc.Messages(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, msgs)
}

func (h *ChatHandler) StartWithAdmin(c *gin.Context) {
	conv, err := h.svc.StartWithAdmin(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, conv)
}

func (h *ChatHandler) AdminStart(c *gin.Context) {
	clientID, err := uuid.Parse(c.Param("clientId"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identifiant invalide.")
		return
	}

	conv, err := h.svc.AdminStart(c.Request.Context(), middleware.Actor(c), clientID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, conv)
}

func (h *ChatHandler) Send(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Corps de requête invalide.")
		return
	}
	convID, err := uuid.Parse(req.ConversationID)
	if err != nil {
		httperr.BadRequest(c, "invalid_conversation_id", "Identifiant de conversation invalide.")
		return
	}

	msg, err := h.svc.Send(c.Request.Context(), middleware.Actor(c), convID, req.Content)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Created(c, "Message envoyé.", msg)
}

// Stream mantém um text/event-stream aberto com as mensagens recebidas.
// Eventos: connected, receive_message, ping.
func (h *ChatHandler) Stream(c *gin.Context) {
	actor := middleware.Actor(c)
	ch, cancel, err := h.svc.Stream(actor)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	defer cancel()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	c.Render(200, sse.Event{Event: "connected", Data: gin.H{"user_id": actor.ID}})
	c.Writer.Flush()

	ticker := time.NewTicker(streamKeepAlive)
	defer ticker.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			c.Render(-1, sse.Event{Event: "receive_message", Id: msg.ID.String(), Data: msg})
		case <-ticker.C:
			c.Render(-1, sse.Event{Event: "ping", Data: "keepalive"})
		}
		c.Writer.Flush()
	}
}
