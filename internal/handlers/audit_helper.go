package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/headspa-scheduler/internal/audit"
	"github.com/BruksfildServices01/headspa-scheduler/internal/middleware"
)

// writeAudit enfileira um evento em nome do usuário autenticado.
func writeAudit(
	d *audit.Dispatcher,
	c *gin.Context,
	action string,
	entity string,
	entityID uuid.UUID,
	meta any,
) {
	actor := middleware.Actor(c)
	ev := audit.Event{
		Action:   action,
		Entity:   entity,
		EntityID: &entityID,
		Metadata: meta,
	}
	if actor.ID != uuid.Nil {
		ev.ActorID = &actor.ID
	}
	d.Dispatch(ev)
}
