package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/headspa-scheduler/internal/dto"
	"github.com/BruksfildServices01/headspa-scheduler/internal/httperr"
	"github.com/BruksfildServices01/headspa-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/headspa-scheduler/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/headspa-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	create       *ucAppointment.CreateAppointment
	cancel       *ucAppointment.CancelAppointment
	updateStatus *ucAppointment.UpdateAppointmentStatus
	update       *ucAppointment.UpdateAppointment
	queries      *ucAppointment.Queries
	stats        *ucAppointment.Stats
}

func NewAppointmentHandler(
	create *ucAppointment.CreateAppointment,
	cancel *ucAppointment.CancelAppointment,
	updateStatus *ucAppointment.UpdateAppointmentStatus,
	update *ucAppointment.UpdateAppointment,
	queries *ucAppointment.Queries,
	stats *ucAppointment.Stats,
) *AppointmentHandler {
	return &AppointmentHandler{
		create:       create,
		cancel:       cancel,
		updateStatus: updateStatus,
		update:       update,
		queries:      queries,
		stats:        stats,
	}
}

// ======================================================
// REQUISIÇÕES
// ======================================================

type CreateAppointmentRequest struct {
	FormulaID string `json:"formula_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type CancelAppointmentRequest struct {
	Reason string `json:"cancellation_reason"`
}

type UpdateStatusRequest struct {
	Status     string  `json:"status"`
	AdminNotes *string `json:"admin_notes"`
}

type UpdateAppointmentRequest struct {
	FormulaID          *string `json:"formula_id"`
	Date               *string `json:"date"`
	StartTime          *string `json:"start_time"`
	EndTime            *string `json:"end_time"`
	Status             *string `json:"status"`
	AdminNotes         *string `json:"admin_notes"`
	CancellationReason *string `json:"cancellation_reason"`
}

// ======================================================
// ESCRITA
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Corps de requête invalide.")
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		Actor:     middleware.Actor(c),
		FormulaID: req.FormulaID,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, "Rendez-vous pris avec succès. En attente de confirmation.", ap)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req CancelAppointmentRequest
	// corpo opcional
	_ = c.ShouldBindJSON(&req)

	ap, err := h.cancel.Execute(c.Request.Context(), middleware.Actor(c), id, req.Reason)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Message(c, "Rendez-vous annulé avec succès.", ap)
}

func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Corps de requête invalide.")
		return
	}

	ap, err := h.updateStatus.Execute(c.Request.Context(), ucAppointment.UpdateAppointmentStatusInput{
		Actor:      middleware.Actor(c),
		ID:         id,
		Status:     req.Status,
		AdminNotes: req.AdminNotes,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Message(c, "Statut du rendez-vous mis à jour.", ap)
}

func (h *AppointmentHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Corps de requête invalide.")
		return
	}

	ap, err := h.update.Execute(c.Request.Context(), ucAppointment.UpdateAppointmentInput{
		Actor:              middleware.Actor(c),
		ID:                 id,
		FormulaID:          req.FormulaID,
		Date:               req.Date,
		StartTime:          req.StartTime,
		EndTime:            req.EndTime,
		Status:             req.Status,
		AdminNotes:         req.AdminNotes,
		CancellationReason: req.CancellationReason,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Message(c, "Rendez-vous mis à jour.", ap)
}

// ======================================================
// LEITURA
// ======================================================

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	ap, err := h.queries.Get(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) ListMine(c *gin.Context) {
	apps, err := h.queries.ListMine(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, apps)
}

func (h *AppointmentHandler) History(c *gin.Context) {
	apps, err := h.queries.History(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, apps)
}

func (h *AppointmentHandler) AdminList(c *gin.Context) {
	apps, err := h.queries.AdminList(c.Request.Context(), middleware.Actor(c), ucAppointment.AdminListInput{
		Status:   c.Query("status"),
		Date:     c.Query("date"),
		ClientID: c.Query("client_id"),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, dto.NewAppointmentList(apps))
}

func (h *AppointmentHandler) Upcoming(c *gin.Context) {
	apps, err := h.queries.Upcoming(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, dto.NewAppointmentList(apps))
}

// ======================================================
// ESTATÍSTICAS
// ======================================================

func (h *AppointmentHandler) StatusCounts(c *gin.Context) {
	out, err := h.stats.CountsByStatus(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Message(c, "Statistiques rendez-vous récupérées.", out)
}

func (h *AppointmentHandler) FormulaPopularity(c *gin.Context) {
	out, err := h.stats.Popularity(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Message(c, "Popularité des formules récupérée.", out)
}

func (h *AppointmentHandler) MonthlyTrend(c *gin.Context) {
	out, err := h.stats.MonthlyTrend(c.Request.Context(), middleware.Actor(c), ucAppointment.TrendInput{
		Status:    c.Query("status"),
		FormulaID: c.Query("formula_id"),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Message(c, "Progression mensuelle des rendez-vous récupérée.", out)
}

// ======================================================
// AUXILIARES
// ======================================================

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identifiant invalide.")
		return uuid.Nil, false
	}
	return id, true
}
