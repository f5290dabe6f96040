package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/headspa-scheduler/internal/httperr"
	"github.com/BruksfildServices01/headspa-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/headspa-scheduler/internal/middleware"
	ucUser "github.com/BruksfildServices01/headspa-scheduler/internal/usecase/user"
)

type UserHandler struct {
	svc   *ucUser.Service
	stats *ucUser.Stats
}

func NewUserHandler(svc *ucUser.Service, stats *ucUser.Stats) *UserHandler {
	return &UserHandler{svc: svc, stats: stats}
}

// ======================================================
// 📥 REQUISIÇÕES
// ======================================================

type CreateUserRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	Phone     string `json:"phone"`
}

type UpdateUserRequest struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Role      *string `json:"role,omitempty"`
	Password  *string `json:"password,omitempty"`
}

func (r UpdateUserRequest) input() ucUser.UpdateInput {
	return ucUser.UpdateInput{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Phone:     r.Phone,
		Role:      r.Role,
		Password:  r.Password,
	}
}

// ======================================================
// 📖 LEITURA
// ======================================================

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.svc.List(c.Request.Context(), middleware.Actor(c), c.Query("role"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, users)
}

// Admins é aberto a qualquer usuário logado (destinatários do chat).
func (h *UserHandler) Admins(c *gin.Context) {
	admins, err := h.svc.Admins(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, admins)
}

func (h *UserHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	u, err := h.svc.Get(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, u)
}

func (h *UserHandler) GetByEmail(c *gin.Context) {
	u, err := h.svc.GetByEmail(c.Request.Context(), middleware.Actor(c), c.Param("email"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, u)
}

// ======================================================
// ✍️ ESCRITA
// ======================================================

func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Corps de requête invalide.")
		return
	}

	u, err := h.svc.Create(c.Request.Context(), middleware.Actor(c), ucUser.CreateInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Role:      req.Role,
		Phone:     req.Phone,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Created(c, "Utilisateur créé avec succès.", u)
}

func (h *UserHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Corps de requête invalide.")
		return
	}

	u, err := h.svc.Update(c.Request.Context(), middleware.Actor(c), id, req.input())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Message(c, "Utilisateur mis à jour avec succès.", u)
}

func (h *UserHandler) UpdateAdmin(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Corps de requête invalide.")
		return
	}

	u, err := h.svc.UpdateAdmin(c.Request.Context(), middleware.Actor(c), id, req.input())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Message(c, "Administrateur mis à jour avec succès.", u)
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), middleware.Actor(c), id); err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Message(c, "Utilisateur supprimé avec succès.", nil)
}

// ======================================================
// 📊 ESTATÍSTICAS
// ======================================================

func (h *UserHandler) Count(c *gin.Context) {
	n, err := h.stats.Count(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, gin.H{"count": n})
}

func (h *UserHandler) Recent(c *gin.Context) {
	n, err := h.stats.Recent(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, gin.H{"count": n})
}

func (h *UserHandler) RegistrationsLastWeek(c *gin.Context) {
	days, err := h.stats.RegistrationsLastWeek(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, days)
}

func (h *UserHandler) CountsByRole(c *gin.Context) {
	counts, err := h.stats.CountsByRole(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, counts)
}

func (h *UserHandler) FidelityEngagement(c *gin.Context) {
	e, err := h.stats.FidelityEngagement(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, e)
}
