package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/headspa-scheduler/internal/audit"
	"github.com/BruksfildServices01/headspa-scheduler/internal/httperr"
	"github.com/BruksfildServices01/headspa-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/headspa-scheduler/internal/middleware"
	"github.com/BruksfildServices01/headspa-scheduler/internal/models"
)

type FormulaHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewFormulaHandler(db *gorm.DB, audit *audit.Dispatcher) *FormulaHandler {
	return &FormulaHandler{db: db, audit: audit}
}

// --------- Requests ---------

type CreateFormulaRequest struct {
	Title     string   `json:"title" binding:"required"`
	Etiquette string   `json:"etiquette"`
	Price     *float64 `json:"price" binding:"required"`
	Duration  string   `json:"duration" binding:"required"`
	Soins     []string `json:"soins"`
	Raison    string   `json:"raison"`
	IsActive  *bool    `json:"is_active"`
}

type UpdateFormulaRequest struct {
	Title     *string   `json:"title,omitempty"`
	Etiquette *string   `json:"etiquette,omitempty"`
	Price     *float64  `json:"price,omitempty"`
	Duration  *string   `json:"duration,omitempty"`
	Soins     *[]string `json:"soins,omitempty"`
	Raison    *string   `json:"raison,omitempty"`
	IsActive  *bool     `json:"is_active,omitempty"`
}

// --------- Handlers ---------

// List devolve as fórmulas ativas, das mais antigas para as mais novas.
func (h *FormulaHandler) List(c *gin.Context) {
	var formulas []models.Formula
	if err := h.db.
		Where("is_active = ?", true).
		Order("created_at ASC").
		Find(&formulas).Error; err != nil {

		httperr.Respond(c, httperr.ErrInternal("failed_to_list_formulas", err))
		return
	}

	httpresp.List(c, formulas)
}

func (h *FormulaHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var formula models.Formula
	if err := h.db.First(&formula, "id = ?", id).Error; err != nil {
		h.respondLookup(c, err)
		return
	}

	// inativas só para admin
	if !formula.IsActive && !middleware.Actor(c).IsAdmin() {
		httperr.NotFound(c, "formula_not_found", "Formule introuvable ou inactive.")
		return
	}

	httpresp.OK(c, formula)
}

func (h *FormulaHandler) Create(c *gin.Context) {
	var req CreateFormulaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Les champs titre, prix, durée sont requis.")
		return
	}
	if *req.Price < 0 {
		httperr.BadRequest(c, "invalid_price", "Le prix ne peut pas être négatif.")
		return
	}

	formula := models.Formula{
		Title:     strings.TrimSpace(req.Title),
		Etiquette: req.Etiquette,
		Price:     *req.Price,
		Duration:  req.Duration,
		Soins:     req.Soins,
		Raison:    req.Raison,
		IsActive:  true,
	}
	if req.IsActive != nil {
		formula.IsActive = *req.IsActive
	}

	if err := h.db.Create(&formula).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			httperr.Conflict(c, "formula_title_exists", "Une formule avec ce titre existe déjà.")
			return
		}
		httperr.Respond(c, httperr.ErrInternal("failed_to_create_formula", err))
		return
	}

	writeAudit(h.audit, c, "formula_created", "formula", formula.ID, map[string]any{"title": formula.Title})
	httpresp.Created(c, "Formule créée avec succès.", formula)
}

func (h *FormulaHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var formula models.Formula
	if err := h.db.First(&formula, "id = ?", id).Error; err != nil {
		h.respondLookup(c, err)
		return
	}

	var req UpdateFormulaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Corps de requête invalide.")
		return
	}

	if req.Title != nil {
		formula.Title = strings.TrimSpace(*req.Title)
	}
	if req.Etiquette != nil {
		formula.Etiquette = *req.Etiquette
	}
	if req.Price != nil {
		if *req.Price < 0 {
			httperr.BadRequest(c, "invalid_price", "Le prix ne peut pas être négatif.")
			return
		}
		formula.Price = *req.Price
	}
	if req.Duration != nil {
		formula.Duration = *req.Duration
	}
	if req.Soins != nil {
		formula.Soins = *req.Soins
	}
	if req.Raison != nil {
		formula.Raison = *req.Raison
	}
	if req.IsActive != nil {
		formula.IsActive = *req.IsActive
	}

	if formula.Title == "" || formula.Duration == "" {
		httperr.BadRequest(c, "invalid_request", "Le titre et la durée ne peuvent pas être vides.")
		return
	}

	if err := h.db.Save(&formula).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			httperr.Conflict(c, "formula_title_exists", "Une autre formule avec ce titre existe déjà.")
			return
		}
		httperr.Respond(c, httperr.ErrInternal("failed_to_update_formula", err))
		return
	}

	writeAudit(h.audit, c, "formula_updated", "formula", formula.ID, nil)
	httpresp.Message(c, "Formule mise à jour avec succès.", formula)
}

func (h *FormulaHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var count int64
	if err := h.db.Model(&models.Appointment{}).Where("formula_id = ?", id).Count(&count).Error; err != nil {
		httperr.Respond(c, httperr.ErrInternal("failed_to_delete_formula", err))
		return
	}
	if count > 0 {
		httperr.Conflict(c, "formula_in_use", "Cette formule a des rendez-vous, désactivez-la plutôt.")
		return
	}

	res := h.db.Delete(&models.Formula{}, "id = ?", id)
	if res.Error != nil {
		httperr.Respond(c, httperr.ErrInternal("failed_to_delete_formula", res.Error))
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "formula_not_found", "Formule introuvable.")
		return
	}

	writeAudit(h.audit, c, "formula_deleted", "formula", id, nil)
	httpresp.Message(c, "Formule supprimée avec succès.", nil)
}

func (h *FormulaHandler) respondLookup(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.NotFound(c, "formula_not_found", "Formule introuvable.")
		return
	}
	httperr.Respond(c, httperr.ErrInternal("failed_to_get_formula", err))
}
