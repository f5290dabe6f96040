package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/headspa-scheduler/internal/httperr"
	"github.com/BruksfildServices01/headspa-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/headspa-scheduler/internal/middleware"
	ucFidelity "github.com/BruksfildServices01/headspa-scheduler/internal/usecase/fidelity"
)

type FidelityHandler struct {
	svc *ucFidelity.Service
}

func NewFidelityHandler(svc *ucFidelity.Service) *FidelityHandler {
	return &FidelityHandler{svc: svc}
}

type WatchAdRequest struct {
	AdID string `json:"ad_id"`
}

func (h *FidelityHandler) WatchAd(c *gin.Context) {
	var req WatchAdRequest
	// ad_id é opcional
	_ = c.ShouldBindJSON(&req)

	res, err := h.svc.WatchAd(c.Request.Context(), middleware.Actor(c).ID, req.AdID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Message(c, res.Message, res)
}

func (h *FidelityHandler) MyLevel(c *gin.Context) {
	lvl, err := h.svc.MyLevel(c.Request.Context(), middleware.Actor(c).ID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Message(c, "Niveau de fidélité récupéré avec succès.", lvl)
}

func (h *FidelityHandler) AdHistory(c *gin.Context) {
	entries, err := h.svc.History(c.Request.Context(), middleware.Actor(c).ID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, entries)
}
