package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/headspa-scheduler/internal/audit"
	"github.com/BruksfildServices01/headspa-scheduler/internal/httperr"
	"github.com/BruksfildServices01/headspa-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/headspa-scheduler/internal/infra/storage"
	"github.com/BruksfildServices01/headspa-scheduler/internal/middleware"
	"github.com/BruksfildServices01/headspa-scheduler/internal/models"
)

type GalleryHandler struct {
	db    *gorm.DB
	store storage.ObjectStore
	audit *audit.Dispatcher
}

// NewGalleryHandler aceita store nil: leitura funciona, upload responde 503.
func NewGalleryHandler(db *gorm.DB, store storage.ObjectStore, audit *audit.Dispatcher) *GalleryHandler {
	return &GalleryHandler{db: db, store: store, audit: audit}
}

type UpdateGalleryRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Order       *int    `json:"order,omitempty"`
}

func (h *GalleryHandler) List(c *gin.Context) {
	var images []models.GalleryImage
	if err := h.db.
		Order("sort_order ASC").
		Order("created_at ASC").
		Find(&images).Error; err != nil {

		httperr.Respond(c, httperr.ErrInternal("failed_to_list_gallery", err))
		return
	}
	httpresp.List(c, images)
}

func (h *GalleryHandler) Create(c *gin.Context) {
	if !requireStore(c, h.store) {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImageBytes+1<<20)

	fh := formFile(c, "image")
	if fh == nil {
		httperr.BadRequest(c, "image_required", "Un fichier image est requis.")
		return
	}

	title := strings.TrimSpace(c.PostForm("title"))
	if title == "" {
		httperr.BadRequest(c, "title_required", "Le titre de l'image est requis.")
		return
	}

	order := 0
	if v := c.PostForm("order"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			httperr.BadRequest(c, "invalid_order", "L'ordre doit être un entier.")
			return
		}
		order = n
	}

	encoded, ok := readWebP(c, fh)
	if !ok {
		return
	}

	key := "gallery/" + uuid.NewString() + ".webp"
	url, err := h.store.Put(c.Request.Context(), key, "image/webp", encoded)
	if err != nil {
		httperr.Respond(c, httperr.ErrInternal("failed_to_upload_image", err))
		return
	}

	actor := middleware.Actor(c)
	img := models.GalleryImage{
		Title:        title,
		Description:  c.PostForm("description"),
		Order:        order,
		ObjectKey:    key,
		URL:          url,
		UploadedByID: &actor.ID,
	}

	if err := h.db.Create(&img).Error; err != nil {
		// não deixar objeto órfão no bucket
		dropObject(c, h.store, key)
		httperr.Respond(c, httperr.ErrInternal("failed_to_save_image", err))
		return
	}

	writeAudit(h.audit, c, "gallery_image_created", "gallery_image", img.ID, map[string]any{"title": title})
	httpresp.Created(c, "Image ajoutée à la galerie.", img)
}

func (h *GalleryHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var img models.GalleryImage
	if err := h.db.First(&img, "id = ?", id).Error; err != nil {
		h.respondLookup(c, err)
		return
	}

	var req UpdateGalleryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Corps de requête invalide.")
		return
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			httperr.BadRequest(c, "title_required", "Le titre de l'image est requis.")
			return
		}
		img.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		img.Description = *req.Description
	}
	if req.Order != nil {
		img.Order = *req.Order
	}

	if err := h.db.Save(&img).Error; err != nil {
		httperr.Respond(c, httperr.ErrInternal("failed_to_update_image", err))
		return
	}

	writeAudit(h.audit, c, "gallery_image_updated", "gallery_image", img.ID, nil)
	httpresp.Message(c, "Image de galerie mise à jour.", img)
}

func (h *GalleryHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var img models.GalleryImage
	if err := h.db.First(&img, "id = ?", id).Error; err != nil {
		h.respondLookup(c, err)
		return
	}

	// linha primeiro: se o banco falhar, a imagem continua servida
	if err := h.db.Delete(&img).Error; err != nil {
		httperr.Respond(c, httperr.ErrInternal("failed_to_delete_image", err))
		return
	}
	dropObject(c, h.store, img.ObjectKey)

	writeAudit(h.audit, c, "gallery_image_deleted", "gallery_image", img.ID, nil)
	httpresp.Message(c, "Image de galerie supprimée.", nil)
}

func (h *GalleryHandler) respondLookup(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.NotFound(c, "gallery_image_not_found", "Image de galerie introuvable.")
		return
	}
	httperr.Respond(c, httperr.ErrInternal("failed_to_get_image", err))
}
