package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
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

// BannerHandler mantém um banner (imagem ou vídeo) por página do site.
type BannerHandler struct {
	db    *gorm.DB
	store storage.ObjectStore
	audit *audit.Dispatcher
}

func NewBannerHandler(db *gorm.DB, store storage.ObjectStore, audit *audit.Dispatcher) *BannerHandler {
	return &BannerHandler{db: db, store: store, audit: audit}
}

func (h *BannerHandler) List(c *gin.Context) {
	var banners []models.PageBanner
	if err := h.db.Order("page_name ASC").Find(&banners).Error; err != nil {
		httperr.Respond(c, httperr.ErrInternal("failed_to_list_banners", err))
		return
	}
	httpresp.List(c, banners)
}

func (h *BannerHandler) Get(c *gin.Context) {
	page := c.Param("page_name")
	if !models.IsBannerPage(page) {
		httperr.BadRequest(c, "invalid_page", "Page inconnue.")
		return
	}

	var banner models.PageBanner
	if err := h.db.First(&banner, "page_name = ?", page).Error; err != nil {
		h.respondLookup(c, err)
		return
	}
	httpresp.OK(c, banner)
}

// Upsert cria ou substitui o banner de page_name.
// Sem arquivo novo, mantém a mídia atual; clear_media=true a remove.
func (h *BannerHandler) Upsert(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxVideoBytes+1<<20)

	page := strings.TrimSpace(c.PostForm("page_name"))
	kind := strings.TrimSpace(c.PostForm("type"))

	verr := httperr.ErrValidation("invalid_banner", "Les champs page_name et type sont requis.")
	if !models.IsBannerPage(page) {
		verr.WithField("page_name", "página desconhecida")
	}
	if kind != models.BannerImage && kind != models.BannerVideo {
		verr.WithField("type", "image ou video")
	}
	if len(verr.Fields) > 0 {
		httperr.Respond(c, verr)
		return
	}

	var banner models.PageBanner
	created := false
	if err := h.db.First(&banner, "page_name = ?", page).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Respond(c, httperr.ErrInternal("failed_to_get_banner", err))
			return
		}
		created = true
		banner = models.PageBanner{PageName: page}
	}
	oldKey := banner.MediaKey

	var newKey string
	if fh := formFile(c, "media"); fh != nil {
		if !requireStore(c, h.store) {
			return
		}
		body, contentType, ext, ok := h.readMedia(c, kind, fh)
		if !ok {
			return
		}
		newKey = "banners/" + page + "/" + uuid.NewString() + ext
		url, err := h.store.Put(c.Request.Context(), newKey, contentType, body)
		if err != nil {
			httperr.Respond(c, httperr.ErrInternal("failed_to_upload_media", err))
			return
		}
		banner.MediaKey = newKey
		banner.MediaURL = url
	} else if c.PostForm("clear_media") == "true" {
		banner.MediaKey = ""
		banner.MediaURL = ""
	} else if created || (banner.Type != kind && banner.MediaKey != "") {
		// mídia atual não serve para o novo tipo
		httperr.BadRequest(c, "media_required", "Un fichier média correspondant au type est requis.")
		return
	}

	actor := middleware.Actor(c)
	banner.Type = kind
	banner.Title = strings.TrimSpace(c.PostForm("title"))
	banner.Subtitle = strings.TrimSpace(c.PostForm("subtitle"))
	banner.LastUpdatedByID = &actor.ID

	if err := h.db.Save(&banner).Error; err != nil {
		dropObject(c, h.store, newKey)
		if httperr.IsUniqueViolation(err) {
			httperr.Conflict(c, "banner_already_exists", "Un banner existe déjà pour cette page.")
			return
		}
		httperr.Respond(c, httperr.ErrInternal("failed_to_save_banner", err))
		return
	}

	if oldKey != "" && oldKey != banner.MediaKey {
		dropObject(c, h.store, oldKey)
	}

	writeAudit(h.audit, c, "banner_saved", "page_banner", banner.ID, map[string]any{"page_name": page, "type": kind})
	if created {
		httpresp.Created(c, "Banner créé avec succès.", banner)
		return
	}
	httpresp.Message(c, "Banner mis à jour avec succès.", banner)
}

func (h *BannerHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var banner models.PageBanner
	if err := h.db.First(&banner, "id = ?", id).Error; err != nil {
		h.respondLookup(c, err)
		return
	}

	if err := h.db.Delete(&banner).Error; err != nil {
		httperr.Respond(c, httperr.ErrInternal("failed_to_delete_banner", err))
		return
	}
	dropObject(c, h.store, banner.MediaKey)

	writeAudit(h.audit, c, "banner_deleted", "page_banner", banner.ID, map[string]any{"page_name": banner.PageName})
	httpresp.Message(c, "Banner supprimé avec succès.", nil)
}

// readMedia devolve corpo, content-type e extensão conforme o tipo declarado.
func (h *BannerHandler) readMedia(c *gin.Context, kind string, fh *multipart.FileHeader) ([]byte, string, string, bool) {
	if kind == models.BannerImage {
		encoded, ok := readWebP(c, fh)
		return encoded, "image/webp", ".webp", ok
	}
	raw, ct, ok := readVideo(c, fh)
	if !ok {
		return nil, "", "", false
	}
	ext := ".mp4"
	if ct == "video/webm" {
		ext = ".webm"
	}
	return raw, ct, ext, true
}

func (h *BannerHandler) respondLookup(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.NotFound(c, "banner_not_found", "Banner introuvable.")
		return
	}
	httperr.Respond(c, httperr.ErrInternal("failed_to_get_banner", err))
}
