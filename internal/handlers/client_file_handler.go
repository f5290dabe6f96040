package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/headspa-scheduler/internal/audit"
	"github.com/BruksfildServices01/headspa-scheduler/internal/httperr"
	"github.com/BruksfildServices01/headspa-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/headspa-scheduler/internal/models"
	"github.com/BruksfildServices01/headspa-scheduler/internal/timezone"
	"github.com/BruksfildServices01/headspa-scheduler/internal/validators"
)

// ClientFileHandler é o fichário de atendimento (só admin).
type ClientFileHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewClientFileHandler(db *gorm.DB, audit *audit.Dispatcher) *ClientFileHandler {
	return &ClientFileHandler{db: db, audit: audit}
}

type ClientFileRequest struct {
	Nom       *string                 `json:"nom"`
	Prenom    *string                 `json:"prenom"`
	Email     *string                 `json:"email"`
	Telephone *string                 `json:"telephone"`
	Sessions  *[]models.ClientSession `json:"historique_seances"`
}

func (h *ClientFileHandler) List(c *gin.Context) {
	q := h.db.Model(&models.ClientFile{})
	if term := strings.ToLower(strings.TrimSpace(c.Query("search"))); term != "" {
		like := "%" + term + "%"
		q = q.Where("LOWER(nom) LIKE ? OR LOWER(prenom) LIKE ?", like, like)
	}

	var files []models.ClientFile
	if err := q.Order("nom ASC").Order("prenom ASC").Find(&files).Error; err != nil {
		httperr.Respond(c, httperr.ErrInternal("failed_to_list_client_files", err))
		return
	}
	httpresp.List(c, files)
}

func (h *ClientFileHandler) Get(c *gin.Context) {
	file, ok := h.load(c)
	if !ok {
		return
	}
	httpresp.OK(c, file)
}

func (h *ClientFileHandler) Create(c *gin.Context) {
	var req ClientFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Corps de requête invalide.")
		return
	}

	var file models.ClientFile
	if req.Nom == nil || req.Prenom == nil {
		verr := httperr.ErrValidation("missing_fields", "Le nom et le prénom sont requis.")
		if req.Nom == nil {
			verr.WithField("nom", "obrigatório")
		}
		if req.Prenom == nil {
			verr.WithField("prenom", "obrigatório")
		}
		httperr.Respond(c, verr)
		return
	}
	if err := applyClientFile(&file, req); err != nil {
		httperr.Respond(c, err)
		return
	}
	if file.Sessions == nil {
		file.Sessions = []models.ClientSession{}
	}

	if err := h.db.Create(&file).Error; err != nil {
		httperr.Respond(c, httperr.ErrInternal("failed_to_create_client_file", err))
		return
	}

	writeAudit(h.audit, c, "client_file_created", "client_file", file.ID, nil)
	httpresp.Created(c, "Fiche client créée avec succès.", file)
}

func (h *ClientFileHandler) Update(c *gin.Context) {
	file, ok := h.load(c)
	if !ok {
		return
	}

	var req ClientFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Corps de requête invalide.")
		return
	}
	if err := applyClientFile(file, req); err != nil {
		httperr.Respond(c, err)
		return
	}

	if err := h.db.Save(file).Error; err != nil {
		httperr.Respond(c, httperr.ErrInternal("failed_to_update_client_file", err))
		return
	}

	writeAudit(h.audit, c, "client_file_updated", "client_file", file.ID, map[string]any{"sessions": len(file.Sessions)})
	httpresp.Message(c, "Fiche client mise à jour avec succès.", file)
}

func (h *ClientFileHandler) Delete(c *gin.Context) {
	file, ok := h.load(c)
	if !ok {
		return
	}

	if err := h.db.Delete(file).Error; err != nil {
		httperr.Respond(c, httperr.ErrInternal("failed_to_delete_client_file", err))
		return
	}

	writeAudit(h.audit, c, "client_file_deleted", "client_file", file.ID, nil)
	httpresp.Message(c, "Fiche client supprimée avec succès.", nil)
}

func (h *ClientFileHandler) load(c *gin.Context) (*models.ClientFile, bool) {
	id, ok := parseID(c)
	if !ok {
		return nil, false
	}

	var file models.ClientFile
	if err := h.db.First(&file, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "client_file_not_found", "Fiche client introuvable.")
			return nil, false
		}
		httperr.Respond(c, httperr.ErrInternal("failed_to_get_client_file", err))
		return nil, false
	}
	return &file, true
}

// applyClientFile valida e copia só os campos presentes.
func applyClientFile(file *models.ClientFile, req ClientFileRequest) error {
	verr := httperr.ErrValidation("invalid_client_file", "Fiche client invalide.")

	if req.Nom != nil {
		file.Nom = strings.TrimSpace(*req.Nom)
		if file.Nom == "" {
			verr.WithField("nom", "obrigatório")
		}
	}
	if req.Prenom != nil {
		file.Prenom = strings.TrimSpace(*req.Prenom)
		if file.Prenom == "" {
			verr.WithField("prenom", "obrigatório")
		}
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if _, ok := validators.EmailDomain(email); email != "" && !ok {
			verr.WithField("email", "formato inválido")
		}
		file.Email = email
	}
	if req.Telephone != nil {
		phone, err := validators.NormalizePhone(*req.Telephone)
		if err != nil {
			verr.WithField("telephone", "número inválido")
		}
		file.Telephone = phone
	}
	if req.Sessions != nil {
		sessions := make([]models.ClientSession, 0, len(*req.Sessions))
		for _, s := range *req.Sessions {
			s.Problematique = strings.TrimSpace(s.Problematique)
			if _, err := time.Parse(timezone.DateLayout, s.DateSeance); err != nil {
				verr.WithField("historique_seances", "date_seance em YYYY-MM-DD")
				break
			}
			if s.Problematique == "" {
				verr.WithField("historique_seances", "problematique obrigatória")
				break
			}
			if s.HuilesEssentielles == nil {
				s.HuilesEssentielles = []string{}
			}
			sessions = append(sessions, s)
		}
		file.Sessions = sessions
	}

	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}
