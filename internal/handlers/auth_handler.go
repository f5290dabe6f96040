package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/headspa-scheduler/internal/config"
	"github.com/BruksfildServices01/headspa-scheduler/internal/httperr"
	"github.com/BruksfildServices01/headspa-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/headspa-scheduler/internal/logs"
	"github.com/BruksfildServices01/headspa-scheduler/internal/middleware"
	"github.com/BruksfildServices01/headspa-scheduler/internal/models"
	"github.com/BruksfildServices01/headspa-scheduler/internal/validators"
)

type AuthHandler struct {
	db          *gorm.DB
	config      *config.Config
	emailDomain validators.DomainChecker
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config, checker validators.DomainChecker) *AuthHandler {
	if checker == nil {
		checker = validators.NewEmailDomainResolver().Check
	}
	return &AuthHandler{db: db, config: cfg, emailDomain: checker}
}

// --------- Requests ---------

type RegisterRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	Phone     string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type authPayload struct {
	User  *models.User `json:"user"`
	Token string       `json:"token,omitempty"`
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Prénom, nom, e-mail et mot de passe (6 caractères minimum) sont requis.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if !h.emailDomain(email) {
		httperr.BadRequest(c, "invalid_email_domain", "Le domaine de l'adresse e-mail ne semble pas valide.")
		return
	}

	phone, err := validators.NormalizePhone(req.Phone)
	if err != nil {
		httperr.BadRequest(c, "invalid_phone", "Numéro de téléphone invalide.")
		return
	}

	var count int64
	if err := h.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		httperr.Respond(c, httperr.ErrInternal("failed_to_check_email", err))
		return
	}
	if count > 0 {
		httperr.Conflict(c, "email_already_exists", "Un compte existe déjà avec cet e-mail.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Respond(c, httperr.ErrInternal("failed_to_hash_password", err))
		return
	}

	user := models.User{
		FirstName:     strings.TrimSpace(req.FirstName),
		LastName:      strings.TrimSpace(req.LastName),
		Email:         email,
		PasswordHash:  string(hashed),
		Phone:         phone,
		Role:          models.RoleClient,
		FidelityLevel: 1,
	}

	if err := h.db.Create(&user).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			httperr.Conflict(c, "email_already_exists", "Un compte existe déjà avec cet e-mail.")
			return
		}
		httperr.Respond(c, httperr.ErrInternal("failed_to_create_user", err))
		return
	}

	logs.From(c).Info("user registered", "user_id", user.ID)
	httpresp.Created(c, "Compte créé avec succès.", authPayload{User: &user})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "E-mail et mot de passe requis.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "invalid_credentials", "Identifiants invalides.")
			return
		}
		httperr.Respond(c, httperr.ErrInternal("internal_error", err))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "Identifiants invalides.")
		return
	}

	token, err := middleware.SignToken(h.config.JWTSecret, user.ID, user.Role, h.config.JWTTTL)
	if err != nil {
		httperr.Respond(c, httperr.ErrInternal("failed_to_generate_token", err))
		return
	}

	h.setTokenCookie(c, token, int(h.config.JWTTTL.Seconds()))
	httpresp.Message(c, "Connexion réussie.", authPayload{User: &user, Token: token})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.setTokenCookie(c, "", -1)
	httpresp.Message(c, "Déconnexion réussie.", nil)
}

func (h *AuthHandler) setTokenCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, value, maxAge, "/", "", h.config.CookieSecure, true)
}
