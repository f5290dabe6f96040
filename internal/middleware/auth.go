package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/headspa-scheduler/internal/config"
	domain "github.com/BruksfildServices01/headspa-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/headspa-scheduler/internal/httperr"
	"github.com/BruksfildServices01/headspa-scheduler/internal/models"
)

const (
	ContextUserID   = "userID"
	ContextUserRole = "userRole"

	// TokenCookie guarda o JWT para o front (httpOnly).
	TokenCookie = "token"
)

func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := extractToken(c)
		if !ok {
			httperr.Unauthorized(c, "missing_token", "Authentification requise.")
			c.Abort()
			return
		}

		userID, role, code := parseToken(cfg.JWTSecret, tokenString)
		if code != "" {
			httperr.Unauthorized(c, code, "Session invalide ou expirée.")
			c.Abort()
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextUserRole, role)

		c.Next()
	}
}

// OptionalAuth preenche o contexto quando há um token válido e nunca bloqueia.
func OptionalAuth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString, ok := extractToken(c); ok {
			if userID, role, code := parseToken(cfg.JWTSecret, tokenString); code == "" {
				c.Set(ContextUserID, userID)
				c.Set(ContextUserRole, role)
			}
		}
		c.Next()
	}
}

// parseToken devolve um código de erro não vazio quando o token é recusado.
func parseToken(secret, tokenString string) (uuid.UUID, string, string) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {

		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return uuid.Nil, "", "invalid_token"
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, "", "invalid_token_claims"
	}

	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	role, _ := claims["role"].(string)
	if err != nil || role == "" {
		return uuid.Nil, "", "invalid_token_payload"
	}
	return userID, role, ""
}

// Bearer primeiro, cookie depois.
func extractToken(c *gin.Context) (string, bool) {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			return "", false
		}
		return parts[1], true
	}

	if v, err := c.Cookie(TokenCookie); err == nil && v != "" {
		return v, true
	}
	return "", false
}

// RequireAdmin protege os recursos exclusivos do admin fora do núcleo de reservas.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextUserRole) != models.RoleAdmin {
			httperr.Forbidden(c, "admin_only", "Accès réservé aux administrateurs.")
			c.Abort()
			return
		}
		c.Next()
	}
}

// Actor monta o principal autenticado para os use cases.
func Actor(c *gin.Context) domain.Actor {
	id, _ := c.Get(ContextUserID)
	uid, _ := id.(uuid.UUID)
	return domain.Actor{ID: uid, Role: c.GetString(ContextUserRole)}
}
