package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/headspa-scheduler/internal/logs"
)

type HTTPError struct {
	Success bool              `json:"success"`
	Code    string            `json:"error_code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"errors,omitempty"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func StatusOf(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Respond converte qualquer erro vindo dos use cases na resposta padrão.
func Respond(c *gin.Context, err error) {
	e, ok := As(err)
	if !ok {
		e = ErrInternal("internal_error", err)
	}

	if e.Kind == KindInternal {
		logs.From(c).Error("request failed",
			"code", e.Code,
			"error", err.Error(),
		)
		c.JSON(http.StatusInternalServerError, HTTPError{
			Code:    e.Code,
			Message: "Erreur interne du serveur.",
		})
		return
	}

	c.JSON(StatusOf(e.Kind), HTTPError{
		Code:    e.Code,
		Message: e.Message,
		Fields:  e.Fields,
	})
}
