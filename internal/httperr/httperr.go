package httperr

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type HTTPError struct {
	Status    int    `json:"status"`
	Code      string `json:"error_code"`
	Message   string `json:"message"`
	Path      string `json:"path"`
	Timestamp string `json:"timestamp"`

	Details map[string]string `json:"details,omitempty"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, HTTPError{
		Status:    status,
		Code:      code,
		Message:   message,
		Path:      c.Request.URL.Path,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// InvalidRequest reports a binding failure with per-field details.
func InvalidRequest(c *gin.Context, details map[string]string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, HTTPError{
		Status:    http.StatusBadRequest,
		Code:      "invalid_request",
		Message:   "Dados inválidos.",
		Path:      c.Request.URL.Path,
		Timestamp: time.Now().Format(time.RFC3339),
		Details:   details,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

func StatusFor(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindForbidden:
		return http.StatusForbidden
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// FromError writes err using its business kind. Unknown errors are logged
// and hidden behind a generic 500.
func FromError(c *gin.Context, err error) {
	var be BusinessError
	if errors.As(err, &be) {
		Write(c, StatusFor(be.Kind), be.Code, be.Message)
		return
	}

	log.Error().
		Err(err).
		Str("path", c.Request.URL.Path).
		Str("method", c.Request.Method).
		Msg("unhandled error")
	Internal(c, "internal_error", "Erro interno. Tente novamente mais tarde.")
}
