package handlers

import (
	"net/http"

	"gameslibrary/internal/domain"
	"gameslibrary/internal/http/middleware"
	"gameslibrary/internal/logger"

	"github.com/gin-gonic/gin"
)

// ErrorResponse standardizes error payloads.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func respondError(c *gin.Context, status int, code, message string, details any) {
	if code == "" {
		code = http.StatusText(status)
	}
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:     message,
		Code:      code,
		Details:   details,
		RequestID: middleware.GetRequestID(c),
	})
}

// RespondDomainError maps domain errors to HTTP responses. Token errors all
// render the same message; the specific kind only reaches the logs.
func RespondDomainError(c *gin.Context, err error) {
	log := logger.From(c.Request.Context())

	if kind, ok := domain.TokenErrorKindOf(err); ok {
		log.Info("token error", logger.Kind(string(kind)))
		respondError(c, http.StatusBadRequest, "invalid_token", domain.InvalidTokenMessage, nil)
		return
	}

	switch {
	case domain.IsValidation(err):
		respondError(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case domain.IsConflict(err):
		respondError(c, http.StatusConflict, "conflict", err.Error(), nil)
	case domain.IsUnauthorized(err):
		respondError(c, http.StatusUnauthorized, "unauthorized", err.Error(), nil)
	case domain.IsUpstream(err):
		log.Error("upstream failure", logger.Err(err))
		respondError(c, http.StatusBadGateway, "upstream_error", "a dependent service failed", nil)
	default:
		log.Error("internal error", logger.Err(err))
		respondError(c, http.StatusInternalServerError, "internal_error", "internal server error", nil)
	}
}
