package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Learnhub/internal/dto"
	"github.com/lshigami/Learnhub/internal/service"
	"github.com/rs/zerolog/log"
)

// RespondError maps a service error to its HTTP status and writes the error body.
// Server-side failures carry a fixed message only.
func RespondError(ctx *gin.Context, err error, fallback string) {
	status, message := classify(err, fallback)
	resp := dto.ErrorResponse{Error: message}
	if status < http.StatusInternalServerError {
		resp.Details = []string{err.Error()}
	} else {
		log.Error().Err(err).Str("path", ctx.FullPath()).Int("status", status).Msg("Request failed")
	}
	ctx.JSON(status, resp)
}

func classify(err error, fallback string) (int, string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest, "Invalid request"
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, "Forbidden"
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, service.ErrConfiguration):
		return http.StatusInternalServerError, "Quiz is misconfigured"
	case errors.Is(err, service.ErrUpstream):
		return http.StatusBadGateway, "Payment provider unavailable"
	default:
		return http.StatusInternalServerError, fallback
	}
}

// BindError writes the 400 response for a request body that failed binding.
func BindError(ctx *gin.Context, err error) {
	log.Warn().Err(err).Str("path", ctx.FullPath()).Msg("Failed to bind JSON")
	ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body", Details: []string{err.Error()}})
}
