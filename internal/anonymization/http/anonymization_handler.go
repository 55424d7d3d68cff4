// Package http provides HTTP handlers for anonymizing and restoring JSON documents.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/anonymizer/internal/anonymization/http/dto"
	anonymizationUseCase "github.com/allisson/anonymizer/internal/anonymization/usecase"
	apperrors "github.com/allisson/anonymizer/internal/errors"
	"github.com/allisson/anonymizer/internal/httputil"
	customValidation "github.com/allisson/anonymizer/internal/validation"
)

// AnonymizationHandler handles HTTP requests for anonymization operations.
type AnonymizationHandler struct {
	anonymizationUseCase anonymizationUseCase.AnonymizationUseCase
	logger               *slog.Logger
}

// NewAnonymizationHandler creates a new anonymization handler with required dependencies.
func NewAnonymizationHandler(
	anonymizationUseCase anonymizationUseCase.AnonymizationUseCase,
	logger *slog.Logger,
) *AnonymizationHandler {
	return &AnonymizationHandler{
		anonymizationUseCase: anonymizationUseCase,
		logger:               logger,
	}
}

// AnonymizeHandler replaces PII in the submitted document with tokens.
// POST /v1/anonymize
// Returns 200 OK with the anonymized document and its encrypted map, or 201 Created
// when the map was persisted as a session.
func (h *AnonymizationHandler) AnonymizeHandler(c *gin.Context) {
	var req dto.AnonymizeRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	data, err := dto.DecodeData(req.Data)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	result, err := h.anonymizationUseCase.Anonymize(c.Request.Context(), data, req.Persist)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	status := http.StatusOK
	if result.Session != nil {
		status = http.StatusCreated
	}
	c.JSON(status, dto.MapAnonymizeResultToResponse(result))
}

// DeanonymizeHandler restores tokens in the submitted document.
// POST /v1/deanonymize
// The map comes from the request body or from a persisted session. Entries that fail to
// decrypt are dropped and reported in dropped_entries. Returns 200 OK.
func (h *AnonymizationHandler) DeanonymizeHandler(c *gin.Context) {
	var req dto.DeanonymizeRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	input, err := req.ToDomain()
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	result, err := h.anonymizationUseCase.Deanonymize(c.Request.Context(), input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapDeanonymizeResultToResponse(result))
}

// DeleteSessionHandler removes a persisted anonymization session.
// DELETE /v1/sessions/:id
// Returns 204 No Content on success.
func (h *AnonymizationHandler) DeleteSessionHandler(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, apperrors.New("invalid session id format"), h.logger)
		return
	}

	if err := h.anonymizationUseCase.DeleteSession(c.Request.Context(), sessionID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}
