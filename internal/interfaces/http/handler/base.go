package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/erp/resolver/internal/domain/shared"
	"github.com/erp/resolver/internal/infrastructure/logger"
	"github.com/erp/resolver/internal/interfaces/http/dto"
	"github.com/erp/resolver/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a 200 response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response
func (h *BaseHandler) Error(c *gin.Context, status int, code, message string) {
	c.JSON(status, dto.NewErrorResponseWithRequestID(code, message, middleware.GetRequestID(c)))
}

// BadRequest sends a 400 response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// HandleError maps domain errors to their status; anything else is a 500
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		status := dto.GetHTTPStatus(code)
		if status >= http.StatusInternalServerError {
			logger.GetGinLogger(c).Error("Request failed", zap.Error(err))
		}
		h.Error(c, status, code, errorMessage(domainErr, err))
		return
	}

	logger.GetGinLogger(c).Error("Unexpected error", zap.Error(err))
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred")
}

// errorMessage keeps the detail a caller can act on and hides upstream causes
func errorMessage(domainErr *shared.DomainError, err error) string {
	if domainErr == shared.ErrUpstream {
		return domainErr.Message
	}
	return err.Error()
}

// bindJSON binds and validates the body, writing the error response itself
func (h *BaseHandler) bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			middleware.HandleValidationError(c, err)
			return false
		}
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, "Invalid JSON body")
		return false
	}
	return true
}

// bindQuery binds and validates query parameters
func (h *BaseHandler) bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			middleware.HandleValidationError(c, err)
			return false
		}
		h.BadRequest(c, "Invalid query parameters")
		return false
	}
	return true
}

// normalizeText folds compatibility characters (full-width letters,
// ligatures, non-breaking spaces) so typed and pasted names compare equal.
func normalizeText(s string) string {
	return strings.TrimSpace(norm.NFKC.String(s))
}

// normalizeCandidates folds each candidate for comparison and maps every
// folded form back to the first candidate that produced it.
func normalizeCandidates(in []string) ([]string, map[string]string) {
	out := make([]string, len(in))
	originals := make(map[string]string, len(in))
	for i, s := range in {
		out[i] = normalizeText(s)
		if _, ok := originals[out[i]]; !ok {
			originals[out[i]] = s
		}
	}
	return out, originals
}
