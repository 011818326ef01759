// internal/handler/errors.go
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"receipt-service/internal/layout"
	"receipt-service/internal/model"
	"receipt-service/internal/transport"
	"receipt-service/internal/utils"
)

// statusForError maps pipeline errors to an HTTP status and message
func statusForError(err error) (int, string) {
	var renderErr *layout.RenderError

	switch {
	case errors.As(err, &renderErr):
		return http.StatusUnprocessableEntity, "Receipt could not be rendered"
	case errors.Is(err, transport.ErrNotFound):
		return http.StatusNotFound, "Printer queue not found"
	case errors.Is(err, transport.ErrBusy):
		return http.StatusConflict, "Printer queue busy"
	case errors.Is(err, transport.ErrWrite):
		return http.StatusBadGateway, "Printer write failed"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// respondError writes the envelope for err. Validation errors carry the
// offending field.
func respondError(c *gin.Context, logger *utils.ServiceLogger, err error) {
	var validationErr *model.ValidationError
	if errors.As(err, &validationErr) {
		utils.ValidationErrorResponse(c, map[string]string{validationErr.Field: validationErr.Message})
		return
	}

	status, message := statusForError(err)
	if status >= http.StatusInternalServerError {
		logger.Error(message, zap.String("path", c.Request.URL.Path), zap.Error(err))
	} else {
		logger.Warn(message, zap.String("path", c.Request.URL.Path), zap.Error(err))
	}
	utils.ErrorResponse(c, status, message, err)
}
