package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/feral-file/ff-card-indexer/internal/api/shared/dto"
	"github.com/feral-file/ff-card-indexer/internal/api/shared/errors"
	"github.com/feral-file/ff-card-indexer/internal/logger"
)

// respondOK wraps data in a success envelope
func respondOK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, dto.Response{Success: true, Data: data})
}

// respondBadRequest responds with a bad request error
func respondBadRequest(c *gin.Context, message string, details ...string) {
	c.JSON(http.StatusBadRequest, dto.Response{Error: errors.NewBadRequestError(message, details...)})
}

// respondValidationError responds with a validation error
func respondValidationError(c *gin.Context, message string) {
	c.JSON(http.StatusUnprocessableEntity, dto.Response{Error: errors.NewValidationError(message)})
}

// respondUnauthorized responds when no caller is attached to the request
func respondUnauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, dto.Response{Error: errors.NewUnauthorizedError("Authentication required")})
}

// respondError maps err to its status and logs server-side failures
func respondError(c *gin.Context, err error, message string) {
	status, apiErr := errors.FromError(err)
	if status >= http.StatusInternalServerError {
		logger.ErrorCtx(c.Request.Context(), err,
			zap.String("message", message),
			zap.String("path", c.Request.URL.Path),
		)
	} else {
		logger.DebugCtx(c.Request.Context(), message,
			zap.Error(err),
			zap.Int("status", status),
		)
	}
	c.JSON(status, dto.Response{Error: apiErr})
}
