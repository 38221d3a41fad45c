package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/feral-file/ff-card-indexer/internal/api/shared/dto"
	apierrors "github.com/feral-file/ff-card-indexer/internal/api/shared/errors"
	"github.com/feral-file/ff-card-indexer/internal/logger"
)

const REQUEST_ID_HEADER = "X-Request-ID"

// RequestID tags the request context with the caller's or a fresh ULID request id
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(REQUEST_ID_HEADER)
		if id == "" || len(id) > 64 {
			id = ulid.Make().String()
		}

		ctx := logger.WithRequestID(c.Request.Context(), id)
		if hub := sentry.CurrentHub(); hub != nil {
			hub = hub.Clone()
			hub.Scope().SetTag("request_id", id)
			ctx = sentry.SetHubOnContext(ctx, hub)
		}
		c.Request = c.Request.WithContext(ctx)
		c.Header(REQUEST_ID_HEADER, id)

		c.Next()
	}
}

// Logger returns a gin middleware for structured logging using zap
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		duration := time.Since(start)

		logger.InfoCtx(c.Request.Context(), "API request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", duration),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
		)
	}
}

// Recovery returns a gin middleware for panic recovery with logging
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.ErrorCtx(c.Request.Context(), fmt.Errorf("panic recovered: %v", err),
					zap.String("path", c.Request.URL.Path),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, dto.Response{
					Error: apierrors.NewInternalError("Internal server error"),
				})
			}
		}()
		c.Next()
	}
}
