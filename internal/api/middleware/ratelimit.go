package middleware

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/feral-file/ff-card-indexer/internal/api/shared/dto"
	apierrors "github.com/feral-file/ff-card-indexer/internal/api/shared/errors"
	"github.com/feral-file/ff-card-indexer/internal/logger"
	"github.com/feral-file/ff-card-indexer/internal/ratelimit"
)

// RateLimit throttles authenticated callers by wallet address. It must run after Auth.
// A nil limiter disables throttling. Limiter errors let the request through.
func RateLimit(limiter ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		key := c.ClientIP()
		if caller, ok := CallerFromContext(c); ok {
			key = caller.WalletAddress
		}

		decision, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			logger.WarnCtx(c.Request.Context(), "Rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}

		if !decision.Allowed {
			seconds := int(math.Ceil(decision.RetryAfter.Seconds()))
			if seconds < 1 {
				seconds = 1
			}
			c.Header("Retry-After", strconv.Itoa(seconds))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.Response{
				Error: apierrors.NewRateLimitedError(seconds),
			})
			return
		}

		c.Next()
	}
}
