package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/feral-file/ff-card-indexer/internal/api/middleware"
	"github.com/feral-file/ff-card-indexer/internal/domain"
	"github.com/feral-file/ff-card-indexer/internal/logger"
	"github.com/feral-file/ff-card-indexer/internal/mocks"
	"github.com/feral-file/ff-card-indexer/internal/ratelimit"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: false}); err != nil {
		panic(err)
	}
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func rateLimitedRouter(limiter ratelimit.Limiter) *gin.Engine {
	router := gin.New()
	router.POST("/prepare",
		func(c *gin.Context) {
			c.Set(string(middleware.CALLER_KEY), domain.Caller{UserID: "user-1", WalletAddress: "0xaa"})
		},
		middleware.RateLimit(limiter),
		func(c *gin.Context) { c.Status(http.StatusNoContent) },
	)
	return router
}

func TestRateLimit(t *testing.T) {
	t.Run("allowed", func(t *testing.T) {
		limiter := mocks.NewMockLimiter(gomock.NewController(t))
		limiter.EXPECT().Allow(gomock.Any(), "0xaa").Return(ratelimit.Decision{Allowed: true}, nil)

		w := httptest.NewRecorder()
		rateLimitedRouter(limiter).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/prepare", nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("rejected", func(t *testing.T) {
		limiter := mocks.NewMockLimiter(gomock.NewController(t))
		limiter.EXPECT().Allow(gomock.Any(), "0xaa").Return(ratelimit.Decision{RetryAfter: 1500 * time.Millisecond}, nil)

		w := httptest.NewRecorder()
		rateLimitedRouter(limiter).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/prepare", nil))

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "2", w.Header().Get("Retry-After"))
		assert.Contains(t, w.Body.String(), `"code":"rate_limited"`)
	})

	t.Run("limiter error lets the request through", func(t *testing.T) {
		limiter := mocks.NewMockLimiter(gomock.NewController(t))
		limiter.EXPECT().Allow(gomock.Any(), "0xaa").Return(ratelimit.Decision{}, errors.New("boom"))

		w := httptest.NewRecorder()
		rateLimitedRouter(limiter).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/prepare", nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("disabled", func(t *testing.T) {
		w := httptest.NewRecorder()
		rateLimitedRouter(nil).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/prepare", nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}
