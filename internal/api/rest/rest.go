package rest

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/feral-file/ff-card-indexer/internal/api/middleware"
	"github.com/feral-file/ff-card-indexer/internal/ratelimit"
)

// SetupRoutes configures all REST API routes. limiter and gatherer may be nil.
func SetupRoutes(router *gin.Engine, handler Handler, auth *middleware.Authenticator, limiter ratelimit.Limiter, gatherer prometheus.Gatherer) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)

	if gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	v1 := router.Group("/api/v1")
	{
		// Card endpoints (public read access)
		v1.GET("/cards", handler.ListCards)
		v1.GET("/cards/:id", handler.GetCard)

		v1.GET("/indexer/status", handler.IndexerStatus)

		// Card mutations (requires a session token, throttled per wallet)
		authed := v1.Group("/cards", middleware.Auth(auth), middleware.RateLimit(limiter))
		authed.POST("/mint/prepare", handler.PrepareMint)
		authed.POST("/edit/prepare", handler.PrepareEdit)
		authed.POST("/rollback", handler.Rollback)
		authed.POST("/sync", handler.Sync)
	}
}
