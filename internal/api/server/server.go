package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/feral-file/ff-card-indexer/internal/adapter"
	"github.com/feral-file/ff-card-indexer/internal/api/middleware"
	"github.com/feral-file/ff-card-indexer/internal/api/rest"
	"github.com/feral-file/ff-card-indexer/internal/cards"
	"github.com/feral-file/ff-card-indexer/internal/coordinator"
	"github.com/feral-file/ff-card-indexer/internal/indexer"
	"github.com/feral-file/ff-card-indexer/internal/logger"
	"github.com/feral-file/ff-card-indexer/internal/ratelimit"
)

// Config holds the server configuration
type Config struct {
	Debug         bool
	Host          string
	Port          int
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	IdleTimeout   time.Duration
	MaxUploadSize int64
	Auth          middleware.AuthConfig
}

// Server wraps the HTTP server
type Server struct {
	config      Config
	cards       cards.Service
	coordinator coordinator.Coordinator
	indexer     indexer.Indexer
	limiter     ratelimit.Limiter
	gatherer    prometheus.Gatherer
	json        adapter.JSON
	httpServer  *http.Server
}

// New creates a new API server. idx, limiter and gatherer may be nil.
func New(
	cfg Config,
	cardService cards.Service,
	coord coordinator.Coordinator,
	idx indexer.Indexer,
	limiter ratelimit.Limiter,
	gatherer prometheus.Gatherer,
	json adapter.JSON,
) *Server {
	return &Server{
		config:      cfg,
		cards:       cardService,
		coordinator: coord,
		indexer:     idx,
		limiter:     limiter,
		gatherer:    gatherer,
		json:        json,
	}
}

// Router builds the gin engine with middleware and routes
func (s *Server) Router() (*gin.Engine, error) {
	// Set Gin mode based on debug flag
	if s.config.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	auth, err := middleware.NewAuthenticator(s.config.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create authenticator: %w", err)
	}

	router := gin.New()
	if s.config.MaxUploadSize > 0 {
		router.MaxMultipartMemory = s.config.MaxUploadSize
	}

	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.SetupCORS())

	restHandler := rest.NewHandler(s.cards, s.coordinator, s.indexer, s.config.MaxUploadSize, s.json)
	rest.SetupRoutes(router, restHandler, auth, s.limiter, s.gatherer)

	return router, nil
}

// Start initializes and starts the HTTP server
func (s *Server) Start() error {
	router, err := s.Router()
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	logger.Info("Starting API server",
		zap.String("address", addr),
	)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Info("Shutting down API server")

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
	}

	return nil
}
