package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/feral-file/ff-card-indexer/internal/adapter"
	"github.com/feral-file/ff-card-indexer/internal/api/middleware"
	"github.com/feral-file/ff-card-indexer/internal/api/server"
	"github.com/feral-file/ff-card-indexer/internal/cache"
	"github.com/feral-file/ff-card-indexer/internal/cards"
	"github.com/feral-file/ff-card-indexer/internal/config"
	"github.com/feral-file/ff-card-indexer/internal/coordinator"
	"github.com/feral-file/ff-card-indexer/internal/domain"
	"github.com/feral-file/ff-card-indexer/internal/handlers"
	"github.com/feral-file/ff-card-indexer/internal/indexer"
	"github.com/feral-file/ff-card-indexer/internal/logger"
	"github.com/feral-file/ff-card-indexer/internal/metrics"
	"github.com/feral-file/ff-card-indexer/internal/providers/ethereum"
	"github.com/feral-file/ff-card-indexer/internal/providers/ipfs"
	"github.com/feral-file/ff-card-indexer/internal/ratelimit"
	"github.com/feral-file/ff-card-indexer/internal/render"
	"github.com/feral-file/ff-card-indexer/internal/store"
	"github.com/feral-file/ff-card-indexer/internal/sweeper"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadAPIConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "card-api",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Feral File Card API")

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err), zap.String("host", cfg.Database.Host))
	}
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to database",
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.Database.MaxIdleConns),
	)
	dataStore := store.NewPGStore(db)

	// Initialize adapters
	jsonAdapter := adapter.NewJSON()
	clock := adapter.NewClock()
	httpClient := adapter.NewHTTPClient(cfg.Pinata.HTTPTimeout)

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := metrics.New(registry)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to register metrics", zap.Error(err))
	}

	// Connect to the chain over HTTP RPC for reads and simulations
	dialer := adapter.NewEthClientDialer()
	rpcClient, err := dialer.Dial(ctx, cfg.Ethereum.RPCURL)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to dial Ethereum RPC", zap.Error(err))
	}
	defer rpcClient.Close()

	cardClient := ethereum.NewDisabledCardClient()
	if cfg.Ethereum.ContractAddress != "" {
		cardClient, err = ethereum.NewCardClient(ethereum.Config{ContractAddress: cfg.Ethereum.ContractAddress}, rpcClient)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to create card contract client", zap.Error(err))
		}
	} else {
		logger.WarnCtx(ctx, "No card contract configured, chain-backed operations are disabled")
	}

	// Artifact storage
	artifacts := ipfs.NewClient(ipfs.Config{
		APIURL:                cfg.Pinata.APIURL,
		UploadURL:             cfg.Pinata.UploadURL,
		JWT:                   cfg.Pinata.JWT,
		Gateway:               cfg.Pinata.Gateway,
		UploadMaxAttempts:     cfg.Pinata.UploadMaxAttempts,
		UploadInitialInterval: cfg.Pinata.UploadInitialInterval,
		PruneConcurrency:      cfg.Pinata.PruneConcurrency,
	}, httpClient)

	// Read cache with optional NATS fan-out
	backend, redisClient := newCacheBackend(ctx, cfg.Cache, cfg.Redis, clock)
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	var (
		bus      *cache.InvalidationBus
		natsConn adapter.NatsConn
	)
	if cfg.NATS.URL != "" {
		natsConn, err = adapter.NewNatsConnector().Connect(cfg.NATS.URL,
			nats.Name(cfg.NATS.ConnectionName),
			nats.MaxReconnects(cfg.NATS.MaxReconnects),
			nats.ReconnectWait(cfg.NATS.ReconnectWait),
		)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to connect to NATS", zap.Error(err))
		}
		defer natsConn.Close()
		bus = cache.NewInvalidationBus(natsConn, cfg.NATS.Subject, jsonAdapter)
	}

	var broadcaster cache.Broadcaster
	if bus != nil {
		broadcaster = bus
	}
	readCache := cache.New(cache.Config{TTL: cfg.Cache.TTL, KeyPrefix: cfg.Cache.KeyPrefix}, backend, jsonAdapter, m, broadcaster)
	if bus != nil {
		sub, err := bus.Listen(ctx, readCache)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to listen for cache invalidations", zap.Error(err))
		}
		defer func() { _ = sub.Unsubscribe() }()
	}

	// Event handling
	dispatcher := handlers.NewDispatcher(dataStore, cardClient, artifacts, readCache)
	processor := indexer.NewProcessor(dataStore, dispatcher, jsonAdapter, m)

	// Indexer streams over websocket and falls back to HTTP polling
	var idx indexer.Indexer
	if cfg.Indexer.Enabled {
		// without a contract the source stays nil and Run parks in the disconnected state
		var source ethereum.LogSource
		sourceCfg := ethereum.SourceConfig{
			ContractAddress: cfg.Ethereum.ContractAddress,
			MaxBlockRange:   cfg.Ethereum.MaxBlockRange,
			PollInterval:    cfg.Ethereum.PollInterval,
		}
		if cfg.Ethereum.ContractAddress != "" {
			source = ethereum.NewPollingSource(sourceCfg, rpcClient, clock)
			if cfg.Ethereum.WebSocketURL != "" {
				source = ethereum.NewFallbackSource(ethereum.NewWebSocketSource(sourceCfg, cfg.Ethereum.WebSocketURL, dialer), source)
			}
		}

		idx = indexer.NewIndexer(indexer.Config{
			Chain:                cfg.Ethereum.ChainID,
			ContractAddress:      cfg.Ethereum.ContractAddress,
			StartBlock:           cfg.Ethereum.StartBlock,
			BaseDelay:            cfg.Indexer.BaseDelay,
			MaxReconnectAttempts: cfg.Indexer.MaxReconnectAttempts,
		}, source, cardClient, dataStore, processor, jsonAdapter, clock, m)
	}

	var reprocessor sweeper.ReprocessSweeper
	if cfg.Reprocess.Enabled {
		reprocessor = sweeper.NewReprocessSweeper(sweeper.ReprocessConfig{
			Interval:  cfg.Reprocess.Interval,
			BatchSize: cfg.Reprocess.BatchSize,
		}, dataStore, processor, clock)
	}

	limiter := newLimiter(ctx, cfg.RateLimit, redisClient, clock)

	// Mutation preparation and reads
	renderer := render.NewRenderer(render.NewDefaultRasterizer(cfg.Rasterizer.Width), httpClient)
	coord := coordinator.New(coordinator.Config{
		BackfillTimeout:     cfg.Coordinator.BackfillTimeout,
		BackfillConcurrency: cfg.Coordinator.BackfillConcurrency,
	}, dataStore, cardClient, artifacts, renderer, readCache, jsonAdapter, m)
	cardService := cards.NewService(dataStore, readCache, jsonAdapter)

	srv := server.New(server.Config{
		Debug:         cfg.Debug,
		Host:          cfg.Server.Host,
		Port:          cfg.Server.Port,
		ReadTimeout:   time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:  time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:   time.Duration(cfg.Server.IdleTimeout) * time.Second,
		MaxUploadSize: cfg.Server.MaxUploadSize,
		Auth: middleware.AuthConfig{
			JWTPublicKey: cfg.Auth.JWTPublicKey,
		},
	}, cardService, coord, idx, limiter, registry, jsonAdapter)

	errCh := make(chan error, 3)
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- err
		}
	}()

	indexerDone := make(chan struct{})
	if idx != nil {
		go func() {
			defer close(indexerDone)
			if err := idx.Run(ctx); err != nil {
				var transportErr *domain.TransportError
				if errors.As(err, &transportErr) {
					// The API keeps serving reads; status reports the indexer as degraded
					logger.ErrorCtx(ctx, err, zap.String("component", "indexer"))
					return
				}
				errCh <- err
			}
		}()
	} else {
		close(indexerDone)
		logger.WarnCtx(ctx, "Indexer disabled, the projection will only change through backfills")
	}

	if reprocessor != nil {
		go func() {
			if err := reprocessor.Start(ctx); err != nil {
				errCh <- fmt.Errorf("%s: %w", reprocessor.Name(), err)
			}
		}()
	}

	// Wait for interrupt signal to gracefully shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "api"))
	}
	cancel()

	// Create shutdown context with timeout (don't use canceled ctx)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorCtx(shutdownCtx, err, zap.String("component", "server"))
	}
	if reprocessor != nil {
		if err := reprocessor.Stop(shutdownCtx); err != nil {
			logger.ErrorCtx(shutdownCtx, err, zap.String("component", reprocessor.Name()))
		}
	}
	coord.Wait()

	select {
	case <-indexerDone:
	case <-shutdownCtx.Done():
		logger.Warn("Indexer did not stop before the shutdown deadline")
	}

	logger.Info("API server stopped")
}

// newCacheBackend picks the read cache backend; redis is checked with a ping before use.
// The redis client is nil for the memory backend.
func newCacheBackend(ctx context.Context, cacheCfg config.CacheConfig, redisCfg config.RedisConfig, clock adapter.Clock) (cache.Backend, adapter.RedisClient) {
	if cacheCfg.Backend != config.CacheBackendRedis {
		logger.InfoCtx(ctx, "Using in-memory read cache")
		return cache.NewMemoryBackend(clock), nil
	}

	client := adapter.NewRedisClient(redisCfg.Addr, redisCfg.Password, redisCfg.DB)
	if err := client.Ping(ctx); err != nil {
		logger.FatalCtx(ctx, "Failed to connect to Redis", zap.Error(err), zap.String("addr", redisCfg.Addr))
	}
	logger.InfoCtx(ctx, "Using Redis read cache", zap.String("addr", redisCfg.Addr))
	return cache.NewRedisBackend(client), client
}

// newLimiter shares buckets through redis when the cache already uses it
func newLimiter(ctx context.Context, cfg config.RateLimitConfig, redisClient adapter.RedisClient, clock adapter.Clock) ratelimit.Limiter {
	if !cfg.Enabled {
		logger.WarnCtx(ctx, "Rate limiting disabled")
		return nil
	}

	limiterCfg := ratelimit.Config{RequestsPerMinute: cfg.RequestsPerMinute, Burst: cfg.Burst}
	local, err := ratelimit.NewLocalLimiter(limiterCfg, clock)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create rate limiter", zap.Error(err))
	}
	if redisClient == nil {
		return local
	}
	return ratelimit.NewRedisLimiter(limiterCfg, redisClient.NewRateLimiter(), local, clock)
}
