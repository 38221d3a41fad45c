package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/feral-file/ff-card-indexer/internal/adapter"
	"github.com/feral-file/ff-card-indexer/internal/cache"
	"github.com/feral-file/ff-card-indexer/internal/config"
	"github.com/feral-file/ff-card-indexer/internal/handlers"
	"github.com/feral-file/ff-card-indexer/internal/indexer"
	"github.com/feral-file/ff-card-indexer/internal/logger"
	"github.com/feral-file/ff-card-indexer/internal/providers/ethereum"
	"github.com/feral-file/ff-card-indexer/internal/providers/ipfs"
	"github.com/feral-file/ff-card-indexer/internal/store"
	"github.com/feral-file/ff-card-indexer/internal/sweeper"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
	once       = flag.Bool("once", false, "Run a single reprocess cycle and exit")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadReprocessorConfig(*configFile, *envPath)
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
			"service": "card-reprocessor",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting card event reprocessor", zap.Bool("once", *once))

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err), zap.String("host", cfg.Database.Host))
	}
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	dataStore := store.NewPGStore(db)

	// Initialize adapters
	jsonAdapter := adapter.NewJSON()
	clock := adapter.NewClock()

	rpcClient, err := adapter.NewEthClientDialer().Dial(ctx, cfg.Ethereum.RPCURL)
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

	artifacts := ipfs.NewClient(ipfs.Config{
		APIURL:                cfg.Pinata.APIURL,
		UploadURL:             cfg.Pinata.UploadURL,
		JWT:                   cfg.Pinata.JWT,
		Gateway:               cfg.Pinata.Gateway,
		UploadMaxAttempts:     cfg.Pinata.UploadMaxAttempts,
		UploadInitialInterval: cfg.Pinata.UploadInitialInterval,
		PruneConcurrency:      cfg.Pinata.PruneConcurrency,
	}, adapter.NewHTTPClient(cfg.Pinata.HTTPTimeout))

	// Replayed handlers invalidate the shared cache; API instances hear about it over NATS
	var backend cache.Backend
	if cfg.Cache.Backend == config.CacheBackendRedis {
		redisClient := adapter.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := redisClient.Ping(ctx); err != nil {
			logger.FatalCtx(ctx, "Failed to connect to Redis", zap.Error(err), zap.String("addr", cfg.Redis.Addr))
		}
		defer func() { _ = redisClient.Close() }()
		backend = cache.NewRedisBackend(redisClient)
	} else {
		backend = cache.NewMemoryBackend(clock)
	}

	var broadcaster cache.Broadcaster
	if cfg.NATS.URL != "" {
		natsConn, err := adapter.NewNatsConnector().Connect(cfg.NATS.URL,
			nats.Name(cfg.NATS.ConnectionName),
			nats.MaxReconnects(cfg.NATS.MaxReconnects),
			nats.ReconnectWait(cfg.NATS.ReconnectWait),
		)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to connect to NATS", zap.Error(err))
		}
		defer func() { _ = natsConn.Drain() }()
		broadcaster = cache.NewInvalidationBus(natsConn, cfg.NATS.Subject, jsonAdapter)
	}
	readCache := cache.New(cache.Config{TTL: cfg.Cache.TTL, KeyPrefix: cfg.Cache.KeyPrefix}, backend, jsonAdapter, nil, broadcaster)

	dispatcher := handlers.NewDispatcher(dataStore, cardClient, artifacts, readCache)
	processor := indexer.NewProcessor(dataStore, dispatcher, jsonAdapter, nil)
	reprocessor := sweeper.NewReprocessSweeper(sweeper.ReprocessConfig{
		Interval:  cfg.Reprocess.Interval,
		BatchSize: cfg.Reprocess.BatchSize,
	}, dataStore, processor, clock)

	if *once {
		stats, err := reprocessor.RunOnce(ctx)
		if err != nil {
			logger.FatalCtx(ctx, "Reprocess cycle failed", zap.Error(err))
		}
		logger.InfoCtx(ctx, "Reprocess cycle finished",
			zap.Int("scanned", stats.Scanned),
			zap.Int("processed", stats.Processed),
			zap.Int("failed", stats.Failed),
		)
		return
	}

	errCh := make(chan error, 1)
	go func() {
		if err := reprocessor.Start(ctx); err != nil {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", reprocessor.Name()))
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := reprocessor.Stop(shutdownCtx); err != nil {
		logger.ErrorCtx(shutdownCtx, err, zap.String("component", reprocessor.Name()))
	}

	logger.Info("Reprocessor stopped")
}
