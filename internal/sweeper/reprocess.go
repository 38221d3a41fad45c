package sweeper

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/feral-file/ff-card-indexer/internal/adapter"
	"github.com/feral-file/ff-card-indexer/internal/domain"
	"github.com/feral-file/ff-card-indexer/internal/indexer"
	"github.com/feral-file/ff-card-indexer/internal/logger"
	"github.com/feral-file/ff-card-indexer/internal/store"
)

const (
	DefaultReprocessInterval  = time.Minute
	DefaultReprocessBatchSize = 100
)

// ReprocessConfig holds configuration for the reprocess sweeper
type ReprocessConfig struct {
	Interval  time.Duration // Time to sleep between sweep cycles
	BatchSize int           // Events fetched per page
}

// CycleStats summarises one pass over the unprocessed events
type CycleStats struct {
	Scanned   int
	Processed int
	Failed    int
}

// reprocessSweeper replays stored events whose handler failed
type reprocessSweeper struct {
	config    ReprocessConfig
	store     store.Store
	processor indexer.Processor
	clock     adapter.Clock
	running   atomic.Bool
	stopChan  chan struct{}
	stoppedCh chan struct{}
}

// ReprocessSweeper is a Sweeper that can also run a single cycle
type ReprocessSweeper interface {
	Sweeper

	// RunOnce replays every unprocessed event once, oldest first
	RunOnce(ctx context.Context) (CycleStats, error)
}

// NewReprocessSweeper creates a sweeper sharing the live indexer's processor
func NewReprocessSweeper(config ReprocessConfig, st store.Store, processor indexer.Processor, clock adapter.Clock) ReprocessSweeper {
	if config.Interval <= 0 {
		config.Interval = DefaultReprocessInterval
	}
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultReprocessBatchSize
	}

	return &reprocessSweeper{
		config:    config,
		store:     st,
		processor: processor,
		clock:     clock,
		stopChan:  make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

// Name returns the sweeper's name
func (s *reprocessSweeper) Name() string {
	return "reprocess-sweeper"
}

// Start runs sweep cycles until the context is canceled or Stop is called
func (s *reprocessSweeper) Start(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return fmt.Errorf("sweeper already running")
	}
	defer func() {
		s.running.Store(false)
		close(s.stoppedCh)
	}()

	logger.InfoCtx(ctx, "Starting reprocess sweeper",
		zap.Duration("interval", s.config.Interval),
		zap.Int("batch_size", s.config.BatchSize),
	)

	for {
		if _, err := s.RunOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.ErrorCtx(ctx, err)
		}

		if !s.sleep(ctx, s.config.Interval) {
			logger.InfoCtx(ctx, "Reprocess sweeper stopped")
			return nil
		}
	}
}

// Stop gracefully stops the sweeper with timeout support
func (s *reprocessSweeper) Stop(ctx context.Context) error {
	if !s.running.Load() {
		return nil
	}

	logger.InfoCtx(ctx, "Stopping reprocess sweeper")
	select {
	case <-s.stopChan:
	default:
		close(s.stopChan)
	}

	select {
	case <-s.stoppedCh:
		return nil
	case <-ctx.Done():
		logger.WarnCtx(ctx, "Reprocess sweeper stop interrupted by context timeout")
		return ctx.Err()
	}
}

func (s *reprocessSweeper) RunOnce(ctx context.Context) (CycleStats, error) {
	var stats CycleStats
	startTime := s.clock.Now()

	names := s.processor.Names()
	if len(names) == 0 {
		return stats, nil
	}

	// afterID pages past events that fail again in this cycle
	var afterID uint64
	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		events, err := s.store.GetUnprocessedChainEvents(ctx, names, afterID, s.config.BatchSize)
		if err != nil {
			return stats, fmt.Errorf("failed to get unprocessed events: %w", err)
		}

		for i := range events {
			event := &events[i]
			afterID = event.ID
			stats.Scanned++

			if err := s.processor.Process(ctx, event); err != nil {
				stats.Failed++
				var procErr *domain.EventProcessingError
				if !errors.As(err, &procErr) {
					// processor already logs handler failures
					logger.WarnCtx(ctx, "Failed to reprocess event", zap.Uint64("id", event.ID), zap.Error(err))
				}
				continue
			}
			stats.Processed++
		}

		if len(events) < s.config.BatchSize {
			break
		}
	}

	if stats.Scanned > 0 {
		logger.InfoCtx(ctx, "Reprocess cycle completed",
			zap.Int("scanned", stats.Scanned),
			zap.Int("processed", stats.Processed),
			zap.Int("failed", stats.Failed),
			zap.Duration("duration", s.clock.Since(startTime)),
		)
	}
	return stats, nil
}

// sleep waits for duration; false means the sweeper should exit
func (s *reprocessSweeper) sleep(ctx context.Context, duration time.Duration) bool {
	select {
	case <-s.clock.After(duration):
		return true
	case <-ctx.Done():
		return false
	case <-s.stopChan:
		return false
	}
}
