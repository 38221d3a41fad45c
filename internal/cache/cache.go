package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/feral-file/ff-card-indexer/internal/adapter"
	"github.com/feral-file/ff-card-indexer/internal/domain"
	"github.com/feral-file/ff-card-indexer/internal/logger"
	"github.com/feral-file/ff-card-indexer/internal/metrics"
)

const (
	DefaultTTL = 5 * time.Minute

	cardKeyPrefix = "card:"
	listKeyPrefix = "cards:list:"
)

// Config holds read cache settings
type Config struct {
	TTL time.Duration
	// KeyPrefix namespaces keys on a shared backend
	KeyPrefix string
}

// Broadcaster notifies peer instances that a card changed
type Broadcaster interface {
	Broadcast(cardID string) error
}

// ReadCache caches card reads: single cards by id and list pages by (limit, offset).
// Backend failures are logged and reported as misses.
//
// A fill must carry the Generation read before the projection was queried. Fills from
// an older generation are dropped, so a read that raced an invalidation cannot put
// pre-invalidation data back.
//
//go:generate mockgen -source=cache.go -destination=../mocks/read_cache.go -package=mocks -mock_names=ReadCache=MockReadCache,Broadcaster=MockBroadcaster
type ReadCache interface {
	Generation() uint64
	GetCard(ctx context.Context, id string) (*domain.Card, bool)
	SetCard(ctx context.Context, generation uint64, card *domain.Card)
	GetList(ctx context.Context, limit int, offset uint64) (*domain.CardPage, bool)
	SetList(ctx context.Context, generation uint64, page *domain.CardPage)

	// InvalidateCard removes the card entry and every list page before returning, then notifies peers
	InvalidateCard(ctx context.Context, id string) error
	// ApplyRemoteInvalidation removes the same entries for a peer's change without notifying again
	ApplyRemoteInvalidation(ctx context.Context, id string) error
}

type readCache struct {
	cfg         Config
	backend     Backend
	json        adapter.JSON
	metrics     *metrics.Metrics
	broadcaster Broadcaster

	// fills hold the read lock, invalidations the write lock
	mu         sync.RWMutex
	generation uint64
}

// New creates a read cache. broadcaster may be nil for single-instance deployments.
func New(cfg Config, backend Backend, json adapter.JSON, m *metrics.Metrics, broadcaster Broadcaster) ReadCache {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	return &readCache{
		cfg:         cfg,
		backend:     backend,
		json:        json,
		metrics:     m,
		broadcaster: broadcaster,
	}
}

func (c *readCache) cardKey(id string) string {
	return c.cfg.KeyPrefix + cardKeyPrefix + id
}

func (c *readCache) listPrefix() string {
	return c.cfg.KeyPrefix + listKeyPrefix
}

func (c *readCache) listKey(limit int, offset uint64) string {
	return fmt.Sprintf("%s%d:%d", c.listPrefix(), limit, offset)
}

func (c *readCache) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation
}

func (c *readCache) GetCard(ctx context.Context, id string) (*domain.Card, bool) {
	var card domain.Card
	hit := c.get(ctx, c.cardKey(id), &card)
	c.metrics.CacheLookup("point", hit)
	if !hit {
		return nil, false
	}
	return &card, true
}

func (c *readCache) SetCard(ctx context.Context, generation uint64, card *domain.Card) {
	if card == nil {
		return
	}
	c.set(ctx, generation, c.cardKey(card.ID), card)
}

func (c *readCache) GetList(ctx context.Context, limit int, offset uint64) (*domain.CardPage, bool) {
	var page domain.CardPage
	hit := c.get(ctx, c.listKey(limit, offset), &page)
	c.metrics.CacheLookup("list", hit)
	if !hit {
		return nil, false
	}
	return &page, true
}

func (c *readCache) SetList(ctx context.Context, generation uint64, page *domain.CardPage) {
	if page == nil {
		return
	}
	c.set(ctx, generation, c.listKey(page.Limit, page.Offset), page)
}

func (c *readCache) InvalidateCard(ctx context.Context, id string) error {
	if err := c.ApplyRemoteInvalidation(ctx, id); err != nil {
		return err
	}

	if c.broadcaster != nil {
		if err := c.broadcaster.Broadcast(id); err != nil {
			// peers fall back to the TTL
			logger.WarnCtx(ctx, "Failed to broadcast cache invalidation", zap.String("cardID", id), zap.Error(err))
		}
	}
	return nil
}

func (c *readCache) ApplyRemoteInvalidation(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++

	var errs []error
	if id != "" {
		if err := c.backend.Delete(ctx, []string{c.cardKey(id)}); err != nil {
			errs = append(errs, fmt.Errorf("failed to delete card entry: %w", err))
		}
	}
	if err := c.backend.DeletePrefix(ctx, c.listPrefix()); err != nil {
		errs = append(errs, fmt.Errorf("failed to delete list entries: %w", err))
	}

	if err := errors.Join(errs...); err != nil {
		logger.WarnCtx(ctx, "Cache invalidation incomplete", zap.String("cardID", id), zap.Error(err))
		return err
	}

	logger.DebugCtx(ctx, "Cache invalidated", zap.String("cardID", id))
	return nil
}

func (c *readCache) get(ctx context.Context, key string, dest interface{}) bool {
	raw, ok, err := c.backend.Get(ctx, key)
	if err != nil {
		logger.WarnCtx(ctx, "Cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if !ok {
		return false
	}

	if err := c.json.Unmarshal(raw, dest); err != nil {
		logger.WarnCtx(ctx, "Cache entry is corrupt", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (c *readCache) set(ctx context.Context, generation uint64, key string, value interface{}) {
	raw, err := c.json.Marshal(value)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to encode cache entry", zap.String("key", key), zap.Error(err))
		return
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if generation != c.generation {
		logger.DebugCtx(ctx, "Dropping cache fill older than the last invalidation", zap.String("key", key))
		return
	}

	if err := c.backend.Set(ctx, key, raw, c.cfg.TTL); err != nil {
		logger.WarnCtx(ctx, "Cache write failed", zap.String("key", key), zap.Error(err))
	}
}
