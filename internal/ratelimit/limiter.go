package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis_rate/v10"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/feral-file/ff-card-indexer/internal/adapter"
	"github.com/feral-file/ff-card-indexer/internal/logger"
)

const (
	DefaultRequestsPerMinute = 30
	DefaultBurst             = 5
	DefaultLocalKeys         = 10000
	DefaultKeyPrefix         = "ff-card:ratelimit:"

	// redisRetryInterval is how long the distributed limiter is skipped after a redis error
	redisRetryInterval = 30 * time.Second
)

// Config holds per-key rate limit settings
type Config struct {
	RequestsPerMinute int
	Burst             int
	// LocalKeys bounds how many per-key limiters the local limiter remembers
	LocalKeys int
	KeyPrefix string
}

func (c *Config) applyDefaults() {
	if c.RequestsPerMinute <= 0 {
		c.RequestsPerMinute = DefaultRequestsPerMinute
	}
	if c.Burst <= 0 {
		c.Burst = DefaultBurst
	}
	if c.LocalKeys <= 0 {
		c.LocalKeys = DefaultLocalKeys
	}
	if c.KeyPrefix == "" {
		c.KeyPrefix = DefaultKeyPrefix
	}
}

// Decision is the outcome of one admission check
type Decision struct {
	Allowed    bool
	RetryAfter time.Duration
}

// Limiter admits or rejects one request for a key without blocking
//
//go:generate mockgen -source=limiter.go -destination=../mocks/ratelimit.go -package=mocks -mock_names=Limiter=MockLimiter
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

type localLimiter struct {
	cfg      Config
	clock    adapter.Clock
	mu       sync.Mutex
	limiters *lru.Cache[string, *rate.Limiter]
}

// NewLocalLimiter creates an in-process token bucket per key.
// Least recently used keys are forgotten once LocalKeys is exceeded.
func NewLocalLimiter(cfg Config, clock adapter.Clock) (Limiter, error) {
	cfg.applyDefaults()
	cache, err := lru.New[string, *rate.Limiter](cfg.LocalKeys)
	if err != nil {
		return nil, fmt.Errorf("failed to create limiter cache: %w", err)
	}
	return &localLimiter{cfg: cfg, clock: clock, limiters: cache}, nil
}

func (l *localLimiter) Allow(_ context.Context, key string) (Decision, error) {
	l.mu.Lock()
	limiter, ok := l.limiters.Get(key)
	if !ok {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.cfg.RequestsPerMinute)), l.cfg.Burst)
		l.limiters.Add(key, limiter)
	}
	l.mu.Unlock()

	now := l.clock.Now()
	r := limiter.ReserveN(now, 1)
	if !r.OK() {
		return Decision{}, nil
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return Decision{RetryAfter: delay}, nil
	}
	return Decision{Allowed: true}, nil
}

type redisLimiter struct {
	cfg         Config
	distributed adapter.RedisRateLimiter
	fallback    Limiter
	clock       adapter.Clock
	// skipUntil holds unix nanos until which redis is bypassed
	skipUntil atomic.Int64
}

// NewRedisLimiter shares buckets across instances through redis.
// While redis fails, requests are decided by fallback instead.
func NewRedisLimiter(cfg Config, distributed adapter.RedisRateLimiter, fallback Limiter, clock adapter.Clock) Limiter {
	cfg.applyDefaults()
	return &redisLimiter{cfg: cfg, distributed: distributed, fallback: fallback, clock: clock}
}

func (l *redisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	if l.clock.Now().UnixNano() < l.skipUntil.Load() {
		return l.fallback.Allow(ctx, key)
	}

	limit := redis_rate.Limit{
		Rate:   l.cfg.RequestsPerMinute,
		Burst:  l.cfg.Burst,
		Period: time.Minute,
	}
	res, err := l.distributed.Allow(ctx, l.cfg.KeyPrefix+key, limit)
	if err != nil {
		if ctx.Err() != nil {
			return Decision{}, ctx.Err()
		}
		l.skipUntil.Store(l.clock.Now().Add(redisRetryInterval).UnixNano())
		logger.WarnCtx(ctx, "Redis rate limiter error, falling back to local", zap.Error(err))
		return l.fallback.Allow(ctx, key)
	}

	if res.Allowed == 0 {
		return Decision{RetryAfter: res.RetryAfter}, nil
	}
	return Decision{Allowed: true}, nil
}
