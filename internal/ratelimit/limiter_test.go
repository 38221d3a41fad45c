package ratelimit_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-card-indexer/internal/logger"
	"github.com/feral-file/ff-card-indexer/internal/mocks"
	"github.com/feral-file/ff-card-indexer/internal/ratelimit"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: false}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// fakeClock is advanced by hand
type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time                         { return c.now }
func (c *fakeClock) Since(t time.Time) time.Duration        { return c.now.Sub(t) }
func (c *fakeClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

func TestLocalLimiter(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	limiter, err := ratelimit.NewLocalLimiter(ratelimit.Config{RequestsPerMinute: 60, Burst: 2}, clock)
	require.NoError(t, err)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		d, err := limiter.Allow(ctx, "0xaa")
		require.NoError(t, err)
		assert.True(t, d.Allowed, "burst request %d", i)
	}

	d, err := limiter.Allow(ctx, "0xaa")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, time.Second, d.RetryAfter)

	// Other keys have their own bucket
	d, err = limiter.Allow(ctx, "0xbb")
	require.NoError(t, err)
	assert.True(t, d.Allowed)

	// A rejected request does not consume a token
	clock.now = clock.now.Add(time.Second)
	d, err = limiter.Allow(ctx, "0xaa")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestLocalLimiter_ForgetsOldKeys(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	limiter, err := ratelimit.NewLocalLimiter(ratelimit.Config{RequestsPerMinute: 1, Burst: 1, LocalKeys: 1}, clock)
	require.NoError(t, err)
	ctx := context.Background()

	d, _ := limiter.Allow(ctx, "0xaa")
	assert.True(t, d.Allowed)
	d, _ = limiter.Allow(ctx, "0xbb")
	assert.True(t, d.Allowed)

	// 0xaa was evicted by 0xbb and starts with a full bucket again
	d, _ = limiter.Allow(ctx, "0xaa")
	assert.True(t, d.Allowed)
}

func TestRedisLimiter(t *testing.T) {
	expectedLimit := redis_rate.Limit{Rate: 30, Burst: 5, Period: time.Minute}

	t.Run("allowed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		distributed := mocks.NewMockRedisRateLimiter(ctrl)
		fallback := mocks.NewMockLimiter(ctrl)
		clock := &fakeClock{now: time.Unix(1700000000, 0)}
		limiter := ratelimit.NewRedisLimiter(ratelimit.Config{}, distributed, fallback, clock)

		distributed.EXPECT().Allow(gomock.Any(), "ff-card:ratelimit:0xaa", expectedLimit).
			Return(&redis_rate.Result{Allowed: 1, Remaining: 4}, nil)

		d, err := limiter.Allow(context.Background(), "0xaa")
		require.NoError(t, err)
		assert.True(t, d.Allowed)
	})

	t.Run("rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		distributed := mocks.NewMockRedisRateLimiter(ctrl)
		fallback := mocks.NewMockLimiter(ctrl)
		clock := &fakeClock{now: time.Unix(1700000000, 0)}
		limiter := ratelimit.NewRedisLimiter(ratelimit.Config{}, distributed, fallback, clock)

		distributed.EXPECT().Allow(gomock.Any(), "ff-card:ratelimit:0xaa", expectedLimit).
			Return(&redis_rate.Result{Allowed: 0, RetryAfter: 2 * time.Second}, nil)

		d, err := limiter.Allow(context.Background(), "0xaa")
		require.NoError(t, err)
		assert.False(t, d.Allowed)
		assert.Equal(t, 2*time.Second, d.RetryAfter)
	})

	t.Run("falls back while redis is failing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		distributed := mocks.NewMockRedisRateLimiter(ctrl)
		fallback := mocks.NewMockLimiter(ctrl)
		clock := &fakeClock{now: time.Unix(1700000000, 0)}
		limiter := ratelimit.NewRedisLimiter(ratelimit.Config{}, distributed, fallback, clock)

		distributed.EXPECT().Allow(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errors.New("connection refused"))
		fallback.EXPECT().Allow(gomock.Any(), "0xaa").Return(ratelimit.Decision{Allowed: true}, nil).Times(2)

		d, err := limiter.Allow(context.Background(), "0xaa")
		require.NoError(t, err)
		assert.True(t, d.Allowed)

		// Redis is skipped until the retry interval passes
		d, err = limiter.Allow(context.Background(), "0xaa")
		require.NoError(t, err)
		assert.True(t, d.Allowed)

		clock.now = clock.now.Add(time.Minute)
		distributed.EXPECT().Allow(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&redis_rate.Result{Allowed: 1}, nil)
		d, err = limiter.Allow(context.Background(), "0xaa")
		require.NoError(t, err)
		assert.True(t, d.Allowed)
	})
}
