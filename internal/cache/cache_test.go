package cache_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-card-indexer/internal/adapter"
	"github.com/feral-file/ff-card-indexer/internal/cache"
	"github.com/feral-file/ff-card-indexer/internal/domain"
	"github.com/feral-file/ff-card-indexer/internal/logger"
	"github.com/feral-file/ff-card-indexer/internal/mocks"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: false}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// fakeClock is moved forward manually
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time                         { return c.now }
func (c *fakeClock) Since(t time.Time) time.Duration        { return c.now.Sub(t) }
func (c *fakeClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func TestMemoryBackend_TTL(t *testing.T) {
	clock := newClock()
	backend := cache.NewMemoryBackend(clock)
	ctx := context.Background()

	require.NoError(t, backend.Set(ctx, "k", []byte("v"), time.Minute))

	value, ok, err := backend.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), value)

	clock.now = clock.now.Add(59 * time.Second)
	_, ok, _ = backend.Get(ctx, "k")
	assert.True(t, ok)

	clock.now = clock.now.Add(time.Second)
	_, ok, _ = backend.Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemoryBackend_DeletePrefix(t *testing.T) {
	backend := cache.NewMemoryBackend(newClock())
	ctx := context.Background()

	for _, k := range []string{"cards:list:20:0", "cards:list:20:20", "card:1"} {
		require.NoError(t, backend.Set(ctx, k, []byte("x"), time.Minute))
	}

	require.NoError(t, backend.DeletePrefix(ctx, "cards:list:"))

	_, ok, _ := backend.Get(ctx, "cards:list:20:0")
	assert.False(t, ok)
	_, ok, _ = backend.Get(ctx, "cards:list:20:20")
	assert.False(t, ok)
	_, ok, _ = backend.Get(ctx, "card:1")
	assert.True(t, ok)
}

func TestRedisBackend(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockRedisClient(ctrl)
	backend := cache.NewRedisBackend(client)
	ctx := context.Background()

	client.EXPECT().Get(ctx, "card:1").Return([]byte("x"), true, nil)
	value, ok, err := backend.Get(ctx, "card:1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("x"), value)

	client.EXPECT().Set(ctx, "card:1", []byte("y"), time.Minute).Return(nil)
	require.NoError(t, backend.Set(ctx, "card:1", []byte("y"), time.Minute))

	gomock.InOrder(
		client.EXPECT().Keys(ctx, "ff:cards:list:*").Return([]string{"ff:cards:list:20:0"}, nil),
		client.EXPECT().Del(ctx, []string{"ff:cards:list:20:0"}).Return(nil),
	)
	require.NoError(t, backend.DeletePrefix(ctx, "ff:cards:list:"))

	client.EXPECT().Keys(ctx, "cards:list:*").Return(nil, errors.New("connection reset"))
	assert.Error(t, backend.DeletePrefix(ctx, "cards:list:"))
}

func sampleCard(id string) *domain.Card {
	return &domain.Card{
		ID:         id,
		UserID:     "user-" + id,
		TokenOwner: "0x00000000000000000000000000000000000000aa",
		TokenID:    "7",
		Nickname:   "alice",
		Socials:    domain.Socials{"twitter": {Handle: "alice", Verified: true}},
	}
}

func TestReadCache_PointAndList(t *testing.T) {
	c := cache.New(cache.Config{}, cache.NewMemoryBackend(newClock()), adapter.NewJSON(), nil, nil)
	ctx := context.Background()

	_, ok := c.GetCard(ctx, "1")
	assert.False(t, ok)

	c.SetCard(ctx, c.Generation(), sampleCard("1"))
	card, ok := c.GetCard(ctx, "1")
	require.True(t, ok)
	assert.Equal(t, "alice", card.Nickname)
	assert.True(t, card.Socials["twitter"].Verified)

	page := &domain.CardPage{Cards: []domain.Card{*sampleCard("1")}, Total: 1, Limit: 20, Offset: 0}
	c.SetList(ctx, c.Generation(), page)

	got, ok := c.GetList(ctx, 20, 0)
	require.True(t, ok)
	assert.Equal(t, uint64(1), got.Total)
	require.Len(t, got.Cards, 1)

	_, ok = c.GetList(ctx, 20, 20)
	assert.False(t, ok)
}

func TestReadCache_ExpiresAfterTTL(t *testing.T) {
	clock := newClock()
	c := cache.New(cache.Config{}, cache.NewMemoryBackend(clock), adapter.NewJSON(), nil, nil)
	ctx := context.Background()

	c.SetCard(ctx, c.Generation(), sampleCard("1"))
	clock.now = clock.now.Add(cache.DefaultTTL)

	_, ok := c.GetCard(ctx, "1")
	assert.False(t, ok)
}

func TestReadCache_InvalidateCard(t *testing.T) {
	ctrl := gomock.NewController(t)
	broadcaster := mocks.NewMockBroadcaster(ctrl)
	c := cache.New(cache.Config{}, cache.NewMemoryBackend(newClock()), adapter.NewJSON(), nil, broadcaster)
	ctx := context.Background()

	c.SetCard(ctx, c.Generation(), sampleCard("1"))
	c.SetCard(ctx, c.Generation(), sampleCard("2"))
	c.SetList(ctx, c.Generation(), &domain.CardPage{Limit: 20, Offset: 0})
	c.SetList(ctx, c.Generation(), &domain.CardPage{Limit: 10, Offset: 30})

	broadcaster.EXPECT().Broadcast("1").Return(nil)
	require.NoError(t, c.InvalidateCard(ctx, "1"))

	_, ok := c.GetCard(ctx, "1")
	assert.False(t, ok)
	_, ok = c.GetList(ctx, 20, 0)
	assert.False(t, ok)
	_, ok = c.GetList(ctx, 10, 30)
	assert.False(t, ok)

	// other cards stay cached
	_, ok = c.GetCard(ctx, "2")
	assert.True(t, ok)
}

func TestReadCache_DropsFillsFromBeforeInvalidation(t *testing.T) {
	c := cache.New(cache.Config{}, cache.NewMemoryBackend(newClock()), adapter.NewJSON(), nil, nil)
	ctx := context.Background()

	generation := c.Generation()
	require.NoError(t, c.ApplyRemoteInvalidation(ctx, "1"))

	c.SetCard(ctx, generation, sampleCard("1"))
	c.SetList(ctx, generation, &domain.CardPage{Limit: 20, Offset: 0})

	_, ok := c.GetCard(ctx, "1")
	assert.False(t, ok)
	_, ok = c.GetList(ctx, 20, 0)
	assert.False(t, ok)

	c.SetCard(ctx, c.Generation(), sampleCard("1"))
	_, ok = c.GetCard(ctx, "1")
	assert.True(t, ok)
}

func TestReadCache_BroadcastFailureIsNotFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	broadcaster := mocks.NewMockBroadcaster(ctrl)
	c := cache.New(cache.Config{}, cache.NewMemoryBackend(newClock()), adapter.NewJSON(), nil, broadcaster)

	broadcaster.EXPECT().Broadcast("1").Return(errors.New("nats: connection closed"))
	assert.NoError(t, c.InvalidateCard(context.Background(), "1"))
}

func TestReadCache_ApplyRemoteInvalidationDoesNotRebroadcast(t *testing.T) {
	ctrl := gomock.NewController(t)
	broadcaster := mocks.NewMockBroadcaster(ctrl)
	c := cache.New(cache.Config{}, cache.NewMemoryBackend(newClock()), adapter.NewJSON(), nil, broadcaster)
	ctx := context.Background()

	c.SetCard(ctx, c.Generation(), sampleCard("1"))
	require.NoError(t, c.ApplyRemoteInvalidation(ctx, "1"))

	_, ok := c.GetCard(ctx, "1")
	assert.False(t, ok)
}

func TestReadCache_BackendErrorsAreMisses(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockCacheBackend(ctrl)
	c := cache.New(cache.Config{KeyPrefix: "ff:", TTL: time.Minute}, backend, adapter.NewJSON(), nil, nil)
	ctx := context.Background()

	backend.EXPECT().Get(ctx, "ff:card:1").Return(nil, false, errors.New("timeout"))
	_, ok := c.GetCard(ctx, "1")
	assert.False(t, ok)

	backend.EXPECT().Get(ctx, "ff:cards:list:20:0").Return([]byte("{not json"), true, nil)
	_, ok = c.GetList(ctx, 20, 0)
	assert.False(t, ok)

	backend.EXPECT().Set(ctx, "ff:card:1", gomock.Any(), time.Minute).Return(errors.New("timeout"))
	assert.NotPanics(t, func() { c.SetCard(ctx, c.Generation(), sampleCard("1")) })

	backend.EXPECT().Delete(ctx, []string{"ff:card:1"}).Return(nil)
	backend.EXPECT().DeletePrefix(ctx, "ff:cards:list:").Return(errors.New("timeout"))
	assert.Error(t, c.InvalidateCard(ctx, "1"))
}
