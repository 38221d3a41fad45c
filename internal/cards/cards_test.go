package cards_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/feral-file/ff-card-indexer/internal/adapter"
	"github.com/feral-file/ff-card-indexer/internal/cache"
	"github.com/feral-file/ff-card-indexer/internal/cards"
	"github.com/feral-file/ff-card-indexer/internal/domain"
	"github.com/feral-file/ff-card-indexer/internal/mocks"
	"github.com/feral-file/ff-card-indexer/internal/store/schema"
)

type testCardMocks struct {
	store   *mocks.MockStore
	cache   *mocks.MockReadCache
	service cards.Service
}

func setupTest(t *testing.T) *testCardMocks {
	ctrl := gomock.NewController(t)
	tm := &testCardMocks{
		store: mocks.NewMockStore(ctrl),
		cache: mocks.NewMockReadCache(ctrl),
	}
	tm.service = cards.NewService(tm.store, tm.cache, adapter.NewJSON())
	tm.cache.EXPECT().Generation().Return(uint64(3)).AnyTimes()
	return tm
}

func row(id string) schema.Card {
	tokenID := "7"
	return schema.Card{
		ID:         id,
		UserID:     "user-1",
		TokenOwner: "0xaa",
		TokenID:    &tokenID,
		Nickname:   "alice",
		Socials:    datatypes.JSON(`{"twitter":{"handle":"alice","verified":true}}`),
	}
}

func TestGetCard_CacheHit(t *testing.T) {
	tm := setupTest(t)
	ctx := context.Background()

	cached := &domain.Card{ID: "card-1"}
	tm.cache.EXPECT().GetCard(ctx, "card-1").Return(cached, true)

	card, err := tm.service.GetCard(ctx, "card-1")
	require.NoError(t, err)
	assert.Same(t, cached, card)
}

func TestGetCard_MissFillsCache(t *testing.T) {
	tm := setupTest(t)
	ctx := context.Background()

	r := row("card-1")
	tm.cache.EXPECT().GetCard(ctx, "card-1").Return(nil, false)
	tm.store.EXPECT().GetCardByID(ctx, "card-1").Return(&r, nil)
	tm.cache.EXPECT().SetCard(ctx, uint64(3), gomock.Any()).Do(func(_ context.Context, _ uint64, card *domain.Card) {
		assert.Equal(t, "7", card.TokenID)
	})

	card, err := tm.service.GetCard(ctx, "card-1")
	require.NoError(t, err)
	assert.True(t, card.Minted())
	assert.Equal(t, domain.SocialAccount{Handle: "alice", Verified: true}, card.Socials["twitter"])
}

func TestGetCard_InvalidationDuringRead(t *testing.T) {
	ctrl := gomock.NewController(t)
	st := mocks.NewMockStore(ctrl)
	rc := cache.New(cache.Config{}, cache.NewMemoryBackend(adapter.NewClock()), adapter.NewJSON(), nil, nil)
	service := cards.NewService(st, rc, adapter.NewJSON())
	ctx := context.Background()

	before := row("card-1")
	after := row("card-1")
	after.Nickname = "alice-edited"

	gomock.InOrder(
		// the edit handler commits and invalidates while this read is in flight
		st.EXPECT().GetCardByID(ctx, "card-1").DoAndReturn(func(ctx context.Context, _ string) (*schema.Card, error) {
			require.NoError(t, rc.InvalidateCard(ctx, "card-1"))
			return &before, nil
		}),
		st.EXPECT().GetCardByID(ctx, "card-1").Return(&after, nil),
	)

	card, err := service.GetCard(ctx, "card-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", card.Nickname)

	card, err = service.GetCard(ctx, "card-1")
	require.NoError(t, err)
	assert.Equal(t, "alice-edited", card.Nickname)

	// the fresh read is cached
	card, err = service.GetCard(ctx, "card-1")
	require.NoError(t, err)
	assert.Equal(t, "alice-edited", card.Nickname)
}

func TestGetCard_NotFound(t *testing.T) {
	tm := setupTest(t)
	ctx := context.Background()

	tm.cache.EXPECT().GetCard(ctx, "nope").Return(nil, false)
	tm.store.EXPECT().GetCardByID(ctx, "nope").Return(nil, nil)

	_, err := tm.service.GetCard(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrCardNotFound)
}

func TestListCards(t *testing.T) {
	tm := setupTest(t)
	ctx := context.Background()

	tm.cache.EXPECT().GetList(ctx, cards.DefaultLimit, uint64(0)).Return(nil, false)
	tm.store.EXPECT().ListCards(ctx, cards.DefaultLimit, uint64(0)).Return([]schema.Card{row("a"), row("b")}, uint64(12), nil)
	tm.cache.EXPECT().SetList(ctx, uint64(3), gomock.Any())

	page, err := tm.service.ListCards(ctx, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(12), page.Total)
	assert.Equal(t, cards.DefaultLimit, page.Limit)
	require.Len(t, page.Cards, 2)
	assert.Equal(t, "b", page.Cards[1].ID)
}

func TestListCards_CacheHitAndStoreError(t *testing.T) {
	tm := setupTest(t)
	ctx := context.Background()

	cached := &domain.CardPage{Limit: cards.MaxLimit, Offset: 100}
	tm.cache.EXPECT().GetList(ctx, cards.MaxLimit, uint64(100)).Return(cached, true)
	page, err := tm.service.ListCards(ctx, 500, 100)
	require.NoError(t, err)
	assert.Same(t, cached, page)

	tm.cache.EXPECT().GetList(ctx, 10, uint64(0)).Return(nil, false)
	tm.store.EXPECT().ListCards(ctx, 10, uint64(0)).Return(nil, uint64(0), errors.New("timeout"))
	_, err = tm.service.ListCards(ctx, 10, 0)
	assert.Error(t, err)
}

func TestToDomainCard_Draft(t *testing.T) {
	card, err := cards.ToDomainCard(&schema.Card{ID: "draft"}, adapter.NewJSON())
	require.NoError(t, err)
	assert.False(t, card.Minted())
	assert.Empty(t, card.Socials)

	_, err = cards.ToDomainCard(&schema.Card{ID: "bad", Socials: datatypes.JSON(`[`)}, adapter.NewJSON())
	assert.Error(t, err)
}
