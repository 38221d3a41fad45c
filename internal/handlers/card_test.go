package handlers_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-card-indexer/internal/domain"
	"github.com/feral-file/ff-card-indexer/internal/handlers"
	"github.com/feral-file/ff-card-indexer/internal/logger"
	"github.com/feral-file/ff-card-indexer/internal/mocks"
	"github.com/feral-file/ff-card-indexer/internal/store"
	"github.com/feral-file/ff-card-indexer/internal/store/schema"
)

const (
	ownerAddr = "0x00000000000000000000000000000000000000aa"
	newCID    = "bafybeigdyrzt5sfp7udm7hu76uh7y26nf3efuylqabf3oclgtqy55fbzdi"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: false}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type testHandlerMocks struct {
	ctrl       *gomock.Controller
	store      *mocks.MockStore
	chain      *mocks.MockCardClient
	artifacts  *mocks.MockIPFSClient
	cache      *mocks.MockReadCache
	dispatcher handlers.Dispatcher
}

func setupTest(t *testing.T) *testHandlerMocks {
	ctrl := gomock.NewController(t)
	tm := &testHandlerMocks{
		ctrl:      ctrl,
		store:     mocks.NewMockStore(ctrl),
		chain:     mocks.NewMockCardClient(ctrl),
		artifacts: mocks.NewMockIPFSClient(ctrl),
		cache:     mocks.NewMockReadCache(ctrl),
	}
	tm.dispatcher = handlers.NewDispatcher(tm.store, tm.chain, tm.artifacts, tm.cache)
	return tm
}

func chainEvent(args domain.EventArgs) *domain.ChainEvent {
	return &domain.ChainEvent{
		ID:          1,
		TxHash:      "0xabc",
		LogIndex:    2,
		BlockNumber: 100,
		Args:        args,
	}
}

func tokenID(s string) *string { return &s }

func TestDispatcher_Names(t *testing.T) {
	tm := setupTest(t)

	assert.ElementsMatch(t, domain.KnownEventNames, tm.dispatcher.Names())
	assert.False(t, tm.dispatcher.Handles(domain.EventUnknown))

	err := tm.dispatcher.Dispatch(context.Background(), chainEvent(domain.UnknownArgs{Topic: "0x01"}))
	assert.ErrorIs(t, err, handlers.ErrNoHandler)
}

func TestMintCard(t *testing.T) {
	tm := setupTest(t)
	ctx := context.Background()

	metadata := &domain.CardMetadata{
		CardFields: domain.CardFields{ImageURI: "ipfs://" + newCID, Nickname: "alice", Role: "builder", Bio: "gm"},
		Socials:    []domain.SocialEntry{{Key: "twitter", Value: "alice"}},
	}
	card := &schema.Card{ID: "card-1", UserID: "user-1", TokenID: tokenID("7"), TokenOwner: ownerAddr}

	gomock.InOrder(
		tm.store.EXPECT().ResolveUserIDByAddress(ctx, ownerAddr).Return("user-1", nil),
		tm.chain.EXPECT().ReadCardMetadata(ctx, "7").Return(metadata, nil),
		tm.store.EXPECT().SyncCardFromChain(ctx, store.SyncCardFromChainInput{
			UserID:     "user-1",
			TokenOwner: ownerAddr,
			TokenID:    "7",
			Metadata:   metadata,
		}).Return(card, nil),
		tm.store.EXPECT().MarkQuestClaimable(ctx, "user-1", domain.QUEST_KEY_MINT).Return(nil),
		tm.cache.EXPECT().InvalidateCard(ctx, "card-1").Return(nil),
	)

	// the event carries the checksummed form
	err := tm.dispatcher.Dispatch(ctx, chainEvent(domain.MintCardArgs{User: "0x00000000000000000000000000000000000000AA", TokenID: "7"}))
	require.NoError(t, err)
}

func TestMintCard_MetadataUnavailableKeepsDraft(t *testing.T) {
	tm := setupTest(t)
	ctx := context.Background()

	card := &schema.Card{ID: "card-1", UserID: "user-1", TokenID: tokenID("7")}

	tm.store.EXPECT().ResolveUserIDByAddress(ctx, ownerAddr).Return("user-1", nil)
	tm.chain.EXPECT().ReadCardMetadata(ctx, "7").Return(nil, &domain.TransportError{Op: "tokenURI", Err: errors.New("timeout")})
	tm.store.EXPECT().SyncCardFromChain(ctx, store.SyncCardFromChainInput{
		UserID:     "user-1",
		TokenOwner: ownerAddr,
		TokenID:    "7",
	}).Return(card, nil)
	tm.store.EXPECT().MarkQuestClaimable(ctx, "user-1", domain.QUEST_KEY_MINT).Return(nil)
	tm.cache.EXPECT().InvalidateCard(ctx, "card-1").Return(nil)

	require.NoError(t, tm.dispatcher.Dispatch(ctx, chainEvent(domain.MintCardArgs{User: ownerAddr, TokenID: "7"})))
}

func TestMintCard_UnknownWalletSkipsQuest(t *testing.T) {
	tm := setupTest(t)
	ctx := context.Background()

	tm.store.EXPECT().ResolveUserIDByAddress(ctx, ownerAddr).Return("", nil)
	tm.chain.EXPECT().ReadCardMetadata(ctx, "7").Return(&domain.CardMetadata{}, nil)
	tm.store.EXPECT().SyncCardFromChain(ctx, gomock.Any()).Return(&schema.Card{ID: "card-1", UserID: ownerAddr}, nil)
	tm.cache.EXPECT().InvalidateCard(ctx, "card-1").Return(nil)

	require.NoError(t, tm.dispatcher.Dispatch(ctx, chainEvent(domain.MintCardArgs{User: ownerAddr, TokenID: "7"})))
}

func TestMintCard_StoreFailure(t *testing.T) {
	tm := setupTest(t)
	ctx := context.Background()

	tm.store.EXPECT().ResolveUserIDByAddress(ctx, ownerAddr).Return("user-1", nil)
	tm.chain.EXPECT().ReadCardMetadata(ctx, "7").Return(&domain.CardMetadata{}, nil)
	tm.store.EXPECT().SyncCardFromChain(ctx, gomock.Any()).Return(nil, errors.New("deadlock detected"))

	err := tm.dispatcher.Dispatch(ctx, chainEvent(domain.MintCardArgs{User: ownerAddr, TokenID: "7"}))
	assert.Error(t, err)
}

func TestCardEdited(t *testing.T) {
	tm := setupTest(t)
	ctx := context.Background()

	existing := &schema.Card{ID: "card-1", UserID: "user-1", TokenID: tokenID("7"), TokenOwner: ownerAddr}
	metadata := &domain.CardMetadata{
		CardFields: domain.CardFields{ImageURI: "https://gateway.pinata.cloud/ipfs/" + newCID, Nickname: "alice2"},
	}

	gomock.InOrder(
		tm.store.EXPECT().GetCardByTokenID(ctx, "7").Return(existing, nil),
		tm.chain.EXPECT().OwnerOf(ctx, "7").Return(ownerAddr),
		tm.chain.EXPECT().ReadCardMetadata(ctx, "7").Return(metadata, nil),
		tm.store.EXPECT().SyncCardFromChain(ctx, store.SyncCardFromChainInput{
			UserID:     "user-1",
			TokenOwner: ownerAddr,
			TokenID:    "7",
			Metadata:   metadata,
		}).Return(existing, nil),
		tm.cache.EXPECT().InvalidateCard(ctx, "card-1").Return(nil),
		tm.artifacts.EXPECT().PruneOlderByName(ctx, "card-"+ownerAddr, newCID).Return(2, nil),
	)

	require.NoError(t, tm.dispatcher.Dispatch(ctx, chainEvent(domain.CardEditedArgs{TokenID: "7"})))
}

func TestCardEdited_OwnerFallsBackToProjection(t *testing.T) {
	tm := setupTest(t)
	ctx := context.Background()

	existing := &schema.Card{ID: "card-1", UserID: "user-1", TokenID: tokenID("7"), TokenOwner: ownerAddr}
	metadata := &domain.CardMetadata{CardFields: domain.CardFields{ImageURI: "ipfs://" + newCID}}

	tm.store.EXPECT().GetCardByTokenID(ctx, "7").Return(existing, nil)
	tm.chain.EXPECT().OwnerOf(ctx, "7").Return("")
	tm.chain.EXPECT().ReadCardMetadata(ctx, "7").Return(metadata, nil)
	tm.store.EXPECT().SyncCardFromChain(ctx, gomock.Any()).Return(existing, nil)
	tm.cache.EXPECT().InvalidateCard(ctx, "card-1").Return(nil)
	tm.artifacts.EXPECT().PruneOlderByName(ctx, "card-"+ownerAddr, newCID).Return(0, nil)

	require.NoError(t, tm.dispatcher.Dispatch(ctx, chainEvent(domain.CardEditedArgs{TokenID: "7"})))
}

func TestCardEdited_ReadbackFailureFailsHandler(t *testing.T) {
	tm := setupTest(t)
	ctx := context.Background()

	tm.store.EXPECT().GetCardByTokenID(ctx, "7").Return(nil, nil)
	tm.chain.EXPECT().OwnerOf(ctx, "7").Return(ownerAddr)
	tm.chain.EXPECT().ReadCardMetadata(ctx, "7").Return(nil, errors.New("execution reverted"))

	err := tm.dispatcher.Dispatch(ctx, chainEvent(domain.CardEditedArgs{TokenID: "7"}))
	assert.Error(t, err)
}

func TestCardEdited_UnknownOwner(t *testing.T) {
	tm := setupTest(t)
	ctx := context.Background()

	tm.store.EXPECT().GetCardByTokenID(ctx, "7").Return(nil, nil)
	tm.chain.EXPECT().OwnerOf(ctx, "7").Return(domain.ETHEREUM_ZERO_ADDRESS)

	assert.Error(t, tm.dispatcher.Dispatch(ctx, chainEvent(domain.CardEditedArgs{TokenID: "7"})))
}

func TestCardEdited_PruneFailureIsNotFatal(t *testing.T) {
	tm := setupTest(t)
	ctx := context.Background()

	metadata := &domain.CardMetadata{CardFields: domain.CardFields{ImageURI: "ipfs://" + newCID}}
	card := &schema.Card{ID: "card-9", UserID: "user-9", TokenID: tokenID("7"), TokenOwner: ownerAddr}

	tm.store.EXPECT().GetCardByTokenID(ctx, "7").Return(nil, nil)
	tm.chain.EXPECT().OwnerOf(ctx, "7").Return(ownerAddr)
	tm.chain.EXPECT().ReadCardMetadata(ctx, "7").Return(metadata, nil)
	tm.store.EXPECT().ResolveUserIDByAddress(ctx, ownerAddr).Return("user-9", nil)
	tm.store.EXPECT().SyncCardFromChain(ctx, gomock.Any()).Return(card, nil)
	tm.cache.EXPECT().InvalidateCard(ctx, "card-9").Return(errors.New("redis down"))
	tm.artifacts.EXPECT().PruneOlderByName(ctx, "card-"+ownerAddr, newCID).Return(1, errors.New("429"))

	require.NoError(t, tm.dispatcher.Dispatch(ctx, chainEvent(domain.CardEditedArgs{TokenID: "7"})))
}

func TestCardEdited_NonContentAddressedImageSkipsPrune(t *testing.T) {
	tm := setupTest(t)
	ctx := context.Background()

	existing := &schema.Card{ID: "card-1", UserID: "user-1", TokenID: tokenID("7"), TokenOwner: ownerAddr}

	tm.store.EXPECT().GetCardByTokenID(ctx, "7").Return(existing, nil)
	tm.chain.EXPECT().OwnerOf(ctx, "7").Return(ownerAddr)
	tm.chain.EXPECT().ReadCardMetadata(ctx, "7").Return(&domain.CardMetadata{CardFields: domain.CardFields{ImageURI: "https://example.com/a.png"}}, nil)
	tm.store.EXPECT().SyncCardFromChain(ctx, gomock.Any()).Return(existing, nil)
	tm.cache.EXPECT().InvalidateCard(ctx, "card-1").Return(nil)

	require.NoError(t, tm.dispatcher.Dispatch(ctx, chainEvent(domain.CardEditedArgs{TokenID: "7"})))
}

func TestLogOnlyHandlers(t *testing.T) {
	tm := setupTest(t)
	ctx := context.Background()

	events := []domain.EventArgs{
		domain.SocialLinkedArgs{TokenID: "7", Key: "twitter", Value: "alice"},
		domain.SocialUnlinkedArgs{TokenID: "7", Key: "twitter"},
		domain.TransferArgs{From: domain.ETHEREUM_ZERO_ADDRESS, To: ownerAddr, TokenID: "7"},
		domain.DelegateGrantedArgs{TokenID: "7", Delegate: ownerAddr},
	}
	for _, args := range events {
		assert.NoError(t, tm.dispatcher.Dispatch(ctx, chainEvent(args)), string(args.EventName()))
	}
}

func TestHandlers_RejectMismatchedArgs(t *testing.T) {
	h := handlers.NewCardHandlers(nil, nil, nil, nil)
	ctx := context.Background()
	wrong := chainEvent(domain.UnknownArgs{})

	assert.Error(t, h.MintCard(ctx, wrong))
	assert.Error(t, h.CardEdited(ctx, wrong))
	assert.Error(t, h.SocialLinked(ctx, wrong))
	assert.Error(t, h.SocialUnlinked(ctx, wrong))
	assert.Error(t, h.Transfer(ctx, wrong))
	assert.Error(t, h.DelegateGranted(ctx, wrong))
}
