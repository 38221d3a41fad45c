package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/feral-file/ff-card-indexer/internal/domain"
	"github.com/feral-file/ff-card-indexer/internal/store/schema"
)

const (
	aliceWallet     = "0x00000000000000000000000000000000000000a1"
	aliceSecondary  = "0x00000000000000000000000000000000000000a2"
	bobWallet       = "0x00000000000000000000000000000000000000b1"
	contractAddress = "0x00000000000000000000000000000000000000c0"
)

// Test helpers

func buildTestChainEvent(txHash string, logIndex uint, name domain.EventName, args domain.EventArgs) CreateChainEventInput {
	raw, _ := json.Marshal(args.Fields())
	status := uint64(1)
	return CreateChainEventInput{
		TxHash:          txHash,
		LogIndex:        logIndex,
		BlockNumber:     100,
		BlockHash:       "0xblock",
		ContractAddress: contractAddress,
		EventName:       name,
		Args:            datatypes.JSON(raw),
		TxStatus:        &status,
	}
}

func seedUser(t *testing.T, db *gorm.DB, id string, wallet string, secondary map[string]string) {
	require.NoError(t, db.Create(&schema.User{ID: id, WalletAddress: wallet}).Error)
	for address, clientType := range secondary {
		require.NoError(t, db.Create(&schema.UserWallet{UserID: id, Address: address, ClientType: clientType}).Error)
	}
}

func decodeSocials(t *testing.T, card *schema.Card) domain.Socials {
	socials := domain.Socials{}
	require.NoError(t, json.Unmarshal(card.Socials, &socials))
	return socials
}

func testChainEvents(t *testing.T, store Store, _ *gorm.DB) {
	ctx := context.Background()

	t.Run("duplicate key creates exactly one row", func(t *testing.T) {
		input := buildTestChainEvent("0xAAA1", 3, domain.EventMintCard, domain.MintCardArgs{User: aliceWallet, TokenID: "7"})

		first, created, err := store.CreateChainEvent(ctx, input)
		require.NoError(t, err)
		assert.True(t, created)
		require.NotNil(t, first)
		assert.NotZero(t, first.ID)
		assert.False(t, first.Processed)

		second, created, err := store.CreateChainEvent(ctx, input)
		require.NoError(t, err)
		assert.False(t, created)
		require.NotNil(t, second)
		assert.Equal(t, first.ID, second.ID)

		found, err := store.GetChainEvent(ctx, "0xaaa1", 3)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, first.ID, found.ID)
		assert.Equal(t, domain.EventMintCard, found.EventName)
	})

	t.Run("same tx with another log index is a distinct event", func(t *testing.T) {
		_, created, err := store.CreateChainEvent(ctx, buildTestChainEvent("0xAAA2", 0, domain.EventCardEdited, domain.CardEditedArgs{TokenID: "1"}))
		require.NoError(t, err)
		assert.True(t, created)

		_, created, err = store.CreateChainEvent(ctx, buildTestChainEvent("0xAAA2", 1, domain.EventSocialLinked, domain.SocialLinkedArgs{TokenID: "1", Key: "x", Value: "y"}))
		require.NoError(t, err)
		assert.True(t, created)
	})

	t.Run("missing event returns nil", func(t *testing.T) {
		event, err := store.GetChainEvent(ctx, "0xnope", 0)
		require.NoError(t, err)
		assert.Nil(t, event)
	})

	t.Run("processed events leave the unprocessed scan", func(t *testing.T) {
		a, _, err := store.CreateChainEvent(ctx, buildTestChainEvent("0xBBB1", 0, domain.EventCardEdited, domain.CardEditedArgs{TokenID: "2"}))
		require.NoError(t, err)
		b, _, err := store.CreateChainEvent(ctx, buildTestChainEvent("0xBBB2", 0, domain.EventCardEdited, domain.CardEditedArgs{TokenID: "3"}))
		require.NoError(t, err)
		_, _, err = store.CreateChainEvent(ctx, buildTestChainEvent("0xBBB3", 0, domain.EventUnknown, domain.UnknownArgs{Topic: "0x01"}))
		require.NoError(t, err)

		require.NoError(t, store.MarkChainEventProcessed(ctx, a.ID))

		events, err := store.GetUnprocessedChainEvents(ctx, []domain.EventName{domain.EventCardEdited}, a.ID-1, 10)
		require.NoError(t, err)

		var ids []uint64
		for _, e := range events {
			ids = append(ids, e.ID)
			assert.Equal(t, domain.EventCardEdited, e.EventName)
		}
		assert.Contains(t, ids, b.ID)
		assert.NotContains(t, ids, a.ID)

		processed, err := store.GetChainEvent(ctx, "0xBBB1", 0)
		require.NoError(t, err)
		assert.True(t, processed.Processed)
		assert.NotNil(t, processed.ProcessedAt)
	})

	t.Run("no names returns nothing", func(t *testing.T) {
		events, err := store.GetUnprocessedChainEvents(ctx, nil, 0, 10)
		require.NoError(t, err)
		assert.Empty(t, events)
	})
}

func testDraftCards(t *testing.T, store Store, db *gorm.DB) {
	ctx := context.Background()
	seedUser(t, db, "user-alice", aliceWallet, nil)

	draft, err := store.UpsertDraftCard(ctx, UpsertDraftCardInput{
		UserID:     "user-alice",
		TokenOwner: "0x00000000000000000000000000000000000000A1",
		Fields:     domain.CardFields{Nickname: "Alice", Role: "Builder", Bio: "gm", ImageURI: "https://gw/ipfs/cid-1"},
		Socials:    map[string]string{"twitter": "@alice", "github": ""},
	})
	require.NoError(t, err)
	require.NotNil(t, draft)
	assert.Nil(t, draft.TokenID)
	assert.Equal(t, aliceWallet, draft.TokenOwner)
	assert.Equal(t, domain.Socials{"twitter": {Handle: "@alice"}}, decodeSocials(t, draft))

	t.Run("second prepare updates the same draft", func(t *testing.T) {
		updated, err := store.UpsertDraftCard(ctx, UpsertDraftCardInput{
			UserID:     "user-alice",
			TokenOwner: aliceWallet,
			Fields:     domain.CardFields{Nickname: "Alice 2", ImageURI: "https://gw/ipfs/cid-2"},
		})
		require.NoError(t, err)
		assert.Equal(t, draft.ID, updated.ID)

		stored, err := store.GetCardByID(ctx, draft.ID)
		require.NoError(t, err)
		assert.Equal(t, "Alice 2", stored.Nickname)
		assert.Nil(t, stored.TokenID)
	})

	t.Run("minted card refuses draft writes", func(t *testing.T) {
		_, err := store.SyncCardFromChain(ctx, SyncCardFromChainInput{UserID: "user-alice", TokenOwner: aliceWallet, TokenID: "7"})
		require.NoError(t, err)

		_, err = store.UpsertDraftCard(ctx, UpsertDraftCardInput{UserID: "user-alice", TokenOwner: aliceWallet})
		assert.True(t, errors.Is(err, domain.ErrAlreadyMinted))

		stored, err := store.GetCardByUserID(ctx, "user-alice")
		require.NoError(t, err)
		require.NotNil(t, stored.TokenID)
		assert.Equal(t, "7", *stored.TokenID)
		assert.Equal(t, "Alice 2", stored.Nickname)
	})

	t.Run("lookups", func(t *testing.T) {
		byOwner, err := store.GetCardByTokenOwner(ctx, "0x00000000000000000000000000000000000000A1")
		require.NoError(t, err)
		require.NotNil(t, byOwner)
		assert.Equal(t, draft.ID, byOwner.ID)

		byToken, err := store.GetCardByTokenID(ctx, "7")
		require.NoError(t, err)
		require.NotNil(t, byToken)
		assert.Equal(t, draft.ID, byToken.ID)

		missing, err := store.GetCardByID(ctx, "not-a-uuid")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})
}

func testSyncCardFromChain(t *testing.T, store Store, db *gorm.DB) {
	ctx := context.Background()
	seedUser(t, db, "user-bob", bobWallet, nil)

	t.Run("creates a card for a token minted outside the app", func(t *testing.T) {
		card, err := store.SyncCardFromChain(ctx, SyncCardFromChainInput{
			TokenOwner: "0x00000000000000000000000000000000000000D1",
			TokenID:    "99",
			Metadata:   &domain.CardMetadata{CardFields: domain.CardFields{Nickname: "Dee"}},
		})
		require.NoError(t, err)
		assert.Equal(t, "0x00000000000000000000000000000000000000d1", card.UserID)
		assert.Equal(t, "Dee", card.Nickname)
	})

	t.Run("replaces canonical fields with chain metadata", func(t *testing.T) {
		_, err := store.UpsertDraftCard(ctx, UpsertDraftCardInput{
			UserID:     "user-bob",
			TokenOwner: bobWallet,
			Fields:     domain.CardFields{Nickname: "staged", Role: "staged", Bio: "staged", ImageURI: "staged"},
			Socials:    map[string]string{"twitter": "@bob", "github": "bob"},
		})
		require.NoError(t, err)
		// verification is decided off-chain
		require.NoError(t, db.Exec(`UPDATE cards SET socials = '{"twitter":{"handle":"@bob","verified":true},"github":{"handle":"bob","verified":true}}' WHERE user_id = 'user-bob'`).Error)

		minted, err := store.SyncCardFromChain(ctx, SyncCardFromChainInput{UserID: "user-bob", TokenOwner: bobWallet, TokenID: "8"})
		require.NoError(t, err)
		assert.Equal(t, "staged", minted.Nickname, "mint without metadata keeps provisional values")

		edited, err := store.SyncCardFromChain(ctx, SyncCardFromChainInput{
			TokenOwner: bobWallet,
			TokenID:    "8",
			Metadata: &domain.CardMetadata{
				CardFields: domain.CardFields{Nickname: "Bob", Role: "Artist", Bio: "on chain", ImageURI: "https://gw/ipfs/cid-bob"},
				Socials:    []domain.SocialEntry{{Key: "twitter", Value: "@bob"}, {Key: "github", Value: "bobby"}},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, minted.ID, edited.ID)

		stored, err := store.GetCardByTokenID(ctx, "8")
		require.NoError(t, err)
		assert.Equal(t, "Bob", stored.Nickname)
		assert.Equal(t, "Artist", stored.Role)
		assert.Equal(t, "on chain", stored.Bio)
		assert.Equal(t, "https://gw/ipfs/cid-bob", stored.ImageURI)
		assert.Equal(t, domain.Socials{
			"twitter": {Handle: "@bob", Verified: true},
			"github":  {Handle: "bobby", Verified: false},
		}, decodeSocials(t, stored))
	})
}

func testListCards(t *testing.T, store Store, db *gorm.DB) {
	ctx := context.Background()
	seedUser(t, db, "user-list-1", "0x0000000000000000000000000000000000000101", nil)
	seedUser(t, db, "user-list-2", "0x0000000000000000000000000000000000000102", nil)

	_, err := store.UpsertDraftCard(ctx, UpsertDraftCardInput{UserID: "user-list-1", TokenOwner: "0x0000000000000000000000000000000000000101"})
	require.NoError(t, err)
	_, err = store.SyncCardFromChain(ctx, SyncCardFromChainInput{UserID: "user-list-2", TokenOwner: "0x0000000000000000000000000000000000000102", TokenID: "501"})
	require.NoError(t, err)
	_, err = store.SyncCardFromChain(ctx, SyncCardFromChainInput{TokenOwner: "0x0000000000000000000000000000000000000103", TokenID: "502"})
	require.NoError(t, err)

	cards, total, err := store.ListCards(ctx, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), total, "drafts are not listed")
	assert.Len(t, cards, 2)

	page, total, err := store.ListCards(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), total)
	assert.Len(t, page, 1)
}

func testUsers(t *testing.T, store Store, db *gorm.DB) {
	ctx := context.Background()
	seedUser(t, db, "user-alice", aliceWallet, map[string]string{aliceSecondary: "coinbase_wallet"})

	t.Run("resolves primary and secondary wallets", func(t *testing.T) {
		id, err := store.ResolveUserIDByAddress(ctx, "0x00000000000000000000000000000000000000A1")
		require.NoError(t, err)
		assert.Equal(t, "user-alice", id)

		id, err = store.ResolveUserIDByAddress(ctx, aliceSecondary)
		require.NoError(t, err)
		assert.Equal(t, "user-alice", id)

		id, err = store.ResolveUserIDByAddress(ctx, bobWallet)
		require.NoError(t, err)
		assert.Empty(t, id)
	})

	t.Run("wallet records carry the client type", func(t *testing.T) {
		wallet, err := store.GetUserWallet(ctx, aliceSecondary)
		require.NoError(t, err)
		require.NotNil(t, wallet)
		assert.Equal(t, "coinbase_wallet", wallet.ClientType)

		missing, err := store.GetUserWallet(ctx, bobWallet)
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("lists every wallet of a user", func(t *testing.T) {
		addresses, err := store.GetUserWalletAddresses(ctx, "user-alice")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{aliceWallet, aliceSecondary}, addresses)
	})
}

func testQuests(t *testing.T, store Store, db *gorm.DB) {
	ctx := context.Background()

	require.NoError(t, store.MarkQuestClaimable(ctx, "user-q", domain.QUEST_KEY_MINT))
	require.NoError(t, store.MarkQuestClaimable(ctx, "user-q", domain.QUEST_KEY_MINT))

	var quest schema.UserQuest
	require.NoError(t, db.Where("user_id = ? AND quest_key = ?", "user-q", domain.QUEST_KEY_MINT).First(&quest).Error)
	assert.Equal(t, schema.QuestStatusClaimable, quest.Status)

	require.NoError(t, db.Model(&schema.UserQuest{}).Where("id = ?", quest.ID).Update("status", schema.QuestStatusClaimed).Error)
	require.NoError(t, store.MarkQuestClaimable(ctx, "user-q", domain.QUEST_KEY_MINT))

	require.NoError(t, db.Where("id = ?", quest.ID).First(&quest).Error)
	assert.Equal(t, schema.QuestStatusClaimed, quest.Status, "claimed quests are never downgraded")
}

func testBlockCursor(t *testing.T, store Store, _ *gorm.DB) {
	ctx := context.Background()

	t.Run("get non-existent cursor returns 0", func(t *testing.T) {
		cursor, err := store.GetBlockCursor(ctx, "eip155:8453:0xnone")
		require.NoError(t, err)
		assert.Equal(t, uint64(0), cursor)
	})

	t.Run("set, update and get cursor", func(t *testing.T) {
		stream := "eip155:8453:" + contractAddress

		require.NoError(t, store.SetBlockCursor(ctx, stream, 100))
		require.NoError(t, store.SetBlockCursor(ctx, stream, 200))

		cursor, err := store.GetBlockCursor(ctx, stream)
		require.NoError(t, err)
		assert.Equal(t, uint64(200), cursor)
	})
}

func RunStoreTests(t *testing.T, initDB func(t *testing.T) (Store, *gorm.DB)) {
	tests := []struct {
		name string
		fn   func(*testing.T, Store, *gorm.DB)
	}{
		{"ChainEvents", testChainEvents},
		{"DraftCards", testDraftCards},
		{"SyncCardFromChain", testSyncCardFromChain},
		{"ListCards", testListCards},
		{"Users", testUsers},
		{"Quests", testQuests},
		{"BlockCursor", testBlockCursor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, db := initDB(t)
			tt.fn(t, store, db)
		})
	}
}

func TestNormalizeConnectionPoolSettings(t *testing.T) {
	open, idle, lifetime, idleTime := NormalizeConnectionPoolSettings(0, 50, 0, 0)
	assert.Equal(t, 20, open)
	assert.Equal(t, 20, idle)
	assert.NotZero(t, lifetime)
	assert.NotZero(t, idleTime)
}
