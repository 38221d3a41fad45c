package store

import (
	"context"

	"gorm.io/datatypes"

	"github.com/feral-file/ff-card-indexer/internal/domain"
	"github.com/feral-file/ff-card-indexer/internal/store/schema"
)

// CreateChainEventInput is one decoded log ready to be appended to chain_events
type CreateChainEventInput struct {
	TxHash          string
	LogIndex        uint
	BlockNumber     uint64
	BlockHash       string
	ContractAddress string
	EventName       domain.EventName
	Args            datatypes.JSON
	TxFrom          *string
	TxTo            *string
	GasUsed         *uint64
	TxStatus        *uint64
}

// UpsertDraftCardInput holds the provisional values written at mint-prepare time
type UpsertDraftCardInput struct {
	UserID     string
	TokenOwner string
	Fields     domain.CardFields
	Socials    map[string]string
}

// SyncCardFromChainInput holds the chain-confirmed state of one token.
// Metadata may be nil when the token URI could not be read; the token id and owner are still applied.
type SyncCardFromChainInput struct {
	UserID     string
	TokenOwner string
	TokenID    string
	Metadata   *domain.CardMetadata
}

// Store defines the interface for database operations
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	CursorStore

	// GetChainEvent retrieves an event by its idempotency key; nil when absent
	GetChainEvent(ctx context.Context, txHash string, logIndex uint) (*schema.ChainEvent, error)
	// CreateChainEvent appends an event; created is false when the key already existed
	CreateChainEvent(ctx context.Context, input CreateChainEventInput) (*schema.ChainEvent, bool, error)
	// MarkChainEventProcessed flips processed to true
	MarkChainEventProcessed(ctx context.Context, id uint64) error
	// GetUnprocessedChainEvents returns unprocessed events of the given names with id > afterID, oldest first
	GetUnprocessedChainEvents(ctx context.Context, names []domain.EventName, afterID uint64, limit int) ([]schema.ChainEvent, error)

	// GetCardByID retrieves a card by id; nil when absent
	GetCardByID(ctx context.Context, id string) (*schema.Card, error)
	// GetCardByUserID retrieves the card of a user; nil when absent
	GetCardByUserID(ctx context.Context, userID string) (*schema.Card, error)
	// GetCardByTokenOwner retrieves the card owned by a wallet; nil when absent
	GetCardByTokenOwner(ctx context.Context, address string) (*schema.Card, error)
	// GetCardByTokenID retrieves the card of an on-chain token; nil when absent
	GetCardByTokenID(ctx context.Context, tokenID string) (*schema.Card, error)
	// ListCards returns minted cards, newest first, and the total count
	ListCards(ctx context.Context, limit int, offset uint64) ([]schema.Card, uint64, error)
	// UpsertDraftCard creates or updates a draft card; returns domain.ErrAlreadyMinted for minted cards
	UpsertDraftCard(ctx context.Context, input UpsertDraftCardInput) (*schema.Card, error)
	// SyncCardFromChain applies chain-confirmed token state, creating the card when needed
	SyncCardFromChain(ctx context.Context, input SyncCardFromChainInput) (*schema.Card, error)

	// ResolveUserIDByAddress resolves a primary or secondary wallet to a user id; empty when unknown
	ResolveUserIDByAddress(ctx context.Context, address string) (string, error)
	// GetUserWallet retrieves the wallet record of an address; nil when absent
	GetUserWallet(ctx context.Context, address string) (*schema.UserWallet, error)
	// GetUserWalletAddresses returns every wallet address of a user
	GetUserWalletAddresses(ctx context.Context, userID string) ([]string, error)
	// MarkQuestClaimable marks a quest claimable unless it was already claimed
	MarkQuestClaimable(ctx context.Context, userID string, questKey string) error
}
