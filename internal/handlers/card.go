package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/feral-file/ff-card-indexer/internal/cache"
	"github.com/feral-file/ff-card-indexer/internal/domain"
	"github.com/feral-file/ff-card-indexer/internal/logger"
	"github.com/feral-file/ff-card-indexer/internal/providers/ethereum"
	"github.com/feral-file/ff-card-indexer/internal/providers/ipfs"
	"github.com/feral-file/ff-card-indexer/internal/store"
	"github.com/feral-file/ff-card-indexer/internal/store/schema"
)

// CardHandlers reconciles card contract events into the cards projection
type CardHandlers struct {
	store     store.Store
	chain     ethereum.CardClient
	artifacts ipfs.Client
	cache     cache.ReadCache
}

// NewCardHandlers creates the card event handlers
func NewCardHandlers(st store.Store, chain ethereum.CardClient, artifacts ipfs.Client, readCache cache.ReadCache) *CardHandlers {
	return &CardHandlers{
		store:     st,
		chain:     chain,
		artifacts: artifacts,
		cache:     readCache,
	}
}

// NewDispatcher returns a registry with every card event handler registered
func NewDispatcher(st store.Store, chain ethereum.CardClient, artifacts ipfs.Client, readCache cache.ReadCache) Dispatcher {
	h := NewCardHandlers(st, chain, artifacts, readCache)

	r := NewRegistry()
	r.Register(domain.EventMintCard, h.MintCard)
	r.Register(domain.EventSocialLinked, h.SocialLinked)
	r.Register(domain.EventSocialUnlinked, h.SocialUnlinked)
	r.Register(domain.EventCardEdited, h.CardEdited)
	r.Register(domain.EventTransfer, h.Transfer)
	r.Register(domain.EventDelegateGranted, h.DelegateGranted)
	return r
}

func eventFields(event *domain.ChainEvent) []zap.Field {
	return []zap.Field{
		zap.String("event", string(event.Name())),
		zap.String("txHash", event.TxHash),
		zap.Uint("logIndex", event.LogIndex),
		zap.Uint64("blockNumber", event.BlockNumber),
	}
}

func unexpectedArgs(event *domain.ChainEvent) error {
	return fmt.Errorf("unexpected arguments %T for %s", event.Args, event.Name())
}

// MintCard promotes the minter's card to the confirmed token.
// Chain metadata overwrites provisional values when it can be read.
func (h *CardHandlers) MintCard(ctx context.Context, event *domain.ChainEvent) error {
	args, ok := event.Args.(domain.MintCardArgs)
	if !ok {
		return unexpectedArgs(event)
	}
	owner := domain.NormalizeAddress(args.User)

	userID, err := h.store.ResolveUserIDByAddress(ctx, owner)
	if err != nil {
		return fmt.Errorf("failed to resolve user of %s: %w", owner, err)
	}

	metadata, err := h.chain.ReadCardMetadata(ctx, args.TokenID)
	if err != nil {
		// the draft values stay until an edit or a backfill reads the chain again
		logger.WarnCtx(ctx, "Card metadata unavailable, keeping provisional values",
			append(eventFields(event), zap.String("tokenId", args.TokenID), zap.Error(err))...)
		metadata = nil
	}

	card, err := h.store.SyncCardFromChain(ctx, store.SyncCardFromChainInput{
		UserID:     userID,
		TokenOwner: owner,
		TokenID:    args.TokenID,
		Metadata:   metadata,
	})
	if err != nil {
		return fmt.Errorf("failed to promote card for token %s: %w", args.TokenID, err)
	}

	if userID != "" {
		if err := h.store.MarkQuestClaimable(ctx, userID, domain.QUEST_KEY_MINT); err != nil {
			return fmt.Errorf("failed to mark mint quest claimable: %w", err)
		}
	}

	h.invalidate(ctx, card)

	logger.InfoCtx(ctx, "Card mint confirmed",
		append(eventFields(event),
			zap.String("cardId", card.ID),
			zap.String("tokenId", args.TokenID),
			zap.String("owner", owner),
			zap.Bool("metadata", metadata != nil))...)
	return nil
}

// CardEdited replaces the card fields with the chain state and prunes superseded images
func (h *CardHandlers) CardEdited(ctx context.Context, event *domain.ChainEvent) error {
	args, ok := event.Args.(domain.CardEditedArgs)
	if !ok {
		return unexpectedArgs(event)
	}

	existing, err := h.store.GetCardByTokenID(ctx, args.TokenID)
	if err != nil {
		return fmt.Errorf("failed to get card of token %s: %w", args.TokenID, err)
	}

	owner := h.resolveOwner(ctx, args.TokenID, existing)
	if owner == "" {
		return fmt.Errorf("owner of token %s is unknown", args.TokenID)
	}

	metadata, err := h.chain.ReadCardMetadata(ctx, args.TokenID)
	if err != nil {
		return fmt.Errorf("failed to read metadata of token %s: %w", args.TokenID, err)
	}

	var userID string
	if existing != nil {
		userID = existing.UserID
	} else {
		userID, err = h.store.ResolveUserIDByAddress(ctx, owner)
		if err != nil {
			return fmt.Errorf("failed to resolve user of %s: %w", owner, err)
		}
	}

	card, err := h.store.SyncCardFromChain(ctx, store.SyncCardFromChainInput{
		UserID:     userID,
		TokenOwner: owner,
		TokenID:    args.TokenID,
		Metadata:   metadata,
	})
	if err != nil {
		return fmt.Errorf("failed to sync card for token %s: %w", args.TokenID, err)
	}

	h.invalidate(ctx, card)

	logger.InfoCtx(ctx, "Card edit confirmed",
		append(eventFields(event), zap.String("cardId", card.ID), zap.String("tokenId", args.TokenID))...)

	h.pruneImages(ctx, owner, metadata.ImageURI)
	return nil
}

// resolveOwner prefers the chain and falls back to the projection
func (h *CardHandlers) resolveOwner(ctx context.Context, tokenID string, existing *schema.Card) string {
	owner := domain.NormalizeAddress(h.chain.OwnerOf(ctx, tokenID))
	if owner != "" && owner != domain.ETHEREUM_ZERO_ADDRESS {
		return owner
	}
	if existing != nil {
		return existing.TokenOwner
	}
	return ""
}

func (h *CardHandlers) pruneImages(ctx context.Context, owner string, imageURI string) {
	keep := ipfs.ExtractCID(imageURI)
	if keep == "" {
		logger.WarnCtx(ctx, "Card image is not content addressed, skipping prune",
			zap.String("owner", owner), zap.String("imageUri", imageURI))
		return
	}

	name := domain.CardImageName(owner)
	deleted, err := h.artifacts.PruneOlderByName(ctx, name, keep)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to prune superseded card images",
			zap.String("name", name), zap.String("keep", keep), zap.Int("deleted", deleted), zap.Error(err))
	}
}

func (h *CardHandlers) invalidate(ctx context.Context, card *schema.Card) {
	if err := h.cache.InvalidateCard(ctx, card.ID); err != nil {
		logger.WarnCtx(ctx, "Read cache may serve stale card until ttl", zap.String("cardId", card.ID), zap.Error(err))
	}
}

// SocialLinked is recorded only; socials are reconciled from the edit readback
func (h *CardHandlers) SocialLinked(ctx context.Context, event *domain.ChainEvent) error {
	args, ok := event.Args.(domain.SocialLinkedArgs)
	if !ok {
		return unexpectedArgs(event)
	}
	logger.InfoCtx(ctx, "Social linked",
		append(eventFields(event), zap.String("tokenId", args.TokenID), zap.String("key", args.Key), zap.String("value", args.Value))...)
	return nil
}

func (h *CardHandlers) SocialUnlinked(ctx context.Context, event *domain.ChainEvent) error {
	args, ok := event.Args.(domain.SocialUnlinkedArgs)
	if !ok {
		return unexpectedArgs(event)
	}
	logger.InfoCtx(ctx, "Social unlinked",
		append(eventFields(event), zap.String("tokenId", args.TokenID), zap.String("key", args.Key))...)
	return nil
}

func (h *CardHandlers) Transfer(ctx context.Context, event *domain.ChainEvent) error {
	args, ok := event.Args.(domain.TransferArgs)
	if !ok {
		return unexpectedArgs(event)
	}
	logger.InfoCtx(ctx, "Token transfer observed",
		append(eventFields(event), zap.String("tokenId", args.TokenID), zap.String("from", args.From), zap.String("to", args.To))...)
	return nil
}

func (h *CardHandlers) DelegateGranted(ctx context.Context, event *domain.ChainEvent) error {
	args, ok := event.Args.(domain.DelegateGrantedArgs)
	if !ok {
		return unexpectedArgs(event)
	}
	logger.InfoCtx(ctx, "Delegate granted",
		append(eventFields(event), zap.String("tokenId", args.TokenID), zap.String("delegate", args.Delegate))...)
	return nil
}
