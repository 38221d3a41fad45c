package coordinator

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/feral-file/ff-card-indexer/internal/adapter"
	"github.com/feral-file/ff-card-indexer/internal/cache"
	"github.com/feral-file/ff-card-indexer/internal/cards"
	"github.com/feral-file/ff-card-indexer/internal/domain"
	"github.com/feral-file/ff-card-indexer/internal/logger"
	"github.com/feral-file/ff-card-indexer/internal/metrics"
	"github.com/feral-file/ff-card-indexer/internal/providers/ethereum"
	"github.com/feral-file/ff-card-indexer/internal/providers/ipfs"
	"github.com/feral-file/ff-card-indexer/internal/render"
	"github.com/feral-file/ff-card-indexer/internal/store"
	"github.com/feral-file/ff-card-indexer/internal/store/schema"
)

const (
	DefaultBackfillTimeout     = 30 * time.Second
	DefaultBackfillConcurrency = 4

	methodMint = "mintBaseCard"
	methodEdit = "editBaseCard"
)

// ErrUnknownUser is returned when a mint caller resolves to no user
var ErrUnknownUser = errors.New("caller is not a known user")

// Config holds coordinator settings
type Config struct {
	BackfillTimeout     time.Duration
	BackfillConcurrency int
}

// MintInput is the desired state of a new card
type MintInput struct {
	Caller       domain.Caller
	Nickname     string
	Role         string
	Bio          string
	ProfileImage []byte
	Socials      map[string]string
}

// MintResult is what a client needs to submit mintBaseCard.
// AlreadyMinted is set instead when the wallet holds a card the projection had missed.
type MintResult struct {
	AlreadyMinted    bool                   `json:"alreadyMinted"`
	Card             *domain.Card           `json:"card,omitempty"`
	CardData         domain.CardFields      `json:"cardData"`
	SocialKeys       []string               `json:"socialKeys"`
	SocialValues     []string               `json:"socialValues"`
	InitialDelegates []string               `json:"initialDelegates"`
	Artifact         *domain.StagedArtifact `json:"artifact,omitempty"`
}

// EditInput is the desired state of an existing card.
// An empty ProfileImage keeps the picture and nil Socials keeps every link.
type EditInput struct {
	Caller       domain.Caller
	Nickname     string
	Role         string
	Bio          string
	ProfileImage []byte
	Socials      map[string]string
}

// EditResult is what a client needs to submit editBaseCard.
// Rollback names the newly staged artifact when the image was regenerated.
type EditResult struct {
	TokenID          string                 `json:"tokenId"`
	CardData         domain.CardFields      `json:"cardData"`
	SocialKeys       []string               `json:"socialKeys"`
	SocialValues     []string               `json:"socialValues"`
	ImageRegenerated bool                   `json:"imageRegenerated"`
	Rollback         *domain.StagedArtifact `json:"rollback,omitempty"`
}

// RollbackResult reports whether a staged artifact was removed
type RollbackResult struct {
	CID     string `json:"cid"`
	Deleted bool   `json:"deleted"`
}

// Coordinator prepares card mutations for client-side submission
//
//go:generate mockgen -source=coordinator.go -destination=../mocks/coordinator.go -package=mocks -mock_names=Coordinator=MockCoordinator
type Coordinator interface {
	// PrepareMint stages the card image, dry-runs the mint and records a draft
	PrepareMint(ctx context.Context, input MintInput) (*MintResult, error)

	// PrepareEdit checks ownership, stages a new image if needed and dry-runs the edit
	PrepareEdit(ctx context.Context, input EditInput) (*EditResult, error)

	// Rollback deletes an abandoned staged artifact; repeating it is harmless
	Rollback(ctx context.Context, caller domain.Caller, cid string) (*RollbackResult, error)

	// SyncFromChain reconciles the card owned by address with the chain
	SyncFromChain(ctx context.Context, address string) (*domain.Card, error)

	// SpawnBackfill syncs the caller's card in the background when the chain has one
	SpawnBackfill(ctx context.Context, caller domain.Caller)

	// Wait stops accepting background tasks and waits for running ones
	Wait()
}

type coordinator struct {
	cfg       Config
	store     store.Store
	chain     ethereum.CardClient
	artifacts ipfs.Client
	renderer  render.Renderer
	cache     cache.ReadCache
	json      adapter.JSON
	metrics   *metrics.Metrics

	tasks   pond.Pool
	stopped atomic.Bool
}

// New creates a mutation coordinator
func New(
	cfg Config,
	st store.Store,
	chain ethereum.CardClient,
	artifacts ipfs.Client,
	renderer render.Renderer,
	readCache cache.ReadCache,
	json adapter.JSON,
	m *metrics.Metrics,
) Coordinator {
	if cfg.BackfillTimeout <= 0 {
		cfg.BackfillTimeout = DefaultBackfillTimeout
	}
	if cfg.BackfillConcurrency <= 0 {
		cfg.BackfillConcurrency = DefaultBackfillConcurrency
	}

	return &coordinator{
		cfg:       cfg,
		store:     st,
		chain:     chain,
		artifacts: artifacts,
		renderer:  renderer,
		cache:     readCache,
		json:      json,
		metrics:   m,
		tasks:     pond.NewPool(cfg.BackfillConcurrency),
	}
}

func (c *coordinator) PrepareMint(ctx context.Context, input MintInput) (*MintResult, error) {
	// a client disconnect must not strand a half-staged artifact
	ctx = context.WithoutCancel(ctx)

	address := domain.NormalizeAddress(input.Caller.WalletAddress)
	if !domain.IsValidAddress(address) {
		return nil, domain.ErrInvalidAddress
	}
	if c.chain.ContractAddress() == "" {
		return nil, domain.ErrChainDisabled
	}

	if c.chain.HasMinted(ctx, address) {
		return c.alreadyMinted(ctx, address)
	}

	userID, err := c.store.ResolveUserIDByAddress(ctx, address)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to resolve user by wallet, using caller", zap.String("address", address), zap.Error(err))
	}
	if userID == "" {
		userID = input.Caller.UserID
	}
	if userID == "" {
		return nil, ErrUnknownUser
	}

	fields := domain.CardFields{
		Nickname: strings.TrimSpace(input.Nickname),
		Role:     strings.TrimSpace(input.Role),
		Bio:      strings.TrimSpace(input.Bio),
	}

	uploaded, err := c.stage(ctx, address, fields, input.ProfileImage, "")
	if err != nil {
		return nil, err
	}
	fields.ImageURI = c.artifacts.GatewayURL(uploaded.CID)

	keys, values := domain.FilterSocials(input.Socials)
	delegates := c.delegates(ctx, userID, address)

	if err := c.chain.SimulateMint(ctx, address, fields, keys, values, delegates); err != nil {
		c.recordSimulation(methodMint, err)
		c.discard(ctx, uploaded, "simulation_failed")
		return nil, err
	}
	c.recordSimulation(methodMint, nil)

	draft, err := c.store.UpsertDraftCard(ctx, store.UpsertDraftCardInput{
		UserID:     userID,
		TokenOwner: address,
		Fields:     fields,
		Socials:    socialMap(keys, values),
	})
	if err != nil {
		c.discard(ctx, uploaded, "draft_failed")
		return nil, fmt.Errorf("failed to save draft card: %w", err)
	}
	c.invalidate(ctx, draft.ID)

	logger.InfoCtx(ctx, "Card mint prepared",
		zap.String("cardId", draft.ID),
		zap.String("address", address),
		zap.String("cid", uploaded.CID),
		zap.Int("socials", len(keys)),
		zap.Int("delegates", len(delegates)))

	return &MintResult{
		CardData:         fields,
		SocialKeys:       keys,
		SocialValues:     values,
		InitialDelegates: delegates,
		Artifact:         &domain.StagedArtifact{FileID: uploaded.ID, CID: uploaded.CID},
	}, nil
}

// alreadyMinted refuses a second mint, repairing the projection if it missed the first
func (c *coordinator) alreadyMinted(ctx context.Context, address string) (*MintResult, error) {
	existing, err := c.store.GetCardByTokenOwner(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("failed to get card of %s: %w", address, err)
	}
	if existing != nil && existing.TokenID != nil {
		return nil, domain.ErrAlreadyMinted
	}

	card, err := c.SyncFromChain(ctx, address)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to backfill minted card", zap.String("address", address), zap.Error(err))
	}
	return &MintResult{AlreadyMinted: true, Card: card}, nil
}

func (c *coordinator) PrepareEdit(ctx context.Context, input EditInput) (*EditResult, error) {
	ctx = context.WithoutCancel(ctx)

	address := domain.NormalizeAddress(input.Caller.WalletAddress)
	if !domain.IsValidAddress(address) {
		return nil, domain.ErrInvalidAddress
	}
	if c.chain.ContractAddress() == "" {
		return nil, domain.ErrChainDisabled
	}

	card, err := c.ownedCard(ctx, input.Caller, address)
	if err != nil {
		return nil, err
	}

	tokenID := c.chain.TokenIDOf(ctx, address)
	if tokenID == "" {
		tokenID = *card.TokenID
	}

	owner := domain.NormalizeAddress(c.chain.OwnerOf(ctx, tokenID))
	if owner != "" && owner != domain.ETHEREUM_ZERO_ADDRESS && owner != address {
		return nil, c.wrongWallet(ctx, address, owner)
	}

	fields := domain.CardFields{
		ImageURI: card.ImageURI,
		Nickname: strings.TrimSpace(input.Nickname),
		Role:     strings.TrimSpace(input.Role),
		Bio:      strings.TrimSpace(input.Bio),
	}
	result := &EditResult{TokenID: tokenID}

	if len(input.ProfileImage) > 0 || fields.Nickname != card.Nickname || fields.Role != card.Role || fields.Bio != card.Bio {
		uploaded, err := c.stage(ctx, address, fields, input.ProfileImage, card.ImageURI)
		if err != nil {
			return nil, err
		}
		result.ImageRegenerated = true
		fields.ImageURI = c.artifacts.GatewayURL(uploaded.CID)

		// identical content maps to the live cid and must survive a rollback.
		// Pinata answers a duplicate upload with the existing file, so there is no extra record to drop.
		if uploaded.CID != ipfs.ExtractCID(card.ImageURI) {
			result.Rollback = &domain.StagedArtifact{FileID: uploaded.ID, CID: uploaded.CID}
		}
	}

	current := domain.Socials{}
	if len(card.Socials) > 0 {
		if err := c.json.Unmarshal(card.Socials, &current); err != nil {
			return nil, fmt.Errorf("failed to decode socials of card %s: %w", card.ID, err)
		}
	}
	keys, values := DiffSocials(current, input.Socials)

	if err := c.chain.SimulateEdit(ctx, address, tokenID, fields, keys, values); err != nil {
		c.recordSimulation(methodEdit, err)
		if result.Rollback == nil {
			return nil, err
		}
		var reverted *domain.SimulationRevertedError
		if errors.As(err, &reverted) {
			reverted.RollbackCID = result.Rollback.CID
		} else {
			c.discard(ctx, &domain.UploadedArtifact{ID: result.Rollback.FileID, CID: result.Rollback.CID}, "simulation_failed")
		}
		return nil, err
	}
	c.recordSimulation(methodEdit, nil)

	result.CardData = fields
	result.SocialKeys = keys
	result.SocialValues = values

	logger.InfoCtx(ctx, "Card edit prepared",
		zap.String("cardId", card.ID),
		zap.String("tokenId", tokenID),
		zap.Bool("imageRegenerated", result.ImageRegenerated),
		zap.Int("socialChanges", len(keys)))

	return result, nil
}

// ownedCard returns the minted card held by address or explains why there is none
func (c *coordinator) ownedCard(ctx context.Context, caller domain.Caller, address string) (*schema.Card, error) {
	card, err := c.store.GetCardByTokenOwner(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("failed to get card of %s: %w", address, err)
	}

	if card == nil {
		if caller.UserID == "" {
			return nil, domain.ErrCardNotFound
		}
		card, err = c.store.GetCardByUserID(ctx, caller.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to get card of user %s: %w", caller.UserID, err)
		}
		if card == nil {
			return nil, domain.ErrCardNotFound
		}
		if card.TokenOwner != address {
			return nil, c.wrongWallet(ctx, address, card.TokenOwner)
		}
	}

	if card.TokenID == nil || *card.TokenID == "" {
		return nil, domain.ErrCardNotMinted
	}
	return card, nil
}

func (c *coordinator) wrongWallet(ctx context.Context, caller string, owner string) error {
	wrongErr := &domain.WrongWalletOwnerError{CallerAddress: caller, OwnerAddress: owner}

	wallet, err := c.store.GetUserWallet(ctx, owner)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to get owner wallet", zap.String("owner", owner), zap.Error(err))
	}
	if wallet != nil {
		wrongErr.ClientType = wallet.ClientType
	}
	return wrongErr
}

func (c *coordinator) Rollback(ctx context.Context, caller domain.Caller, cid string) (*RollbackResult, error) {
	ctx = context.WithoutCancel(ctx)

	cid = strings.TrimSpace(cid)
	result := &RollbackResult{CID: cid}
	if cid == "" {
		return result, nil
	}

	address := domain.NormalizeAddress(caller.WalletAddress)
	if address == "" {
		return result, nil
	}

	if c.isLive(ctx, address, cid) {
		logger.WarnCtx(ctx, "Refusing to roll back the live card image",
			zap.String("cid", cid), zap.String("address", address))
		return result, nil
	}

	// only artifacts staged under the caller's own card name are reachable
	deleted, err := c.artifacts.DeleteByCID(ctx, cid, domain.CardImageName(address))
	if err != nil {
		return nil, fmt.Errorf("failed to delete artifact %s: %w", cid, err)
	}
	if deleted {
		c.metrics.ArtifactDeleted("rollback")
	}

	logger.InfoCtx(ctx, "Artifact rolled back", zap.String("cid", cid), zap.Bool("deleted", deleted))
	result.Deleted = deleted
	return result, nil
}

// isLive reports whether cid is the confirmed image of the card held by address
func (c *coordinator) isLive(ctx context.Context, address string, cid string) bool {
	card, err := c.store.GetCardByTokenOwner(ctx, address)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to check live card image", zap.String("address", address), zap.Error(err))
		return false
	}
	return card != nil && card.TokenID != nil && ipfs.ExtractCID(card.ImageURI) == cid
}

func (c *coordinator) SyncFromChain(ctx context.Context, address string) (*domain.Card, error) {
	address = domain.NormalizeAddress(address)

	tokenID := c.chain.TokenIDOf(ctx, address)
	if tokenID == "" {
		return nil, domain.ErrCardNotMinted
	}

	metadata, err := c.chain.ReadCardMetadata(ctx, tokenID)
	if err != nil {
		logger.WarnCtx(ctx, "Card metadata unavailable, syncing token only",
			zap.String("tokenId", tokenID), zap.Error(err))
		metadata = nil
	}

	userID, err := c.store.ResolveUserIDByAddress(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user of %s: %w", address, err)
	}

	row, err := c.store.SyncCardFromChain(ctx, store.SyncCardFromChainInput{
		UserID:     userID,
		TokenOwner: address,
		TokenID:    tokenID,
		Metadata:   metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sync card for token %s: %w", tokenID, err)
	}
	c.invalidate(ctx, row.ID)

	logger.InfoCtx(ctx, "Card synced from chain",
		zap.String("cardId", row.ID), zap.String("tokenId", tokenID), zap.String("owner", address))

	return cards.ToDomainCard(row, c.json)
}

func (c *coordinator) SpawnBackfill(ctx context.Context, caller domain.Caller) {
	if c.stopped.Load() {
		return
	}
	address := domain.NormalizeAddress(caller.WalletAddress)
	if !domain.IsValidAddress(address) {
		return
	}

	ctx = context.WithoutCancel(ctx)
	c.tasks.Submit(func() {
		ctx, cancel := context.WithTimeout(ctx, c.cfg.BackfillTimeout)
		defer cancel()

		if !c.chain.HasMinted(ctx, address) {
			return
		}

		existing, err := c.store.GetCardByTokenOwner(ctx, address)
		if err == nil && existing != nil && existing.TokenID != nil {
			return
		}

		if _, err := c.SyncFromChain(ctx, address); err != nil {
			logger.WarnCtx(ctx, "Background task failed",
				zap.String("task", domain.TASK_CARD_BACKFILL),
				zap.String("address", address),
				zap.Error(err))
		}
	})
}

func (c *coordinator) Wait() {
	if !c.stopped.CompareAndSwap(false, true) {
		return
	}
	c.tasks.StopAndWait()
}

// stage renders and uploads the card image under the wallet's artifact name
func (c *coordinator) stage(ctx context.Context, address string, fields domain.CardFields, picture []byte, previousImageURI string) (*domain.UploadedArtifact, error) {
	img, err := c.renderer.Render(ctx, render.CardInput{
		Address:          address,
		Nickname:         fields.Nickname,
		Role:             fields.Role,
		Bio:              fields.Bio,
		ProfileImage:     picture,
		PreviousImageURI: previousImageURI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render card: %w", err)
	}

	uploaded, err := c.artifacts.Upload(ctx, img.Data, domain.CardImageName(address), img.MimeType)
	if err != nil {
		c.metrics.ArtifactUpload("failed")
		return nil, err
	}
	c.metrics.ArtifactUpload("ok")
	return uploaded, nil
}

// discard removes an artifact staged for a mutation that cannot proceed
func (c *coordinator) discard(ctx context.Context, uploaded *domain.UploadedArtifact, reason string) {
	if err := c.artifacts.Delete(ctx, uploaded.ID); err != nil {
		logger.WarnCtx(ctx, "Failed to delete staged artifact",
			zap.String("cid", uploaded.CID), zap.String("reason", reason), zap.Error(err))
		return
	}
	c.metrics.ArtifactDeleted(reason)
}

// delegates lists the user's other wallets
func (c *coordinator) delegates(ctx context.Context, userID string, address string) []string {
	wallets, err := c.store.GetUserWalletAddresses(ctx, userID)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to list user wallets, minting without delegates", zap.String("userId", userID), zap.Error(err))
		return []string{}
	}

	delegates := make([]string, 0, len(wallets))
	for _, w := range wallets {
		w = domain.NormalizeAddress(w)
		if w == address || !domain.IsValidAddress(w) {
			continue
		}
		delegates = append(delegates, w)
	}
	return delegates
}

func (c *coordinator) invalidate(ctx context.Context, cardID string) {
	if err := c.cache.InvalidateCard(ctx, cardID); err != nil {
		logger.WarnCtx(ctx, "Read cache may serve stale card until ttl", zap.String("cardId", cardID), zap.Error(err))
	}
}

func (c *coordinator) recordSimulation(method string, err error) {
	var reverted *domain.SimulationRevertedError
	switch {
	case err == nil:
		c.metrics.Simulation(method, "ok")
	case errors.As(err, &reverted):
		c.metrics.Simulation(method, "reverted")
	default:
		c.metrics.Simulation(method, "error")
	}
}

// DiffSocials returns the providers whose handle changes, sorted by key.
// A provider dropped from desired is unlinked with an empty value; nil desired keeps every link.
func DiffSocials(current domain.Socials, desired map[string]string) ([]string, []string) {
	if desired == nil {
		return []string{}, []string{}
	}

	wanted := make(map[string]string, len(desired))
	for provider, handle := range desired {
		provider = strings.TrimSpace(provider)
		if provider == "" {
			continue
		}
		wanted[provider] = strings.TrimSpace(handle)
	}

	changes := map[string]string{}
	for provider, handle := range wanted {
		existing, linked := current[provider]
		switch {
		case handle == "" && linked:
			changes[provider] = ""
		case handle != "" && (!linked || existing.Handle != handle):
			changes[provider] = handle
		}
	}
	for provider := range current {
		if _, ok := wanted[provider]; !ok {
			changes[provider] = ""
		}
	}

	keys := make([]string, 0, len(changes))
	for k := range changes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := make([]string, len(keys))
	for i, k := range keys {
		values[i] = changes[k]
	}
	return keys, values
}

func socialMap(keys []string, values []string) map[string]string {
	m := make(map[string]string, len(keys))
	for i, k := range keys {
		m[k] = values[i]
	}
	return m
}
