package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/feral-file/ff-card-indexer/internal/domain"
	"github.com/feral-file/ff-card-indexer/internal/store/schema"
)

// pgStore implements Store using PostgreSQL with GORM
type pgStore struct {
	CursorStore
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{
		CursorStore: NewCursorStore(db),
		db:          db,
	}
}

// ConfigureConnectionPool configures the database connection pool settings
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime =
		NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// NormalizeConnectionPoolSettings fills zero values with defaults and caps idle connections at the open limit
func NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (int, int, time.Duration, time.Duration) {
	if maxOpenConns <= 0 {
		maxOpenConns = 20
	}
	if maxIdleConns <= 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime <= 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime <= 0 {
		connMaxIdleTime = 10 * time.Minute
	}
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	return maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime
}

// firstOrNil runs query.First and maps gorm.ErrRecordNotFound to a nil result
func firstOrNil[T any](query *gorm.DB) (*T, error) {
	var out T
	if err := query.First(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

// =============================================================================
// Chain events
// =============================================================================

func (s *pgStore) GetChainEvent(ctx context.Context, txHash string, logIndex uint) (*schema.ChainEvent, error) {
	event, err := firstOrNil[schema.ChainEvent](s.db.WithContext(ctx).
		Where("tx_hash = ? AND log_index = ?", strings.ToLower(txHash), logIndex))
	if err != nil {
		return nil, fmt.Errorf("failed to get chain event: %w", err)
	}
	return event, nil
}

func (s *pgStore) CreateChainEvent(ctx context.Context, input CreateChainEventInput) (*schema.ChainEvent, bool, error) {
	event := schema.ChainEvent{
		TxHash:          strings.ToLower(input.TxHash),
		LogIndex:        input.LogIndex,
		BlockNumber:     input.BlockNumber,
		BlockHash:       strings.ToLower(input.BlockHash),
		ContractAddress: domain.NormalizeAddress(input.ContractAddress),
		EventName:       input.EventName,
		Args:            input.Args,
		TxFrom:          input.TxFrom,
		TxTo:            input.TxTo,
		GasUsed:         input.GasUsed,
		TxStatus:        input.TxStatus,
	}

	// A conflicting (tx_hash, log_index) leaves ID at 0: another transport got there first
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tx_hash"}, {Name: "log_index"}},
			DoNothing: true,
		}).
		Clauses(clause.Returning{Columns: []clause.Column{}}).
		Create(&event).Error
	if err != nil {
		return nil, false, fmt.Errorf("failed to create chain event: %w", err)
	}

	if event.ID == 0 {
		existing, err := s.GetChainEvent(ctx, input.TxHash, input.LogIndex)
		if err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}

	return &event, true, nil
}

func (s *pgStore) MarkChainEventProcessed(ctx context.Context, id uint64) error {
	err := s.db.WithContext(ctx).
		Model(&schema.ChainEvent{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"processed":    true,
			"processed_at": gorm.Expr("now()"),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to mark chain event %d processed: %w", id, err)
	}
	return nil
}

func (s *pgStore) GetUnprocessedChainEvents(ctx context.Context, names []domain.EventName, afterID uint64, limit int) ([]schema.ChainEvent, error) {
	if len(names) == 0 {
		return nil, nil
	}

	var events []schema.ChainEvent
	err := s.db.WithContext(ctx).
		Where("processed = ? AND event_name IN ? AND id > ?", false, names, afterID).
		Order("id ASC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get unprocessed chain events: %w", err)
	}
	return events, nil
}

// =============================================================================
// Cards
// =============================================================================

func (s *pgStore) GetCardByID(ctx context.Context, id string) (*schema.Card, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	card, err := firstOrNil[schema.Card](s.db.WithContext(ctx).Where("id = ?", id))
	if err != nil {
		return nil, fmt.Errorf("failed to get card by id: %w", err)
	}
	return card, nil
}

func (s *pgStore) GetCardByUserID(ctx context.Context, userID string) (*schema.Card, error) {
	card, err := firstOrNil[schema.Card](s.db.WithContext(ctx).Where("user_id = ?", userID))
	if err != nil {
		return nil, fmt.Errorf("failed to get card by user id: %w", err)
	}
	return card, nil
}

func (s *pgStore) GetCardByTokenOwner(ctx context.Context, address string) (*schema.Card, error) {
	// A wallet may own a minted card while an older draft still points at it; prefer the minted one
	card, err := firstOrNil[schema.Card](s.db.WithContext(ctx).
		Where("token_owner = ?", domain.NormalizeAddress(address)).
		Order("token_id IS NULL, updated_at DESC"))
	if err != nil {
		return nil, fmt.Errorf("failed to get card by token owner: %w", err)
	}
	return card, nil
}

func (s *pgStore) GetCardByTokenID(ctx context.Context, tokenID string) (*schema.Card, error) {
	card, err := firstOrNil[schema.Card](s.db.WithContext(ctx).Where("token_id = ?", tokenID))
	if err != nil {
		return nil, fmt.Errorf("failed to get card by token id: %w", err)
	}
	return card, nil
}

func (s *pgStore) ListCards(ctx context.Context, limit int, offset uint64) ([]schema.Card, uint64, error) {
	query := s.db.WithContext(ctx).Model(&schema.Card{}).Where("token_id IS NOT NULL")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count cards: %w", err)
	}

	var cards []schema.Card
	err := query.
		Order("created_at DESC, id ASC").
		Limit(limit).
		Offset(int(offset)). //nolint:gosec,G115 // offset is validated by the caller
		Find(&cards).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list cards: %w", err)
	}

	return cards, uint64(total), nil //nolint:gosec,G115
}

func (s *pgStore) UpsertDraftCard(ctx context.Context, input UpsertDraftCardInput) (*schema.Card, error) {
	var result schema.Card
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := firstOrNil[schema.Card](tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", input.UserID))
		if err != nil {
			return fmt.Errorf("failed to lock card: %w", err)
		}

		if existing != nil && existing.Minted() {
			return domain.ErrAlreadyMinted
		}

		var previous datatypes.JSON
		if existing != nil {
			previous = existing.Socials
		}
		socials, err := mergeSocials(previous, input.Socials)
		if err != nil {
			return err
		}

		if existing == nil {
			result = schema.Card{
				ID:         uuid.NewString(),
				UserID:     input.UserID,
				TokenOwner: domain.NormalizeAddress(input.TokenOwner),
				Nickname:   input.Fields.Nickname,
				Role:       input.Fields.Role,
				Bio:        input.Fields.Bio,
				ImageURI:   input.Fields.ImageURI,
				Socials:    socials,
			}
			if err := tx.Create(&result).Error; err != nil {
				return fmt.Errorf("failed to create draft card: %w", err)
			}
			return nil
		}

		result = *existing
		result.TokenOwner = domain.NormalizeAddress(input.TokenOwner)
		result.Nickname = input.Fields.Nickname
		result.Role = input.Fields.Role
		result.Bio = input.Fields.Bio
		result.ImageURI = input.Fields.ImageURI
		result.Socials = socials
		result.UpdatedAt = time.Now()

		err = tx.Model(&schema.Card{}).
			Where("id = ? AND token_id IS NULL", existing.ID).
			Updates(map[string]interface{}{
				"token_owner": result.TokenOwner,
				"nickname":    result.Nickname,
				"role":        result.Role,
				"bio":         result.Bio,
				"image_uri":   result.ImageURI,
				"socials":     result.Socials,
				"updated_at":  result.UpdatedAt,
			}).Error
		if err != nil {
			return fmt.Errorf("failed to update draft card: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (s *pgStore) SyncCardFromChain(ctx context.Context, input SyncCardFromChainInput) (*schema.Card, error) {
	owner := domain.NormalizeAddress(input.TokenOwner)

	var result schema.Card
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lookup order: the token itself, then the user's card, then an unminted card of the owner wallet
		card, err := firstOrNil[schema.Card](tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("token_id = ?", input.TokenID))
		if err != nil {
			return fmt.Errorf("failed to lock card by token id: %w", err)
		}
		if card == nil && input.UserID != "" {
			card, err = firstOrNil[schema.Card](tx.
				Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("user_id = ?", input.UserID))
			if err != nil {
				return fmt.Errorf("failed to lock card by user id: %w", err)
			}
		}
		if card == nil {
			card, err = firstOrNil[schema.Card](tx.
				Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("token_owner = ? AND token_id IS NULL", owner))
			if err != nil {
				return fmt.Errorf("failed to lock draft card by owner: %w", err)
			}
		}

		creating := card == nil
		if creating {
			userID := input.UserID
			if userID == "" {
				// Token minted by a wallet no user signed in with yet
				userID = owner
			}
			card = &schema.Card{
				ID:      uuid.NewString(),
				UserID:  userID,
				Socials: datatypes.JSON("{}"),
			}
		}

		tokenID := input.TokenID
		card.TokenID = &tokenID
		card.TokenOwner = owner

		if input.Metadata != nil {
			entries := make(map[string]string, len(input.Metadata.Socials))
			for _, social := range input.Metadata.Socials {
				entries[social.Key] = social.Value
			}
			socials, err := mergeSocials(card.Socials, entries)
			if err != nil {
				return err
			}
			card.Nickname = input.Metadata.Nickname
			card.Role = input.Metadata.Role
			card.Bio = input.Metadata.Bio
			card.ImageURI = input.Metadata.ImageURI
			card.Socials = socials
		}
		card.UpdatedAt = time.Now()

		if creating {
			if err := tx.Create(card).Error; err != nil {
				return fmt.Errorf("failed to create card: %w", err)
			}
		} else {
			err := tx.Model(&schema.Card{}).
				Where("id = ?", card.ID).
				Updates(map[string]interface{}{
					"token_id":    card.TokenID,
					"token_owner": card.TokenOwner,
					"nickname":    card.Nickname,
					"role":        card.Role,
					"bio":         card.Bio,
					"image_uri":   card.ImageURI,
					"socials":     card.Socials,
					"updated_at":  card.UpdatedAt,
				}).Error
			if err != nil {
				return fmt.Errorf("failed to update card: %w", err)
			}
		}

		result = *card
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// mergeSocials builds the socials column from provider->handle entries.
// Verification is an off-chain fact about a handle, so it survives only while the handle is unchanged.
func mergeSocials(previous datatypes.JSON, entries map[string]string) (datatypes.JSON, error) {
	existing := domain.Socials{}
	if len(previous) > 0 {
		if err := json.Unmarshal(previous, &existing); err != nil {
			return nil, fmt.Errorf("failed to decode socials: %w", err)
		}
	}

	merged := make(domain.Socials, len(entries))
	for provider, handle := range entries {
		if provider == "" || handle == "" {
			continue
		}
		account := domain.SocialAccount{Handle: handle}
		if old, ok := existing[provider]; ok && old.Handle == handle {
			account.Verified = old.Verified
		}
		merged[provider] = account
	}

	raw, err := json.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("failed to encode socials: %w", err)
	}
	return datatypes.JSON(raw), nil
}

// =============================================================================
// Users
// =============================================================================

func (s *pgStore) ResolveUserIDByAddress(ctx context.Context, address string) (string, error) {
	address = domain.NormalizeAddress(address)

	user, err := firstOrNil[schema.User](s.db.WithContext(ctx).Where("wallet_address = ?", address))
	if err != nil {
		return "", fmt.Errorf("failed to resolve user by primary wallet: %w", err)
	}
	if user != nil {
		return user.ID, nil
	}

	wallet, err := s.GetUserWallet(ctx, address)
	if err != nil {
		return "", err
	}
	if wallet != nil {
		return wallet.UserID, nil
	}

	return "", nil
}

func (s *pgStore) GetUserWallet(ctx context.Context, address string) (*schema.UserWallet, error) {
	wallet, err := firstOrNil[schema.UserWallet](s.db.WithContext(ctx).
		Where("address = ?", domain.NormalizeAddress(address)))
	if err != nil {
		return nil, fmt.Errorf("failed to get user wallet: %w", err)
	}
	return wallet, nil
}

func (s *pgStore) GetUserWalletAddresses(ctx context.Context, userID string) ([]string, error) {
	var addresses []string
	err := s.db.WithContext(ctx).Raw(`
		SELECT wallet_address AS address FROM users WHERE id = ?
		UNION
		SELECT address FROM user_wallets WHERE user_id = ?
		ORDER BY address`, userID, userID).
		Scan(&addresses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get user wallet addresses: %w", err)
	}
	return addresses, nil
}

func (s *pgStore) MarkQuestClaimable(ctx context.Context, userID string, questKey string) error {
	quest := schema.UserQuest{
		UserID:   userID,
		QuestKey: questKey,
		Status:   schema.QuestStatusClaimable,
	}

	// Never downgrade a claimed quest
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "quest_key"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"status":     schema.QuestStatusClaimable,
				"updated_at": gorm.Expr("now()"),
			}),
			Where: clause.Where{Exprs: []clause.Expression{
				clause.Eq{Column: clause.Column{Table: "user_quests", Name: "status"}, Value: schema.QuestStatusPending},
			}},
		}).
		Create(&quest).Error
	if err != nil {
		return fmt.Errorf("failed to mark quest %s claimable: %w", questKey, err)
	}
	return nil
}
