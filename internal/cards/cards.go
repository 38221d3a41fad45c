package cards

import (
	"context"
	"fmt"

	"github.com/feral-file/ff-card-indexer/internal/adapter"
	"github.com/feral-file/ff-card-indexer/internal/cache"
	"github.com/feral-file/ff-card-indexer/internal/domain"
	"github.com/feral-file/ff-card-indexer/internal/store"
	"github.com/feral-file/ff-card-indexer/internal/store/schema"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Service serves card reads from the projection through the read cache
//
//go:generate mockgen -source=cards.go -destination=../mocks/cards.go -package=mocks -mock_names=Service=MockCardService
type Service interface {
	// GetCard returns a card by id or domain.ErrCardNotFound
	GetCard(ctx context.Context, id string) (*domain.Card, error)
	// ListCards returns a page of minted cards, newest first
	ListCards(ctx context.Context, limit int, offset uint64) (*domain.CardPage, error)
}

type service struct {
	store store.Store
	cache cache.ReadCache
	json  adapter.JSON
}

// NewService creates a card read service
func NewService(st store.Store, readCache cache.ReadCache, json adapter.JSON) Service {
	return &service{store: st, cache: readCache, json: json}
}

func (s *service) GetCard(ctx context.Context, id string) (*domain.Card, error) {
	generation := s.cache.Generation()
	if card, ok := s.cache.GetCard(ctx, id); ok {
		return card, nil
	}

	row, err := s.store.GetCardByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, domain.ErrCardNotFound
	}

	card, err := ToDomainCard(row, s.json)
	if err != nil {
		return nil, err
	}
	s.cache.SetCard(ctx, generation, card)
	return card, nil
}

func (s *service) ListCards(ctx context.Context, limit int, offset uint64) (*domain.CardPage, error) {
	limit = NormalizeLimit(limit)

	generation := s.cache.Generation()
	if page, ok := s.cache.GetList(ctx, limit, offset); ok {
		return page, nil
	}

	rows, total, err := s.store.ListCards(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	page := &domain.CardPage{
		Cards:  make([]domain.Card, 0, len(rows)),
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}
	for i := range rows {
		card, err := ToDomainCard(&rows[i], s.json)
		if err != nil {
			return nil, err
		}
		page.Cards = append(page.Cards, *card)
	}

	s.cache.SetList(ctx, generation, page)
	return page, nil
}

// NormalizeLimit clamps a requested page size
func NormalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

// ToDomainCard converts a projection row to the read model
func ToDomainCard(row *schema.Card, json adapter.JSON) (*domain.Card, error) {
	socials := domain.Socials{}
	if len(row.Socials) > 0 {
		if err := json.Unmarshal(row.Socials, &socials); err != nil {
			return nil, fmt.Errorf("failed to decode socials of card %s: %w", row.ID, err)
		}
	}

	card := &domain.Card{
		ID:         row.ID,
		UserID:     row.UserID,
		TokenOwner: row.TokenOwner,
		Nickname:   row.Nickname,
		Role:       row.Role,
		Bio:        row.Bio,
		ImageURI:   row.ImageURI,
		Socials:    socials,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
	if row.TokenID != nil {
		card.TokenID = *row.TokenID
	}
	return card, nil
}
