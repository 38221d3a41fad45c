package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/feral-file/ff-card-indexer/internal/store/schema"
)

// CursorStore stores the last block the indexer has fully processed per log stream
type CursorStore interface {
	// GetBlockCursor returns the stored block for a stream, 0 when none
	GetBlockCursor(ctx context.Context, stream string) (uint64, error)
	// SetBlockCursor stores the block for a stream
	SetBlockCursor(ctx context.Context, stream string, blockNumber uint64) error
}

type cursorStore struct {
	db *gorm.DB
}

// NewCursorStore creates a new cursor store
func NewCursorStore(db *gorm.DB) CursorStore {
	return &cursorStore{db: db}
}

func cursorKey(stream string) string {
	return fmt.Sprintf("block_cursor:%s", stream)
}

func (s *cursorStore) GetBlockCursor(ctx context.Context, stream string) (uint64, error) {
	var kv schema.KeyValueStore
	err := s.db.WithContext(ctx).Where("key = ?", cursorKey(stream)).First(&kv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get block cursor: %w", err)
	}

	blockNumber, err := strconv.ParseUint(kv.Value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse block cursor %q: %w", kv.Value, err)
	}

	return blockNumber, nil
}

func (s *cursorStore) SetBlockCursor(ctx context.Context, stream string, blockNumber uint64) error {
	kv := schema.KeyValueStore{
		Key:   cursorKey(stream),
		Value: strconv.FormatUint(blockNumber, 10),
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&kv).Error
	if err != nil {
		return fmt.Errorf("failed to set block cursor: %w", err)
	}

	return nil
}
