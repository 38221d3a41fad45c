package schema

import (
	"time"

	"gorm.io/datatypes"

	"github.com/feral-file/ff-card-indexer/internal/domain"
)

// ChainEvent represents the chain_events table - the append-only log of confirmed contract events.
// (tx_hash, log_index) is unique and is the ingestion idempotency key.
type ChainEvent struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// TxHash is the hash of the transaction that emitted the log
	TxHash string `gorm:"column:tx_hash;not null;type:text;uniqueIndex:idx_chain_events_tx_log"`
	// LogIndex is the position of the log within its block
	LogIndex uint `gorm:"column:log_index;not null;uniqueIndex:idx_chain_events_tx_log"`
	// BlockNumber is the block the log was included in
	BlockNumber uint64 `gorm:"column:block_number;not null;type:bigint"`
	// BlockHash is the hash of that block
	BlockHash string `gorm:"column:block_hash;not null;type:text"`
	// ContractAddress is the lowercased emitting contract
	ContractAddress string `gorm:"column:contract_address;not null;type:text"`
	// EventName is the canonical event name (MintCard, CardEdited, ..., Unknown)
	EventName domain.EventName `gorm:"column:event_name;not null;type:text"`
	// Args is the decoded argument map; integers are stored as decimal strings
	Args datatypes.JSON `gorm:"column:args;not null;type:jsonb"`
	// TxFrom is the transaction sender (empty when the receipt lookup failed)
	TxFrom *string `gorm:"column:tx_from;type:text"`
	// TxTo is the transaction recipient
	TxTo *string `gorm:"column:tx_to;type:text"`
	// GasUsed comes from the transaction receipt
	GasUsed *uint64 `gorm:"column:gas_used;type:bigint"`
	// TxStatus is the receipt status (1 success, 0 failure)
	TxStatus *uint64 `gorm:"column:tx_status;type:bigint"`
	// Processed flips to true once the event handler ran without error
	Processed bool `gorm:"column:processed;not null;default:false"`
	// ProcessedAt is when Processed flipped
	ProcessedAt *time.Time `gorm:"column:processed_at;type:timestamptz"`
	// CreatedAt is when the event was ingested
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the ChainEvent model
func (ChainEvent) TableName() string {
	return "chain_events"
}
