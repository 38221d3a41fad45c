package schema

import (
	"time"

	"gorm.io/datatypes"
)

// Card represents the cards table - the off-chain projection of one profile card.
// TokenID is NULL while the card is a draft.
type Card struct {
	// ID is the card identifier exposed to clients
	ID string `gorm:"column:id;primaryKey;type:uuid"`
	// UserID is the owning internal user; one card per user
	UserID string `gorm:"column:user_id;not null;type:text;uniqueIndex:idx_cards_user_id"`
	// TokenOwner is the lowercased wallet that owns (or will own) the token
	TokenOwner string `gorm:"column:token_owner;not null;type:text;index:idx_cards_token_owner"`
	// TokenID is the on-chain token id, set only by the mint handler
	TokenID  *string `gorm:"column:token_id;type:numeric(78,0);uniqueIndex:idx_cards_token_id"`
	Nickname string  `gorm:"column:nickname;not null;type:text;default:''"`
	Role     string  `gorm:"column:role;not null;type:text;default:''"`
	Bio      string  `gorm:"column:bio;not null;type:text;default:''"`
	// ImageURI is the gateway URL of the rendered card image
	ImageURI string `gorm:"column:image_uri;not null;type:text;default:''"`
	// Socials maps provider to {handle, verified}
	Socials datatypes.JSON `gorm:"column:socials;not null;type:jsonb;default:'{}'"`
	// CreatedAt is the timestamp when this record was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when this record was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Card model
func (Card) TableName() string {
	return "cards"
}

// Minted reports whether the mint has been confirmed on chain
func (c *Card) Minted() bool {
	return c.TokenID != nil && *c.TokenID != ""
}
