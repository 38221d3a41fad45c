package schema

import "time"

// User represents the users table. The core only reads it to resolve wallets to users.
type User struct {
	ID string `gorm:"column:id;primaryKey;type:text"`
	// WalletAddress is the lowercased primary wallet
	WalletAddress string    `gorm:"column:wallet_address;not null;type:text;uniqueIndex:idx_users_wallet_address"`
	CreatedAt     time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	UpdatedAt     time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

func (User) TableName() string {
	return "users"
}

// UserWallet represents the user_wallets table - every wallet a user signed in with
type UserWallet struct {
	ID     uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	UserID string `gorm:"column:user_id;not null;type:text;index:idx_user_wallets_user_id"`
	// Address is the lowercased wallet address
	Address string `gorm:"column:address;not null;type:text;uniqueIndex:idx_user_wallets_address"`
	// ClientType names the wallet client, e.g. metamask, coinbase_wallet, farcaster
	ClientType string    `gorm:"column:client_type;not null;type:text"`
	IsPrimary  bool      `gorm:"column:is_primary;not null;default:false"`
	CreatedAt  time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

func (UserWallet) TableName() string {
	return "user_wallets"
}
