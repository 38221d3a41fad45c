package schema

import "time"

// QuestStatus is the progress of a user on one quest
type QuestStatus string

const (
	QuestStatusPending   QuestStatus = "pending"
	QuestStatusClaimable QuestStatus = "claimable"
	QuestStatusClaimed   QuestStatus = "claimed"
)

// UserQuest represents the user_quests table
type UserQuest struct {
	ID        uint64      `gorm:"column:id;primaryKey;autoIncrement"`
	UserID    string      `gorm:"column:user_id;not null;type:text;uniqueIndex:idx_user_quests_user_quest"`
	QuestKey  string      `gorm:"column:quest_key;not null;type:text;uniqueIndex:idx_user_quests_user_quest"`
	Status    QuestStatus `gorm:"column:status;not null;type:text"`
	CreatedAt time.Time   `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	UpdatedAt time.Time   `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

func (UserQuest) TableName() string {
	return "user_quests"
}
