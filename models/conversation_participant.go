package models

import "time"

// ConversationParticipant joins users to conversations. The composite
// primary key keeps membership to at most one row per user per
// conversation. LastReadAt is the basis for unread counts: messages
// created after it by another sender count as unread.
type ConversationParticipant struct {
	UserID         string    `gorm:"primaryKey;type:varchar(36)" json:"user_id"`
	ConversationID string    `gorm:"primaryKey;type:varchar(36)" json:"conversation_id"`
	JoinedAt       time.Time `json:"joined_at"`
	LastReadAt     time.Time `json:"last_read_at"`

	User User `gorm:"foreignKey:UserID;references:ID" json:"user"`
}
