package models

import "time"

// Conversation is either a direct chat between exactly two users or a
// named group chat. For direct chats DirectKey holds the two participant
// ids sorted and joined with ":"; its unique index guarantees at most one
// direct conversation per user pair even under concurrent creation.
// Groups keep DirectKey NULL so any number of them may coexist.
type Conversation struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name      *string   `gorm:"size:120" json:"name"`
	IsGroup   bool      `gorm:"not null;default:false" json:"is_group"`
	DirectKey *string   `gorm:"size:80;uniqueIndex" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`

	Participants []ConversationParticipant `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE" json:"participants,omitempty"`
	Messages     []Message                 `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE" json:"messages,omitempty"`
}
